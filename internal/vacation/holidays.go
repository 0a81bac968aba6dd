package vacation

import (
	"sort"
	"strings"

	"cloud.google.com/go/civil"
)

// HolidaySet is a set of calendar days excluded from day counting, keyed by YYYY-MM-DD
type HolidaySet map[string]struct{}

// NewHolidaySet creates a set containing the given dates
func NewHolidaySet(dates ...civil.Date) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set.Add(d)
	}
	return set
}

// ParseHolidays parses free text into a holiday set.
// Tokens are separated by any run of commas, semicolons, whitespace or newlines.
// Tokens that are not valid YYYY-MM-DD dates are dropped.
func ParseHolidays(text string) HolidaySet {
	return ParseHolidayList(strings.FieldsFunc(text, isHolidaySeparator))
}

// ParseHolidayList builds a holiday set from pre-split tokens, dropping invalid ones
func ParseHolidayList(tokens []string) HolidaySet {
	set := make(HolidaySet)
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		date, err := civil.ParseDate(token)
		if err != nil {
			continue
		}
		set.Add(date)
	}
	return set
}

func isHolidaySeparator(r rune) bool {
	switch r {
	case ',', ';', ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// Add inserts a date into the set
func (s HolidaySet) Add(date civil.Date) {
	s[date.String()] = struct{}{}
}

// Contains reports whether the date is a holiday. A nil set contains nothing.
func (s HolidaySet) Contains(date civil.Date) bool {
	_, ok := s[date.String()]
	return ok
}

// Len returns the number of holidays in the set
func (s HolidaySet) Len() int {
	return len(s)
}

// CountBetween returns how many holidays fall within [from, to]
func (s HolidaySet) CountBetween(from, to civil.Date) int {
	count := 0
	for key := range s {
		date, err := civil.ParseDate(key)
		if err != nil {
			continue
		}
		if !date.Before(from) && !date.After(to) {
			count++
		}
	}
	return count
}

// Dates returns the holidays in ascending order
func (s HolidaySet) Dates() []civil.Date {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	dates := make([]civil.Date, 0, len(keys))
	for _, key := range keys {
		// keys only ever come from civil.Date.String
		date, err := civil.ParseDate(key)
		if err != nil {
			continue
		}
		dates = append(dates, date)
	}
	return dates
}
