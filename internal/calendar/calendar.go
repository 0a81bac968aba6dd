package calendar

import (
	"context"
	"sort"

	"cloud.google.com/go/civil"
)

// DayType represents the type of day
type DayType int

const (
	DayTypeWorkday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
	DayTypeShortened
)

func (t DayType) String() string {
	switch t {
	case DayTypeWorkday:
		return "workday"
	case DayTypeWeekend:
		return "weekend"
	case DayTypeHoliday:
		return "holiday"
	case DayTypeShortened:
		return "shortened"
	}
	return "unknown"
}

// MarshalText encodes the day type by name
func (t DayType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// DayInfo represents information about a specific day
type DayInfo struct {
	Date civil.Date `json:"date"`
	Type DayType    `json:"type"`
	Note string     `json:"note,omitempty"`
}

// Calendar is a source of public holidays
type Calendar interface {
	// Holidays returns the holidays between from and to inclusive, in ascending order
	Holidays(ctx context.Context, from, to civil.Date) ([]DayInfo, error)
}

// StaticCalendar serves a fixed list of holidays
type StaticCalendar struct {
	days []DayInfo
}

// NewStaticCalendar creates a calendar from known holiday dates
func NewStaticCalendar(dates []civil.Date, note string) *StaticCalendar {
	days := make([]DayInfo, 0, len(dates))
	for _, d := range dates {
		days = append(days, DayInfo{Date: d, Type: DayTypeHoliday, Note: note})
	}
	sortDays(days)
	return &StaticCalendar{days: days}
}

// Holidays returns the holidays between from and to inclusive
func (sc *StaticCalendar) Holidays(_ context.Context, from, to civil.Date) ([]DayInfo, error) {
	return filterRange(sc.days, from, to), nil
}

func filterRange(days []DayInfo, from, to civil.Date) []DayInfo {
	var result []DayInfo
	for _, day := range days {
		if day.Date.Before(from) || day.Date.After(to) {
			continue
		}
		result = append(result, day)
	}
	return result
}

func sortDays(days []DayInfo) {
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
}
