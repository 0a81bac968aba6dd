package dateutil

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Weekday returns the day of the week for the given date.
// The date is evaluated at UTC midnight so DST transitions never shift it.
func Weekday(date civil.Date) time.Weekday {
	return date.In(time.UTC).Weekday()
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date civil.Date) bool {
	weekday := Weekday(date)
	return weekday == time.Saturday || weekday == time.Sunday
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseDate parses a strict YYYY-MM-DD date string.
// Out-of-range days such as 2024-02-30 are rejected.
func ParseDate(dateStr string) (civil.Date, error) {
	date, err := civil.ParseDate(strings.TrimSpace(dateStr))
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", dateStr)
	}
	return date, nil
}

// ParseWeekday parses an English weekday name ("sunday", "Sun") into time.Weekday
func ParseWeekday(name string) (time.Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for day := time.Sunday; day <= time.Saturday; day++ {
		full := strings.ToLower(day.String())
		if key == full || key == full[:3] {
			return day, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", name)
}
