package vacation

import "cloud.google.com/go/civil"

// DefaultMaxWalkDays bounds how many calendar days a single walk may visit (~100 years)
const DefaultMaxWalkDays = 36600

// CountInclusiveDays counts the days from start to end inclusive that are not holidays.
// The cost depends on the number of holidays, not on the length of the range.
// A reversed range counts nothing.
func CountInclusiveDays(start, end civil.Date, holidays HolidaySet) int {
	if end.Before(start) {
		return 0
	}
	return end.DaysSince(start) + 1 - holidays.CountBetween(start, end)
}

// AdvanceToDuration walks forward from start until duration non-holiday days are used
// and returns the day that used the last one. duration must be at least 1.
func AdvanceToDuration(start civil.Date, duration int, holidays HolidaySet, maxDays int) (civil.Date, error) {
	return walk(start, 1, duration, holidays, maxDays)
}

// RetreatToDuration walks backward from end until duration non-holiday days are used
// and returns the day that used the last one. duration must be at least 1.
func RetreatToDuration(end civil.Date, duration int, holidays HolidaySet, maxDays int) (civil.Date, error) {
	return walk(end, -1, duration, holidays, maxDays)
}

func walk(from civil.Date, step, duration int, holidays HolidaySet, maxDays int) (civil.Date, error) {
	if maxDays <= 0 {
		maxDays = DefaultMaxWalkDays
	}

	remaining := duration
	current := from
	for visited := 1; ; visited++ {
		if !holidays.Contains(current) {
			remaining--
		}
		if remaining <= 0 {
			return current, nil
		}
		if visited >= maxDays {
			return civil.Date{}, newError(KindUnreachable,
				"%d vacation day(s) could not be placed within %d calendar days of %s",
				duration, maxDays, from)
		}
		current = current.AddDays(step)
	}
}
