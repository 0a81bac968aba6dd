package vacation

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/username/vacation-calc/pkg/dateutil"
)

// DefaultRestDay is the day of the week flagged when it lands on a vacation boundary.
// Weekdays follow time.Weekday, where Sunday is 0 (first day of a Sunday-starting week).
const DefaultRestDay = time.Sunday

// Warnings flags boundary dates that fall on the rest day
type Warnings struct {
	StartIsRestDay bool `json:"start_is_rest_day"`
	EndIsRestDay   bool `json:"end_is_rest_day"`
}

// Any reports whether any warning is set
func (w Warnings) Any() bool {
	return w.StartIsRestDay || w.EndIsRestDay
}

// FlagRestDay reports whether date falls on restDay
func FlagRestDay(date civil.Date, restDay time.Weekday) bool {
	return dateutil.Weekday(date) == restDay
}

// Advise flags the start and end boundaries of a vacation
func Advise(start, end civil.Date, restDay time.Weekday) Warnings {
	return Warnings{
		StartIsRestDay: FlagRestDay(start, restDay),
		EndIsRestDay:   FlagRestDay(end, restDay),
	}
}
