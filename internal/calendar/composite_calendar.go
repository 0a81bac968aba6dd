package calendar

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"
)

// CompositeCalendar merges holidays from several calendars.
// A failing calendar is logged and skipped so one broken source never
// hides the holidays known to the others.
type CompositeCalendar struct {
	calendars []Calendar
	logger    *zap.Logger
}

// NewCompositeCalendar creates a new CompositeCalendar
func NewCompositeCalendar(logger *zap.Logger, calendars ...Calendar) *CompositeCalendar {
	return &CompositeCalendar{
		calendars: calendars,
		logger:    logger,
	}
}

// PartialError reports calendars that failed while at least one other answered.
// The holidays returned alongside it come from the calendars that answered.
type PartialError struct {
	Failed []error
}

func (e *PartialError) Error() string {
	msgs := make([]string, 0, len(e.Failed))
	for _, err := range e.Failed {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d holiday calendar(s) failed: %s", len(e.Failed), strings.Join(msgs, "; "))
}

func (e *PartialError) Unwrap() []error {
	return e.Failed
}

// Len returns the number of merged calendars
func (cc *CompositeCalendar) Len() int {
	return len(cc.calendars)
}

// Holidays returns the union of all calendars' holidays between from and to.
// When some calendars fail the union of the rest is returned with a *PartialError;
// when every calendar fails no holidays are returned.
func (cc *CompositeCalendar) Holidays(ctx context.Context, from, to civil.Date) ([]DayInfo, error) {
	seen := make(map[civil.Date]bool)
	var result []DayInfo
	var failures []error

	for i, cal := range cc.calendars {
		days, err := cal.Holidays(ctx, from, to)
		if err != nil {
			failures = append(failures, err)
			cc.logger.Warn("Holiday calendar failed, skipping",
				zap.Int("calendar", i),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
				zap.Error(err))
			continue
		}

		for _, day := range days {
			if seen[day.Date] {
				continue
			}
			seen[day.Date] = true
			result = append(result, day)
		}
	}

	if len(failures) > 0 && len(failures) == len(cc.calendars) {
		return nil, fmt.Errorf("all %d holiday calendars failed: %w", len(failures), failures[len(failures)-1])
	}

	sortDays(result)
	if len(failures) > 0 {
		return result, &PartialError{Failed: failures}
	}
	return result, nil
}
