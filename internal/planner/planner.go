package planner

import (
	"context"
	"errors"

	"cloud.google.com/go/civil"
	"github.com/username/vacation-calc/internal/calendar"
	"github.com/username/vacation-calc/internal/vacation"
	"go.uber.org/zap"
)

// Request holds raw calculation inputs as entered by a user
type Request struct {
	Mode     vacation.Mode
	Start    string
	End      string
	Duration string
	Holidays string
}

// Plan is a calculation result together with the holidays it skipped.
// CalendarWarnings lists calendar lookups that failed, in which case holidays
// known only to the failing source were not applied.
type Plan struct {
	*vacation.Result
	RestDay          string             `json:"rest_day"`
	Holidays         []calendar.DayInfo `json:"holidays"`
	CalendarWarnings []string           `json:"calendar_warnings,omitempty"`
}

// lookup accumulates calendar holidays for a single plan
type lookup struct {
	set      vacation.HolidaySet
	notes    map[civil.Date]calendar.DayInfo
	warnings []string
}

func (l *lookup) warn(msg string) {
	for _, existing := range l.warnings {
		if existing == msg {
			return
		}
	}
	l.warnings = append(l.warnings, msg)
}

// Planner combines typed-in holidays with a holiday calendar and runs the engine
type Planner struct {
	engine   *vacation.Engine
	calendar calendar.Calendar
	logger   *zap.Logger
}

// NewPlanner creates a new planner. cal may be nil when only typed-in holidays are used.
func NewPlanner(engine *vacation.Engine, cal calendar.Calendar, logger *zap.Logger) *Planner {
	return &Planner{
		engine:   engine,
		calendar: cal,
		logger:   logger,
	}
}

// Plan computes the missing vacation quantity for req.
// Calendar lookup failures are logged and never fail the plan.
func (p *Planner) Plan(ctx context.Context, req Request) (*Plan, error) {
	in, err := vacation.ParseInput(req.Mode, vacation.TextInput{
		Start:    req.Start,
		End:      req.End,
		Duration: req.Duration,
		Holidays: req.Holidays,
	})
	if err != nil {
		p.logger.Debug("Rejected vacation input",
			zap.String("mode", string(req.Mode)),
			zap.Error(err))
		return nil, err
	}

	typedIn := in.Holidays.Len()
	found := &lookup{set: in.Holidays, notes: make(map[civil.Date]calendar.DayInfo)}
	if p.calendar != nil {
		p.collectHolidays(ctx, req.Mode, in, found)
	}

	result, err := p.engine.Calculate(req.Mode, in)
	if err != nil {
		p.logger.Debug("Vacation calculation failed",
			zap.String("mode", string(req.Mode)),
			zap.Error(err))
		return nil, err
	}

	plan := &Plan{
		Result:           result,
		RestDay:          p.engine.RestDay().String(),
		Holidays:         []calendar.DayInfo{},
		CalendarWarnings: found.warnings,
	}
	for _, date := range in.Holidays.Dates() {
		if date.Before(result.Start) || date.After(result.End) {
			continue
		}
		day, ok := found.notes[date]
		if !ok {
			day = calendar.DayInfo{Date: date, Type: calendar.DayTypeHoliday}
		}
		plan.Holidays = append(plan.Holidays, day)
	}

	p.logger.Debug("Vacation calculated",
		zap.String("mode", string(result.Mode)),
		zap.String("start", result.Start.String()),
		zap.String("end", result.End.String()),
		zap.Int("duration", result.Duration),
		zap.Int("holidays_typed_in", typedIn),
		zap.Int("holidays_known", in.Holidays.Len()),
		zap.Int("holidays_skipped", len(plan.Holidays)),
		zap.Int("calendar_warnings", len(plan.CalendarWarnings)),
		zap.Bool("start_is_rest_day", result.Warnings.StartIsRestDay),
		zap.Bool("end_is_rest_day", result.Warnings.EndIsRestDay))

	return plan, nil
}

// collectHolidays merges calendar holidays into in.Holidays for every day the
// calculation can touch. Walks grow their window until it holds enough working days.
func (p *Planner) collectHolidays(ctx context.Context, mode vacation.Mode, in vacation.Input, found *lookup) {
	switch mode {
	case vacation.ModeDuration:
		if in.Start == nil || in.End == nil || in.End.Before(*in.Start) {
			return
		}
		p.fetch(ctx, *in.Start, *in.End, found)
	case vacation.ModeEnd:
		if in.Start == nil || in.Duration == nil || *in.Duration < 1 {
			return
		}
		p.fetchWalkWindow(ctx, *in.Start, 1, *in.Duration, found)
	case vacation.ModeStart:
		if in.End == nil || in.Duration == nil || *in.Duration < 1 {
			return
		}
		p.fetchWalkWindow(ctx, *in.End, -1, *in.Duration, found)
	}
}

func (p *Planner) fetchWalkWindow(ctx context.Context, anchor civil.Date, step, duration int, found *lookup) {
	limit := p.engine.MaxWalkDays()
	fetched := 0 // days already fetched, counted from anchor
	span := duration

	for span > fetched && span <= limit {
		near, far := anchor.AddDays(step*fetched), anchor.AddDays(step*(span-1))
		from, to := near, far
		if step < 0 {
			from, to = far, near
		}
		if !p.fetch(ctx, from, to, found) {
			return
		}
		fetched = span

		holidays := 0
		for i := 0; i < span; i++ {
			if found.set.Contains(anchor.AddDays(step * i)) {
				holidays++
			}
		}
		span = duration + holidays
	}
}

// fetch merges the calendar's holidays between from and to into found.
// It reports whether the lookup produced any holidays to continue with:
// a partial failure still does, a total failure does not.
func (p *Planner) fetch(ctx context.Context, from, to civil.Date, found *lookup) bool {
	days, err := p.calendar.Holidays(ctx, from, to)
	for _, day := range days {
		found.set.Add(day.Date)
		found.notes[day.Date] = day
	}
	if err == nil {
		return true
	}

	var partial *calendar.PartialError
	if errors.As(err, &partial) {
		for _, failure := range partial.Failed {
			found.warn(failure.Error())
		}
		p.logger.Warn("Some holiday calendars failed, continuing with the rest",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
			zap.Error(err))
		return true
	}

	found.warn(err.Error())
	p.logger.Warn("Failed to load holidays, continuing with typed-in holidays only",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.Error(err))
	return false
}
