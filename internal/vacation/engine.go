package vacation

import (
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Mode selects which of start, end and duration is computed
type Mode string

const (
	ModeDuration Mode = "duration"
	ModeEnd      Mode = "end"
	ModeStart    Mode = "start"
)

// ParseMode parses a mode name case-insensitively
func ParseMode(value string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(value)))
	switch mode {
	case ModeDuration, ModeEnd, ModeStart:
		return mode, nil
	}
	return "", newError(KindInvalidMode, "mode must be one of duration, end, start; got %q", value)
}

// Input holds the parsed inputs of a calculation. Nil fields are absent.
type Input struct {
	Start    *civil.Date
	End      *civil.Date
	Duration *int
	Holidays HolidaySet
}

// TextInput holds raw inputs as entered by a user. Blank fields are absent.
type TextInput struct {
	Start    string
	End      string
	Duration string
	Holidays string
}

// Result is a successful calculation. All three quantities are filled in.
type Result struct {
	Mode     Mode       `json:"mode"`
	Start    civil.Date `json:"start"`
	End      civil.Date `json:"end"`
	Duration int        `json:"duration"`
	Warnings Warnings   `json:"warnings"`
}

// Value returns the computed quantity for the result's mode
func (r *Result) Value() string {
	switch r.Mode {
	case ModeEnd:
		return r.End.String()
	case ModeStart:
		return r.Start.String()
	default:
		return strconv.Itoa(r.Duration)
	}
}

// Engine computes vacation dates. It holds no per-call state and is safe for concurrent use.
type Engine struct {
	restDay     time.Weekday
	maxWalkDays int
}

// Option configures an Engine
type Option func(*Engine)

// WithRestDay sets the weekday flagged on vacation boundaries
func WithRestDay(day time.Weekday) Option {
	return func(e *Engine) {
		e.restDay = day
	}
}

// WithMaxWalkDays bounds the number of calendar days a walk may visit
func WithMaxWalkDays(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.maxWalkDays = days
		}
	}
}

// New creates an Engine
func New(opts ...Option) *Engine {
	e := &Engine{
		restDay:     DefaultRestDay,
		maxWalkDays: DefaultMaxWalkDays,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RestDay returns the weekday flagged on vacation boundaries
func (e *Engine) RestDay() time.Weekday {
	return e.restDay
}

// MaxWalkDays returns the walk bound
func (e *Engine) MaxWalkDays() int {
	return e.maxWalkDays
}

// Calculate validates the inputs for mode and computes the missing quantity.
// All validation happens before any walk starts.
func (e *Engine) Calculate(mode Mode, in Input) (*Result, error) {
	switch mode {
	case ModeDuration:
		return e.calculateDuration(in)
	case ModeEnd:
		return e.calculateEnd(in)
	case ModeStart:
		return e.calculateStart(in)
	}
	return nil, newError(KindInvalidMode, "unknown mode %q", mode)
}

func (e *Engine) calculateDuration(in Input) (*Result, error) {
	if in.Start == nil || in.End == nil {
		return nil, newError(KindMissingInput, "both start and end dates are required")
	}
	start, end := *in.Start, *in.End
	if end.Before(start) {
		return nil, newError(KindInvalidRange, "end date %s is before start date %s", end, start)
	}

	return &Result{
		Mode:     ModeDuration,
		Start:    start,
		End:      end,
		Duration: CountInclusiveDays(start, end, in.Holidays),
		Warnings: Advise(start, end, e.restDay),
	}, nil
}

func (e *Engine) calculateEnd(in Input) (*Result, error) {
	if in.Start == nil {
		return nil, newError(KindMissingInput, "start date is required")
	}
	duration, err := requirePositiveDuration(in.Duration)
	if err != nil {
		return nil, err
	}

	start := *in.Start
	end, err := AdvanceToDuration(start, duration, in.Holidays, e.maxWalkDays)
	if err != nil {
		return nil, err
	}

	return &Result{
		Mode:     ModeEnd,
		Start:    start,
		End:      end,
		Duration: duration,
		Warnings: Advise(start, end, e.restDay),
	}, nil
}

func (e *Engine) calculateStart(in Input) (*Result, error) {
	if in.End == nil {
		return nil, newError(KindMissingInput, "end date is required")
	}
	duration, err := requirePositiveDuration(in.Duration)
	if err != nil {
		return nil, err
	}

	end := *in.End
	start, err := RetreatToDuration(end, duration, in.Holidays, e.maxWalkDays)
	if err != nil {
		return nil, err
	}

	return &Result{
		Mode:     ModeStart,
		Start:    start,
		End:      end,
		Duration: duration,
		Warnings: Advise(start, end, e.restDay),
	}, nil
}

func requirePositiveDuration(duration *int) (int, error) {
	if duration == nil {
		return 0, newError(KindInvalidDuration, "duration is required")
	}
	if *duration < 1 {
		return 0, newError(KindInvalidDuration, "duration must be a positive number of days, got %d", *duration)
	}
	return *duration, nil
}

// ParseInput converts raw text into an Input for mode.
// The field being solved for is ignored; blank fields stay nil.
func ParseInput(mode Mode, text TextInput) (Input, error) {
	in := Input{Holidays: ParseHolidays(text.Holidays)}

	var err error
	if mode != ModeStart {
		if in.Start, err = parseOptionalDate("start", text.Start); err != nil {
			return Input{}, err
		}
	}
	if mode != ModeEnd {
		if in.End, err = parseOptionalDate("end", text.End); err != nil {
			return Input{}, err
		}
	}
	if mode != ModeDuration {
		if in.Duration, err = parseOptionalDuration(text.Duration); err != nil {
			return Input{}, err
		}
	}
	return in, nil
}

func parseOptionalDate(field, value string) (*civil.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	date, err := civil.ParseDate(value)
	if err != nil {
		return nil, newError(KindMissingInput, "%s date %q is not a valid YYYY-MM-DD date", field, value)
	}
	return &date, nil
}

func parseOptionalDuration(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	duration, err := strconv.Atoi(value)
	if err != nil {
		return nil, newError(KindInvalidDuration, "duration %q is not a whole number of days", value)
	}
	return &duration, nil
}
