package vacation

import (
	"errors"
	"fmt"
)

// Kind classifies a failed calculation
type Kind string

const (
	// KindMissingInput means a field required by the mode is absent
	KindMissingInput Kind = "MissingInput"
	// KindInvalidRange means the end date precedes the start date
	KindInvalidRange Kind = "InvalidRange"
	// KindInvalidDuration means the duration is absent, not a number, zero or negative
	KindInvalidDuration Kind = "InvalidDuration"
	// KindUnreachable means a walk exceeded the configured day limit
	KindUnreachable Kind = "Unreachable"
	// KindInvalidMode means the calculation mode is not recognised
	KindInvalidMode Kind = "InvalidMode"
)

// Sentinel errors for errors.Is matching by kind
var (
	ErrMissingInput    = &Error{Kind: KindMissingInput}
	ErrInvalidRange    = &Error{Kind: KindInvalidRange}
	ErrInvalidDuration = &Error{Kind: KindInvalidDuration}
	ErrUnreachable     = &Error{Kind: KindUnreachable}
	ErrInvalidMode     = &Error{Kind: KindInvalidMode}
)

// Error is a tagged calculation failure with a human-readable reason
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// Is reports whether target is an *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of a calculation error, or "" for other errors
func KindOf(err error) Kind {
	var calcErr *Error
	if errors.As(err, &calcErr) {
		return calcErr.Kind
	}
	return ""
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}
