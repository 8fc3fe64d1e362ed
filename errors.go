package calendar

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTimeValue         = errors.New("invalid time value")
	ErrInvalidTimeFormat        = errors.New("invalid time format")
	ErrInvalidTimeslotRange     = errors.New("invalid timeslot range")
	ErrInvalidTimeslotFormat    = errors.New("invalid timeslot format")
	ErrTimeslotsDoNotOverlap    = errors.New("timeslots do not overlap")
	ErrOverlappingTimeslots     = errors.New("overlapping timeslots")
	ErrTimeslotOutOfLimit       = errors.New("timeslot out of limit")
	ErrNoContainingFreeTimeslot = errors.New("no containing free timeslot")
	ErrEmptySeries              = errors.New("empty timeslot series")
	ErrInvalidDayFormat         = errors.New("invalid day format")
	ErrInvalidWeekday           = errors.New("invalid weekday")
	ErrInvalidWeekFormat        = errors.New("invalid week format")
	ErrInvalidTaskRecord        = errors.New("invalid task record")
)

// FormatKind names the text format a FormatError refers to.
type FormatKind string

const (
	KindTime           FormatKind = "Time"
	KindTimeslot       FormatKind = "Timeslot"
	KindTimeslotSeries FormatKind = "TimeslotSeries"
	KindDay            FormatKind = "Day"
	KindWeek           FormatKind = "Week"
)

const (
	timeFormatHint     = "HH:MM [0 <= HH < 24, 0 <= MM < 60]"
	timeslotFormatHint = "HH:MM-HH:MM"
	seriesFormatHint   = "HH:MM-HH:MM,HH:MM-HH:MM,..."
	dayFormatHint      = "<dayIndex 0-6>;HH:MM-HH:MM,HH:MM-HH:MM,..."
	weekFormatHint     = "<day>|<day>|<day>|<day>|<day>|<day>|<day>"
)

// FormatError is returned when text does not match the expected format.
// It unwraps to the sentinel for its kind, and to the underlying cause if any.
type FormatError struct {
	Kind  FormatKind
	Value string
	cause error
}

func newFormatError(kind FormatKind, value string, cause error) *FormatError {
	return &FormatError{Kind: kind, Value: value, cause: cause}
}

// ExpectedFormat returns the expected format for the error's kind.
func (e *FormatError) ExpectedFormat() string {
	switch e.Kind {
	case KindTime:
		return timeFormatHint
	case KindTimeslot:
		return timeslotFormatHint
	case KindTimeslotSeries:
		return seriesFormatHint
	case KindDay:
		return dayFormatHint
	case KindWeek:
		return weekFormatHint
	}
	return ""
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("[%s]: provided string %q does not meet the required format %q", e.Kind, e.Value, e.ExpectedFormat())
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() []error {
	var sentinel error
	switch e.Kind {
	case KindTime:
		sentinel = ErrInvalidTimeFormat
	case KindTimeslot, KindTimeslotSeries:
		sentinel = ErrInvalidTimeslotFormat
	case KindDay:
		sentinel = ErrInvalidDayFormat
	case KindWeek:
		sentinel = ErrInvalidWeekFormat
	}
	if e.cause == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.cause}
}
