package calendar

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/dromara/carbon/v2"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/Xevion/go-calendar/internal"
	"github.com/Xevion/go-calendar/types"
)

const (
	MinutesPerHour = 60
	HoursPerDay    = 24
	MinutesPerDay  = HoursPerDay * MinutesPerHour

	TimeSeparator = ":"
)

// Time is a point on a 24-hour clock with minute resolution. It carries no date
// and no timezone. The zero value is midnight.
//
// Time is immutable: Add and Sub return new values, wrapping around midnight.
type Time struct {
	minutes int
}

// NewTime returns the time for the given hours (0-23) and minutes (0-59).
func NewTime(hours, minutes int) (Time, error) {
	if hours < 0 || hours >= HoursPerDay {
		return Time{}, fmt.Errorf("%w: hours must be between 0 and 23, got %d", ErrInvalidTimeValue, hours)
	}
	if minutes < 0 || minutes >= MinutesPerHour {
		return Time{}, fmt.Errorf("%w: minutes must be between 0 and 59, got %d", ErrInvalidTimeValue, minutes)
	}
	return Time{minutes: hours*MinutesPerHour + minutes}, nil
}

// TimeFromMinutes returns the time that is total minutes past midnight.
func TimeFromMinutes(total int) (Time, error) {
	if total < 0 || total >= MinutesPerDay {
		return Time{}, fmt.Errorf("%w: total minutes must be between 0 and %d, got %d", ErrInvalidTimeValue, MinutesPerDay-1, total)
	}
	return NewTime((total/MinutesPerHour)%HoursPerDay, total%MinutesPerHour)
}

// TimeFromRecord builds a time from its plain form.
func TimeFromRecord(r types.TimeRecord) (Time, error) {
	return NewTime(r.Hours, r.Minutes)
}

// TimeFromStd returns the clock time of t, in t's location, truncated to the minute.
func TimeFromStd(t time.Time) Time {
	return Time{minutes: t.Hour()*MinutesPerHour + t.Minute()}
}

// Now returns the current local clock time truncated to the minute.
func Now() Time {
	now := carbon.Now(carbon.Local)
	return Time{minutes: now.Hour()*MinutesPerHour + now.Minute()}
}

// ParseTime parses a "HH:MM" string. Both fields must be exactly two digits,
// with HH below 24 and MM below 60.
func ParseTime(s string) (Time, error) {
	hours, minutes, err := internal.ParseClock(s)
	if err != nil {
		return Time{}, newFormatError(KindTime, s, err)
	}

	t, err := NewTime(hours, minutes)
	if err != nil {
		return Time{}, newFormatError(KindTime, s, err)
	}
	return t, nil
}

// MustParseTime is like ParseTime but panics on malformed input.
// It is meant for literals such as MustParseTime("07:30").
func MustParseTime(s string) Time {
	t, err := ParseTime(s)
	if err != nil {
		slog.Error(err.Error())
		panic(err)
	}
	return t
}

func wrapMinutes(total int) Time {
	total %= MinutesPerDay
	if total < 0 {
		total += MinutesPerDay
	}
	return Time{minutes: total}
}

func (t Time) Hours() int {
	return t.minutes / MinutesPerHour
}

func (t Time) Minutes() int {
	return t.minutes % MinutesPerHour
}

// TotalMinutes returns the number of minutes since midnight.
func (t Time) TotalMinutes() int {
	return t.minutes
}

// Compare returns a negative number, zero or a positive number when t is
// before, equal to or after other.
func (t Time) Compare(other Time) int {
	return t.minutes - other.minutes
}

func (t Time) Before(other Time) bool {
	return t.Compare(other) < 0
}

func (t Time) After(other Time) bool {
	return t.Compare(other) > 0
}

func (t Time) Equal(other Time) bool {
	return t.minutes == other.minutes
}

// Add returns the time n minutes later on a 24-hour clock, so adding a whole
// day returns the same time.
func (t Time) Add(n int) Time {
	return wrapMinutes(t.minutes + n)
}

// Sub returns the time n minutes earlier. A result before midnight wraps to
// the previous day's clock value.
func (t Time) Sub(n int) Time {
	return wrapMinutes(t.minutes - n)
}

// String formats the time as zero-padded "HH:MM".
func (t Time) String() string {
	return fmt.Sprintf("%02d%s%02d", t.Hours(), TimeSeparator, t.Minutes())
}

// ToDate returns the instant on from's calendar date at this clock time, in from's location.
func (t Time) ToDate(from time.Time) time.Time {
	return carbon.CreateFromStdTime(from).SetTimeMilli(t.Hours(), t.Minutes(), 0, 0).StdTime()
}

func (t Time) Record() types.TimeRecord {
	return types.TimeRecord{Hours: t.Hours(), Minutes: t.Minutes()}
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Record())
}

// UnmarshalJSON accepts either the record form {"hours":8,"minutes":30} or a "HH:MM" string.
func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseTime(s)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}

	var r types.TimeRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	parsed, err := TimeFromRecord(r)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Time) MarshalYAML() (interface{}, error) {
	return t.Record(), nil
}

// UnmarshalYAML accepts either a hours/minutes mapping or a "HH:MM" scalar.
func (t *Time) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		parsed, err := ParseTime(value.Value)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}

	var r types.TimeRecord
	if err := value.Decode(&r); err != nil {
		return err
	}
	parsed, err := TimeFromRecord(r)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
