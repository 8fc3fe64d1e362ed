package calendar

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/Xevion/go-calendar/internal"
	"github.com/Xevion/go-calendar/types"
)

const (
	TimeslotSeparator = "-"

	// DefaultTimeslotDuration is the length, in minutes, of a timeslot built from a single Time.
	DefaultTimeslotDuration = 5
	// SlotGranularity is the minute step NumberOfSlotsInRange works in.
	SlotGranularity = 5
)

// Timeslot is a range of clock time from Start to End, both inclusive, with
// Start never after End. A zero-length timeslot is valid.
type Timeslot struct {
	start Time
	end   Time
}

// NewTimeslot returns the range [start, end]. It fails with ErrInvalidTimeslotRange
// when start is after end.
func NewTimeslot(start, end Time) (Timeslot, error) {
	if start.After(end) {
		return Timeslot{}, fmt.Errorf("%w: start %s cannot be after end %s", ErrInvalidTimeslotRange, start, end)
	}
	return Timeslot{start: start, end: end}, nil
}

// TimeslotAt returns a DefaultTimeslotDuration long range starting at start.
// Since Time wraps at midnight, a start within five minutes of midnight fails.
func TimeslotAt(start Time) (Timeslot, error) {
	return NewTimeslot(start, start.Add(DefaultTimeslotDuration))
}

func TimeslotFromRecord(r types.TimeslotRecord) (Timeslot, error) {
	start, err := TimeFromRecord(r.Start)
	if err != nil {
		return Timeslot{}, fmt.Errorf("start: %w", err)
	}
	end, err := TimeFromRecord(r.End)
	if err != nil {
		return Timeslot{}, fmt.Errorf("end: %w", err)
	}
	return NewTimeslot(start, end)
}

// ParseTimeslot parses "HH:MM-HH:MM".
func ParseTimeslot(s string) (Timeslot, error) {
	rawStart, rawEnd, ok := internal.SplitPair(s, TimeslotSeparator)
	if !ok {
		return Timeslot{}, newFormatError(KindTimeslot, s, nil)
	}

	start, err := ParseTime(rawStart)
	if err != nil {
		return Timeslot{}, newFormatError(KindTimeslot, s, err)
	}
	end, err := ParseTime(rawEnd)
	if err != nil {
		return Timeslot{}, newFormatError(KindTimeslot, s, err)
	}

	ts, err := NewTimeslot(start, end)
	if err != nil {
		return Timeslot{}, newFormatError(KindTimeslot, s, err)
	}
	return ts, nil
}

// MustParseTimeslot is like ParseTimeslot but panics on malformed input.
func MustParseTimeslot(s string) Timeslot {
	ts, err := ParseTimeslot(s)
	if err != nil {
		slog.Error(err.Error())
		panic(err)
	}
	return ts
}

func (ts Timeslot) Start() Time {
	return ts.start
}

func (ts Timeslot) End() Time {
	return ts.end
}

// Duration returns the length of the range in minutes.
func (ts Timeslot) Duration() int {
	return ts.end.TotalMinutes() - ts.start.TotalMinutes()
}

// Compare orders timeslots by start, then by end. It returns -1, 0 or 1.
func (ts Timeslot) Compare(other Timeslot) int {
	if c := ts.start.Compare(other.start); c != 0 {
		return sign(c)
	}
	return sign(ts.end.Compare(other.end))
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func (ts Timeslot) Equal(other Timeslot) bool {
	return ts.Compare(other) == 0
}

func (ts Timeslot) Before(other Timeslot) bool {
	return ts.Compare(other) < 0
}

func (ts Timeslot) After(other Timeslot) bool {
	return ts.Compare(other) > 0
}

// Contains reports whether other lies entirely within ts. A timeslot contains itself.
func (ts Timeslot) Contains(other Timeslot) bool {
	return !other.start.Before(ts.start) && !other.end.After(ts.end)
}

// ContainsTime reports whether start <= t <= end.
func (ts Timeslot) ContainsTime(t Time) bool {
	return !t.Before(ts.start) && !t.After(ts.end)
}

// Overlaps reports whether the two ranges share more than an endpoint.
func (ts Timeslot) Overlaps(other Timeslot) bool {
	return ts.start.Before(other.end) && ts.end.After(other.start)
}

// String formats the range as "HH:MM-HH:MM". This is also the key a timeslot
// is stored under in a series or day.
func (ts Timeslot) String() string {
	return ts.start.String() + TimeslotSeparator + ts.end.String()
}

func (ts Timeslot) key() types.TimeslotString {
	return types.TimeslotString(ts.String())
}

// ToDate returns the start and end instants on from's calendar date.
func (ts Timeslot) ToDate(from time.Time) (time.Time, time.Time) {
	return ts.start.ToDate(from), ts.end.ToDate(from)
}

func (ts Timeslot) Record() types.TimeslotRecord {
	return types.TimeslotRecord{Start: ts.start.Record(), End: ts.end.Record()}
}

func (ts Timeslot) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.Record())
}

// UnmarshalJSON accepts either the record form or a "HH:MM-HH:MM" string.
func (ts *Timeslot) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseTimeslot(s)
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	}

	var r types.TimeslotRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	parsed, err := TimeslotFromRecord(r)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

func (ts Timeslot) MarshalYAML() (interface{}, error) {
	return ts.Record(), nil
}

func (ts *Timeslot) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		parsed, err := ParseTimeslot(value.Value)
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	}

	var r types.TimeslotRecord
	if err := value.Decode(&r); err != nil {
		return err
	}
	parsed, err := TimeslotFromRecord(r)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// SplitTimeslot cuts ts at each of the given times, returning len(cuts)+1
// consecutive timeslots that together cover ts. Cuts must be strictly
// increasing and lie strictly inside ts.
func SplitTimeslot(ts Timeslot, cuts ...Time) ([]Timeslot, error) {
	result := make([]Timeslot, 0, len(cuts)+1)

	prev := ts.start
	for _, cut := range cuts {
		if !cut.After(prev) || !cut.Before(ts.end) {
			return nil, fmt.Errorf("%w: cut %s must be after %s and before %s", ErrInvalidTimeslotRange, cut, prev, ts.end)
		}
		result = append(result, Timeslot{start: prev, end: cut})
		prev = cut
	}

	return append(result, Timeslot{start: prev, end: ts.end}), nil
}

// MergeTimeslotIntersection places inserted into container, returning the slot
// that ends up occupied and the pieces of free time left over.
//
// When one range contains the other, the occupied slot is the inner one and the
// leftovers are the non-empty parts of the outer range before and after it.
// On a partial overlap the occupied slot is inserted itself and the leftovers
// are the strips of container that inserted does not cover.
func MergeTimeslotIntersection(container, inserted Timeslot) (Timeslot, []Timeslot, error) {
	if !container.Overlaps(inserted) {
		return Timeslot{}, nil, fmt.Errorf("%w: %s and %s", ErrTimeslotsDoNotOverlap, container, inserted)
	}

	if container.Contains(inserted) || inserted.Contains(container) {
		outer, inner := container, inserted
		if !container.Contains(inserted) {
			outer, inner = inserted, container
		}

		var leftovers []Timeslot
		if before := (Timeslot{start: outer.start, end: inner.start}); before.Duration() > 0 {
			leftovers = append(leftovers, before)
		}
		if after := (Timeslot{start: inner.end, end: outer.end}); after.Duration() > 0 {
			leftovers = append(leftovers, after)
		}
		return inner, leftovers, nil
	}

	var leftovers []Timeslot
	if inserted.start.After(container.start) {
		leftovers = append(leftovers, Timeslot{start: container.start, end: inserted.start})
	}
	if inserted.end.Before(container.end) {
		leftovers = append(leftovers, Timeslot{start: inserted.end, end: container.end})
	}
	return inserted, leftovers, nil
}

// NumberOfSlotsInRange returns how many size-minute slots fit exactly in ts.
// It returns 0 when size or the range's duration is not a multiple of
// SlotGranularity, or when size is not smaller than the duration.
func NumberOfSlotsInRange(ts Timeslot, size int) int {
	duration := ts.Duration()
	if size <= 0 || size%SlotGranularity != 0 || duration%SlotGranularity != 0 || size >= duration {
		return 0
	}
	return duration / size
}
