package calendar

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/Xevion/go-calendar/internal/intervals"
	"github.com/Xevion/go-calendar/types"
)

const SeriesSeparator = ","

// TimeslotSeries is a set of timeslots for one day, keyed by their "HH:MM-HH:MM"
// form so identical ranges collapse. Whenever the members are exposed they are
// ordered by start, then end.
//
// Overlapping members are rejected by ParseTimeslotSeries, and by Set when the
// series was created WithOverlapCheck(true).
type TimeslotSeries struct {
	cfg   config
	slots map[types.TimeslotString]Timeslot
	index *intervals.Index
}

// NewTimeslotSeries returns an empty series. Unless overridden, gap extension
// uses the limits 00:00 and 23:59.
func NewTimeslotSeries(opts ...Option) *TimeslotSeries {
	return newTimeslotSeries(seriesConfig(opts))
}

func newTimeslotSeries(cfg config) *TimeslotSeries {
	return &TimeslotSeries{
		cfg:   cfg,
		slots: make(map[types.TimeslotString]Timeslot),
		index: intervals.New(),
	}
}

// TimeslotSeriesFromSlots builds a series from the given timeslots, in any order.
func TimeslotSeriesFromSlots(slots []Timeslot, opts ...Option) (*TimeslotSeries, error) {
	s := NewTimeslotSeries(opts...)
	for _, ts := range slots {
		if err := s.Set(ts); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func TimeslotSeriesFromRecord(r types.TimeslotSeriesRecord, opts ...Option) (*TimeslotSeries, error) {
	slots, err := timeslotsFromRecords(r.Timeslots)
	if err != nil {
		return nil, err
	}
	return TimeslotSeriesFromSlots(slots, opts...)
}

func timeslotsFromRecords(records []types.TimeslotRecord) ([]Timeslot, error) {
	slots := make([]Timeslot, 0, len(records))
	for i, r := range records {
		ts, err := TimeslotFromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("timeslot %d: %w", i, err)
		}
		slots = append(slots, ts)
	}
	return slots, nil
}

// ParseTimeslotSeries parses comma-separated "HH:MM-HH:MM" ranges. The input
// must not be empty and no two ranges may overlap, whatever the options say.
func ParseTimeslotSeries(s string, opts ...Option) (*TimeslotSeries, error) {
	if s == "" {
		return nil, newFormatError(KindTimeslotSeries, s, ErrEmptySeries)
	}

	series := NewTimeslotSeries(opts...)
	for _, raw := range strings.Split(s, SeriesSeparator) {
		ts, err := ParseTimeslot(raw)
		if err != nil {
			return nil, newFormatError(KindTimeslotSeries, s, err)
		}

		if found := series.overlapping(ts); len(found) > 0 {
			return nil, fmt.Errorf("%w: %s overlaps %s in %q", ErrOverlappingTimeslots, ts, found[0], s)
		}
		series.add(ts)
	}
	return series, nil
}

func spanOf(ts Timeslot) intervals.Span {
	return intervals.Span{Low: ts.start.TotalMinutes(), High: ts.end.TotalMinutes()}
}

func timeslotOf(span intervals.Span) Timeslot {
	return Timeslot{start: Time{minutes: span.Low}, end: Time{minutes: span.High}}
}

// overlapping returns the members strictly overlapping ts, in order.
func (s *TimeslotSeries) overlapping(ts Timeslot) []Timeslot {
	spans := s.index.Overlapping(spanOf(ts))
	found := make([]Timeslot, 0, len(spans))
	for _, span := range spans {
		found = append(found, timeslotOf(span))
	}
	return found
}

func (s *TimeslotSeries) add(ts Timeslot) {
	s.slots[ts.key()] = ts
	s.index.Add(spanOf(ts))
}

// Set adds ts to the series. With the overlap check enabled it fails with
// ErrOverlappingTimeslots when ts overlaps an existing member.
// Setting a timeslot that is already a member does nothing.
func (s *TimeslotSeries) Set(ts Timeslot) error {
	if s.Has(ts) {
		return nil
	}
	if s.cfg.enforceOverlap {
		if c := checkNoOverlap(s, ts); c.fail {
			slog.Debug("Rejected overlapping timeslot", "timeslot", ts.String(), "error", c.err)
			return c.err
		}
	}
	s.add(ts)
	return nil
}

func (s *TimeslotSeries) Has(ts Timeslot) bool {
	_, ok := s.slots[ts.key()]
	return ok
}

// Delete removes ts, reporting whether it was a member.
func (s *TimeslotSeries) Delete(ts Timeslot) bool {
	if !s.Has(ts) {
		return false
	}
	delete(s.slots, ts.key())
	s.index.Delete(spanOf(ts))
	return true
}

// Replace swaps old for replacement. Nothing happens when old is not a member
// or replacement already is. If replacement is rejected, old is kept.
func (s *TimeslotSeries) Replace(old, replacement Timeslot) error {
	if !s.Has(old) || s.Has(replacement) {
		return nil
	}

	s.Delete(old)
	if err := s.Set(replacement); err != nil {
		s.add(old)
		return err
	}
	return nil
}

func (s *TimeslotSeries) Len() int {
	return len(s.slots)
}

// Slots returns the members ordered by start, then end.
func (s *TimeslotSeries) Slots() []Timeslot {
	slots := make([]Timeslot, 0, len(s.slots))
	for _, ts := range s.slots {
		slots = append(slots, ts)
	}
	sortTimeslots(slots)
	return slots
}

func sortTimeslots(slots []Timeslot) {
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Before(slots[j])
	})
}

// First returns the earliest member, or ErrEmptySeries.
func (s *TimeslotSeries) First() (Timeslot, error) {
	slots := s.Slots()
	if len(slots) == 0 {
		return Timeslot{}, ErrEmptySeries
	}
	return slots[0], nil
}

// Last returns the latest member, or ErrEmptySeries.
func (s *TimeslotSeries) Last() (Timeslot, error) {
	slots := s.Slots()
	if len(slots) == 0 {
		return Timeslot{}, ErrEmptySeries
	}
	return slots[len(slots)-1], nil
}

func (s *TimeslotSeries) StartLimit() Time {
	return s.cfg.startLimit
}

func (s *TimeslotSeries) EndLimit() Time {
	return s.cfg.endLimit
}

// EmptyTimeslots returns the uncovered ranges between consecutive members.
// With extendToLimit it also returns the range from the start limit to the first
// member and from the last member to the end limit. Zero-length gaps are
// skipped, as is a boundary gap when a member already reaches the limit.
//
// Extending an empty series fails with ErrEmptySeries.
func (s *TimeslotSeries) EmptyTimeslots(extendToLimit bool) ([]Timeslot, error) {
	return emptyTimeslots(s.Slots(), s.cfg, extendToLimit)
}

func emptyTimeslots(sorted []Timeslot, cfg config, extendToLimit bool) ([]Timeslot, error) {
	if len(sorted) == 0 {
		if extendToLimit {
			return nil, fmt.Errorf("%w: no timeslot to extend from", ErrEmptySeries)
		}
		return nil, nil
	}

	var gaps []Timeslot
	if extendToLimit && cfg.startLimit.Before(sorted[0].start) {
		gaps = append(gaps, Timeslot{start: cfg.startLimit, end: sorted[0].start})
	}

	// Members may overlap when the check is off, so track the furthest end seen.
	reached := sorted[0].end
	for _, ts := range sorted[1:] {
		if reached.Before(ts.start) {
			gaps = append(gaps, Timeslot{start: reached, end: ts.start})
		}
		if ts.end.After(reached) {
			reached = ts.end
		}
	}

	if extendToLimit && reached.Before(cfg.endLimit) {
		gaps = append(gaps, Timeslot{start: reached, end: cfg.endLimit})
	}
	return gaps, nil
}

// OverlapsWith reports whether ts overlaps any member.
func (s *TimeslotSeries) OverlapsWith(ts Timeslot) bool {
	return s.index.Any(spanOf(ts))
}

// Find returns the earliest member containing ts.
func (s *TimeslotSeries) Find(ts Timeslot) (Timeslot, bool) {
	for _, member := range s.Slots() {
		if member.Contains(ts) {
			return member, true
		}
	}
	return Timeslot{}, false
}

// FindTime returns the earliest member containing t.
func (s *TimeslotSeries) FindTime(t Time) (Timeslot, bool) {
	for _, member := range s.Slots() {
		if member.ContainsTime(t) {
			return member, true
		}
	}
	return Timeslot{}, false
}

func (s *TimeslotSeries) Contains(ts Timeslot) bool {
	_, ok := s.Find(ts)
	return ok
}

func (s *TimeslotSeries) ContainsTime(t Time) bool {
	_, ok := s.FindTime(t)
	return ok
}

// Equal compares members only; options are ignored.
func (s *TimeslotSeries) Equal(other *TimeslotSeries) bool {
	return s.String() == other.String()
}

// String joins the ordered members with commas.
func (s *TimeslotSeries) String() string {
	return joinTimeslots(s.Slots())
}

func joinTimeslots(slots []Timeslot) string {
	parts := make([]string, 0, len(slots))
	for _, ts := range slots {
		parts = append(parts, ts.String())
	}
	return strings.Join(parts, SeriesSeparator)
}

// Clone returns an independent copy with the same options.
func (s *TimeslotSeries) Clone() *TimeslotSeries {
	c := newTimeslotSeries(s.cfg)
	for _, ts := range s.slots {
		c.add(ts)
	}
	return c
}

// ToDate returns the start and end instants of every member on from's date.
func (s *TimeslotSeries) ToDate(from time.Time) [][2]time.Time {
	slots := s.Slots()
	dates := make([][2]time.Time, 0, len(slots))
	for _, ts := range slots {
		start, end := ts.ToDate(from)
		dates = append(dates, [2]time.Time{start, end})
	}
	return dates
}

func (s *TimeslotSeries) Record() types.TimeslotSeriesRecord {
	return types.TimeslotSeriesRecord{Timeslots: timeslotRecords(s.Slots())}
}

func timeslotRecords(slots []Timeslot) []types.TimeslotRecord {
	records := make([]types.TimeslotRecord, 0, len(slots))
	for _, ts := range slots {
		records = append(records, ts.Record())
	}
	return records
}

// replaceWith swaps the members for those of parsed. A receiver that was
// already initialized keeps its options and the members are checked against them.
func (s *TimeslotSeries) replaceWith(parsed *TimeslotSeries) error {
	if s.slots == nil {
		*s = *parsed
		return nil
	}
	rebuilt := newTimeslotSeries(s.cfg)
	for _, ts := range parsed.Slots() {
		if err := rebuilt.Set(ts); err != nil {
			return err
		}
	}
	*s = *rebuilt
	return nil
}

func (s *TimeslotSeries) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Record())
}

// UnmarshalJSON accepts either the record form or the comma-separated string form.
func (s *TimeslotSeries) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		parsed, err := ParseTimeslotSeries(raw)
		if err != nil {
			return err
		}
		return s.replaceWith(parsed)
	}

	var r types.TimeslotSeriesRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	parsed, err := TimeslotSeriesFromRecord(r)
	if err != nil {
		return err
	}
	return s.replaceWith(parsed)
}

func (s *TimeslotSeries) MarshalYAML() (interface{}, error) {
	return s.Record(), nil
}

func (s *TimeslotSeries) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		parsed, err := ParseTimeslotSeries(value.Value)
		if err != nil {
			return err
		}
		return s.replaceWith(parsed)
	}

	var r types.TimeslotSeriesRecord
	if err := value.Decode(&r); err != nil {
		return err
	}
	parsed, err := TimeslotSeriesFromRecord(r)
	if err != nil {
		return err
	}
	return s.replaceWith(parsed)
}
