package calendar

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/Xevion/go-calendar/internal"
	"github.com/Xevion/go-calendar/internal/intervals"
	"github.com/Xevion/go-calendar/types"
)

const DaySeparator = ";"

type dayEntry[T any] struct {
	slot Timeslot
	task *Task[T]
}

// Day holds the timeslots of one weekday, each either free (no task) or
// assigned to a task. Tasks are referenced, not copied.
//
// When created WithLimits, every timeslot must lie within the limits. Otherwise
// the limits (07:00 and 20:00 by default) only bound gap extension.
type Day[T any] struct {
	weekday Weekday
	cfg     config
	entries map[types.TimeslotString]dayEntry[T]
	index   *intervals.Index
}

func NewDay[T any](weekday Weekday, opts ...Option) *Day[T] {
	return newDay[T](weekday, dayConfig(opts))
}

func newDay[T any](weekday Weekday, cfg config) *Day[T] {
	return &Day[T]{
		weekday: weekday,
		cfg:     cfg,
		entries: make(map[types.TimeslotString]dayEntry[T]),
		index:   intervals.New(),
	}
}

// DayFromRecord builds a day of free timeslots from a {dayOfWeek, timeslots} record.
func DayFromRecord[T any](r types.DayRecord, opts ...Option) (*Day[T], error) {
	weekday, err := ParseWeekday(r.DayOfWeek)
	if err != nil {
		return nil, err
	}
	slots, err := timeslotsFromRecords(r.Timeslots)
	if err != nil {
		return nil, err
	}
	return dayFromSlots[T](weekday, slots, dayConfig(opts))
}

// DayFromSeries builds a day of free timeslots, one per member of series.
func DayFromSeries[T any](series *TimeslotSeries, weekday Weekday, opts ...Option) (*Day[T], error) {
	return dayFromSlots[T](weekday, series.Slots(), dayConfig(opts))
}

// DayFromCopy copies other's timeslots and task assignments. The copy keeps
// other's options unless new ones are given, in which case the timeslots are
// validated against them.
func DayFromCopy[T any](other *Day[T], opts ...Option) (*Day[T], error) {
	cfg := other.cfg
	if len(opts) > 0 {
		cfg = dayConfig(opts)
	}

	d := newDay[T](other.weekday, cfg)
	for _, e := range other.sortedEntries() {
		if err := d.Set(e.slot, e.task); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func dayFromSlots[T any](weekday Weekday, slots []Timeslot, cfg config) (*Day[T], error) {
	d := newDay[T](weekday, cfg)
	for _, ts := range slots {
		if err := d.Set(ts, nil); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// ParseDay parses "<dayIndex>;<series>", such as "1;08:00-12:00,13:00-17:00".
// An empty series part yields a day without timeslots.
func ParseDay[T any](s string, opts ...Option) (*Day[T], error) {
	return parseDay[T](s, dayConfig(opts))
}

func parseDay[T any](s string, cfg config) (*Day[T], error) {
	rawIndex, rawSeries, ok := internal.SplitPair(s, DaySeparator)
	if !ok {
		return nil, newFormatError(KindDay, s, nil)
	}

	index, err := strconv.Atoi(rawIndex)
	if err != nil || !Weekday(index).Valid() {
		return nil, newFormatError(KindDay, s, fmt.Errorf("%w: index %q", ErrInvalidWeekday, rawIndex))
	}

	var slots []Timeslot
	if rawSeries != "" {
		series, err := ParseTimeslotSeries(rawSeries)
		if err != nil {
			return nil, newFormatError(KindDay, s, err)
		}
		slots = series.Slots()
	}

	return dayFromSlots[T](Weekday(index), slots, cfg)
}

// FormatDayString renders the day string for weekday and the given timeslots, sorted.
func FormatDayString(weekday Weekday, slots []Timeslot) string {
	sorted := append([]Timeslot(nil), slots...)
	sortTimeslots(sorted)
	return strconv.Itoa(int(weekday)) + DaySeparator + joinTimeslots(sorted)
}

func (d *Day[T]) Weekday() Weekday {
	return d.weekday
}

func (d *Day[T]) StartLimit() Time {
	return d.cfg.startLimit
}

func (d *Day[T]) EndLimit() Time {
	return d.cfg.endLimit
}

func (d *Day[T]) Len() int {
	return len(d.entries)
}

func (d *Day[T]) overlapping(ts Timeslot) []Timeslot {
	spans := d.index.Overlapping(spanOf(ts))
	found := make([]Timeslot, 0, len(spans))
	for _, span := range spans {
		found = append(found, timeslotOf(span))
	}
	return found
}

func (d *Day[T]) put(ts Timeslot, task *Task[T]) {
	d.entries[ts.key()] = dayEntry[T]{slot: ts, task: task}
	d.index.Add(spanOf(ts))
}

// Set assigns task to ts, creating the entry if needed; a nil task marks ts free.
// It fails with ErrTimeslotOutOfLimit if the day was created WithLimits and ts
// falls outside them, and with ErrOverlappingTimeslots if the day was created
// WithOverlapCheck(true) and ts overlaps another entry.
func (d *Day[T]) Set(ts Timeslot, task *Task[T]) error {
	if _, ok := d.entries[ts.key()]; ok {
		d.put(ts, task)
		return nil
	}

	if d.cfg.limitsSet {
		if c := CheckWithinLimits(ts, d.cfg.startLimit, d.cfg.endLimit); c.fail {
			return c.err
		}
	}
	if d.cfg.enforceOverlap {
		if c := checkNoOverlap(d, ts); c.fail {
			slog.Debug("Rejected overlapping timeslot", "day", d.weekday.String(), "timeslot", ts.String(), "error", c.err)
			return c.err
		}
	}

	d.put(ts, task)
	return nil
}

// Insert schedules task into ts. The earliest free entry containing ts is
// removed and replaced by ts, assigned to task, plus free entries for what is
// left of the old range on either side.
//
// It fails with ErrNoContainingFreeTimeslot when no free entry contains ts.
// With merging disabled only a free entry equal to ts qualifies. Zero-length
// timeslots cannot be inserted. When overlapping entries are allowed, the
// occupied slot or a leftover may coincide with an entry already assigned to a
// task; that fails with ErrOverlappingTimeslots and leaves the day unchanged.
func (d *Day[T]) Insert(ts Timeslot, task *Task[T]) (Timeslot, error) {
	if ts.Duration() == 0 {
		return Timeslot{}, fmt.Errorf("%w: cannot insert zero-length %s", ErrInvalidTimeslotRange, ts)
	}

	container, ok := d.freeContainer(ts)
	if !ok {
		return Timeslot{}, fmt.Errorf("%w: cannot insert %s into %s", ErrNoContainingFreeTimeslot, ts, d.weekday)
	}

	merged, leftovers, err := MergeTimeslotIntersection(container, ts)
	if err != nil {
		return Timeslot{}, err
	}
	for _, slot := range append([]Timeslot{merged}, leftovers...) {
		if existing, ok := d.entries[slot.key()]; ok && existing.task != nil {
			return Timeslot{}, fmt.Errorf("%w: %s is already assigned to %s", ErrOverlappingTimeslots, slot, existing.task)
		}
	}

	d.Delete(container)
	d.put(merged, task)
	for _, l := range leftovers {
		d.put(l, nil)
	}

	slog.Debug("Inserted task",
		"day", d.weekday.String(),
		"slot", merged.String(),
		"container", container.String(),
		"leftovers", joinTimeslots(leftovers),
	)
	return merged, nil
}

// InsertString is Insert for a "HH:MM-HH:MM" timeslot.
func (d *Day[T]) InsertString(s string, task *Task[T]) (Timeslot, error) {
	ts, err := ParseTimeslot(s)
	if err != nil {
		return Timeslot{}, err
	}
	return d.Insert(ts, task)
}

func (d *Day[T]) freeContainer(ts Timeslot) (Timeslot, bool) {
	for _, e := range d.sortedEntries() {
		if e.task != nil {
			continue
		}
		if d.cfg.allowMerging && e.slot.Contains(ts) {
			return e.slot, true
		}
		if !d.cfg.allowMerging && e.slot.Equal(ts) {
			return e.slot, true
		}
	}
	return Timeslot{}, false
}

// FindFree returns the earliest minutes-long timeslot starting no earlier than
// after inside a free entry. The timeslot may run up to overflow minutes past
// the end of that entry.
func (d *Day[T]) FindFree(after Time, minutes, overflow int) (Timeslot, bool) {
	if minutes <= 0 {
		return Timeslot{}, false
	}
	for _, free := range d.FreeTimeslots() {
		start := free.start
		if after.After(start) {
			start = after
		}
		if start.TotalMinutes()+minutes >= MinutesPerDay {
			continue
		}
		candidate := Timeslot{start: start, end: start.Add(minutes)}
		if c := CheckSlotAvailable(candidate, free, overflow); !c.fail {
			return candidate, true
		}
	}
	return Timeslot{}, false
}

// Delete removes the entry for ts, reporting whether there was one.
func (d *Day[T]) Delete(ts Timeslot) bool {
	if _, ok := d.entries[ts.key()]; !ok {
		return false
	}
	delete(d.entries, ts.key())
	d.index.Delete(spanOf(ts))
	return true
}

// DeleteString is Delete for a "HH:MM-HH:MM" timeslot.
func (d *Day[T]) DeleteString(s string) (bool, error) {
	ts, err := ParseTimeslot(s)
	if err != nil {
		return false, err
	}
	return d.Delete(ts), nil
}

// Get returns the task assigned to ts. The boolean reports whether ts is an entry
// at all; a free entry returns a nil task and true.
func (d *Day[T]) Get(ts Timeslot) (*Task[T], bool) {
	e, ok := d.entries[ts.key()]
	return e.task, ok
}

func (d *Day[T]) sortedEntries() []dayEntry[T] {
	entries := make([]dayEntry[T], 0, len(d.entries))
	for _, e := range d.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].slot.Before(entries[j].slot)
	})
	return entries
}

// Timeslots returns every entry's range, ordered.
func (d *Day[T]) Timeslots() []Timeslot {
	entries := d.sortedEntries()
	slots := make([]Timeslot, 0, len(entries))
	for _, e := range entries {
		slots = append(slots, e.slot)
	}
	return slots
}

// FreeTimeslots returns the ranges with no task, ordered.
func (d *Day[T]) FreeTimeslots() []Timeslot {
	var slots []Timeslot
	for _, e := range d.sortedEntries() {
		if e.task == nil {
			slots = append(slots, e.slot)
		}
	}
	return slots
}

// Tasks returns the assigned tasks in timeslot order. A task assigned to
// several timeslots appears once per timeslot.
func (d *Day[T]) Tasks() []*Task[T] {
	var tasks []*Task[T]
	for _, e := range d.sortedEntries() {
		if e.task != nil {
			tasks = append(tasks, e.task)
		}
	}
	return tasks
}

// Series returns the day's ranges as a new series sharing the day's options.
func (d *Day[T]) Series() *TimeslotSeries {
	s := newTimeslotSeries(d.cfg)
	for _, e := range d.entries {
		s.add(e.slot)
	}
	return s
}

// EmptyTimeslots returns the time not covered by any entry, assigned or free.
// See TimeslotSeries.EmptyTimeslots.
func (d *Day[T]) EmptyTimeslots(extendToLimit bool) ([]Timeslot, error) {
	return emptyTimeslots(d.Timeslots(), d.cfg, extendToLimit)
}

// Compare orders days by their position in the week.
func (d *Day[T]) Compare(other *Day[T]) int {
	return int(d.weekday) - int(other.weekday)
}

func (d *Day[T]) Before(other *Day[T]) bool {
	return d.Compare(other) < 0
}

func (d *Day[T]) After(other *Day[T]) bool {
	return d.Compare(other) > 0
}

// Equal reports whether both days have the same weekday, ranges and effective
// limits, and hold the same tasks by ID regardless of where they are assigned.
func (d *Day[T]) Equal(other *Day[T]) bool {
	if d.String() != other.String() {
		return false
	}
	if !d.cfg.startLimit.Equal(other.cfg.startLimit) || !d.cfg.endLimit.Equal(other.cfg.endLimit) {
		return false
	}

	mine, theirs := d.Tasks(), other.Tasks()
	if len(mine) != len(theirs) {
		return false
	}
	counts := make(map[string]int, len(mine))
	for _, t := range mine {
		counts[t.ID().String()]++
	}
	for _, t := range theirs {
		id := t.ID().String()
		if counts[id] == 0 {
			return false
		}
		counts[id]--
	}
	return true
}

// String renders "<dayIndex>;<series>".
func (d *Day[T]) String() string {
	return FormatDayString(d.weekday, d.Timeslots())
}

// SeriesString renders the ranges without the day index.
func (d *Day[T]) SeriesString() string {
	return joinTimeslots(d.Timeslots())
}

// Record describes the day's ranges. Task assignments are not included.
func (d *Day[T]) Record() types.DayRecord {
	return types.DayRecord{
		DayOfWeek: d.weekday.Label(),
		Timeslots: timeslotRecords(d.Timeslots()),
	}
}

func (d *Day[T]) replaceWith(parsed *Day[T]) error {
	if d.entries == nil {
		*d = *parsed
		return nil
	}
	// keep the receiver's options
	rebuilt, err := dayFromSlots[T](parsed.weekday, parsed.Timeslots(), d.cfg)
	if err != nil {
		return err
	}
	*d = *rebuilt
	return nil
}

func (d *Day[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Record())
}

// UnmarshalJSON accepts either the record form or the "<dayIndex>;<series>" string.
func (d *Day[T]) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		parsed, err := ParseDay[T](raw)
		if err != nil {
			return err
		}
		return d.replaceWith(parsed)
	}

	var r types.DayRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	parsed, err := DayFromRecord[T](r)
	if err != nil {
		return err
	}
	return d.replaceWith(parsed)
}

func (d *Day[T]) MarshalYAML() (interface{}, error) {
	return d.Record(), nil
}

func (d *Day[T]) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		parsed, err := ParseDay[T](value.Value)
		if err != nil {
			return err
		}
		return d.replaceWith(parsed)
	}

	var r types.DayRecord
	if err := value.Decode(&r); err != nil {
		return err
	}
	parsed, err := DayFromRecord[T](r)
	if err != nil {
		return err
	}
	return d.replaceWith(parsed)
}
