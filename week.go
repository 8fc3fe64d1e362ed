package calendar

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/Xevion/go-calendar/internal/scheduling"
	"github.com/Xevion/go-calendar/types"
)

const WeekSeparator = "|"

// Week holds one Day per weekday. A day that was never set is created empty,
// with the week's options, the first time it is read.
type Week[T any] struct {
	cfg  config
	days [DaysPerWeek]*Day[T]
}

func NewWeek[T any](opts ...Option) *Week[T] {
	return &Week[T]{cfg: dayConfig(opts)}
}

// WeekFromDay repeats day's ranges, all free, on every day of the week. Task
// assignments are not copied.
func WeekFromDay[T any](day *Day[T], opts ...Option) (*Week[T], error) {
	cfg := day.cfg
	if len(opts) > 0 {
		cfg = dayConfig(opts)
	}
	return weekFromSlots[T](day.Timeslots(), cfg)
}

// WeekFromSeries repeats the series' ranges on every day of the week.
func WeekFromSeries[T any](series *TimeslotSeries, opts ...Option) (*Week[T], error) {
	return weekFromSlots[T](series.Slots(), dayConfig(opts))
}

func weekFromSlots[T any](slots []Timeslot, cfg config) (*Week[T], error) {
	w := &Week[T]{cfg: cfg}
	for _, weekday := range Weekdays() {
		d, err := dayFromSlots[T](weekday, slots, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", weekday, err)
		}
		w.days[weekday] = d
	}
	return w, nil
}

// WeekFromRecord builds a week from a map of day labels to ranges. Labels that
// are missing become empty days.
func WeekFromRecord[T any](r types.WeekRecord, opts ...Option) (*Week[T], error) {
	return weekFromRecord[T](r, dayConfig(opts))
}

func weekFromRecord[T any](r types.WeekRecord, cfg config) (*Week[T], error) {
	w := &Week[T]{cfg: cfg}
	for label, records := range r {
		weekday, err := ParseWeekday(label)
		if err != nil {
			return nil, err
		}
		slots, err := timeslotsFromRecords(records)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", weekday, err)
		}
		d, err := dayFromSlots[T](weekday, slots, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", weekday, err)
		}
		w.days[weekday] = d
	}
	return w, nil
}

// ParseWeek parses seven day strings joined by "|", Monday first. Each day's
// index must match its position.
func ParseWeek[T any](s string, opts ...Option) (*Week[T], error) {
	return parseWeek[T](s, dayConfig(opts))
}

func parseWeek[T any](s string, cfg config) (*Week[T], error) {
	parts := strings.Split(s, WeekSeparator)
	if len(parts) != DaysPerWeek {
		return nil, newFormatError(KindWeek, s, fmt.Errorf("expected %d days, got %d", DaysPerWeek, len(parts)))
	}

	w := &Week[T]{cfg: cfg}
	for i, part := range parts {
		d, err := parseDay[T](part, cfg)
		if err != nil {
			return nil, newFormatError(KindWeek, s, err)
		}
		if d.weekday != Weekday(i) {
			return nil, newFormatError(KindWeek, s, fmt.Errorf("day %d has index %d", i, d.weekday))
		}
		w.days[i] = d
	}
	return w, nil
}

// Day returns the day for weekday, creating it if needed. It returns nil for an
// invalid weekday.
func (w *Week[T]) Day(weekday Weekday) *Day[T] {
	if !weekday.Valid() {
		return nil
	}
	if w.days[weekday] == nil {
		slog.Debug("Creating empty day", "day", weekday.String())
		w.days[weekday] = newDay[T](weekday, w.cfg)
	}
	return w.days[weekday]
}

// Set stores day under its own weekday, replacing what was there.
func (w *Week[T]) Set(day *Day[T]) error {
	if day == nil || !day.weekday.Valid() {
		return fmt.Errorf("%w: cannot set day without a valid weekday", ErrInvalidWeekday)
	}
	w.days[day.weekday] = day
	return nil
}

// Days returns all seven days, Monday first.
func (w *Week[T]) Days() []*Day[T] {
	days := make([]*Day[T], 0, DaysPerWeek)
	for _, weekday := range Weekdays() {
		days = append(days, w.Day(weekday))
	}
	return days
}

// EmptyTimeslots returns the gaps between each day's ranges. The ends of the
// days are not included.
func (w *Week[T]) EmptyTimeslots() map[Weekday][]Timeslot {
	gaps := make(map[Weekday][]Timeslot, DaysPerWeek)
	for _, d := range w.Days() {
		// without extension this cannot fail
		dayGaps, _ := d.EmptyTimeslots(false)
		gaps[d.weekday] = dayGaps
	}
	return gaps
}

// NextFreeSlot finds the earliest minutes-long timeslot, inside a free entry,
// that starts at or after the minute now falls in, looking up to one week
// ahead. It returns the weekday, the timeslot and the instant the timeslot
// starts, in now's location. Seconds are ignored, so the instant may be up to
// a minute before now.
func (w *Week[T]) NextFreeSlot(now time.Time, minutes int) (Weekday, Timeslot, time.Time, bool) {
	today := Weekday(scheduling.MondayIndex(now.Weekday()))
	clock := TimeFromStd(now)

	for offset := 0; offset <= DaysPerWeek; offset++ {
		weekday := Weekday((int(today) + offset) % DaysPerWeek)
		after := Time{}
		if offset == 0 {
			after = clock
		}

		ts, ok := w.Day(weekday).FindFree(after, minutes, 0)
		if !ok {
			continue
		}
		// the same weekday one week later only counts before the current time
		if offset == DaysPerWeek && !ts.start.Before(clock) {
			continue
		}

		trigger := scheduling.WeeklyTrigger{Weekday: int(weekday), Hour: ts.start.Hours(), Minute: ts.start.Minutes()}
		return weekday, ts, trigger.From(now), true
	}
	return 0, Timeslot{}, time.Time{}, false
}

// Equal compares the weeks day by day.
func (w *Week[T]) Equal(other *Week[T]) bool {
	for _, weekday := range Weekdays() {
		if !w.Day(weekday).Equal(other.Day(weekday)) {
			return false
		}
	}
	return true
}

// String joins the seven day strings with "|".
func (w *Week[T]) String() string {
	parts := make([]string, 0, DaysPerWeek)
	for _, d := range w.Days() {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, WeekSeparator)
}

func (w *Week[T]) Record() types.WeekRecord {
	r := make(types.WeekRecord, DaysPerWeek)
	for _, d := range w.Days() {
		r[d.weekday.Label()] = timeslotRecords(d.Timeslots())
	}
	return r
}

// unmarshalConfig returns the options decoded weeks are built with: the
// receiver's own if it was created by a constructor, the defaults otherwise.
func (w *Week[T]) unmarshalConfig() config {
	if w.cfg.initialized {
		return w.cfg
	}
	return dayConfig(nil)
}

func (w *Week[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Record())
}

// UnmarshalJSON accepts either the record form or the "|"-joined string form.
func (w *Week[T]) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		parsed, err := parseWeek[T](raw, w.unmarshalConfig())
		if err != nil {
			return err
		}
		*w = *parsed
		return nil
	}

	var r types.WeekRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	parsed, err := weekFromRecord[T](r, w.unmarshalConfig())
	if err != nil {
		return err
	}
	*w = *parsed
	return nil
}

func (w *Week[T]) MarshalYAML() (interface{}, error) {
	return w.Record(), nil
}

func (w *Week[T]) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		parsed, err := parseWeek[T](value.Value, w.unmarshalConfig())
		if err != nil {
			return err
		}
		*w = *parsed
		return nil
	}

	var r types.WeekRecord
	if err := value.Decode(&r); err != nil {
		return err
	}
	parsed, err := weekFromRecord[T](r, w.unmarshalConfig())
	if err != nil {
		return err
	}
	*w = *parsed
	return nil
}
