package calendar

import (
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/Xevion/go-calendar/types"
)

// WeekBuilder assembles a Week from repeating patterns of free ranges.
// Problems are collected as they happen and reported together by Build:
//
//	week, err := NewWeekBuilder[string]().
//		Weekdays("08:00-12:00", "13:00-17:00").
//		On(Saturday, "10:00-12:00").
//		Build()
type WeekBuilder[T any] struct {
	errors []error
	hashes map[uint64]bool
	opts   []Option
	slots  [DaysPerWeek][]Timeslot
}

// NewWeekBuilder returns an empty builder. The options apply to every day built.
func NewWeekBuilder[T any](opts ...Option) *WeekBuilder[T] {
	return &WeekBuilder[T]{
		hashes: make(map[uint64]bool),
		opts:   opts,
	}
}

func rangeHash(day Weekday, ts Timeslot) uint64 {
	h := fnv.New64()
	fmt.Fprintf(h, "%d:%s", day, ts)
	return h.Sum64()
}

// tryAddRange adds the range to the day if it is valid and not already present.
// Otherwise an error is added to the builder's errors.
// It will return the builder for chaining.
func (b *WeekBuilder[T]) tryAddRange(day Weekday, raw types.TimeslotString) *WeekBuilder[T] {
	ts, err := ParseTimeslot(string(raw))
	if err != nil {
		b.errors = append(b.errors, fmt.Errorf("%s: %w", day, err))
		return b
	}

	hash := rangeHash(day, ts)
	if _, ok := b.hashes[hash]; ok {
		b.errors = append(b.errors, fmt.Errorf("duplicate range: %s %s", day, ts))
		return b
	}

	for _, existing := range b.slots[day] {
		if existing.Overlaps(ts) {
			b.errors = append(b.errors, fmt.Errorf("%s: %w: %s overlaps %s", day, ErrOverlappingTimeslots, ts, existing))
			return b
		}
	}

	b.slots[day] = append(b.slots[day], ts)
	b.hashes[hash] = true

	return b
}

func (b *WeekBuilder[T]) onDays(days []Weekday, ranges []types.TimeslotString) *WeekBuilder[T] {
	if len(ranges) == 0 {
		b.errors = append(b.errors, fmt.Errorf("no ranges provided for %v", days))
		return b
	}
	for _, day := range days {
		for _, raw := range ranges {
			b.tryAddRange(day, raw)
		}
	}
	return b
}

// Daily adds the ranges to every day of the week.
func (b *WeekBuilder[T]) Daily(ranges ...types.TimeslotString) *WeekBuilder[T] {
	return b.onDays(Weekdays(), ranges)
}

// Weekdays adds the ranges to Monday through Friday.
func (b *WeekBuilder[T]) Weekdays(ranges ...types.TimeslotString) *WeekBuilder[T] {
	return b.onDays([]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}, ranges)
}

// Weekend adds the ranges to Saturday and Sunday.
func (b *WeekBuilder[T]) Weekend(ranges ...types.TimeslotString) *WeekBuilder[T] {
	return b.onDays([]Weekday{Saturday, Sunday}, ranges)
}

// On adds the ranges to a single day.
func (b *WeekBuilder[T]) On(day Weekday, ranges ...types.TimeslotString) *WeekBuilder[T] {
	if !day.Valid() {
		b.errors = append(b.errors, fmt.Errorf("%w: %d", ErrInvalidWeekday, int(day)))
		return b
	}
	return b.onDays([]Weekday{day}, ranges)
}

// Build returns the week, or every error collected while configuring it.
func (b *WeekBuilder[T]) Build() (*Week[T], error) {
	total := 0
	for _, slots := range b.slots {
		total += len(slots)
	}
	// If there are no ranges, add an error.
	if total == 0 && len(b.errors) == 0 {
		b.errors = append(b.errors, fmt.Errorf("no ranges provided"))
	}

	if len(b.errors) > 0 {
		return nil, errors.Join(b.errors...)
	}

	w := NewWeek[T](b.opts...)
	for _, day := range Weekdays() {
		d, err := dayFromSlots[T](day, b.slots[day], w.cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", day, err)
		}
		w.days[day] = d
	}
	return w, nil
}
