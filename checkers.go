package calendar

import (
	"fmt"
)

// ConditionCheck is the outcome of one validation applied before a timeslot is stored.
type ConditionCheck struct {
	fail bool
	err  error
}

func (cc ConditionCheck) Failed() bool {
	return cc.fail
}

// Err returns the reason for a failed check, or nil.
func (cc ConditionCheck) Err() error {
	return cc.err
}

// overlapQuerier is implemented by containers that index their timeslots.
type overlapQuerier interface {
	overlapping(ts Timeslot) []Timeslot
}

// CheckWithinLimits fails when ts starts before start or ends after end.
func CheckWithinLimits(ts Timeslot, start, end Time) ConditionCheck {
	cc := ConditionCheck{fail: false}
	if ts.start.Before(start) {
		cc.fail = true
		cc.err = fmt.Errorf("%w: %s starts before %s", ErrTimeslotOutOfLimit, ts, start)
	} else if ts.end.After(end) {
		cc.fail = true
		cc.err = fmt.Errorf("%w: %s ends after %s", ErrTimeslotOutOfLimit, ts, end)
	}
	return cc
}

// checkNoOverlap fails when ts overlaps anything already stored in q.
func checkNoOverlap(q overlapQuerier, ts Timeslot) ConditionCheck {
	cc := ConditionCheck{fail: false}
	if found := q.overlapping(ts); len(found) > 0 {
		cc.fail = true
		cc.err = fmt.Errorf("%w: cannot add %s, it overlaps with %s", ErrOverlappingTimeslots, ts, found[0])
	}
	return cc
}

// CheckSlotAvailable reports whether slot can start inside free and finish no
// later than overflow minutes past its end.
func CheckSlotAvailable(slot, free Timeslot, overflow int) ConditionCheck {
	cc := ConditionCheck{fail: false}
	latest := free.end.TotalMinutes() + overflow
	if slot.start.Before(free.start) || slot.start.After(free.end) || slot.end.TotalMinutes() > latest {
		cc.fail = true
		cc.err = fmt.Errorf("%w: %s does not fit in %s with %d minutes of overflow", ErrNoContainingFreeTimeslot, slot, free, overflow)
	}
	return cc
}
