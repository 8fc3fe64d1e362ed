// Package scheduling maps positions in a repeating week onto concrete instants.
package scheduling

import (
	"time"

	"github.com/dromara/carbon/v2"
)

const daysPerWeek = 7

// WeeklyTrigger fires once a week at a fixed weekday and clock time.
type WeeklyTrigger struct {
	Weekday int // 0-6, Monday first
	Hour    int // 0-23
	Minute  int // 0-59
}

// MondayIndex converts a time.Weekday (Sunday first) to a Monday-first index.
func MondayIndex(d time.Weekday) int {
	return (int(d) + daysPerWeek - 1) % daysPerWeek
}

// candidate returns the occurrence in the same week as now, in now's location.
func (t *WeeklyTrigger) candidate(now time.Time) *carbon.Carbon {
	days := t.Weekday - MondayIndex(now.Weekday())
	return carbon.CreateFromStdTime(now).AddDays(days).SetTimeMilli(t.Hour, t.Minute, 0, 0)
}

// From returns the first occurrence at or after the minute now falls in.
func (t *WeeklyTrigger) From(now time.Time) time.Time {
	floor := now.Truncate(time.Minute)
	next := t.candidate(now)
	if next.StdTime().Before(floor) {
		next = next.AddWeek()
	}
	return next.StdTime()
}
