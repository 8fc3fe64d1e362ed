package calendar

import (
	"fmt"
	"strconv"
	"strings"
)

// Weekday is a day's position in the week, Monday first.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysPerWeek is the number of days in a Week.
const DaysPerWeek = 7

var weekdayLabels = [DaysPerWeek]string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// Weekdays lists every day in week order.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

// Label returns the lowercase day name, such as "monday".
func (w Weekday) Label() string {
	if !w.Valid() {
		return ""
	}
	return weekdayLabels[w]
}

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayLabels[w]
}

// ParseWeekday accepts a day label in any case, or its index "0" to "6".
func ParseWeekday(s string) (Weekday, error) {
	label := strings.ToLower(strings.TrimSpace(s))
	for i, l := range weekdayLabels {
		if l == label {
			return Weekday(i), nil
		}
	}

	if n, err := strconv.Atoi(label); err == nil && Weekday(n).Valid() {
		return Weekday(n), nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}
