package cli

import (
	"strconv"

	calendar "github.com/Xevion/go-calendar"
	"github.com/Xevion/go-calendar/types"
)

type GapsCmd struct {
	Series string `arg:"" help:"Comma separated ranges, such as 08:00-12:00,13:00-17:00."`
	Extend bool   `help:"Include the gaps up to the start and end limits."`
}

func (c *GapsCmd) Run(ctx *Context) error {
	series, err := calendar.ParseTimeslotSeries(c.Series, ctx.Options...)
	if err != nil {
		return err
	}
	gaps, err := series.EmptyTimeslots(c.Extend)
	if err != nil {
		return err
	}
	return ctx.emit(gaps, joinSlots(gaps))
}

type SplitCmd struct {
	Slot string             `arg:"" help:"Range to split, such as 08:00-12:00."`
	At   []types.TimeString `arg:"" help:"Times to cut at, in increasing order."`
}

func (c *SplitCmd) Run(ctx *Context) error {
	ts, err := calendar.ParseTimeslot(c.Slot)
	if err != nil {
		return err
	}
	cuts, err := parseTimes(c.At)
	if err != nil {
		return err
	}
	parts, err := calendar.SplitTimeslot(ts, cuts...)
	if err != nil {
		return err
	}
	return ctx.emit(parts, joinSlots(parts))
}

type CountCmd struct {
	Slot string `arg:"" help:"Range to fill, such as 08:00-12:00."`
	Size int    `help:"Slot size in minutes." default:"5"`
}

func (c *CountCmd) Run(ctx *Context) error {
	ts, err := calendar.ParseTimeslot(c.Slot)
	if err != nil {
		return err
	}
	n := calendar.NumberOfSlotsInRange(ts, c.Size)
	return ctx.emit(n, strconv.Itoa(n))
}
