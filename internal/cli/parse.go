package cli

import (
	calendar "github.com/Xevion/go-calendar"
)

type ParseCmd struct {
	Kind  string `arg:"" help:"What to parse." enum:"time,timeslot,series,day,week"`
	Value string `arg:"" help:"Value to parse."`
}

func (c *ParseCmd) Run(ctx *Context) error {
	switch c.Kind {
	case "time":
		t, err := calendar.ParseTime(c.Value)
		if err != nil {
			return err
		}
		return ctx.emit(t, t.String())
	case "timeslot":
		ts, err := calendar.ParseTimeslot(c.Value)
		if err != nil {
			return err
		}
		return ctx.emit(ts, ts.String())
	case "series":
		series, err := calendar.ParseTimeslotSeries(c.Value, ctx.Options...)
		if err != nil {
			return err
		}
		return ctx.emit(series, series.String())
	case "day":
		day, err := calendar.ParseDay[string](c.Value, ctx.Options...)
		if err != nil {
			return err
		}
		return ctx.emit(day, day.String())
	default:
		week, err := calendar.ParseWeek[string](c.Value, ctx.Options...)
		if err != nil {
			return err
		}
		return ctx.emit(week, week.String())
	}
}
