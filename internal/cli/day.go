package cli

import (
	"fmt"

	calendar "github.com/Xevion/go-calendar"
	"github.com/Xevion/go-calendar/types"
)

type insertResult struct {
	Placed calendar.Timeslot        `json:"placed" yaml:"placed"`
	Task   types.TaskRecord[string] `json:"task" yaml:"task"`
	Free   []calendar.Timeslot      `json:"free" yaml:"free"`
	Day    *calendar.Day[string]    `json:"day" yaml:"day"`
}

type InsertCmd struct {
	Day  string `arg:"" help:"Day string, such as 0;08:00-12:00."`
	Slot string `arg:"" help:"Range to occupy, such as 09:00-10:00."`
	Task string `help:"Task label." default:"task"`
}

func (c *InsertCmd) Run(ctx *Context) error {
	day, err := calendar.ParseDay[string](c.Day, ctx.Options...)
	if err != nil {
		return err
	}
	task := calendar.NewTask(c.Task)
	placed, err := day.InsertString(c.Slot, task)
	if err != nil {
		return err
	}

	result := insertResult{
		Placed: placed,
		Task:   task.Record(),
		Free:   day.FreeTimeslots(),
		Day:    day,
	}
	text := fmt.Sprintf("%s %s\n%s", placed, task.Data(), day)
	return ctx.emit(result, text)
}

type FindCmd struct {
	Day      string           `arg:"" help:"Day string, such as 0;08:00-12:00."`
	Minutes  int              `help:"Length of the timeslot in minutes." required:""`
	After    types.TimeString `help:"Earliest start (HH:MM)." default:"00:00"`
	Overflow int              `help:"Minutes the timeslot may run past the end of a free range."`
}

func (c *FindCmd) Run(ctx *Context) error {
	day, err := calendar.ParseDay[string](c.Day, ctx.Options...)
	if err != nil {
		return err
	}
	after, err := calendar.ParseTime(string(c.After))
	if err != nil {
		return err
	}
	ts, ok := day.FindFree(after, c.Minutes, c.Overflow)
	if !ok {
		return fmt.Errorf("%w: no %d minute timeslot after %s", calendar.ErrNoContainingFreeTimeslot, c.Minutes, after)
	}
	return ctx.emit(ts, ts.String())
}
