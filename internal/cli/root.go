package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	calendar "github.com/Xevion/go-calendar"
	"github.com/Xevion/go-calendar/types"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// CLI is the command tree for weekplan. Global flags configure the Context
// every command runs with.
type CLI struct {
	Version kong.VersionFlag `help:"Print version and exit."`
	Debug   bool             `help:"Enable debug logging."`
	Format  string           `help:"Output format." short:"f" enum:"text,json,yaml" default:"text"`
	Start   types.TimeString `help:"Start limit (HH:MM). Requires --end."`
	End     types.TimeString `help:"End limit (HH:MM). Requires --start."`
	Overlap bool             `help:"Reject ranges that overlap existing ones."`
	Exact   bool             `help:"Only insert into free ranges that match exactly."`

	Parse  ParseCmd  `cmd:"" help:"Parse and normalize a time, timeslot, series, day or week."`
	Gaps   GapsCmd   `cmd:"" help:"List the empty timeslots of a series."`
	Split  SplitCmd  `cmd:"" help:"Split a timeslot at the given times."`
	Count  CountCmd  `cmd:"" help:"Count how many fixed-size slots fit in a timeslot."`
	Insert InsertCmd `cmd:"" help:"Insert a task into a day's free ranges."`
	Find   FindCmd   `cmd:"" help:"Find the earliest free timeslot of a given length in a day."`
	Next   NextCmd   `cmd:"" help:"Find the next free timeslot in a week from a given instant."`
	Render RenderCmd `cmd:"" help:"Render a week file as a table."`
}

// Context is passed to every command's Run method.
type Context struct {
	Out     io.Writer
	Format  string
	Options []calendar.Option
}

// Context builds the run context from the global flags.
func (c *CLI) Context(out io.Writer) (*Context, error) {
	ctx := &Context{
		Out:    out,
		Format: c.Format,
	}
	if ctx.Format == "" {
		ctx.Format = FormatText
	}

	if c.Start != "" || c.End != "" {
		if c.Start == "" || c.End == "" {
			return nil, fmt.Errorf("--start and --end must be given together")
		}
		start, err := calendar.ParseTime(string(c.Start))
		if err != nil {
			return nil, fmt.Errorf("--start: %w", err)
		}
		end, err := calendar.ParseTime(string(c.End))
		if err != nil {
			return nil, fmt.Errorf("--end: %w", err)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("%w: --start %s is after --end %s", calendar.ErrInvalidTimeslotRange, start, end)
		}
		ctx.Options = append(ctx.Options, calendar.WithLimits(start, end))
	}
	if c.Overlap {
		ctx.Options = append(ctx.Options, calendar.WithOverlapCheck(true))
	}
	if c.Exact {
		ctx.Options = append(ctx.Options, calendar.WithMerging(false))
	}

	return ctx, nil
}

// emit writes v in the selected format. text is used for the text format.
func (c *Context) emit(v any, text string) error {
	switch c.Format {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.Out, string(data))
		return err
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = c.Out.Write(data)
		return err
	default:
		_, err := fmt.Fprintln(c.Out, text)
		return err
	}
}

func joinSlots(slots []calendar.Timeslot) string {
	parts := make([]string, 0, len(slots))
	for _, ts := range slots {
		parts = append(parts, ts.String())
	}
	return strings.Join(parts, calendar.SeriesSeparator)
}

func parseTimes(raw []types.TimeString) ([]calendar.Time, error) {
	times := make([]calendar.Time, 0, len(raw))
	for _, s := range raw {
		t, err := calendar.ParseTime(string(s))
		if err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, nil
}
