package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dromara/carbon/v2"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	calendar "github.com/Xevion/go-calendar"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

type nextResult struct {
	Weekday string            `json:"weekday" yaml:"weekday"`
	Slot    calendar.Timeslot `json:"slot" yaml:"slot"`
	At      time.Time         `json:"at" yaml:"at"`
}

type NextCmd struct {
	Week    string `arg:"" help:"Week string, seven day strings joined by |."`
	Minutes int    `help:"Length of the timeslot in minutes." required:""`
	At      string `help:"Reference instant, such as '2025-08-04 10:15'. Defaults to now."`
}

func (c *NextCmd) Run(ctx *Context) error {
	week, err := calendar.ParseWeek[string](c.Week, ctx.Options...)
	if err != nil {
		return err
	}

	now := carbon.Now(carbon.Local)
	if c.At != "" {
		now = carbon.Parse(c.At, carbon.Local)
		if now.Error != nil {
			return fmt.Errorf("--at: %w", now.Error)
		}
	}

	weekday, ts, at, ok := week.NextFreeSlot(now.StdTime(), c.Minutes)
	if !ok {
		return fmt.Errorf("%w: no %d minute timeslot in the week", calendar.ErrNoContainingFreeTimeslot, c.Minutes)
	}

	result := nextResult{Weekday: weekday.Label(), Slot: ts, At: at}
	text := fmt.Sprintf("%s %s (%s)", weekday, ts, carbon.CreateFromStdTime(at).ToDateTimeString())
	return ctx.emit(result, text)
}

type RenderCmd struct {
	File string `arg:"" help:"Week file, YAML or JSON." type:"existingfile"`
}

func (c *RenderCmd) Run(ctx *Context) error {
	week, err := loadWeek(c.File, ctx.Options)
	if err != nil {
		return err
	}
	if ctx.Format != FormatText {
		return ctx.emit(week, "")
	}
	_, err = fmt.Fprintln(ctx.Out, renderWeek(week))
	return err
}

// loadWeek reads a week file. Files ending in .json are read as JSON, anything
// else as YAML. Either may hold the record form or the week string.
func loadWeek(path string, opts []calendar.Option) (*calendar.Week[string], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	week := calendar.NewWeek[string](opts...)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, week)
	} else {
		err = yaml.Unmarshal(data, week)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return week, nil
}

func renderWeek(week *calendar.Week[string]) string {
	rows := make([][]string, 0, calendar.DaysPerWeek)
	for _, d := range week.Days() {
		gaps, _ := d.EmptyTimeslots(false)
		rows = append(rows, []string{
			d.Weekday().Label(),
			orDash(d.SeriesString()),
			orDash(joinSlots(gaps)),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("DAY", "RANGES", "GAPS").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
