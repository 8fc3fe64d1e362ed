package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/golang-cz/devslog"

	"github.com/Xevion/go-calendar/internal"
	"github.com/Xevion/go-calendar/internal/cli"
)

func setupLogging(debug bool) {
	if !debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
		return
	}

	opts := &devslog.Options{
		HandlerOptions:    &slog.HandlerOptions{Level: slog.LevelDebug},
		MaxSlicePrintSize: 10,
		SortKeys:          true,
		NewLineAfterLog:   true,
	}
	slog.SetDefault(slog.New(devslog.NewHandler(os.Stderr, opts)))
}

func main() {
	var app cli.CLI
	ctx := kong.Parse(&app,
		kong.Name("weekplan"),
		kong.Description("Weekly free-time planner built on timeslot arithmetic"),
		kong.UsageOnError(),
		kong.Vars{"version": internal.CurrentVersion},
	)

	setupLogging(app.Debug)

	appCtx, err := app.Context(os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := ctx.Run(appCtx); err != nil {
		slog.Debug("Command failed", "command", ctx.Command(), "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
