package main

// This file contains the stats and calendar subcommands.

import (
	"fmt"
	"time"

	"daylog/internal/day"
	"daylog/internal/reports"
	"daylog/internal/storage"

	"github.com/spf13/cobra"
)

const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

func newStatsCmd(e *env) *cobra.Command {
	var (
		format      string
		pretty      bool
		summaryOnly bool
		at          string
		width       int
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print totals, streaks and recent activity",
		Long: `Print a progress report: totals for today, this week and this month,
the current and longest streak, daily average, tag counts and the most recent
entries.`,
		Example: `  daylog stats
  daylog stats --pretty
  daylog stats --format json --summary
  daylog stats --at 2025-06-30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != formatMarkdown && format != formatJSON {
				return fmt.Errorf("unknown format %q (use %s or %s)", format, formatMarkdown, formatJSON)
			}
			now := e.now()
			if at != "" {
				d, err := day.Parse(at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				now = time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 0, 0, time.Local)
			}

			return withStore(cmd, e, func(store storage.EntryStore) error {
				gen := reports.NewGenerator(store, e.cfg.UX.RecentEntries)
				report, err := gen.Generate(cmd.Context(), e.cfg.User, now)
				if err != nil {
					return fmt.Errorf("generating report: %w", err)
				}
				out := cmd.OutOrStdout()

				if format == formatJSON {
					var data []byte
					if summaryOnly {
						data, err = reports.FormatSummaryJSON(report)
					} else {
						data, err = reports.FormatJSON(report)
					}
					if err != nil {
						return fmt.Errorf("encoding report: %w", err)
					}
					fmt.Fprintln(out, string(data))
					return nil
				}

				md := reports.FormatMarkdown(report)
				if pretty {
					rendered, err := reports.Render(md, width)
					if err != nil {
						return fmt.Errorf("rendering report: %w", err)
					}
					fmt.Fprint(out, rendered)
					return nil
				}
				fmt.Fprint(out, md)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", formatMarkdown, "output format: markdown or json")
	f.BoolVarP(&pretty, "pretty", "p", false, "render markdown for the terminal")
	f.BoolVar(&summaryOnly, "summary", false, "with --format json, print only the summary numbers")
	f.StringVar(&at, "at", "", "report as of this date (YYYY-MM-DD)")
	f.IntVar(&width, "width", 80, "wrap width for --pretty")
	return cmd
}

func newCalendarCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "calendar [YYYY-MM]",
		Aliases: []string{"cal"},
		Short:   "Show a month with active days marked",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := day.FromTime(e.now()).StartOfMonth()
			if len(args) == 1 {
				t, err := time.Parse("2006-01", args[0])
				if err != nil {
					return fmt.Errorf("month %q: want YYYY-MM", args[0])
				}
				month = day.New(t.Year(), t.Month(), 1)
			}

			return withStore(cmd, e, func(store storage.EntryStore) error {
				gen := reports.NewGenerator(store, e.cfg.UX.RecentEntries)
				active, err := gen.Calendar(cmd.Context(), e.cfg.User, month)
				if err != nil {
					return fmt.Errorf("loading month: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), reports.FormatCalendar(month, active))
				return nil
			})
		},
	}
}
