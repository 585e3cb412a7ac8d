package commands

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"rankwatch/internal/app"
)

var statsDays int

func init() {
	statsCmd.Flags().IntVarP(&statsDays, "days", "d", 0, "calendar days in the window (default report.days)")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(statusCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats [--days <n>]",
	Short: "Shows best, worst and average rank over a window.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, app.Options{NoPublisher: true}, func(ctx context.Context, e env) error {
			w, err := e.app.Tracker.Statistics(ctx, statsDays)
			if err != nil {
				return err
			}
			days := statsDays
			if days <= 0 {
				days = e.cfg.Report.Days
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.SetTitle(fmt.Sprintf("Last %d days (%d samples)", days, w.Samples))
			t.AppendHeader(table.Row{"Best", "Worst", "Average", "Change", "Day over day"})
			t.AppendRow(table.Row{w.Best, w.Worst, w.Average, w.Change.Signed(), w.DayOverDay.Signed()})
			t.Render()

			if len(w.Daily) == 0 {
				return nil
			}
			daily := table.NewWriter()
			daily.SetOutputMirror(cmd.OutOrStdout())
			daily.SetStyle(table.StyleLight)
			daily.AppendHeader(table.Row{"Date", "Rank"})
			for _, p := range w.Daily {
				daily.AppendRow(table.Row{p.Date, p.Rank})
			}
			daily.Render()
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Shows the current rank snapshot.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, app.Options{NoPublisher: true}, func(ctx context.Context, e env) error {
			snap, err := e.app.Tracker.Current(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if snap == nil {
				fmt.Fprintln(out, "no rank recorded yet")
				return nil
			}
			fmt.Fprintf(out, "rank %s in %s, updated %s\n",
				rankText(snap.Rank),
				categoryText(snap.Category),
				snap.LastUpdated.In(e.loc).Format("2006-01-02 15:04"),
			)
			return nil
		})
	},
}
