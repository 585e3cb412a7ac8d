package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"rankwatch/internal/app"
	"rankwatch/internal/domain"
)

var (
	historyDays  int
	historyLimit int
)

func init() {
	historyCmd.Flags().IntVarP(&historyDays, "days", "d", 7, "calendar days to include (0 for all)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum entries (0 for no limit)")
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [--days <n>] [--limit <n>]",
	Short: "Lists recorded ranks, newest first.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, app.Options{NoPublisher: true}, func(ctx context.Context, e env) error {
			entries, err := e.app.Tracker.History(ctx, historyDays, historyLimit)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Recorded", "Rank", "Category", "Manual", "By"})
			t.SetColumnConfigs([]table.ColumnConfig{
				{Name: "ID", Align: text.AlignRight},
				{Name: "Rank", Align: text.AlignRight},
			})
			for _, h := range entries {
				t.AppendRow(table.Row{
					h.ID,
					h.Timestamp.In(e.loc).Format("2006-01-02 15:04"),
					rankText(h.Rank),
					h.Category,
					h.ManualEntry,
					h.ExtractedBy,
				})
			}
			t.AppendFooter(table.Row{"", "", "", "", "Total", len(entries)})
			t.Render()
			return nil
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Deletes one history entry.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("%w: invalid history id %q", domain.ErrInvalidManualInput, args[0])
		}
		return withApp(cmd, app.Options{NoPublisher: true}, func(ctx context.Context, e env) error {
			if err := e.app.Tracker.DeleteHistory(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted #%d\n", id)
			return nil
		})
	},
}
