package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"rankwatch/internal/app"
	"rankwatch/internal/domain"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fetches the product page now and records the rank it finds.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, app.Options{}, func(ctx context.Context, e env) error {
			res, err := e.app.Tracker.CheckNow(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res.Success {
				fmt.Fprintf(out, "rank %s in %s (%s)\n", rankText(res.Rank), res.Category, res.Strategy)
				return nil
			}
			fmt.Fprintf(out, "%s\nlast known rank %s in %s\n", res.Message, rankText(res.Rank), res.Category)
			return nil
		})
	},
}

func rankText(rank *int) string {
	if rank == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *rank)
}

func categoryText(category *string) string {
	if category == nil || *category == "" {
		return domain.DefaultCategory
	}
	return *category
}
