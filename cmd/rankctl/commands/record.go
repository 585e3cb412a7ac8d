package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"rankwatch/internal/app"
	"rankwatch/internal/domain"
)

var (
	recordCategory string
	recordAt       string
	recordURL      string
)

func init() {
	recordCmd.Flags().StringVarP(&recordCategory, "category", "c", "", "category the rank belongs to")
	recordCmd.Flags().StringVar(&recordAt, "at", "", "RFC 3339 time of the observation (default now)")
	recordCmd.Flags().StringVar(&recordURL, "url", "", "page the rank was read from")
	rootCmd.AddCommand(recordCmd)
}

var recordCmd = &cobra.Command{
	Use:   "record RANK [--category <name>] [--at <time>]",
	Short: "Records a manually observed rank.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rank, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: rank %q is not a number", domain.ErrInvalidManualInput, args[0])
		}
		in := domain.RankInput{
			Rank:      &rank,
			Category:  recordCategory,
			SourceURL: recordURL,
		}
		if recordAt != "" {
			ts, err := time.Parse(time.RFC3339, recordAt)
			if err != nil {
				return fmt.Errorf("%w: --at must be RFC 3339", domain.ErrInvalidManualInput)
			}
			in.Timestamp = &ts
		}

		return withApp(cmd, app.Options{}, func(ctx context.Context, e env) error {
			res, err := e.app.Tracker.RecordManual(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recorded #%d: rank %s in %s at %s\n",
				res.Entry.ID,
				rankText(res.Entry.Rank),
				res.Entry.Category,
				res.Entry.Timestamp.In(e.loc).Format("2006-01-02 15:04"),
			)
			if !res.Current {
				fmt.Fprintln(cmd.OutOrStdout(), "current rank left unchanged")
			}
			return nil
		})
	},
}
