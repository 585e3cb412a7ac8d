package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"rankwatch/internal/app"
)

var (
	reportSend bool
	reportHTML bool
)

func init() {
	reportCmd.Flags().BoolVar(&reportSend, "send", false, "deliver the report to the configured channels")
	reportCmd.Flags().BoolVar(&reportHTML, "html", false, "print the HTML body instead of plain text")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [--send] [--html]",
	Short: "Renders the periodic rank report.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, app.Options{NoPublisher: !reportSend}, func(ctx context.Context, e env) error {
			build := e.app.Tracker.BuildReport
			if reportSend {
				build = e.app.Tracker.SendReport
			}
			n, err := build(ctx)
			if n != nil {
				fmt.Fprintln(cmd.OutOrStdout(), n.Subject)
				fmt.Fprintln(cmd.OutOrStdout())
				if reportHTML {
					fmt.Fprintln(cmd.OutOrStdout(), n.HTML)
				} else {
					fmt.Fprint(cmd.OutOrStdout(), n.Text)
				}
			}
			return err
		})
	},
}
