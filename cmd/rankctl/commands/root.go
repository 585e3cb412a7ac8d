package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"rankwatch/internal/app"
	"rankwatch/internal/config"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "rankctl",
	Short: "rankctl checks, records and reports the tracked bestseller rank.",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file (~ is expanded)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "loglevel", "l", "", "override log level: debug, info, warn, error")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type env struct {
	cfg *config.Config
	app *app.App
	loc *time.Location
}

// withApp loads the config, builds the tracker and closes it once fn returns.
func withApp(cmd *cobra.Command, opts app.Options, fn func(ctx context.Context, e env) error) error {
	path, err := homedir.Expand(cfgFile)
	if err != nil {
		return fmt.Errorf("expand config path: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logger := app.NewLogger(level, cmd.ErrOrStderr())

	loc, err := cfg.Schedule.Location()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := app.New(ctx, cfg, logger, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, env{cfg: cfg, app: a, loc: loc})
}
