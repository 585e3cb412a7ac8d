package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rankwatch/internal/api"
	"rankwatch/internal/app"
	"rankwatch/internal/config"
	"rankwatch/internal/scheduler"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := app.NewLogger("info", os.Stdout)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = app.NewLogger(cfg.LogLevel, os.Stdout)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(ctx, cfg, logger, app.Options{})
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	loc, _ := cfg.Schedule.Location()
	sched, err := scheduler.NewScheduler(a.Tracker, a.Tracker, scheduler.Config{
		Location:   loc,
		CheckAt:    cfg.Schedule.CheckAt,
		ReportAt:   cfg.Schedule.ReportAt,
		RunTimeout: cfg.Schedule.RunTimeout,
		RunOnStart: cfg.Schedule.RunOnStart,
	}, logger)
	if err != nil {
		logger.Error("invalid schedule", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.New(a.Tracker, cfg.HTTP.Token, logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	logger.Info("starting rank tracker",
		"scrape_enabled", cfg.Scrape.Enabled,
		"source", a.Source.URL(),
		"timezone", cfg.Schedule.Timezone,
		"check_at", cfg.Schedule.CheckAt,
		"report_at", cfg.Schedule.ReportAt,
	)

	err = sched.Start(ctx)

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		logger.Error("http shutdown", "error", serr)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}
