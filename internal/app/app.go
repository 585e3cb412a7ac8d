// Package app assembles the tracker and its dependencies from a Config.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"rankwatch/internal/config"
	"rankwatch/internal/extract"
	"rankwatch/internal/notify"
	"rankwatch/internal/publisher"
	"rankwatch/internal/rankstore"
	"rankwatch/internal/service"
	"rankwatch/internal/source/bookstore"
	"rankwatch/internal/storage/postgres"
	"rankwatch/internal/storage/sqlite"
)

type App struct {
	Tracker *service.Tracker
	Store   *rankstore.Store
	Source  *bookstore.Source

	closers []io.Closer
}

// Options switch off the parts a short-lived command does not need.
type Options struct {
	NoPublisher bool
}

func NewLogger(level string, w io.Writer) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*App, error) {
	a := &App{}

	store, err := a.openStore(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	a.Store = store

	// Interfaces stay nil rather than holding a nil pointer so the tracker
	// can tell a disabled dependency apart.
	var pub service.Publisher
	if cfg.RabbitMQ.Enabled && !opts.NoPublisher {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:              cfg.RabbitMQ.URL,
			Exchange:         cfg.RabbitMQ.Exchange,
			RoutingKey:       cfg.RabbitMQ.RoutingKey,
			ReportRoutingKey: cfg.RabbitMQ.ReportRoutingKey,
			QueueName:        cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, rabbitMQ)
		pub = rabbitMQ
	}

	var notifier service.Notifier
	smtpCfg := notify.SMTPConfig{
		Server:   cfg.SMTP.Server,
		Port:     cfg.SMTP.Port,
		From:     cfg.SMTP.From,
		Password: cfg.SMTP.Password,
		To:       cfg.SMTP.To,
	}
	if smtpCfg.Enabled() {
		notifier = notify.NewMailer(smtpCfg, logger)
	}

	a.Source = bookstore.New(bookstore.Config{
		URL:               cfg.Scrape.URL,
		Timeout:           cfg.Scrape.Timeout,
		UserAgent:         cfg.Scrape.UserAgent,
		MaxAttempts:       cfg.Scrape.Retry.MaxAttempts,
		InitialBackoff:    cfg.Scrape.Retry.InitialBackoff,
		MaxBackoff:        cfg.Scrape.Retry.MaxBackoff,
		RatePerMinute:     cfg.Scrape.RatePerMinute,
		Browser:           cfg.Scrape.Browser,
		BrowserControlURL: cfg.Scrape.BrowserControlURL,
	}, logger)

	extractor := extract.New(extract.Config{
		Window:   cfg.Scrape.KeywordWindow,
		Category: cfg.Scrape.Category,
	}, logger)

	loc, err := cfg.Schedule.Location()
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Tracker = service.NewTracker(a.Source, extractor, store, pub, notifier, logger, service.Options{
		ScrapeEnabled:   cfg.Scrape.Enabled,
		Category:        cfg.Scrape.Category,
		Location:        loc,
		NowTolerance:    cfg.Manual.NowTolerance,
		KnownCategories: cfg.Manual.KnownCategories,
		MatchThreshold:  cfg.Manual.MatchThreshold,
		ReportDays:      cfg.Report.Days,
		HistoryRows:     cfg.Report.HistoryRows,
	})

	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*rankstore.Store, error) {
	var db *sqlx.DB
	var current rankstore.CurrentBackend
	var history rankstore.HistoryBackend

	switch cfg.Driver {
	case "sqlite":
		var err error
		db, err = sqlite.Open(ctx, cfg.Path, sqlite.Options{})
		if err != nil {
			return nil, err
		}
		current = sqlite.NewCurrentStore(db)
		history = sqlite.NewHistoryStore(db, logger)
	case "postgres":
		var err error
		db, err = sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		current = postgres.NewCurrentStore(db)
		history = postgres.NewHistoryStore(db, logger)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	a.closers = append(a.closers, db)
	logger.Info("connected to database", "driver", cfg.Driver)
	return rankstore.New(current, history, logger), nil
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
