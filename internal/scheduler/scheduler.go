package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"rankwatch/internal/domain"
	"rankwatch/internal/report"
)

// Checker runs one scheduled rank check.
type Checker interface {
	RunScheduled(ctx context.Context) (*domain.CheckStats, error)
}

// Reporter renders and dispatches the periodic report.
type Reporter interface {
	SendReport(ctx context.Context) (*report.Notification, error)
}

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" in 24-hour notation.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Clock{}, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Spec is the daily cron expression for c.
func (c Clock) Spec() string {
	return fmt.Sprintf("%d %d * * *", c.Minute, c.Hour)
}

type Config struct {
	Location   *time.Location
	CheckAt    string
	ReportAt   string // empty disables the report job
	RunTimeout time.Duration
	RunOnStart bool
}

type job struct {
	name string
	at   Clock
	id   cron.EntryID
	run  func(ctx context.Context) error
}

type Scheduler struct {
	cron    *cron.Cron
	jobs    []job
	loc     *time.Location
	timeout time.Duration
	onStart bool
	base    context.Context
	logger  *slog.Logger
}

func NewScheduler(checker Checker, reporter Reporter, cfg Config, logger *slog.Logger) (*Scheduler, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	timeout := cfg.RunTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	cl := cronLogger{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		loc:     loc,
		timeout: timeout,
		onStart: cfg.RunOnStart,
		base:    context.Background(),
		logger:  logger,
	}

	err := s.add("check", cfg.CheckAt, func(ctx context.Context) error {
		_, err := checker.RunScheduled(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if cfg.ReportAt != "" && reporter != nil {
		err := s.add("report", cfg.ReportAt, func(ctx context.Context) error {
			_, err := reporter.SendReport(ctx)
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Scheduler) add(name, at string, run func(ctx context.Context) error) error {
	clock, err := ParseClock(at)
	if err != nil {
		return err
	}
	j := job{name: name, at: clock, run: run}
	j.id, err = s.cron.AddFunc(clock.Spec(), func() {
		s.run(s.base, j)
	})
	if err != nil {
		return fmt.Errorf("schedule %s job: %w", name, err)
	}
	s.jobs = append(s.jobs, j)
	return nil
}

// Start runs the jobs until ctx is cancelled, then waits for a running job
// to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	s.base = ctx

	now := time.Now().In(s.loc)
	for _, j := range s.jobs {
		s.logger.Info("scheduled job",
			"job", j.name,
			"at", j.at.String(),
			"timezone", s.loc.String(),
			"next", s.cron.Entry(j.id).Schedule.Next(now),
		)
	}

	if s.onStart {
		s.run(ctx, s.jobs[0])
	}

	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()

	s.logger.Info("scheduler stopped")
	return ctx.Err()
}

// run never propagates failures; they are logged so a bad run does not stop
// the schedule.
func (s *Scheduler) run(ctx context.Context, j job) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := j.run(runCtx); err != nil {
		s.logger.Error("scheduled job failed", "job", j.name, "error", err)
	}
}

// cronLogger routes cron's own logging into slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
