package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankwatch/internal/domain"
	"rankwatch/internal/report"
)

var kst = time.FixedZone("KST", 9*60*60)

type fakeChecker struct {
	calls chan struct{}
	err   error
}

func (f *fakeChecker) RunScheduled(context.Context) (*domain.CheckStats, error) {
	select {
	case f.calls <- struct{}{}:
	default:
	}
	return nil, f.err
}

type fakeReporter struct {
	calls chan struct{}
}

func (f *fakeReporter) SendReport(context.Context) (*report.Notification, error) {
	select {
	case f.calls <- struct{}{}:
	default:
	}
	return &report.Notification{}, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:05")
	require.NoError(t, err)
	assert.Equal(t, Clock{Hour: 9, Minute: 5}, c)
	assert.Equal(t, "09:05", c.String())

	_, err = ParseClock("25:00")
	assert.Error(t, err)
	_, err = ParseClock("")
	assert.Error(t, err)
}

func TestClock_Spec(t *testing.T) {
	assert.Equal(t, "5 9 * * *", Clock{Hour: 9, Minute: 5}.Spec())
	assert.Equal(t, "30 0 * * *", Clock{Hour: 0, Minute: 30}.Spec())
}

func TestNewScheduler_InvalidClock(t *testing.T) {
	_, err := NewScheduler(&fakeChecker{}, nil, Config{CheckAt: "9am"}, discard())
	assert.Error(t, err)

	_, err = NewScheduler(&fakeChecker{}, &fakeReporter{}, Config{CheckAt: "09:00", ReportAt: "x"}, discard())
	assert.Error(t, err)
}

func (s *Scheduler) nextRun(name string, now time.Time) time.Time {
	for _, j := range s.jobs {
		if j.name == name {
			return s.cron.Entry(j.id).Schedule.Next(now.In(s.loc))
		}
	}
	return time.Time{}
}

func TestScheduler_NextRunInLocation(t *testing.T) {
	s, err := NewScheduler(&fakeChecker{}, &fakeReporter{}, Config{Location: kst, CheckAt: "09:00", ReportAt: "09:30"}, discard())
	require.NoError(t, err)

	// 08:00 KST on the 16th
	before := time.Date(2026, 10, 15, 23, 0, 0, 0, time.UTC)
	assert.True(t, s.nextRun("check", before).Equal(time.Date(2026, 10, 16, 9, 0, 0, 0, kst)))
	assert.True(t, s.nextRun("report", before).Equal(time.Date(2026, 10, 16, 9, 30, 0, 0, kst)))

	// exactly 09:00 KST rolls to the next day
	exact := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	assert.True(t, s.nextRun("check", exact).Equal(time.Date(2026, 10, 17, 9, 0, 0, 0, kst)))

	// 09:10 KST: report still due today
	between := time.Date(2026, 10, 16, 9, 10, 0, 0, kst)
	assert.True(t, s.nextRun("check", between).Equal(time.Date(2026, 10, 17, 9, 0, 0, 0, kst)))
	assert.True(t, s.nextRun("report", between).Equal(time.Date(2026, 10, 16, 9, 30, 0, 0, kst)))
}

func TestScheduler_ReportDisabled(t *testing.T) {
	s, err := NewScheduler(&fakeChecker{}, &fakeReporter{}, Config{CheckAt: "09:00"}, discard())
	require.NoError(t, err)
	assert.Len(t, s.jobs, 1)
	assert.Len(t, s.cron.Entries(), 1)
}

func TestScheduler_JobsLogFailuresAndKeepGoing(t *testing.T) {
	checker := &fakeChecker{calls: make(chan struct{}, 2), err: errors.New("blocked")}
	reporter := &fakeReporter{calls: make(chan struct{}, 1)}
	s, err := NewScheduler(checker, reporter, Config{Location: kst, CheckAt: "09:00", ReportAt: "09:00"}, discard())
	require.NoError(t, err)
	require.Len(t, s.cron.Entries(), 2)

	for _, j := range s.jobs {
		s.cron.Entry(j.id).Job.Run()
	}
	s.cron.Entry(s.jobs[0].id).Job.Run()

	assert.Len(t, checker.calls, 2)
	assert.Len(t, reporter.calls, 1)
}

func TestScheduler_RunTimeout(t *testing.T) {
	var deadline time.Time
	checker := checkerFunc(func(ctx context.Context) (*domain.CheckStats, error) {
		deadline, _ = ctx.Deadline()
		return nil, nil
	})
	s, err := NewScheduler(checker, nil, Config{CheckAt: "09:00", RunTimeout: time.Minute}, discard())
	require.NoError(t, err)

	s.cron.Entry(s.jobs[0].id).Job.Run()

	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

type checkerFunc func(ctx context.Context) (*domain.CheckStats, error)

func (f checkerFunc) RunScheduled(ctx context.Context) (*domain.CheckStats, error) {
	return f(ctx)
}

func TestScheduler_RunOnStart(t *testing.T) {
	checker := &fakeChecker{calls: make(chan struct{}, 1)}
	s, err := NewScheduler(checker, nil, Config{Location: kst, CheckAt: "09:00", RunOnStart: true}, discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	select {
	case <-checker.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("check did not run on start")
	}
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestScheduler_StopsOnCancel(t *testing.T) {
	s, err := NewScheduler(&fakeChecker{}, nil, Config{CheckAt: "09:00"}, discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
