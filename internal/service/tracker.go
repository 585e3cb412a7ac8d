package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/antzucaro/matchr"

	"rankwatch/internal/domain"
	"rankwatch/internal/report"
	"rankwatch/internal/stats"
)

const manualEntryRequired = "manual entry required"

type Options struct {
	ScrapeEnabled   bool
	Category        string
	Location        *time.Location
	NowTolerance    time.Duration
	KnownCategories []string
	MatchThreshold  float64
	ReportDays      int
	HistoryRows     int
}

// Tracker wires the page source, the extraction cascade and the rank store
// together and serves every entry point: scheduled, on-demand, manual,
// harvester and admin.
type Tracker struct {
	source    PageSource
	extractor Extractor
	store     RankStore
	publisher Publisher
	notifier  Notifier
	opts      Options
	now       func() time.Time
	logger    *slog.Logger
}

// NewTracker builds a Tracker. source, publisher and notifier may be nil.
func NewTracker(
	source PageSource,
	extractor Extractor,
	store RankStore,
	publisher Publisher,
	notifier Notifier,
	logger *slog.Logger,
	opts Options,
) *Tracker {
	if opts.Category == "" {
		opts.Category = domain.DefaultCategory
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.ReportDays <= 0 {
		opts.ReportDays = 7
	}
	if opts.HistoryRows <= 0 {
		opts.HistoryRows = 10
	}
	if opts.MatchThreshold <= 0 {
		opts.MatchThreshold = 0.85
	}
	return &Tracker{
		source:    source,
		extractor: extractor,
		store:     store,
		publisher: publisher,
		notifier:  notifier,
		opts:      opts,
		now:       time.Now,
		logger:    logger.With("component", "tracker"),
	}
}

// RunScheduled performs the daily check. Extraction failures are logged and
// absorbed; only storage failures are returned.
func (t *Tracker) RunScheduled(ctx context.Context) (*domain.CheckStats, error) {
	st, _, err := t.check(ctx, domain.ByScheduler)
	if err != nil {
		t.logger.Error("scheduled check failed", "error", err)
		return st, err
	}
	return st, nil
}

// CheckNow runs the pipeline for an interactive caller. When live extraction
// is disabled or fails the stored snapshot is returned instead.
func (t *Tracker) CheckNow(ctx context.Context) (*domain.CheckResult, error) {
	_, res, err := t.check(ctx, domain.ByOnDemand)
	return res, err
}

func (t *Tracker) check(ctx context.Context, trigger string) (*domain.CheckStats, *domain.CheckResult, error) {
	start := t.now()
	st := &domain.CheckStats{Trigger: trigger}
	logger := t.logger.With("trigger", trigger)

	finish := func(res *domain.CheckResult, err error) (*domain.CheckStats, *domain.CheckResult, error) {
		st.Duration = t.now().Sub(start)
		logger.Info("check finished",
			"rank", res.Rank,
			"strategy", st.Strategy,
			"fallback", st.Fallback,
			"duration", st.Duration,
		)
		return st, res, err
	}

	if !t.opts.ScrapeEnabled || t.source == nil {
		st.Fallback = true
		res, err := t.fallback(ctx, "live scraping is disabled; "+manualEntryRequired)
		if err != nil {
			return st, nil, err
		}
		return finish(res, nil)
	}

	page, err := t.source.FetchPage(ctx)
	if err != nil {
		logger.Warn("fetch failed, keeping stored rank", "error", err)
		st.Fallback = true
		res, ferr := t.fallback(ctx, "rank page could not be fetched; "+manualEntryRequired)
		if ferr != nil {
			return st, nil, ferr
		}
		return finish(res, nil)
	}

	found := t.extractor.ExtractHTML(page.HTML)
	if !found.Found() {
		logger.Warn("no rank found on page, keeping stored rank",
			"url", page.URL,
			"tier", page.Tier,
			"error", domain.ErrExtractionMiss,
		)
		st.Fallback = true
		res, ferr := t.fallback(ctx, "rank not found on page; "+manualEntryRequired)
		if ferr != nil {
			return st, nil, ferr
		}
		return finish(res, nil)
	}

	category := t.opts.Category
	if found.Category != nil {
		category = *found.Category
	}
	entry := domain.RankHistoryEntry{
		Rank:        found.Rank,
		Category:    category,
		Timestamp:   page.FetchedAt,
		SourceURL:   page.URL,
		ExtractedBy: trigger,
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = t.now().UTC()
	}

	stored, err := t.persist(ctx, entry, true)
	if err != nil {
		return st, nil, err
	}

	st.Rank = stored.Rank
	st.Strategy = string(found.Strategy)
	return finish(&domain.CheckResult{
		Success:  true,
		Rank:     stored.Rank,
		Category: stored.Category,
		Message:  fmt.Sprintf("rank %d recorded", *stored.Rank),
		Strategy: st.Strategy,
	}, nil)
}

// fallback reports the stored snapshot without touching it.
func (t *Tracker) fallback(ctx context.Context, message string) (*domain.CheckResult, error) {
	res := &domain.CheckResult{Category: t.opts.Category, Message: message}

	snap, err := t.store.ReadCurrent(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return res, nil
	case err != nil:
		return nil, err
	}

	res.Rank = snap.Rank
	if snap.Category != nil && *snap.Category != "" {
		res.Category = *snap.Category
	}
	return res, nil
}

// persist writes entry and announces it. Publishing is best effort.
func (t *Tracker) persist(ctx context.Context, entry domain.RankHistoryEntry, updateCurrent bool) (domain.RankHistoryEntry, error) {
	id, err := t.store.Record(ctx, entry, updateCurrent)
	if err != nil {
		return entry, fmt.Errorf("record rank: %w", err)
	}
	entry.ID = id

	if t.publisher != nil {
		if err := t.publisher.PublishRank(ctx, entry, updateCurrent); err != nil {
			t.logger.Warn("publish rank event failed", "id", id, "error", err)
		}
	}
	return entry, nil
}

// RecordManual stores a human-entered rank. The current snapshot is only
// updated when the entry is for "now"; backfills go to history only.
func (t *Tracker) RecordManual(ctx context.Context, in domain.RankInput) (*domain.RecordResult, error) {
	return t.record(ctx, in, true, domain.ByManual)
}

// Harvest stores a rank pushed by the browser extension.
func (t *Tracker) Harvest(ctx context.Context, in domain.RankInput) (*domain.RecordResult, error) {
	return t.record(ctx, in, false, domain.ByHarvester)
}

func (t *Tracker) record(ctx context.Context, in domain.RankInput, manual bool, defaultBy string) (*domain.RecordResult, error) {
	now := t.now()
	if err := validateRank(in.Rank); err != nil {
		return nil, err
	}

	ts := now
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		ts = *in.Timestamp
	}
	if ts.Sub(now) > t.opts.NowTolerance {
		return nil, fmt.Errorf("%w: timestamp %s is in the future", domain.ErrInvalidManualInput, ts.Format(time.RFC3339))
	}
	isNow := now.Sub(ts) <= t.opts.NowTolerance

	by := in.ExtractedBy
	if by == "" {
		by = defaultBy
	}
	entry := domain.RankHistoryEntry{
		Rank:        in.Rank,
		Category:    t.normalizeCategory(in.Category),
		Timestamp:   ts.UTC(),
		SourceURL:   in.SourceURL,
		ManualEntry: manual,
		ExtractedBy: by,
	}

	stored, err := t.persist(ctx, entry, isNow)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("rank %d recorded", *stored.Rank)
	if !isNow {
		msg += " as backfill; current rank unchanged"
	}
	t.logger.Info("rank recorded",
		"rank", *stored.Rank,
		"extracted_by", by,
		"current", isNow,
	)
	return &domain.RecordResult{Entry: stored, Current: isNow, Message: msg}, nil
}

func validateRank(rank *int) error {
	if rank == nil {
		return fmt.Errorf("%w: rank is required", domain.ErrInvalidManualInput)
	}
	if !domain.ValidRank(*rank) {
		return fmt.Errorf("%w: rank %d outside [%d, %d]", domain.ErrInvalidManualInput, *rank, domain.MinRank, domain.MaxRank)
	}
	return nil
}

// normalizeCategory maps free text onto a known category when they are close
// enough, so "weekly best / foreign language" and typos collapse onto one
// label.
func (t *Tracker) normalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return t.opts.Category
	}

	folded := strings.ToLower(category)
	best, bestScore := "", 0.0
	for _, known := range t.opts.KnownCategories {
		if strings.EqualFold(known, category) {
			return known
		}
		score := matchr.JaroWinkler(folded, strings.ToLower(known), false)
		if score > bestScore {
			best, bestScore = known, score
		}
	}
	if bestScore >= t.opts.MatchThreshold {
		return best
	}
	return category
}

// UpdateHistory rewrites one history entry. Only admins reach this; the
// pipeline never edits history.
func (t *Tracker) UpdateHistory(ctx context.Context, id int64, in domain.RankInput) (*domain.RankHistoryEntry, error) {
	if err := validateRank(in.Rank); err != nil {
		return nil, err
	}
	if in.Timestamp == nil || in.Timestamp.IsZero() {
		return nil, fmt.Errorf("%w: timestamp is required", domain.ErrInvalidManualInput)
	}

	by := in.ExtractedBy
	if by == "" {
		by = domain.ByAdmin
	}
	entry := domain.RankHistoryEntry{
		ID:          id,
		Rank:        in.Rank,
		Category:    t.normalizeCategory(in.Category),
		Timestamp:   in.Timestamp.UTC(),
		SourceURL:   in.SourceURL,
		ManualEntry: true,
		ExtractedBy: by,
	}
	if err := t.store.UpdateHistory(ctx, entry); err != nil {
		return nil, err
	}

	t.logger.Info("history entry updated", "id", id, "rank", *in.Rank)
	return &entry, nil
}

func (t *Tracker) DeleteHistory(ctx context.Context, id int64) error {
	if err := t.store.DeleteHistory(ctx, id); err != nil {
		return err
	}
	t.logger.Info("history entry deleted", "id", id)
	return nil
}

// Current returns the stored snapshot, or nil when none exists yet.
func (t *Tracker) Current(ctx context.Context) (*domain.RankSnapshot, error) {
	snap, err := t.store.ReadCurrent(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return snap, err
}

// History returns entries newest first. days <= 0 means no lower bound;
// limit <= 0 means no limit.
func (t *Tracker) History(ctx context.Context, days, limit int) ([]domain.RankHistoryEntry, error) {
	q := domain.HistoryQuery{Limit: limit}
	if days > 0 {
		since := stats.WindowStart(t.now(), days, t.opts.Location)
		q.Since = &since
	}
	return t.store.ReadHistory(ctx, q)
}

// Statistics computes the window over the last days calendar days.
func (t *Tracker) Statistics(ctx context.Context, days int) (*stats.Window, error) {
	if days <= 0 {
		days = t.opts.ReportDays
	}
	entries, err := t.History(ctx, days, 0)
	if err != nil {
		return nil, err
	}
	w := stats.Compute(entries, t.opts.Location)
	return &w, nil
}

// BuildReport renders the periodic report without sending it.
func (t *Tracker) BuildReport(ctx context.Context) (*report.Notification, error) {
	current, err := t.Current(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := t.History(ctx, t.opts.ReportDays, 0)
	if err != nil {
		return nil, err
	}
	window := stats.Compute(entries, t.opts.Location)

	rows := entries
	if len(rows) > t.opts.HistoryRows {
		rows = rows[:t.opts.HistoryRows]
	}

	category := t.opts.Category
	if current != nil && current.Category != nil && *current.Category != "" {
		category = *current.Category
	}

	n, err := report.Render(report.Request{
		Current:     current,
		Category:    category,
		Window:      window,
		History:     rows,
		Days:        t.opts.ReportDays,
		GeneratedAt: t.now(),
		Location:    t.opts.Location,
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// SendReport builds the report and hands it to every configured channel.
// Delivery errors are joined and returned.
func (t *Tracker) SendReport(ctx context.Context) (*report.Notification, error) {
	n, err := t.BuildReport(ctx)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	var errs []error
	if t.publisher != nil {
		if err := t.publisher.PublishReport(ctx, *n); err != nil {
			errs = append(errs, fmt.Errorf("publish report: %w", err))
		}
	}
	if t.notifier != nil {
		if err := t.notifier.Notify(ctx, *n); err != nil {
			errs = append(errs, fmt.Errorf("notify report: %w", err))
		}
	}

	t.logger.Info("report sent", "subject", n.Subject, "errors", len(errs))
	return n, errors.Join(errs...)
}
