// Package rankstore persists the current rank snapshot and the append-only
// rank history on top of a SQL backend.
package rankstore

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"rankwatch/internal/domain"
)

type CurrentBackend interface {
	Get(ctx context.Context) (*domain.RankSnapshot, error)
	Merge(ctx context.Context, snap domain.RankSnapshot) error
}

type HistoryBackend interface {
	Insert(ctx context.Context, entry domain.RankHistoryEntry) (int64, error)
	QueryOrdered(ctx context.Context, q domain.HistoryQuery) ([]domain.RankHistoryEntry, error)
	QueryRange(ctx context.Context, q domain.HistoryQuery) ([]domain.RankHistoryEntry, error)
	Update(ctx context.Context, entry domain.RankHistoryEntry) error
	Delete(ctx context.Context, id int64) error
}

type Store struct {
	current CurrentBackend
	history HistoryBackend
	logger  *slog.Logger
}

func New(current CurrentBackend, history HistoryBackend, logger *slog.Logger) *Store {
	return &Store{
		current: current,
		history: history,
		logger:  logger.With("component", "rankstore"),
	}
}

// WriteCurrent merges snap into the singleton record.
func (s *Store) WriteCurrent(ctx context.Context, snap domain.RankSnapshot) error {
	if err := s.current.Merge(ctx, snap); err != nil {
		return fmt.Errorf("write current: %w", err)
	}
	return nil
}

func (s *Store) ReadCurrent(ctx context.Context) (*domain.RankSnapshot, error) {
	snap, err := s.current.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read current: %w", err)
	}
	return snap, nil
}

// AppendHistory always inserts a new row.
func (s *Store) AppendHistory(ctx context.Context, entry domain.RankHistoryEntry) (int64, error) {
	id, err := s.history.Insert(ctx, entry)
	if err != nil {
		return 0, fmt.Errorf("append history: %w", err)
	}
	return id, nil
}

// Record writes entry to the history and, when updateCurrent is set, to the
// current snapshot. Both writes are attempted even if one fails.
func (s *Store) Record(ctx context.Context, entry domain.RankHistoryEntry, updateCurrent bool) (int64, error) {
	var errs []error

	if updateCurrent {
		if err := s.WriteCurrent(ctx, entry.Snapshot()); err != nil {
			errs = append(errs, err)
		}
	}

	id, err := s.AppendHistory(ctx, entry)
	if err != nil {
		errs = append(errs, err)
	}

	return id, errors.Join(errs...)
}

// ReadHistory returns entries newest first. The ordered query is tried
// first; if the backend lacks the timestamp index the window is fetched
// unordered and sorted here.
func (s *Store) ReadHistory(ctx context.Context, q domain.HistoryQuery) ([]domain.RankHistoryEntry, error) {
	entries, err := s.history.QueryOrdered(ctx, q)
	if err == nil {
		return entries, nil
	}
	if !errors.Is(err, domain.ErrIndexMissing) {
		return nil, fmt.Errorf("read history: %w", err)
	}

	s.logger.Warn("ordered history query unavailable, sorting client-side", "error", err)

	entries, err = s.history.QueryRange(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("read history range: %w", err)
	}
	SortNewestFirst(entries)
	if q.Limit > 0 && len(entries) > q.Limit {
		entries = entries[:q.Limit]
	}
	return entries, nil
}

func (s *Store) UpdateHistory(ctx context.Context, entry domain.RankHistoryEntry) error {
	if err := s.history.Update(ctx, entry); err != nil {
		return fmt.Errorf("update history %d: %w", entry.ID, err)
	}
	return nil
}

func (s *Store) DeleteHistory(ctx context.Context, id int64) error {
	if err := s.history.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete history %d: %w", id, err)
	}
	return nil
}

func SortNewestFirst(entries []domain.RankHistoryEntry) {
	slices.SortStableFunc(entries, func(a, b domain.RankHistoryEntry) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
