package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"rankwatch/internal/domain"
)

type CurrentStore struct {
	db *sqlx.DB
}

func NewCurrentStore(db *sqlx.DB) *CurrentStore {
	return &CurrentStore{db: db}
}

func (s *CurrentStore) Get(ctx context.Context) (*domain.RankSnapshot, error) {
	var snap domain.RankSnapshot
	query := `
		SELECT rank, category, last_updated, checked_at, source_url, manual_entry, extracted_by
		FROM rank_current
		WHERE id = $1`

	err := s.db.GetContext(ctx, &snap, query, domain.CurrentKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, classify(err)
	}
	return &snap, nil
}

// Merge upserts the singleton row. Nil fields keep their stored value and
// last_updated is always set by the database.
func (s *CurrentStore) Merge(ctx context.Context, snap domain.RankSnapshot) error {
	query := `
		INSERT INTO rank_current (id, rank, category, checked_at, source_url, manual_entry, extracted_by, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (id) DO UPDATE SET
			rank = COALESCE(EXCLUDED.rank, rank_current.rank),
			category = COALESCE(EXCLUDED.category, rank_current.category),
			checked_at = COALESCE(EXCLUDED.checked_at, rank_current.checked_at),
			source_url = COALESCE(EXCLUDED.source_url, rank_current.source_url),
			manual_entry = COALESCE(EXCLUDED.manual_entry, rank_current.manual_entry),
			extracted_by = COALESCE(EXCLUDED.extracted_by, rank_current.extracted_by),
			last_updated = now()`

	_, err := s.db.ExecContext(ctx, query,
		domain.CurrentKey,
		snap.Rank,
		snap.Category,
		snap.CheckedAt,
		snap.SourceURL,
		snap.ManualEntry,
		snap.ExtractedBy,
	)
	return classify(err)
}
