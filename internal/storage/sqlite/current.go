package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"rankwatch/internal/domain"
)

type CurrentStore struct {
	db *sqlx.DB
}

func NewCurrentStore(db *sqlx.DB) *CurrentStore {
	return &CurrentStore{db: db}
}

type currentRow struct {
	Rank        sql.NullInt64  `db:"rank"`
	Category    sql.NullString `db:"category"`
	LastUpdated string         `db:"last_updated"`
	CheckedAt   sql.NullString `db:"checked_at"`
	SourceURL   sql.NullString `db:"source_url"`
	ManualEntry sql.NullBool   `db:"manual_entry"`
	ExtractedBy sql.NullString `db:"extracted_by"`
}

func (s *CurrentStore) Get(ctx context.Context) (*domain.RankSnapshot, error) {
	var row currentRow
	err := s.db.GetContext(ctx, &row,
		`SELECT rank, category, last_updated, checked_at, source_url, manual_entry, extracted_by FROM rank_current WHERE id = ?`,
		domain.CurrentKey,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, classify(err)
	}

	lastUpdated, err := time.Parse(time.RFC3339Nano, row.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("parse last_updated %q: %w", row.LastUpdated, err)
	}

	snap := &domain.RankSnapshot{LastUpdated: lastUpdated}
	if row.Rank.Valid {
		rank := int(row.Rank.Int64)
		snap.Rank = &rank
	}
	snap.Category = nullableString(row.Category)
	snap.CheckedAt = nullableString(row.CheckedAt)
	snap.SourceURL = nullableString(row.SourceURL)
	snap.ExtractedBy = nullableString(row.ExtractedBy)
	if row.ManualEntry.Valid {
		snap.ManualEntry = &row.ManualEntry.Bool
	}
	return snap, nil
}

func (s *CurrentStore) Merge(ctx context.Context, snap domain.RankSnapshot) error {
	query := `
		INSERT INTO rank_current (id, rank, category, checked_at, source_url, manual_entry, extracted_by, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT (id) DO UPDATE SET
			rank = COALESCE(excluded.rank, rank_current.rank),
			category = COALESCE(excluded.category, rank_current.category),
			checked_at = COALESCE(excluded.checked_at, rank_current.checked_at),
			source_url = COALESCE(excluded.source_url, rank_current.source_url),
			manual_entry = COALESCE(excluded.manual_entry, rank_current.manual_entry),
			extracted_by = COALESCE(excluded.extracted_by, rank_current.extracted_by),
			last_updated = excluded.last_updated`

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

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
