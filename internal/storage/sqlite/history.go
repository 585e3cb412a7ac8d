package sqlite

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"rankwatch/internal/domain"
)

type HistoryStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewHistoryStore(db *sqlx.DB, logger *slog.Logger) *HistoryStore {
	return &HistoryStore{db: db, logger: logger.With("table", "rank_history")}
}

type historyRow struct {
	ID          int64          `db:"id"`
	Rank        sql.NullInt64  `db:"rank"`
	Category    string         `db:"category"`
	RecordedAt  sql.NullString `db:"recorded_at"`
	SourceURL   string         `db:"source_url"`
	ManualEntry bool           `db:"manual_entry"`
	ExtractedBy string         `db:"extracted_by"`
}

const historyColumns = `id, rank, category, recorded_at, source_url, manual_entry, extracted_by`

const isoTimestamp = `recorded_at GLOB '[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]T*'`

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func (s *HistoryStore) Insert(ctx context.Context, entry domain.RankHistoryEntry) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO rank_history (rank, category, recorded_at, source_url, manual_entry, extracted_by) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Rank,
		entry.Category,
		formatTime(entry.Timestamp),
		entry.SourceURL,
		entry.ManualEntry,
		entry.ExtractedBy,
	)
	if err != nil {
		return 0, classify(err)
	}
	return res.LastInsertId()
}

func (s *HistoryStore) QueryOrdered(ctx context.Context, q domain.HistoryQuery) ([]domain.RankHistoryEntry, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = ?`,
		HistoryIndex,
	)
	if err != nil {
		return nil, classify(err)
	}
	if count == 0 {
		return nil, domain.ErrIndexMissing
	}

	limit := -1
	if q.Limit > 0 {
		limit = q.Limit
	}
	// Malformed timestamps sort above ISO text and would take LIMIT slots
	// before being skipped, so only ISO rows are ordered here.
	where, args := sinceClause(q)
	if where == "" {
		where = " WHERE " + isoTimestamp
	} else {
		where += " AND " + isoTimestamp
	}
	query := `SELECT ` + historyColumns + ` FROM rank_history` + where +
		` ORDER BY recorded_at DESC, id DESC LIMIT ?`

	return s.selectRows(ctx, query, append(args, limit)...)
}

func (s *HistoryStore) QueryRange(ctx context.Context, q domain.HistoryQuery) ([]domain.RankHistoryEntry, error) {
	where, args := sinceClause(q)
	return s.selectRows(ctx, `SELECT `+historyColumns+` FROM rank_history`+where, args...)
}

func sinceClause(q domain.HistoryQuery) (string, []interface{}) {
	if q.Since == nil {
		return "", nil
	}
	return " WHERE recorded_at >= ?", []interface{}{formatTime(*q.Since)}
}

func (s *HistoryStore) Update(ctx context.Context, entry domain.RankHistoryEntry) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE rank_history SET rank = ?, category = ?, recorded_at = ?, source_url = ?, manual_entry = ?, extracted_by = ? WHERE id = ?`,
		entry.Rank,
		entry.Category,
		formatTime(entry.Timestamp),
		entry.SourceURL,
		entry.ManualEntry,
		entry.ExtractedBy,
		entry.ID,
	)
	if err != nil {
		return classify(err)
	}
	return expectOne(res)
}

func (s *HistoryStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rank_history WHERE id = ?`, id)
	if err != nil {
		return classify(err)
	}
	return expectOne(res)
}

func (s *HistoryStore) selectRows(ctx context.Context, query string, args ...interface{}) ([]domain.RankHistoryEntry, error) {
	var rows []historyRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, classify(err)
	}

	entries := make([]domain.RankHistoryEntry, 0, len(rows))
	for _, r := range rows {
		ts, err := time.Parse(time.RFC3339Nano, r.RecordedAt.String)
		if !r.RecordedAt.Valid || err != nil {
			s.logger.Warn("skipping history entry with malformed timestamp",
				"id", r.ID,
				"recorded_at", r.RecordedAt.String,
			)
			continue
		}
		entry := domain.RankHistoryEntry{
			ID:          r.ID,
			Category:    r.Category,
			Timestamp:   ts,
			SourceURL:   r.SourceURL,
			ManualEntry: r.ManualEntry,
			ExtractedBy: r.ExtractedBy,
		}
		if r.Rank.Valid {
			rank := int(r.Rank.Int64)
			entry.Rank = &rank
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
