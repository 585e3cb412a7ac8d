package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"rankwatch/internal/domain"
)

// HistoryIndex is the index ordered history queries rely on.
const HistoryIndex = "rank_history_recorded_at_idx"

type HistoryStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewHistoryStore(db *sqlx.DB, logger *slog.Logger) *HistoryStore {
	return &HistoryStore{db: db, logger: logger.With("table", "rank_history")}
}

type historyRow struct {
	ID          int64         `db:"id"`
	Rank        sql.NullInt64 `db:"rank"`
	Category    string        `db:"category"`
	RecordedAt  sql.NullTime  `db:"recorded_at"`
	SourceURL   string        `db:"source_url"`
	ManualEntry bool          `db:"manual_entry"`
	ExtractedBy string        `db:"extracted_by"`
}

const historyColumns = `id, rank, category, recorded_at, source_url, manual_entry, extracted_by`

func (s *HistoryStore) Insert(ctx context.Context, entry domain.RankHistoryEntry) (int64, error) {
	query := `
		INSERT INTO rank_history (rank, category, recorded_at, source_url, manual_entry, extracted_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		entry.Rank,
		entry.Category,
		entry.Timestamp,
		entry.SourceURL,
		entry.ManualEntry,
		entry.ExtractedBy,
	).Scan(&id)
	if err != nil {
		return 0, classify(err)
	}
	return id, nil
}

// QueryOrdered returns entries newest first, sorted and limited by the
// database. It fails with domain.ErrIndexMissing when the recorded_at index
// has not been created.
func (s *HistoryStore) QueryOrdered(ctx context.Context, q domain.HistoryQuery) ([]domain.RankHistoryEntry, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE tablename = 'rank_history' AND indexname = $1)`,
		HistoryIndex,
	)
	if err != nil {
		return nil, classify(err)
	}
	if !exists {
		return nil, domain.ErrIndexMissing
	}

	var limit sql.NullInt64
	if q.Limit > 0 {
		limit = sql.NullInt64{Int64: int64(q.Limit), Valid: true}
	}

	query := `SELECT ` + historyColumns + `
		FROM rank_history
		WHERE $1::timestamptz IS NULL OR recorded_at >= $1
		ORDER BY recorded_at DESC NULLS LAST, id DESC
		LIMIT $2`

	return s.selectRows(ctx, query, q.Since, limit)
}

// QueryRange returns every entry in the window in no particular order.
func (s *HistoryStore) QueryRange(ctx context.Context, q domain.HistoryQuery) ([]domain.RankHistoryEntry, error) {
	query := `SELECT ` + historyColumns + `
		FROM rank_history
		WHERE $1::timestamptz IS NULL OR recorded_at >= $1`

	return s.selectRows(ctx, query, q.Since)
}

func (s *HistoryStore) Update(ctx context.Context, entry domain.RankHistoryEntry) error {
	query := `
		UPDATE rank_history SET
			rank = $2,
			category = $3,
			recorded_at = $4,
			source_url = $5,
			manual_entry = $6,
			extracted_by = $7
		WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.Rank,
		entry.Category,
		entry.Timestamp,
		entry.SourceURL,
		entry.ManualEntry,
		entry.ExtractedBy,
	)
	if err != nil {
		return classify(err)
	}
	return expectOne(res)
}

func (s *HistoryStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM rank_history WHERE id = $1", id)
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
		if !r.RecordedAt.Valid {
			s.logger.Warn("skipping history entry without timestamp", "id", r.ID)
			continue
		}
		entry := domain.RankHistoryEntry{
			ID:          r.ID,
			Category:    r.Category,
			Timestamp:   r.RecordedAt.Time,
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
