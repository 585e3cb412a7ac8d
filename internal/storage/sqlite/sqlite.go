// Package sqlite is a single-file rank store for deployments without a
// PostgreSQL server. The schema is created when the database is opened.
package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"rankwatch/internal/domain"
)

const HistoryIndex = "rank_history_recorded_at_idx"

// timeLayout keeps recorded_at sortable as text: fixed width, always UTC.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type Options struct {
	// NoHistoryIndex skips creating the recorded_at index, which makes
	// ordered history queries report domain.ErrIndexMissing.
	NoHistoryIndex bool
}

func Open(ctx context.Context, path string, opts Options) (*sqlx.DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, classify(err)
	}

	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS rank_current (
  id           TEXT PRIMARY KEY CHECK (id = 'current'),
  rank         INTEGER CHECK (rank BETWEEN 1 AND 1000),
  category     TEXT,
  last_updated TEXT NOT NULL,
  checked_at   TEXT,
  source_url   TEXT,
  manual_entry INTEGER,
  extracted_by TEXT
);
CREATE TABLE IF NOT EXISTS rank_history (
  id           INTEGER PRIMARY KEY,
  rank         INTEGER CHECK (rank BETWEEN 1 AND 1000),
  category     TEXT NOT NULL DEFAULT '',
  recorded_at  TEXT,
  source_url   TEXT NOT NULL DEFAULT '',
  manual_entry INTEGER NOT NULL DEFAULT 0 CHECK (manual_entry IN (0,1)),
  extracted_by TEXT NOT NULL DEFAULT '',
  created_at   TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", classify(err))
	}

	if !opts.NoHistoryIndex {
		if _, err := db.ExecContext(ctx,
			`CREATE INDEX IF NOT EXISTS `+HistoryIndex+` ON rank_history(recorded_at DESC)`,
		); err != nil {
			db.Close()
			return nil, fmt.Errorf("create index: %w", classify(err))
		}
	}

	return db, nil
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	switch sqliteErr.Code() & 0xff {
	case sqlite3.SQLITE_PERM, sqlite3.SQLITE_AUTH, sqlite3.SQLITE_READONLY:
		return fmt.Errorf("%w: %w", domain.ErrAccessDenied, err)
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR:
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	return err
}
