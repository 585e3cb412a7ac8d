//go:build integration

package postgres

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"rankwatch/internal/domain"
	"rankwatch/internal/rankstore"
	"rankwatch/testdata/utils"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
	current   *CurrentStore
	history   *HistoryStore
	store     *rankstore.Store
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_rank_tables.up.sql"),
			filepath.Join(migrationsPath, "002_add_history_recorded_at_index.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.current = NewCurrentStore(db)
	s.history = NewHistoryStore(db, logger)
	s.store = rankstore.New(s.current, s.history, logger)
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM rank_current")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM rank_history")
	_, _ = s.db.ExecContext(s.ctx, "CREATE INDEX IF NOT EXISTS "+HistoryIndex+" ON rank_history (recorded_at DESC)")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) insert(rank int, at time.Time) int64 {
	id, err := s.history.Insert(s.ctx, domain.RankHistoryEntry{
		Rank:        utils.Ptr(rank),
		Category:    domain.DefaultCategory,
		Timestamp:   at,
		ExtractedBy: domain.ByScheduler,
	})
	s.Require().NoError(err)
	return id
}

func (s *PostgresIntegrationSuite) TestCurrent_MissingIsNotFound() {
	_, err := s.current.Get(s.ctx)
	s.ErrorIs(err, domain.ErrNotFound)

	_, err = s.store.ReadCurrent(s.ctx)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestCurrent_MergeKeepsUnsetFields() {
	err := s.store.WriteCurrent(s.ctx, domain.RankSnapshot{
		Rank:      utils.Ptr(30),
		Category:  utils.Ptr("weekly-best/foreign-language"),
		SourceURL: utils.Ptr("https://example.com/p/1"),
	})
	s.Require().NoError(err)

	first, err := s.current.Get(s.ctx)
	s.Require().NoError(err)

	err = s.store.WriteCurrent(s.ctx, domain.RankSnapshot{Rank: utils.Ptr(12)})
	s.Require().NoError(err)

	got, err := s.current.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(12, *got.Rank)
	s.Equal("weekly-best/foreign-language", *got.Category)
	s.Equal("https://example.com/p/1", *got.SourceURL)
	s.False(got.LastUpdated.Before(first.LastUpdated))
}

func (s *PostgresIntegrationSuite) TestCurrent_RejectsOutOfRangeRank() {
	err := s.current.Merge(s.ctx, domain.RankSnapshot{Rank: utils.Ptr(1001)})
	s.Error(err)
}

func (s *PostgresIntegrationSuite) TestHistory_OrderedNewestFirst() {
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s.insert(10+i, base.Add(time.Duration(i)*24*time.Hour))
	}

	got, err := s.store.ReadHistory(s.ctx, domain.HistoryQuery{Limit: 3})
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal(14, *got[0].Rank)
	s.Equal(13, *got[1].Rank)
	s.Equal(12, *got[2].Rank)

	since := base.Add(3 * 24 * time.Hour)
	got, err = s.store.ReadHistory(s.ctx, domain.HistoryQuery{Since: &since})
	s.Require().NoError(err)
	s.Len(got, 2)
}

func (s *PostgresIntegrationSuite) TestHistory_IndexMissingFallsBack() {
	_, err := s.db.ExecContext(s.ctx, "DROP INDEX "+HistoryIndex)
	s.Require().NoError(err)

	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	s.insert(40, base)
	s.insert(20, base.Add(48*time.Hour))
	s.insert(30, base.Add(24*time.Hour))

	_, err = s.history.QueryOrdered(s.ctx, domain.HistoryQuery{})
	s.ErrorIs(err, domain.ErrIndexMissing)

	got, err := s.store.ReadHistory(s.ctx, domain.HistoryQuery{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(20, *got[0].Rank)
	s.Equal(30, *got[1].Rank)
}

func (s *PostgresIntegrationSuite) TestHistory_SkipsNullTimestamp() {
	s.insert(5, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	_, err := s.db.ExecContext(s.ctx, "INSERT INTO rank_history (rank, category) VALUES (6, 'x')")
	s.Require().NoError(err)

	got, err := s.store.ReadHistory(s.ctx, domain.HistoryQuery{})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(5, *got[0].Rank)
}

func (s *PostgresIntegrationSuite) TestRecord_WritesBoth() {
	at := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	id, err := s.store.Record(s.ctx, domain.RankHistoryEntry{
		Rank:        utils.Ptr(8),
		Category:    domain.DefaultCategory,
		Timestamp:   at,
		ManualEntry: true,
		ExtractedBy: domain.ByManual,
	}, true)
	s.Require().NoError(err)
	s.Positive(id)

	cur, err := s.current.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(8, *cur.Rank)
	s.True(*cur.ManualEntry)
	s.Equal(at.Format(time.RFC3339), *cur.CheckedAt)
}

func (s *PostgresIntegrationSuite) TestHistory_UpdateAndDelete() {
	id := s.insert(50, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))

	err := s.store.UpdateHistory(s.ctx, domain.RankHistoryEntry{
		ID:          id,
		Rank:        utils.Ptr(45),
		Category:    "x",
		Timestamp:   time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC),
		ManualEntry: true,
		ExtractedBy: domain.ByAdmin,
	})
	s.Require().NoError(err)

	got, err := s.store.ReadHistory(s.ctx, domain.HistoryQuery{})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(45, *got[0].Rank)
	s.Equal(domain.ByAdmin, got[0].ExtractedBy)

	s.Require().NoError(s.store.DeleteHistory(s.ctx, id))
	s.ErrorIs(s.store.DeleteHistory(s.ctx, id), domain.ErrNotFound)
	s.ErrorIs(s.store.UpdateHistory(s.ctx, domain.RankHistoryEntry{ID: id}), domain.ErrNotFound)
}
