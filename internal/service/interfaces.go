package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"rankwatch/internal/domain"
	"rankwatch/internal/extract"
	"rankwatch/internal/report"
)

type RankStore interface {
	ReadCurrent(ctx context.Context) (*domain.RankSnapshot, error)
	Record(ctx context.Context, entry domain.RankHistoryEntry, updateCurrent bool) (int64, error)
	ReadHistory(ctx context.Context, q domain.HistoryQuery) ([]domain.RankHistoryEntry, error)
	UpdateHistory(ctx context.Context, entry domain.RankHistoryEntry) error
	DeleteHistory(ctx context.Context, id int64) error
}

type PageSource interface {
	URL() string
	FetchPage(ctx context.Context) (*domain.Page, error)
}

type Extractor interface {
	ExtractHTML(markup []byte) extract.Result
}

type Publisher interface {
	PublishRank(ctx context.Context, entry domain.RankHistoryEntry, current bool) error
	PublishReport(ctx context.Context, n report.Notification) error
}

type Notifier interface {
	Notify(ctx context.Context, n report.Notification) error
}
