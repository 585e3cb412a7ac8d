package domain

import "time"

const (
	MinRank = 1
	MaxRank = 1000

	DefaultCategory = "weekly-best/foreign-language"
	CurrentKey      = "current"
)

// Trigger sources recorded in ExtractedBy.
const (
	ByScheduler = "scheduler"
	ByOnDemand  = "on-demand"
	ByManual    = "manual"
	ByHarvester = "chrome-extension"
	ByAdmin     = "admin"
)

// RankSnapshot is the singleton "current" record. Nil fields are left
// untouched when the snapshot is written as a merge.
type RankSnapshot struct {
	Rank        *int      `db:"rank" json:"rank"`
	Category    *string   `db:"category" json:"category"`
	LastUpdated time.Time `db:"last_updated" json:"lastUpdated"`
	CheckedAt   *string   `db:"checked_at" json:"checkedAt,omitempty"`
	SourceURL   *string   `db:"source_url" json:"sourceUrl,omitempty"`
	ManualEntry *bool     `db:"manual_entry" json:"manualEntry,omitempty"`
	ExtractedBy *string   `db:"extracted_by" json:"extractedBy,omitempty"`
}

type RankHistoryEntry struct {
	ID          int64     `json:"id"`
	Rank        *int      `json:"rank"`
	Category    string    `json:"category"`
	Timestamp   time.Time `json:"timestamp"`
	SourceURL   string    `json:"sourceUrl,omitempty"`
	ManualEntry bool      `json:"manualEntry"`
	ExtractedBy string    `json:"extractedBy,omitempty"`
}

// HistoryQuery selects history entries newer than Since (inclusive). A zero
// Limit means no limit.
type HistoryQuery struct {
	Since *time.Time
	Limit int
}

// Page is a fetched product page.
type Page struct {
	URL       string
	HTML      []byte
	FetchedAt time.Time
	Tier      string
}

func ValidRank(n int) bool {
	return n >= MinRank && n <= MaxRank
}

// Snapshot builds the current-record write that mirrors a history entry.
func (e RankHistoryEntry) Snapshot() RankSnapshot {
	checkedAt := e.Timestamp.UTC().Format(time.RFC3339)
	snap := RankSnapshot{
		Rank:        e.Rank,
		Category:    &e.Category,
		CheckedAt:   &checkedAt,
		ManualEntry: &e.ManualEntry,
	}
	if e.SourceURL != "" {
		snap.SourceURL = &e.SourceURL
	}
	if e.ExtractedBy != "" {
		snap.ExtractedBy = &e.ExtractedBy
	}
	return snap
}
