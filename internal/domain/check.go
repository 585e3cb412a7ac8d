package domain

import "time"

// CheckResult is what callable entry points hand back to their caller.
type CheckResult struct {
	Success  bool   `json:"success"`
	Rank     *int   `json:"rank"`
	Category string `json:"category"`
	Message  string `json:"message"`
	Strategy string `json:"strategy,omitempty"`
}

// CheckStats holds diagnostics about one pipeline run.
type CheckStats struct {
	Trigger  string
	Rank     *int
	Strategy string
	Fallback bool
	Duration time.Duration
}

// RankInput is a rank reported from outside the scraping pipeline: a manual
// entry, a harvester push or an admin edit.
type RankInput struct {
	Rank        *int       `json:"rank"`
	Category    string     `json:"category"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	SourceURL   string     `json:"sourceUrl,omitempty"`
	ExtractedBy string     `json:"extractedBy,omitempty"`
}

// RecordResult describes a stored history entry and whether the current
// snapshot was updated with it.
type RecordResult struct {
	Entry   RankHistoryEntry `json:"entry"`
	Current bool             `json:"current"`
	Message string           `json:"message"`
}
