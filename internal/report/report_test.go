package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankwatch/internal/domain"
	"rankwatch/internal/stats"
	"rankwatch/testdata/utils"
)

var kst = time.FixedZone("KST", 9*60*60)

func TestRender_Full(t *testing.T) {
	history := []domain.RankHistoryEntry{
		{Rank: utils.Ptr(38), Category: "weekly-best/foreign-language", Timestamp: time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), ExtractedBy: domain.ByScheduler},
		{Rank: utils.Ptr(45), Category: "weekly-best/foreign-language", Timestamp: time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), ManualEntry: true, ExtractedBy: domain.ByManual},
	}
	req := Request{
		Current: &domain.RankSnapshot{
			Rank:      utils.Ptr(38),
			Category:  utils.Ptr("weekly-best/foreign-language"),
			CheckedAt: utils.Ptr("2026-10-15T00:00:00Z"),
		},
		Window:      stats.Compute(history, kst),
		History:     history,
		Days:        7,
		GeneratedAt: time.Date(2026, 10, 15, 1, 0, 0, 0, time.UTC),
		Location:    kst,
	}

	n, err := Render(req)

	require.NoError(t, err)
	assert.Equal(t, "Bestseller rank 38 (weekly-best/foreign-language) 2026-10-15", n.Subject)
	assert.Contains(t, n.Text, "Current rank: 38")
	assert.Contains(t, n.Text, "Checked at:   2026-10-15 09:00")
	assert.Contains(t, n.Text, "+7")
	assert.Contains(t, n.Text, "manual (manual)")
	assert.Contains(t, n.Text, "Last 7 days (2 samples)")
	assert.Contains(t, n.HTML, "<!doctype html>")
	assert.Contains(t, n.HTML, "2026-10-14 09:00")
	assert.Contains(t, n.HTML, ">38<")
}

func TestRender_Unavailable(t *testing.T) {
	n, err := Render(Request{
		Days:        7,
		GeneratedAt: time.Date(2026, 10, 15, 1, 0, 0, 0, time.UTC),
		Location:    kst,
	})

	require.NoError(t, err)
	assert.Equal(t, "Bestseller rank - (weekly-best/foreign-language) 2026-10-15", n.Subject)
	assert.Contains(t, n.Text, "Current rank: -")
	assert.Contains(t, n.Text, "Checked at:   -")
	assert.Contains(t, n.Text, "Best")
	assert.Contains(t, n.Text, "Day over day")
	assert.Contains(t, n.Text, "Recorded")
	assert.NotContains(t, n.Text, "DAY OVER DAY")
	assert.NotContains(t, n.Text, "RECORDED")
	assert.Contains(t, n.HTML, "Day over day")
	assert.Contains(t, n.HTML, "Checked at -")
}

func TestRender_CategoryOverride(t *testing.T) {
	n, err := Render(Request{
		Current:  &domain.RankSnapshot{Rank: utils.Ptr(3), Category: utils.Ptr("stored")},
		Category: "override",
	})

	require.NoError(t, err)
	assert.Contains(t, n.Subject, "(override)")
}

func TestRender_CheckedAtFallsBackToLastUpdated(t *testing.T) {
	n, err := Render(Request{
		Current:  &domain.RankSnapshot{Rank: utils.Ptr(3), LastUpdated: time.Date(2026, 10, 15, 3, 4, 0, 0, time.UTC)},
		Location: kst,
	})

	require.NoError(t, err)
	assert.Contains(t, n.Text, "Checked at:   2026-10-15 12:04")
}
