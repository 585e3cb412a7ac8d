// Package stats reduces a slice of rank history into summary statistics.
//
// Lower ranks are better, so every change is computed as previous minus
// latest: a positive change is an improvement.
package stats

import (
	"math"
	"slices"
	"time"

	"rankwatch/internal/domain"
)

const dateLayout = "2006-01-02"

// Point is one observation on the daily series.
type Point struct {
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
	Rank      int       `json:"rank"`
}

type Window struct {
	Best       Metric  `json:"bestRank"`
	Worst      Metric  `json:"worstRank"`
	Average    Metric  `json:"averageRank"`
	Change     Metric  `json:"change"`
	DayOverDay Metric  `json:"dayOverDay"`
	Daily      []Point `json:"daily"`
	Samples    int     `json:"samples"`
	Latest     *Point  `json:"latest,omitempty"`
}

// Compute builds a Window from entries in any order. Calendar days are
// evaluated in loc; a nil loc means UTC.
func Compute(entries []domain.RankHistoryEntry, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}

	points := make([]Point, 0, len(entries))
	for _, e := range entries {
		if e.Rank == nil {
			continue
		}
		ts := e.Timestamp.In(loc)
		points = append(points, Point{
			Date:      ts.Format(dateLayout),
			Timestamp: ts,
			Rank:      *e.Rank,
		})
	}
	slices.SortStableFunc(points, func(a, b Point) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	w := Window{Samples: len(points), Daily: Collapse(points)}
	if len(points) == 0 {
		return w
	}

	best, worst, sum := points[0].Rank, points[0].Rank, 0
	for _, p := range points {
		best = min(best, p.Rank)
		worst = max(worst, p.Rank)
		sum += p.Rank
	}
	w.Best = Some(best)
	w.Worst = Some(worst)
	w.Average = Some(int(math.Round(float64(sum) / float64(len(points)))))

	latest := points[len(points)-1]
	w.Latest = &latest

	if len(points) > 1 {
		w.Change = Some(points[0].Rank - latest.Rank)
	}
	w.DayOverDay = dayOverDay(points, w.Daily)

	return w
}

// Collapse keeps the latest point of each calendar day. points must be sorted
// ascending by Timestamp; the result is ascending by day.
func Collapse(points []Point) []Point {
	daily := make([]Point, 0, len(points))
	for _, p := range points {
		if n := len(daily); n > 0 && daily[n-1].Date == p.Date {
			daily[n-1] = p
			continue
		}
		daily = append(daily, p)
	}
	return daily
}

// dayOverDay compares the latest day with the nearest earlier day that is
// 24 to 48 hours older. Sparse data falls back to the second most recent
// raw sample.
func dayOverDay(points, daily []Point) Metric {
	if len(points) < 2 || len(daily) == 0 {
		return Metric{}
	}
	latest := daily[len(daily)-1]

	for i := len(daily) - 2; i >= 0; i-- {
		gap := latest.Timestamp.Sub(daily[i].Timestamp)
		if gap < 24*time.Hour {
			continue
		}
		if gap > 48*time.Hour {
			break
		}
		return Some(daily[i].Rank - latest.Rank)
	}

	return Some(points[len(points)-2].Rank - points[len(points)-1].Rank)
}

// WindowStart returns midnight in loc of the first day of a window of days
// calendar days ending on now.
func WindowStart(now time.Time, days int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	if days < 1 {
		days = 1
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()-(days-1), 0, 0, 0, 0, loc)
}
