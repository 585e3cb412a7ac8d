// Package report renders a rank snapshot and its statistics into a
// notification with a plain-text and an HTML body.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"rankwatch/internal/domain"
	"rankwatch/internal/stats"
)

const placeholder = "-"

type Request struct {
	Current  *domain.RankSnapshot
	Category string
	Window   stats.Window
	History  []domain.RankHistoryEntry

	Days        int
	GeneratedAt time.Time
	Location    *time.Location
}

type Notification struct {
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

// row is one history line as shown in both bodies.
type row struct {
	When     string
	Rank     string
	Category string
	Source   string
}

// view holds every field a report shows, already formatted.
type view struct {
	Title    string
	Date     string
	Rank     string
	Category string
	Checked  string
	Days     int
	Best     string
	Worst    string
	Average  string
	Change   string
	DoD      string
	Samples  int
	Rows     []row
}

func Render(in Request) (Notification, error) {
	v := buildView(in)

	html, err := renderHTML(v)
	if err != nil {
		return Notification{}, fmt.Errorf("render html: %w", err)
	}

	return Notification{
		Subject: fmt.Sprintf("Bestseller rank %s (%s) %s", v.Rank, v.Category, v.Date),
		Text:    renderText(v),
		HTML:    html,
	}, nil
}

func buildView(in Request) view {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	now := in.GeneratedAt
	if now.IsZero() {
		now = time.Now()
	}

	v := view{
		Title:    "Bestseller rank report",
		Date:     now.In(loc).Format("2006-01-02"),
		Rank:     placeholder,
		Category: in.Category,
		Checked:  placeholder,
		Days:     in.Days,
		Best:     in.Window.Best.String(),
		Worst:    in.Window.Worst.String(),
		Average:  in.Window.Average.String(),
		Change:   in.Window.Change.Signed(),
		DoD:      in.Window.DayOverDay.Signed(),
		Samples:  in.Window.Samples,
	}

	if c := in.Current; c != nil {
		if c.Rank != nil {
			v.Rank = strconv.Itoa(*c.Rank)
		}
		if v.Category == "" && c.Category != nil {
			v.Category = *c.Category
		}
		switch {
		case c.CheckedAt != nil && *c.CheckedAt != "":
			v.Checked = formatChecked(*c.CheckedAt, loc)
		case !c.LastUpdated.IsZero():
			v.Checked = c.LastUpdated.In(loc).Format("2006-01-02 15:04")
		}
	}
	if v.Category == "" {
		v.Category = domain.DefaultCategory
	}

	for _, e := range in.History {
		r := row{
			When:     e.Timestamp.In(loc).Format("2006-01-02 15:04"),
			Rank:     placeholder,
			Category: e.Category,
			Source:   source(e),
		}
		if e.Rank != nil {
			r.Rank = strconv.Itoa(*e.Rank)
		}
		if r.Category == "" {
			r.Category = placeholder
		}
		v.Rows = append(v.Rows, r)
	}

	return v
}

func formatChecked(s string, loc *time.Location) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

func source(e domain.RankHistoryEntry) string {
	by := e.ExtractedBy
	if by == "" {
		by = placeholder
	}
	if e.ManualEntry {
		return "manual (" + by + ")"
	}
	return by
}

func renderText(v view) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s - %s\n\n", v.Title, v.Date)
	fmt.Fprintf(&b, "Current rank: %s\n", v.Rank)
	fmt.Fprintf(&b, "Category:     %s\n", v.Category)
	fmt.Fprintf(&b, "Checked at:   %s\n\n", v.Checked)

	summary := table.NewWriter()
	summary.SetStyle(table.StyleLight)
	summary.Style().Format.Header = text.FormatDefault
	summary.SetTitle(fmt.Sprintf("Last %d days (%d samples)", v.Days, v.Samples))
	summary.AppendHeader(table.Row{"Best", "Worst", "Average", "Change", "Day over day"})
	summary.AppendRow(table.Row{v.Best, v.Worst, v.Average, v.Change, v.DoD})
	b.WriteString(summary.Render())
	b.WriteString("\n\n")

	history := table.NewWriter()
	history.SetStyle(table.StyleLight)
	history.Style().Format.Header = text.FormatDefault
	history.AppendHeader(table.Row{"Recorded", "Rank", "Category", "Source"})
	history.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Rank", Align: text.AlignRight},
	})
	if len(v.Rows) == 0 {
		history.AppendRow(table.Row{placeholder, placeholder, placeholder, placeholder})
	}
	for _, r := range v.Rows {
		history.AppendRow(table.Row{r.When, r.Rank, r.Category, r.Source})
	}
	b.WriteString(history.Render())
	b.WriteString("\n")

	return b.String()
}
