package report

import (
	"fmt"
	"strings"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

const (
	cellStyle   = "padding:6px 10px;border-bottom:1px solid #e5e7eb;"
	headerStyle = "padding:6px 10px;border-bottom:2px solid #9ca3af;text-align:left;"
)

func renderHTML(v view) (string, error) {
	var b strings.Builder
	if err := page(v).Render(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func page(v view) g.Node {
	return Doctype(
		HTML(Lang("ko"),
			Head(
				Meta(Charset("UTF-8")),
				TitleEl(g.Text(v.Title)),
			),
			Body(Style("font-family:sans-serif;color:#111827;"),
				H1(g.Text(v.Title)),
				P(g.Text(v.Date)),
				currentCard(v),
				summaryTable(v),
				historyTable(v),
			),
		),
	)
}

func currentCard(v view) g.Node {
	return Div(Style("margin:16px 0;padding:16px;border:1px solid #d1d5db;border-radius:8px;"),
		Div(Style("font-size:32px;font-weight:bold;"), g.Text(v.Rank)),
		Div(g.Text(v.Category)),
		Div(Style("color:#6b7280;font-size:12px;"), g.Textf("Checked at %s", v.Checked)),
	)
}

func summaryTable(v view) g.Node {
	labels := []string{"Best", "Worst", "Average", "Change", "Day over day"}
	values := []string{v.Best, v.Worst, v.Average, v.Change, v.DoD}

	return Table(Style("border-collapse:collapse;margin-bottom:16px;"),
		Caption(Style("text-align:left;font-weight:bold;"),
			g.Text(fmt.Sprintf("Last %d days (%d samples)", v.Days, v.Samples)),
		),
		THead(Tr(g.Map(labels, func(l string) g.Node {
			return Th(Style(headerStyle), g.Text(l))
		}))),
		TBody(Tr(g.Map(values, func(s string) g.Node {
			return Td(Style(cellStyle), g.Text(s))
		}))),
	)
}

func historyTable(v view) g.Node {
	body := []g.Node{}
	if len(v.Rows) == 0 {
		body = append(body, Tr(Td(ColSpan("4"), Style(cellStyle), g.Text(placeholder))))
	}
	for _, r := range v.Rows {
		body = append(body, Tr(
			Td(Style(cellStyle), g.Text(r.When)),
			Td(Style(cellStyle+"text-align:right;"), g.Text(r.Rank)),
			Td(Style(cellStyle), g.Text(r.Category)),
			Td(Style(cellStyle), g.Text(r.Source)),
		))
	}

	return Table(Style("border-collapse:collapse;"),
		THead(Tr(
			Th(Style(headerStyle), g.Text("Recorded")),
			Th(Style(headerStyle), g.Text("Rank")),
			Th(Style(headerStyle), g.Text("Category")),
			Th(Style(headerStyle), g.Text("Source")),
		)),
		TBody(body...),
	)
}
