package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/channelsim/internal/model"
	"github.com/verte-zerg/channelsim/internal/report"
)

func (m *Model) renderLive() string {
	slot := m.ctrl.Round()
	if slot.Loading {
		return m.spinner.View() + " Loading current round..."
	}
	fields := report.RoundFields(slot.Snapshot)
	if len(fields) == 0 {
		return report.NoRoundData + "\n\n" + headerStyle.Render("enter: View Results")
	}
	labelWidth := 0
	for _, f := range fields {
		labelWidth = maxInt(labelWidth, lipgloss.Width(f.Label))
	}
	valueWidth := maxInt(10, m.width-labelWidth-5)

	lines := []string{titleStyle.Render("For the current round:"), ""}
	for _, f := range fields {
		if f.Label == "q" {
			lines = append(lines, valueStyle.Render(f.String()))
			continue
		}
		label := labelStyle.Render(padLine(f.Label, labelWidth) + " : ")
		wrapped := wrapText(f.Value, valueWidth)
		lines = append(lines, label+valueStyle.Render(wrapped[0]))
		indent := strings.Repeat(" ", labelWidth+3)
		for _, rest := range wrapped[1:] {
			lines = append(lines, indent+valueStyle.Render(rest))
		}
	}
	lines = append(lines, "", focusStyle.Render("[ View Results ]")+" "+headerStyle.Render("enter"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderResults(height int) string {
	slot := m.ctrl.Results()
	if slot.Loading {
		return fitLines(m.spinner.View()+" Loading results...", m.width, height)
	}
	if len(slot.Rows) == 0 {
		return fitLines(report.NoResults, m.width, height)
	}
	return fitLines(mutedStyle.Render(m.results.View()), m.width, height)
}

func (m *Model) refreshResultsTable() {
	cols, rows := buildResultsTableData(m.ctrl.Results().Rows)
	m.results.SetRows(nil)
	m.results.SetColumns(cols)
	m.results.SetRows(rows)
	m.results.GotoTop()
}

func buildResultsTable(rows []model.ResultRow, width, height int) table.Model {
	cols, tableRows := buildResultsTableData(rows)
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(tableRows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(resultsTableStyles())
	return t
}

func buildResultsTableData(rows []model.ResultRow) ([]table.Column, []table.Row) {
	cells := report.ResultTable(rows)
	widths := report.ColumnWidths(report.ResultHeaders, cells)
	cols := make([]table.Column, len(report.ResultHeaders))
	for i, title := range report.ResultHeaders {
		cols[i] = table.Column{Title: title, Width: widths[i]}
	}
	out := make([]table.Row, 0, len(cells))
	for _, c := range cells {
		out = append(out, table.Row(c))
	}
	return cols, out
}

func resultsTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
