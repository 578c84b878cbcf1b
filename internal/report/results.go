package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/channelsim/internal/model"
)

// NoResults is shown when the backend returned no rows.
const NoResults = "No results yet. Run an experiment first."

// ResultHeaders are the column titles of the results table.
var ResultHeaders = []string{
	"FRAME",
	"ACCEPTANCE RATE",
	"CONDITIONAL EFFICIENCY",
	"OVERALL EFFICIENCY",
	"MEAN RETAIL PRICE",
	"TEMPERATURE",
	"MEAN MANUFACTURER PROFIT",
	"MEAN RETAILER PROFIT",
	"MODEL",
}

var numericResultCols = map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 7: true}

// ResultCells renders one row. Missing fields show Placeholder, never zero.
func ResultCells(r model.ResultRow) []string {
	return []string{
		TextOrPlaceholder(r.Frame),
		AsGiven(r.Acceptance),
		FixedOrPlaceholder(r.ConditionalEfficiency, 2),
		FixedOrPlaceholder(r.OverallEfficiency, 2),
		FixedOrPlaceholder(r.MeanRetailPrice, 1),
		FixedOrPlaceholder(r.Temperature, 1),
		FixedOrPlaceholder(r.MeanManufacturerProfit, 1),
		FixedOrPlaceholder(r.MeanRetailerProfit, 1),
		TextOrPlaceholder(r.Model),
	}
}

// ResultTable renders every row in receipt order.
func ResultTable(rows []model.ResultRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, ResultCells(r))
	}
	return out
}

// WriteResults prints the results as an aligned plain-text table.
func WriteResults(w io.Writer, rows []model.ResultRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, NoResults)
		return err
	}
	for _, line := range formatTable(ResultHeaders, ResultTable(rows), numericResultCols) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteResultsWithin prints the results table, or one record per row when
// the table would be wider than maxWidth. A maxWidth of zero never falls back.
func WriteResultsWithin(w io.Writer, rows []model.ResultRow, maxWidth int) error {
	if maxWidth <= 0 || len(rows) == 0 || tableWidth(ResultHeaders, ResultTable(rows)) <= maxWidth {
		return WriteResults(w, rows)
	}
	return writeResultRecords(w, rows)
}

func writeResultRecords(w io.Writer, rows []model.ResultRow) error {
	labelWidth := 0
	for _, h := range ResultHeaders {
		labelWidth = max(labelWidth, displayWidth(h))
	}
	for i, r := range rows {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		for j, cell := range ResultCells(r) {
			label := padCell(ResultHeaders[j], labelWidth, false)
			line := strings.TrimRight(label+"  "+cell, " ")
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}
