package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"budgetdash/internal/core"
)

const (
	// SummaryFilename is the download name of the summary export.
	SummaryFilename = "summary_report.csv"
	// DetailedFilename is the download name of the per-category percentage export.
	DetailedFilename = "insights_report.csv"
	// ContentTypeCSV is the MIME type of every export.
	ContentTypeCSV = "text/csv"
)

// SummaryTable builds the Category/Amount table with a Total Spent summary row.
func SummaryTable(p core.AnalyticsPayload) (core.ReportTable, error) {
	if p.CategoryBreakdown == nil {
		return core.ReportTable{}, core.Malformed("category_breakdown", "field is missing")
	}

	rows := make([][]string, 0, p.CategoryBreakdown.Len())
	for pair := p.CategoryBreakdown.Oldest(); pair != nil; pair = pair.Next() {
		rows = append(rows, []string{pair.Key, core.FormatAmount(pair.Value)})
	}
	return core.ReportTable{
		Header:  []string{"Category", "Amount"},
		Rows:    rows,
		Summary: []string{"Total Spent", core.FormatAmount(p.TotalSpent)},
	}, nil
}

// DetailedTable builds the Category/Total Spent/Percentage table. Percentages
// are of TotalSpent, rounded to two places; a zero total yields 0%.
func DetailedTable(p core.AnalyticsPayload) (core.ReportTable, error) {
	if p.CategoryBreakdown == nil {
		return core.ReportTable{}, core.Malformed("category_breakdown", "field is missing")
	}

	rows := make([][]string, 0, p.CategoryBreakdown.Len())
	for pair := p.CategoryBreakdown.Oldest(); pair != nil; pair = pair.Next() {
		percent := 0.0
		if p.TotalSpent > 0 {
			percent = core.Round2(pair.Value / p.TotalSpent * 100)
		}
		rows = append(rows, []string{pair.Key, core.FormatAmount(pair.Value), core.FormatAmount(percent) + "%"})
	}
	return core.ReportTable{
		Header: []string{"Category", "Total Spent", "Percentage"},
		Rows:   rows,
	}, nil
}

// ExportSummaryCSV serializes SummaryTable as "\n"-separated CSV text with no
// trailing newline. Fields holding commas, quotes or newlines are quoted.
func ExportSummaryCSV(p core.AnalyticsPayload) (string, error) {
	t, err := SummaryTable(p)
	if err != nil {
		return "", err
	}
	return EncodeCSV(t)
}

// ExportDetailedCSV serializes DetailedTable the same way as ExportSummaryCSV.
func ExportDetailedCSV(p core.AnalyticsPayload) (string, error) {
	t, err := DetailedTable(p)
	if err != nil {
		return "", err
	}
	return EncodeCSV(t)
}

// EncodeCSV renders a table as CSV text without a trailing line separator.
func EncodeCSV(t core.ReportTable) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// WriteCSV streams a table to w, one record per line.
func WriteCSV(w io.Writer, t core.ReportTable) error {
	cw := csv.NewWriter(w)
	for _, rec := range t.Records() {
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
