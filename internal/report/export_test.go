package report

import (
	"errors"
	"strings"
	"testing"

	"budgetdash/internal/core"
)

func TestExportSummaryCSV(t *testing.T) {
	p := core.AnalyticsPayload{
		TotalSpent:        150,
		CategoryBreakdown: core.NewAmounts(core.Entry{Label: "Food", Amount: 100}, core.Entry{Label: "Travel", Amount: 50}),
		MonthlySummary:    core.NewAmounts(),
	}
	got, err := ExportSummaryCSV(p)
	if err != nil {
		t.Fatalf("ExportSummaryCSV: %v", err)
	}
	want := "Category,Amount\nFood,100\nTravel,50\n\nTotal Spent,150"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExportSummaryCSVQuotesSpecialCharacters(t *testing.T) {
	p := core.AnalyticsPayload{
		TotalSpent: 30.5,
		CategoryBreakdown: core.NewAmounts(
			core.Entry{Label: "Food, Drinks", Amount: 20.5},
			core.Entry{Label: "Say \"hi\"", Amount: 10},
		),
	}
	got, err := ExportSummaryCSV(p)
	if err != nil {
		t.Fatalf("ExportSummaryCSV: %v", err)
	}
	want := "Category,Amount\n\"Food, Drinks\",20.5\n\"Say \"\"hi\"\"\",10\n\nTotal Spent,30.5"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExportSummaryCSVEmptyBreakdown(t *testing.T) {
	got, err := ExportSummaryCSV(core.AnalyticsPayload{CategoryBreakdown: core.NewAmounts()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Category,Amount\n\nTotal Spent,0" {
		t.Fatalf("got %q", got)
	}
}

func TestExportSummaryCSVMalformed(t *testing.T) {
	got, err := ExportSummaryCSV(core.AnalyticsPayload{TotalSpent: 10})
	if !errors.Is(err, core.ErrMalformedPayload) {
		t.Fatalf("expected MalformedPayload, got %v", err)
	}
	if got != "" {
		t.Fatalf("expected no output, got %q", got)
	}
}

func TestExportDetailedCSV(t *testing.T) {
	p := core.AnalyticsPayload{
		TotalSpent:        150,
		CategoryBreakdown: core.NewAmounts(core.Entry{Label: "Food", Amount: 100}, core.Entry{Label: "Travel", Amount: 50}),
	}
	got, err := ExportDetailedCSV(p)
	if err != nil {
		t.Fatalf("ExportDetailedCSV: %v", err)
	}
	want := "Category,Total Spent,Percentage\nFood,100,66.67%\nTravel,50,33.33%"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	zero, err := ExportDetailedCSV(core.AnalyticsPayload{CategoryBreakdown: core.NewAmounts(core.Entry{Label: "Food", Amount: 0})})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(zero, "Food,0,0%") {
		t.Fatalf("zero total should yield 0%%, got %q", zero)
	}
}
