package render

import (
	"strings"
	"testing"

	"budgetdash/internal/core"
)

func TestSeries(t *testing.T) {
	out := Series("Spend by Category", core.RenderableSeries{
		Labels: []string{"Food", "Travel"},
		Values: []float64{100, 50},
	})
	for _, want := range []string{"Spend by Category", "Food", "Travel", "100", "50"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Food") > strings.Index(out, "Travel") {
		t.Fatalf("series order not preserved:\n%s", out)
	}
	if strings.Count(out, "█") != barWidth+barWidth/2 {
		t.Fatalf("unexpected bar lengths:\n%s", out)
	}
}

func TestSeriesEmpty(t *testing.T) {
	if out := Series("Empty", core.RenderableSeries{}); !strings.Contains(out, "no data") {
		t.Fatalf("expected placeholder, got:\n%s", out)
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		v, max float64
		want   int
	}{
		{10, 10, barWidth},
		{5, 10, barWidth / 2},
		{0.001, 10, 1},
		{0, 10, 0},
		{3, 0, 0},
	}
	for _, tt := range tests {
		if got := strings.Count(bar(tt.v, tt.max), "█"); got != tt.want {
			t.Errorf("bar(%v, %v) = %d blocks, want %d", tt.v, tt.max, got, tt.want)
		}
	}
}

func TestMatrix(t *testing.T) {
	m := core.Matrix{
		Axis: []string{"Jan", "Feb"},
		Series: []core.TaggedSeries{
			{Category: "Food", RenderableSeries: core.RenderableSeries{Labels: []string{"Jan", "Feb"}, Values: []float64{10, 5}}},
			{Category: "Travel", RenderableSeries: core.RenderableSeries{Labels: []string{"Jan", "Feb"}, Values: []float64{0, 20}}},
		},
	}
	out := Matrix("Category Spend per Month", m)
	for _, want := range []string{"Category", "Jan", "Feb", "Food", "Travel", "20"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTable(t *testing.T) {
	out := Table("Summary", core.ReportTable{
		Header:  []string{"Category", "Amount"},
		Rows:    [][]string{{"Food, Drinks", "100"}},
		Summary: []string{"Total Spent", "100"},
	})
	for _, want := range []string{"Food, Drinks", "Total Spent"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBudgetStatuses(t *testing.T) {
	pct := 83.3
	out := BudgetStatuses([]core.BudgetStatus{
		{Category: "Food", Spent: 100, BudgetLimit: 120, Remaining: 20, SpentPercent: &pct, Status: core.StatusCloseToLimit},
		{Category: "Misc", Spent: 25, Status: core.StatusNoBudget},
	})
	for _, want := range []string{"Food", "83.3%", "close to limit", "Misc", "no budget set"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
