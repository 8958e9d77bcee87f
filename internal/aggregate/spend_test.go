package aggregate

import (
	"testing"

	"budgetdash/internal/core"
)

func TestSpendSummary(t *testing.T) {
	txns := []core.Transaction{
		{Description: "groceries", Amount: 90, Category: "Foods"},
		{Description: "cinema", Amount: 30, Category: "Entertainment"},
		{Description: "taxi", Amount: 250, Category: "Transport"},
		{Description: "book", Amount: 10, Category: "Books"},
		{Description: "misc", Amount: 5},
	}
	budgets := []core.Budget{
		{Category: "Food", Limit: 100},
		{Category: "Entertainment", Limit: 100},
		{Category: "Transport", Limit: 200},
	}

	got := SpendSummary(txns, budgets)
	want := []struct {
		category string
		spent    float64
		status   core.BudgetState
	}{
		{"Transport", 250, core.StatusOverspent},
		{"Food", 90, core.StatusCloseToLimit},
		{"Entertainment", 30, core.StatusWithin},
		{"Books", 10, core.StatusNoBudget},
		{core.Uncategorized, 5, core.StatusNoBudget},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Category != w.category || got[i].Spent != w.spent || got[i].Status != w.status {
			t.Errorf("row %d = %+v, want %+v", i, got[i], w)
		}
	}

	if got[0].Remaining != -50 || got[0].SpentPercent == nil || *got[0].SpentPercent != 125 {
		t.Errorf("Transport row = %+v", got[0])
	}
	if got[3].SpentPercent != nil || got[3].BudgetLimit != 0 {
		t.Errorf("Books row should have no percentage: %+v", got[3])
	}
}

func TestMatchBudget(t *testing.T) {
	names := []string{"Food", "Entertainment", "Utilities"}
	tests := []struct {
		category string
		want     string
	}{
		{"food", "Food"},
		{"Foods", "Food"},
		{"Entertainmnt", "Entertainment"},
		{"Fun", ""},
		{"Shopping", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := MatchBudget(tt.category, names); got != tt.want {
			t.Errorf("MatchBudget(%q) = %q, want %q", tt.category, got, tt.want)
		}
	}
	if got := MatchBudget("Food", nil); got != "" {
		t.Errorf("no budgets should match nothing, got %q", got)
	}
}
