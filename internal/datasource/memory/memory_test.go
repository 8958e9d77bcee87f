package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"budgetdash/internal/core"
)

func TestMemoryStoreTransactions(t *testing.T) {
	ctx := context.Background()
	s := New()

	n, err := s.AddTransactions(ctx, []core.Transaction{
		{Description: "a", Amount: 1, Category: "Food", Date: core.NewDate(2025, 1, 1)},
		{Description: "b", Amount: 2, Category: "Food", Date: core.NewDate(2025, 1, 2)},
	})
	if err != nil || n != 2 {
		t.Fatalf("unexpected add: n=%d err=%v", n, err)
	}

	txns, _ := s.ListTransactions(ctx)
	if len(txns) != 2 || txns[0].ID == 0 || txns[0].ID == txns[1].ID || txns[1].Description != "b" {
		t.Fatalf("unexpected list: %+v", txns)
	}

	if _, err := s.AddTransactions(ctx, []core.Transaction{{Description: " ", Amount: 1}}); !errors.Is(err, core.ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}

	deleted, _ := s.ClearTransactions(ctx)
	txns, _ = s.ListTransactions(ctx)
	if deleted != 2 || len(txns) != 0 {
		t.Fatalf("clear: deleted=%d remaining=%d", deleted, len(txns))
	}
}

func TestMemoryStoreUpsertBudget(t *testing.T) {
	ctx := context.Background()
	s := New(core.Budget{Category: "Food", Limit: 100})

	b, err := s.UpsertBudget(ctx, core.Budget{Category: "Food", Limit: 250})
	if err != nil || b.Limit != 250 {
		t.Fatalf("unexpected upsert: %+v err=%v", b, err)
	}
	if _, err := s.UpsertBudget(ctx, core.Budget{Category: "Travel", Limit: 50}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := s.UpsertBudget(ctx, core.Budget{Category: "", Limit: 50}); !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}

	budgets, _ := s.ListBudgets(ctx)
	if len(budgets) != 2 || budgets[0].Category != "Food" || budgets[0].Limit != 250 {
		t.Fatalf("unexpected budgets: %+v", budgets)
	}

	deleted, _ := s.ClearBudgets(ctx)
	if deleted != 2 {
		t.Fatalf("expected 2 cleared, got %d", deleted)
	}
}

func TestNewFromFilesSeedsBudgets(t *testing.T) {
	dir := t.TempDir()
	s := NewFromFiles(dir)
	budgets, _ := s.ListBudgets(context.Background())
	if len(budgets) != 0 {
		t.Fatalf("expected no budgets when file missing")
	}

	content := "# header\nFood: 500\nTravel: 120,5\nbroken line\nRent: abc\n\n"
	if err := os.WriteFile(filepath.Join(dir, "seed_budgets.txt"), []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	s = NewFromFiles(dir)
	budgets, _ = s.ListBudgets(context.Background())
	if len(budgets) != 2 || budgets[0].Category != "Food" || budgets[1].Limit != 120.5 {
		t.Fatalf("unexpected budgets: %+v", budgets)
	}
}
