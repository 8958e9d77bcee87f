package services

import (
	"context"
	"fmt"

	"budgetdash/internal/core"
	"budgetdash/internal/datasource"
)

// BudgetService manages per-category spending limits.
type BudgetService struct {
	store datasource.BudgetStore
}

func NewBudgetService(store datasource.BudgetStore) *BudgetService {
	return &BudgetService{store: store}
}

// Set creates or updates the limit for b.Category.
func (s *BudgetService) Set(ctx context.Context, b core.Budget) (core.Budget, error) {
	out, err := s.store.UpsertBudget(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("save budget %q: %w", b.Category, err)
	}
	return out, nil
}

// SetBulk validates every budget before writing any of them.
func (s *BudgetService) SetBulk(ctx context.Context, budgets []core.Budget) ([]core.Budget, error) {
	for _, b := range budgets {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("budget %q: %w", b.Category, err)
		}
	}
	out := make([]core.Budget, 0, len(budgets))
	for _, b := range budgets {
		saved, err := s.Set(ctx, b)
		if err != nil {
			return nil, err
		}
		out = append(out, saved)
	}
	return out, nil
}

func (s *BudgetService) List(ctx context.Context) ([]core.Budget, error) {
	out, err := s.store.ListBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return out, nil
}

func (s *BudgetService) Clear(ctx context.Context) (int64, error) {
	n, err := s.store.ClearBudgets(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear budgets: %w", err)
	}
	return n, nil
}
