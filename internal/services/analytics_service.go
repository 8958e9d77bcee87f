package services

import (
	"context"
	"fmt"

	"budgetdash/internal/aggregate"
	"budgetdash/internal/core"
	"budgetdash/internal/datasource"
	"budgetdash/internal/report"
)

// AnalyticsService computes the aggregated documents from stored data. It is
// the local implementation of datasource.AnalyticsSource.
type AnalyticsService struct {
	store datasource.Store
}

func NewAnalyticsService(store datasource.Store) *AnalyticsService {
	return &AnalyticsService{store: store}
}

func (s *AnalyticsService) Insights(ctx context.Context) (core.AnalyticsPayload, error) {
	txns, err := s.store.ListTransactions(ctx)
	if err != nil {
		return core.AnalyticsPayload{}, fmt.Errorf("load transactions: %w", err)
	}
	return aggregate.Insights(txns), nil
}

func (s *AnalyticsService) Analytics(ctx context.Context) (core.AdvancedAnalyticsPayload, error) {
	txns, err := s.store.ListTransactions(ctx)
	if err != nil {
		return core.AdvancedAnalyticsPayload{}, fmt.Errorf("load transactions: %w", err)
	}
	return aggregate.Analytics(txns), nil
}

// SpendSummary compares spending with budget limits.
func (s *AnalyticsService) SpendSummary(ctx context.Context) ([]core.BudgetStatus, error) {
	txns, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	budgets, err := s.store.ListBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}
	return aggregate.SpendSummary(txns, budgets), nil
}

// DetailedReport renders the category/total/percentage CSV.
func (s *AnalyticsService) DetailedReport(ctx context.Context) (string, error) {
	p, err := s.Insights(ctx)
	if err != nil {
		return "", err
	}
	return report.ExportDetailedCSV(p)
}
