package datasource

import (
	"context"

	"budgetdash/internal/core"
)

// Ports for outbound adapters.
type (
	TransactionStore interface {
		// AddTransactions stores txns and returns how many were saved.
		AddTransactions(ctx context.Context, txns []core.Transaction) (int, error)
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		// ClearTransactions deletes every transaction and returns the count removed.
		ClearTransactions(ctx context.Context) (int64, error)
	}

	BudgetStore interface {
		// UpsertBudget creates the budget or replaces the limit of the existing
		// budget with the same category.
		UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		ListBudgets(ctx context.Context) ([]core.Budget, error)
		ClearBudgets(ctx context.Context) (int64, error)
	}

	// Store is everything the data service persists.
	Store interface {
		TransactionStore
		BudgetStore
	}

	// AnalyticsSource yields the aggregated documents the report builder shapes.
	AnalyticsSource interface {
		Insights(ctx context.Context) (core.AnalyticsPayload, error)
		Analytics(ctx context.Context) (core.AdvancedAnalyticsPayload, error)
	}
)
