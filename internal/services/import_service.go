package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"budgetdash/internal/classify"
	"budgetdash/internal/core"
	"budgetdash/internal/datasource"
	"budgetdash/internal/ingest"
)

// ImportService turns uploaded CSV files into classified, stored transactions.
type ImportService struct {
	store      datasource.TransactionStore
	classifier classify.Classifier
	parser     ingest.Parser
}

func NewImportService(store datasource.TransactionStore, classifier classify.Classifier) *ImportService {
	if classifier == nil {
		classifier = classify.NewKeywords()
	}
	return &ImportService{store: store, classifier: classifier}
}

// Import parses r, classifies each description and saves the rows.
func (s *ImportService) Import(ctx context.Context, r io.Reader) (int, error) {
	rows, err := s.parser.Parse(r)
	if err != nil {
		return 0, err
	}

	descriptions := make([]string, len(rows))
	for i, row := range rows {
		descriptions[i] = row.Description
	}
	categories := s.classifier.Classify(descriptions)
	if len(categories) != len(rows) {
		return 0, fmt.Errorf("classification failed: %d categories for %d rows", len(categories), len(rows))
	}

	txns := make([]core.Transaction, len(rows))
	for i, row := range rows {
		cat := categories[i]
		if cat == "" {
			cat = core.Uncategorized
		}
		txns[i] = core.Transaction{
			Description: row.Description,
			Amount:      row.Amount,
			Category:    cat,
			Date:        row.Date,
		}
	}

	saved, err := s.store.AddTransactions(ctx, txns)
	if err != nil {
		return 0, fmt.Errorf("save transactions: %w", err)
	}
	slog.InfoContext(ctx, "Imported transactions", "rows", len(rows), "saved", saved)
	return saved, nil
}

// Clear deletes every stored transaction.
func (s *ImportService) Clear(ctx context.Context) (int64, error) {
	n, err := s.store.ClearTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear transactions: %w", err)
	}
	return n, nil
}
