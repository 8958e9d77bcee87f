package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"budgetdash/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks that the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// AddTransactions implements datasource.TransactionStore. The batch is
// written in one transaction so an upload is saved entirely or not at all.
func (r *SQLiteRepository) AddTransactions(ctx context.Context, txns []core.Transaction) (int, error) {
	for _, t := range txns {
		if err := t.Validate(); err != nil {
			return 0, err
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	for _, t := range txns {
		if _, err := q.CreateTransaction(ctx, CreateTransactionParams{
			Description: t.Description,
			Category:    nullString(t.Category),
			Amount:      t.Amount,
			Date:        formatDate(t.Date),
		}); err != nil {
			return 0, fmt.Errorf("create transaction: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transactions: %w", err)
	}

	slog.InfoContext(ctx, "Transactions saved to SQLite", "count", len(txns))
	return len(txns), nil
}

// ListTransactions implements datasource.TransactionStore
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]core.Transaction, len(rows))
	for i, row := range rows {
		out[i] = core.Transaction{
			ID:          row.ID,
			Description: row.Description,
			Amount:      row.Amount,
			Category:    row.Category.String,
			Date:        parseDate(row.Date),
		}
	}
	return out, nil
}

// ClearTransactions implements datasource.TransactionStore
func (r *SQLiteRepository) ClearTransactions(ctx context.Context) (int64, error) {
	n, err := r.queries.DeleteTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete transactions: %w", err)
	}
	slog.InfoContext(ctx, "Transactions cleared", "count", n)
	return n, nil
}

// UpsertBudget implements datasource.BudgetStore
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	row, err := r.queries.UpsertBudget(ctx, UpsertBudgetParams{Category: b.Category, Limit: b.Limit})
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget %s: %w", b.Category, err)
	}
	return core.Budget{ID: row.ID, Category: row.Category, Limit: row.Limit}, nil
}

// ListBudgets implements datasource.BudgetStore
func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.queries.ListBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	out := make([]core.Budget, len(rows))
	for i, row := range rows {
		out[i] = core.Budget{ID: row.ID, Category: row.Category, Limit: row.Limit}
	}
	return out, nil
}

// ClearBudgets implements datasource.BudgetStore
func (r *SQLiteRepository) ClearBudgets(ctx context.Context) (int64, error) {
	n, err := r.queries.DeleteBudgets(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete budgets: %w", err)
	}
	slog.InfoContext(ctx, "Budget limits cleared", "count", n)
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func formatDate(d core.Date) sql.NullString {
	if d.IsEmpty() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.Format(dateLayout), Valid: true}
}

func parseDate(s sql.NullString) core.Date {
	if !s.Valid {
		return core.Date{}
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return core.Date{}
	}
	return core.Date{Time: t}
}
