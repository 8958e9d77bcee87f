package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type (
	Transaction struct {
		ID          int64
		Description string
		Category    sql.NullString
		Amount      float64
		Date        sql.NullString
	}

	Budget struct {
		ID       int64
		Category string
		Limit    float64
	}

	CreateTransactionParams struct {
		Description string
		Category    sql.NullString
		Amount      float64
		Date        sql.NullString
	}

	UpsertBudgetParams struct {
		Category string
		Limit    float64
	}
)

const createTransaction = `INSERT INTO transactions (description, category, amount, date)
VALUES (?, ?, ?, ?)
RETURNING id, description, category, amount, date`

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction, arg.Description, arg.Category, arg.Amount, arg.Date)
	var i Transaction
	err := row.Scan(&i.ID, &i.Description, &i.Category, &i.Amount, &i.Date)
	return i, err
}

const listTransactions = `SELECT id, description, category, amount, date FROM transactions ORDER BY id`

func (q *Queries) ListTransactions(ctx context.Context) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(&i.ID, &i.Description, &i.Category, &i.Amount, &i.Date); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteTransactions = `DELETE FROM transactions`

func (q *Queries) DeleteTransactions(ctx context.Context) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransactions)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const upsertBudget = `INSERT INTO budgets (category, "limit") VALUES (?, ?)
ON CONFLICT(category) DO UPDATE SET "limit" = excluded."limit", updated_at = CURRENT_TIMESTAMP
RETURNING id, category, "limit"`

func (q *Queries) UpsertBudget(ctx context.Context, arg UpsertBudgetParams) (Budget, error) {
	row := q.db.QueryRowContext(ctx, upsertBudget, arg.Category, arg.Limit)
	var i Budget
	err := row.Scan(&i.ID, &i.Category, &i.Limit)
	return i, err
}

const listBudgets = `SELECT id, category, "limit" FROM budgets ORDER BY id`

func (q *Queries) ListBudgets(ctx context.Context) ([]Budget, error) {
	rows, err := q.db.QueryContext(ctx, listBudgets)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Budget
	for rows.Next() {
		var i Budget
		if err := rows.Scan(&i.ID, &i.Category, &i.Limit); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteBudgets = `DELETE FROM budgets`

func (q *Queries) DeleteBudgets(ctx context.Context) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteBudgets)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
