package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	StatusNoBudget     BudgetState = "no budget set"
	StatusOverspent    BudgetState = "overspent"
	StatusCloseToLimit BudgetState = "close to limit"
	StatusWithin       BudgetState = "within budget"

	// Uncategorized is used when neither the classifier nor the upload supplies a category.
	Uncategorized = "Uncategorized"
)

type (
	BudgetState string

	Date struct {
		time.Time
	}

	Transaction struct {
		ID          int64
		Description string
		Amount      float64
		Category    string
		Date        Date
	}

	Budget struct {
		ID       int64   `json:"id,omitempty"`
		Category string  `json:"category"`
		Limit    float64 `json:"limit"`
	}

	// BudgetStatus compares what was spent in a category with its limit.
	BudgetStatus struct {
		Category     string      `json:"category"`
		Spent        float64     `json:"spent"`
		BudgetLimit  float64     `json:"budget_limit"`
		Remaining    float64     `json:"remaining"`
		SpentPercent *float64    `json:"spent_percent"`
		Status       BudgetState `json:"status"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidLimit     = errors.New("invalid budget limit")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current UTC date without a time component.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// IsEmpty returns true if the date is zero
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return ErrInvalidAmount
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if math.IsNaN(b.Limit) || math.IsInf(b.Limit, 0) || b.Limit < 0 {
		return ErrInvalidLimit
	}
	return nil
}
