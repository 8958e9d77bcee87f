package memory

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"budgetdash/internal/core"
)

type Store struct {
	mu      sync.Mutex
	nextID  int64
	txns    []core.Transaction
	budgets []core.Budget
}

func New(budgets ...core.Budget) *Store {
	s := &Store{}
	for _, b := range budgets {
		_, _ = s.upsert(b)
	}
	return s
}

// NewFromFiles seeds budgets from base/seed_budgets.txt, one "Category: limit"
// per line. A missing file yields an empty store.
func NewFromFiles(base string) *Store {
	var budgets []core.Budget
	for _, line := range readLines(filepath.Join(base, "seed_budgets.txt")) {
		cat, limit, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		v, err := core.ParseAmount(limit)
		if err != nil {
			continue
		}
		budgets = append(budgets, core.Budget{Category: strings.TrimSpace(cat), Limit: v})
	}
	return New(budgets...)
}

// AddTransactions validates and stores txns, assigning ids.
func (s *Store) AddTransactions(_ context.Context, txns []core.Transaction) (int, error) {
	for _, t := range txns {
		if err := t.Validate(); err != nil {
			return 0, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range txns {
		s.nextID++
		t.ID = s.nextID
		s.txns = append(s.txns, t)
	}
	return len(txns), nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txns...), nil
}

func (s *Store) ClearTransactions(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.txns))
	s.txns = nil
	return n, nil
}

func (s *Store) UpsertBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	return s.upsert(b)
}

func (s *Store) upsert(b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].Category == b.Category {
			s.budgets[i].Limit = b.Limit
			return s.budgets[i], nil
		}
	}
	s.nextID++
	b.ID = s.nextID
	s.budgets = append(s.budgets, b)
	return b, nil
}

func (s *Store) ListBudgets(_ context.Context) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Budget(nil), s.budgets...), nil
}

func (s *Store) ClearBudgets(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.budgets))
	s.budgets = nil
	return n, nil
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
