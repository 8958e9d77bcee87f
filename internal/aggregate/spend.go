package aggregate

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"budgetdash/internal/core"
)

const (
	closeToLimitPercent = 80
	minMatchRatio       = 0.8
)

// SpendSummary compares spending per category with the configured budgets.
// A transaction category is attributed to the budget it matches best, so
// "Foods" counts against a "Food" budget. The result is sorted by spent,
// highest first.
func SpendSummary(txns []core.Transaction, budgets []core.Budget) []core.BudgetStatus {
	limits := make(map[string]float64, len(budgets))
	names := make([]string, 0, len(budgets))
	for _, b := range budgets {
		if _, ok := limits[b.Category]; !ok {
			names = append(names, b.Category)
		}
		limits[b.Category] = b.Limit
	}

	order := []string{}
	spent := map[string]float64{}
	matches := map[string]string{}
	for _, t := range txns {
		key, ok := matches[t.Category]
		if !ok {
			key = MatchBudget(t.Category, names)
			if key == "" {
				key = categoryOf(t)
			}
			matches[t.Category] = key
		}
		if _, seen := spent[key]; !seen {
			order = append(order, key)
		}
		spent[key] += t.Amount
	}

	out := make([]core.BudgetStatus, 0, len(order))
	for _, cat := range order {
		out = append(out, status(cat, spent[cat], limits[cat]))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Spent > out[j].Spent })
	return out
}

func status(category string, spent, limit float64) core.BudgetStatus {
	s := core.BudgetStatus{
		Category:    category,
		Spent:       core.Round2(spent),
		BudgetLimit: limit,
		Remaining:   core.Round2(limit - spent),
	}
	var pct float64
	if limit > 0 {
		pct = spent / limit * 100
		rounded := core.Round1(pct)
		s.SpentPercent = &rounded
	}
	switch {
	case limit == 0:
		s.Status = core.StatusNoBudget
	case limit-spent < 0:
		s.Status = core.StatusOverspent
	case pct >= closeToLimitPercent:
		s.Status = core.StatusCloseToLimit
	default:
		s.Status = core.StatusWithin
	}
	return s
}

// MatchBudget returns the budget name that best matches category, or "" when
// none is close enough. An exact case-insensitive match always wins; otherwise
// one name must fuzzily contain the other and the shorter must be at least 80%
// of the longer.
func MatchBudget(category string, names []string) string {
	category = strings.TrimSpace(category)
	if category == "" || len(names) == 0 {
		return ""
	}
	for _, n := range names {
		if strings.EqualFold(n, category) {
			return n
		}
	}

	best, bestRatio := "", 0.0
	for _, n := range names {
		short, long := strings.ToLower(category), strings.ToLower(n)
		if utf8.RuneCountInString(short) > utf8.RuneCountInString(long) {
			short, long = long, short
		}
		if len(fuzzy.Find(short, []string{long})) == 0 {
			continue
		}
		ratio := float64(utf8.RuneCountInString(short)) / float64(utf8.RuneCountInString(long))
		if ratio >= minMatchRatio && ratio > bestRatio {
			best, bestRatio = n, ratio
		}
	}
	return best
}
