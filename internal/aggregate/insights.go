// Package aggregate computes the analytics documents served by the data
// service from stored transactions.
package aggregate

import (
	"sort"
	"strings"
	"unicode/utf8"

	"budgetdash/internal/core"
)

const (
	// NoDataMessage is set on analytics computed from an empty ledger.
	NoDataMessage = "No transaction data available."

	topCategoryLimit = 5
	topMerchantLimit = 5
	minKeywordLength = 4

	unknownMonth = "Unknown"
)

// Insights computes totals, the category breakdown, the percentage share of
// each category and the YYYY-MM monthly summary in calendar order.
// Categories appear in the order they are first seen in txns.
func Insights(txns []core.Transaction) core.AnalyticsPayload {
	breakdown := core.NewAmounts()
	monthly := map[string]float64{}
	var total float64

	for _, t := range txns {
		cat := categoryOf(t)
		prev, _ := breakdown.Get(cat)
		breakdown.Set(cat, prev+t.Amount)
		total += t.Amount
		if !t.Date.IsEmpty() {
			monthly[t.Date.Format("2006-01")] += t.Amount
		}
	}

	percentages := core.NewAmounts()
	top := make([]core.CategoryAmount, 0, breakdown.Len())
	for p := breakdown.Oldest(); p != nil; p = p.Next() {
		share := 0.0
		if total > 0 {
			share = core.Round2(p.Value / total * 100)
		}
		percentages.Set(p.Key, share)
		top = append(top, core.CategoryAmount{Category: p.Key, Amount: p.Value})
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Amount > top[j].Amount })
	if len(top) > topCategoryLimit {
		top = top[:topCategoryLimit]
	}

	months := make([]string, 0, len(monthly))
	for m := range monthly {
		months = append(months, m)
	}
	sort.Strings(months)
	summary := core.NewAmounts()
	for _, m := range months {
		summary.Set(m, monthly[m])
	}

	return core.AnalyticsPayload{
		TotalSpent:          core.Round2(total),
		CategoryBreakdown:   breakdown,
		CategoryPercentages: percentages,
		MonthlySummary:      summary,
		TopCategories:       top,
	}
}

// Analytics computes the monthly spend list, the category × month matrix
// and the most frequent description keywords.
func Analytics(txns []core.Transaction) core.AdvancedAnalyticsPayload {
	if len(txns) == 0 {
		return core.AdvancedAnalyticsPayload{
			Message:         NoDataMessage,
			MonthlySpend:    []core.MonthlyTotal{},
			CategoryMonthly: core.NewCategoryMonthly(),
			TopMerchants:    []core.MerchantCount{},
		}
	}

	monthly := map[string]float64{}
	matrix := core.NewCategoryMonthly()
	words := []string{}
	counts := map[string]int64{}

	for _, t := range txns {
		month := unknownMonth
		if !t.Date.IsEmpty() {
			month = t.Date.Format("Jan 2006")
		}
		monthly[month] += t.Amount

		cat := categoryOf(t)
		row, ok := matrix.Get(cat)
		if !ok {
			row = core.NewAmounts()
			matrix.Set(cat, row)
		}
		prev, _ := row.Get(month)
		row.Set(month, prev+t.Amount)

		for _, w := range strings.Fields(strings.ToLower(t.Description)) {
			if utf8.RuneCountInString(w) < minKeywordLength {
				continue
			}
			if _, seen := counts[w]; !seen {
				words = append(words, w)
			}
			counts[w]++
		}
	}

	months := make([]string, 0, len(monthly))
	for m := range monthly {
		months = append(months, m)
	}
	sort.Strings(months)
	spend := make([]core.MonthlyTotal, 0, len(months))
	for _, m := range months {
		spend = append(spend, core.MonthlyTotal{Month: m, Total: monthly[m]})
	}

	sort.SliceStable(words, func(i, j int) bool { return counts[words[i]] > counts[words[j]] })
	if len(words) > topMerchantLimit {
		words = words[:topMerchantLimit]
	}
	merchants := make([]core.MerchantCount, 0, len(words))
	for _, w := range words {
		merchants = append(merchants, core.MerchantCount{Merchant: w, Count: counts[w]})
	}

	return core.AdvancedAnalyticsPayload{
		MonthlySpend:    spend,
		CategoryMonthly: matrix,
		TopMerchants:    merchants,
	}
}

func categoryOf(t core.Transaction) string {
	if strings.TrimSpace(t.Category) == "" {
		return core.Uncategorized
	}
	return t.Category
}
