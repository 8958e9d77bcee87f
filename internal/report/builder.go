// Package report turns aggregated analytics payloads into chart-ready series
// and flat tabular exports.
//
// Every builder is a pure function of its payload: it returns either a
// complete value or a core.MalformedPayloadError, never partial output.
package report

import (
	"budgetdash/internal/axis"
	"budgetdash/internal/core"
)

// BuildCategoryPie returns the category breakdown as a single series in the
// payload's category order.
func BuildCategoryPie(p core.AnalyticsPayload) (core.RenderableSeries, error) {
	if p.CategoryBreakdown == nil {
		return core.RenderableSeries{}, core.Malformed("category_breakdown", "field is missing")
	}
	return single(p.CategoryBreakdown), nil
}

// BuildMonthlyTrend returns the monthly summary as a single series. The axis
// follows the map order; callers wanting calendar order sort upstream.
func BuildMonthlyTrend(p core.AnalyticsPayload) (core.RenderableSeries, error) {
	if p.MonthlySummary == nil {
		return core.RenderableSeries{}, core.Malformed("monthly_summary", "field is missing")
	}
	return single(p.MonthlySummary), nil
}

// BuildCategoryMonthlyMatrix aligns every category's sparse monthly amounts
// onto one shared month axis, keeping the payload's category order.
func BuildCategoryMonthlyMatrix(p core.AdvancedAnalyticsPayload) (core.Matrix, error) {
	if p.CategoryMonthly == nil {
		return core.Matrix{}, core.Malformed("category_monthly", "field is missing")
	}

	inputs := make([]axis.Sparse, 0, p.CategoryMonthly.Len())
	for pair := p.CategoryMonthly.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == nil {
			return core.Matrix{}, core.Malformed("category_monthly", "category %q has no monthly amounts", pair.Key)
		}
		inputs = append(inputs, axis.Sparse{ID: pair.Key, Points: pair.Value})
	}

	months, aligned := axis.Reconcile(inputs)
	series := make([]core.TaggedSeries, 0, len(inputs))
	for _, in := range inputs {
		series = append(series, core.TaggedSeries{Category: in.ID, RenderableSeries: aligned[in.ID]})
	}
	return core.Matrix{Axis: months, Series: series}, nil
}

// BuildMerchantFrequency returns merchant counts in the list's given order.
// The data source ranks the list; it is not re-sorted here.
func BuildMerchantFrequency(p core.AdvancedAnalyticsPayload) (core.RenderableSeries, error) {
	if p.TopMerchants == nil {
		return core.RenderableSeries{}, core.Malformed("top_merchants", "field is missing")
	}

	labels := make([]string, 0, len(p.TopMerchants))
	values := make([]float64, 0, len(p.TopMerchants))
	for _, m := range p.TopMerchants {
		if err := m.Validate(); err != nil {
			return core.RenderableSeries{}, err
		}
		labels = append(labels, m.Merchant)
		values = append(values, float64(m.Count))
	}
	return core.RenderableSeries{Labels: labels, Values: values}, nil
}

func single(m *core.Amounts) core.RenderableSeries {
	labels := make([]string, 0, m.Len())
	values := make([]float64, 0, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		labels = append(labels, p.Key)
		values = append(values, p.Value)
	}
	return core.RenderableSeries{Labels: labels, Values: values}
}
