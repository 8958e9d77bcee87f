package report

import "budgetdash/internal/core"

// Dashboard is the complete set of series for one render. The caller owns
// it and replaces any previous Dashboard wholesale.
type Dashboard struct {
	TotalSpent float64               `json:"total_spent"`
	Categories core.RenderableSeries `json:"categories"`
	Trend      core.RenderableSeries `json:"trend"`
	Matrix     core.Matrix           `json:"category_monthly"`
	Merchants  core.RenderableSeries `json:"merchants"`
}

// BuildDashboard runs every builder over one pair of payloads.
func BuildDashboard(insights core.AnalyticsPayload, analytics core.AdvancedAnalyticsPayload) (Dashboard, error) {
	pie, err := BuildCategoryPie(insights)
	if err != nil {
		return Dashboard{}, err
	}
	trend, err := BuildMonthlyTrend(insights)
	if err != nil {
		return Dashboard{}, err
	}
	matrix, err := BuildCategoryMonthlyMatrix(analytics)
	if err != nil {
		return Dashboard{}, err
	}
	merchants, err := BuildMerchantFrequency(analytics)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		TotalSpent: insights.TotalSpent,
		Categories: pie,
		Trend:      trend,
		Matrix:     matrix,
		Merchants:  merchants,
	}, nil
}

// Charts converts the dashboard into its four charts in display order.
func (d Dashboard) Charts() []Chart {
	return []Chart{
		PieChart(d.Categories),
		LineChart(d.Trend),
		MatrixChart(d.Matrix),
		BarChart(d.Merchants),
	}
}
