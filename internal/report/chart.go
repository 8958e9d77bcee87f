package report

import "budgetdash/internal/core"

// Chart titles and dataset labels shown by the dashboard.
const (
	TitleCategoryPie     = "Spend by Category"
	TitleMonthlyTrend    = "Monthly Spending Trend"
	TitleCategoryMonthly = "Category Spend per Month"
	TitleMerchants       = "Top Frequent Merchant Keywords"

	labelMonthlySpend = "Total Monthly Spend"
	labelFrequency    = "Frequency"
)

// Default color palette for chart series.
var defaultColors = []string{
	"#42a5f5", "#66bb6a", "#ffa726", "#ef5350", "#ab47bc",
	"#26c6da", "#ec407a", "#9ccc65", "#ff7043", "#5c6bc0",
}

type (
	// Chart is a Chart.js style description of one rendered chart.
	Chart struct {
		Type     string    `json:"type"`
		Title    string    `json:"title"`
		Labels   []string  `json:"labels"`
		Datasets []Dataset `json:"datasets"`
	}

	Dataset struct {
		Label  string    `json:"label,omitempty"`
		Data   []float64 `json:"data"`
		Colors []string  `json:"backgroundColor,omitempty"`
		Border string    `json:"borderColor,omitempty"`
		Fill   bool      `json:"fill"`
	}
)

// PieChart renders a category breakdown series as a pie.
func PieChart(s core.RenderableSeries) Chart {
	return Chart{
		Type:   "pie",
		Title:  TitleCategoryPie,
		Labels: s.Labels,
		Datasets: []Dataset{{
			Data:   s.Values,
			Colors: assignColors(len(s.Labels)),
		}},
	}
}

// LineChart renders the monthly trend as a single line.
func LineChart(s core.RenderableSeries) Chart {
	return Chart{
		Type:   "line",
		Title:  TitleMonthlyTrend,
		Labels: s.Labels,
		Datasets: []Dataset{{
			Label:  labelMonthlySpend,
			Data:   s.Values,
			Border: "#4CAF50",
		}},
	}
}

// MatrixChart renders one line per category over the shared month axis.
func MatrixChart(m core.Matrix) Chart {
	datasets := make([]Dataset, 0, len(m.Series))
	for i, s := range m.Series {
		datasets = append(datasets, Dataset{
			Label:  s.Category,
			Data:   s.Values,
			Border: defaultColors[i%len(defaultColors)],
		})
	}
	return Chart{
		Type:     "line",
		Title:    TitleCategoryMonthly,
		Labels:   m.Axis,
		Datasets: datasets,
	}
}

// BarChart renders merchant frequencies as bars.
func BarChart(s core.RenderableSeries) Chart {
	return Chart{
		Type:   "bar",
		Title:  TitleMerchants,
		Labels: s.Labels,
		Datasets: []Dataset{{
			Label:  labelFrequency,
			Data:   s.Values,
			Colors: []string{defaultColors[0]},
		}},
	}
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
