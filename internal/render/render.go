// Package render draws report series and tables for terminal output.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"budgetdash/internal/core"
)

const barWidth = 30

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#87CEEB")).PaddingBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D4CDE9"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#42a5f5"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F47A60"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	frameStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6CBFE6")).
			Padding(0, 1)

	statusStyles = map[core.BudgetState]lipgloss.Style{
		core.StatusOverspent:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F15B5B")),
		core.StatusCloseToLimit: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD54A")),
		core.StatusWithin:       lipgloss.NewStyle().Foreground(lipgloss.Color("#5CCB76")),
		core.StatusNoBudget:     mutedStyle,
	}
)

// Series renders one labelled series as horizontal bars scaled to its largest value.
func Series(title string, s core.RenderableSeries) string {
	if s.Len() == 0 {
		return frameStyle.Render(titleStyle.Render(title) + "\n" + mutedStyle.Render("no data"))
	}

	labelWidth := 0
	maxValue := 0.0
	for i, l := range s.Labels {
		labelWidth = max(labelWidth, lipgloss.Width(l))
		maxValue = max(maxValue, math.Abs(s.Values[i]))
	}

	lines := make([]string, 0, s.Len())
	for i, l := range s.Labels {
		label := labelStyle.Width(labelWidth).Render(l)
		lines = append(lines, fmt.Sprintf("%s %s %s", label, barStyle.Render(bar(s.Values[i], maxValue)), core.FormatAmount(s.Values[i])))
	}
	return frameStyle.Render(titleStyle.Render(title) + "\n" + strings.Join(lines, "\n"))
}

func bar(v, maxValue float64) string {
	if maxValue <= 0 {
		return ""
	}
	n := int(math.Round(math.Abs(v) / maxValue * barWidth))
	if n == 0 && v != 0 {
		n = 1
	}
	return strings.Repeat("█", n) + strings.Repeat(" ", barWidth-n)
}

// Matrix renders a category by period grid, one row per category.
func Matrix(title string, m core.Matrix) string {
	header := append([]string{"Category"}, m.Axis...)
	rows := make([][]string, 0, len(m.Series))
	for _, s := range m.Series {
		row := make([]string, 0, len(s.Values)+1)
		row = append(row, s.Category)
		for _, v := range s.Values {
			row = append(row, core.FormatAmount(v))
		}
		rows = append(rows, row)
	}
	return frameStyle.Render(titleStyle.Render(title) + "\n" + grid(header, rows))
}

// Table renders a report table including its summary row.
func Table(title string, t core.ReportTable) string {
	rows := append([][]string{}, t.Rows...)
	body := grid(t.Header, rows)
	if len(t.Summary) > 0 {
		body += "\n\n" + headerStyle.Render(strings.Join(t.Summary, "  "))
	}
	return frameStyle.Render(titleStyle.Render(title) + "\n" + body)
}

// BudgetStatuses renders the spend summary with each status colour coded.
func BudgetStatuses(statuses []core.BudgetStatus) string {
	header := []string{"Category", "Spent", "Limit", "Remaining", "Used", "Status"}
	rows := make([][]string, 0, len(statuses))
	styles := make([]lipgloss.Style, 0, len(statuses))
	for _, s := range statuses {
		used := "-"
		if s.SpentPercent != nil {
			used = core.FormatAmount(*s.SpentPercent) + "%"
		}
		rows = append(rows, []string{
			s.Category,
			core.FormatAmount(s.Spent),
			core.FormatAmount(s.BudgetLimit),
			core.FormatAmount(s.Remaining),
			used,
			string(s.Status),
		})
		st, ok := statusStyles[s.Status]
		if !ok {
			st = lipgloss.NewStyle()
		}
		styles = append(styles, st)
	}

	widths := columnWidths(header, rows)
	lines := []string{renderRow(header, widths, headerStyle)}
	for i, row := range rows {
		lines = append(lines, renderRow(row, widths, styles[i]))
	}
	return frameStyle.Render(titleStyle.Render("Budget Status") + "\n" + strings.Join(lines, "\n"))
}

func grid(header []string, rows [][]string) string {
	widths := columnWidths(header, rows)
	lines := make([]string, 0, len(rows)+1)
	if len(header) > 0 {
		lines = append(lines, renderRow(header, widths, headerStyle))
	}
	for _, row := range rows {
		lines = append(lines, renderRow(row, widths, labelStyle))
	}
	return strings.Join(lines, "\n")
}

func columnWidths(header []string, rows [][]string) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	return widths
}

func renderRow(cells []string, widths []int, style lipgloss.Style) string {
	rendered := make([]string, len(cells))
	for i, cell := range cells {
		rendered[i] = style.Width(widths[i]).Render(cell)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, joinWithGap(rendered)...)
}

func joinWithGap(cells []string) []string {
	out := make([]string, 0, len(cells)*2)
	for i, c := range cells {
		if i > 0 {
			out = append(out, "  ")
		}
		out = append(out, c)
	}
	return out
}
