package analytics

import "github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/core"

// Chart payloads convert cents to floats at the edge, in the shape the
// front-end chart library consumes. Everything upstream stays in cents.

// PieData is a label/value pair series for a category distribution chart.
type PieData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// ExpensePie shapes the expense-by-category breakdown for a pie chart,
// largest slice first.
func ExpensePie(txs []core.Transaction) PieData {
	totals := TopCategories(txs, core.Expense, 0)
	pie := PieData{
		Labels: make([]string, 0, len(totals)),
		Values: make([]float64, 0, len(totals)),
	}
	for _, ct := range totals {
		pie.Labels = append(pie.Labels, ct.Category)
		pie.Values = append(pie.Values, ct.Total.Float64())
	}
	return pie
}

// BarData is a grouped bar series of income vs expense per month.
type BarData struct {
	Labels  []string  `json:"labels"`
	Income  []float64 `json:"income"`
	Expense []float64 `json:"expense"`
}

// MonthlyBars shapes the monthly buckets for a grouped bar chart.
func MonthlyBars(txs []core.Transaction) BarData {
	buckets := Monthly(txs)
	bar := BarData{
		Labels:  make([]string, 0, len(buckets)),
		Income:  make([]float64, 0, len(buckets)),
		Expense: make([]float64, 0, len(buckets)),
	}
	for _, b := range buckets {
		bar.Labels = append(bar.Labels, b.Month)
		bar.Income = append(bar.Income, b.Income.Float64())
		bar.Expense = append(bar.Expense, b.Expense.Float64())
	}
	return bar
}

// LineData is the daily net and cumulative balance series for a line chart.
type LineData struct {
	Labels  []string  `json:"labels"`
	Net     []float64 `json:"net"`
	Balance []float64 `json:"balance"`
}

// BalanceLine shapes the trend for a line chart.
func BalanceLine(txs []core.Transaction) LineData {
	points := Trend(txs)
	line := LineData{
		Labels:  make([]string, 0, len(points)),
		Net:     make([]float64, 0, len(points)),
		Balance: make([]float64, 0, len(points)),
	}
	for _, p := range points {
		line.Labels = append(line.Labels, p.Date.String())
		line.Net = append(line.Net, p.Net.Float64())
		line.Balance = append(line.Balance, p.Cumulative.Float64())
	}
	return line
}
