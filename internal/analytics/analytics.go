// Package analytics computes read-side aggregates over a transaction
// sequence.
//
// Every function here is a pure transform: it takes an already-filtered slice
// of transactions and returns plain values, never touching storage. Callers
// filter through the store and hand the result over.
package analytics

import (
	"sort"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/core"
)

// Summary is the headline reduction over a transaction set.
type Summary struct {
	TotalIncome  core.Money
	TotalExpense core.Money
	Balance      core.Money
	Count        int
}

// Summarize computes totals, balance and count in one pass.
func Summarize(txs []core.Transaction) Summary {
	var s Summary
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			s.TotalIncome.Cents += tx.Amount.Cents
		case core.Expense:
			s.TotalExpense.Cents += tx.Amount.Cents
		}
	}
	s.Balance.Cents = s.TotalIncome.Cents - s.TotalExpense.Cents
	s.Count = len(txs)
	return s
}

// ByCategory groups amounts by category label, optionally restricted to one
// transaction type (pass "" for both). Labels are grouped by exact string
// match; the store's filter handles case-insensitive lookup, grouping does
// not fold case.
func ByCategory(txs []core.Transaction, typ core.TransactionType) map[string]core.Money {
	totals := make(map[string]core.Money)
	for _, tx := range txs {
		if typ != "" && tx.Type != typ {
			continue
		}
		m := totals[tx.Category]
		m.Cents += tx.Amount.Cents
		totals[tx.Category] = m
	}
	return totals
}

// CategoryTotal pairs a category label with its total, for ordered output.
type CategoryTotal struct {
	Category string
	Total    core.Money
}

// TopCategories returns category totals sorted largest-first, ties broken by
// label. A limit of 0 returns everything.
func TopCategories(txs []core.Transaction, typ core.TransactionType, limit int) []CategoryTotal {
	totals := ByCategory(txs, typ)
	out := make([]CategoryTotal, 0, len(totals))
	for cat, total := range totals {
		out = append(out, CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total.Cents != out[j].Total.Cents {
			return out[i].Total.Cents > out[j].Total.Cents
		}
		return out[i].Category < out[j].Category
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// MonthlyBucket holds one calendar month's income and expense totals.
type MonthlyBucket struct {
	Month   string // "YYYY-MM"
	Income  core.Money
	Expense core.Money
}

// Monthly buckets transactions by calendar month, sorted chronologically.
// The "YYYY-MM" key sorts correctly as text.
func Monthly(txs []core.Transaction) []MonthlyBucket {
	byMonth := make(map[string]*MonthlyBucket)
	for _, tx := range txs {
		key := tx.Date.YearMonth()
		b, ok := byMonth[key]
		if !ok {
			b = &MonthlyBucket{Month: key}
			byMonth[key] = b
		}
		switch tx.Type {
		case core.Income:
			b.Income.Cents += tx.Amount.Cents
		case core.Expense:
			b.Expense.Cents += tx.Amount.Cents
		}
	}

	out := make([]MonthlyBucket, 0, len(byMonth))
	for _, b := range byMonth {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// TrendPoint is one day on the balance trend: the day's net movement and the
// running balance through that day.
type TrendPoint struct {
	Date       core.Date
	Net        core.Money
	Cumulative core.Money
}

// Trend computes the per-day net and cumulative balance over the distinct
// dates present, in chronological order.
func Trend(txs []core.Transaction) []TrendPoint {
	nets := make(map[string]int64)
	for _, tx := range txs {
		nets[tx.Date.String()] += tx.Signed()
	}

	dates := make([]string, 0, len(nets))
	for d := range nets {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]TrendPoint, 0, len(dates))
	var running int64
	for _, d := range dates {
		running += nets[d]
		// Dates in the map came from Date.String, reparsing cannot fail.
		day, _ := core.ParseDate(d)
		out = append(out, TrendPoint{
			Date:       day,
			Net:        core.Money{Cents: nets[d]},
			Cumulative: core.Money{Cents: running},
		})
	}
	return out
}

// Categories returns the distinct category labels present, sorted.
func Categories(txs []core.Transaction) []string {
	seen := make(map[string]struct{})
	for _, tx := range txs {
		seen[tx.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// TypeStats holds the per-type reduction: how many transactions of one type
// exist, their total, and the mean amount.
type TypeStats struct {
	Count   int
	Total   core.Money
	Average core.Money
}

// typeStats reduces one transaction type. The average is rounded half-up to
// whole cents; an empty set averages to zero.
func typeStats(txs []core.Transaction, typ core.TransactionType) TypeStats {
	var s TypeStats
	for _, tx := range txs {
		if tx.Type != typ {
			continue
		}
		s.Count++
		s.Total.Cents += tx.Amount.Cents
	}
	if s.Count > 0 {
		n := int64(s.Count)
		s.Average.Cents = (s.Total.Cents + n/2) / n
	}
	return s
}

// topExpenseCategories caps the expense breakdown in the report.
const topExpenseCategories = 5

// Report bundles the aggregates the report page and the CLI report command
// display together: the observed date range, per-type counts and averages,
// the five largest expense categories, and the monthly and trend series.
type Report struct {
	Summary   Summary
	StartDate core.Date // earliest transaction date, zero when empty
	EndDate   core.Date // latest transaction date, zero when empty
	Income    TypeStats
	Expense   TypeStats

	ExpenseByCategory []CategoryTotal // largest five
	IncomeByCategory  []CategoryTotal
	Monthly           []MonthlyBucket
	Trend             []TrendPoint
}

// BuildReport assembles the full analytics report in one call.
func BuildReport(txs []core.Transaction) Report {
	r := Report{
		Summary:           Summarize(txs),
		Income:            typeStats(txs, core.Income),
		Expense:           typeStats(txs, core.Expense),
		ExpenseByCategory: TopCategories(txs, core.Expense, topExpenseCategories),
		IncomeByCategory:  TopCategories(txs, core.Income, 0),
		Monthly:           Monthly(txs),
		Trend:             Trend(txs),
	}

	for _, tx := range txs {
		if r.StartDate.IsZero() || tx.Date.Before(r.StartDate.Time) {
			r.StartDate = tx.Date
		}
		if r.EndDate.IsZero() || tx.Date.After(r.EndDate.Time) {
			r.EndDate = tx.Date
		}
	}
	return r
}
