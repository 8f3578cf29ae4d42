package http

import (
	"log/slog"
	"net/http"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/analytics"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/core"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/store"
)

// View models keep templates free of cents arithmetic: every amount arrives
// already rendered as a plain decimal string.

type transactionView struct {
	ID          int64
	Date        string
	Type        string
	Category    string
	Amount      string
	Description string
}

type summaryView struct {
	TotalIncome  string
	TotalExpense string
	Balance      string
	Count        int
}

type categoryTotalView struct {
	Category string
	Total    string
}

type monthlyView struct {
	Month   string
	Income  string
	Expense string
}

type trendView struct {
	Date       string
	Net        string
	Cumulative string
}

func toTransactionViews(txs []core.Transaction) []transactionView {
	views := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		views = append(views, transactionView{
			ID:          tx.ID,
			Date:        tx.Date.String(),
			Type:        tx.Type.String(),
			Category:    tx.Category,
			Amount:      tx.Amount.String(),
			Description: tx.Description,
		})
	}
	return views
}

func toSummaryView(s analytics.Summary) summaryView {
	return summaryView{
		TotalIncome:  s.TotalIncome.String(),
		TotalExpense: s.TotalExpense.String(),
		Balance:      s.Balance.String(),
		Count:        s.Count,
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed",
			"error", err, "template", name)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleDashboard renders the landing page: headline summary, current
// balance, and the most recent transactions.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	ctx := r.Context()
	sum, err := s.cachedSummary(ctx, store.Filter{})
	if err != nil {
		slog.ErrorContext(ctx, "Dashboard summary failed", "error", err)
		http.Error(w, "failed to load summary", http.StatusInternalServerError)
		return
	}

	recent, err := s.svc.List(ctx, store.Filter{SortByDateDesc: true})
	if err != nil {
		slog.ErrorContext(ctx, "Dashboard list failed", "error", err)
		http.Error(w, "failed to load transactions", http.StatusInternalServerError)
		return
	}
	if len(recent) > 10 {
		recent = recent[:10]
	}

	cats, err := s.svc.Categories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Dashboard categories failed", "error", err)
	}

	s.render(w, r, "index.html", struct {
		Summary    summaryView
		Recent     []transactionView
		Categories []string
		Today      string
	}{
		Summary:    toSummaryView(sum),
		Recent:     toTransactionViews(recent),
		Categories: cats,
		Today:      core.Today().String(),
	})
}

// handleReport renders the analytics page: totals, category breakdowns,
// monthly buckets and the balance trend. The charts on the page fetch their
// series from the /api/charts endpoints.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	ctx := r.Context()
	rep, err := s.cachedReport(ctx, f)
	if err != nil {
		slog.ErrorContext(ctx, "Report build failed", "error", err)
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}

	expenses := make([]categoryTotalView, 0, len(rep.ExpenseByCategory))
	for _, ct := range rep.ExpenseByCategory {
		expenses = append(expenses, categoryTotalView{Category: ct.Category, Total: ct.Total.String()})
	}
	income := make([]categoryTotalView, 0, len(rep.IncomeByCategory))
	for _, ct := range rep.IncomeByCategory {
		income = append(income, categoryTotalView{Category: ct.Category, Total: ct.Total.String()})
	}
	months := make([]monthlyView, 0, len(rep.Monthly))
	for _, b := range rep.Monthly {
		months = append(months, monthlyView{Month: b.Month, Income: b.Income.String(), Expense: b.Expense.String()})
	}
	trend := make([]trendView, 0, len(rep.Trend))
	for _, p := range rep.Trend {
		trend = append(trend, trendView{Date: p.Date.String(), Net: p.Net.String(), Cumulative: p.Cumulative.String()})
	}

	var period string
	if !rep.StartDate.IsZero() {
		period = rep.StartDate.String() + " to " + rep.EndDate.String()
	}

	s.render(w, r, "report.html", struct {
		Summary           summaryView
		Period            string
		IncomeAverage     string
		ExpenseAverage    string
		ExpenseByCategory []categoryTotalView
		IncomeByCategory  []categoryTotalView
		Monthly           []monthlyView
		Trend             []trendView
	}{
		Summary:           toSummaryView(rep.Summary),
		Period:            period,
		IncomeAverage:     rep.Income.Average.String(),
		ExpenseAverage:    rep.Expense.Average.String(),
		ExpenseByCategory: expenses,
		IncomeByCategory:  income,
		Monthly:           months,
		Trend:             trend,
	})
}
