package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/analytics"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/core"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/store"
)

// JSON payload shapes. Amounts cross the API as floats, matching what the
// chart library consumes; the string forms are included for display.

type transactionJSON struct {
	ID          int64   `json:"id"`
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

type summaryJSON struct {
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Balance      float64 `json:"balance"`
	Count        int     `json:"count"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// apiFilter parses the shared filter query for the JSON endpoints, writing
// the error response itself on failure.
func (s *Server) apiFilter(w http.ResponseWriter, r *http.Request) (store.Filter, bool) {
	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return store.Filter{}, false
	}
	return f, true
}

func (s *Server) handleAPIBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	bal, err := s.svc.Balance(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Balance query failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to compute balance")
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"balance": bal.Float64()})
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	f, ok := s.apiFilter(w, r)
	if !ok {
		return
	}

	sum, err := s.cachedSummary(r.Context(), f)
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary query failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}
	writeJSON(w, http.StatusOK, summaryJSON{
		TotalIncome:  sum.TotalIncome.Float64(),
		TotalExpense: sum.TotalExpense.Float64(),
		Balance:      sum.Balance.Float64(),
		Count:        sum.Count,
	})
}

func (s *Server) handleAPITransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	f, ok := s.apiFilter(w, r)
	if !ok {
		return
	}

	txs, err := s.svc.List(r.Context(), f)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction query failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	out := make([]transactionJSON, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionJSON{
			ID:          tx.ID,
			Date:        tx.Date.String(),
			Type:        tx.Type.String(),
			Category:    tx.Category,
			Amount:      tx.Amount.Float64(),
			Description: tx.Description,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPICategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	cats, err := s.svc.Categories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Category query failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// chartData loads the filtered transaction set for the chart endpoints.
func (s *Server) chartData(w http.ResponseWriter, r *http.Request) ([]core.Transaction, bool) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return nil, false
	}
	f, ok := s.apiFilter(w, r)
	if !ok {
		return nil, false
	}

	txs, err := s.svc.List(r.Context(), f)
	if err != nil {
		slog.ErrorContext(r.Context(), "Chart query failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to load chart data")
		return nil, false
	}
	return txs, true
}

func (s *Server) handleChartPie(w http.ResponseWriter, r *http.Request) {
	txs, ok := s.chartData(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.ExpensePie(txs))
}

func (s *Server) handleChartBar(w http.ResponseWriter, r *http.Request) {
	txs, ok := s.chartData(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.MonthlyBars(txs))
}

func (s *Server) handleChartLine(w http.ResponseWriter, r *http.Request) {
	txs, ok := s.chartData(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.BalanceLine(txs))
}
