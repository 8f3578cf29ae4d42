package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/services"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	ledger, err := store.OpenCSV(filepath.Join(dir, "transactions.csv"))
	if err != nil {
		t.Fatalf("OpenCSV: %v", err)
	}
	recurring, err := store.OpenRecurring(filepath.Join(dir, "recurring.csv"))
	if err != nil {
		t.Fatalf("OpenRecurring: %v", err)
	}

	svc := services.NewTransactionService(ledger, nil)
	s, err := NewServer(":0", svc, recurring)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Shutdown(context.Background())
		_ = ledger.Close()
		_ = recurring.Close()
	})
	return s
}

func doRequest(s *Server, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func createTransaction(t *testing.T, s *Server, form url.Values) {
	t.Helper()
	rec := doRequest(s, http.MethodPost, "/transactions", form)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	if rec := doRequest(s, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Errorf("healthz = %d, want 200", rec.Code)
	}
	if rec := doRequest(s, http.MethodGet, "/readyz", nil); rec.Code != http.StatusOK {
		t.Errorf("readyz = %d, want 200", rec.Code)
	}
}

func TestDashboardRenders(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Dashboard") {
		t.Errorf("dashboard body missing heading")
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Errorf("missing X-Request-ID header")
	}
}

func TestDashboardUnknownPathIs404(t *testing.T) {
	s := newTestServer(t)

	if rec := doRequest(s, http.MethodGet, "/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown path = %d, want 404", rec.Code)
	}
}

func TestCreateListDeleteFlow(t *testing.T) {
	s := newTestServer(t)

	createTransaction(t, s, url.Values{
		"type":        {"income"},
		"category":    {"Salary"},
		"amount":      {"2500.00"},
		"date":        {"2024-03-01"},
		"description": {"March salary"},
	})
	createTransaction(t, s, url.Values{
		"type":     {"expense"},
		"category": {"Groceries"},
		"amount":   {"85.40"},
		"date":     {"2024-03-02"},
	})

	rec := doRequest(s, http.MethodGet, "/transactions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Salary", "Groceries", "85.40"} {
		if !strings.Contains(body, want) {
			t.Errorf("list body missing %q", want)
		}
	}

	rec = doRequest(s, http.MethodPost, "/transactions/delete", url.Values{"id": {"1"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("delete = %d: %s", rec.Code, rec.Body.String())
	}
	if trig := rec.Header().Get("HX-Trigger"); !strings.Contains(trig, "transaction:deleted") {
		t.Errorf("HX-Trigger = %q, want transaction:deleted", trig)
	}

	rec = doRequest(s, http.MethodGet, "/transactions", nil)
	if strings.Contains(rec.Body.String(), "Salary") {
		t.Errorf("deleted transaction still listed")
	}
}

func TestCreateRejectsInvalidAmount(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/transactions", url.Values{
		"type":     {"expense"},
		"category": {"Misc"},
		"amount":   {"abc"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("create = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid amount") {
		t.Errorf("body = %q, want invalid amount message", rec.Body.String())
	}
}

func TestDeleteMissingTransactionIs404(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/transactions/delete", url.Values{"id": {"42"}})
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete missing = %d, want 404", rec.Code)
	}
}

func TestAPIBalanceAndSummary(t *testing.T) {
	s := newTestServer(t)

	createTransaction(t, s, url.Values{
		"type": {"income"}, "category": {"Salary"}, "amount": {"1000.00"}, "date": {"2024-01-05"},
	})
	createTransaction(t, s, url.Values{
		"type": {"expense"}, "category": {"Rent"}, "amount": {"400.00"}, "date": {"2024-01-06"},
	})

	rec := doRequest(s, http.MethodGet, "/api/balance", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("balance = %d", rec.Code)
	}
	var bal map[string]float64
	if err := json.Unmarshal(rec.Body.Bytes(), &bal); err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if bal["balance"] != 600.00 {
		t.Errorf("balance = %v, want 600", bal["balance"])
	}

	rec = doRequest(s, http.MethodGet, "/api/summary", nil)
	var sum summaryJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if sum.TotalIncome != 1000.00 || sum.TotalExpense != 400.00 || sum.Count != 2 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestAPITransactionsFiltered(t *testing.T) {
	s := newTestServer(t)

	createTransaction(t, s, url.Values{
		"type": {"income"}, "category": {"Salary"}, "amount": {"1000.00"}, "date": {"2024-01-05"},
	})
	createTransaction(t, s, url.Values{
		"type": {"expense"}, "category": {"Rent"}, "amount": {"400.00"}, "date": {"2024-01-06"},
	})

	rec := doRequest(s, http.MethodGet, "/api/transactions?type=expense", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("transactions = %d", rec.Code)
	}
	var txs []transactionJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &txs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(txs) != 1 || txs[0].Category != "Rent" {
		t.Errorf("filtered txs = %+v", txs)
	}

	rec = doRequest(s, http.MethodGet, "/api/transactions?start_date=bogus", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad filter = %d, want 400", rec.Code)
	}
}

func TestAPICategories(t *testing.T) {
	s := newTestServer(t)

	createTransaction(t, s, url.Values{
		"type": {"expense"}, "category": {"Rent"}, "amount": {"400.00"},
	})
	createTransaction(t, s, url.Values{
		"type": {"expense"}, "category": {"Groceries"}, "amount": {"60.00"},
	})

	rec := doRequest(s, http.MethodGet, "/api/categories", nil)
	var cats []string
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cats) != 2 || cats[0] != "Groceries" || cats[1] != "Rent" {
		t.Errorf("categories = %v, want sorted [Groceries Rent]", cats)
	}
}

func TestChartEndpoints(t *testing.T) {
	s := newTestServer(t)

	createTransaction(t, s, url.Values{
		"type": {"income"}, "category": {"Salary"}, "amount": {"1000.00"}, "date": {"2024-01-05"},
	})
	createTransaction(t, s, url.Values{
		"type": {"expense"}, "category": {"Rent"}, "amount": {"400.00"}, "date": {"2024-01-06"},
	})

	rec := doRequest(s, http.MethodGet, "/api/charts/pie", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("pie = %d", rec.Code)
	}
	var pie struct {
		Labels []string  `json:"labels"`
		Values []float64 `json:"values"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &pie); err != nil {
		t.Fatalf("decode pie: %v", err)
	}
	if len(pie.Labels) != 1 || pie.Labels[0] != "Rent" || pie.Values[0] != 400.00 {
		t.Errorf("pie = %+v", pie)
	}

	rec = doRequest(s, http.MethodGet, "/api/charts/bar", nil)
	var bar struct {
		Labels  []string  `json:"labels"`
		Income  []float64 `json:"income"`
		Expense []float64 `json:"expense"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &bar); err != nil {
		t.Fatalf("decode bar: %v", err)
	}
	if len(bar.Labels) != 1 || bar.Labels[0] != "2024-01" {
		t.Errorf("bar labels = %v", bar.Labels)
	}
	if bar.Income[0] != 1000.00 || bar.Expense[0] != 400.00 {
		t.Errorf("bar = %+v", bar)
	}

	rec = doRequest(s, http.MethodGet, "/api/charts/line", nil)
	var line struct {
		Labels  []string  `json:"labels"`
		Balance []float64 `json:"balance"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &line); err != nil {
		t.Fatalf("decode line: %v", err)
	}
	if len(line.Balance) != 2 || line.Balance[1] != 600.00 {
		t.Errorf("line = %+v", line)
	}
}

func TestSummaryCacheInvalidatedOnWrite(t *testing.T) {
	s := newTestServer(t)

	createTransaction(t, s, url.Values{
		"type": {"income"}, "category": {"Salary"}, "amount": {"100.00"},
	})

	rec := doRequest(s, http.MethodGet, "/api/summary", nil)
	var before summaryJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &before); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if before.Count != 1 {
		t.Fatalf("count = %d, want 1", before.Count)
	}

	createTransaction(t, s, url.Values{
		"type": {"expense"}, "category": {"Misc"}, "amount": {"10.00"},
	})

	rec = doRequest(s, http.MethodGet, "/api/summary", nil)
	var after summaryJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if after.Count != 2 {
		t.Errorf("count after write = %d, want 2 (stale cache served)", after.Count)
	}
}

func TestRecurringRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/recurring", url.Values{
		"type":       {"expense"},
		"category":   {"Rent"},
		"amount":     {"900.00"},
		"every":      {"monthly"},
		"start_date": {"2024-01-01"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create recurring = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(s, http.MethodGet, "/recurring", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list recurring = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Rent") {
		t.Errorf("recurring page missing template row")
	}

	rec = doRequest(s, http.MethodPost, "/recurring/delete", url.Values{"id": {"1"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("delete recurring = %d", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/recurring", nil)
	if strings.Contains(rec.Body.String(), "Rent") {
		t.Errorf("deleted template still listed")
	}
}

func TestRecurringDisabledWithoutStore(t *testing.T) {
	dir := t.TempDir()
	ledger, err := store.OpenCSV(filepath.Join(dir, "transactions.csv"))
	if err != nil {
		t.Fatalf("OpenCSV: %v", err)
	}
	svc := services.NewTransactionService(ledger, nil)
	s, err := NewServer(":0", svc, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Shutdown(context.Background())
		_ = ledger.Close()
	})

	if rec := doRequest(s, http.MethodGet, "/recurring", nil); rec.Code != http.StatusNotFound {
		t.Errorf("recurring without store = %d, want 404", rec.Code)
	}
}

func TestSuspiciousPathRejected(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/transactions?category=../../etc/passwd", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("traversal request = %d, want 404", rec.Code)
	}
}
