package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/core"
)

func TestParseTransactionForm(t *testing.T) {
	t.Run("valid form", func(t *testing.T) {
		tx, err := ParseTransactionForm(url.Values{
			"type":        {"expense"},
			"category":    {"Groceries"},
			"amount":      {"12.50"},
			"date":        {"2024-03-15"},
			"description": {"weekly shop"},
		})
		if err != nil {
			t.Fatalf("ParseTransactionForm: %v", err)
		}
		if tx.Type != core.Expense || tx.Category != "Groceries" {
			t.Errorf("tx = %+v", tx)
		}
		if tx.Amount.Cents != 1250 {
			t.Errorf("amount = %d cents, want 1250", tx.Amount.Cents)
		}
		if tx.Date.String() != "2024-03-15" {
			t.Errorf("date = %s", tx.Date)
		}
	})

	t.Run("date optional", func(t *testing.T) {
		tx, err := ParseTransactionForm(url.Values{
			"type": {"income"}, "category": {"Salary"}, "amount": {"100"},
		})
		if err != nil {
			t.Fatalf("ParseTransactionForm: %v", err)
		}
		if !tx.Date.IsZero() {
			t.Errorf("date = %v, want zero", tx.Date)
		}
	})

	t.Run("control characters stripped", func(t *testing.T) {
		tx, err := ParseTransactionForm(url.Values{
			"type": {"expense"}, "category": {"Gro\x00ceries"}, "amount": {"5"},
		})
		if err != nil {
			t.Fatalf("ParseTransactionForm: %v", err)
		}
		if tx.Category != "Groceries" {
			t.Errorf("category = %q", tx.Category)
		}
	})

	invalid := []struct {
		name string
		form url.Values
	}{
		{"bad type", url.Values{"type": {"transfer"}, "category": {"X"}, "amount": {"5"}}},
		{"missing category", url.Values{"type": {"expense"}, "amount": {"5"}}},
		{"bad amount", url.Values{"type": {"expense"}, "category": {"X"}, "amount": {"abc"}}},
		{"bad date", url.Values{"type": {"expense"}, "category": {"X"}, "amount": {"5"}, "date": {"15/03/2024"}}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTransactionForm(tt.form); err == nil {
				t.Errorf("ParseTransactionForm accepted %v", tt.form)
			}
		})
	}
}

func TestParseFilter(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		f, err := ParseFilter(url.Values{
			"start_date": {"2024-01-01"},
			"end_date":   {"2024-06-30"},
			"type":       {"expense"},
			"category":   {"Rent"},
			"sort":       {"date_desc"},
		})
		if err != nil {
			t.Fatalf("ParseFilter: %v", err)
		}
		if f.Start.String() != "2024-01-01" || f.End.String() != "2024-06-30" {
			t.Errorf("range = %s..%s", f.Start, f.End)
		}
		if f.Type != core.Expense || f.Category != "Rent" || !f.SortByDateDesc {
			t.Errorf("filter = %+v", f)
		}
	})

	t.Run("empty query", func(t *testing.T) {
		f, err := ParseFilter(url.Values{})
		if err != nil {
			t.Fatalf("ParseFilter: %v", err)
		}
		if !f.Start.IsZero() || f.Type != "" || f.SortByDateDesc {
			t.Errorf("filter = %+v, want zero value", f)
		}
	})

	t.Run("unknown sort ignored", func(t *testing.T) {
		f, err := ParseFilter(url.Values{"sort": {"amount"}})
		if err != nil {
			t.Fatalf("ParseFilter: %v", err)
		}
		if f.SortByDateDesc {
			t.Errorf("unknown sort enabled date sorting")
		}
	})

	invalid := []url.Values{
		{"start_date": {"yesterday"}},
		{"end_date": {"2024-13-01"}},
		{"type": {"transfer"}},
	}
	for _, q := range invalid {
		if _, err := ParseFilter(q); err == nil {
			t.Errorf("ParseFilter accepted %v", q)
		}
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{" 42 ", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseID(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRequireMethod(t *testing.T) {
	get := httptest.NewRequest(http.MethodGet, "/", nil)
	post := httptest.NewRequest(http.MethodPost, "/", nil)

	if resp := RequirePOST(post); resp != nil {
		t.Errorf("RequirePOST rejected POST")
	}
	if resp := RequirePOST(get); resp == nil {
		t.Errorf("RequirePOST accepted GET")
	} else {
		rec := httptest.NewRecorder()
		resp.Write(rec)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
		if rec.Header().Get("Allow") != http.MethodPost {
			t.Errorf("Allow = %q", rec.Header().Get("Allow"))
		}
	}

	del := httptest.NewRequest(http.MethodDelete, "/", nil)
	if resp := RequireDeleteOrPOST(del); resp != nil {
		t.Errorf("RequireDeleteOrPOST rejected DELETE")
	}
	if resp := RequireDeleteOrPOST(get); resp == nil {
		t.Errorf("RequireDeleteOrPOST accepted GET")
	}
}
