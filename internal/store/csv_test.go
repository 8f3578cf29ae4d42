package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/core"
)

func newTestStore(t *testing.T) *CSVStore {
	t.Helper()
	s, err := OpenCSV(filepath.Join(t.TempDir(), "transactions.csv"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func mustAdd(t *testing.T, s *CSVStore, typ core.TransactionType, category string, cents int64, desc, date string) core.Transaction {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("parse date %q: %v", date, err)
	}
	tx, err := s.Add(context.Background(), core.Transaction{
		Date:        d,
		Type:        typ,
		Category:    category,
		Amount:      core.Money{Cents: cents},
		Description: desc,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	return tx
}

func TestOpenCSVCreatesHeaderAndIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	if _, err := OpenCSV(path); err != nil {
		t.Fatalf("first open: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "id,date,type,category,amount,description" {
		t.Fatalf("header = %q", got)
	}

	// Second open must not truncate existing data.
	s, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	mustAdd(t, s, core.Income, "Salary", 200000, "", "2024-01-01")
	if _, err := OpenCSV(path); err != nil {
		t.Fatalf("reopen with data: %v", err)
	}
	txs, err := s.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("reopen lost data, count = %d", len(txs))
	}
}

func TestAddAssignsMonotonicIDs(t *testing.T) {
	s := newTestStore(t)

	var last int64
	for i := 0; i < 5; i++ {
		tx := mustAdd(t, s, core.Expense, "Groceries", 1000, "", "2024-01-15")
		if tx.ID <= last {
			t.Fatalf("id %d not greater than previous %d", tx.ID, last)
		}
		last = tx.ID
	}
	if last != 5 {
		t.Fatalf("last id = %d, want 5", last)
	}

	// IDs restart from max+1, not from the count: deleting a middle row must
	// not cause reuse.
	if ok, err := s.Delete(context.Background(), 3); err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	tx := mustAdd(t, s, core.Income, "Salary", 1000, "", "2024-01-16")
	if tx.ID != 6 {
		t.Fatalf("id after delete = %d, want 6", tx.ID)
	}
}

func TestAddValidation(t *testing.T) {
	s := newTestStore(t)

	bad := core.Transaction{
		Date:     core.NewDate(2024, 1, 1),
		Type:     "transfer",
		Category: "X",
		Amount:   core.Money{Cents: 100},
	}
	if _, err := s.Add(context.Background(), bad); !errors.Is(err, core.ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}

	bad.Type = core.Expense
	bad.Amount = core.Money{Cents: -1}
	if _, err := s.Add(context.Background(), bad); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestBalance(t *testing.T) {
	s := newTestStore(t)

	mustAdd(t, s, core.Expense, "Groceries", 15050, "Weekly shop", "2024-01-15")
	mustAdd(t, s, core.Income, "Salary", 200000, "", "2024-01-01")

	bal, err := s.Balance(context.Background())
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.Cents != 184950 {
		t.Fatalf("balance = %s, want 1849.50", bal)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	tx := mustAdd(t, s, core.Expense, "Groceries", 1000, "", "2024-01-15")
	keep := mustAdd(t, s, core.Income, "Salary", 2000, "", "2024-01-01")

	ok, err := s.Delete(context.Background(), tx.ID)
	if err != nil || !ok {
		t.Fatalf("delete existing: ok=%v err=%v", ok, err)
	}

	txs, err := s.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, got := range txs {
		if got.ID == tx.ID {
			t.Fatalf("deleted id %d still listed", tx.ID)
		}
	}
	if len(txs) != 1 || txs[0].ID != keep.ID {
		t.Fatalf("unexpected survivors: %+v", txs)
	}

	// Deleting a missing ID reports false and leaves the set unchanged.
	ok, err = s.Delete(context.Background(), 9999)
	if err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if ok {
		t.Fatal("delete missing returned true")
	}
	after, _ := s.List(context.Background(), Filter{})
	if len(after) != 1 {
		t.Fatalf("set changed by failed delete: %d rows", len(after))
	}
}

func TestListFilters(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, core.Income, "Salary", 200000, "", "2024-01-01")
	mustAdd(t, s, core.Expense, "Groceries", 15050, "Weekly shop", "2024-01-15")
	mustAdd(t, s, core.Expense, "groceries", 5000, "Top-up", "2024-02-02")
	mustAdd(t, s, core.Expense, "Transport", 3000, "", "2024-02-10")

	ctx := context.Background()

	t.Run("by type", func(t *testing.T) {
		txs, err := s.List(ctx, Filter{Type: core.Expense})
		if err != nil {
			t.Fatal(err)
		}
		if len(txs) != 3 {
			t.Fatalf("expense count = %d", len(txs))
		}
	})

	t.Run("date range inclusive", func(t *testing.T) {
		start, _ := core.ParseDate("2024-01-15")
		end, _ := core.ParseDate("2024-02-02")
		txs, err := s.List(ctx, Filter{Start: start, End: end})
		if err != nil {
			t.Fatal(err)
		}
		if len(txs) != 2 {
			t.Fatalf("range count = %d, want both boundary rows", len(txs))
		}
	})

	t.Run("category case-insensitive", func(t *testing.T) {
		txs, err := s.List(ctx, Filter{Category: "GROCERIES"})
		if err != nil {
			t.Fatal(err)
		}
		if len(txs) != 2 {
			t.Fatalf("category count = %d", len(txs))
		}
	})

	t.Run("file order by default", func(t *testing.T) {
		txs, err := s.List(ctx, Filter{})
		if err != nil {
			t.Fatal(err)
		}
		for i := 1; i < len(txs); i++ {
			if txs[i].ID < txs[i-1].ID {
				t.Fatalf("not in insertion order: %+v", txs)
			}
		}
	})

	t.Run("sorted newest first", func(t *testing.T) {
		txs, err := s.List(ctx, Filter{SortByDateDesc: true})
		if err != nil {
			t.Fatal(err)
		}
		for i := 1; i < len(txs); i++ {
			if txs[i].Date.After(txs[i-1].Date.Time) {
				t.Fatalf("not sorted desc: %+v", txs)
			}
		}
	})
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	s, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	want := []core.Transaction{
		mustAdd(t, s, core.Expense, "Groceries", 15050, "Weekly shop", "2024-01-15"),
		mustAdd(t, s, core.Income, "Salary", 200000, "", "2024-01-01"),
		mustAdd(t, s, core.Expense, "Café & Bar", 1250, "comma, in description", "2024-01-20"),
	}

	// A fresh store over the same file must observe the identical sequence.
	reopened, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLoadFailsFastOnCorruptRows(t *testing.T) {
	cases := []struct {
		name string
		rows string
	}{
		{"bad amount", "1,2024-01-01,income,Salary,not-a-number,pay"},
		{"missing column", "1,2024-01-01,income,Salary,100.00"},
		{"bad date", "1,January 1st,income,Salary,100.00,pay"},
		{"bad type", "1,2024-01-01,transfer,Salary,100.00,pay"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "transactions.csv")
			content := "id,date,type,category,amount,description\n" + tc.rows + "\n"
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
			s, err := OpenCSV(path)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			if _, err := s.List(context.Background(), Filter{}); !errors.Is(err, ErrCorruptRow) {
				t.Fatalf("expected ErrCorruptRow, got %v", err)
			}
		})
	}
}

func TestLoadRejectsWrongHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	if err := os.WriteFile(path, []byte("id,when,type,category,amount,description\n"), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.List(context.Background(), Filter{}); !errors.Is(err, ErrCorruptRow) {
		t.Fatalf("expected ErrCorruptRow, got %v", err)
	}
}

func TestDeleteKeepsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	s, err := OpenCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	tx := mustAdd(t, s, core.Income, "Salary", 1000, "", "2024-01-01")
	if ok, err := s.Delete(context.Background(), tx.ID); err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(data)); got != "id,date,type,category,amount,description" {
		t.Fatalf("file after emptying delete = %q", got)
	}
}
