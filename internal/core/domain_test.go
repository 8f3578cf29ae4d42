package core

import "testing"

func TestParseTransactionType(t *testing.T) {
	cases := []struct {
		in   string
		want TransactionType
		ok   bool
	}{
		{"income", Income, true},
		{"expense", Expense, true},
		{"INCOME", Income, true},
		{" Expense ", Expense, true},
		{"transfer", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseTransactionType(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.want, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.String() != "2024-01-15" {
		t.Fatalf("string = %q", d.String())
	}
	if d.YearMonth() != "2024-01" {
		t.Fatalf("year month = %q", d.YearMonth())
	}

	for _, bad := range []string{"", "15/01/2024", "2024-13-01", "2024-01-32", "yesterday"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("%q expected error", bad)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Date:        NewDate(2024, 1, 15),
		Type:        Expense,
		Category:    "Groceries",
		Amount:      Money{Cents: 15050},
		Description: "Weekly shop",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
	}{
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }},
		{"empty category", func(tx *Transaction) { tx.Category = "  " }},
		{"negative amount", func(tx *Transaction) { tx.Amount = Money{Cents: -1} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := valid
			tc.mutate(&tx)
			if err := tx.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestTransactionSigned(t *testing.T) {
	in := Transaction{Type: Income, Amount: Money{Cents: 200000}}
	out := Transaction{Type: Expense, Amount: Money{Cents: 15050}}
	if in.Signed() != 200000 {
		t.Fatalf("income signed = %d", in.Signed())
	}
	if out.Signed() != -15050 {
		t.Fatalf("expense signed = %d", out.Signed())
	}
}

func TestRecurringTransactionValidate(t *testing.T) {
	valid := RecurringTransaction{
		StartDate:   NewDate(2024, 1, 1),
		Every:       Monthly,
		Type:        Expense,
		Category:    "Rent",
		Amount:      Money{Cents: 80000},
		Description: "Monthly rent",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid template rejected: %v", err)
	}

	bad := valid
	bad.EndDate = NewDate(2023, 12, 31)
	if err := bad.Validate(); err == nil {
		t.Fatal("end date before start date should fail")
	}

	bad = valid
	bad.Every = "fortnightly"
	if err := bad.Validate(); err == nil {
		t.Fatal("unknown frequency should fail")
	}
}

func TestRecurringTransactionActive(t *testing.T) {
	rt := RecurringTransaction{
		StartDate: NewDate(2024, 2, 1),
		EndDate:   NewDate(2024, 6, 30),
	}
	if rt.Active(NewDate(2024, 1, 31)) {
		t.Fatal("active before start")
	}
	if !rt.Active(NewDate(2024, 2, 1)) {
		t.Fatal("inactive on start date")
	}
	if !rt.Active(NewDate(2024, 6, 30)) {
		t.Fatal("inactive on end date")
	}
	if rt.Active(NewDate(2024, 7, 1)) {
		t.Fatal("active after end")
	}
}
