package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/analytics"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/core"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/services"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/store"
)

// Menu drives the interactive terminal session over a transaction service.
// Input and output are injected so the loop is testable.
type Menu struct {
	svc *services.TransactionService
	in  *bufio.Scanner
	out io.Writer
}

// NewMenu creates an interactive menu reading from in and writing to out.
func NewMenu(svc *services.TransactionService, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		svc: svc,
		in:  bufio.NewScanner(in),
		out: out,
	}
}

const menuText = `
Personal Finance Tracker
  1) Add income
  2) Add expense
  3) View transactions
  4) View balance
  5) View summary
  6) Spending by category
  7) Monthly report
  8) Balance trend
  9) Delete transaction
  0) Exit
`

// Run loops until the user exits or input ends. It returns the first error
// from reading input; store errors are printed and the loop continues.
func (m *Menu) Run(ctx context.Context) error {
	for {
		fmt.Fprint(m.out, menuText)
		choice, ok := m.prompt("Choice: ")
		if !ok {
			return m.in.Err()
		}

		switch choice {
		case "1":
			m.addTransaction(ctx, core.Income)
		case "2":
			m.addTransaction(ctx, core.Expense)
		case "3":
			m.listTransactions(ctx)
		case "4":
			m.showBalance(ctx)
		case "5":
			m.showSummary(ctx)
		case "6":
			m.showByCategory(ctx)
		case "7":
			m.showMonthly(ctx)
		case "8":
			m.showTrend(ctx)
		case "9":
			m.deleteTransaction(ctx)
		case "0", "q", "exit":
			fmt.Fprintln(m.out, "Bye.")
			return nil
		default:
			fmt.Fprintf(m.out, "Unknown choice %q.\n", choice)
		}
	}
}

func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) fail(err error) {
	fmt.Fprintf(m.out, "Error: %v\n", err)
}

func (m *Menu) addTransaction(ctx context.Context, typ core.TransactionType) {
	category, ok := m.prompt("Category: ")
	if !ok {
		return
	}
	amountStr, ok := m.prompt("Amount: ")
	if !ok {
		return
	}
	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		m.fail(err)
		return
	}
	dateStr, ok := m.prompt("Date (YYYY-MM-DD, empty for today): ")
	if !ok {
		return
	}
	var date core.Date
	if dateStr != "" {
		if date, err = core.ParseDate(dateStr); err != nil {
			m.fail(err)
			return
		}
	}
	description, ok := m.prompt("Description (optional): ")
	if !ok {
		return
	}

	created, err := m.svc.Add(ctx, core.Transaction{
		Date:        date,
		Type:        typ,
		Category:    category,
		Amount:      core.Money{Cents: cents},
		Description: description,
	})
	if err != nil {
		m.fail(err)
		return
	}
	fmt.Fprintf(m.out, "Saved %s of %s in %s (id %d).\n",
		created.Type, created.Amount, created.Category, created.ID)
}

func (m *Menu) listTransactions(ctx context.Context) {
	txs, err := m.svc.List(ctx, store.Filter{SortByDateDesc: true})
	if err != nil {
		m.fail(err)
		return
	}
	if len(txs) == 0 {
		fmt.Fprintln(m.out, "No transactions yet.")
		return
	}

	w := tabwriter.NewWriter(m.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDate\tType\tCategory\tAmount\tDescription")
	for _, tx := range txs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Date, tx.Type, tx.Category, tx.Amount, tx.Description)
	}
	w.Flush()
}

func (m *Menu) showBalance(ctx context.Context) {
	bal, err := m.svc.Balance(ctx)
	if err != nil {
		m.fail(err)
		return
	}
	fmt.Fprintf(m.out, "Balance: %s\n", bal)
}

func (m *Menu) showSummary(ctx context.Context) {
	sum, err := m.svc.Summary(ctx, store.Filter{})
	if err != nil {
		m.fail(err)
		return
	}
	fmt.Fprintf(m.out, "Income:  %s\nExpense: %s\nBalance: %s\nCount:   %d\n",
		sum.TotalIncome, sum.TotalExpense, sum.Balance, sum.Count)
}

func (m *Menu) showByCategory(ctx context.Context) {
	txs, err := m.svc.List(ctx, store.Filter{})
	if err != nil {
		m.fail(err)
		return
	}
	totals := analytics.TopCategories(txs, core.Expense, 0)
	if len(totals) == 0 {
		fmt.Fprintln(m.out, "No expenses recorded.")
		return
	}
	w := tabwriter.NewWriter(m.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Category\tTotal")
	for _, ct := range totals {
		fmt.Fprintf(w, "%s\t%s\n", ct.Category, ct.Total)
	}
	w.Flush()
}

func (m *Menu) showMonthly(ctx context.Context) {
	txs, err := m.svc.List(ctx, store.Filter{})
	if err != nil {
		m.fail(err)
		return
	}
	buckets := analytics.Monthly(txs)
	if len(buckets) == 0 {
		fmt.Fprintln(m.out, "No data.")
		return
	}
	w := tabwriter.NewWriter(m.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Month\tIncome\tExpense")
	for _, b := range buckets {
		fmt.Fprintf(w, "%s\t%s\t%s\n", b.Month, b.Income, b.Expense)
	}
	w.Flush()
}

func (m *Menu) showTrend(ctx context.Context) {
	txs, err := m.svc.List(ctx, store.Filter{})
	if err != nil {
		m.fail(err)
		return
	}
	points := analytics.Trend(txs)
	if len(points) == 0 {
		fmt.Fprintln(m.out, "No data.")
		return
	}
	w := tabwriter.NewWriter(m.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Date\tNet\tBalance")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Date, p.Net, p.Cumulative)
	}
	w.Flush()
}

func (m *Menu) deleteTransaction(ctx context.Context) {
	idStr, ok := m.prompt("Transaction id: ")
	if !ok {
		return
	}
	var id int64
	if _, err := fmt.Sscanf(idStr, "%d", &id); err != nil || id <= 0 {
		fmt.Fprintln(m.out, "Invalid id.")
		return
	}
	removed, err := m.svc.Delete(ctx, id)
	if err != nil {
		m.fail(err)
		return
	}
	if !removed {
		fmt.Fprintf(m.out, "No transaction with id %d.\n", id)
		return
	}
	fmt.Fprintf(m.out, "Deleted transaction %d.\n", id)
}
