package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/core"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/log"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/services"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/store"
)

// filterFlags binds the shared list/report filter options to a command.
type filterFlags struct {
	start    string
	end      string
	typ      string
	category string
	sortDesc bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&f.end, "end", "", "end date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVarP(&f.typ, "type", "t", "", "transaction type (income or expense)")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category label")
	cmd.Flags().BoolVar(&f.sortDesc, "sort-desc", false, "sort newest first")
}

func (f *filterFlags) build() (store.Filter, error) {
	var out store.Filter
	var err error

	if f.start != "" {
		if out.Start, err = core.ParseDate(f.start); err != nil {
			return out, fmt.Errorf("invalid --start: %w", err)
		}
	}
	if f.end != "" {
		if out.End, err = core.ParseDate(f.end); err != nil {
			return out, fmt.Errorf("invalid --end: %w", err)
		}
	}
	if f.typ != "" {
		if out.Type, err = core.ParseTransactionType(f.typ); err != nil {
			return out, fmt.Errorf("invalid --type: %w", err)
		}
	}
	out.Category = f.category
	out.SortByDateDesc = f.sortDesc
	return out, nil
}

func newAddCmd(logger *log.Logger) *cobra.Command {
	var (
		typ         string
		category    string
		amount      string
		date        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction",
		RunE: withService(logger, func(cmd *cobra.Command, svc *services.TransactionService, _ []string) error {
			t, err := core.ParseTransactionType(typ)
			if err != nil {
				return fmt.Errorf("invalid --type: %w", err)
			}
			cents, err := core.ParseDecimalToCents(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount: %w", err)
			}
			var d core.Date
			if date != "" {
				if d, err = core.ParseDate(date); err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
			}

			created, err := svc.Add(cmd.Context(), core.Transaction{
				Date:        d,
				Type:        t,
				Category:    category,
				Amount:      core.Money{Cents: cents},
				Description: description,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s of %s in %s (id %d)\n",
				created.Type, created.Amount, created.Category, created.ID)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&typ, "type", "t", "expense", "transaction type (income or expense)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category label")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount, e.g. 12.50")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&description, "description", "", "free-form description")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newListCmd(logger *log.Logger) *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE: withService(logger, func(cmd *cobra.Command, svc *services.TransactionService, _ []string) error {
			f, err := flags.build()
			if err != nil {
				return err
			}
			txs, err := svc.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			if len(txs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No transactions match.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDate\tType\tCategory\tAmount\tDescription")
			for _, tx := range txs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					tx.ID, tx.Date, tx.Type, tx.Category, tx.Amount, tx.Description)
			}
			return w.Flush()
		}),
	}

	flags.register(cmd)
	return cmd
}

func newDeleteCmd(logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction by id",
		Args:  cobra.ExactArgs(1),
		RunE: withService(logger, func(cmd *cobra.Command, svc *services.TransactionService, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", args[0])
			}
			removed, err := svc.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no transaction with id %d", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %d\n", id)
			return nil
		}),
	}
}

func newBalanceCmd(logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show income minus expenses",
		RunE: withService(logger, func(cmd *cobra.Command, svc *services.TransactionService, _ []string) error {
			bal, err := svc.Balance(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), bal)
			return nil
		}),
	}
}

func newSummaryCmd(logger *log.Logger) *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals over the filtered set",
		RunE: withService(logger, func(cmd *cobra.Command, svc *services.TransactionService, _ []string) error {
			f, err := flags.build()
			if err != nil {
				return err
			}
			sum, err := svc.Summary(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"Income:  %s\nExpense: %s\nBalance: %s\nCount:   %d\n",
				sum.TotalIncome, sum.TotalExpense, sum.Balance, sum.Count)
			return nil
		}),
	}

	flags.register(cmd)
	return cmd
}

func newReportCmd(logger *log.Logger) *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the full analytics report",
		RunE: withService(logger, func(cmd *cobra.Command, svc *services.TransactionService, _ []string) error {
			f, err := flags.build()
			if err != nil {
				return err
			}
			rep, err := svc.Report(cmd.Context(), f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !rep.StartDate.IsZero() {
				fmt.Fprintf(out, "Period:  %s to %s\n", rep.StartDate, rep.EndDate)
			}
			fmt.Fprintf(out, "Income:  %s (%d transactions, avg %s)\n",
				rep.Income.Total, rep.Income.Count, rep.Income.Average)
			fmt.Fprintf(out, "Expense: %s (%d transactions, avg %s)\n",
				rep.Expense.Total, rep.Expense.Count, rep.Expense.Average)
			fmt.Fprintf(out, "Balance: %s\n", rep.Summary.Balance)

			if len(rep.ExpenseByCategory) > 0 {
				fmt.Fprintln(out, "\nTop expense categories:")
				w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
				for _, ct := range rep.ExpenseByCategory {
					fmt.Fprintf(w, "  %s\t%s\n", ct.Category, ct.Total)
				}
				w.Flush()
			}

			if len(rep.Monthly) > 0 {
				fmt.Fprintln(out, "\nMonthly:")
				w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
				fmt.Fprintln(w, "  Month\tIncome\tExpense")
				for _, b := range rep.Monthly {
					fmt.Fprintf(w, "  %s\t%s\t%s\n", b.Month, b.Income, b.Expense)
				}
				w.Flush()
			}

			if len(rep.Trend) > 0 {
				fmt.Fprintln(out, "\nBalance trend:")
				w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
				fmt.Fprintln(w, "  Date\tNet\tBalance")
				for _, p := range rep.Trend {
					fmt.Fprintf(w, "  %s\t%s\t%s\n", p.Date, p.Net, p.Cumulative)
				}
				w.Flush()
			}
			return nil
		}),
	}

	flags.register(cmd)
	return cmd
}
