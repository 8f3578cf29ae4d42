package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/core"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/store"
)

// RecurringProcessor materializes due recurring templates into ledger
// transactions.
type RecurringProcessor struct {
	templates *store.RecurringStore
	txs       *TransactionService
}

func NewRecurringProcessor(templates *store.RecurringStore, txs *TransactionService) *RecurringProcessor {
	return &RecurringProcessor{
		templates: templates,
		txs:       txs,
	}
}

// ProcessDue walks all templates and creates a transaction for each one that
// is active and due on the given day. Failures on individual templates are
// logged and skipped so one bad template cannot block the rest. Returns the
// number of transactions created.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.templates == nil || p.txs == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	today := core.Date{Time: now}
	all, err := p.templates.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("load recurring templates: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring templates",
		"total", len(all),
		"processing_date", today.String())

	processed := 0
	for _, rt := range all {
		if !rt.Active(today) {
			continue
		}

		checker, err := GetDuenessChecker(rt.Every)
		if err != nil {
			slog.ErrorContext(ctx, "Skipping template with unknown frequency",
				"id", rt.ID, "frequency", rt.Every.String())
			continue
		}
		if !checker.IsDue(rt.LastRun.Time, now, rt.StartDate) {
			continue
		}

		_, err = p.txs.Add(ctx, core.Transaction{
			Date:        today,
			Type:        rt.Type,
			Category:    rt.Category,
			Amount:      rt.Amount,
			Description: rt.Description,
		})
		if err != nil {
			slog.ErrorContext(ctx, "Failed to create transaction from template",
				"template_id", rt.ID,
				"category", rt.Category,
				"error", err)
			continue
		}

		if err := p.templates.MarkRun(ctx, rt.ID, today); err != nil {
			// The transaction was created; the template will fire again next
			// tick, which over-counts rather than losing data.
			slog.ErrorContext(ctx, "Failed to record template run",
				"template_id", rt.ID,
				"error", err)
		}

		processed++
		slog.InfoContext(ctx, "Created transaction from recurring template",
			"template_id", rt.ID,
			"category", rt.Category,
			"amount_cents", rt.Amount.Cents,
			"frequency", rt.Every.String())
	}

	slog.InfoContext(ctx, "Recurring template processing complete",
		"processed", processed,
		"total_checked", len(all))

	return processed, nil
}
