package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/services"
)

// RecurringWorker periodically materializes due recurring templates.
type RecurringWorker struct {
	processor *services.RecurringProcessor
	interval  time.Duration
}

func NewRecurringWorker(processor *services.RecurringProcessor, interval time.Duration) *RecurringWorker {
	return &RecurringWorker{
		processor: processor,
		interval:  interval,
	}
}

// Run processes templates immediately, then on every tick until ctx is done.
func (w *RecurringWorker) Run(ctx context.Context) error {
	w.process(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Recurring worker stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			w.process(ctx)
		}
	}
}

func (w *RecurringWorker) process(ctx context.Context) {
	n, err := w.processor.ProcessDue(ctx, time.Now())
	if err != nil {
		slog.ErrorContext(ctx, "Recurring processing failed", "error", err)
		return
	}
	if n > 0 {
		slog.InfoContext(ctx, "Recurring processing created transactions", "count", n)
	}
}
