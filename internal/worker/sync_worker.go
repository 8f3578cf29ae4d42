// Package worker runs the background loops: event-driven mirror sync and
// periodic reconciliation.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/amqp"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/services"
)

// SyncWorker keeps the SQLite mirror in step with the CSV ledger. It reacts
// to transaction events from AMQP and additionally runs a periodic full sync,
// so the mirror converges even when events are lost or the broker is down for
// a while.
type SyncWorker struct {
	processor  *services.SyncProcessor
	amqpClient *amqp.Client
	interval   time.Duration
}

func NewSyncWorker(processor *services.SyncProcessor, amqpClient *amqp.Client, interval time.Duration) *SyncWorker {
	return &SyncWorker{
		processor:  processor,
		amqpClient: amqpClient,
		interval:   interval,
	}
}

// Run blocks until ctx is done. The event consumer and the periodic ticker
// run concurrently; either one triggers a full ledger sync.
func (w *SyncWorker) Run(ctx context.Context) error {
	// Start from a known-good state before consuming events.
	if err := w.processor.Sync(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial sync failed", "error", err)
	}

	if w.amqpClient != nil {
		go w.consumeEvents(ctx)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Sync worker stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.processor.Sync(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
			}
		}
	}
}

func (w *SyncWorker) consumeEvents(ctx context.Context) {
	err := w.amqpClient.ConsumeTransactionEvents(ctx, func(msg *amqp.TransactionEventMessage) error {
		return w.processor.HandleEvent(ctx, msg)
	})
	if err != nil && ctx.Err() == nil {
		slog.ErrorContext(ctx, "Event consumer stopped", "error", err)
	}
}
