package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/amqp"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/store"
)

// SyncProcessor reconciles the ledger into a mirror backend. The mirror is
// replaced wholesale on every sync, which matches the ledger's
// rewrite-everything semantics and makes the operation idempotent: replaying
// an event or running an extra periodic sync is harmless.
type SyncProcessor struct {
	ledger store.Store
	mirror store.Mirror
}

func NewSyncProcessor(ledger store.Store, mirror store.Mirror) *SyncProcessor {
	return &SyncProcessor{
		ledger: ledger,
		mirror: mirror,
	}
}

// Sync copies the full ledger into the mirror.
func (p *SyncProcessor) Sync(ctx context.Context) error {
	if p.ledger == nil || p.mirror == nil {
		return fmt.Errorf("sync processor not properly initialized")
	}

	txs, err := p.ledger.List(ctx, store.Filter{})
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	if err := p.mirror.ReplaceAll(ctx, txs); err != nil {
		return fmt.Errorf("replace mirror: %w", err)
	}

	slog.InfoContext(ctx, "Ledger synced to mirror", "count", len(txs))
	return nil
}

// HandleEvent processes one transaction change event. The message only tells
// us that something changed, so the handler runs a full sync.
func (p *SyncProcessor) HandleEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	slog.InfoContext(ctx, "Handling transaction event",
		"id", msg.ID,
		"action", msg.Action)
	return p.Sync(ctx)
}
