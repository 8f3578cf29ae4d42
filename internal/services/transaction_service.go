// Package services provides business logic and orchestration over the store.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/amqp"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/analytics"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/core"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/store"
)

// TransactionService orchestrates transaction writes and reads. Writes go to
// the store first; when an AMQP client is configured a change event is
// published afterwards, and publish failures never fail the request.
//
// The store's lifetime is owned by the backend factory; Close here only
// releases the AMQP connection.
type TransactionService struct {
	store      store.Store
	amqpClient *amqp.Client
}

func NewTransactionService(s store.Store, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		store:      s,
		amqpClient: amqpClient,
	}
}

// Add persists a transaction, defaulting the date to today when unset, and
// publishes a created event.
func (s *TransactionService) Add(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if tx.Date.IsZero() {
		tx.Date = core.Today()
	}

	created, err := s.store.Add(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publishEvent(ctx, created.ID, amqp.ActionCreated)

	return created, nil
}

// Delete removes a transaction by ID, reporting whether anything was removed.
// A deleted event is published only when a row was actually removed.
func (s *TransactionService) Delete(ctx context.Context, id int64) (bool, error) {
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	if removed {
		s.publishEvent(ctx, id, amqp.ActionDeleted)
	}
	return removed, nil
}

// List returns the transactions passing the filter.
func (s *TransactionService) List(ctx context.Context, f store.Filter) ([]core.Transaction, error) {
	return s.store.List(ctx, f)
}

// Balance returns income minus expense over the full set.
func (s *TransactionService) Balance(ctx context.Context) (core.Money, error) {
	return s.store.Balance(ctx)
}

// Summary computes the headline totals over the filtered set.
func (s *TransactionService) Summary(ctx context.Context, f store.Filter) (analytics.Summary, error) {
	txs, err := s.store.List(ctx, f)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Summarize(txs), nil
}

// Report builds the full analytics report over the filtered set.
func (s *TransactionService) Report(ctx context.Context, f store.Filter) (analytics.Report, error) {
	txs, err := s.store.List(ctx, f)
	if err != nil {
		return analytics.Report{}, err
	}
	return analytics.BuildReport(txs), nil
}

// Categories returns the distinct category labels in use.
func (s *TransactionService) Categories(ctx context.Context) ([]string, error) {
	txs, err := s.store.List(ctx, store.Filter{})
	if err != nil {
		return nil, err
	}
	return analytics.Categories(txs), nil
}

func (s *TransactionService) publishEvent(ctx context.Context, id int64, action string) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishTransactionEvent(ctx, id, action); err != nil {
		// The write already succeeded; the sync worker reconciles periodically
		// even without the event.
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", id, "action", action, "error", err)
	}
}

// Close releases the AMQP connection if one is configured.
func (s *TransactionService) Close() error {
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			return fmt.Errorf("close amqp client: %w", err)
		}
	}
	return nil
}
