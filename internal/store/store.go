// Package store provides durable CRUD over the transaction set.
//
// Two backends implement the same interface: a flat CSV ledger (the canonical
// on-disk format) and a SQLite database. The CSV backend re-reads the file on
// every operation so the file stays the single source of truth; mutations
// rewrite the whole file through a temp-then-rename step.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/core"
)

// ErrCorruptRow is returned when the backing file contains a row that cannot
// be decoded (wrong column count, bad amount, bad date). Loading is fail-fast:
// one bad row fails the whole operation rather than silently dropping data.
var ErrCorruptRow = errors.New("corrupt transaction row")

// Filter narrows a List call. Zero values mean "no restriction".
type Filter struct {
	Start    core.Date // inclusive
	End      core.Date // inclusive
	Type     core.TransactionType
	Category string // case-insensitive exact match

	// SortByDateDesc orders results newest-first instead of file order.
	SortByDateDesc bool
}

// Match reports whether a transaction passes the filter.
func (f Filter) Match(tx core.Transaction) bool {
	if !f.Start.IsZero() && tx.Date.Before(f.Start.Time) {
		return false
	}
	if !f.End.IsZero() && tx.Date.After(f.End.Time) {
		return false
	}
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.Category != "" && !strings.EqualFold(f.Category, tx.Category) {
		return false
	}
	return true
}

// Store is the durable transaction set.
type Store interface {
	// Add validates the transaction, assigns the next ID (max existing + 1,
	// or 1 when empty) and persists it. The stored record is returned.
	Add(ctx context.Context, tx core.Transaction) (core.Transaction, error)

	// List reloads the full set and returns the transactions passing the
	// filter, in insertion order unless the filter requests sorting.
	List(ctx context.Context, f Filter) ([]core.Transaction, error)

	// Delete removes the transaction with the given ID and reports whether
	// anything was removed. A missing ID is not an error.
	Delete(ctx context.Context, id int64) (bool, error)

	// Balance returns total income minus total expense over the full set.
	Balance(ctx context.Context) (core.Money, error)

	Close() error
}

// Mirror is implemented by backends that can be bulk-replaced from another
// store, used by the sync worker to keep a SQLite copy of the CSV ledger.
type Mirror interface {
	ReplaceAll(ctx context.Context, txs []core.Transaction) error
}
