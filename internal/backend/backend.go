// Package backend selects and constructs the transaction store named by
// configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/config"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/log"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/store"
)

// Type names a store implementation.
type Type string

const (
	CSVBackend    Type = "csv"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid reports whether the type names a known backend.
func (t Type) IsValid() bool {
	switch t {
	case CSVBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types.
func Types() []Type {
	return []Type{CSVBackend, SQLiteBackend}
}

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Result holds the constructed store and its cleanup function, which may be
// nil.
type Result struct {
	Store   store.Store
	Cleanup CleanupFunc
}

// Factory creates stores from configuration.
type Factory struct {
	logger *log.Logger
}

// NewFactory creates a backend factory.
func NewFactory(logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Factory{logger: logger.WithComponent(log.ComponentBackend)}
}

// Create builds the store named by cfg.DataBackend.
func (f *Factory) Create(ctx context.Context, cfg *config.Config) (*Result, error) {
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch t {
	case CSVBackend:
		return f.createCSV(cfg)
	case SQLiteBackend:
		return f.createSQLite(cfg)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", t)
	}
}

func (f *Factory) createCSV(cfg *config.Config) (*Result, error) {
	s, err := store.OpenCSV(cfg.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("initialize csv store: %w", err)
	}

	f.logger.Info("Initialized CSV backend", "path", cfg.CSVPath)

	return &Result{Store: s, Cleanup: s.Close}, nil
}

func (f *Factory) createSQLite(cfg *config.Config) (*Result, error) {
	s, err := store.OpenSQLite(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)

	return &Result{Store: s, Cleanup: s.Close}, nil
}
