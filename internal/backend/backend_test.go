package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/config"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/store"
)

func TestTypeIsValid(t *testing.T) {
	for _, valid := range Types() {
		if !valid.IsValid() {
			t.Errorf("%s reported invalid", valid)
		}
	}
	for _, invalid := range []Type{"", "memory", "sheets", "CSV"} {
		if invalid.IsValid() {
			t.Errorf("%q reported valid", invalid)
		}
	}
}

func TestCreateCSVBackend(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		DataBackend: "csv",
		CSVPath:     filepath.Join(dir, "transactions.csv"),
	}

	res, err := NewFactory(nil).Create(context.Background(), cfg)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer res.Cleanup()

	if _, ok := res.Store.(*store.CSVStore); !ok {
		t.Fatalf("store type = %T, want *store.CSVStore", res.Store)
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: filepath.Join(dir, "tracker.db"),
	}

	res, err := NewFactory(nil).Create(context.Background(), cfg)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer res.Cleanup()

	if _, ok := res.Store.(*store.SQLiteStore); !ok {
		t.Fatalf("store type = %T, want *store.SQLiteStore", res.Store)
	}
}

func TestCreateRejectsUnknownBackend(t *testing.T) {
	_, err := NewFactory(nil).Create(context.Background(), &config.Config{DataBackend: "sheets"})
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
