package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/core"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/services"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/store"
)

func TestSyncWorkerRunsInitialSync(t *testing.T) {
	dir := t.TempDir()
	ledger, err := store.OpenCSV(filepath.Join(dir, "transactions.csv"))
	if err != nil {
		t.Fatal(err)
	}
	mirror, err := store.OpenSQLite(filepath.Join(dir, "tracker.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer mirror.Close()

	ctx := context.Background()
	if _, err := ledger.Add(ctx, core.Transaction{
		Date: core.NewDate(2024, 1, 1), Type: core.Income, Category: "Salary", Amount: core.Money{Cents: 100},
	}); err != nil {
		t.Fatal(err)
	}

	w := NewSyncWorker(services.NewSyncProcessor(ledger, mirror), nil, time.Hour)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- w.Run(runCtx) }()

	// The initial sync happens before the ticker loop; poll the mirror until
	// it shows up.
	deadline := time.After(5 * time.Second)
	for {
		txs, err := mirror.List(ctx, store.Filter{})
		if err != nil {
			t.Fatal(err)
		}
		if len(txs) == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("mirror never received the initial sync")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("run returned %v, want context.Canceled", err)
	}
}
