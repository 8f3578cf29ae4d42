// Command sync-worker mirrors the flat-file ledger into SQLite. It reacts to
// transaction events from AMQP when a broker is configured and reconciles on
// a fixed interval regardless.
package main

import (
	"context"
	"errors"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/cli"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/log"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/services"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/store"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting sync worker", "interval", cfg.SyncInterval)

	ledger, err := store.OpenCSV(cfg.CSVPath)
	if err != nil {
		cli.Fatal(logger, "Failed to open ledger", err)
	}
	defer ledger.Close()

	mirror, err := store.OpenSQLite(cfg.SQLiteDBPath)
	if err != nil {
		cli.Fatal(logger, "Failed to open mirror database", err)
	}
	defer mirror.Close()

	amqpClient := cli.ConnectAMQP(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
	} else {
		logger.Info("No AMQP broker configured, running on interval only")
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	processor := services.NewSyncProcessor(ledger, mirror)
	w := worker.NewSyncWorker(processor, amqpClient, cfg.SyncInterval)

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cli.Fatal(logger, "Sync worker failed", err)
	}
	logger.Info("Sync worker stopped gracefully")
}
