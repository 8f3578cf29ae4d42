// Command recurring-worker materializes due recurring templates into real
// transactions on a fixed interval.
package main

import (
	"context"
	"errors"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/cli"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/log"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/services"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentRecurring)
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting recurring worker", "interval", cfg.RecurringInterval)

	ctx, stop := cli.SignalContext()
	defer stop()

	ledger, cleanup := cli.OpenStore(ctx, logger, cfg)
	defer cleanup()

	templates := cli.OpenRecurringStore(logger, cfg)
	defer templates.Close()

	amqpClient := cli.ConnectAMQP(logger, cfg)

	svc := services.NewTransactionService(ledger, amqpClient)
	defer svc.Close()

	processor := services.NewRecurringProcessor(templates, svc)
	w := worker.NewRecurringWorker(processor, cfg.RecurringInterval)

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cli.Fatal(logger, "Recurring worker failed", err)
	}
	logger.Info("Recurring worker stopped gracefully")
}
