// Command tracker runs the web server: the HTML UI, the JSON API, and
// optional transaction event publishing.
package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/cli"
	apphttp "github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/http"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/log"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentHTTP)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext()
	defer stop()

	ledger, cleanup := cli.OpenStore(ctx, logger, cfg)
	defer cleanup()

	recurring := cli.OpenRecurringStore(logger, cfg)
	defer recurring.Close()

	amqpClient := cli.ConnectAMQP(logger, cfg)

	svc := services.NewTransactionService(ledger, amqpClient)
	defer svc.Close()

	srv, err := apphttp.NewServer(":"+cfg.Port, svc, recurring)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize server", err)
	}
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting tracker server",
			"port", cfg.Port, log.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		cli.Fatal(logger, "Server error", err)
	}
	logger.Info("Server stopped gracefully")
}
