// Package cli provides shared bootstrap helpers for the command binaries and
// the interactive terminal menu.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/amqp"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/backend"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/config"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/log"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/store"
)

// SetupLogger initializes structured logging for the given component and sets
// it as the process default.
func SetupLogger(component string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Component = component
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development. A missing file is
// not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and exits
// the process when validation fails.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore builds the configured transaction store, exiting on failure.
// The returned cleanup releases the store and is never nil.
func OpenStore(ctx context.Context, logger *log.Logger, cfg *config.Config) (store.Store, func()) {
	res, err := backend.NewFactory(logger).Create(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize store",
			log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	cleanup := func() {
		if res.Cleanup == nil {
			return
		}
		if err := res.Cleanup(); err != nil {
			logger.Error("Store cleanup failed", log.FieldError, err)
		}
	}
	return res.Store, cleanup
}

// OpenRecurringStore opens the recurring template store, exiting on failure.
func OpenRecurringStore(logger *log.Logger, cfg *config.Config) *store.RecurringStore {
	rs, err := store.OpenRecurring(cfg.RecurringCSVPath)
	if err != nil {
		logger.Error("Failed to open recurring store",
			log.FieldError, err, "path", cfg.RecurringCSVPath)
		os.Exit(1)
	}
	return rs
}

// ConnectAMQP connects to the configured broker. Returns nil when no AMQP URL
// is set; a connection failure is logged but not fatal, since the application
// works without events.
func ConnectAMQP(logger *log.Logger, cfg *config.Config) *amqp.Client {
	if cfg.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, continuing without events", log.FieldError, err)
		return nil
	}
	logger.Info("Connected to AMQP broker",
		"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// Fatal logs the error and exits. Used by command mains for unrecoverable
// startup failures.
func Fatal(logger *log.Logger, msg string, err error) {
	if logger != nil {
		logger.Error(msg, log.FieldError, err)
	} else {
		slog.Error(msg, log.FieldError, err)
	}
	os.Exit(1)
}
