package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"itemdash/internal/amqp"
	"itemdash/internal/config"
	"itemdash/internal/feed/memory"
	applog "itemdash/internal/log"
	"itemdash/internal/storage"
	"itemdash/internal/worker"
)

// The worker mirrors purchase events from the broker into SQLite, keeping a
// local queryable copy of the feed regardless of which backend the server
// writes to.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New("itemdash-worker", applog.LevelFromEnv())
	applog.SetDefault(logger)

	logger.Info("Starting itemdash-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Seed the mirror from local files on first run; Seed is a no-op once
	// the catalog is populated.
	seedStore := memory.NewFromFiles(cfg.SeedDataDir)
	if items, err := seedStore.ListItems(ctx); err == nil && len(items) > 0 {
		histories, _ := seedStore.ListHistories(ctx)
		if err := repo.Seed(ctx, items, histories); err != nil {
			logger.Error("Failed to seed mirror", "error", err)
		}
	}

	w := worker.NewIngestWorker(repo, repo)
	if err := w.StartupCatalogCheck(ctx); err != nil {
		logger.Error("Startup catalog check failed", "error", err)
		// Don't exit - continue with normal operation
	}

	logger.Info("Consuming purchase events",
		"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	err = amqp.ConsumeWithReconnect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue,
		func(msg *amqp.PurchaseRecordedMessage) error {
			return w.HandlePurchaseRecorded(ctx, msg)
		})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
