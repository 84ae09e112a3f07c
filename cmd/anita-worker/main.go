package main

import (
	"context"
	"time"

	"anita/internal/amqp"
	"anita/internal/cli"
	"anita/internal/dataset"
	gsheet "anita/internal/dataset/google"
	"anita/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting anita-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	// The worker always reads and snapshots from SQLite; the in-memory
	// backend has nothing durable to snapshot.
	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Google Sheets mirror is optional.
	var mirror dataset.DashboardMirror
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			// Keep snapshotting locally, just without the mirror.
		} else {
			mirror = client
			logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		}
	} else {
		logger.Info("Google Sheets mirror disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		// Without the broker the periodic refresh still keeps the
		// current month's snapshot fresh.
		amqpClient = nil
	} else {
		defer amqpClient.Close()
	}

	processor := services.NewSummaryProcessor(repo, mirror)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// On startup, make sure the current month's snapshot exists before
	// any message arrives.
	if err := processor.RefreshCurrentMonth(ctx); err != nil {
		logger.Error("Startup snapshot refresh failed", "error", err)
		// Don't exit - continue with normal operation
	}

	if amqpClient != nil {
		go func() {
			if err := amqpClient.ConsumeRefreshMessages(ctx, processor.HandleRefreshMessage); err != nil {
				if err != context.Canceled {
					logger.Error("Message consumption failed", "error", err)
				}
			}
		}()
	} else {
		logger.Info("Skipping AMQP message consumption - no client available")
	}

	// Periodic refresh catches any missed messages.
	ticker := time.NewTicker(cfg.RefreshInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := processor.RefreshCurrentMonth(ctx); err != nil {
					logger.Error("Periodic snapshot refresh failed", "error", err)
				}
			}
		}
	}()

	logger.Info("Worker started, waiting for refresh messages",
		"queue", cfg.AMQPQueue,
		"refresh_interval", cfg.RefreshInterval.String())

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
