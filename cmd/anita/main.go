package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"anita/internal/amqp"
	"anita/internal/cache"
	"anita/internal/chart"
	"anita/internal/cli"
	"anita/internal/dataset"
	mem "anita/internal/dataset/memory"
	apphttp "anita/internal/http"
	"anita/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	// Choose data backend (default: memory). Seed from ./data if present.
	var (
		writer    dataset.TransactionWriter
		reader    dataset.BreakdownReader
		snapshots dataset.SummaryReader
		txLister  dataset.TransactionLister
		catLister dataset.CategoryLister
		remover   services.TransactionRemover
		closeRepo func() error
	)

	switch cfg.DataBackend {
	case "sqlite":
		repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
		writer, reader, txLister, catLister, remover = repo, repo, repo, repo, repo
		// The worker maintains the summary snapshot in the same
		// database; serve from it with live-aggregate fallback.
		snapshots = repo
		closeRepo = repo.Close
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	default:
		store := mem.NewFromFiles("data")
		writer, reader, txLister, catLister = store, store, store, store
		logger.Info("Initialized memory backend", "backend", cfg.DataBackend)
	}

	// AMQP is optional for the server: transactions are saved locally
	// first, refresh events just make the worker snapshot sooner.
	var publisher services.RefreshPublisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, refresh events disabled", "error", err)
	} else {
		publisher = amqpClient
		defer amqpClient.Close()
	}

	layout := chart.Layout{Margin: cfg.ChartMargin, InnerRatio: cfg.ChartInnerRatio}
	modelCache := cache.NewLRUCache[services.ChartModel](100, cfg.ChartCacheTTL)

	cacheManager := cache.NewManager()
	cacheManager.Register(modelCache)
	cacheManager.StartCleanup(10 * time.Minute)

	analytics := services.NewAnalyticsService(reader, snapshots, layout, modelCache)
	ingest := services.NewIngestService(writer, remover, publisher, analytics)

	srv := apphttp.NewServer(":"+cfg.Port, analytics, ingest, txLister, catLister)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cacheManager.Stop()
		if closeRepo != nil {
			if err := closeRepo(); err != nil {
				logger.Error("Failed closing repository", "error", err)
			}
		}
	})

	logger.Info("Starting anita server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
