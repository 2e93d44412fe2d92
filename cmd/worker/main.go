package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/bootstrap"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/config"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/database"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/logging"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/worker"
)

func main() {
	logging.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if cfg.RedisAddr == "" {
		slog.Error("REDIS_ADDR environment variable is required")
		os.Exit(1)
	}
	// bolt holds an exclusive file lock, so the server process owns it
	if cfg.StoreDriver == "bolt" {
		slog.Error("the worker cannot share a bolt store with the server; use the file or postgres store")
		os.Exit(1)
	}

	var db *gorm.DB
	if cfg.HasDatabase() {
		var err error
		db, err = database.Connect(cfg)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer database.Close(db)

		if err := database.MigrateLogs(db); err != nil {
			slog.Error("log table migration failed", "error", err)
			os.Exit(1)
		}
		dbLogHandler := logging.NewDBHandler(db, "worker")
		logging.WithDB(dbLogHandler)
		defer dbLogHandler.Stop()
	}

	reportStore, err := bootstrap.OpenStore(cfg, db)
	if err != nil {
		slog.Error("record store unavailable", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer reportStore.Close()

	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	evidenceStorage, err := bootstrap.OpenEvidence(startupCtx, cfg)
	cancel()
	if err != nil {
		slog.Error("evidence storage unavailable", "driver", cfg.EvidenceDriver, "error", err)
		os.Exit(1)
	}

	server := asynq.NewServer(bootstrap.RedisOpt(cfg), asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
	})
	processor := worker.NewProcessor(reportStore, evidenceStorage, bootstrap.NewSender(cfg), cfg.UploadMaxBytes)
	mux := processor.Handler()

	go func() {
		<-ctx.Done()
		slog.Info("shutting down worker...")
		server.Shutdown()
	}()

	slog.Info("worker starting", "redis", cfg.RedisAddr, "concurrency", cfg.WorkerConcurrency)
	if err := server.Run(mux); err != nil {
		slog.Error("worker stopped", "error", err)
		os.Exit(1)
	}
}
