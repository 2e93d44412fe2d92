package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/bootstrap"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/config"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/database"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/evidence"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/logging"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/routes"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database (optional: postgres store and the system log sink)
	var db *gorm.DB
	var dbLogHandler *logging.DBHandler
	cleanupDone := make(chan struct{})
	if cfg.HasDatabase() {
		var err error
		db, err = database.Connect(cfg)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.MigrateLogs(db); err != nil {
			slog.Error("log table migration failed", "error", err)
			os.Exit(1)
		}

		// ERROR+ records are also batched into system_logs
		dbLogHandler = logging.NewDBHandler(db, "server")
		logging.WithDB(dbLogHandler)

		// Log cleanup (30-day retention)
		logging.StartCleanup(db, cleanupDone)
	}

	// Storage
	reportStore, err := bootstrap.OpenStore(cfg, db)
	if err != nil {
		slog.Error("record store unavailable", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	evidenceStorage, err := bootstrap.OpenEvidence(startupCtx, cfg)
	cancel()
	if err != nil {
		slog.Error("evidence storage unavailable", "driver", cfg.EvidenceDriver, "error", err)
		os.Exit(1)
	}
	dispatcher, closeDispatcher := bootstrap.NewDispatcher(cfg)

	// Services
	authService, err := services.NewAuthService(cfg)
	if err != nil {
		slog.Error("admin credentials unusable", "error", err)
		os.Exit(1)
	}
	uploader := evidence.NewUploader(evidenceStorage, bootstrap.Limits(cfg))
	reportService := services.NewReportService(reportStore, uploader, dispatcher)

	// Handlers
	sessions := middleware.NewSessionStore(cfg)
	authHandler := handlers.NewAuthHandler(authService, sessions)
	healthHandler := handlers.NewHealthHandler(reportStore, evidenceStorage)
	reportHandler := handlers.NewReportHandler(reportService)
	adminHandler := handlers.NewAdminHandler(reportService, evidenceStorage)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimit(),
		ErrorHandler: handlers.ErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, sessions, authHandler, healthHandler, reportHandler, adminHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.StoreDriver, "evidence", cfg.EvidenceDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := closeDispatcher(); err != nil {
		slog.Error("queue client close error", "error", err)
	}
	if err := reportStore.Close(); err != nil {
		slog.Error("record store close error", "error", err)
	}

	close(cleanupDone)
	if dbLogHandler != nil {
		dbLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if db != nil {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
