package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/config"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/session"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	sessions *session.Store,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	reportHandler *handlers.ReportHandler,
	adminHandler *handlers.AdminHandler,
) {
	app.Get("/health", healthHandler.Check)

	// Admin session
	app.Get("/login", authHandler.LoginPage)
	app.Post("/login", limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}), authHandler.Login)
	app.Get("/logout", authHandler.Logout)
	app.Get("/", middleware.AdminPage(sessions), adminHandler.Page)

	api := app.Group("/api")

	// Submissions carry uploads, so they get their own stricter budget
	api.Post("/report", limiter.New(limiter.Config{
		Max:               cfg.RateLimitSubmit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}), reportHandler.Submit)
	api.Get("/reports", reportHandler.List)
	api.Get("/report/:id", reportHandler.Get)
	api.Get("/fraud-types", reportHandler.FraudTypes)
	api.Get("/stats", reportHandler.Stats)

	admin := api.Group("/admin", middleware.AdminRequired(sessions, cfg))
	admin.Get("/reports", adminHandler.ListReports)
	admin.Get("/reports/:id", adminHandler.GetReport)
	admin.Get("/reports/:id/evidence/:name", adminHandler.DownloadEvidence)
	admin.Get("/reports/:id/evidence/:name/text", adminHandler.EvidenceText)
}
