package middleware

import (
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS lets the report page on a configured origin submit and read reports.
// Credentials are only allowed for an explicit origin list, since the admin
// session rides on a cookie.
func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowMethods:     "GET, POST, OPTIONS",
		ExposeHeaders:    "X-Request-ID",
		AllowCredentials: cfg.CORSOrigins != "*",
		MaxAge:           600,
	})
}
