package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/config"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// AdminPage guards HTML pages: without a session the browser is sent to
// the login page.
func AdminPage(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !LoggedIn(store, c) {
			return c.Redirect("/login", fiber.StatusFound)
		}
		return c.Next()
	}
}

// AdminRequired guards the admin API. It accepts either the admin session
// cookie or a bearer token issued at login.
func AdminRequired(store *session.Store, cfg *config.Config) fiber.Handler {
	bearer := JWTProtected(cfg)

	return func(c *fiber.Ctx) error {
		if LoggedIn(store, c) {
			return c.Next()
		}
		if strings.HasPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ") {
			return bearer(c)
		}
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
}
