package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

type AuthHandler struct {
	authService *services.AuthService
	sessions    *session.Store
}

func NewAuthHandler(authService *services.AuthService, sessions *session.Store) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	if middleware.LoggedIn(h.sessions, c) {
		return c.Redirect("/", fiber.StatusFound)
	}
	return c.Type("html").SendString(loginPageHTML)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.authService.Authenticate(req.Username, req.Password); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			slog.Warn("admin login failed", "username", req.Username, "ip", c.IP())
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return internalError(c, "admin login error", err)
	}

	if err := middleware.StartSession(h.sessions, c, req.Username); err != nil {
		return internalError(c, "failed to start admin session", err)
	}

	token, ttl, err := h.authService.IssueToken(req.Username)
	if err != nil {
		return internalError(c, "failed to issue admin token", err)
	}

	slog.Info("admin logged in", "username", req.Username)
	return c.JSON(dto.LoginResponse{
		Status:      "success",
		Message:     "Login successful",
		AccessToken: token,
		ExpiresIn:   int64(ttl.Seconds()),
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := middleware.EndSession(h.sessions, c); err != nil {
		slog.Warn("failed to destroy admin session", "error", err)
	}
	return c.Redirect("/login", fiber.StatusFound)
}
