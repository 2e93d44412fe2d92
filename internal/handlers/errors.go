package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

const requestTooLargeMsg = "Request too large: the total upload exceeds the server limit"

// ErrorHandler renders errors that escape the handlers as the JSON error shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := internalErrorMsg
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	switch {
	case code == fiber.StatusRequestEntityTooLarge:
		slog.Warn("request body too large", "method", c.Method(), "path", c.Path(), "content_length", c.Request().Header.ContentLength())
		message = requestTooLargeMsg
	// Only expose error details for client errors (4xx), not server errors (5xx)
	case code >= 500:
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = internalErrorMsg
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
