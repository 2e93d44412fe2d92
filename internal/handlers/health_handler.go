package handlers

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/evidence"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/store"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	store    store.Store
	evidence evidence.Storage
}

func NewHealthHandler(st store.Store, ev evidence.Storage) *HealthHandler {
	return &HealthHandler{store: st, evidence: ev}
}

// Check is a liveness probe: it always answers 200 and reports dependency
// state alongside. Failure details go to the log, not the response.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	storeStatus := componentStatus("store", h.store.Ping(c.UserContext()))
	evidenceStatus := componentStatus("evidence", h.evidence.Ping(c.UserContext()))

	return c.JSON(dto.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Store:     storeStatus,
		Evidence:  evidenceStatus,
	})
}

func componentStatus(component string, err error) string {
	if err != nil {
		slog.Warn("health check failed", "component", component, "error", err)
		return "unhealthy"
	}
	return "ok"
}
