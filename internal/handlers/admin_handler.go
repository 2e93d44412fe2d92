package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/evidence"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/services"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/worker"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the unredacted views behind the admin gate.
type AdminHandler struct {
	reports  *services.ReportService
	evidence evidence.Storage
}

func NewAdminHandler(reports *services.ReportService, ev evidence.Storage) *AdminHandler {
	return &AdminHandler{reports: reports, evidence: ev}
}

func (h *AdminHandler) Page(c *fiber.Ctx) error {
	return c.Type("html").SendString(adminPageHTML)
}

func (h *AdminHandler) ListReports(c *fiber.Ctx) error {
	reports, err := h.reports.ListFull(c.UserContext())
	if err != nil {
		return internalError(c, "failed to list reports", err)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"reports": reports,
		"count":   len(reports),
	})
}

func (h *AdminHandler) GetReport(c *fiber.Ctx) error {
	id := c.Params("id")
	report, err := h.reports.GetFull(c.UserContext(), id)
	if err != nil {
		if services.IsNotFound(err) {
			slog.Warn("report not found", "report_id", id)
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: reportNotFoundMsg,
			})
		}
		return internalError(c, "failed to read report", err, "report_id", id)
	}
	return c.JSON(fiber.Map{"status": "success", "report": report})
}

func (h *AdminHandler) DownloadEvidence(c *fiber.Ctx) error {
	return h.sendEvidence(c, "")
}

// EvidenceText serves the text the worker extracted from a PDF attachment.
func (h *AdminHandler) EvidenceText(c *fiber.Ctx) error {
	return h.sendEvidence(c, worker.TextSuffix)
}

func (h *AdminHandler) sendEvidence(c *fiber.Ctx, suffix string) error {
	id := c.Params("id")
	name := c.Params("name")

	report, err := h.reports.GetFull(c.UserContext(), id)
	if err != nil {
		if services.IsNotFound(err) {
			slog.Warn("report not found", "report_id", id)
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: reportNotFoundMsg,
			})
		}
		return internalError(c, "failed to read report", err, "report_id", id)
	}

	file, ok := report.FindFile(name)
	if !ok || (suffix != "" && !file.IsPDF()) {
		slog.Warn("evidence not found", "report_id", id, "file", name)
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Evidence not found",
		})
	}

	rc, err := h.evidence.Open(c.UserContext(), file.SavedName+suffix)
	if err != nil {
		if errors.Is(err, evidence.ErrNotFound) {
			slog.Warn("evidence not available", "report_id", id, "file", name+suffix)
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Evidence not available",
			})
		}
		return internalError(c, "failed to open evidence", err, "report_id", id, "file", name)
	}

	if suffix == "" {
		c.Attachment(file.OriginalName)
	} else {
		c.Type("txt", "utf-8")
	}
	return c.SendStream(rc)
}
