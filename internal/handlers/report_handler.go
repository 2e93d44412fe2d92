package handlers

import (
	"errors"
	"log/slog"
	"mime/multipart"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

const (
	EvidenceField     = "evidence"
	submitSuccessMsg  = "Report submitted successfully. Thank you for your contribution!"
	internalErrorMsg  = "Internal server error, please try again later"
	reportNotFoundMsg = "Report not found"
)

type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitReportRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Warn("unreadable report submission", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid form data",
		})
	}

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		files = form.File[EvidenceField]
	}

	result, err := h.reports.Submit(c.UserContext(), &req, files)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			slog.Warn("report rejected", "field", vErr.Field, "reason", vErr.Message)
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: vErr.Message, Field: vErr.Field,
			})
		}
		return internalError(c, "report submission failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SubmitReportResponse{
		Status:        "success",
		Message:       submitSuccessMsg,
		ReportID:      result.Report.ID,
		RejectedFiles: result.Rejected,
	})
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	reports, err := h.reports.List(c.UserContext())
	if err != nil {
		return internalError(c, "failed to list reports", err)
	}
	return c.JSON(dto.ReportListResponse{
		Status:  "success",
		Reports: reports,
		Count:   len(reports),
	})
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	report, err := h.reports.Get(c.UserContext(), id)
	if err != nil {
		if services.IsNotFound(err) {
			slog.Warn("report not found", "report_id", id, "request_id", c.GetRespHeader(fiber.HeaderXRequestID))
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: reportNotFoundMsg,
			})
		}
		return internalError(c, "failed to read report", err, "report_id", id)
	}
	return c.JSON(dto.ReportResponse{Status: "success", Report: *report})
}

func (h *ReportHandler) FraudTypes(c *fiber.Ctx) error {
	return c.JSON(dto.FraudTypesResponse{
		Status:     "success",
		FraudTypes: h.reports.FraudTypes(),
	})
}

func (h *ReportHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(dto.StatsResponse{
		Status: "success",
		Stats:  h.reports.Stats(c.UserContext()),
	})
}

// internalError logs the detail, reports it to Sentry and answers with a
// generic message.
func internalError(c *fiber.Ctx, msg string, err error, attrs ...any) error {
	args := append([]any{
		"method", c.Method(),
		"path", c.Path(),
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		"error", err,
	}, attrs...)
	slog.Error(msg, args...)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: internalErrorMsg,
	})
}
