package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/evidence"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/models"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/queue"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/store"
	"github.com/google/uuid"
)

const MaxDescriptionLength = 1000

// ValidationError is a client mistake in a submitted report.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Placeholder figures served when the store cannot be read.
var fallbackStats = dto.Stats{
	DailyInterceptions: 10000,
	BlockedWebsites:    5000,
	UserSatisfaction:   95,
	ProtectionHours:    24,
	Degraded:           true,
}

type SubmitResult struct {
	Report   *models.Report
	Rejected []dto.FileRejection
}

type ReportService struct {
	store      store.Store
	uploader   *evidence.Uploader
	dispatcher queue.Dispatcher
	now        func() time.Time
	newID      func() string
}

func NewReportService(st store.Store, uploader *evidence.Uploader, dispatcher queue.Dispatcher) *ReportService {
	if dispatcher == nil {
		dispatcher = queue.NoopDispatcher{}
	}
	return &ReportService{
		store:      st,
		uploader:   uploader,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

// Validate checks a submission in a fixed order: required fields, fraud
// type, description length, then consent.
func Validate(req *dto.SubmitReportRequest) error {
	required := []struct {
		field string
		value string
	}{
		{"contactInfo", req.ContactInfo},
		{"fraudType", req.FraudType},
		{"fraudTime", req.FraudTime},
		{"fraudDescription", req.FraudDescription},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: "missing required field: " + r.field}
		}
	}

	if !models.IsFraudType(req.FraudType) {
		return &ValidationError{Field: "fraudType", Message: "invalid fraud type: " + req.FraudType}
	}

	if utf8.RuneCountInString(req.FraudDescription) > MaxDescriptionLength {
		return &ValidationError{
			Field:   "fraudDescription",
			Message: fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
		}
	}

	if !ParseConsent(req.AgreeTerms) {
		return &ValidationError{
			Field:   "agreeTerms",
			Message: "you must agree to submit evidence for anti-fraud investigation",
		}
	}
	return nil
}

// ParseConsent accepts the usual checkbox encodings for "yes".
func ParseConsent(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "on", "yes":
		return true
	}
	return false
}

func (s *ReportService) Submit(ctx context.Context, req *dto.SubmitReportRequest, files []*multipart.FileHeader) (*SubmitResult, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	report := &models.Report{
		ID:               s.newID(),
		ReporterName:     strings.TrimSpace(req.ReporterName),
		ContactInfo:      strings.TrimSpace(req.ContactInfo),
		FraudType:        req.FraudType,
		FraudTime:        strings.TrimSpace(req.FraudTime),
		FraudAmount:      strings.TrimSpace(req.FraudAmount),
		Description:      req.FraudDescription,
		EmergencyContact: strings.TrimSpace(req.EmergencyContact),
		EmergencyPhone:   strings.TrimSpace(req.EmergencyPhone),
		AgreeTerms:       true,
		CreatedAt:        s.now(),
	}

	accepted, rejected, err := s.uploader.Accept(ctx, report.ID, files)
	if err != nil {
		return nil, fmt.Errorf("persist evidence for %s: %w", report.ID, err)
	}
	report.Files = accepted

	if err := s.store.Write(ctx, report); err != nil {
		return nil, fmt.Errorf("write report %s: %w", report.ID, err)
	}
	slog.Info("report submitted", "report_id", report.ID, "fraud_type", report.FraudType,
		"files", len(accepted), "rejected_files", len(rejected))

	if err := s.dispatcher.ReportSubmitted(ctx, report); err != nil {
		slog.Error("failed to queue report follow-up", "report_id", report.ID, "error", err)
	}

	return &SubmitResult{Report: report, Rejected: rejected}, nil
}

// readView is the only place public reads leave the service, so redaction
// cannot be skipped by a new read path.
func readView(r *models.Report) dto.ReportView {
	return dto.NewReportView(r)
}

func (s *ReportService) List(ctx context.Context) ([]dto.ReportView, error) {
	reports, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]dto.ReportView, 0, len(reports))
	for i := range reports {
		views = append(views, readView(&reports[i]))
	}
	return views, nil
}

func (s *ReportService) Get(ctx context.Context, id string) (*dto.ReportView, error) {
	report, err := s.store.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	view := readView(report)
	return &view, nil
}

// GetFull returns the unredacted report for admins.
func (s *ReportService) GetFull(ctx context.Context, id string) (*models.Report, error) {
	return s.store.Read(ctx, id)
}

// ListFull returns every unredacted report for admins.
func (s *ReportService) ListFull(ctx context.Context) ([]models.Report, error) {
	return s.store.ReadAll(ctx)
}

func (s *ReportService) Stats(ctx context.Context) dto.Stats {
	reports, err := s.store.ReadAll(ctx)
	if err != nil {
		slog.Error("stats unavailable, serving placeholder figures", "error", err)
		return fallbackStats
	}

	files := 0
	for _, r := range reports {
		files += len(r.Files)
	}
	return dto.Stats{
		ReportCount:        len(reports),
		EvidenceCount:      files,
		DailyInterceptions: len(reports) * 20,
		BlockedWebsites:    len(reports) * 10,
		UserSatisfaction:   95,
		ProtectionHours:    24,
	}
}

func (s *ReportService) FraudTypes() []models.FraudType {
	return models.FraudTypes
}

// IsNotFound reports whether err means the requested report does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
