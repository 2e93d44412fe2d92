package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/models"
)

// SubmitReportRequest mirrors the multipart form posted by the report page.
type SubmitReportRequest struct {
	ReporterName     string `form:"reporterName"`
	ContactInfo      string `form:"contactInfo"`
	FraudType        string `form:"fraudType"`
	FraudTime        string `form:"fraudTime"`
	FraudAmount      string `form:"fraudAmount"`
	FraudDescription string `form:"fraudDescription"`
	EmergencyContact string `form:"emergencyContact"`
	EmergencyPhone   string `form:"emergencyPhone"`
	AgreeTerms       string `form:"agreeTerms"`
}

// FileRejection explains why an uploaded file was left out of a report.
type FileRejection struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

const (
	RejectType      = "type"
	RejectSize      = "size"
	RejectLimit     = "limit"
	RejectDuplicate = "duplicate"
)

type SubmitReportResponse struct {
	Status        string          `json:"status"`
	Message       string          `json:"message"`
	ReportID      string          `json:"report_id"`
	RejectedFiles []FileRejection `json:"rejected_files"`
}

// ReportView is the public projection of a report. Contact and emergency
// details are not part of it.
type ReportView struct {
	ID           string                `json:"report_id"`
	ReporterName string                `json:"reporter_name"`
	FraudType    string                `json:"fraud_type"`
	FraudTime    string                `json:"fraud_time"`
	FraudAmount  string                `json:"fraud_amount"`
	Description  string                `json:"description"`
	AgreeTerms   bool                  `json:"agree_terms"`
	CreatedAt    time.Time             `json:"timestamp"`
	Files        []models.EvidenceFile `json:"files"`
}

// NewReportView is the single redaction transform for public reads.
func NewReportView(r *models.Report) ReportView {
	files := r.Files
	if files == nil {
		files = []models.EvidenceFile{}
	}
	return ReportView{
		ID:           r.ID,
		ReporterName: r.ReporterName,
		FraudType:    r.FraudType,
		FraudTime:    r.FraudTime,
		FraudAmount:  r.FraudAmount,
		Description:  r.Description,
		AgreeTerms:   r.AgreeTerms,
		CreatedAt:    r.CreatedAt,
		Files:        files,
	}
}

type ReportListResponse struct {
	Status  string       `json:"status"`
	Reports []ReportView `json:"reports"`
	Count   int          `json:"count"`
}

type ReportResponse struct {
	Status string     `json:"status"`
	Report ReportView `json:"report"`
}

type Stats struct {
	ReportCount        int  `json:"report_count"`
	EvidenceCount      int  `json:"evidence_count"`
	DailyInterceptions int  `json:"daily_interceptions"`
	BlockedWebsites    int  `json:"blocked_websites"`
	UserSatisfaction   int  `json:"user_satisfaction"`
	ProtectionHours    int  `json:"protection_hours"`
	Degraded           bool `json:"degraded,omitempty"`
}

type StatsResponse struct {
	Status string `json:"status"`
	Stats  Stats  `json:"stats"`
}

type FraudTypesResponse struct {
	Status     string             `json:"status"`
	FraudTypes []models.FraudType `json:"fraud_types"`
}
