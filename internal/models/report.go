package models

import (
	"path/filepath"
	"strings"
	"time"
)

// Report is the self-describing record persisted for every submission.
// Reports are immutable once written.
type Report struct {
	ID               string         `json:"report_id"`
	ReporterName     string         `json:"reporter_name"`
	ContactInfo      string         `json:"contact_info"`
	FraudType        string         `json:"fraud_type"`
	FraudTime        string         `json:"fraud_time"`
	FraudAmount      string         `json:"fraud_amount"`
	Description      string         `json:"description"`
	EmergencyContact string         `json:"emergency_contact"`
	EmergencyPhone   string         `json:"emergency_phone"`
	AgreeTerms       bool           `json:"agree_terms"`
	CreatedAt        time.Time      `json:"timestamp"`
	Files            []EvidenceFile `json:"files"`
}

// EvidenceFile describes one accepted attachment stored beside its report.
type EvidenceFile struct {
	OriginalName string `json:"original_name"`
	SavedName    string `json:"saved_name"`
	Size         int64  `json:"size"`
}

// EvidenceName derives the stored name of an attachment. Only the base name
// of the client-supplied filename is used.
func EvidenceName(reportID, originalName string) string {
	return reportID + "_" + BaseName(originalName)
}

// BaseName strips any directory part from a client-supplied filename,
// including Windows-style separators. It returns "" when nothing usable is left.
func BaseName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." {
		return ""
	}
	return base
}

// IsPDF reports whether the attachment is a PDF document.
func (f EvidenceFile) IsPDF() bool {
	return strings.EqualFold(filepath.Ext(f.SavedName), ".pdf")
}

// FindFile returns the attachment with the given stored name.
func (r *Report) FindFile(savedName string) (EvidenceFile, bool) {
	for _, f := range r.Files {
		if f.SavedName == savedName {
			return f, true
		}
	}
	return EvidenceFile{}, false
}
