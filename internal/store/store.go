package store

import (
	"context"
	"errors"
	"sort"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no report exists for an id.
var ErrNotFound = errors.New("report not found")

// Store persists one self-describing document per report.
type Store interface {
	// Write stores the full report, replacing any previous document.
	Write(ctx context.Context, report *models.Report) error
	// Read returns ErrNotFound when the id is unknown.
	Read(ctx context.Context, id string) (*models.Report, error)
	// ReadAll returns every readable report, newest first. Unreadable
	// documents are logged and skipped.
	ReadAll(ctx context.Context) ([]models.Report, error)
	Ping(ctx context.Context) error
	Close() error
}

// validID guards lookups so that ids can never be used as paths or keys
// outside the report namespace.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func sortNewestFirst(reports []models.Report) {
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
}

func normalize(r *models.Report) {
	if r.Files == nil {
		r.Files = []models.EvidenceFile{}
	}
}
