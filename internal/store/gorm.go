package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps report documents in the fraud_reports table. Only the
// document column is authoritative; the rest are index columns.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&models.ReportRecord{}); err != nil {
		return nil, fmt.Errorf("migrate fraud_reports: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Write(ctx context.Context, report *models.Report) error {
	id, err := uuid.Parse(report.ID)
	if err != nil {
		return fmt.Errorf("invalid report id %q", report.ID)
	}
	normalize(report)

	doc, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	record := models.ReportRecord{
		ID:        id,
		FraudType: report.FraudType,
		FileCount: len(report.Files),
		Document:  datatypes.JSON(doc),
		CreatedAt: report.CreatedAt,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func (s *GormStore) Read(ctx context.Context, id string) (*models.Report, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var record models.ReportRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select report: %w", err)
	}

	var report models.Report
	if err := json.Unmarshal(record.Document, &report); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", id, err)
	}
	normalize(&report)
	return &report, nil
}

func (s *GormStore) ReadAll(ctx context.Context) ([]models.Report, error) {
	var records []models.ReportRecord
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	reports := make([]models.Report, 0, len(records))
	for _, rec := range records {
		var r models.Report
		if err := json.Unmarshal(rec.Document, &r); err != nil {
			slog.Warn("skipping unreadable report", "report_id", rec.ID.String(), "error", err)
			continue
		}
		normalize(&r)
		reports = append(reports, r)
	}
	return reports, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close is a no-op; the connection pool is owned by the caller.
func (s *GormStore) Close() error {
	return nil
}
