package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ReportRecord is the table row used by the postgres store. The full report
// lives in Document; the other columns exist for indexing.
type ReportRecord struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	FraudType string         `gorm:"size:50;not null;index"`
	FileCount int            `gorm:"not null;default:0"`
	Document  datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null;index"`
}

func (ReportRecord) TableName() string {
	return "fraud_reports"
}
