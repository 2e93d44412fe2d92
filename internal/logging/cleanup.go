package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/models"
	"gorm.io/gorm"
)

// LogRetention is how long system_logs rows are kept.
const LogRetention = 30 * 24 * time.Hour

// PruneLogs deletes system_logs rows written before cutoff.
func PruneLogs(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// StartCleanup prunes expired log rows once at startup and then daily,
// until done is closed.
func StartCleanup(db *gorm.DB, done <-chan struct{}) {
	prune := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		deleted, err := PruneLogs(ctx, db, time.Now().Add(-LogRetention))
		switch {
		case err != nil:
			slog.Warn("log cleanup failed", "error", err)
		case deleted > 0:
			slog.Info("log cleanup completed", "deleted", deleted)
		}
	}

	go func() {
		prune()
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				prune()
			case <-done:
				return
			}
		}
	}()
}
