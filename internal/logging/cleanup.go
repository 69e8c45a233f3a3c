package logging

import (
	"log/slog"
	"time"

	"github.com/civicux/civicux-api/internal/models"
	"gorm.io/gorm"
)

// PruneLogs deletes system_logs older than the retention window and returns
// how many rows went.
func PruneLogs(db *gorm.DB, retentionDays int, now time.Time) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	cutoff := now.AddDate(0, 0, -retentionDays)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// StartCleanup runs PruneLogs once a day until done is closed.
func StartCleanup(db *gorm.DB, retentionDays int, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				deleted, err := PruneLogs(db, retentionDays, time.Now())
				if err != nil {
					slog.Error("log cleanup failed", "action", "logs.prune", "error", err)
				} else if deleted > 0 {
					slog.Info("log cleanup completed", "deleted", deleted)
				}
			case <-done:
				return
			}
		}
	}()
}
