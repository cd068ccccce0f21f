package logging

import (
	"log/slog"
	"time"

	"github.com/habitforge/habitforge-backend/internal/models"
	"gorm.io/gorm"
)

// StartCleanup runs a daily goroutine that deletes system_logs older than
// 30 days and recommendations past their expiry.
func StartCleanup(db *gorm.DB, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				runCleanup(db)
			case <-done:
				return
			}
		}
	}()
}

func runCleanup(db *gorm.DB) {
	cutoff := time.Now().AddDate(0, 0, -30)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		slog.Error("log cleanup failed", "error", result.Error)
	} else if result.RowsAffected > 0 {
		slog.Info("log cleanup completed", "deleted", result.RowsAffected)
	}

	result = db.Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).
		Delete(&models.Recommendation{})
	if result.Error != nil {
		slog.Error("recommendation cleanup failed", "error", result.Error)
	} else if result.RowsAffected > 0 {
		slog.Info("expired recommendations pruned", "deleted", result.RowsAffected)
	}
}
