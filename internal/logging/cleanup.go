package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"gorm.io/gorm"
)

const (
	Retention     = 30 * 24 * time.Hour
	cleanupPeriod = 24 * time.Hour
)

// Prune deletes stored error logs older than the retention window.
func Prune(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("timestamp < ?", now.Add(-Retention)).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// StartCleanup prunes once a day until done is closed.
func StartCleanup(db *gorm.DB, done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(cleanupPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				deleted, err := Prune(db, time.Now())
				if err != nil {
					slog.Error("log cleanup failed", "error", err)
				} else if deleted > 0 {
					slog.Info("log cleanup completed", "deleted", deleted)
				}
			case <-done:
				return
			}
		}
	}()
}
