package main

import (
	"os"
	"strconv"
	"time"

	"github.com/a20ro/student-organizer-backend/models"
	"github.com/a20ro/student-organizer-backend/pkg/session"
)

// startJanitor runs periodic cleanup in the background: sessions whose
// inactivity window has lapsed are flipped to inactive (the same terminal
// transition the request path applies), and expired password reset rows are
// purged.
func startJanitor() {
	interval := 30 * time.Minute
	if v := os.Getenv("CLEANUP_INTERVAL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			interval = time.Duration(n) * time.Minute
		}
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			runCleanup(time.Now())
		}
	}()
	logger.Info().Dur("interval", interval).Msg("session janitor started")
}

func runCleanup(now time.Time) {
	cutoff := now.Add(-session.InactivityLimit)

	res := db.Model(&models.UserSession{}).
		Where("is_active = ?", true).
		Where("COALESCE(last_activity, created_at) < ?", cutoff).
		Updates(map[string]any{
			"is_active":      false,
			"revoked_reason": session.ReasonTimeout,
		})
	if res.Error != nil {
		logger.Error().Err(res.Error).Msg("janitor: failed to expire stale sessions")
	} else if res.RowsAffected > 0 {
		logger.Info().Int64("sessions", res.RowsAffected).Msg("janitor: expired stale sessions")
	}

	resetCutoff := now.Add(-models.ResetTokenTTL)
	if err := db.Where("created_at < ?", resetCutoff).
		Delete(&models.PasswordReset{}).Error; err != nil {
		logger.Error().Err(err).Msg("janitor: failed to purge password resets")
	}

	materializeRecurring(now)
	sendDueAnnouncements(now)
}

// sendDueAnnouncements delivers scheduled announcements whose time has come.
func sendDueAnnouncements(now time.Time) {
	var due []models.Announcement
	if err := db.Where("sent_at IS NULL AND scheduled_at IS NOT NULL AND scheduled_at <= ?", now).
		Find(&due).Error; err != nil {
		logger.Error().Err(err).Msg("janitor: failed to load scheduled announcements")
		return
	}
	for i := range due {
		deliverAnnouncement(&due[i])
	}
}
