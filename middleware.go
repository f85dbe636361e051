package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/a20ro/student-organizer-backend/models"
	"github.com/a20ro/student-organizer-backend/pkg/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// requireAuth resolves the bearer credential to a user and token id. It does
// not decide session liveness; that is sessionActivity's job.
func requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		respondError(c, http.StatusUnauthorized, "Unauthenticated.")
		c.Abort()
		return
	}
	plain := strings.TrimPrefix(header, "Bearer ")

	var token models.AccessToken
	if err := db.Where("token_hash = ?", session.HashToken(plain)).First(&token).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthenticated.")
		c.Abort()
		return
	}
	var user models.User
	if err := db.First(&user, token.UserID).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthenticated.")
		c.Abort()
		return
	}

	now := time.Now()
	token.LastUsedAt = &now
	db.Model(&models.AccessToken{}).Where("id = ?", token.ID).Update("last_used_at", now)

	c.Set(ctxUser, &user)
	c.Set(ctxTokenID, token.ID)
	c.Next()
}

// sessionActivity enforces the 30-minute inactivity window on every
// authenticated request. The only fail-open case is a token with no session
// row at all, so credentials issued before session tracking existed keep
// working.
func sessionActivity(c *gin.Context) {
	tokenID := currentTokenID(c)
	if tokenID == 0 {
		c.Next()
		return
	}

	var sess models.UserSession
	err := db.Where("token_id = ?", tokenID).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.Next()
		return
	}
	if err != nil {
		// A storage failure must not turn into a silent allow.
		respondError(c, http.StatusInternalServerError, "Session lookup failed.")
		c.Abort()
		return
	}

	d := session.Evaluate(session.Snapshot{
		CreatedAt:    sess.CreatedAt,
		LastActivity: sess.LastActivity,
		Active:       sess.IsActive,
	}, time.Now())

	switch d.Verdict {
	case session.RejectRevoked:
		// The credential should already be gone; delete again for depth.
		db.Delete(&models.AccessToken{}, tokenID)
		rejectSession(c, "Your session has expired. Please log in again.")

	case session.RejectTimedOut:
		if err := db.Model(&sess).Updates(map[string]any{
			"is_active":      false,
			"revoked_reason": session.ReasonTimeout,
		}).Error; err != nil {
			respondError(c, http.StatusInternalServerError, "Session update failed.")
			c.Abort()
			return
		}
		db.Delete(&models.AccessToken{}, tokenID)
		rejectSession(c, "Your session has expired due to 30 minutes of inactivity. Please log in again.")

	default:
		if d.TouchActivity {
			// Lost races on this write are fine, the heartbeat is advisory.
			if err := db.Model(&sess).Updates(map[string]any{
				"last_activity": d.ActivityAt,
				"is_active":     true,
			}).Error; err != nil {
				logger.Warn().Err(err).Uint("session_id", sess.ID).Msg("failed to refresh session activity")
			}
		}
		c.Next()
	}
}

func rejectSession(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success":      false,
		"message":      message,
		"redirect_url": loginURL(),
	})
}

// requireAdmin gates the /admin group. Must run after requireAuth.
func requireAdmin(c *gin.Context) {
	user := currentUser(c)
	if user == nil || !user.IsAdmin() {
		respondError(c, http.StatusForbidden, "Admin access required.")
		c.Abort()
		return
	}
	c.Next()
}
