package main

import (
	"encoding/json"

	"github.com/a20ro/student-organizer-backend/models"

	"github.com/gin-gonic/gin"
)

// recordSystemLog persists an audit entry. It is best-effort: a failure is
// logged and swallowed so it never breaks the request that triggered it.
func recordSystemLog(logType, level, message string, context gin.H, c *gin.Context, adminID *uint) {
	entry := models.SystemLog{
		Type:    logType,
		Level:   level,
		Message: message,
		AdminID: adminID,
	}
	if context != nil {
		if raw, err := json.Marshal(context); err == nil {
			entry.Context = string(raw)
		}
	}
	if c != nil {
		entry.IPAddress = c.ClientIP()
		entry.UserAgent = c.Request.UserAgent()
		if user := currentUser(c); user != nil {
			entry.UserID = &user.ID
		}
	}
	if err := db.Create(&entry).Error; err != nil {
		logger.Error().Err(err).Str("type", logType).Msg("failed to record system log")
	}
}
