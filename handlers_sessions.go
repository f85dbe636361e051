package main

import (
	"net/http"

	"github.com/a20ro/student-organizer-backend/models"

	"github.com/gin-gonic/gin"
)

// listSessionsHandler returns the caller's device sessions, most recently
// active first.
func listSessionsHandler(c *gin.Context) {
	user := currentUser(c)

	var sessions []models.UserSession
	if err := db.Where("user_id = ?", user.ID).
		Order("last_activity DESC").
		Find(&sessions).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list sessions.")
		return
	}
	respondData(c, http.StatusOK, sessions)
}

// revokeSessionHandler revokes one session owned by the caller. Sessions
// belonging to other users yield the same 404 as missing ones.
func revokeSessionHandler(c *gin.Context) {
	user := currentUser(c)

	var sess models.UserSession
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).
		First(&sess).Error; err != nil {
		respondError(c, http.StatusNotFound, "Session not found.")
		return
	}

	db.Where("user_id = ? AND id = ?", user.ID, sess.TokenID).Delete(&models.AccessToken{})
	db.Delete(&models.UserSession{}, sess.ID)

	respondMessage(c, http.StatusOK, "Session revoked successfully.")
}

// revokeAllSessionsHandler revokes every credential the caller owns except
// the one presented on this request, so they stay logged in here.
func revokeAllSessionsHandler(c *gin.Context) {
	user := currentUser(c)
	currentToken := currentTokenID(c)

	db.Where("user_id = ? AND id <> ?", user.ID, currentToken).Delete(&models.AccessToken{})
	db.Where("user_id = ? AND token_id <> ?", user.ID, currentToken).Delete(&models.UserSession{})

	respondMessage(c, http.StatusOK, "All other sessions revoked.")
}
