package main

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/a20ro/student-organizer-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAdmin(t *testing.T, r http.Handler, email, role string) (string, *models.User) {
	t.Helper()
	token, user := seedAuthedUser(t, r, email)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("role", role).Error)
	user.Role = role
	return token, user
}

func TestSuspendUserKillsTheirSessions(t *testing.T) {
	setupTestDB(t, "adm_suspend")
	r := testRouter()
	adminToken, _ := seedAdmin(t, r, "admin@example.com", models.RoleAdmin)
	victimToken, victim := seedAuthedUser(t, r, "victim@example.com")

	rec := doRequest(r, http.MethodPost, fmt.Sprintf("/admin/users/%d/suspend", victim.ID), nil, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)

	// The suspended user's live session is dead immediately.
	rec = doRequest(r, http.MethodGet, "/me", nil, victimToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, victim.ID).Error)
	assert.Equal(t, models.StatusSuspended, reloaded.Status)

	// The action leaves an audit trail.
	var logs int64
	db.Model(&models.SystemLog{}).Where("type = ?", "admin_action").Count(&logs)
	assert.EqualValues(t, 1, logs)
}

func TestAdminCannotTouchSuperAdmin(t *testing.T) {
	setupTestDB(t, "adm_hierarchy")
	r := testRouter()
	adminToken, _ := seedAdmin(t, r, "admin@example.com", models.RoleAdmin)
	_, super := seedAdmin(t, r, "root@example.com", models.RoleSuperAdmin)
	_, peer := seedAdmin(t, r, "peer@example.com", models.RoleAdmin)

	rec := doRequest(r, http.MethodPost, fmt.Sprintf("/admin/users/%d/suspend", super.ID), nil, adminToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// A plain admin cannot act on another admin either.
	rec = doRequest(r, http.MethodPost, fmt.Sprintf("/admin/users/%d/suspend", peer.ID), nil, adminToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// A super admin can.
	superToken, _ := seedAdmin(t, r, "root2@example.com", models.RoleSuperAdmin)
	rec = doRequest(r, http.MethodPost, fmt.Sprintf("/admin/users/%d/suspend", peer.ID), nil, superToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnnouncementSendIsIdempotentGuarded(t *testing.T) {
	setupTestDB(t, "adm_announce")
	r := testRouter()
	adminToken, admin := seedAdmin(t, r, "admin@example.com", models.RoleAdmin)
	seedUser(t, "student1@example.com")
	seedUser(t, "student2@example.com")

	scheduled := time.Now().Add(time.Hour)
	rec := doRequest(r, http.MethodPost, "/admin/announcements", jsonBody(t, gin.H{
		"title":        "Maintenance window",
		"message":      "We will be down briefly on Sunday.",
		"audience":     "students",
		"scheduled_at": scheduled,
	}), adminToken)
	require.Equal(t, http.StatusCreated, rec.Code)

	var a models.Announcement
	require.NoError(t, db.Where("admin_id = ?", admin.ID).First(&a).Error)
	require.Nil(t, a.SentAt, "scheduled announcements must not send immediately")

	rec = doRequest(r, http.MethodPost, fmt.Sprintf("/admin/announcements/%d/send", a.ID), nil, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, db.First(&a, a.ID).Error)
	assert.NotNil(t, a.SentAt)

	// A second send is refused.
	rec = doRequest(r, http.MethodPost, fmt.Sprintf("/admin/announcements/%d/send", a.ID), nil, adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSingleAudienceRequiresTarget(t *testing.T) {
	setupTestDB(t, "adm_announce_single")
	r := testRouter()
	adminToken, _ := seedAdmin(t, r, "admin@example.com", models.RoleAdmin)

	rec := doRequest(r, http.MethodPost, "/admin/announcements", jsonBody(t, gin.H{
		"title":    "Hello",
		"message":  "Just you",
		"audience": "single",
	}), adminToken)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAdminListLogsFilters(t *testing.T) {
	setupTestDB(t, "adm_logs")
	r := testRouter()
	adminToken, admin := seedAdmin(t, r, "admin@example.com", models.RoleAdmin)

	for _, entry := range []models.SystemLog{
		{Type: models.LogTypeAuthFailure, Level: models.LogWarning, Message: "bad login"},
		{Type: models.LogTypeAPIError, Level: models.LogError, Message: "boom"},
		{Type: "admin_action", Level: models.LogInfo, Message: "did something", AdminID: &admin.ID},
	} {
		require.NoError(t, db.Create(&entry).Error)
	}

	rec := doRequest(r, http.MethodGet, "/admin/logs?type=auth_failure", nil, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bad login")
	assert.NotContains(t, rec.Body.String(), "boom")

	rec = doRequest(r, http.MethodGet, "/admin/logs/errors", nil, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "boom")
	assert.NotContains(t, rec.Body.String(), "bad login")

	rec = doRequest(r, http.MethodGet, fmt.Sprintf("/admin/logs?admin_id=%d", admin.ID), nil, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "did something")
}
