package main

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/a20ro/student-organizer-backend/models"
	"github.com/a20ro/student-organizer-backend/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSessionActivityAllowsFreshSession(t *testing.T) {
	setupTestDB(t, "mw_allow")
	r := testRouter()
	user := seedUser(t, "fresh@example.com")

	now := time.Now()
	recent := now.Add(-5 * time.Minute)
	token, _ := seedSession(t, user, now.Add(-10*time.Minute), &recent, true)

	rec := doRequest(r, http.MethodGet, "/me", nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionActivityTimesOutAfterInactivity(t *testing.T) {
	setupTestDB(t, "mw_timeout")
	r := testRouter()
	user := seedUser(t, "stale@example.com")

	now := time.Now()
	stale := now.Add(-31 * time.Minute)
	token, sess := seedSession(t, user, now.Add(-2*time.Hour), &stale, true)

	rec := doRequest(r, http.MethodGet, "/me", nil, token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body struct {
		Success     bool   `json:"success"`
		Message     string `json:"message"`
		RedirectURL string `json:"redirect_url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Message, "30 minutes of inactivity")
	assert.Contains(t, body.RedirectURL, "/login.html")

	// The terminal transition is persisted, not just decided.
	var reloaded models.UserSession
	require.NoError(t, db.First(&reloaded, sess.ID).Error)
	assert.False(t, reloaded.IsActive)
	assert.Equal(t, session.ReasonTimeout, reloaded.RevokedReason)

	// The credential is gone, so a retry is rejected before session checks.
	var count int64
	db.Model(&models.AccessToken{}).Where("id = ?", sess.TokenID).Count(&count)
	assert.Zero(t, count)
}

func TestSessionActivityRejectsRevokedSession(t *testing.T) {
	setupTestDB(t, "mw_revoked")
	r := testRouter()
	user := seedUser(t, "revoked@example.com")

	now := time.Now()
	recent := now.Add(-time.Minute)
	token, sess := seedSession(t, user, now.Add(-10*time.Minute), &recent, false)

	rec := doRequest(r, http.MethodGet, "/me", nil, token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "session has expired")

	// Inactive stays inactive; recent activity never revives it.
	var reloaded models.UserSession
	require.NoError(t, db.First(&reloaded, sess.ID).Error)
	assert.False(t, reloaded.IsActive)
}

func TestSessionActivityFailsOpenWithoutSessionRow(t *testing.T) {
	setupTestDB(t, "mw_failopen")
	r := testRouter()
	user := seedUser(t, "legacy@example.com")

	plain, hash, err := session.NewToken()
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.AccessToken{
		UserID: user.ID, Name: "auth_token", TokenHash: hash,
	}).Error)

	rec := doRequest(r, http.MethodGet, "/me", nil, plain)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionActivityThrottlesHeartbeatWrites(t *testing.T) {
	setupTestDB(t, "mw_throttle")
	r := testRouter()
	user := seedUser(t, "throttle@example.com")

	now := time.Now()
	tenSecondsAgo := now.Add(-10 * time.Second)
	token, sess := seedSession(t, user, now.Add(-10*time.Minute), &tenSecondsAgo, true)

	rec := doRequest(r, http.MethodGet, "/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var reloaded models.UserSession
	require.NoError(t, db.First(&reloaded, sess.ID).Error)
	require.NotNil(t, reloaded.LastActivity)
	assert.WithinDuration(t, tenSecondsAgo, *reloaded.LastActivity, time.Second,
		"heartbeat under a minute old must not be rewritten")
}

func TestSessionActivityTouchesStaleHeartbeat(t *testing.T) {
	setupTestDB(t, "mw_touch")
	r := testRouter()
	user := seedUser(t, "touch@example.com")

	now := time.Now()
	twoMinutesAgo := now.Add(-2 * time.Minute)
	token, sess := seedSession(t, user, now.Add(-10*time.Minute), &twoMinutesAgo, true)

	rec := doRequest(r, http.MethodGet, "/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var reloaded models.UserSession
	require.NoError(t, db.First(&reloaded, sess.ID).Error)
	require.NotNil(t, reloaded.LastActivity)
	assert.WithinDuration(t, now, *reloaded.LastActivity, 5*time.Second)
}

func TestSessionActivityTouchesNilHeartbeat(t *testing.T) {
	setupTestDB(t, "mw_nilheartbeat")
	r := testRouter()
	user := seedUser(t, "nilbeat@example.com")

	now := time.Now()
	token, sess := seedSession(t, user, now.Add(-5*time.Minute), nil, true)

	rec := doRequest(r, http.MethodGet, "/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var reloaded models.UserSession
	require.NoError(t, db.First(&reloaded, sess.ID).Error)
	require.NotNil(t, reloaded.LastActivity)
}

func TestRequireAuthRejectsUnknownToken(t *testing.T) {
	setupTestDB(t, "mw_badtoken")
	r := testRouter()

	rec := doRequest(r, http.MethodGet, "/me", nil, "deadbeef")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(r, http.MethodGet, "/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminBlocksStudents(t *testing.T) {
	setupTestDB(t, "mw_admin")
	r := testRouter()
	user := seedUser(t, "student@example.com")

	now := time.Now()
	recent := now.Add(-time.Minute)
	token, _ := seedSession(t, user, now.Add(-5*time.Minute), &recent, true)

	rec := doRequest(r, http.MethodGet, "/admin/analytics", nil, token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("role", models.RoleAdmin).Error)
	rec = doRequest(r, http.MethodGet, "/admin/analytics", nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJanitorExpiresStaleSessions(t *testing.T) {
	setupTestDB(t, "mw_janitor")
	user := seedUser(t, "janitor@example.com")

	now := time.Now()
	stale := now.Add(-45 * time.Minute)
	fresh := now.Add(-5 * time.Minute)
	_, staleSess := seedSession(t, user, now.Add(-2*time.Hour), &stale, true)
	_, freshSess := seedSession(t, user, now.Add(-time.Hour), &fresh, true)

	runCleanup(now)

	var reloaded models.UserSession
	require.NoError(t, db.First(&reloaded, staleSess.ID).Error)
	assert.False(t, reloaded.IsActive)
	assert.Equal(t, session.ReasonTimeout, reloaded.RevokedReason)

	reloaded = models.UserSession{}
	require.NoError(t, db.First(&reloaded, freshSess.ID).Error)
	assert.True(t, reloaded.IsActive)
}

func TestJanitorPurgesExpiredPasswordResets(t *testing.T) {
	setupTestDB(t, "mw_janitor_resets")

	old := models.PasswordReset{Email: "old@example.com", TokenHash: []byte("x")}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Model(&old).
		UpdateColumn("created_at", time.Now().Add(-2*time.Hour)).Error)
	recent := models.PasswordReset{Email: "new@example.com", TokenHash: []byte("y")}
	require.NoError(t, db.Create(&recent).Error)

	runCleanup(time.Now())

	var count int64
	db.Model(&models.PasswordReset{}).Count(&count)
	assert.EqualValues(t, 1, count)
	assert.ErrorIs(t, db.First(&models.PasswordReset{}, old.ID).Error, gorm.ErrRecordNotFound)
}
