package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/a20ro/student-organizer-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSessionsReturnsOnlyOwnDevices(t *testing.T) {
	setupTestDB(t, "sess_list")
	r := testRouter()

	now := time.Now()
	recent := now.Add(-time.Minute)
	older := now.Add(-20 * time.Minute)

	user := seedUser(t, "me@example.com")
	token, _ := seedSession(t, user, now.Add(-time.Hour), &recent, true)
	seedSession(t, user, now.Add(-time.Hour), &older, true)

	other := seedUser(t, "other@example.com")
	seedSession(t, other, now.Add(-time.Hour), &recent, true)

	rec := doRequest(r, http.MethodGet, "/sessions", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []models.UserSession `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	for _, s := range body.Data {
		assert.Equal(t, user.ID, s.UserID)
	}
	// Most recently active first.
	require.NotNil(t, body.Data[0].LastActivity)
	require.NotNil(t, body.Data[1].LastActivity)
	assert.True(t, body.Data[0].LastActivity.After(*body.Data[1].LastActivity))
}

func TestRevokeSessionKillsThatDevice(t *testing.T) {
	setupTestDB(t, "sess_revoke_one")
	r := testRouter()

	now := time.Now()
	recent := now.Add(-time.Minute)
	user := seedUser(t, "me@example.com")
	keepToken, _ := seedSession(t, user, now.Add(-time.Hour), &recent, true)
	dropToken, dropSess := seedSession(t, user, now.Add(-time.Hour), &recent, true)

	rec := doRequest(r, http.MethodDelete, fmt.Sprintf("/sessions/%d", dropSess.ID), nil, keepToken)
	require.Equal(t, http.StatusOK, rec.Code)

	// The revoked device is out immediately.
	rec = doRequest(r, http.MethodGet, "/me", nil, dropToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// The revoking device is unaffected.
	rec = doRequest(r, http.MethodGet, "/me", nil, keepToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	var count int64
	db.Model(&models.AccessToken{}).Where("id = ?", dropSess.TokenID).Count(&count)
	assert.Zero(t, count)
}

func TestRevokeSessionOfAnotherUserIs404(t *testing.T) {
	setupTestDB(t, "sess_revoke_cross")
	r := testRouter()

	now := time.Now()
	recent := now.Add(-time.Minute)
	user := seedUser(t, "me@example.com")
	token, _ := seedSession(t, user, now.Add(-time.Hour), &recent, true)

	other := seedUser(t, "other@example.com")
	otherToken, otherSess := seedSession(t, other, now.Add(-time.Hour), &recent, true)

	rec := doRequest(r, http.MethodDelete, fmt.Sprintf("/sessions/%d", otherSess.ID), nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The target session is untouched.
	rec = doRequest(r, http.MethodGet, "/me", nil, otherToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRevokeAllSparesCurrentSession(t *testing.T) {
	setupTestDB(t, "sess_revoke_all")
	r := testRouter()

	now := time.Now()
	recent := now.Add(-time.Minute)
	user := seedUser(t, "me@example.com")
	current, _ := seedSession(t, user, now.Add(-time.Hour), &recent, true)
	phone, _ := seedSession(t, user, now.Add(-time.Hour), &recent, true)
	tablet, _ := seedSession(t, user, now.Add(-time.Hour), &recent, true)

	rec := doRequest(r, http.MethodPost, "/sessions/revoke-all", nil, current)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/me", nil, phone).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/me", nil, tablet).Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/me", nil, current).Code)

	var count int64
	db.Model(&models.UserSession{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}
