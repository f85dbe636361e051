package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/a20ro/student-organizer-backend/models"

	"github.com/gin-gonic/gin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(raw)
}

func extractToken(t *testing.T, body []byte) string {
	t.Helper()
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func TestSignupLoginLogoutLifecycle(t *testing.T) {
	setupTestDB(t, "auth_lifecycle")
	r := testRouter()

	rec := doRequest(r, http.MethodPost, "/signup", jsonBody(t, gin.H{
		"name":                  "Ada",
		"email":                 "ada@example.com",
		"password":              "correct-horse",
		"password_confirmation": "correct-horse",
		"major":                 "Mathematics",
	}), "")
	require.Equal(t, http.StatusCreated, rec.Code)
	signupToken := extractToken(t, rec.Body.Bytes())

	// Signup creates a session row for the issued token.
	var sessions int64
	db.Model(&models.UserSession{}).Count(&sessions)
	assert.EqualValues(t, 1, sessions)

	rec = doRequest(r, http.MethodGet, "/me", nil, signupToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ada@example.com")

	// Second login issues a second, independent session.
	rec = doRequest(r, http.MethodPost, "/login", jsonBody(t, gin.H{
		"email":    "ada@example.com",
		"password": "correct-horse",
	}), "")
	require.Equal(t, http.StatusOK, rec.Code)
	loginToken := extractToken(t, rec.Body.Bytes())
	require.NotEqual(t, signupToken, loginToken)
	db.Model(&models.UserSession{}).Count(&sessions)
	assert.EqualValues(t, 2, sessions)

	// Logout kills only the presented credential.
	rec = doRequest(r, http.MethodPost, "/logout", nil, loginToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/me", nil, loginToken).Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/me", nil, signupToken).Code)
}

func TestLoginRejectsBadPasswordAndLogsIt(t *testing.T) {
	setupTestDB(t, "auth_badpassword")
	r := testRouter()

	hashed, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Name: "Bob", Email: "bob@example.com",
		HashedPassword: hashed,
		Role:           models.RoleStudent, Status: models.StatusActive,
	}).Error)

	rec := doRequest(r, http.MethodPost, "/login", jsonBody(t, gin.H{
		"email":    "bob@example.com",
		"password": "wrong-password",
	}), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var logs int64
	db.Model(&models.SystemLog{}).Where("type = ?", models.LogTypeAuthFailure).Count(&logs)
	assert.EqualValues(t, 1, logs)
}

func TestLoginRejectsSuspendedAccount(t *testing.T) {
	setupTestDB(t, "auth_suspended")
	r := testRouter()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Name: "Sam", Email: "sam@example.com",
		HashedPassword: hashed,
		Role:           models.RoleStudent, Status: models.StatusActive,
	}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Model(&user).Update("status", models.StatusSuspended).Error)

	rec := doRequest(r, http.MethodPost, "/login", jsonBody(t, gin.H{
		"email":    "sam@example.com",
		"password": "password123",
	}), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "suspended")
}

func TestSignupRejectsMismatchedConfirmation(t *testing.T) {
	setupTestDB(t, "auth_mismatch")
	r := testRouter()

	rec := doRequest(r, http.MethodPost, "/signup", jsonBody(t, gin.H{
		"name":                  "Eve",
		"email":                 "eve@example.com",
		"password":              "password123",
		"password_confirmation": "password456",
	}), "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestForgotPasswordIsConstantResponse(t *testing.T) {
	setupTestDB(t, "auth_forgot")
	r := testRouter()
	seedUser(t, "known@example.com")

	known := doRequest(r, http.MethodPost, "/forgot-password", jsonBody(t, gin.H{
		"email": "known@example.com",
	}), "")
	unknown := doRequest(r, http.MethodPost, "/forgot-password", jsonBody(t, gin.H{
		"email": "nobody@example.com",
	}), "")

	require.Equal(t, http.StatusOK, known.Code)
	require.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String(),
		"account existence must not be observable")

	// Only the real account gets a reset row.
	var count int64
	db.Model(&models.PasswordReset{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestResetPasswordWithExpiredToken(t *testing.T) {
	setupTestDB(t, "auth_reset_expired")
	r := testRouter()
	seedUser(t, "reset@example.com")

	hash, err := bcrypt.GenerateFromPassword([]byte("sometoken"), bcrypt.MinCost)
	require.NoError(t, err)
	reset := models.PasswordReset{Email: "reset@example.com", TokenHash: hash}
	require.NoError(t, db.Create(&reset).Error)
	require.NoError(t, db.Model(&reset).
		UpdateColumn("created_at", time.Now().Add(-90*time.Minute)).Error)

	rec := doRequest(r, http.MethodPost, "/reset-password", jsonBody(t, gin.H{
		"email":                 "reset@example.com",
		"token":                 "sometoken",
		"password":              "newpassword1",
		"password_confirmation": "newpassword1",
	}), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
}

