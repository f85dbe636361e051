package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/a20ro/student-organizer-backend/models"
	"github.com/a20ro/student-organizer-backend/pkg/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB points the package-level db at a fresh in-memory database.
// Each test passes a distinct name because the connection is pooled and
// shared-cache memory databases are keyed by it.
func setupTestDB(t *testing.T, name string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger = zerolog.Nop()

	gdb, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.AccessToken{},
		&models.UserSession{},
		&models.PasswordReset{},
		&models.Semester{},
		&models.Course{},
		&models.Assessment{},
		&models.Note{},
		&models.Event{},
		&models.Transaction{},
		&models.RecurringTransaction{},
		&models.Budget{},
		&models.Goal{},
		&models.Task{},
		&models.Habit{},
		&models.HabitLog{},
		&models.FileAttachment{},
		&models.Announcement{},
		&models.AiSession{},
		&models.AiMessage{},
		&models.SystemLog{},
	))
	db = gdb
}

func testRouter() *gin.Engine {
	r := gin.New()
	setupRoutes(r)
	return r
}

func doRequest(r http.Handler, method, path string, body io.Reader, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// seedUser creates an account directly; the password hash is a placeholder
// because token auth never checks it.
func seedUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{
		Name:           "Test User",
		Email:          email,
		HashedPassword: []byte("unused"),
		Role:           models.RoleStudent,
		Status:         models.StatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedSession mints a token plus its tracking row, then rewrites the
// timestamps so tests can place the session anywhere on the timeline.
func seedSession(t *testing.T, user *models.User, createdAt time.Time, lastActivity *time.Time, active bool) (plain string, sess *models.UserSession) {
	t.Helper()
	plain, hash, err := session.NewToken()
	require.NoError(t, err)
	token := &models.AccessToken{UserID: user.ID, Name: "auth_token", TokenHash: hash}
	require.NoError(t, db.Create(token).Error)

	sess = &models.UserSession{
		UserID:       user.ID,
		TokenID:      token.ID,
		DeviceName:   "test device",
		LastActivity: lastActivity,
		IsActive:     active,
	}
	require.NoError(t, db.Create(sess).Error)
	require.NoError(t, db.Model(sess).UpdateColumn("created_at", createdAt).Error)
	if !active {
		// The column default is true; force the terminal state explicitly.
		require.NoError(t, db.Model(sess).UpdateColumns(map[string]any{
			"is_active":      false,
			"revoked_reason": session.ReasonRevoked,
		}).Error)
	}
	sess.CreatedAt = createdAt
	return plain, sess
}
