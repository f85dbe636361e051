package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/a20ro/student-organizer-backend/models"
	"github.com/a20ro/student-organizer-backend/pkg/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Context keys set by requireAuth.
const (
	ctxUser    = "user"
	ctxTokenID = "token_id"
)

var errInvalidCredentials = errors.New("invalid credentials")

func registerUser(name, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("email already registered")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Name:           strings.TrimSpace(name),
		Email:          email,
		HashedPassword: hashed,
		Role:           models.RoleStudent,
		Status:         models.StatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) { // race after the initial check
			return nil, fmt.Errorf("email already registered")
		}
		return nil, err
	}
	return &user, nil
}

func authenticate(email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	return &user, nil
}

// issueToken mints an opaque credential for the user and tracks it with a
// fresh active session row capturing the request metadata. The plaintext is
// returned to the caller exactly once.
func issueToken(c *gin.Context, user *models.User, name string) (string, error) {
	plain, hash, err := session.NewToken()
	if err != nil {
		return "", err
	}
	token := models.AccessToken{UserID: user.ID, Name: name, TokenHash: hash}
	if err := db.Create(&token).Error; err != nil {
		return "", err
	}
	now := time.Now()
	sess := models.UserSession{
		UserID:       user.ID,
		TokenID:      token.ID,
		DeviceName:   c.Request.UserAgent(),
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
		LastActivity: &now,
		IsActive:     true,
	}
	if err := db.Create(&sess).Error; err != nil {
		// Don't leave a dangling credential without a session row.
		db.Delete(&models.AccessToken{}, token.ID)
		return "", err
	}
	return plain, nil
}

// currentUser returns the authenticated user placed in the context by
// requireAuth.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUser)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// currentTokenID returns the id of the access token presented on this
// request.
func currentTokenID(c *gin.Context) uint {
	return c.GetUint(ctxTokenID)
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "UNIQUE constraint")
}
