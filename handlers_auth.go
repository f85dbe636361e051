package main

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/a20ro/student-organizer-backend/models"
	"github.com/a20ro/student-organizer-backend/pkg/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func signupHandler(c *gin.Context) {
	var req struct {
		Name                 string `json:"name" binding:"required,max=255"`
		Email                string `json:"email" binding:"required,email,max=255"`
		Password             string `json:"password" binding:"required,min=8"`
		PasswordConfirmation string `json:"password_confirmation" binding:"required"`
		Avatar               string `json:"avatar" binding:"max=255"`
		Major                string `json:"major" binding:"max=255"`
		University           string `json:"university" binding:"max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	if req.Password != req.PasswordConfirmation {
		respondError(c, http.StatusUnprocessableEntity, "Password confirmation does not match")
		return
	}

	user, err := registerUser(req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	user.Avatar = req.Avatar
	user.Major = req.Major
	user.University = req.University
	if req.Avatar != "" || req.Major != "" || req.University != "" {
		db.Save(user)
	}

	token, err := issueToken(c, user, "auth_token")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"data":    gin.H{"user": user, "token": token, "token_type": "Bearer"},
	})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	user, err := authenticate(req.Email, req.Password)
	if err != nil {
		recordSystemLog(models.LogTypeAuthFailure, models.LogWarning,
			"Failed login attempt for "+req.Email, gin.H{"email": req.Email}, c, nil)
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if user.IsSuspended() {
		respondError(c, http.StatusForbidden, "Your account has been suspended. Please contact support.")
		return
	}

	now := time.Now()
	user.LastLogin = &now
	db.Model(&models.User{}).Where("id = ?", user.ID).Update("last_login", now)

	token, err := issueToken(c, user, "auth_token")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	respondMessageData(c, http.StatusOK, "Login successful",
		gin.H{"user": user, "token": token, "token_type": "Bearer"})
}

func logoutHandler(c *gin.Context) {
	tokenID := currentTokenID(c)

	db.Model(&models.UserSession{}).Where("token_id = ?", tokenID).Updates(map[string]any{
		"is_active":      false,
		"revoked_reason": session.ReasonRevoked,
	})
	db.Delete(&models.AccessToken{}, tokenID)

	respondMessage(c, http.StatusOK, "Logged out successfully")
}

func meHandler(c *gin.Context) {
	respondData(c, http.StatusOK, gin.H{"user": currentUser(c)})
}

func forgotPasswordHandler(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Same response whether or not the account exists.
	const accepted = "If that email exists, we have sent a password reset link."

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		respondMessage(c, http.StatusOK, accepted)
		return
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate reset token")
		return
	}
	plain := hex.EncodeToString(raw)
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate reset token")
		return
	}

	db.Where("email = ?", email).Delete(&models.PasswordReset{})
	if err := db.Create(&models.PasswordReset{Email: email, TokenHash: hash}).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to store reset token")
		return
	}

	resetURL := frontendURL() + "/reset-password.html?token=" + plain + "&email=" + url.QueryEscape(email)
	if err := mailer().SendPasswordReset(user.Email, user.Name, resetURL); err != nil {
		logger.Error().Err(err).Str("email", email).Msg("password reset email failed")
		respondError(c, http.StatusInternalServerError, "Failed to send password reset email. Please try again later.")
		return
	}
	respondMessage(c, http.StatusOK, accepted)
}

func resetPasswordHandler(c *gin.Context) {
	var req struct {
		Email                string `json:"email" binding:"required,email"`
		Token                string `json:"token" binding:"required"`
		Password             string `json:"password" binding:"required,min=8"`
		PasswordConfirmation string `json:"password_confirmation" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	if req.Password != req.PasswordConfirmation {
		respondError(c, http.StatusUnprocessableEntity, "Password confirmation does not match")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var reset models.PasswordReset
	if err := db.Where("email = ?", email).First(&reset).Error; err != nil {
		respondError(c, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}
	if err := bcrypt.CompareHashAndPassword(reset.TokenHash, []byte(req.Token)); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}
	if time.Since(reset.CreatedAt) > models.ResetTokenTTL {
		db.Where("email = ?", email).Delete(&models.PasswordReset{})
		respondError(c, http.StatusBadRequest, "Reset token has expired. Please request a new one.")
		return
	}

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update password")
		return
	}
	db.Model(&models.User{}).Where("id = ?", user.ID).Update("hashed_password", hashed)
	db.Where("email = ?", email).Delete(&models.PasswordReset{})

	respondMessage(c, http.StatusOK, "Password has been reset successfully")
}
