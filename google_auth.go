package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/a20ro/student-organizer-backend/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const calendarScope = "https://www.googleapis.com/auth/calendar.events"

var (
	googleOnce sync.Once
	googleConf *oauth2.Config
)

func googleConfig() *oauth2.Config {
	googleOnce.Do(func() {
		googleConf = &oauth2.Config{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
			Scopes: []string{
				"openid",
				"https://www.googleapis.com/auth/userinfo.profile",
				"https://www.googleapis.com/auth/userinfo.email",
				calendarScope,
			},
			Endpoint: google.Endpoint,
		}
	})
	return googleConf
}

func googleEnabled() bool {
	cfg := googleConfig()
	return cfg.ClientID != "" && cfg.ClientSecret != ""
}

func googleRedirectHandler(c *gin.Context) {
	if !googleEnabled() {
		respondError(c, http.StatusServiceUnavailable, "Google sign-in is not configured.")
		return
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to start Google sign-in.")
		return
	}
	state := hex.EncodeToString(buf)
	c.SetCookie("oauth_state", state, 600, "/", "", false, true)
	url := googleConfig().AuthCodeURL(state,
		oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	c.Redirect(http.StatusTemporaryRedirect, url)
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func fetchGoogleUserInfo(tok *oauth2.Token) (*googleUserInfo, error) {
	client := googleConfig().Client(context.Background(), tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

// googleCallbackHandler finishes the OAuth flow: it exchanges the code,
// upserts the account keyed by email, stores the Google tokens, and
// redirects to the frontend with a freshly issued API token.
func googleCallbackHandler(c *gin.Context) {
	if !googleEnabled() {
		respondError(c, http.StatusServiceUnavailable, "Google sign-in is not configured.")
		return
	}
	wantState, err := c.Cookie("oauth_state")
	if err != nil || wantState == "" || c.Query("state") != wantState {
		respondError(c, http.StatusBadRequest, "Invalid OAuth state.")
		return
	}
	code := c.Query("code")
	if code == "" {
		respondError(c, http.StatusBadRequest, "Missing authorization code.")
		return
	}
	tok, err := googleConfig().Exchange(c.Request.Context(), code)
	if err != nil {
		respondError(c, http.StatusBadGateway, "Failed to complete Google sign-in.")
		return
	}
	info, err := fetchGoogleUserInfo(tok)
	if err != nil || info.Email == "" {
		respondError(c, http.StatusBadGateway, "Failed to load Google profile.")
		return
	}

	var user models.User
	err = db.Where("email = ?", info.Email).First(&user).Error
	if err != nil {
		user = models.User{
			Name:   info.Name,
			Email:  info.Email,
			Avatar: info.Picture,
			Role:   models.RoleStudent,
			Status: models.StatusActive,
			// Placeholder credential; password login stays disabled until
			// the user sets one through the reset flow.
			HashedPassword: []byte("!google-only"),
		}
		if err := db.Create(&user).Error; err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to create account.")
			return
		}
	}
	if user.IsSuspended() {
		respondError(c, http.StatusForbidden, "Your account has been suspended. Please contact support.")
		return
	}

	user.GoogleID = info.ID
	user.GoogleEmail = info.Email
	user.GoogleAccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		user.GoogleRefreshToken = tok.RefreshToken
	}
	if !tok.Expiry.IsZero() {
		expiry := tok.Expiry
		user.GoogleTokenExpiry = &expiry
	}
	now := time.Now()
	user.LastLogin = &now
	if err := db.Save(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to link Google account.")
		return
	}

	apiToken, err := issueToken(c, &user, "google_oauth")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	c.Redirect(http.StatusTemporaryRedirect,
		frontendURL()+"/oauth-complete.html?token="+apiToken+"&google_login=success")
}

func googleDisconnectHandler(c *gin.Context) {
	user := currentUser(c)
	err := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"google_id":            "",
		"google_email":         "",
		"google_access_token":  "",
		"google_refresh_token": "",
		"google_token_expiry":  nil,
	}).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to disconnect Google account.")
		return
	}
	respondMessage(c, http.StatusOK, "Google account disconnected.")
}
