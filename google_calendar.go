package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/a20ro/student-organizer-backend/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

const calendarAPIBase = "https://www.googleapis.com/calendar/v3/calendars/primary/events"

// userTokenSource wraps the stored Google credentials in an auto-refreshing
// token source and persists any refreshed access token back to the row.
func userTokenSource(user *models.User) oauth2.TokenSource {
	tok := &oauth2.Token{
		AccessToken:  user.GoogleAccessToken,
		RefreshToken: user.GoogleRefreshToken,
	}
	if user.GoogleTokenExpiry != nil {
		tok.Expiry = *user.GoogleTokenExpiry
	}
	src := googleConfig().TokenSource(context.Background(), tok)
	return oauth2.ReuseTokenSource(tok, &persistingSource{user: user, inner: src})
}

type persistingSource struct {
	user  *models.User
	inner oauth2.TokenSource
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := p.inner.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != p.user.GoogleAccessToken {
		updates := map[string]any{
			"google_access_token": tok.AccessToken,
			"google_token_expiry": tok.Expiry,
		}
		if tok.RefreshToken != "" {
			updates["google_refresh_token"] = tok.RefreshToken
		}
		if err := db.Model(&models.User{}).Where("id = ?", p.user.ID).Updates(updates).Error; err != nil {
			logger.Warn().Err(err).Uint("user_id", p.user.ID).Msg("failed to persist refreshed google token")
		}
		p.user.GoogleAccessToken = tok.AccessToken
	}
	return tok, nil
}

type calendarEventBody struct {
	Summary     string            `json:"summary"`
	Description string            `json:"description,omitempty"`
	Location    string            `json:"location,omitempty"`
	Start       calendarEventTime `json:"start"`
	End         calendarEventTime `json:"end"`
}

type calendarEventTime struct {
	Date     string `json:"date,omitempty"`
	DateTime string `json:"dateTime,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

type calendarEventResult struct {
	ID       string `json:"id"`
	HTMLLink string `json:"htmlLink"`
}

// upsertCalendarEvent creates or updates an event in the user's primary
// calendar and returns Google's id and link.
func upsertCalendarEvent(user *models.User, googleEventID string, body calendarEventBody) (*calendarEventResult, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	method, url := http.MethodPost, calendarAPIBase
	if googleEventID != "" {
		method, url = http.MethodPut, calendarAPIBase+"/"+googleEventID
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := oauth2.NewClient(context.Background(), userTokenSource(user))
	client.Timeout = 15 * time.Second
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("google calendar: unexpected status %d", resp.StatusCode)
	}
	var result calendarEventResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// pushEventToGoogle mirrors a local event into Google Calendar, storing the
// returned event id so later pushes update instead of duplicating.
func pushEventToGoogle(user *models.User, event *models.Event) (string, error) {
	body := calendarEventBody{
		Summary:     event.Title,
		Description: event.Description,
		Location:    event.Location,
	}
	day := event.Date.Format("2006-01-02")
	if event.Time != "" {
		start := day + "T" + event.Time + ":00"
		body.Start = calendarEventTime{DateTime: start, TimeZone: "UTC"}
		if event.EndDatetime != nil {
			body.End = calendarEventTime{DateTime: event.EndDatetime.Format("2006-01-02T15:04:05"), TimeZone: "UTC"}
		} else {
			body.End = calendarEventTime{DateTime: start, TimeZone: "UTC"}
		}
	} else {
		body.Start = calendarEventTime{Date: day}
		body.End = calendarEventTime{Date: day}
	}

	result, err := upsertCalendarEvent(user, event.GoogleEventID, body)
	if err != nil {
		return "", err
	}
	if result.ID != event.GoogleEventID {
		if err := db.Model(event).Update("google_event_id", result.ID).Error; err != nil {
			logger.Warn().Err(err).Uint("event_id", event.ID).Msg("failed to store google event id")
		}
		event.GoogleEventID = result.ID
	}
	return result.HTMLLink, nil
}

func syncEventHandler(c *gin.Context) {
	user := currentUser(c)
	if !user.HasGoogleLinked() {
		respondError(c, http.StatusBadRequest, "Google account is not connected.")
		return
	}
	var event models.Event
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&event).Error; err != nil {
		respondError(c, http.StatusNotFound, "Event not found.")
		return
	}
	link, err := pushEventToGoogle(user, &event)
	if err != nil {
		logger.Warn().Err(err).Uint("event_id", event.ID).Msg("google sync failed")
		respondError(c, http.StatusBadGateway, "Failed to sync with Google Calendar.")
		return
	}
	respondMessageData(c, http.StatusOK, "Event synced to Google Calendar.", gin.H{
		"google_event_id": event.GoogleEventID,
		"html_link":       link,
	})
}

// syncAssessmentHandler pushes an assessment's due date to the calendar as an
// all-day event.
func syncAssessmentHandler(c *gin.Context) {
	user := currentUser(c)
	if !user.HasGoogleLinked() {
		respondError(c, http.StatusBadRequest, "Google account is not connected.")
		return
	}
	assessment, ok := userAssessment(user.ID, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Assessment not found.")
		return
	}
	if assessment.DueDate == nil {
		respondError(c, http.StatusBadRequest, "Assessment has no due date to sync.")
		return
	}

	day := assessment.DueDate.Format("2006-01-02")
	body := calendarEventBody{
		Summary:     assessment.Title + " (" + assessment.Type + ")",
		Description: "Assessment due date",
		Start:       calendarEventTime{Date: day},
		End:         calendarEventTime{Date: day},
	}
	result, err := upsertCalendarEvent(user, assessment.GoogleEventID, body)
	if err != nil {
		logger.Warn().Err(err).Uint("assessment_id", assessment.ID).Msg("google sync failed")
		respondError(c, http.StatusBadGateway, "Failed to sync with Google Calendar.")
		return
	}
	if result.ID != assessment.GoogleEventID {
		if err := db.Model(assessment).Update("google_event_id", result.ID).Error; err != nil {
			logger.Warn().Err(err).Uint("assessment_id", assessment.ID).Msg("failed to store google event id")
		}
		assessment.GoogleEventID = result.ID
	}
	respondMessageData(c, http.StatusOK, "Assessment synced to Google Calendar.", gin.H{
		"google_event_id": assessment.GoogleEventID,
		"html_link":       result.HTMLLink,
	})
}
