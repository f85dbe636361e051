package main

import (
	"net/http"
	"time"

	"github.com/a20ro/student-organizer-backend/models"

	"github.com/gin-gonic/gin"
)

func listEventsHandler(c *gin.Context) {
	user := currentUser(c)
	tx := db.Where("user_id = ?", user.ID)
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			tx = tx.Where("date >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			tx = tx.Where("date <= ?", t)
		}
	}
	var events []models.Event
	if err := tx.Order("date ASC, time ASC").Find(&events).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list events.")
		return
	}
	respondData(c, http.StatusOK, events)
}

func getEventHandler(c *gin.Context) {
	user := currentUser(c)
	var event models.Event
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&event).Error; err != nil {
		respondError(c, http.StatusNotFound, "Event not found.")
		return
	}
	respondData(c, http.StatusOK, event)
}

type eventRequest struct {
	Title          string     `json:"title" binding:"required,max=255"`
	Description    string     `json:"description"`
	Date           string     `json:"date" binding:"required"`
	Time           string     `json:"time"`
	Location       string     `json:"location" binding:"max=255"`
	ReminderBefore string     `json:"reminder_before" binding:"max=50"`
	CourseID       *uint      `json:"course_id"`
	EndDatetime    *time.Time `json:"end_datetime"`
}

func (r *eventRequest) parseDate() (time.Time, bool) {
	t, err := time.Parse("2006-01-02", r.Date)
	return t, err == nil
}

func createEventHandler(c *gin.Context) {
	user := currentUser(c)
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	date, ok := req.parseDate()
	if !ok {
		respondError(c, http.StatusUnprocessableEntity, "date must be in YYYY-MM-DD format.")
		return
	}
	event := models.Event{
		UserID:         user.ID,
		Title:          req.Title,
		Description:    req.Description,
		Date:           date,
		Time:           req.Time,
		Location:       req.Location,
		ReminderBefore: req.ReminderBefore,
		CourseID:       req.CourseID,
		EndDatetime:    req.EndDatetime,
	}
	if err := db.Create(&event).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}
	autoSyncEvent(user, &event)
	respondMessageData(c, http.StatusCreated, "Event created successfully.", event)
}

func updateEventHandler(c *gin.Context) {
	user := currentUser(c)
	var event models.Event
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&event).Error; err != nil {
		respondError(c, http.StatusNotFound, "Event not found.")
		return
	}
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	date, ok := req.parseDate()
	if !ok {
		respondError(c, http.StatusUnprocessableEntity, "date must be in YYYY-MM-DD format.")
		return
	}
	event.Title = req.Title
	event.Description = req.Description
	event.Date = date
	event.Time = req.Time
	event.Location = req.Location
	event.ReminderBefore = req.ReminderBefore
	event.CourseID = req.CourseID
	event.EndDatetime = req.EndDatetime
	if err := db.Save(&event).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}
	autoSyncEvent(user, &event)
	respondMessageData(c, http.StatusOK, "Event updated successfully.", event)
}

func deleteEventHandler(c *gin.Context) {
	user := currentUser(c)
	var event models.Event
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&event).Error; err != nil {
		respondError(c, http.StatusNotFound, "Event not found.")
		return
	}
	if err := db.Delete(&event).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}
	respondMessage(c, http.StatusOK, "Event deleted successfully.")
}

// autoSyncEvent pushes the event to Google Calendar when the account is
// linked. Failures are logged but never fail the write that triggered them.
func autoSyncEvent(user *models.User, event *models.Event) {
	if !user.HasGoogleLinked() {
		return
	}
	if _, err := pushEventToGoogle(user, event); err != nil {
		logger.Warn().Err(err).Uint("event_id", event.ID).Msg("google auto-sync failed")
	}
}
