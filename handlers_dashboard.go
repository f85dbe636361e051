package main

import (
	"net/http"
	"time"

	"github.com/a20ro/student-organizer-backend/models"

	"github.com/gin-gonic/gin"
)

// dashboardSummaryHandler aggregates the landing-page view: semesters with
// their courses, habits with today's progress, tasks pending this week, and
// the latest announcements addressed to the caller.
func dashboardSummaryHandler(c *gin.Context) {
	user := currentUser(c)
	now := time.Now()
	today := startOfDay(now)
	weekEnd := today.AddDate(0, 0, 7)

	var semesters []models.Semester
	if err := db.Where("user_id = ?", user.ID).Preload("Courses").
		Order("created_at DESC").Find(&semesters).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load dashboard.")
		return
	}

	var habits []models.Habit
	if err := db.Where("user_id = ?", user.ID).
		Preload("Logs", "date = ?", today).
		Order("created_at ASC").Find(&habits).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load dashboard.")
		return
	}

	var tasks []models.Task
	if err := db.Where("user_id = ? AND completed = ?", user.ID, false).
		Where("due_date IS NULL OR (due_date >= ? AND due_date < ?)", today, weekEnd).
		Preload("Goal").Preload("Parent").
		Order("due_date IS NULL, due_date ASC").Find(&tasks).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load dashboard.")
		return
	}

	var announcements []models.Announcement
	tx := db.Where("sent_at IS NOT NULL").Order("sent_at DESC").Limit(5)
	if user.IsAdmin() {
		tx = tx.Where("audience = ? OR (audience = ? AND target_user_id = ?)",
			models.AudienceAll, models.AudienceSingle, user.ID)
	} else {
		tx = tx.Where("audience IN ? OR (audience = ? AND target_user_id = ?)",
			[]string{models.AudienceAll, models.AudienceStudents},
			models.AudienceSingle, user.ID)
	}
	if err := tx.Find(&announcements).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load dashboard.")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"semesters":     semesters,
		"habits":        habits,
		"pending_tasks": tasks,
		"announcements": announcements,
	})
}
