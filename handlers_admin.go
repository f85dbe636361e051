package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/a20ro/student-organizer-backend/models"
	"github.com/a20ro/student-organizer-backend/pkg/session"

	"github.com/gin-gonic/gin"
)

func pageParams(c *gin.Context, perPage int) (page, offset int) {
	page = 1
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	return page, (page - 1) * perPage
}

func paginated(c *gin.Context, items any, total int64, page, perPage int) {
	respondData(c, http.StatusOK, gin.H{
		"items":     items,
		"total":     total,
		"page":      page,
		"per_page":  perPage,
		"last_page": (total + int64(perPage) - 1) / int64(perPage),
	})
}

// --- Analytics ---

func adminAnalyticsHandler(c *gin.Context) {
	var totalUsers, students, admins, suspended, recent int64
	db.Model(&models.User{}).Count(&totalUsers)
	db.Model(&models.User{}).Where("role = ?", models.RoleStudent).Count(&students)
	db.Model(&models.User{}).Where("role IN ?", []string{models.RoleAdmin, models.RoleSuperAdmin}).Count(&admins)
	db.Model(&models.User{}).Where("status = ?", models.StatusSuspended).Count(&suspended)
	db.Model(&models.User{}).Where("created_at >= ?", time.Now().AddDate(0, 0, -30)).Count(&recent)

	var aiSessions, aiMessages int64
	db.Model(&models.AiSession{}).Count(&aiSessions)
	db.Model(&models.AiMessage{}).Count(&aiMessages)

	var recentErrors []models.SystemLog
	db.Where("level IN ?", []string{models.LogError, models.LogCritical}).
		Order("created_at DESC").Limit(10).Find(&recentErrors)

	respondData(c, http.StatusOK, gin.H{
		"users": gin.H{
			"total":          totalUsers,
			"students":       students,
			"admins":         admins,
			"suspended":      suspended,
			"recent_signups": recent,
		},
		"ai": gin.H{
			"sessions": aiSessions,
			"messages": aiMessages,
		},
		"recent_errors": recentErrors,
		"subscriptions": gin.H{"active": 0, "note": "billing not yet enabled"},
	})
}

// --- User management ---

func adminListUsersHandler(c *gin.Context) {
	const perPage = 20
	page, offset := pageParams(c, perPage)

	tx := db.Model(&models.User{})
	if q := c.Query("search"); q != "" {
		like := "%" + q + "%"
		tx = tx.Where("name LIKE ? OR email LIKE ?", like, like)
	}
	if role := c.Query("role"); role != "" {
		tx = tx.Where("role = ?", role)
	}
	if status := c.Query("status"); status != "" {
		tx = tx.Where("status = ?", status)
	}

	var total int64
	tx.Count(&total)
	var users []models.User
	if err := tx.Order("created_at DESC").Limit(perPage).Offset(offset).Find(&users).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list users.")
		return
	}
	paginated(c, users, total, page, perPage)
}

func adminShowUserHandler(c *gin.Context) {
	var user models.User
	if err := db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found.")
		return
	}

	var semesters, transactions, goals, habits, sessions int64
	db.Model(&models.Semester{}).Where("user_id = ?", user.ID).Count(&semesters)
	db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&transactions)
	db.Model(&models.Goal{}).Where("user_id = ?", user.ID).Count(&goals)
	db.Model(&models.Habit{}).Where("user_id = ?", user.ID).Count(&habits)
	db.Model(&models.UserSession{}).Where("user_id = ? AND is_active = ?", user.ID, true).Count(&sessions)

	respondData(c, http.StatusOK, gin.H{
		"user": user,
		"activity": gin.H{
			"semesters":       semesters,
			"transactions":    transactions,
			"goals":           goals,
			"habits":          habits,
			"active_sessions": sessions,
		},
	})
}

// canActOnUser applies the back-office privilege rules: nobody touches a
// super admin, and only a super admin may act on another admin.
func canActOnUser(actor, target *models.User) bool {
	if target.IsSuperAdmin() {
		return false
	}
	if target.IsAdmin() && !actor.IsSuperAdmin() {
		return false
	}
	return true
}

func adminUpdateRoleHandler(c *gin.Context) {
	actor := currentUser(c)
	var target models.User
	if err := db.First(&target, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found.")
		return
	}
	var req struct {
		Role string `json:"role" binding:"required,oneof=student admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	if !canActOnUser(actor, &target) {
		respondError(c, http.StatusForbidden, "You do not have permission to modify this user.")
		return
	}
	if err := db.Model(&target).Update("role", req.Role).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update role.")
		return
	}
	recordSystemLog("admin_action", models.LogInfo,
		"Changed role of user "+target.Email+" to "+req.Role,
		gin.H{"target_user_id": target.ID, "new_role": req.Role}, c, &actor.ID)
	respondMessage(c, http.StatusOK, "User role updated.")
}

func adminSuspendUserHandler(c *gin.Context) {
	actor := currentUser(c)
	var target models.User
	if err := db.First(&target, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found.")
		return
	}
	if !canActOnUser(actor, &target) {
		respondError(c, http.StatusForbidden, "You do not have permission to suspend this user.")
		return
	}
	if err := db.Model(&target).Update("status", models.StatusSuspended).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to suspend user.")
		return
	}
	// Suspension kills every live session immediately.
	db.Model(&models.UserSession{}).Where("user_id = ? AND is_active = ?", target.ID, true).
		Updates(map[string]any{"is_active": false, "revoked_reason": session.ReasonRevoked})
	db.Where("user_id = ?", target.ID).Delete(&models.AccessToken{})

	recordSystemLog("admin_action", models.LogWarning,
		"Suspended user "+target.Email,
		gin.H{"target_user_id": target.ID}, c, &actor.ID)
	respondMessage(c, http.StatusOK, "User suspended.")
}

func adminActivateUserHandler(c *gin.Context) {
	actor := currentUser(c)
	var target models.User
	if err := db.First(&target, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found.")
		return
	}
	if !canActOnUser(actor, &target) {
		respondError(c, http.StatusForbidden, "You do not have permission to modify this user.")
		return
	}
	if err := db.Model(&target).Update("status", models.StatusActive).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to activate user.")
		return
	}
	recordSystemLog("admin_action", models.LogInfo,
		"Reactivated user "+target.Email,
		gin.H{"target_user_id": target.ID}, c, &actor.ID)
	respondMessage(c, http.StatusOK, "User activated.")
}

func adminDeleteUserHandler(c *gin.Context) {
	actor := currentUser(c)
	var target models.User
	if err := db.First(&target, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found.")
		return
	}
	if !canActOnUser(actor, &target) {
		respondError(c, http.StatusForbidden, "You do not have permission to delete this user.")
		return
	}
	if err := db.Delete(&target).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete user.")
		return
	}
	db.Where("user_id = ?", target.ID).Delete(&models.AccessToken{})
	db.Where("user_id = ?", target.ID).Delete(&models.UserSession{})

	recordSystemLog("admin_action", models.LogWarning,
		"Deleted user "+target.Email,
		gin.H{"target_user_id": target.ID}, c, &actor.ID)
	respondMessage(c, http.StatusOK, "User deleted.")
}

// --- Announcements ---

func adminListAnnouncementsHandler(c *gin.Context) {
	const perPage = 20
	page, offset := pageParams(c, perPage)

	var total int64
	db.Model(&models.Announcement{}).Count(&total)
	var announcements []models.Announcement
	if err := db.Preload("Admin").Preload("TargetUser").
		Order("created_at DESC").Limit(perPage).Offset(offset).
		Find(&announcements).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list announcements.")
		return
	}
	paginated(c, announcements, total, page, perPage)
}

type announcementRequest struct {
	Title        string     `json:"title" binding:"required,max=255"`
	Message      string     `json:"message" binding:"required"`
	Audience     string     `json:"audience" binding:"required,oneof=all students single"`
	TargetUserID *uint      `json:"target_user_id"`
	ScheduledAt  *time.Time `json:"scheduled_at"`
}

func adminCreateAnnouncementHandler(c *gin.Context) {
	actor := currentUser(c)
	var req announcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	if req.Audience == models.AudienceSingle {
		if req.TargetUserID == nil {
			respondError(c, http.StatusUnprocessableEntity, "target_user_id is required for a single-user announcement.")
			return
		}
		var target models.User
		if err := db.First(&target, "id = ?", *req.TargetUserID).Error; err != nil {
			respondError(c, http.StatusNotFound, "Target user not found.")
			return
		}
	}
	announcement := models.Announcement{
		AdminID:      actor.ID,
		Title:        req.Title,
		Message:      req.Message,
		Audience:     req.Audience,
		TargetUserID: req.TargetUserID,
		ScheduledAt:  req.ScheduledAt,
	}
	if err := db.Create(&announcement).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create announcement.")
		return
	}
	if req.ScheduledAt == nil {
		stats := deliverAnnouncement(&announcement)
		respondMessageData(c, http.StatusCreated, "Announcement created and sent.", gin.H{
			"announcement": announcement,
			"email_stats":  stats,
		})
		return
	}
	respondMessageData(c, http.StatusCreated, "Announcement scheduled.", announcement)
}

func adminShowAnnouncementHandler(c *gin.Context) {
	var announcement models.Announcement
	if err := db.Preload("Admin").Preload("TargetUser").
		First(&announcement, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Announcement not found.")
		return
	}
	respondData(c, http.StatusOK, announcement)
}

func adminSendAnnouncementHandler(c *gin.Context) {
	var announcement models.Announcement
	if err := db.First(&announcement, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Announcement not found.")
		return
	}
	if announcement.SentAt != nil {
		respondError(c, http.StatusBadRequest, "Announcement has already been sent.")
		return
	}
	stats := deliverAnnouncement(&announcement)
	respondMessageData(c, http.StatusOK, "Announcement sent.", gin.H{
		"announcement": announcement,
		"email_stats":  stats,
	})
}

func adminDeleteAnnouncementHandler(c *gin.Context) {
	var announcement models.Announcement
	if err := db.First(&announcement, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Announcement not found.")
		return
	}
	if err := db.Delete(&announcement).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete announcement.")
		return
	}
	respondMessage(c, http.StatusOK, "Announcement deleted.")
}

// deliverAnnouncement emails the announcement to its audience and stamps
// SentAt. Per-recipient failures are counted, not fatal.
func deliverAnnouncement(a *models.Announcement) gin.H {
	var recipients []models.User
	tx := db.Where("status = ?", models.StatusActive)
	switch a.Audience {
	case models.AudienceStudents:
		tx = tx.Where("role = ?", models.RoleStudent)
	case models.AudienceSingle:
		tx = tx.Where("id = ?", a.TargetUserID)
	}
	if err := tx.Find(&recipients).Error; err != nil {
		logger.Error().Err(err).Uint("announcement_id", a.ID).Msg("failed to load announcement recipients")
		return gin.H{"sent": 0, "failed": 0, "total": 0}
	}

	sent, failed := 0, 0
	for _, u := range recipients {
		if err := mailer().SendAnnouncement(u.Email, u.Name, a.Title, a.Message); err != nil {
			failed++
			logger.Warn().Err(err).Str("email", u.Email).Msg("announcement email failed")
		} else {
			sent++
		}
	}

	now := time.Now()
	a.SentAt = &now
	if err := db.Model(a).Update("sent_at", now).Error; err != nil {
		logger.Error().Err(err).Uint("announcement_id", a.ID).Msg("failed to stamp announcement sent_at")
	}
	return gin.H{"sent": sent, "failed": failed, "total": len(recipients)}
}

// --- Subscriptions (billing is not enabled yet) ---

func adminSubscriptionsHandler(c *gin.Context) {
	respondData(c, http.StatusOK, gin.H{
		"subscriptions": []any{},
		"note":          "billing not yet enabled",
	})
}

// --- AI monitoring ---

func adminAISessionsHandler(c *gin.Context) {
	const perPage = 20
	page, offset := pageParams(c, perPage)

	var total int64
	db.Model(&models.AiSession{}).Count(&total)
	var sessions []models.AiSession
	if err := db.Preload("User").Order("created_at DESC").
		Limit(perPage).Offset(offset).Find(&sessions).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list AI sessions.")
		return
	}
	paginated(c, sessions, total, page, perPage)
}

func adminAIUsageStatsHandler(c *gin.Context) {
	since := time.Now().AddDate(0, 0, -30)

	type dailyCount struct {
		Day   string `json:"day"`
		Count int64  `json:"count"`
	}
	var daily []dailyCount
	db.Model(&models.AiMessage{}).
		Select("DATE(created_at) AS day, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").Order("day ASC").
		Scan(&daily)

	var totalSessions, totalMessages int64
	db.Model(&models.AiSession{}).Count(&totalSessions)
	db.Model(&models.AiMessage{}).Count(&totalMessages)

	respondData(c, http.StatusOK, gin.H{
		"daily_messages": daily,
		"total_sessions": totalSessions,
		"total_messages": totalMessages,
	})
}

func adminAIFlaggedHandler(c *gin.Context) {
	// Content moderation has no pipeline yet; the endpoint exists so the
	// back office can ship against a stable contract.
	respondData(c, http.StatusOK, gin.H{
		"flagged": []any{},
		"note":    "content moderation not yet enabled",
	})
}

func adminAIFailedHandler(c *gin.Context) {
	var logs []models.SystemLog
	if err := db.Where("type = ?", models.LogTypeAIError).
		Order("created_at DESC").Limit(50).Find(&logs).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list AI failures.")
		return
	}
	respondData(c, http.StatusOK, logs)
}

// --- System settings ---

func adminSystemSettingsHandler(c *gin.Context) {
	respondData(c, http.StatusOK, gin.H{
		"app_name":         "Student Organizer",
		"frontend_url":     frontendURL(),
		"session_timeout":  "30m",
		"upload_limit_mib": 10,
	})
}

func adminUpdateSettingsHandler(c *gin.Context) {
	// Settings are environment-driven; runtime mutation is not supported.
	respondError(c, http.StatusBadRequest, "Settings are managed through environment configuration.")
}

// --- System logs ---

func adminListLogsHandler(c *gin.Context) {
	const perPage = 50
	page, offset := pageParams(c, perPage)

	tx := db.Model(&models.SystemLog{})
	if v := c.Query("admin_id"); v != "" {
		tx = tx.Where("admin_id = ?", v)
	}
	if v := c.Query("type"); v != "" {
		tx = tx.Where("type = ?", v)
	}
	if v := c.Query("level"); v != "" {
		tx = tx.Where("level = ?", v)
	}
	if v := c.Query("from_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			tx = tx.Where("created_at >= ?", t)
		}
	}
	if v := c.Query("to_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			tx = tx.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}

	var total int64
	tx.Count(&total)
	var logs []models.SystemLog
	if err := tx.Preload("Admin").Order("created_at DESC").
		Limit(perPage).Offset(offset).Find(&logs).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list logs.")
		return
	}
	paginated(c, logs, total, page, perPage)
}

func adminShowLogHandler(c *gin.Context) {
	var log models.SystemLog
	if err := db.Preload("Admin").First(&log, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Log entry not found.")
		return
	}
	respondData(c, http.StatusOK, log)
}

func adminLogErrorsHandler(c *gin.Context) {
	var logs []models.SystemLog
	if err := db.Where("level IN ?", []string{models.LogError, models.LogCritical}).
		Order("created_at DESC").Limit(50).Find(&logs).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list error logs.")
		return
	}
	respondData(c, http.StatusOK, logs)
}

func adminLogAuthFailuresHandler(c *gin.Context) {
	var logs []models.SystemLog
	if err := db.Where("type = ?", models.LogTypeAuthFailure).
		Order("created_at DESC").Limit(50).Find(&logs).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list auth failures.")
		return
	}
	respondData(c, http.StatusOK, logs)
}

func adminLogAPIErrorsHandler(c *gin.Context) {
	var logs []models.SystemLog
	if err := db.Where("type = ?", models.LogTypeAPIError).
		Order("created_at DESC").Limit(50).Find(&logs).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list API errors.")
		return
	}
	respondData(c, http.StatusOK, logs)
}
