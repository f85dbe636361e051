package main

import "github.com/gin-gonic/gin"

func setupRoutes(r *gin.Engine) {
	r.POST("/signup", signupHandler)
	r.POST("/login", loginHandler)
	r.POST("/forgot-password", forgotPasswordHandler)
	r.POST("/reset-password", resetPasswordHandler)

	r.GET("/auth/google", googleRedirectHandler)
	r.GET("/auth/google/callback", googleCallbackHandler)

	r.GET("/notes/public/:token", showPublicNoteHandler)

	auth := r.Group("")
	auth.Use(requireAuth, sessionActivity)
	{
		auth.POST("/logout", logoutHandler)
		auth.GET("/me", meHandler)
		auth.GET("/dashboard/summary", dashboardSummaryHandler)

		auth.GET("/semesters", listSemestersHandler)
		auth.GET("/semesters/:id", getSemesterHandler)
		auth.POST("/semesters", createSemesterHandler)
		auth.PUT("/semesters/:id", updateSemesterHandler)
		auth.DELETE("/semesters/:id", deleteSemesterHandler)

		auth.GET("/semesters/:id/courses", listCoursesHandler)
		auth.POST("/semesters/:id/courses", createCourseHandler)
		auth.PUT("/courses/:id", updateCourseHandler)
		auth.DELETE("/courses/:id", deleteCourseHandler)

		auth.GET("/courses/:id/assessments", listAssessmentsHandler)
		auth.POST("/courses/:id/assessments", createAssessmentHandler)
		auth.GET("/assessments/:id", getAssessmentHandler)
		auth.PUT("/assessments/:id", updateAssessmentHandler)
		auth.DELETE("/assessments/:id", deleteAssessmentHandler)

		auth.GET("/courses/:id/notes", listNotesHandler)
		auth.POST("/courses/:id/notes", createNoteHandler)
		auth.GET("/notes/search", searchNotesHandler)
		auth.GET("/notes/:id", getNoteHandler)
		auth.PUT("/notes/:id", updateNoteHandler)
		auth.DELETE("/notes/:id", deleteNoteHandler)
		auth.POST("/notes/:id/pin", togglePinHandler)
		auth.POST("/notes/:id/favorite", toggleFavoriteHandler)
		auth.POST("/notes/:id/share", shareNoteHandler)
		auth.POST("/notes/:id/revoke-share", revokeShareHandler)

		auth.GET("/attachments", listAttachmentsHandler)
		auth.POST("/attachments/upload", uploadAttachmentHandler)
		auth.GET("/attachments/:id/download", downloadAttachmentHandler)
		auth.DELETE("/attachments/:id", deleteAttachmentHandler)

		auth.GET("/sessions", listSessionsHandler)
		auth.DELETE("/sessions/:id", revokeSessionHandler)
		auth.POST("/sessions/revoke-all", revokeAllSessionsHandler)

		auth.GET("/transactions", listTransactionsHandler)
		auth.POST("/transactions", createTransactionHandler)
		auth.GET("/transactions/summary", transactionSummaryHandler)
		auth.GET("/transactions/reports", transactionReportsHandler)
		auth.GET("/transactions/export-csv", exportTransactionsCSVHandler)
		auth.PUT("/transactions/:id", updateTransactionHandler)
		auth.DELETE("/transactions/:id", deleteTransactionHandler)

		auth.GET("/recurring-transactions", listRecurringHandler)
		auth.POST("/recurring-transactions", createRecurringHandler)
		auth.PUT("/recurring-transactions/:id", updateRecurringHandler)
		auth.DELETE("/recurring-transactions/:id", deleteRecurringHandler)

		auth.GET("/budgets", listBudgetsHandler)
		auth.POST("/budgets", upsertBudgetHandler)
		auth.PUT("/budgets/:id", updateBudgetHandler)
		auth.DELETE("/budgets/:id", deleteBudgetHandler)

		auth.GET("/goals", listGoalsHandler)
		auth.POST("/goals", createGoalHandler)
		auth.PUT("/goals/:id", updateGoalHandler)
		auth.DELETE("/goals/:id", deleteGoalHandler)
		auth.POST("/goals/:id/complete", completeGoalHandler)

		auth.GET("/tasks", listAllTasksHandler)
		auth.POST("/tasks", createStandaloneTaskHandler)
		auth.GET("/goals/:id/tasks", listGoalTasksHandler)
		auth.POST("/goals/:id/tasks", createGoalTaskHandler)
		auth.PUT("/tasks/:id", updateTaskHandler)
		auth.POST("/tasks/:id/complete", completeTaskHandler)
		auth.DELETE("/tasks/:id", deleteTaskHandler)

		auth.GET("/habits", listHabitsHandler)
		auth.POST("/habits", createHabitHandler)
		auth.PUT("/habits/:id", updateHabitHandler)
		auth.POST("/habits/:id/mark-today", markHabitTodayHandler)
		auth.GET("/habits/:id/history", habitHistoryHandler)
		auth.DELETE("/habits/:id", deleteHabitHandler)

		auth.GET("/events", listEventsHandler)
		auth.GET("/events/:id", getEventHandler)
		auth.POST("/events", createEventHandler)
		auth.PUT("/events/:id", updateEventHandler)
		auth.DELETE("/events/:id", deleteEventHandler)

		auth.POST("/events/:id/sync-google", syncEventHandler)
		auth.POST("/assessments/:id/sync-google", syncAssessmentHandler)
		auth.POST("/google/disconnect", googleDisconnectHandler)

		admin := auth.Group("/admin")
		admin.Use(requireAdmin)
		{
			admin.GET("/analytics", adminAnalyticsHandler)

			admin.GET("/users", adminListUsersHandler)
			admin.GET("/users/:id", adminShowUserHandler)
			admin.PUT("/users/:id/role", adminUpdateRoleHandler)
			admin.POST("/users/:id/suspend", adminSuspendUserHandler)
			admin.POST("/users/:id/activate", adminActivateUserHandler)
			admin.DELETE("/users/:id", adminDeleteUserHandler)

			admin.GET("/announcements", adminListAnnouncementsHandler)
			admin.POST("/announcements", adminCreateAnnouncementHandler)
			admin.GET("/announcements/:id", adminShowAnnouncementHandler)
			admin.POST("/announcements/:id/send", adminSendAnnouncementHandler)
			admin.DELETE("/announcements/:id", adminDeleteAnnouncementHandler)

			admin.GET("/subscriptions", adminSubscriptionsHandler)

			admin.GET("/ai/sessions", adminAISessionsHandler)
			admin.GET("/ai/usage-stats", adminAIUsageStatsHandler)
			admin.GET("/ai/flagged-messages", adminAIFlaggedHandler)
			admin.GET("/ai/failed-requests", adminAIFailedHandler)

			admin.GET("/system/settings", adminSystemSettingsHandler)
			admin.PUT("/system/settings", adminUpdateSettingsHandler)

			admin.GET("/logs", adminListLogsHandler)
			admin.GET("/logs/errors", adminLogErrorsHandler)
			admin.GET("/logs/auth-failures", adminLogAuthFailuresHandler)
			admin.GET("/logs/api-errors", adminLogAPIErrorsHandler)
			admin.GET("/logs/:id", adminShowLogHandler)
		}
	}
}
