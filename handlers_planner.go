package main

import (
	"net/http"
	"time"

	"github.com/a20ro/student-organizer-backend/models"

	"github.com/gin-gonic/gin"
)

// --- Goals ---

func listGoalsHandler(c *gin.Context) {
	user := currentUser(c)
	var goals []models.Goal
	if err := db.Where("user_id = ?", user.ID).Preload("Tasks").
		Order("created_at DESC").Find(&goals).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list goals.")
		return
	}
	respondData(c, http.StatusOK, goals)
}

type goalRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description"`
	TargetDate  *time.Time `json:"target_date"`
}

func createGoalHandler(c *gin.Context) {
	user := currentUser(c)
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	goal := models.Goal{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  req.TargetDate,
	}
	if err := db.Create(&goal).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create goal.")
		return
	}
	respondMessageData(c, http.StatusCreated, "Goal created successfully.", goal)
}

func updateGoalHandler(c *gin.Context) {
	user := currentUser(c)
	var goal models.Goal
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&goal).Error; err != nil {
		respondError(c, http.StatusNotFound, "Goal not found.")
		return
	}
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	goal.Title = req.Title
	goal.Description = req.Description
	goal.TargetDate = req.TargetDate
	if err := db.Save(&goal).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update goal.")
		return
	}
	respondMessageData(c, http.StatusOK, "Goal updated successfully.", goal)
}

func completeGoalHandler(c *gin.Context) {
	user := currentUser(c)
	var goal models.Goal
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&goal).Error; err != nil {
		respondError(c, http.StatusNotFound, "Goal not found.")
		return
	}
	if err := db.Model(&goal).Update("completed", true).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to complete goal.")
		return
	}
	goal.Completed = true
	respondMessageData(c, http.StatusOK, "Goal marked as completed.", goal)
}

func deleteGoalHandler(c *gin.Context) {
	user := currentUser(c)
	var goal models.Goal
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&goal).Error; err != nil {
		respondError(c, http.StatusNotFound, "Goal not found.")
		return
	}
	// Tasks under the goal survive as standalone tasks.
	if err := db.Model(&models.Task{}).Where("goal_id = ?", goal.ID).
		Update("goal_id", nil).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete goal.")
		return
	}
	if err := db.Delete(&goal).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete goal.")
		return
	}
	respondMessage(c, http.StatusOK, "Goal deleted successfully.")
}

// --- Tasks ---

func listAllTasksHandler(c *gin.Context) {
	user := currentUser(c)
	tx := db.Where("user_id = ?", user.ID)
	if v := c.Query("completed"); v == "true" {
		tx = tx.Where("completed = ?", true)
	} else if v == "false" {
		tx = tx.Where("completed = ?", false)
	}
	var tasks []models.Task
	if err := tx.Preload("Goal").Preload("Children").
		Order("due_date IS NULL, due_date ASC, created_at DESC").Find(&tasks).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list tasks.")
		return
	}
	respondData(c, http.StatusOK, tasks)
}

func listGoalTasksHandler(c *gin.Context) {
	user := currentUser(c)
	var goal models.Goal
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&goal).Error; err != nil {
		respondError(c, http.StatusNotFound, "Goal not found.")
		return
	}
	var tasks []models.Task
	if err := db.Where("goal_id = ?", goal.ID).Preload("Children").
		Order("created_at ASC").Find(&tasks).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list tasks.")
		return
	}
	respondData(c, http.StatusOK, tasks)
}

type taskRequest struct {
	Title        string     `json:"title" binding:"required,max=255"`
	Description  string     `json:"description"`
	DueDate      *time.Time `json:"due_date"`
	ParentTaskID *uint      `json:"parent_task_id"`
}

// validateParentTask enforces the nesting rules: the parent must exist, be
// owned by the caller, and live in the same goal scope as the new task
// (standalone parents for standalone tasks, same-goal parents otherwise).
func validateParentTask(c *gin.Context, userID uint, parentID uint, goalID *uint) (ok bool) {
	var parent models.Task
	if err := db.Where("user_id = ? AND id = ?", userID, parentID).First(&parent).Error; err != nil {
		respondError(c, http.StatusNotFound, "Parent task not found.")
		return false
	}
	switch {
	case goalID == nil && parent.GoalID != nil:
		respondError(c, http.StatusBadRequest, "Parent task belongs to a goal; a standalone task cannot nest under it.")
		return false
	case goalID != nil && (parent.GoalID == nil || *parent.GoalID != *goalID):
		respondError(c, http.StatusBadRequest, "Parent task must belong to the same goal.")
		return false
	}
	return true
}

func createTask(c *gin.Context, goalID *uint) {
	user := currentUser(c)
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	if req.ParentTaskID != nil && !validateParentTask(c, user.ID, *req.ParentTaskID, goalID) {
		return
	}
	task := models.Task{
		UserID:       user.ID,
		GoalID:       goalID,
		ParentTaskID: req.ParentTaskID,
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
	}
	if err := db.Create(&task).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create task.")
		return
	}
	respondMessageData(c, http.StatusCreated, "Task created successfully.", task)
}

func createStandaloneTaskHandler(c *gin.Context) {
	createTask(c, nil)
}

func createGoalTaskHandler(c *gin.Context) {
	user := currentUser(c)
	var goal models.Goal
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&goal).Error; err != nil {
		respondError(c, http.StatusNotFound, "Goal not found.")
		return
	}
	createTask(c, &goal.ID)
}

func updateTaskHandler(c *gin.Context) {
	user := currentUser(c)
	var task models.Task
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&task).Error; err != nil {
		respondError(c, http.StatusNotFound, "Task not found.")
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	if req.ParentTaskID != nil {
		if *req.ParentTaskID == task.ID {
			respondError(c, http.StatusBadRequest, "A task cannot be its own parent.")
			return
		}
		if !validateParentTask(c, user.ID, *req.ParentTaskID, task.GoalID) {
			return
		}
	}
	task.Title = req.Title
	task.Description = req.Description
	task.DueDate = req.DueDate
	task.ParentTaskID = req.ParentTaskID
	if err := db.Save(&task).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update task.")
		return
	}
	respondMessageData(c, http.StatusOK, "Task updated successfully.", task)
}

func completeTaskHandler(c *gin.Context) {
	user := currentUser(c)
	var task models.Task
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&task).Error; err != nil {
		respondError(c, http.StatusNotFound, "Task not found.")
		return
	}
	if err := db.Model(&task).Update("completed", true).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to complete task.")
		return
	}
	task.Completed = true
	respondMessageData(c, http.StatusOK, "Task marked as completed.", task)
}

func deleteTaskHandler(c *gin.Context) {
	user := currentUser(c)
	var task models.Task
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&task).Error; err != nil {
		respondError(c, http.StatusNotFound, "Task not found.")
		return
	}
	// Children are promoted rather than orphaned.
	if err := db.Model(&models.Task{}).Where("parent_task_id = ?", task.ID).
		Update("parent_task_id", nil).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete task.")
		return
	}
	if err := db.Delete(&task).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete task.")
		return
	}
	respondMessage(c, http.StatusOK, "Task deleted successfully.")
}

// --- Habits ---

func listHabitsHandler(c *gin.Context) {
	user := currentUser(c)
	var habits []models.Habit
	if err := db.Where("user_id = ?", user.ID).Order("created_at ASC").Find(&habits).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list habits.")
		return
	}
	respondData(c, http.StatusOK, habits)
}

type habitRequest struct {
	Name          string `json:"name" binding:"required,max=255"`
	FrequencyType string `json:"frequency_type" binding:"required,oneof=daily weekly"`
	TargetCount   *int   `json:"target_count"`
}

func createHabitHandler(c *gin.Context) {
	user := currentUser(c)
	var req habitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	habit := models.Habit{
		UserID:        user.ID,
		Name:          req.Name,
		FrequencyType: req.FrequencyType,
		TargetCount:   req.TargetCount,
	}
	if err := db.Create(&habit).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create habit.")
		return
	}
	respondMessageData(c, http.StatusCreated, "Habit created successfully.", habit)
}

func updateHabitHandler(c *gin.Context) {
	user := currentUser(c)
	var habit models.Habit
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&habit).Error; err != nil {
		respondError(c, http.StatusNotFound, "Habit not found.")
		return
	}
	var req habitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	habit.Name = req.Name
	habit.FrequencyType = req.FrequencyType
	habit.TargetCount = req.TargetCount
	if err := db.Save(&habit).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update habit.")
		return
	}
	respondMessageData(c, http.StatusOK, "Habit updated successfully.", habit)
}

func deleteHabitHandler(c *gin.Context) {
	user := currentUser(c)
	var habit models.Habit
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&habit).Error; err != nil {
		respondError(c, http.StatusNotFound, "Habit not found.")
		return
	}
	if err := db.Where("habit_id = ?", habit.ID).Delete(&models.HabitLog{}).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete habit.")
		return
	}
	if err := db.Delete(&habit).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete habit.")
		return
	}
	respondMessage(c, http.StatusOK, "Habit deleted successfully.")
}

// startOfDay truncates to midnight UTC; habit logs key on the calendar day.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// markHabitTodayHandler increments today's completion count, creating the
// per-day log row on first completion.
func markHabitTodayHandler(c *gin.Context) {
	user := currentUser(c)
	var habit models.Habit
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&habit).Error; err != nil {
		respondError(c, http.StatusNotFound, "Habit not found.")
		return
	}
	today := startOfDay(time.Now())
	var log models.HabitLog
	err := db.Where("habit_id = ? AND date = ?", habit.ID, today).First(&log).Error
	if err != nil {
		log = models.HabitLog{HabitID: habit.ID, Date: today, Count: 1}
		if err := db.Create(&log).Error; err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to mark habit.")
			return
		}
	} else {
		log.Count++
		if err := db.Save(&log).Error; err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to mark habit.")
			return
		}
	}
	respondMessageData(c, http.StatusOK, "Habit marked for today.", log)
}

func habitHistoryHandler(c *gin.Context) {
	user := currentUser(c)
	var habit models.Habit
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&habit).Error; err != nil {
		respondError(c, http.StatusNotFound, "Habit not found.")
		return
	}
	var logs []models.HabitLog
	if err := db.Where("habit_id = ?", habit.ID).Order("date DESC").
		Limit(90).Find(&logs).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load habit history.")
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"habit": habit,
		"logs":  logs,
	})
}
