package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/a20ro/student-organizer-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskParentValidation(t *testing.T) {
	setupTestDB(t, "plan_parents")
	r := testRouter()
	token, user := seedAuthedUser(t, r, "planner@example.com")

	goal := models.Goal{UserID: user.ID, Title: "Graduate"}
	require.NoError(t, db.Create(&goal).Error)
	goalTask := models.Task{UserID: user.ID, GoalID: &goal.ID, Title: "Pass finals"}
	require.NoError(t, db.Create(&goalTask).Error)
	standalone := models.Task{UserID: user.ID, Title: "Buy groceries"}
	require.NoError(t, db.Create(&standalone).Error)

	// Goal task under a same-goal parent: allowed.
	rec := doRequest(r, http.MethodPost, fmt.Sprintf("/goals/%d/tasks", goal.ID), jsonBody(t, gin.H{
		"title":          "Study chapter 4",
		"parent_task_id": goalTask.ID,
	}), token)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Goal task under a standalone parent: rejected.
	rec = doRequest(r, http.MethodPost, fmt.Sprintf("/goals/%d/tasks", goal.ID), jsonBody(t, gin.H{
		"title":          "Wrong nest",
		"parent_task_id": standalone.ID,
	}), token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Standalone task under a goal-scoped parent: rejected.
	rec = doRequest(r, http.MethodPost, "/tasks", jsonBody(t, gin.H{
		"title":          "Also wrong",
		"parent_task_id": goalTask.ID,
	}), token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown parent: 404.
	rec = doRequest(r, http.MethodPost, "/tasks", jsonBody(t, gin.H{
		"title":          "Orphan",
		"parent_task_id": 99999,
	}), token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Another user's task is not a usable parent.
	other := seedUser(t, "intruder@example.com")
	foreign := models.Task{UserID: other.ID, Title: "Theirs"}
	require.NoError(t, db.Create(&foreign).Error)
	rec = doRequest(r, http.MethodPost, "/tasks", jsonBody(t, gin.H{
		"title":          "Cross user",
		"parent_task_id": foreign.ID,
	}), token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteGoalPromotesItsTasks(t *testing.T) {
	setupTestDB(t, "plan_goal_delete")
	r := testRouter()
	token, user := seedAuthedUser(t, r, "goals@example.com")

	goal := models.Goal{UserID: user.ID, Title: "Run a marathon"}
	require.NoError(t, db.Create(&goal).Error)
	task := models.Task{UserID: user.ID, GoalID: &goal.ID, Title: "Weekly long run"}
	require.NoError(t, db.Create(&task).Error)

	rec := doRequest(r, http.MethodDelete, fmt.Sprintf("/goals/%d", goal.ID), nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var reloaded models.Task
	require.NoError(t, db.First(&reloaded, task.ID).Error)
	assert.Nil(t, reloaded.GoalID, "tasks must survive goal deletion as standalone")
}

func TestCompleteGoalAndTask(t *testing.T) {
	setupTestDB(t, "plan_complete")
	r := testRouter()
	token, user := seedAuthedUser(t, r, "finish@example.com")

	goal := models.Goal{UserID: user.ID, Title: "Ship project"}
	require.NoError(t, db.Create(&goal).Error)
	task := models.Task{UserID: user.ID, Title: "Write report"}
	require.NoError(t, db.Create(&task).Error)

	rec := doRequest(r, http.MethodPost, fmt.Sprintf("/goals/%d/complete", goal.ID), nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(r, http.MethodPost, fmt.Sprintf("/tasks/%d/complete", task.ID), nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var g models.Goal
	require.NoError(t, db.First(&g, goal.ID).Error)
	assert.True(t, g.Completed)
	var tk models.Task
	require.NoError(t, db.First(&tk, task.ID).Error)
	assert.True(t, tk.Completed)
}

func TestMarkHabitTodayCountsUp(t *testing.T) {
	setupTestDB(t, "plan_habits")
	r := testRouter()
	token, user := seedAuthedUser(t, r, "habits@example.com")

	habit := models.Habit{UserID: user.ID, Name: "Read", FrequencyType: "daily"}
	require.NoError(t, db.Create(&habit).Error)

	for i := 0; i < 3; i++ {
		rec := doRequest(r, http.MethodPost, fmt.Sprintf("/habits/%d/mark-today", habit.ID), nil, token)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	var logs []models.HabitLog
	require.NoError(t, db.Where("habit_id = ?", habit.ID).Find(&logs).Error)
	require.Len(t, logs, 1, "same-day marks share one log row")
	assert.Equal(t, 3, logs[0].Count)
	assert.True(t, logs[0].Date.Equal(startOfDay(time.Now())))
}

func TestHabitHistoryReturnsRecentLogs(t *testing.T) {
	setupTestDB(t, "plan_habit_history")
	r := testRouter()
	token, user := seedAuthedUser(t, r, "history@example.com")

	habit := models.Habit{UserID: user.ID, Name: "Meditate", FrequencyType: "daily"}
	require.NoError(t, db.Create(&habit).Error)
	today := startOfDay(time.Now())
	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&models.HabitLog{
			HabitID: habit.ID,
			Date:    today.AddDate(0, 0, -i),
			Count:   1,
		}).Error)
	}

	rec := doRequest(r, http.MethodGet, fmt.Sprintf("/habits/%d/history", habit.ID), nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Logs []models.HabitLog `json:"logs"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Logs, 5)
	// Newest first.
	assert.True(t, body.Data.Logs[0].Date.After(body.Data.Logs[4].Date))
}
