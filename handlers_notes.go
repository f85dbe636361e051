package main

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/a20ro/student-organizer-backend/models"

	"github.com/gin-gonic/gin"
)

func newShareToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func listNotesHandler(c *gin.Context) {
	user := currentUser(c)
	course, ok := userCourse(user.ID, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Course not found.")
		return
	}
	var notes []models.Note
	if err := db.Where("course_id = ?", course.ID).
		Order("is_pinned DESC, updated_at DESC").Find(&notes).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list notes.")
		return
	}
	respondData(c, http.StatusOK, notes)
}

type noteRequest struct {
	Title      string `json:"title" binding:"required,max=255"`
	Content    string `json:"content"`
	WeekNumber *int   `json:"week_number"`
	Tags       string `json:"tags"`
}

func createNoteHandler(c *gin.Context) {
	user := currentUser(c)
	course, ok := userCourse(user.ID, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Course not found.")
		return
	}
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	note := models.Note{
		CourseID:   course.ID,
		Title:      req.Title,
		Content:    req.Content,
		WeekNumber: req.WeekNumber,
		Tags:       req.Tags,
	}
	if err := db.Create(&note).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create note.")
		return
	}
	respondMessageData(c, http.StatusCreated, "Note created successfully.", note)
}

func getNoteHandler(c *gin.Context) {
	user := currentUser(c)
	note, ok := userNote(user.ID, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Note not found.")
		return
	}
	respondData(c, http.StatusOK, note)
}

func updateNoteHandler(c *gin.Context) {
	user := currentUser(c)
	note, ok := userNote(user.ID, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Note not found.")
		return
	}
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	note.Title = req.Title
	note.Content = req.Content
	note.WeekNumber = req.WeekNumber
	note.Tags = req.Tags
	if err := db.Save(note).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update note.")
		return
	}
	respondMessageData(c, http.StatusOK, "Note updated successfully.", note)
}

func deleteNoteHandler(c *gin.Context) {
	user := currentUser(c)
	note, ok := userNote(user.ID, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Note not found.")
		return
	}
	if err := db.Delete(note).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete note.")
		return
	}
	respondMessage(c, http.StatusOK, "Note deleted successfully.")
}

func togglePinHandler(c *gin.Context) {
	user := currentUser(c)
	note, ok := userNote(user.ID, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Note not found.")
		return
	}
	note.IsPinned = !note.IsPinned
	if err := db.Model(note).Update("is_pinned", note.IsPinned).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update note.")
		return
	}
	respondMessageData(c, http.StatusOK, "Note pin state updated.", note)
}

func toggleFavoriteHandler(c *gin.Context) {
	user := currentUser(c)
	note, ok := userNote(user.ID, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Note not found.")
		return
	}
	note.IsFavorite = !note.IsFavorite
	if err := db.Model(note).Update("is_favorite", note.IsFavorite).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update note.")
		return
	}
	respondMessageData(c, http.StatusOK, "Note favorite state updated.", note)
}

// shareNoteHandler makes the note reachable without authentication through an
// opaque link token. Sharing an already shared note reuses the existing token.
func shareNoteHandler(c *gin.Context) {
	user := currentUser(c)
	note, ok := userNote(user.ID, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Note not found.")
		return
	}
	if note.ShareToken == nil {
		token, err := newShareToken()
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to share note.")
			return
		}
		note.ShareToken = &token
	}
	note.IsPublic = true
	if err := db.Model(note).Updates(map[string]any{
		"share_token": note.ShareToken,
		"is_public":   true,
	}).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to share note.")
		return
	}
	respondMessageData(c, http.StatusOK, "Note shared successfully.", gin.H{
		"share_token": *note.ShareToken,
		"share_url":   frontendURL() + "/shared-note.html?token=" + *note.ShareToken,
	})
}

func revokeShareHandler(c *gin.Context) {
	user := currentUser(c)
	note, ok := userNote(user.ID, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Note not found.")
		return
	}
	if err := db.Model(note).Updates(map[string]any{
		"share_token": nil,
		"is_public":   false,
	}).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to revoke share.")
		return
	}
	respondMessage(c, http.StatusOK, "Note sharing revoked.")
}

func showPublicNoteHandler(c *gin.Context) {
	var note models.Note
	err := db.Where("share_token = ? AND is_public = ?", c.Param("token"), true).
		First(&note).Error
	if err != nil {
		respondError(c, http.StatusNotFound, "Note not found.")
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"title":      note.Title,
		"content":    note.Content,
		"tags":       note.Tags,
		"updated_at": note.UpdatedAt,
	})
}

// searchNotesHandler matches the query against title and content of notes in
// courses owned by the caller. An optional tag parameter narrows further.
func searchNotesHandler(c *gin.Context) {
	user := currentUser(c)
	query := c.Query("q")
	if query == "" {
		respondError(c, http.StatusUnprocessableEntity, "Search query is required.")
		return
	}
	like := "%" + query + "%"
	tx := db.Joins("JOIN courses ON courses.id = notes.course_id").
		Joins("JOIN semesters ON semesters.id = courses.semester_id").
		Where("semesters.user_id = ?", user.ID).
		Where("notes.title LIKE ? OR notes.content LIKE ?", like, like)
	if tag := c.Query("tag"); tag != "" {
		tx = tx.Where("notes.tags LIKE ?", "%"+tag+"%")
	}
	var notes []models.Note
	if err := tx.Order("notes.updated_at DESC").Limit(50).Find(&notes).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Search failed.")
		return
	}
	respondData(c, http.StatusOK, notes)
}
