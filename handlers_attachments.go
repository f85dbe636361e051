package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/a20ro/student-organizer-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxAttachmentSize = 10 << 20 // 10 MiB

// ownsAttachable verifies the target note or assessment belongs to the user.
func ownsAttachable(userID uint, attachableType string, attachableID uint) bool {
	id := strconv.FormatUint(uint64(attachableID), 10)
	switch attachableType {
	case models.AttachableNote:
		_, ok := userNote(userID, id)
		return ok
	case models.AttachableAssessment:
		_, ok := userAssessment(userID, id)
		return ok
	}
	return false
}

func listAttachmentsHandler(c *gin.Context) {
	user := currentUser(c)
	tx := db.Where("user_id = ?", user.ID)
	if t := c.Query("attachable_type"); t != "" {
		tx = tx.Where("attachable_type = ?", t)
	}
	if id := c.Query("attachable_id"); id != "" {
		tx = tx.Where("attachable_id = ?", id)
	}
	var attachments []models.FileAttachment
	if err := tx.Order("created_at DESC").Find(&attachments).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list attachments.")
		return
	}
	respondData(c, http.StatusOK, attachments)
}

func uploadAttachmentHandler(c *gin.Context) {
	user := currentUser(c)

	attachableType := c.PostForm("attachable_type")
	if attachableType != models.AttachableNote && attachableType != models.AttachableAssessment {
		respondError(c, http.StatusUnprocessableEntity, "attachable_type must be Note or Assessment.")
		return
	}
	attachableID, err := strconv.ParseUint(c.PostForm("attachable_id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "attachable_id must be a positive integer.")
		return
	}
	if !ownsAttachable(user.ID, attachableType, uint(attachableID)) {
		respondError(c, http.StatusNotFound, "Attachment target not found.")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "A file is required.")
		return
	}
	if file.Size > maxAttachmentSize {
		respondError(c, http.StatusUnprocessableEntity, "File exceeds the 10 MB limit.")
		return
	}

	storedName := uuid.NewString() + filepath.Ext(file.Filename)
	dir := filepath.Join(uploadBaseDir(), "attachments")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to store file.")
		return
	}
	dest := filepath.Join(dir, storedName)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to store file.")
		return
	}

	attachment := models.FileAttachment{
		AttachableType: attachableType,
		AttachableID:   uint(attachableID),
		UserID:         user.ID,
		OriginalName:   filepath.Base(file.Filename),
		FileName:       storedName,
		FilePath:       dest,
		MimeType:       file.Header.Get("Content-Type"),
		FileSize:       file.Size,
	}
	if err := db.Create(&attachment).Error; err != nil {
		os.Remove(dest)
		respondError(c, http.StatusInternalServerError, "Failed to save attachment.")
		return
	}
	respondMessageData(c, http.StatusCreated, "File uploaded successfully.", attachment)
}

func downloadAttachmentHandler(c *gin.Context) {
	user := currentUser(c)
	var attachment models.FileAttachment
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&attachment).Error; err != nil {
		respondError(c, http.StatusNotFound, "Attachment not found.")
		return
	}
	if _, err := os.Stat(attachment.FilePath); err != nil {
		respondError(c, http.StatusNotFound, "Attachment file is missing.")
		return
	}
	c.FileAttachment(attachment.FilePath, attachment.OriginalName)
}

func deleteAttachmentHandler(c *gin.Context) {
	user := currentUser(c)
	var attachment models.FileAttachment
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&attachment).Error; err != nil {
		respondError(c, http.StatusNotFound, "Attachment not found.")
		return
	}
	if err := db.Delete(&attachment).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete attachment.")
		return
	}
	if err := os.Remove(attachment.FilePath); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Str("path", attachment.FilePath).Msg("failed to remove attachment file")
	}
	respondMessage(c, http.StatusOK, "Attachment deleted successfully.")
}
