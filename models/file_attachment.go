package models

import "time"

// Attachable kinds for FileAttachment.
const (
	AttachableNote       = "Note"
	AttachableAssessment = "Assessment"
)

// FileAttachment is an uploaded file linked to a note or assessment.
// FileName is the randomized stored name; OriginalName is what the client
// uploaded.
type FileAttachment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AttachableType string `gorm:"size:32;not null;index:idx_attachable" json:"attachable_type"`
	AttachableID   uint   `gorm:"not null;index:idx_attachable" json:"attachable_id"`
	UserID         uint   `gorm:"index;not null" json:"user_id"`
	OriginalName   string `gorm:"size:255;not null" json:"original_name"`
	FileName       string `gorm:"size:255;not null" json:"file_name"`
	FilePath       string `gorm:"size:512;not null" json:"file_path"`
	MimeType       string `gorm:"size:128" json:"mime_type"`
	FileSize       int64  `gorm:"not null" json:"file_size"`
}
