package models

import "time"

// Announcement audiences.
const (
	AudienceAll      = "all"
	AudienceStudents = "students"
	AudienceSingle   = "single"
)

// Announcement is an admin-authored message delivered to users by email.
// SentAt is nil until delivery has happened.
type Announcement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AdminID      uint       `gorm:"index;not null" json:"admin_id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Message      string     `gorm:"type:text;not null" json:"message"`
	Audience     string     `gorm:"size:16;not null" json:"audience"`
	TargetUserID *uint      `gorm:"index" json:"target_user_id,omitempty"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
	SentAt       *time.Time `json:"sent_at,omitempty"`

	Admin      *User `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	TargetUser *User `gorm:"foreignKey:TargetUserID" json:"target_user,omitempty"`
}
