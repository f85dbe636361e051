package models

import "time"

// Semester groups courses for one academic term.
type Semester struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID    uint       `gorm:"index;not null" json:"user_id"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Notes     string     `gorm:"type:text" json:"notes,omitempty"`

	Courses []Course `gorm:"constraint:OnDelete:CASCADE" json:"courses,omitempty"`
}
