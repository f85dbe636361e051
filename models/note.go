package models

import "time"

// Note is a markdown note attached to a course. Tags is a JSON array stored
// as text. ShareToken, when set together with IsPublic, exposes the note on
// the unauthenticated public endpoint.
type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CourseID   uint   `gorm:"index;not null" json:"course_id"`
	Title      string `gorm:"size:255;not null" json:"title"`
	Content    string `gorm:"type:text" json:"content,omitempty"`
	WeekNumber *int   `json:"week_number,omitempty"`

	IsPinned   bool    `gorm:"not null;default:false" json:"is_pinned"`
	IsFavorite bool    `gorm:"not null;default:false" json:"is_favorite"`
	ShareToken *string `gorm:"size:64;uniqueIndex" json:"share_token,omitempty"`
	IsPublic   bool    `gorm:"not null;default:false" json:"is_public"`
	Tags       string  `gorm:"type:text" json:"tags,omitempty"`
}
