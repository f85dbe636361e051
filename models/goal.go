package models

import "time"

type Goal struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID      uint       `gorm:"index;not null" json:"user_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`

	Tasks []Task `gorm:"constraint:OnDelete:SET NULL" json:"tasks,omitempty"`
}
