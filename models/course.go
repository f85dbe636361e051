package models

import "time"

type Course struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SemesterID  uint   `gorm:"index;not null" json:"semester_id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Code        string `gorm:"size:64" json:"code,omitempty"`
	Instructor  string `gorm:"size:255" json:"instructor,omitempty"`
	CreditHours *int   `json:"credit_hours,omitempty"`
	Room        string `gorm:"size:255" json:"room,omitempty"`
	ColorTag    string `gorm:"size:32" json:"color_tag,omitempty"`

	Assessments []Assessment `gorm:"constraint:OnDelete:CASCADE" json:"assessments,omitempty"`
	Notes       []Note       `gorm:"constraint:OnDelete:CASCADE" json:"notes,omitempty"`
}
