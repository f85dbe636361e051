package models

import "time"

// Assessment is a graded item (quiz, midterm, final, assignment, project)
// inside a course.
type Assessment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CourseID         uint       `gorm:"index;not null" json:"course_id"`
	Title            string     `gorm:"size:255;not null" json:"title"`
	Type             string     `gorm:"size:64;not null" json:"type"`
	GradeReceived    *float64   `json:"grade_received,omitempty"`
	GradeMax         *float64   `json:"grade_max,omitempty"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	WeightPercentage *float64   `json:"weight_percentage,omitempty"`
	GoogleEventID    string     `gorm:"size:255" json:"google_event_id,omitempty"`
}
