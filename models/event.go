package models

import "time"

// Event is a calendar entry. Date carries the day, Time the wall-clock
// "HH:MM" start. GoogleEventID is set once the event has been pushed to the
// user's Google Calendar.
type Event struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID         uint       `gorm:"index;not null" json:"user_id"`
	Title          string     `gorm:"size:255;not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description,omitempty"`
	Date           time.Time  `gorm:"not null" json:"date"`
	Time           string     `gorm:"size:8" json:"time,omitempty"`
	Location       string     `gorm:"size:255" json:"location,omitempty"`
	ReminderBefore string     `gorm:"size:50" json:"reminder_before,omitempty"`
	CourseID       *uint      `gorm:"index" json:"course_id,omitempty"`
	GoogleEventID  string     `gorm:"size:255" json:"google_event_id,omitempty"`
	EndDatetime    *time.Time `json:"end_datetime,omitempty"`
}
