package models

import "time"

// Habit is a recurring self-tracked behaviour; HabitLog counts completions
// per calendar day.
type Habit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID        uint   `gorm:"index;not null" json:"user_id"`
	Name          string `gorm:"size:255;not null" json:"name"`
	FrequencyType string `gorm:"size:16;not null" json:"frequency_type"`
	TargetCount   *int   `json:"target_count,omitempty"`

	Logs []HabitLog `gorm:"constraint:OnDelete:CASCADE" json:"logs,omitempty"`
}

type HabitLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	HabitID uint      `gorm:"index;not null;uniqueIndex:idx_habit_day" json:"habit_id"`
	Date    time.Time `gorm:"not null;uniqueIndex:idx_habit_day" json:"date"`
	Count   int       `gorm:"not null;default:0" json:"count"`
}
