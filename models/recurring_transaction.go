package models

import "time"

// RecurringTransaction is a template that generates transactions on a fixed
// schedule. NextOccurrence is advanced from StartDate by the frequency.
type RecurringTransaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID         uint       `gorm:"index;not null" json:"user_id"`
	Type           string     `gorm:"size:16;not null" json:"type"`
	Category       string     `gorm:"size:100" json:"category,omitempty"`
	Amount         float64    `gorm:"not null" json:"amount"`
	Note           string     `gorm:"type:text" json:"note,omitempty"`
	Frequency      string     `gorm:"size:16;not null" json:"frequency"`
	StartDate      time.Time  `gorm:"not null" json:"start_date"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	NextOccurrence time.Time  `gorm:"not null" json:"next_occurrence"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`
}
