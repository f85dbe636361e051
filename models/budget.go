package models

import "time"

// Budget is a monthly spending cap, optionally per category (nil category
// means an overall budget). One row per user+category+month+year.
type Budget struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID   uint    `gorm:"index;not null;uniqueIndex:idx_budget_period" json:"user_id"`
	Category *string `gorm:"size:100;uniqueIndex:idx_budget_period" json:"category"`
	Amount   float64 `gorm:"not null" json:"amount"`
	Year     int     `gorm:"not null;uniqueIndex:idx_budget_period" json:"year"`
	Month    int     `gorm:"not null;uniqueIndex:idx_budget_period" json:"month"`
}
