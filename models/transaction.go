package models

import "time"

const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction is a single income or expense entry.
type Transaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID   uint      `gorm:"index;not null" json:"user_id"`
	Type     string    `gorm:"size:16;not null" json:"type"`
	Category string    `gorm:"size:100" json:"category,omitempty"`
	Amount   float64   `gorm:"not null" json:"amount"`
	Date     time.Time `gorm:"not null;index" json:"date"`
	Note     string    `gorm:"type:text" json:"note,omitempty"`
}
