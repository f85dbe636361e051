package models

import "time"

// AiSession and AiMessage back the admin AI-monitoring endpoints. The chat
// feature itself lives outside this service; these tables are read-only here.
type AiSession struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint   `gorm:"index;not null" json:"user_id"`
	Title  string `gorm:"size:255" json:"title,omitempty"`

	User *User `json:"user,omitempty"`
}

type AiMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	AiSessionID uint   `gorm:"index;not null" json:"ai_session_id"`
	Role        string `gorm:"size:32;not null" json:"role"`
	Content     string `gorm:"type:text" json:"content"`
}
