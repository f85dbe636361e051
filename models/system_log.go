package models

import "time"

// System log levels and well-known types.
const (
	LogInfo     = "info"
	LogWarning  = "warning"
	LogError    = "error"
	LogCritical = "critical"

	LogTypeAuthFailure = "auth_failure"
	LogTypeAPIError    = "api_error"
	LogTypeAIError     = "ai_error"
)

// SystemLog is the persisted audit trail consumed by the admin back office.
// Context is a JSON object serialized to text.
type SystemLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Type      string `gorm:"size:64;not null;index" json:"type"`
	Level     string `gorm:"size:16;not null;default:info" json:"level"`
	Message   string `gorm:"type:text;not null" json:"message"`
	Context   string `gorm:"type:text" json:"context,omitempty"`
	UserID    *uint  `json:"user_id,omitempty"`
	AdminID   *uint  `gorm:"index" json:"admin_id,omitempty"`
	IPAddress string `gorm:"size:64" json:"ip_address,omitempty"`
	UserAgent string `gorm:"size:512" json:"user_agent,omitempty"`

	Admin *User `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
}
