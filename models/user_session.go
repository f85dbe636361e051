package models

import "time"

// UserSession tracks the liveness of one issued access token. Exactly one row
// exists per token (TokenID is unique). IsActive only ever transitions from
// true to false; a fresh login creates a new row rather than reviving an old
// one. RevokedReason records which terminal transition happened.
type UserSession struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID  uint `gorm:"index;not null" json:"user_id"`
	TokenID uint `gorm:"not null;uniqueIndex" json:"token_id"`

	DeviceName string `gorm:"size:512" json:"device_name"`
	IPAddress  string `gorm:"size:64" json:"ip_address"`
	UserAgent  string `gorm:"size:512" json:"user_agent"`

	LastActivity  *time.Time `gorm:"index" json:"last_activity,omitempty"`
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	RevokedReason string     `gorm:"size:32" json:"revoked_reason,omitempty"`
}
