package models

import "time"

// AccessToken stores the hashed representation of an opaque bearer credential.
// The plaintext is handed to the client once at issue time and never persisted;
// lookups hash the presented value and match on TokenHash.
type AccessToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID     uint       `gorm:"index;not null" json:"user_id"`
	Name       string     `gorm:"size:64;not null" json:"name"`
	TokenHash  string     `gorm:"size:128;not null;uniqueIndex" json:"-"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}
