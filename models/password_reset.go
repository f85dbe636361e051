package models

import "time"

// PasswordReset holds a bcrypt hash of an emailed reset token. Rows are valid
// for ResetTokenTTL after CreatedAt; at most one row exists per email.
type PasswordReset struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Email     string `gorm:"size:255;not null;index" json:"email"`
	TokenHash []byte `gorm:"not null" json:"-"`
}

// ResetTokenTTL is how long a password reset link stays usable.
const ResetTokenTTL = 60 * time.Minute
