package models

import "time"

// User roles and account statuses. Both admin and super_admin count as
// administrators; only super_admin may act on other admin accounts.
const (
	RoleStudent    = "student"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"

	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// User is an account holder. Google* fields are only populated after the
// account has been linked through the OAuth flow.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name           string `gorm:"size:255;not null" json:"name"`
	Email          string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	HashedPassword []byte `gorm:"not null" json:"-"`

	Avatar     string `gorm:"size:255" json:"avatar,omitempty"`
	Major      string `gorm:"size:255" json:"major,omitempty"`
	University string `gorm:"size:255" json:"university,omitempty"`

	Role      string     `gorm:"size:32;not null;default:student" json:"role"`
	Status    string     `gorm:"size:32;not null;default:active" json:"status"`
	LastLogin *time.Time `json:"last_login,omitempty"`

	GoogleID           string `gorm:"size:255;index" json:"google_id,omitempty"`
	GoogleEmail        string `gorm:"size:255" json:"google_email,omitempty"`
	GoogleAccessToken  string     `gorm:"type:text" json:"-"`
	GoogleRefreshToken string     `gorm:"type:text" json:"-"`
	GoogleTokenExpiry  *time.Time `json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

func (u *User) IsSuspended() bool {
	return u.Status == StatusSuspended
}

func (u *User) HasGoogleLinked() bool {
	return u.GoogleAccessToken != ""
}
