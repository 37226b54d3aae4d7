package model

import "time"

// User roles. Admins manage accounts; they can never be disabled or deleted.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents a tenant account. Each user owns their charges and an
// optional encrypted payment-gateway credential.
type User struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	Email               string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Name                string    `json:"name" gorm:"size:255"`
	PasswordHash        string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	PixKey              string    `json:"pix,omitempty" gorm:"column:pix;size:255"`
	GatewayCredential   string    `json:"-" gorm:"column:gateway_credential;type:text"` // AES-GCM sealed
	Role                string    `json:"role" gorm:"size:50;default:'user';index"`
	Active              bool      `json:"active" gorm:"default:true;index"`
	MustChangePassword  bool      `json:"must_change_password" gorm:"default:false"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasGatewayCredential reports whether an encrypted credential is stored.
func (u *User) HasGatewayCredential() bool {
	return u.GatewayCredential != ""
}
