package domain

import (
	"errors"
	"time"
)

var ErrAdminNotFound = errors.New("admin user not found")

const (
	AdminRoleSuper     = "superadmin"
	AdminRoleModerator = "moderator"
)

// AdminUser models a platform operator account. Admin accounts are provisioned
// out of band; the service only reads them during login.
type AdminUser struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
