package domain

import (
	"errors"
	"time"
)

const (
	UserTypeCompany = "company"
	UserTypeAdmin   = "admin"
)

// Session lifetimes are fixed at login and never extended.
const (
	CompanySessionTTL = 24 * time.Hour
	AdminSessionTTL   = 12 * time.Hour
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountNotApproved = errors.New("account not approved")
var ErrAccountInactive = errors.New("account inactive")
var ErrSessionNotFound = errors.New("session not found")
var ErrTokenExists = errors.New("session token already exists")
var ErrForbidden = errors.New("access forbidden")

// SessionTTL returns the lifetime for a session of the given user type.
func SessionTTL(userType string) time.Duration {
	if userType == UserTypeAdmin {
		return AdminSessionTTL
	}
	return CompanySessionTTL
}

// Session is the server-side record binding a bearer token to a user identity.
// A session is Active while the row exists and now < ExpiresAt; expiry is
// inferred at validation time, revocation is an explicit delete. Both read
// back as "invalid" afterwards.
type Session struct {
	ID        string    `json:"id"`
	UserType  string    `json:"user_type"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionSnapshot is the client-local copy of an active session, held in a
// single named slot on the client. The JSON key names are part of the wire
// contract and must not change.
type SessionSnapshot struct {
	Token     string    `json:"token"`
	UserType  string    `json:"userType"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the snapshot is past its expiry at the given instant.
func (s *SessionSnapshot) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
