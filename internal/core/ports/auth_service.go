package ports

import (
	"context"

	"github.com/dawerha/dawerha-api/internal/core/domain"
)

// LoginResult is returned on a successful login. Exactly one of Company or
// Admin is set, matching the session's user type.
type LoginResult struct {
	Session    *domain.Session
	Snapshot   domain.SessionSnapshot
	RedirectTo string
	Company    *domain.Company
	Admin      *domain.AdminUser
}

// CreateCompanyInput carries the signup form fields for provisioning a new
// company account.
type CreateCompanyInput struct {
	Name             string
	Type             string
	CustomType       string
	Email            string
	Phone            string
	Prizes           []string
	PrizePercentages []int
	LogoURL          string
}

// ProvisionResult is returned once at company signup. TempPassword is the
// only time the plaintext leaves the service; it is never persisted.
type ProvisionResult struct {
	Company      *domain.Company
	TempPassword string
	PlayPath     string
}

// AuthService owns the session lifecycle: issuing, validating, and revoking
// bearer tokens, plus company account provisioning.
type AuthService interface {
	// Login authenticates against the role-partitioned credential store and,
	// on success, durably writes a session row before returning the snapshot
	// the client should cache.
	Login(ctx context.Context, userType, email, password string) (*LoginResult, error)

	// ValidateToken reports whether a live session row exists for the token.
	// Any storage or network failure reads as invalid (fail-closed). No side
	// effects.
	ValidateToken(ctx context.Context, token string) bool

	// Logout revokes the session row for the token. Remote failures are
	// swallowed; callers always clear their local snapshot regardless.
	Logout(ctx context.Context, token string)

	// CreateCompanyAccount provisions a pending company account with a
	// generated temporary password.
	CreateCompanyAccount(ctx context.Context, input CreateCompanyInput) (*ProvisionResult, error)

	// PurgeExpiredSessions removes expired session rows (housekeeping only).
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}
