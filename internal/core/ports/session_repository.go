package ports

import (
	"context"
	"time"

	"github.com/dawerha/dawerha-api/internal/core/domain"
)

// SessionRepository defines the persistence interface for session rows.
type SessionRepository interface {
	// Create inserts a session row. Returns domain.ErrTokenExists when the
	// token collides with an existing row.
	Create(ctx context.Context, session *domain.Session) error

	// FindByToken returns domain.ErrSessionNotFound when no row matches.
	FindByToken(ctx context.Context, token string) (*domain.Session, error)

	// DeleteByToken removes the row for the token; deleting an absent row is
	// not an error.
	DeleteByToken(ctx context.Context, token string) error

	// DeleteExpired removes rows whose expiry is at or before now and reports
	// how many were removed. Correctness never depends on this sweep; expiry
	// is always re-checked at validation time.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
