package ports

import (
	"context"
	"time"

	"github.com/dawerha/dawerha-api/internal/core/domain"
)

// SpinRepository defines the persistence interface for wheel spin records.
type SpinRepository interface {
	Insert(ctx context.Context, spin *domain.Spin) (*domain.Spin, error)

	// RecentPrizes returns the prizes of the company's most recent spins,
	// newest first, up to limit. Used to bias prize selection away from
	// recently won prizes.
	RecentPrizes(ctx context.Context, companyID string, limit int64) ([]string, error)

	// Stats aggregates the dashboard numbers relative to now.
	Stats(ctx context.Context, companyID string, now time.Time) (*domain.SpinStats, error)
}
