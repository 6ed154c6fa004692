package ports

import (
	"context"
	"time"

	"github.com/dawerha/dawerha-api/internal/core/domain"
)

// CompanyRepository defines the persistence interface for company documents
// beyond the credential lookups used at login.
type CompanyRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Company, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Company, error)
	SlugExists(ctx context.Context, slug string) (bool, error)

	// SetReviewStatus updates the approval state flags in one write.
	SetReviewStatus(ctx context.Context, id string, status domain.CompanyStatus, isActive bool, approvedAt *time.Time) error

	// SetActivationWindow updates the playable window for a company.
	SetActivationWindow(ctx context.Context, id string, start, end *time.Time, hours int, isActive bool) error
}

// ScheduleRepository defines the persistence interface for recurring
// activation schedules.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *domain.ActivationSchedule) (*domain.ActivationSchedule, error)
	ListEnabled(ctx context.Context) ([]domain.ActivationSchedule, error)
	TouchActivation(ctx context.Context, id string, at time.Time) error
}
