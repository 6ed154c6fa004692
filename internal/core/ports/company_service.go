package ports

import (
	"context"
	"time"

	"github.com/dawerha/dawerha-api/internal/core/domain"
)

// CompanyService covers the review workflow and activation management for
// company accounts.
type CompanyService interface {
	GetByID(ctx context.Context, id string) (*domain.Company, error)

	// GetBySlug resolves the public play-page configuration.
	GetBySlug(ctx context.Context, slug string) (*domain.Company, error)

	// Approve marks the company approved and active; Reject deactivates it.
	Approve(ctx context.Context, id string) (*domain.Company, error)
	Reject(ctx context.Context, id string) (*domain.Company, error)

	// ActivateNow opens a playable window of the given length (1..168 hours)
	// starting immediately.
	ActivateNow(ctx context.Context, id string, hours int) (*domain.Company, error)

	// AddSchedule attaches a recurring weekly activation window.
	AddSchedule(ctx context.Context, schedule *domain.ActivationSchedule) (*domain.ActivationSchedule, error)

	// SweepSchedules activates companies whose schedule window has opened.
	// Called periodically by the background scheduler.
	SweepSchedules(ctx context.Context, now time.Time) (int, error)
}
