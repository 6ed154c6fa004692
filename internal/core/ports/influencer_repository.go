package ports

import (
	"context"
	"time"

	"github.com/dawerha/dawerha-api/internal/core/domain"
)

// InfluencerRepository persists influencer profiles.
type InfluencerRepository interface {
	Create(ctx context.Context, influencer *domain.Influencer) (*domain.Influencer, error)
	FindByID(ctx context.Context, id string) (*domain.Influencer, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Influencer, error)
	SlugExists(ctx context.Context, slug string) (bool, error)

	// SetReviewStatus flips the review outcome and the active flag in one
	// write; approvedAt is recorded only on approval.
	SetReviewStatus(ctx context.Context, id string, status domain.InfluencerStatus, active bool, approvedAt *time.Time) error
}

// ParticipantRepository persists giveaway participants.
type ParticipantRepository interface {
	Insert(ctx context.Context, participant *domain.Participant) (*domain.Participant, error)
	ListByInfluencer(ctx context.Context, influencerID string) ([]domain.Participant, error)
	CountByInfluencer(ctx context.Context, influencerID string) (int64, error)
}
