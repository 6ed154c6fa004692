package ports

import (
	"context"

	"github.com/dawerha/dawerha-api/internal/core/domain"
)

// RegisterInfluencerInput carries a new influencer registration.
type RegisterInfluencerInput struct {
	Name           string
	Platform       string
	CustomPlatform string
	Username       string
	ProfileURL     string
	FollowersCount int
	Email          string
	Phone          string
	Prizes         []string
}

// ParticipantInput carries a follower signing up for a giveaway.
type ParticipantInput struct {
	Name          string
	Phone         string
	SocialAccount string
	City          string
}

// DrawWinner is the publicly announced winner. Phone and social account are
// masked before they leave the service.
type DrawWinner struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	SocialAccount string `json:"social_media_account"`
	City          string `json:"city"`
}

// DrawResult is the outcome of one giveaway draw.
type DrawResult struct {
	Prize  string     `json:"prize"`
	Winner DrawWinner `json:"winner"`
}

// InfluencerService covers influencer registration, the review workflow, and
// the participant giveaway.
type InfluencerService interface {
	Register(ctx context.Context, input RegisterInfluencerInput) (*domain.Influencer, error)
	GetByID(ctx context.Context, id string) (*domain.Influencer, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Influencer, error)

	Approve(ctx context.Context, id string) (*domain.Influencer, error)
	Reject(ctx context.Context, id string) (*domain.Influencer, error)

	// AddParticipant registers a follower for the influencer's draw.
	AddParticipant(ctx context.Context, slug string, input ParticipantInput) (*domain.Participant, error)
	ParticipantCount(ctx context.Context, slug string) (int64, error)

	// Draw picks a random prize and a random registered participant.
	Draw(ctx context.Context, slug string) (*DrawResult, error)

	// Participants lists all registrations for export.
	Participants(ctx context.Context, influencerID string) ([]domain.Participant, error)
}
