package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dawerha/dawerha-api/internal/core/domain"
	"github.com/dawerha/dawerha-api/internal/core/ports"
)

type influencerService struct {
	influencers  ports.InfluencerRepository
	participants ports.ParticipantRepository
	log          zerolog.Logger
}

// NewInfluencerService returns an InfluencerService implementation.
func NewInfluencerService(
	influencers ports.InfluencerRepository,
	participants ports.ParticipantRepository,
	log zerolog.Logger,
) ports.InfluencerService {
	return &influencerService{influencers: influencers, participants: participants, log: log}
}

// Register creates a pending influencer profile with a unique slug and a
// shuffled wheel palette. The profile stays inactive until an admin approves
// it.
func (s *influencerService) Register(ctx context.Context, input ports.RegisterInfluencerInput) (*domain.Influencer, error) {
	if !validPlatform(input.Platform) {
		return nil, domain.ErrInvalidPlatform
	}
	prizes := trimPrizes(input.Prizes)
	if len(prizes) == 0 {
		return nil, domain.ErrNoPrizes
	}

	slug, err := s.uniqueSlug(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	customPlatform := ""
	if input.Platform == domain.PlatformOther {
		customPlatform = strings.TrimSpace(input.CustomPlatform)
	}
	followers := input.FollowersCount
	if followers < 0 {
		followers = 0
	}

	now := time.Now().UTC()
	created, err := s.influencers.Create(ctx, &domain.Influencer{
		Name:           strings.TrimSpace(input.Name),
		Slug:           slug,
		Platform:       input.Platform,
		CustomPlatform: customPlatform,
		Username:       strings.TrimSpace(input.Username),
		ProfileURL:     strings.TrimSpace(input.ProfileURL),
		FollowersCount: followers,
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:          strings.TrimSpace(input.Phone),
		Prizes:         prizes,
		Colors:         domain.WheelColors(len(prizes)),
		Status:         domain.InfluencerPending,
		IsActive:       false,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("influencer_id", created.ID).
		Str("slug", created.Slug).
		Str("platform", created.Platform).
		Msg("influencer registered")

	return created, nil
}

func (s *influencerService) GetByID(ctx context.Context, id string) (*domain.Influencer, error) {
	return s.influencers.FindByID(ctx, id)
}

func (s *influencerService) GetBySlug(ctx context.Context, slug string) (*domain.Influencer, error) {
	return s.influencers.FindBySlug(ctx, slug)
}

// Approve marks the influencer approved and active.
func (s *influencerService) Approve(ctx context.Context, id string) (*domain.Influencer, error) {
	now := time.Now().UTC()
	if err := s.influencers.SetReviewStatus(ctx, id, domain.InfluencerApproved, true, &now); err != nil {
		return nil, err
	}
	s.log.Info().Str("influencer_id", id).Msg("influencer approved")
	return s.influencers.FindByID(ctx, id)
}

// Reject marks the influencer rejected and inactive.
func (s *influencerService) Reject(ctx context.Context, id string) (*domain.Influencer, error) {
	if err := s.influencers.SetReviewStatus(ctx, id, domain.InfluencerRejected, false, nil); err != nil {
		return nil, err
	}
	s.log.Info().Str("influencer_id", id).Msg("influencer rejected")
	return s.influencers.FindByID(ctx, id)
}

// AddParticipant registers a follower for the influencer's draw.
func (s *influencerService) AddParticipant(ctx context.Context, slug string, input ports.ParticipantInput) (*domain.Participant, error) {
	influencer, err := s.influencers.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	created, err := s.participants.Insert(ctx, &domain.Participant{
		InfluencerID:  influencer.ID,
		Name:          strings.TrimSpace(input.Name),
		Phone:         strings.TrimSpace(input.Phone),
		SocialAccount: strings.TrimSpace(input.SocialAccount),
		City:          strings.TrimSpace(input.City),
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("record participant: %w", err)
	}

	s.log.Info().
		Str("influencer_id", influencer.ID).
		Str("participant_id", created.ID).
		Msg("participant registered")

	return created, nil
}

func (s *influencerService) ParticipantCount(ctx context.Context, slug string) (int64, error) {
	influencer, err := s.influencers.FindBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}
	return s.participants.CountByInfluencer(ctx, influencer.ID)
}

// Draw picks a uniformly random prize and a uniformly random participant.
// The winner's phone and social handle are masked before they are returned,
// since the draw result is announced publicly on the wheel page.
func (s *influencerService) Draw(ctx context.Context, slug string) (*ports.DrawResult, error) {
	influencer, err := s.influencers.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !influencer.IsActive {
		return nil, domain.ErrInfluencerNotActive
	}
	if len(influencer.Prizes) == 0 {
		return nil, domain.ErrNoPrizes
	}

	participants, err := s.participants.ListByInfluencer(ctx, influencer.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if len(participants) == 0 {
		return nil, domain.ErrNoParticipants
	}

	prize := influencer.Prizes[rand.Intn(len(influencer.Prizes))]
	winner := participants[rand.Intn(len(participants))]

	s.log.Info().
		Str("influencer_id", influencer.ID).
		Str("prize", prize).
		Str("winner_id", winner.ID).
		Msg("giveaway winner drawn")

	return &ports.DrawResult{
		Prize: prize,
		Winner: ports.DrawWinner{
			Name:          winner.Name,
			Phone:         domain.MaskPhone(winner.Phone),
			SocialAccount: domain.MaskSocialAccount(winner.SocialAccount),
			City:          winner.City,
		},
	}, nil
}

func (s *influencerService) Participants(ctx context.Context, influencerID string) ([]domain.Participant, error) {
	if _, err := s.influencers.FindByID(ctx, influencerID); err != nil {
		return nil, err
	}
	return s.participants.ListByInfluencer(ctx, influencerID)
}

func (s *influencerService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := domain.Slugify(name)
	if base == "" {
		base = randString(8, lowerAlpha)
	}
	slug := base
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		taken, err := s.influencers.SlugExists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("slug lookup: %w", err)
		}
		if !taken {
			return slug, nil
		}
		slug = base + "-" + randString(4, lowerAlnum)
	}
	return "", domain.ErrSlugTaken
}

func validPlatform(p string) bool {
	for _, known := range domain.InfluencerPlatforms {
		if p == known {
			return true
		}
	}
	return false
}

func trimPrizes(prizes []string) []string {
	out := make([]string, 0, len(prizes))
	for _, p := range prizes {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
