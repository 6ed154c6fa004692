package service

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dawerha/dawerha-api/internal/core/domain"
	"github.com/dawerha/dawerha-api/internal/core/ports"
)

type stubInfluencerRepo struct {
	byID     map[string]*domain.Influencer
	bySlug   map[string]*domain.Influencer
	statuses map[string]domain.InfluencerStatus
	nextID   int
}

func newStubInfluencerRepo() *stubInfluencerRepo {
	return &stubInfluencerRepo{
		byID:     map[string]*domain.Influencer{},
		bySlug:   map[string]*domain.Influencer{},
		statuses: map[string]domain.InfluencerStatus{},
	}
}

func (r *stubInfluencerRepo) add(i *domain.Influencer) {
	r.byID[i.ID] = i
	r.bySlug[i.Slug] = i
}

func (r *stubInfluencerRepo) Create(_ context.Context, influencer *domain.Influencer) (*domain.Influencer, error) {
	clone := *influencer
	r.nextID++
	clone.ID = "inf_" + strconv.Itoa(r.nextID)
	r.add(&clone)
	return &clone, nil
}

func (r *stubInfluencerRepo) FindByID(_ context.Context, id string) (*domain.Influencer, error) {
	if i, ok := r.byID[id]; ok {
		return i, nil
	}
	return nil, domain.ErrInfluencerNotFound
}

func (r *stubInfluencerRepo) FindBySlug(_ context.Context, slug string) (*domain.Influencer, error) {
	if i, ok := r.bySlug[slug]; ok {
		return i, nil
	}
	return nil, domain.ErrInfluencerNotFound
}

func (r *stubInfluencerRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	_, ok := r.bySlug[slug]
	return ok, nil
}

func (r *stubInfluencerRepo) SetReviewStatus(_ context.Context, id string, status domain.InfluencerStatus, active bool, approvedAt *time.Time) error {
	i, ok := r.byID[id]
	if !ok {
		return domain.ErrInfluencerNotFound
	}
	i.Status = status
	i.IsActive = active
	i.ApprovedAt = approvedAt
	r.statuses[id] = status
	return nil
}

type stubParticipantRepo struct {
	participants []domain.Participant
	listErr      error
}

func (r *stubParticipantRepo) Insert(_ context.Context, p *domain.Participant) (*domain.Participant, error) {
	clone := *p
	clone.ID = "part_1"
	r.participants = append(r.participants, clone)
	return &clone, nil
}

func (r *stubParticipantRepo) ListByInfluencer(_ context.Context, influencerID string) ([]domain.Participant, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := []domain.Participant{}
	for _, p := range r.participants {
		if p.InfluencerID == influencerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubParticipantRepo) CountByInfluencer(ctx context.Context, influencerID string) (int64, error) {
	list, err := r.ListByInfluencer(ctx, influencerID)
	return int64(len(list)), err
}

func activeInfluencer() *domain.Influencer {
	return &domain.Influencer{
		ID:       "inf_1",
		Name:     "Sara Styles",
		Slug:     "sara-styles",
		Platform: domain.PlatformInstagram,
		Username: "@sara_styles",
		Status:   domain.InfluencerApproved,
		IsActive: true,
		Prizes:   []string{"iPhone", "Voucher"},
	}
}

func newInfluencerService(influencers *stubInfluencerRepo, participants *stubParticipantRepo) ports.InfluencerService {
	return NewInfluencerService(influencers, participants, zerolog.Nop())
}

func TestInfluencerService_Register_CreatesPendingProfile(t *testing.T) {
	repo := newStubInfluencerRepo()
	svc := newInfluencerService(repo, &stubParticipantRepo{})

	created, err := svc.Register(context.Background(), ports.RegisterInfluencerInput{
		Name:           "Sara Styles",
		Platform:       domain.PlatformInstagram,
		CustomPlatform: "ignored",
		Username:       "@sara_styles",
		Email:          "Sara@Example.com",
		Prizes:         []string{" iPhone ", "", "Voucher"},
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if created.Slug != "sara-styles" {
		t.Fatalf("expected latin slug, got %q", created.Slug)
	}
	if created.Status != domain.InfluencerPending || created.IsActive {
		t.Fatalf("new profile must be pending and inactive: %+v", created)
	}
	if len(created.Prizes) != 2 || created.Prizes[0] != "iPhone" {
		t.Fatalf("prizes not trimmed: %v", created.Prizes)
	}
	if len(created.Colors) != len(created.Prizes) {
		t.Fatalf("expected one color per prize, got %v", created.Colors)
	}
	if created.CustomPlatform != "" {
		t.Fatalf("custom platform must only be kept for %q", domain.PlatformOther)
	}
	if created.Email != "sara@example.com" {
		t.Fatalf("email not normalized: %q", created.Email)
	}
}

func TestInfluencerService_Register_RejectsUnknownPlatform(t *testing.T) {
	svc := newInfluencerService(newStubInfluencerRepo(), &stubParticipantRepo{})

	_, err := svc.Register(context.Background(), ports.RegisterInfluencerInput{
		Name:     "Sara",
		Platform: "myspace",
		Username: "@sara",
		Email:    "sara@example.com",
		Prizes:   []string{"iPhone"},
	})
	if err != domain.ErrInvalidPlatform {
		t.Fatalf("expected invalid platform error, got %v", err)
	}
}

func TestInfluencerService_Register_RequiresPrizes(t *testing.T) {
	svc := newInfluencerService(newStubInfluencerRepo(), &stubParticipantRepo{})

	_, err := svc.Register(context.Background(), ports.RegisterInfluencerInput{
		Name:     "Sara",
		Platform: domain.PlatformTikTok,
		Username: "@sara",
		Email:    "sara@example.com",
		Prizes:   []string{"  ", ""},
	})
	if err != domain.ErrNoPrizes {
		t.Fatalf("expected no-prizes error, got %v", err)
	}
}

func TestInfluencerService_Register_SuffixesTakenSlug(t *testing.T) {
	repo := newStubInfluencerRepo()
	repo.add(activeInfluencer())
	svc := newInfluencerService(repo, &stubParticipantRepo{})

	created, err := svc.Register(context.Background(), ports.RegisterInfluencerInput{
		Name:     "Sara Styles",
		Platform: domain.PlatformInstagram,
		Username: "@sara2",
		Email:    "sara2@example.com",
		Prizes:   []string{"Voucher"},
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if created.Slug == "sara-styles" || !strings.HasPrefix(created.Slug, "sara-styles-") {
		t.Fatalf("expected suffixed slug, got %q", created.Slug)
	}
}

func TestInfluencerService_ApproveActivates(t *testing.T) {
	repo := newStubInfluencerRepo()
	inf := activeInfluencer()
	inf.Status = domain.InfluencerPending
	inf.IsActive = false
	repo.add(inf)
	svc := newInfluencerService(repo, &stubParticipantRepo{})

	approved, err := svc.Approve(context.Background(), "inf_1")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != domain.InfluencerApproved || !approved.IsActive || approved.ApprovedAt == nil {
		t.Fatalf("approval state wrong: %+v", approved)
	}

	rejected, err := svc.Reject(context.Background(), "inf_1")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != domain.InfluencerRejected || rejected.IsActive {
		t.Fatalf("rejection state wrong: %+v", rejected)
	}
}

func TestInfluencerService_Draw_MasksWinner(t *testing.T) {
	repo := newStubInfluencerRepo()
	repo.add(activeInfluencer())
	participants := &stubParticipantRepo{participants: []domain.Participant{{
		ID:            "part_1",
		InfluencerID:  "inf_1",
		Name:          "Huda",
		Phone:         "0512345678",
		SocialAccount: "@huda_k",
		City:          "Jeddah",
	}}}
	svc := newInfluencerService(repo, participants)

	result, err := svc.Draw(context.Background(), "sara-styles")
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	if result.Prize != "iPhone" && result.Prize != "Voucher" {
		t.Fatalf("prize outside configured set: %q", result.Prize)
	}
	if result.Winner.Name != "Huda" || result.Winner.City != "Jeddah" {
		t.Fatalf("winner fields wrong: %+v", result.Winner)
	}
	if result.Winner.Phone != "051234****" {
		t.Fatalf("phone not masked: %q", result.Winner.Phone)
	}
	if result.Winner.SocialAccount != "@hud***" {
		t.Fatalf("social account not masked: %q", result.Winner.SocialAccount)
	}
}

func TestInfluencerService_Draw_RequiresParticipants(t *testing.T) {
	repo := newStubInfluencerRepo()
	repo.add(activeInfluencer())
	svc := newInfluencerService(repo, &stubParticipantRepo{})

	if _, err := svc.Draw(context.Background(), "sara-styles"); err != domain.ErrNoParticipants {
		t.Fatalf("expected no-participants error, got %v", err)
	}
}

func TestInfluencerService_Draw_RequiresActiveInfluencer(t *testing.T) {
	repo := newStubInfluencerRepo()
	inf := activeInfluencer()
	inf.IsActive = false
	repo.add(inf)
	svc := newInfluencerService(repo, &stubParticipantRepo{})

	if _, err := svc.Draw(context.Background(), "sara-styles"); err != domain.ErrInfluencerNotActive {
		t.Fatalf("expected inactive error, got %v", err)
	}
}

func TestInfluencerService_AddParticipantAndCount(t *testing.T) {
	repo := newStubInfluencerRepo()
	repo.add(activeInfluencer())
	participants := &stubParticipantRepo{}
	svc := newInfluencerService(repo, participants)

	created, err := svc.AddParticipant(context.Background(), "sara-styles", ports.ParticipantInput{
		Name:          " Huda ",
		Phone:         "0512345678",
		SocialAccount: "@huda_k",
		City:          "Jeddah",
	})
	if err != nil {
		t.Fatalf("add participant failed: %v", err)
	}
	if created.InfluencerID != "inf_1" || created.Name != "Huda" {
		t.Fatalf("participant not linked or trimmed: %+v", created)
	}

	count, err := svc.ParticipantCount(context.Background(), "sara-styles")
	if err != nil || count != 1 {
		t.Fatalf("expected count 1, got %d (%v)", count, err)
	}
}
