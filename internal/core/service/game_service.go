package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dawerha/dawerha-api/internal/core/domain"
	"github.com/dawerha/dawerha-api/internal/core/ports"
)

// recentSpinWindow is how many of the latest spins feed the recency bias.
const recentSpinWindow = 100

// SpinGuard abstracts the repeat-spin throttle (Redis).
type SpinGuard interface {
	// Allow reports whether this visitor session may spin now and, when
	// allowed, claims the slot.
	Allow(ctx context.Context, companyID, visitorSession string) (bool, error)
}

type gameService struct {
	companies ports.CompanyRepository
	spins     ports.SpinRepository
	guard     SpinGuard
	log       zerolog.Logger
}

// NewGameService returns a GameService implementation.
func NewGameService(
	companies ports.CompanyRepository,
	spins ports.SpinRepository,
	guard SpinGuard,
	log zerolog.Logger,
) ports.GameService {
	return &gameService{companies: companies, spins: spins, guard: guard, log: log}
}

// Spin validates the request, picks a prize, and records the spin.
func (s *gameService) Spin(ctx context.Context, in ports.SpinInput) (*ports.SpinResult, error) {
	company, err := s.companies.FindBySlug(ctx, in.Slug)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if !company.CurrentlyActive(now) {
		return nil, domain.ErrCompanyNotActive
	}
	if in.VisitorName == "" {
		return nil, domain.ErrVisitorNameRequired
	}
	if !domain.ValidVisitorPhone(in.VisitorPhone) {
		return nil, domain.ErrInvalidPhone
	}
	if len(company.Prizes) == 0 {
		return nil, domain.ErrNoPrizes
	}

	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = "sess_" + uuid.NewString()
	}

	// Throttle repeat spins per visitor session. A guard failure lets the
	// spin through: the throttle is protection, not correctness.
	allowed, err := s.guard.Allow(ctx, company.ID, sessionID)
	if err != nil {
		s.log.Warn().Err(err).Str("company_id", company.ID).Msg("spin guard check failed, allowing spin")
	} else if !allowed {
		return nil, domain.ErrSpinThrottled
	}

	recent, err := s.spins.RecentPrizes(ctx, company.ID, recentSpinWindow)
	if err != nil {
		s.log.Warn().Err(err).Str("company_id", company.ID).Msg("recent prize lookup failed, selecting without history")
		recent = nil
	}

	prize := selectPrize(company.Prizes, company.PrizePercentages, recent)

	spin := &domain.Spin{
		CompanyID:    company.ID,
		VisitorName:  in.VisitorName,
		VisitorPhone: in.VisitorPhone,
		Prize:        prize,
		Won:          true,
		SessionID:    sessionID,
		IPAddress:    in.IPAddress,
		UserAgent:    in.UserAgent,
		CreatedAt:    now,
	}

	created, err := s.spins.Insert(ctx, spin)
	if err != nil {
		return nil, fmt.Errorf("record spin: %w", err)
	}

	s.log.Info().
		Str("company_id", company.ID).
		Str("prize", prize).
		Str("session_id", sessionID).
		Msg("wheel spin recorded")

	return &ports.SpinResult{SpinID: created.ID, Prize: prize}, nil
}

// Dashboard returns the spin statistics for a company.
func (s *gameService) Dashboard(ctx context.Context, companyID string) (*domain.SpinStats, error) {
	if _, err := s.companies.FindByID(ctx, companyID); err != nil {
		return nil, err
	}
	return s.spins.Stats(ctx, companyID, time.Now().UTC())
}

// selectPrize draws a prize from a weighted distribution. The base weight is
// the configured percentage (uniform when none is set), damped by recent
// frequency: a prize won k times in the recent window is scaled by
// 1/(k+1)^1.5, keeping the wheel unpredictable without letting one prize
// dominate.
func selectPrize(prizes []string, percentages []int, recent []string) string {
	counts := make(map[string]int, len(prizes))
	for _, p := range recent {
		counts[p]++
	}

	weights := make([]float64, len(prizes))
	total := 0.0
	for i, prize := range prizes {
		base := 1.0
		if len(percentages) == len(prizes) {
			base = float64(percentages[i])
		}
		w := base / math.Pow(float64(counts[prize]+1), 1.5)
		weights[i] = w
		total += w
	}

	r := rand.Float64() * total
	for i, w := range weights {
		r -= w
		if r < 0 {
			return prizes[i]
		}
	}
	return prizes[len(prizes)-1]
}
