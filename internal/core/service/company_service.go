package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dawerha/dawerha-api/internal/core/domain"
	"github.com/dawerha/dawerha-api/internal/core/ports"
)

// CompanyService implements the review workflow and activation management.
type CompanyService struct {
	companies ports.CompanyRepository
	schedules ports.ScheduleRepository
	logger    zerolog.Logger
}

func NewCompanyService(companies ports.CompanyRepository, schedules ports.ScheduleRepository, logger zerolog.Logger) *CompanyService {
	return &CompanyService{companies: companies, schedules: schedules, logger: logger}
}

func (s *CompanyService) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	return s.companies.FindByID(ctx, id)
}

func (s *CompanyService) GetBySlug(ctx context.Context, slug string) (*domain.Company, error) {
	return s.companies.FindBySlug(ctx, slug)
}

// Approve marks the company approved and active so it can log in and run its
// wheel.
func (s *CompanyService) Approve(ctx context.Context, id string) (*domain.Company, error) {
	now := time.Now().UTC()
	if err := s.companies.SetReviewStatus(ctx, id, domain.StatusApproved, true, &now); err != nil {
		return nil, fmt.Errorf("approve company: %w", err)
	}
	s.logger.Info().Str("company_id", id).Msg("company approved")
	return s.companies.FindByID(ctx, id)
}

// Reject marks the company rejected and inactive.
func (s *CompanyService) Reject(ctx context.Context, id string) (*domain.Company, error) {
	if err := s.companies.SetReviewStatus(ctx, id, domain.StatusRejected, false, nil); err != nil {
		return nil, fmt.Errorf("reject company: %w", err)
	}
	s.logger.Info().Str("company_id", id).Msg("company rejected")
	return s.companies.FindByID(ctx, id)
}

// ActivateNow opens a playable window starting immediately.
func (s *CompanyService) ActivateNow(ctx context.Context, id string, hours int) (*domain.Company, error) {
	if hours < domain.MinActiveHours || hours > domain.MaxActiveHours {
		return nil, domain.ErrInvalidActiveHours
	}
	start := time.Now().UTC()
	end := start.Add(time.Duration(hours) * time.Hour)
	if err := s.companies.SetActivationWindow(ctx, id, &start, &end, hours, true); err != nil {
		return nil, fmt.Errorf("activate company: %w", err)
	}
	s.logger.Info().Str("company_id", id).Int("hours", hours).Msg("company activated")
	return s.companies.FindByID(ctx, id)
}

// AddSchedule attaches a recurring weekly activation window to a company.
func (s *CompanyService) AddSchedule(ctx context.Context, schedule *domain.ActivationSchedule) (*domain.ActivationSchedule, error) {
	if schedule.CompanyID == "" {
		return nil, domain.ErrInvalidSchedule
	}
	if schedule.StartHour < 0 || schedule.StartHour > 23 || schedule.EndHour < 1 || schedule.EndHour > 24 {
		return nil, domain.ErrInvalidSchedule
	}
	if schedule.EndHour <= schedule.StartHour {
		return nil, domain.ErrInvalidSchedule
	}
	if !anyDay(schedule) {
		return nil, domain.ErrInvalidSchedule
	}
	if _, err := s.companies.FindByID(ctx, schedule.CompanyID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	schedule.IsActive = true
	schedule.CreatedAt = now
	schedule.UpdatedAt = now
	return s.schedules.Create(ctx, schedule)
}

// SweepSchedules activates every company whose schedule window has opened.
// Returns the number of activations performed. Individual failures are
// logged and skipped so one broken schedule cannot stall the sweep.
func (s *CompanyService) SweepSchedules(ctx context.Context, now time.Time) (int, error) {
	enabled, err := s.schedules.ListEnabled(ctx)
	if err != nil {
		return 0, fmt.Errorf("list schedules: %w", err)
	}

	activated := 0
	for i := range enabled {
		schedule := &enabled[i]
		if !schedule.ShouldActivate(now) {
			continue
		}

		company, err := s.companies.FindByID(ctx, schedule.CompanyID)
		if err != nil {
			s.logger.Warn().Err(err).Str("schedule_id", schedule.ID).Msg("schedule points at missing company")
			continue
		}
		if company.Status == domain.StatusRejected {
			continue
		}

		hours := schedule.WindowHours()
		start := now
		end := now.Add(time.Duration(hours) * time.Hour)
		if err := s.companies.SetActivationWindow(ctx, company.ID, &start, &end, hours, true); err != nil {
			s.logger.Error().Err(err).Str("company_id", company.ID).Msg("scheduled activation failed")
			continue
		}
		if err := s.schedules.TouchActivation(ctx, schedule.ID, now); err != nil {
			s.logger.Warn().Err(err).Str("schedule_id", schedule.ID).Msg("failed to record activation time")
		}

		s.logger.Info().Str("company_id", company.ID).Int("hours", hours).Msg("company activated by schedule")
		activated++
	}
	return activated, nil
}

func anyDay(s *domain.ActivationSchedule) bool {
	return s.Saturday || s.Sunday || s.Monday || s.Tuesday || s.Wednesday || s.Thursday || s.Friday
}
