package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dawerha/dawerha-api/internal/core/domain"
)

type stubScheduleRepo struct {
	schedules []domain.ActivationSchedule
	touched   []string
	listErr   error
}

func (r *stubScheduleRepo) Create(_ context.Context, schedule *domain.ActivationSchedule) (*domain.ActivationSchedule, error) {
	clone := *schedule
	if clone.ID == "" {
		clone.ID = "sched_1"
	}
	r.schedules = append(r.schedules, clone)
	return &clone, nil
}

func (r *stubScheduleRepo) ListEnabled(_ context.Context) ([]domain.ActivationSchedule, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]domain.ActivationSchedule, len(r.schedules))
	copy(out, r.schedules)
	return out, nil
}

func (r *stubScheduleRepo) TouchActivation(_ context.Context, id string, at time.Time) error {
	r.touched = append(r.touched, id)
	for i := range r.schedules {
		if r.schedules[i].ID == id {
			t := at
			r.schedules[i].LastActivation = &t
		}
	}
	return nil
}

// coverDay flags the schedule for the weekday of the given instant.
func coverDay(s *domain.ActivationSchedule, at time.Time) {
	switch at.Weekday() {
	case time.Saturday:
		s.Saturday = true
	case time.Sunday:
		s.Sunday = true
	case time.Monday:
		s.Monday = true
	case time.Tuesday:
		s.Tuesday = true
	case time.Wednesday:
		s.Wednesday = true
	case time.Thursday:
		s.Thursday = true
	case time.Friday:
		s.Friday = true
	}
}

func newCompanyService(companies *stubCompanyRepo, schedules *stubScheduleRepo) *CompanyService {
	return NewCompanyService(companies, schedules, zerolog.Nop())
}

func TestCompanyService_Approve(t *testing.T) {
	companies := newStubCompanyRepo()
	companies.add(&domain.Company{ID: "c1", Slug: "aroma", Status: domain.StatusPending})
	svc := newCompanyService(companies, &stubScheduleRepo{})

	company, err := svc.Approve(context.Background(), "c1")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if company.Status != domain.StatusApproved || !company.IsActive {
		t.Fatalf("expected approved+active, got %+v", company)
	}
	if company.ApprovedAt == nil {
		t.Fatalf("approved_at must be set")
	}
}

func TestCompanyService_Reject(t *testing.T) {
	companies := newStubCompanyRepo()
	companies.add(&domain.Company{ID: "c1", Slug: "aroma", Status: domain.StatusPending, IsActive: true})
	svc := newCompanyService(companies, &stubScheduleRepo{})

	company, err := svc.Reject(context.Background(), "c1")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if company.Status != domain.StatusRejected || company.IsActive {
		t.Fatalf("expected rejected+inactive, got %+v", company)
	}
}

func TestCompanyService_ActivateNow(t *testing.T) {
	companies := newStubCompanyRepo()
	companies.add(&domain.Company{ID: "c1", Slug: "aroma", Status: domain.StatusApproved})
	svc := newCompanyService(companies, &stubScheduleRepo{})

	company, err := svc.ActivateNow(context.Background(), "c1", 4)
	if err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if company.ActivationStart == nil || company.ActivationEnd == nil {
		t.Fatalf("activation window not set")
	}
	if got := company.ActivationEnd.Sub(*company.ActivationStart); got != 4*time.Hour {
		t.Fatalf("expected 4h window, got %v", got)
	}
	if !company.IsActive || company.ActiveHours != 4 {
		t.Fatalf("unexpected activation state: %+v", company)
	}
}

func TestCompanyService_ActivateNow_Bounds(t *testing.T) {
	companies := newStubCompanyRepo()
	companies.add(&domain.Company{ID: "c1", Slug: "aroma"})
	svc := newCompanyService(companies, &stubScheduleRepo{})

	for _, hours := range []int{0, -1, 169} {
		if _, err := svc.ActivateNow(context.Background(), "c1", hours); !errors.Is(err, domain.ErrInvalidActiveHours) {
			t.Fatalf("hours=%d: expected ErrInvalidActiveHours, got %v", hours, err)
		}
	}
}

func TestCompanyService_AddSchedule_Validation(t *testing.T) {
	companies := newStubCompanyRepo()
	companies.add(&domain.Company{ID: "c1", Slug: "aroma"})
	svc := newCompanyService(companies, &stubScheduleRepo{})
	ctx := context.Background()

	cases := []domain.ActivationSchedule{
		{StartHour: 9, EndHour: 17, Monday: true},                       // missing company
		{CompanyID: "c1", StartHour: 17, EndHour: 9, Monday: true},      // inverted window
		{CompanyID: "c1", StartHour: -1, EndHour: 9, Monday: true},      // bad start
		{CompanyID: "c1", StartHour: 9, EndHour: 25, Monday: true},      // bad end
		{CompanyID: "c1", StartHour: 9, EndHour: 17 /* no days */},      // no weekday
	}
	for i, schedule := range cases {
		if _, err := svc.AddSchedule(ctx, &schedule); !errors.Is(err, domain.ErrInvalidSchedule) {
			t.Fatalf("case %d: expected ErrInvalidSchedule, got %v", i, err)
		}
	}
}

func TestCompanyService_SweepSchedules_Activates(t *testing.T) {
	now := time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)

	companies := newStubCompanyRepo()
	companies.add(&domain.Company{ID: "c1", Slug: "aroma", Status: domain.StatusApproved})
	schedules := &stubScheduleRepo{}
	schedule := domain.ActivationSchedule{ID: "s1", CompanyID: "c1", StartHour: 9, EndHour: 12, IsActive: true}
	coverDay(&schedule, now)
	schedules.schedules = append(schedules.schedules, schedule)

	svc := newCompanyService(companies, schedules)
	activated, err := svc.SweepSchedules(context.Background(), now)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if activated != 1 {
		t.Fatalf("expected 1 activation, got %d", activated)
	}

	company := companies.byID["c1"]
	if !company.IsActive || company.ActivationStart == nil || company.ActivationEnd == nil {
		t.Fatalf("company not activated: %+v", company)
	}
	if got := company.ActivationEnd.Sub(*company.ActivationStart); got != 3*time.Hour {
		t.Fatalf("window should match schedule hours, got %v", got)
	}
	if len(schedules.touched) != 1 || schedules.touched[0] != "s1" {
		t.Fatalf("schedule activation not recorded: %v", schedules.touched)
	}
}

func TestCompanyService_SweepSchedules_SkipsOutsideWindowAndRejected(t *testing.T) {
	now := time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)

	companies := newStubCompanyRepo()
	companies.add(&domain.Company{ID: "c1", Slug: "aroma", Status: domain.StatusApproved})
	companies.add(&domain.Company{ID: "c2", Slug: "oasis", Status: domain.StatusRejected})
	schedules := &stubScheduleRepo{}

	outside := domain.ActivationSchedule{ID: "s1", CompanyID: "c1", StartHour: 14, EndHour: 18, IsActive: true}
	coverDay(&outside, now)
	rejected := domain.ActivationSchedule{ID: "s2", CompanyID: "c2", StartHour: 9, EndHour: 12, IsActive: true}
	coverDay(&rejected, now)
	schedules.schedules = append(schedules.schedules, outside, rejected)

	svc := newCompanyService(companies, schedules)
	activated, err := svc.SweepSchedules(context.Background(), now)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if activated != 0 {
		t.Fatalf("expected no activations, got %d", activated)
	}
}

func TestCompanyService_SweepSchedules_RespectsRecentActivation(t *testing.T) {
	now := time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)

	companies := newStubCompanyRepo()
	companies.add(&domain.Company{ID: "c1", Slug: "aroma", Status: domain.StatusApproved})
	schedules := &stubScheduleRepo{}
	recent := now.Add(-time.Hour)
	schedule := domain.ActivationSchedule{
		ID: "s1", CompanyID: "c1", StartHour: 9, EndHour: 12, IsActive: true,
		LastActivation: &recent,
	}
	coverDay(&schedule, now)
	schedules.schedules = append(schedules.schedules, schedule)

	svc := newCompanyService(companies, schedules)
	activated, err := svc.SweepSchedules(context.Background(), now)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if activated != 0 {
		t.Fatalf("activation still inside previous window must be skipped, got %d", activated)
	}
}
