package domain

import (
	"errors"
	"time"
)

var ErrInvalidSchedule = errors.New("invalid activation schedule")

// ActivationSchedule describes a recurring weekly activation window for a
// company. The scheduler sweep activates the company when the window opens
// and relies on the company's activation end time to close it again.
type ActivationSchedule struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`

	Saturday  bool `json:"saturday"`
	Sunday    bool `json:"sunday"`
	Monday    bool `json:"monday"`
	Tuesday   bool `json:"tuesday"`
	Wednesday bool `json:"wednesday"`
	Thursday  bool `json:"thursday"`
	Friday    bool `json:"friday"`

	StartHour     int `json:"start_hour"` // 0..23, inclusive
	EndHour       int `json:"end_hour"`   // 1..24, exclusive
	DurationHours int `json:"duration_hours"`

	IsActive       bool       `json:"is_active"`
	LastActivation *time.Time `json:"last_activation,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ActiveOn reports whether the schedule covers the given weekday.
func (s *ActivationSchedule) ActiveOn(day time.Weekday) bool {
	switch day {
	case time.Saturday:
		return s.Saturday
	case time.Sunday:
		return s.Sunday
	case time.Monday:
		return s.Monday
	case time.Tuesday:
		return s.Tuesday
	case time.Wednesday:
		return s.Wednesday
	case time.Thursday:
		return s.Thursday
	case time.Friday:
		return s.Friday
	}
	return false
}

// WindowHours returns how long an activation triggered by this schedule
// should last.
func (s *ActivationSchedule) WindowHours() int {
	if s.EndHour > s.StartHour {
		return s.EndHour - s.StartHour
	}
	if s.DurationHours > 0 {
		return s.DurationHours
	}
	return 1
}

// ShouldActivate reports whether the sweep should activate the company now:
// the schedule is enabled, today is a covered weekday, the current hour is
// inside [StartHour, EndHour), and the previous activation from this schedule
// has run out.
func (s *ActivationSchedule) ShouldActivate(now time.Time) bool {
	if !s.IsActive || !s.ActiveOn(now.Weekday()) {
		return false
	}
	h := now.Hour()
	if h < s.StartHour || h >= s.EndHour {
		return false
	}
	if s.LastActivation != nil {
		window := time.Duration(s.WindowHours()) * time.Hour
		if now.Sub(*s.LastActivation) < window {
			return false
		}
	}
	return true
}
