package domain

import (
	"errors"
	"math/rand"
	"strings"
	"time"
)

// CompanyStatus represents the review state of a company account.
type CompanyStatus string

const (
	StatusPending  CompanyStatus = "pending"
	StatusApproved CompanyStatus = "approved"
	StatusRejected CompanyStatus = "rejected"
)

const (
	TypeRestaurant = "restaurant"
	TypeResort     = "resort"
	TypeHotel      = "hotel"
	TypeCoffee     = "coffee"
	TypeCafe       = "cafe"
	TypeEvent      = "event"
	TypeOther      = "other"
)

// CompanyTypes lists the accepted venue types for registration.
var CompanyTypes = []string{TypeRestaurant, TypeResort, TypeHotel, TypeCoffee, TypeCafe, TypeEvent, TypeOther}

var ErrCompanyNotFound = errors.New("company not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrSlugTaken = errors.New("slug already taken")
var ErrInvalidPrizeConfig = errors.New("invalid prize configuration")
var ErrInvalidActiveHours = errors.New("active hours must be between 1 and 168")
var ErrInvalidCompanyType = errors.New("unknown company type")

// brandPalette holds the Dawerha wheel colors; segment colors are drawn from
// it when a company does not supply its own.
var brandPalette = []string{
	"#6A3FA0",
	"#8C59C4",
	"#2E2240",
	"#F3E9FF",
	"#B794F6",
	"#9D72D0",
}

// Activation windows are bounded to one week.
const (
	MinActiveHours = 1
	MaxActiveHours = 168
)

// Company is the aggregate for a registered business running a prize wheel.
type Company struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Slug             string        `json:"slug"`
	Type             string        `json:"type"`
	CustomType       string        `json:"custom_type,omitempty"`
	Email            string        `json:"email"`
	Phone            string        `json:"phone,omitempty"`
	PasswordHash     string        `json:"-"`
	Prizes           []string      `json:"prizes"`
	PrizePercentages []int         `json:"prize_percentages,omitempty"`
	Colors           []string      `json:"colors"`
	Status           CompanyStatus `json:"status"`
	IsActive         bool          `json:"is_active"`
	ActiveHours      int           `json:"active_hours"`
	ActivationStart  *time.Time    `json:"activation_start_time,omitempty"`
	ActivationEnd    *time.Time    `json:"activation_end_time,omitempty"`
	LogoURL          string        `json:"logo_url,omitempty"`
	Notes            string        `json:"notes,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	ApprovedAt       *time.Time    `json:"approved_at,omitempty"`
	LastLogin        *time.Time    `json:"last_login,omitempty"`
}

// FinalType returns the custom type when the company registered as "other".
func (c *Company) FinalType() string {
	if c.Type == TypeOther && c.CustomType != "" {
		return c.CustomType
	}
	return c.Type
}

// CanLogin reports whether the account passes the company login gate.
func (c *Company) CanLogin() bool {
	return c.IsActive && c.Status == StatusApproved
}

// CurrentlyActive reports whether the wheel is playable at the given instant.
// An approved company with no activation window is permanently active; a
// window with no explicit end runs for ActiveHours from its start.
func (c *Company) CurrentlyActive(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ActivationStart == nil {
		return true
	}
	end := c.ActivationEnd
	if end == nil {
		e := c.ActivationStart.Add(time.Duration(c.ActiveHours) * time.Hour)
		end = &e
	}
	return !now.Before(*c.ActivationStart) && !now.After(*end)
}

// NormalizePrizePercentages validates a prize weight configuration and fills
// in an equal split when none was supplied. Percentages must be positive,
// match the prize count, and sum to 100; with an equal split the remainder
// lands on the last prize.
func NormalizePrizePercentages(prizes []string, percentages []int) ([]int, error) {
	if len(prizes) == 0 {
		return nil, ErrInvalidPrizeConfig
	}
	if len(percentages) == 0 {
		share := 100 / len(prizes)
		out := make([]int, len(prizes))
		for i := range out {
			out[i] = share
		}
		out[len(out)-1] += 100 - share*len(prizes)
		return out, nil
	}
	if len(percentages) != len(prizes) {
		return nil, ErrInvalidPrizeConfig
	}
	sum := 0
	for _, p := range percentages {
		if p <= 0 {
			return nil, ErrInvalidPrizeConfig
		}
		sum += p
	}
	if sum != 100 {
		return nil, ErrInvalidPrizeConfig
	}
	out := make([]int, len(percentages))
	copy(out, percentages)
	return out, nil
}

// WheelColors returns n segment colors drawn from the brand palette in a
// random order, cycling when n exceeds the palette size.
func WheelColors(n int) []string {
	shuffled := make([]string, len(brandPalette))
	copy(shuffled, brandPalette)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	out := make([]string, n)
	for i := range out {
		out[i] = shuffled[i%len(shuffled)]
	}
	return out
}

// Slugify lowers a name to a latin-only URL slug. Returns "" when the name
// contains no latin letters or digits (callers fall back to a random slug).
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // swallow leading hyphens
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
