package domain

import (
	"errors"
	"regexp"
	"time"
)

var ErrCompanyNotActive = errors.New("company not currently active")
var ErrSpinThrottled = errors.New("spin throttled")
var ErrInvalidPhone = errors.New("invalid phone number")
var ErrNoPrizes = errors.New("no prizes configured")
var ErrVisitorNameRequired = errors.New("visitor name required")

// Saudi mobile numbers: 05 followed by 8 digits. The field is optional.
var phonePattern = regexp.MustCompile(`^05[0-9]{8}$`)

// ValidVisitorPhone reports whether the phone is empty or a valid Saudi
// mobile number.
func ValidVisitorPhone(phone string) bool {
	return phone == "" || phonePattern.MatchString(phone)
}

// Spin records a single wheel spin by a visitor.
type Spin struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	VisitorName  string    `json:"visitor_name"`
	VisitorPhone string    `json:"visitor_phone,omitempty"`
	Prize        string    `json:"prize"`
	Won          bool      `json:"won"`
	SessionID    string    `json:"session_id,omitempty"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PrizeCount is one row of a prize distribution.
type PrizeCount struct {
	Prize string `json:"prize"`
	Count int64  `json:"count"`
}

// SpinStats aggregates a company's spin history for its dashboard.
type SpinStats struct {
	TotalSpins        int64        `json:"total_spins"`
	UniqueVisitors    int64        `json:"unique_visitors"`
	TodaySpins        int64        `json:"today_spins"`
	WeekSpins         int64        `json:"week_spins"`
	PrizeDistribution []PrizeCount `json:"prize_distribution"`
	RecentSpins       []Spin       `json:"recent_spins"`
}
