package ports

import (
	"context"

	"github.com/dawerha/dawerha-api/internal/core/domain"
)

// SpinInput carries one wheel spin request.
type SpinInput struct {
	Slug         string
	VisitorName  string
	VisitorPhone string
	SessionID    string
	IPAddress    string
	UserAgent    string
}

// SpinResult is the outcome of a spin.
type SpinResult struct {
	SpinID string `json:"spin_id"`
	Prize  string `json:"prize"`
}

// GameService handles wheel spins and the company dashboard statistics.
type GameService interface {
	Spin(ctx context.Context, input SpinInput) (*SpinResult, error)
	Dashboard(ctx context.Context, companyID string) (*domain.SpinStats, error)
}
