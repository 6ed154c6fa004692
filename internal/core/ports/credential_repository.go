package ports

import (
	"context"
	"time"

	"github.com/dawerha/dawerha-api/internal/core/domain"
)

// CredentialRepository defines the persistence interface for account lookups
// during authentication. Accounts live in role-partitioned collections; the
// core never implements the storage itself.
type CredentialRepository interface {
	FindCompanyByEmail(ctx context.Context, email string) (*domain.Company, error)
	FindAdminByEmail(ctx context.Context, email string) (*domain.AdminUser, error)

	// Last-login touches are advisory metadata; a racing update is tolerable
	// and failures never fail a login.
	TouchCompanyLastLogin(ctx context.Context, id string, at time.Time) error
	TouchAdminLastLogin(ctx context.Context, id string, at time.Time) error

	// CreateCompany inserts a new company account pending review.
	CreateCompany(ctx context.Context, company *domain.Company) (*domain.Company, error)
}
