package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dawerha/dawerha-api/internal/core/domain"
	"github.com/dawerha/dawerha-api/internal/core/ports"
)

const (
	tokenPrefix = "dwrha"

	// Token uniqueness is probabilistic; the sessions collection carries a
	// unique index as a backstop and creation retries on collision.
	maxTokenAttempts = 3

	tempPasswordPrefix = "Dwrha"
	maxSlugAttempts    = 10
)

// AuthService implements the session lifecycle: login, token validation,
// logout, and company account provisioning.
type AuthService struct {
	creds     ports.CredentialRepository
	sessions  ports.SessionRepository
	companies ports.CompanyRepository
	logger    zerolog.Logger
}

func NewAuthService(
	creds ports.CredentialRepository,
	sessions ports.SessionRepository,
	companies ports.CompanyRepository,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{creds: creds, sessions: sessions, companies: companies, logger: logger}
}

// Login authenticates a company or admin user. The session row is durably
// written before the snapshot is returned, so a crash in between can never
// leave a client believing it is authenticated while the server holds no
// matching session.
func (s *AuthService) Login(ctx context.Context, userType, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	switch userType {
	case domain.UserTypeCompany:
		return s.loginCompany(ctx, email, password)
	case domain.UserTypeAdmin:
		return s.loginAdmin(ctx, email, password)
	default:
		return nil, domain.ErrInvalidCredentials
	}
}

func (s *AuthService) loginCompany(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	company, err := s.creds.FindCompanyByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("company login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(company.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !company.CanLogin() {
		return nil, domain.ErrAccountNotApproved
	}

	session, err := s.createSession(ctx, domain.UserTypeCompany, company.ID, company.Email)
	if err != nil {
		return nil, err
	}

	if err := s.creds.TouchCompanyLastLogin(ctx, company.ID, time.Now().UTC()); err != nil {
		s.logger.Warn().Err(err).Str("company_id", company.ID).Msg("failed to update last login")
	}

	s.logger.Info().Str("company_id", company.ID).Msg("company logged in")

	return &ports.LoginResult{
		Session: session,
		Snapshot: domain.SessionSnapshot{
			Token:     session.Token,
			UserType:  domain.UserTypeCompany,
			UserID:    company.ID,
			Email:     company.Email,
			Name:      company.Name,
			ExpiresAt: session.ExpiresAt,
		},
		RedirectTo: "/companies/" + company.ID + "/dashboard",
		Company:    company,
	}, nil
}

func (s *AuthService) loginAdmin(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	admin, err := s.creds.FindAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("admin login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !admin.IsActive {
		return nil, domain.ErrAccountInactive
	}

	session, err := s.createSession(ctx, domain.UserTypeAdmin, admin.ID, admin.Email)
	if err != nil {
		return nil, err
	}

	if err := s.creds.TouchAdminLastLogin(ctx, admin.ID, time.Now().UTC()); err != nil {
		s.logger.Warn().Err(err).Str("admin_id", admin.ID).Msg("failed to update last login")
	}

	s.logger.Info().Str("admin_id", admin.ID).Msg("admin logged in")

	return &ports.LoginResult{
		Session: session,
		Snapshot: domain.SessionSnapshot{
			Token:     session.Token,
			UserType:  domain.UserTypeAdmin,
			UserID:    admin.ID,
			Email:     admin.Email,
			Name:      admin.Name,
			Role:      admin.Role,
			ExpiresAt: session.ExpiresAt,
		},
		RedirectTo: "/admin/dashboard",
		Admin:      admin,
	}, nil
}

// createSession issues a token and persists the session row, retrying a
// bounded number of times if the token collides with an existing one.
func (s *AuthService) createSession(ctx context.Context, userType, userID, email string) (*domain.Session, error) {
	now := time.Now().UTC()
	session := &domain.Session{
		UserType:  userType,
		UserID:    userID,
		Email:     email,
		ExpiresAt: now.Add(domain.SessionTTL(userType)),
		CreatedAt: now,
	}

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		session.Token = issueToken()
		err := s.sessions.Create(ctx, session)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, domain.ErrTokenExists) {
			return nil, fmt.Errorf("create session: %w", err)
		}
		s.logger.Warn().Str("user_id", userID).Msg("session token collision, regenerating")
	}
	return nil, fmt.Errorf("create session: %w", domain.ErrTokenExists)
}

// ValidateToken reports whether a live session exists for the token. Storage
// failures read as invalid rather than granting access on an ambiguous error.
func (s *AuthService) ValidateToken(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			s.logger.Warn().Err(err).Msg("session lookup failed, treating token as invalid")
		}
		return false
	}
	return !session.Expired(time.Now().UTC())
}

// Logout revokes the session row for the token. The delete is best-effort:
// a remote failure must never prevent the caller from clearing its local
// snapshot.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.sessions.DeleteByToken(ctx, token); err != nil {
		s.logger.Warn().Err(err).Msg("failed to delete session on logout")
	}
}

// CreateCompanyAccount provisions a pending company account. The generated
// temporary password is returned exactly once and only its bcrypt digest is
// stored.
func (s *AuthService) CreateCompanyAccount(ctx context.Context, input ports.CreateCompanyInput) (*ports.ProvisionResult, error) {
	if input.Name == "" || input.Email == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !validCompanyType(input.Type) {
		return nil, domain.ErrInvalidCompanyType
	}

	percentages, err := domain.NormalizePrizePercentages(input.Prizes, input.PrizePercentages)
	if err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	tempPassword := generateTempPassword()
	digest, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash temporary password: %w", err)
	}

	now := time.Now().UTC()
	company := &domain.Company{
		Name:             input.Name,
		Slug:             slug,
		Type:             input.Type,
		CustomType:       input.CustomType,
		Email:            input.Email,
		Phone:            input.Phone,
		PasswordHash:     string(digest),
		Prizes:           input.Prizes,
		PrizePercentages: percentages,
		Colors:           domain.WheelColors(len(input.Prizes)),
		Status:           domain.StatusPending,
		IsActive:         false, // activated after manual approval
		ActiveHours:      domain.MinActiveHours,
		LogoURL:          input.LogoURL,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.creds.CreateCompany(ctx, company)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("company_id", created.ID).Str("slug", created.Slug).Msg("company account provisioned")

	return &ports.ProvisionResult{
		Company:      created,
		TempPassword: tempPassword,
		PlayPath:     "/play/" + created.Slug,
	}, nil
}

// PurgeExpiredSessions removes expired session rows. Validation never relies
// on this; it only keeps the collection small.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, time.Now().UTC())
}

func (s *AuthService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := domain.Slugify(name)
	if base == "" {
		base = randString(8, lowerAlpha)
	}
	slug := base
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		taken, err := s.companies.SlugExists(ctx, slug)
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

func validCompanyType(t string) bool {
	for _, known := range domain.CompanyTypes {
		if t == known {
			return true
		}
	}
	return false
}

// issueToken produces an opaque bearer token: a fixed namespace prefix, two
// independent random base-36 fragments, and the issuance timestamp in
// milliseconds, joined by underscores.
func issueToken() string {
	return strings.Join([]string{
		tokenPrefix,
		randBase36(),
		strconv.FormatInt(time.Now().UnixMilli(), 10),
		randBase36(),
	}, "_")
}

// generateTempPassword builds a one-time company password: fixed prefix, six
// random uppercase alphanumerics, a special character, and the current year.
func generateTempPassword() string {
	return tempPasswordPrefix + randString(6, upperAlnum) + "@" + strconv.Itoa(time.Now().Year())
}

const (
	lowerAlpha = "abcdefghijklmnopqrstuvwxyz"
	lowerAlnum = "abcdefghijklmnopqrstuvwxyz0123456789"
	upperAlnum = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// randBase36 returns a random 64-bit value rendered in base 36.
func randBase36() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// fallback: nanosecond clock, still unique enough per fragment
		return strconv.FormatUint(uint64(time.Now().UnixNano()), 36)
	}
	return strconv.FormatUint(binary.BigEndian.Uint64(b[:]), 36)
}

func randString(n int, charset string) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		for i := range buf {
			buf[i] = charset[int(time.Now().UnixNano()>>uint(i))%len(charset)]
		}
		return string(buf)
	}
	for i, c := range buf {
		buf[i] = charset[int(c)%len(charset)]
	}
	return string(buf)
}
