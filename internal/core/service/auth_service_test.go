package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dawerha/dawerha-api/internal/core/domain"
	"github.com/dawerha/dawerha-api/internal/core/ports"
)

type stubCredRepo struct {
	companies map[string]*domain.Company
	admins    map[string]*domain.AdminUser

	companyTouches []string
	adminTouches   []string
	touchErr       error
	createErr      error
	created        *domain.Company
}

func newStubCredRepo() *stubCredRepo {
	return &stubCredRepo{
		companies: make(map[string]*domain.Company),
		admins:    make(map[string]*domain.AdminUser),
	}
}

func (r *stubCredRepo) FindCompanyByEmail(_ context.Context, email string) (*domain.Company, error) {
	if c, ok := r.companies[email]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, domain.ErrCompanyNotFound
}

func (r *stubCredRepo) FindAdminByEmail(_ context.Context, email string) (*domain.AdminUser, error) {
	if a, ok := r.admins[email]; ok {
		clone := *a
		return &clone, nil
	}
	return nil, domain.ErrAdminNotFound
}

func (r *stubCredRepo) TouchCompanyLastLogin(_ context.Context, id string, _ time.Time) error {
	r.companyTouches = append(r.companyTouches, id)
	return r.touchErr
}

func (r *stubCredRepo) TouchAdminLastLogin(_ context.Context, id string, _ time.Time) error {
	r.adminTouches = append(r.adminTouches, id)
	return r.touchErr
}

func (r *stubCredRepo) CreateCompany(_ context.Context, company *domain.Company) (*domain.Company, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *company
	if clone.ID == "" {
		clone.ID = "company_1"
	}
	r.created = &clone
	return &clone, nil
}

type stubSessionRepo struct {
	rows map[string]*domain.Session

	collideTimes int
	createErr    error
	findErr      error
	deleteErr    error
	deleteCalls  int
	purged       int64
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{rows: make(map[string]*domain.Session)}
}

func (r *stubSessionRepo) Create(_ context.Context, session *domain.Session) error {
	if r.createErr != nil {
		return r.createErr
	}
	if r.collideTimes > 0 {
		r.collideTimes--
		return domain.ErrTokenExists
	}
	clone := *session
	r.rows[session.Token] = &clone
	return nil
}

func (r *stubSessionRepo) FindByToken(_ context.Context, token string) (*domain.Session, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if s, ok := r.rows[token]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (r *stubSessionRepo) DeleteByToken(_ context.Context, token string) error {
	r.deleteCalls++
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.rows, token)
	return nil
}

func (r *stubSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for token, s := range r.rows {
		if s.Expired(now) {
			delete(r.rows, token)
			n++
		}
	}
	r.purged = n
	return n, nil
}

type stubCompanyRepo struct {
	byID    map[string]*domain.Company
	bySlug  map[string]*domain.Company
	slugErr error
}

func newStubCompanyRepo() *stubCompanyRepo {
	return &stubCompanyRepo{
		byID:   make(map[string]*domain.Company),
		bySlug: make(map[string]*domain.Company),
	}
}

func (r *stubCompanyRepo) add(c *domain.Company) {
	r.byID[c.ID] = c
	r.bySlug[c.Slug] = c
}

func (r *stubCompanyRepo) FindByID(_ context.Context, id string) (*domain.Company, error) {
	if c, ok := r.byID[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, domain.ErrCompanyNotFound
}

func (r *stubCompanyRepo) FindBySlug(_ context.Context, slug string) (*domain.Company, error) {
	if c, ok := r.bySlug[slug]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, domain.ErrCompanyNotFound
}

func (r *stubCompanyRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	if r.slugErr != nil {
		return false, r.slugErr
	}
	_, ok := r.bySlug[slug]
	return ok, nil
}

func (r *stubCompanyRepo) SetReviewStatus(_ context.Context, id string, status domain.CompanyStatus, isActive bool, approvedAt *time.Time) error {
	c, ok := r.byID[id]
	if !ok {
		return domain.ErrCompanyNotFound
	}
	c.Status = status
	c.IsActive = isActive
	c.ApprovedAt = approvedAt
	return nil
}

func (r *stubCompanyRepo) SetActivationWindow(_ context.Context, id string, start, end *time.Time, hours int, isActive bool) error {
	c, ok := r.byID[id]
	if !ok {
		return domain.ErrCompanyNotFound
	}
	c.ActivationStart = start
	c.ActivationEnd = end
	c.ActiveHours = hours
	c.IsActive = isActive
	return nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(digest)
}

func approvedCompany(t *testing.T, id, email, password string) *domain.Company {
	t.Helper()
	return &domain.Company{
		ID:           id,
		Name:         "Aroma Cafe",
		Slug:         "aroma-cafe",
		Email:        email,
		PasswordHash: mustHash(t, password),
		Status:       domain.StatusApproved,
		IsActive:     true,
		Prizes:       []string{"Free coffee", "Discount"},
	}
}

func newAuthService(creds *stubCredRepo, sessions *stubSessionRepo, companies *stubCompanyRepo) *AuthService {
	return NewAuthService(creds, sessions, companies, zerolog.Nop())
}

var tokenFormat = regexp.MustCompile(`^dwrha_[0-9a-z]+_[0-9]+_[0-9a-z]+$`)

func TestAuthService_Login_CompanySuccess(t *testing.T) {
	creds := newStubCredRepo()
	creds.companies["a@x.com"] = approvedCompany(t, "c1", "a@x.com", "pw1")
	sessions := newStubSessionRepo()
	svc := newAuthService(creds, sessions, newStubCompanyRepo())

	before := time.Now().UTC()
	result, err := svc.Login(context.Background(), domain.UserTypeCompany, "a@x.com", "pw1")
	after := time.Now().UTC()
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if !tokenFormat.MatchString(result.Session.Token) {
		t.Fatalf("unexpected token format: %s", result.Session.Token)
	}
	if result.Session.ExpiresAt.Before(before.Add(domain.CompanySessionTTL)) ||
		result.Session.ExpiresAt.After(after.Add(domain.CompanySessionTTL)) {
		t.Fatalf("expiry not 24h after login: %v", result.Session.ExpiresAt)
	}
	if _, ok := sessions.rows[result.Session.Token]; !ok {
		t.Fatalf("session row not persisted")
	}
	if !strings.Contains(result.RedirectTo, "c1") {
		t.Fatalf("redirect should contain company id: %s", result.RedirectTo)
	}
	if result.Snapshot.UserType != domain.UserTypeCompany || result.Snapshot.Token != result.Session.Token {
		t.Fatalf("unexpected snapshot: %+v", result.Snapshot)
	}
	if result.Snapshot.Role != "" {
		t.Fatalf("company snapshot must not carry a role")
	}
	if len(creds.companyTouches) != 1 || creds.companyTouches[0] != "c1" {
		t.Fatalf("expected last-login touch for c1, got %v", creds.companyTouches)
	}
}

func TestAuthService_Login_AdminSuccess(t *testing.T) {
	creds := newStubCredRepo()
	creds.admins["admin@x.com"] = &domain.AdminUser{
		ID:           "a1",
		Name:         "Ops",
		Email:        "admin@x.com",
		PasswordHash: mustHash(t, "s3cret"),
		Role:         domain.AdminRoleSuper,
		IsActive:     true,
	}
	sessions := newStubSessionRepo()
	svc := newAuthService(creds, sessions, newStubCompanyRepo())

	before := time.Now().UTC()
	result, err := svc.Login(context.Background(), domain.UserTypeAdmin, "admin@x.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Session.ExpiresAt.Before(before.Add(domain.AdminSessionTTL)) ||
		result.Session.ExpiresAt.After(time.Now().UTC().Add(domain.AdminSessionTTL)) {
		t.Fatalf("expiry not 12h after login: %v", result.Session.ExpiresAt)
	}
	if result.Snapshot.Role != domain.AdminRoleSuper {
		t.Fatalf("admin snapshot must carry role, got %q", result.Snapshot.Role)
	}
	if result.RedirectTo != "/admin/dashboard" {
		t.Fatalf("unexpected redirect: %s", result.RedirectTo)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	creds := newStubCredRepo()
	creds.admins["admin@x.com"] = &domain.AdminUser{
		ID: "a1", Email: "admin@x.com", PasswordHash: mustHash(t, "right"), IsActive: true,
	}
	sessions := newStubSessionRepo()
	svc := newAuthService(creds, sessions, newStubCompanyRepo())

	if _, err := svc.Login(context.Background(), domain.UserTypeAdmin, "admin@x.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(sessions.rows) != 0 {
		t.Fatalf("no session row should be written on failed login")
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := newAuthService(newStubCredRepo(), newStubSessionRepo(), newStubCompanyRepo())
	if _, err := svc.Login(context.Background(), domain.UserTypeCompany, "ghost@x.com", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_CompanyNotApproved(t *testing.T) {
	creds := newStubCredRepo()
	pending := approvedCompany(t, "c1", "a@x.com", "pw1")
	pending.Status = domain.StatusPending
	pending.IsActive = false
	creds.companies["a@x.com"] = pending
	sessions := newStubSessionRepo()
	svc := newAuthService(creds, sessions, newStubCompanyRepo())

	if _, err := svc.Login(context.Background(), domain.UserTypeCompany, "a@x.com", "pw1"); !errors.Is(err, domain.ErrAccountNotApproved) {
		t.Fatalf("expected ErrAccountNotApproved, got %v", err)
	}
	if len(sessions.rows) != 0 {
		t.Fatalf("no session row should be written for unapproved account")
	}
}

func TestAuthService_Login_ApprovedButDeactivated(t *testing.T) {
	creds := newStubCredRepo()
	c := approvedCompany(t, "c1", "a@x.com", "pw1")
	c.IsActive = false
	creds.companies["a@x.com"] = c
	svc := newAuthService(creds, newStubSessionRepo(), newStubCompanyRepo())

	if _, err := svc.Login(context.Background(), domain.UserTypeCompany, "a@x.com", "pw1"); !errors.Is(err, domain.ErrAccountNotApproved) {
		t.Fatalf("expected ErrAccountNotApproved, got %v", err)
	}
}

func TestAuthService_Login_AdminInactive(t *testing.T) {
	creds := newStubCredRepo()
	creds.admins["admin@x.com"] = &domain.AdminUser{
		ID: "a1", Email: "admin@x.com", PasswordHash: mustHash(t, "pw"), IsActive: false,
	}
	svc := newAuthService(creds, newStubSessionRepo(), newStubCompanyRepo())

	if _, err := svc.Login(context.Background(), domain.UserTypeAdmin, "admin@x.com", "pw"); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
}

func TestAuthService_Login_TouchFailureDoesNotFailLogin(t *testing.T) {
	creds := newStubCredRepo()
	creds.companies["a@x.com"] = approvedCompany(t, "c1", "a@x.com", "pw1")
	creds.touchErr = errors.New("store down")
	svc := newAuthService(creds, newStubSessionRepo(), newStubCompanyRepo())

	if _, err := svc.Login(context.Background(), domain.UserTypeCompany, "a@x.com", "pw1"); err != nil {
		t.Fatalf("last-login failure must not fail login: %v", err)
	}
}

func TestAuthService_Login_TokenCollisionRetries(t *testing.T) {
	creds := newStubCredRepo()
	creds.companies["a@x.com"] = approvedCompany(t, "c1", "a@x.com", "pw1")
	sessions := newStubSessionRepo()
	sessions.collideTimes = 2
	svc := newAuthService(creds, sessions, newStubCompanyRepo())

	result, err := svc.Login(context.Background(), domain.UserTypeCompany, "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("login should succeed after collision retries: %v", err)
	}
	if _, ok := sessions.rows[result.Session.Token]; !ok {
		t.Fatalf("session row missing after retries")
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	sessions := newStubSessionRepo()
	now := time.Now().UTC()
	sessions.rows["live"] = &domain.Session{Token: "live", ExpiresAt: now.Add(time.Hour)}
	sessions.rows["stale"] = &domain.Session{Token: "stale", ExpiresAt: now.Add(-time.Second)}
	svc := newAuthService(newStubCredRepo(), sessions, newStubCompanyRepo())

	ctx := context.Background()
	if !svc.ValidateToken(ctx, "live") {
		t.Fatalf("live token should validate")
	}
	if svc.ValidateToken(ctx, "stale") {
		t.Fatalf("expired token must be invalid even though the row exists")
	}
	if svc.ValidateToken(ctx, "absent") {
		t.Fatalf("unknown token must be invalid")
	}
	if svc.ValidateToken(ctx, "") {
		t.Fatalf("empty token must be invalid")
	}
}

func TestAuthService_ValidateToken_FailsClosed(t *testing.T) {
	sessions := newStubSessionRepo()
	sessions.findErr = errors.New("network down")
	svc := newAuthService(newStubCredRepo(), sessions, newStubCompanyRepo())

	if svc.ValidateToken(context.Background(), "whatever") {
		t.Fatalf("storage failure must read as invalid")
	}
}

func TestAuthService_Logout_Idempotent(t *testing.T) {
	sessions := newStubSessionRepo()
	sessions.rows["tok"] = &domain.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}
	svc := newAuthService(newStubCredRepo(), sessions, newStubCompanyRepo())

	ctx := context.Background()
	svc.Logout(ctx, "tok")
	svc.Logout(ctx, "tok") // second call is a no-op, not an error
	if len(sessions.rows) != 0 {
		t.Fatalf("session row should be deleted")
	}
	if sessions.deleteCalls != 2 {
		t.Fatalf("expected 2 delete calls, got %d", sessions.deleteCalls)
	}
}

func TestAuthService_Logout_SwallowsRemoteFailure(t *testing.T) {
	sessions := newStubSessionRepo()
	sessions.deleteErr = errors.New("store down")
	svc := newAuthService(newStubCredRepo(), sessions, newStubCompanyRepo())

	// must not panic or surface the error
	svc.Logout(context.Background(), "tok")
}

func TestAuthService_CreateCompanyAccount(t *testing.T) {
	creds := newStubCredRepo()
	companies := newStubCompanyRepo()
	svc := newAuthService(creds, newStubSessionRepo(), companies)

	result, err := svc.CreateCompanyAccount(context.Background(), ports.CreateCompanyInput{
		Name:   "Desert Rose Resort",
		Type:   domain.TypeResort,
		Email:  "rose@x.com",
		Prizes: []string{"Night stay", "Dinner", "Spa pass"},
	})
	if err != nil {
		t.Fatalf("provisioning failed: %v", err)
	}

	pwFormat := regexp.MustCompile(`^Dwrha[A-Z0-9]{6}@\d{4}$`)
	if !pwFormat.MatchString(result.TempPassword) {
		t.Fatalf("unexpected temp password format: %s", result.TempPassword)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(result.Company.PasswordHash), []byte(result.TempPassword)); err != nil {
		t.Fatalf("stored digest does not match temp password: %v", err)
	}
	if result.Company.PasswordHash == result.TempPassword {
		t.Fatalf("plaintext must never be stored")
	}
	if result.Company.IsActive || result.Company.Status != domain.StatusPending {
		t.Fatalf("new account must be inactive and pending: %+v", result.Company)
	}
	if result.Company.Slug != "desert-rose-resort" {
		t.Fatalf("unexpected slug: %s", result.Company.Slug)
	}
	if result.PlayPath != "/play/desert-rose-resort" {
		t.Fatalf("unexpected play path: %s", result.PlayPath)
	}
	// default equal split with remainder on last: 33+33+34
	if got := result.Company.PrizePercentages; len(got) != 3 || got[0] != 33 || got[1] != 33 || got[2] != 34 {
		t.Fatalf("unexpected percentages: %v", got)
	}
	if len(result.Company.Colors) != 3 {
		t.Fatalf("expected one color per prize, got %v", result.Company.Colors)
	}
}

func TestAuthService_CreateCompanyAccount_SlugCollision(t *testing.T) {
	creds := newStubCredRepo()
	companies := newStubCompanyRepo()
	companies.add(&domain.Company{ID: "c0", Slug: "aroma-cafe"})
	svc := newAuthService(creds, newStubSessionRepo(), companies)

	result, err := svc.CreateCompanyAccount(context.Background(), ports.CreateCompanyInput{
		Name:   "Aroma Cafe",
		Type:   domain.TypeCafe,
		Email:  "new@x.com",
		Prizes: []string{"Coffee"},
	})
	if err != nil {
		t.Fatalf("provisioning failed: %v", err)
	}
	if result.Company.Slug == "aroma-cafe" || !strings.HasPrefix(result.Company.Slug, "aroma-cafe-") {
		t.Fatalf("expected suffixed slug, got %s", result.Company.Slug)
	}
}

func TestAuthService_CreateCompanyAccount_NonLatinName(t *testing.T) {
	svc := newAuthService(newStubCredRepo(), newStubSessionRepo(), newStubCompanyRepo())

	result, err := svc.CreateCompanyAccount(context.Background(), ports.CreateCompanyInput{
		Name:   "مطعم الياسمين",
		Type:   domain.TypeRestaurant,
		Email:  "yasmin@x.com",
		Prizes: []string{"Meal"},
	})
	if err != nil {
		t.Fatalf("provisioning failed: %v", err)
	}
	if len(result.Company.Slug) != 8 {
		t.Fatalf("expected 8-char random slug for non-latin name, got %q", result.Company.Slug)
	}
}

func TestAuthService_CreateCompanyAccount_BadPercentages(t *testing.T) {
	svc := newAuthService(newStubCredRepo(), newStubSessionRepo(), newStubCompanyRepo())

	_, err := svc.CreateCompanyAccount(context.Background(), ports.CreateCompanyInput{
		Name:             "Aroma",
		Type:             domain.TypeCafe,
		Email:            "a@x.com",
		Prizes:           []string{"A", "B"},
		PrizePercentages: []int{60, 50},
	})
	if !errors.Is(err, domain.ErrInvalidPrizeConfig) {
		t.Fatalf("expected ErrInvalidPrizeConfig, got %v", err)
	}
}

func TestAuthService_PurgeExpiredSessions(t *testing.T) {
	sessions := newStubSessionRepo()
	now := time.Now().UTC()
	sessions.rows["old"] = &domain.Session{Token: "old", ExpiresAt: now.Add(-time.Minute)}
	sessions.rows["new"] = &domain.Session{Token: "new", ExpiresAt: now.Add(time.Minute)}
	svc := newAuthService(newStubCredRepo(), sessions, newStubCompanyRepo())

	n, err := svc.PurgeExpiredSessions(context.Background())
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if n != 1 || len(sessions.rows) != 1 {
		t.Fatalf("expected exactly the expired row purged, got n=%d rows=%d", n, len(sessions.rows))
	}
}
