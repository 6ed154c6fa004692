package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dawerha/dawerha-api/internal/core/domain"
)

const collectionCompanies = "companies"

// companyDoc is the BSON shape of a company. Timestamps are stored as native
// BSON dates so range filters work server-side.
type companyDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"name"`
	Slug             string             `bson:"slug"`
	Type             string             `bson:"type"`
	CustomType       string             `bson:"custom_type,omitempty"`
	Email            string             `bson:"email"`
	Phone            string             `bson:"phone,omitempty"`
	PasswordHash     string             `bson:"password_hash"`
	Prizes           []string           `bson:"prizes"`
	PrizePercentages []int              `bson:"prize_percentages,omitempty"`
	Colors           []string           `bson:"colors"`
	Status           string             `bson:"status"`
	IsActive         bool               `bson:"is_active"`
	ActiveHours      int                `bson:"active_hours"`
	ActivationStart  *time.Time         `bson:"activation_start_time,omitempty"`
	ActivationEnd    *time.Time         `bson:"activation_end_time,omitempty"`
	LogoURL          string             `bson:"logo_url,omitempty"`
	Notes            string             `bson:"notes,omitempty"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
	ApprovedAt       *time.Time         `bson:"approved_at,omitempty"`
	LastLogin        *time.Time         `bson:"last_login,omitempty"`
}

func (d *companyDoc) toDomain() *domain.Company {
	return &domain.Company{
		ID:               d.ID.Hex(),
		Name:             d.Name,
		Slug:             d.Slug,
		Type:             d.Type,
		CustomType:       d.CustomType,
		Email:            d.Email,
		Phone:            d.Phone,
		PasswordHash:     d.PasswordHash,
		Prizes:           d.Prizes,
		PrizePercentages: d.PrizePercentages,
		Colors:           d.Colors,
		Status:           domain.CompanyStatus(d.Status),
		IsActive:         d.IsActive,
		ActiveHours:      d.ActiveHours,
		ActivationStart:  d.ActivationStart,
		ActivationEnd:    d.ActivationEnd,
		LogoURL:          d.LogoURL,
		Notes:            d.Notes,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
		ApprovedAt:       d.ApprovedAt,
		LastLogin:        d.LastLogin,
	}
}

func companyToDoc(c *domain.Company) companyDoc {
	return companyDoc{
		Name:             c.Name,
		Slug:             c.Slug,
		Type:             c.Type,
		CustomType:       c.CustomType,
		Email:            c.Email,
		Phone:            c.Phone,
		PasswordHash:     c.PasswordHash,
		Prizes:           c.Prizes,
		PrizePercentages: c.PrizePercentages,
		Colors:           c.Colors,
		Status:           string(c.Status),
		IsActive:         c.IsActive,
		ActiveHours:      c.ActiveHours,
		ActivationStart:  c.ActivationStart,
		ActivationEnd:    c.ActivationEnd,
		LogoURL:          c.LogoURL,
		Notes:            c.Notes,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		ApprovedAt:       c.ApprovedAt,
		LastLogin:        c.LastLogin,
	}
}

// CompanyRepository persists company documents in MongoDB.
type CompanyRepository struct {
	col *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{col: db.Collection(collectionCompanies)}
}

func (r *CompanyRepository) FindByID(ctx context.Context, id string) (*domain.Company, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCompanyNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc companyDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *CompanyRepository) FindBySlug(ctx context.Context, slug string) (*domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc companyDoc
	if err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *CompanyRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetReviewStatus flips the approval flags in a single write so a reader
// never sees an approved-but-inactive intermediate state.
func (r *CompanyRepository) SetReviewStatus(ctx context.Context, id string, status domain.CompanyStatus, isActive bool, approvedAt *time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCompanyNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":      string(status),
		"is_active":   isActive,
		"approved_at": approvedAt,
		"updated_at":  time.Now().UTC(),
	}}
	res, err := r.col.UpdateByID(ctx, oid, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

func (r *CompanyRepository) SetActivationWindow(ctx context.Context, id string, start, end *time.Time, hours int, isActive bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCompanyNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"activation_start_time": start,
		"activation_end_time":   end,
		"active_hours":          hours,
		"is_active":             isActive,
		"updated_at":            time.Now().UTC(),
	}}
	res, err := r.col.UpdateByID(ctx, oid, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes the company collection depends on. Slug
// and email uniqueness are enforced here, not just at the service layer.
func (r *CompanyRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
