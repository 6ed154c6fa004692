package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dawerha/dawerha-api/internal/core/domain"
)

const collectionAdmins = "admin_users"

type adminDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	IsActive     bool               `bson:"is_active"`
	LastLogin    *time.Time         `bson:"last_login,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (d *adminDoc) toDomain() *domain.AdminUser {
	return &domain.AdminUser{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		IsActive:     d.IsActive,
		LastLogin:    d.LastLogin,
		CreatedAt:    d.CreatedAt,
	}
}

// CredentialRepository reads and provisions accounts across the two
// role-partitioned collections.
type CredentialRepository struct {
	companies *mongo.Collection
	admins    *mongo.Collection
}

func NewCredentialRepository(db *mongo.Database) *CredentialRepository {
	return &CredentialRepository{
		companies: db.Collection(collectionCompanies),
		admins:    db.Collection(collectionAdmins),
	}
}

func (r *CredentialRepository) FindCompanyByEmail(ctx context.Context, email string) (*domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc companyDoc
	if err := r.companies.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("find company by email: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CredentialRepository) FindAdminByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc adminDoc
	if err := r.admins.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, fmt.Errorf("find admin by email: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CredentialRepository) TouchCompanyLastLogin(ctx context.Context, id string, at time.Time) error {
	return touchLastLogin(ctx, r.companies, id, at)
}

func (r *CredentialRepository) TouchAdminLastLogin(ctx context.Context, id string, at time.Time) error {
	return touchLastLogin(ctx, r.admins, id, at)
}

func touchLastLogin(ctx context.Context, col *mongo.Collection, id string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("touch last login: bad id %q", id)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"last_login": at}})
	return err
}

// CreateCompany inserts a new account. The unique email index turns a
// concurrent duplicate signup into domain.ErrEmailTaken.
func (r *CredentialRepository) CreateCompany(ctx context.Context, company *domain.Company) (*domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := companyToDoc(company)
	res, err := r.companies.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert company: %w", err)
	}

	created := *company
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}
