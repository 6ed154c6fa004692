package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dawerha/dawerha-api/internal/core/domain"
)

const collectionInfluencers = "influencers"

type influencerDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Slug            string             `bson:"slug"`
	Platform        string             `bson:"platform"`
	CustomPlatform  string             `bson:"custom_platform,omitempty"`
	Username        string             `bson:"username"`
	ProfileURL      string             `bson:"profile_url,omitempty"`
	FollowersCount  int                `bson:"followers_count"`
	Email           string             `bson:"email"`
	Phone           string             `bson:"phone,omitempty"`
	Prizes          []string           `bson:"prizes"`
	Colors          []string           `bson:"colors"`
	Status          string             `bson:"status"`
	IsActive        bool               `bson:"is_active"`
	ProfileImageURL string             `bson:"profile_image_url,omitempty"`
	Bio             string             `bson:"bio,omitempty"`
	Notes           string             `bson:"notes,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
	ApprovedAt      *time.Time         `bson:"approved_at,omitempty"`
}

func (d *influencerDoc) toDomain() *domain.Influencer {
	return &domain.Influencer{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Slug:            d.Slug,
		Platform:        d.Platform,
		CustomPlatform:  d.CustomPlatform,
		Username:        d.Username,
		ProfileURL:      d.ProfileURL,
		FollowersCount:  d.FollowersCount,
		Email:           d.Email,
		Phone:           d.Phone,
		Prizes:          d.Prizes,
		Colors:          d.Colors,
		Status:          domain.InfluencerStatus(d.Status),
		IsActive:        d.IsActive,
		ProfileImageURL: d.ProfileImageURL,
		Bio:             d.Bio,
		Notes:           d.Notes,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		ApprovedAt:      d.ApprovedAt,
	}
}

// InfluencerRepository persists influencer profiles in MongoDB.
type InfluencerRepository struct {
	col *mongo.Collection
}

func NewInfluencerRepository(db *mongo.Database) *InfluencerRepository {
	return &InfluencerRepository{col: db.Collection(collectionInfluencers)}
}

func (r *InfluencerRepository) Create(ctx context.Context, influencer *domain.Influencer) (*domain.Influencer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := influencerDoc{
		Name:            influencer.Name,
		Slug:            influencer.Slug,
		Platform:        influencer.Platform,
		CustomPlatform:  influencer.CustomPlatform,
		Username:        influencer.Username,
		ProfileURL:      influencer.ProfileURL,
		FollowersCount:  influencer.FollowersCount,
		Email:           influencer.Email,
		Phone:           influencer.Phone,
		Prizes:          influencer.Prizes,
		Colors:          influencer.Colors,
		Status:          string(influencer.Status),
		IsActive:        influencer.IsActive,
		ProfileImageURL: influencer.ProfileImageURL,
		Bio:             influencer.Bio,
		Notes:           influencer.Notes,
		CreatedAt:       influencer.CreatedAt,
		UpdatedAt:       influencer.UpdatedAt,
		ApprovedAt:      influencer.ApprovedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, fmt.Errorf("insert influencer: %w", err)
	}

	created := *influencer
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *InfluencerRepository) FindByID(ctx context.Context, id string) (*domain.Influencer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInfluencerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc influencerDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInfluencerNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *InfluencerRepository) FindBySlug(ctx context.Context, slug string) (*domain.Influencer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc influencerDoc
	if err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInfluencerNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *InfluencerRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetReviewStatus flips the review outcome and the active flag in a single
// write so a reader never sees an approved-but-inactive intermediate state.
func (r *InfluencerRepository) SetReviewStatus(ctx context.Context, id string, status domain.InfluencerStatus, isActive bool, approvedAt *time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInfluencerNotFound
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
		return domain.ErrInfluencerNotFound
	}
	return nil
}

// EnsureIndexes enforces slug uniqueness for the public giveaway links.
func (r *InfluencerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
