package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dawerha/dawerha-api/internal/core/domain"
)

const collectionParticipants = "participants"

type participantDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	InfluencerID  string             `bson:"influencer_id"`
	Name          string             `bson:"name"`
	Phone         string             `bson:"phone"`
	SocialAccount string             `bson:"social_media_account"`
	City          string             `bson:"city"`
	CreatedAt     time.Time          `bson:"created_at"`
}

func (d *participantDoc) toDomain() domain.Participant {
	return domain.Participant{
		ID:            d.ID.Hex(),
		InfluencerID:  d.InfluencerID,
		Name:          d.Name,
		Phone:         d.Phone,
		SocialAccount: d.SocialAccount,
		City:          d.City,
		CreatedAt:     d.CreatedAt,
	}
}

// ParticipantRepository persists giveaway participants.
type ParticipantRepository struct {
	col *mongo.Collection
}

func NewParticipantRepository(db *mongo.Database) *ParticipantRepository {
	return &ParticipantRepository{col: db.Collection(collectionParticipants)}
}

func (r *ParticipantRepository) Insert(ctx context.Context, participant *domain.Participant) (*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := participantDoc{
		InfluencerID:  participant.InfluencerID,
		Name:          participant.Name,
		Phone:         participant.Phone,
		SocialAccount: participant.SocialAccount,
		City:          participant.City,
		CreatedAt:     participant.CreatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert participant: %w", err)
	}

	created := *participant
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *ParticipantRepository) ListByInfluencer(ctx context.Context, influencerID string) ([]domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"influencer_id": influencerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer cur.Close(ctx)

	var participants []domain.Participant
	for cur.Next(ctx) {
		var doc participantDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("participant decode: %w", err)
		}
		participants = append(participants, doc.toDomain())
	}
	return participants, cur.Err()
}

func (r *ParticipantRepository) CountByInfluencer(ctx context.Context, influencerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"influencer_id": influencerID})
}

// EnsureIndexes creates the compound index participant queries filter on.
func (r *ParticipantRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "influencer_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
