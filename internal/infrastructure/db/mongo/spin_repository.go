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

const collectionSpins = "game_spins"

const dashboardRecentSpins = 10

type spinDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	CompanyID    string             `bson:"company_id"`
	VisitorName  string             `bson:"visitor_name"`
	VisitorPhone string             `bson:"visitor_phone,omitempty"`
	Prize        string             `bson:"prize"`
	Won          bool               `bson:"won"`
	SessionID    string             `bson:"session_id,omitempty"`
	IPAddress    string             `bson:"ip_address,omitempty"`
	UserAgent    string             `bson:"user_agent,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (d *spinDoc) toDomain() domain.Spin {
	return domain.Spin{
		ID:           d.ID.Hex(),
		CompanyID:    d.CompanyID,
		VisitorName:  d.VisitorName,
		VisitorPhone: d.VisitorPhone,
		Prize:        d.Prize,
		Won:          d.Won,
		SessionID:    d.SessionID,
		IPAddress:    d.IPAddress,
		UserAgent:    d.UserAgent,
		CreatedAt:    d.CreatedAt,
	}
}

// SpinRepository persists wheel spin records.
type SpinRepository struct {
	col *mongo.Collection
}

func NewSpinRepository(db *mongo.Database) *SpinRepository {
	return &SpinRepository{col: db.Collection(collectionSpins)}
}

func (r *SpinRepository) Insert(ctx context.Context, spin *domain.Spin) (*domain.Spin, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := spinDoc{
		CompanyID:    spin.CompanyID,
		VisitorName:  spin.VisitorName,
		VisitorPhone: spin.VisitorPhone,
		Prize:        spin.Prize,
		Won:          spin.Won,
		SessionID:    spin.SessionID,
		IPAddress:    spin.IPAddress,
		UserAgent:    spin.UserAgent,
		CreatedAt:    spin.CreatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert spin: %w", err)
	}

	created := *spin
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *SpinRepository) RecentPrizes(ctx context.Context, companyID string, limit int64) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"prize": 1})

	cur, err := r.col.Find(ctx, bson.M{"company_id": companyID}, opts)
	if err != nil {
		return nil, fmt.Errorf("recent prizes: %w", err)
	}
	defer cur.Close(ctx)

	var prizes []string
	for cur.Next(ctx) {
		var doc struct {
			Prize string `bson:"prize"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("recent prizes decode: %w", err)
		}
		prizes = append(prizes, doc.Prize)
	}
	return prizes, cur.Err()
}

// Stats builds the dashboard numbers. Counts run server-side; only the
// recent-spins tail is materialised.
func (r *SpinRepository) Stats(ctx context.Context, companyID string, now time.Time) (*domain.SpinStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"company_id": companyID}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("spin stats: total: %w", err)
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := r.col.CountDocuments(ctx, bson.M{
		"company_id": companyID,
		"created_at": bson.M{"$gte": dayStart},
	})
	if err != nil {
		return nil, fmt.Errorf("spin stats: today: %w", err)
	}

	week, err := r.col.CountDocuments(ctx, bson.M{
		"company_id": companyID,
		"created_at": bson.M{"$gte": now.Add(-7 * 24 * time.Hour)},
	})
	if err != nil {
		return nil, fmt.Errorf("spin stats: week: %w", err)
	}

	sessions, err := r.col.Distinct(ctx, "session_id", filter)
	if err != nil {
		return nil, fmt.Errorf("spin stats: visitors: %w", err)
	}

	distribution, err := r.prizeDistribution(ctx, companyID)
	if err != nil {
		return nil, err
	}

	recent, err := r.recentSpins(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return &domain.SpinStats{
		TotalSpins:        total,
		UniqueVisitors:    int64(len(sessions)),
		TodaySpins:        today,
		WeekSpins:         week,
		PrizeDistribution: distribution,
		RecentSpins:       recent,
	}, nil
}

func (r *SpinRepository) prizeDistribution(ctx context.Context, companyID string) ([]domain.PrizeCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"company_id": companyID}}},
		{{Key: "$group", Value: bson.M{"_id": "$prize", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("spin stats: distribution: %w", err)
	}
	defer cur.Close(ctx)

	var rows []domain.PrizeCount
	for cur.Next(ctx) {
		var row struct {
			Prize string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("spin stats: distribution decode: %w", err)
		}
		rows = append(rows, domain.PrizeCount{Prize: row.Prize, Count: row.Count})
	}
	return rows, cur.Err()
}

func (r *SpinRepository) recentSpins(ctx context.Context, companyID string) ([]domain.Spin, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(dashboardRecentSpins)

	cur, err := r.col.Find(ctx, bson.M{"company_id": companyID}, opts)
	if err != nil {
		return nil, fmt.Errorf("spin stats: recent: %w", err)
	}
	defer cur.Close(ctx)

	var spins []domain.Spin
	for cur.Next(ctx) {
		var doc spinDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("spin stats: recent decode: %w", err)
		}
		spins = append(spins, doc.toDomain())
	}
	return spins, cur.Err()
}

// EnsureIndexes creates the compound index every spin query filters on.
func (r *SpinRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
