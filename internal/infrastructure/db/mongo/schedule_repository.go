package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dawerha/dawerha-api/internal/core/domain"
)

const collectionSchedules = "activation_schedules"

type scheduleDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CompanyID string             `bson:"company_id"`

	Saturday  bool `bson:"saturday"`
	Sunday    bool `bson:"sunday"`
	Monday    bool `bson:"monday"`
	Tuesday   bool `bson:"tuesday"`
	Wednesday bool `bson:"wednesday"`
	Thursday  bool `bson:"thursday"`
	Friday    bool `bson:"friday"`

	StartHour     int `bson:"start_hour"`
	EndHour       int `bson:"end_hour"`
	DurationHours int `bson:"duration_hours"`

	IsActive       bool       `bson:"is_active"`
	LastActivation *time.Time `bson:"last_activation,omitempty"`
	CreatedAt      time.Time  `bson:"created_at"`
	UpdatedAt      time.Time  `bson:"updated_at"`
}

func (d *scheduleDoc) toDomain() domain.ActivationSchedule {
	return domain.ActivationSchedule{
		ID:             d.ID.Hex(),
		CompanyID:      d.CompanyID,
		Saturday:       d.Saturday,
		Sunday:         d.Sunday,
		Monday:         d.Monday,
		Tuesday:        d.Tuesday,
		Wednesday:      d.Wednesday,
		Thursday:       d.Thursday,
		Friday:         d.Friday,
		StartHour:      d.StartHour,
		EndHour:        d.EndHour,
		DurationHours:  d.DurationHours,
		IsActive:       d.IsActive,
		LastActivation: d.LastActivation,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// ScheduleRepository persists recurring activation schedules.
type ScheduleRepository struct {
	col *mongo.Collection
}

func NewScheduleRepository(db *mongo.Database) *ScheduleRepository {
	return &ScheduleRepository{col: db.Collection(collectionSchedules)}
}

func (r *ScheduleRepository) Create(ctx context.Context, schedule *domain.ActivationSchedule) (*domain.ActivationSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := scheduleDoc{
		CompanyID:      schedule.CompanyID,
		Saturday:       schedule.Saturday,
		Sunday:         schedule.Sunday,
		Monday:         schedule.Monday,
		Tuesday:        schedule.Tuesday,
		Wednesday:      schedule.Wednesday,
		Thursday:       schedule.Thursday,
		Friday:         schedule.Friday,
		StartHour:      schedule.StartHour,
		EndHour:        schedule.EndHour,
		DurationHours:  schedule.DurationHours,
		IsActive:       schedule.IsActive,
		LastActivation: schedule.LastActivation,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert schedule: %w", err)
	}

	created := *schedule
	created.CreatedAt = now
	created.UpdatedAt = now
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

// ListEnabled returns every schedule the sweep should consider.
func (r *ScheduleRepository) ListEnabled(ctx context.Context) ([]domain.ActivationSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer cur.Close(ctx)

	var schedules []domain.ActivationSchedule
	for cur.Next(ctx) {
		var doc scheduleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("list schedules decode: %w", err)
		}
		schedules = append(schedules, doc.toDomain())
	}
	return schedules, cur.Err()
}

func (r *ScheduleRepository) TouchActivation(ctx context.Context, id string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("touch activation: bad id %q", id)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"last_activation": at,
		"updated_at":      time.Now().UTC(),
	}})
	return err
}
