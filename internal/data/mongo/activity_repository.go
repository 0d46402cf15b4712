package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/moneyflow-ledger/internal/domain/activity"
)

const (
	// ActivityCollectionName is the name of the activity feed collection in MongoDB
	ActivityCollectionName = "ledger_activity"
)

// collection is the subset of *mongo.Collection the activity feed uses
type collection interface {
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

// ActivityRepository implements the activity.Repository interface for MongoDB
type ActivityRepository struct {
	coll   collection
	logger *slog.Logger
}

// NewActivityRepository creates a new MongoDB activity feed repository
func NewActivityRepository(logger *slog.Logger, db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{
		coll:   db.Collection(ActivityCollectionName),
		logger: logger,
	}
}

// EnsureIndexes creates the unique event index that makes Save idempotent, plus the feed index
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "recorded_at", Value: -1}},
		},
	}

	if _, err := db.Collection(ActivityCollectionName).Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create activity indexes: %w", err)
	}
	return nil
}

// Save upserts the event keyed by event_id. A redelivered event matches the existing
// document and leaves it untouched, so inserted is false.
func (r *ActivityRepository) Save(ctx context.Context, event *activity.Event) (bool, error) {
	filter := bson.M{"event_id": event.EventID}
	update := bson.M{"$setOnInsert": event}
	opts := options.Update().SetUpsert(true)

	result, err := r.coll.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		r.logger.Error("Failed to save activity event",
			"event_id", event.EventID.String(),
			"transaction_id", event.TransactionID.String(),
			"error", err)
		return false, fmt.Errorf("failed to save activity event: %w", err)
	}

	return result.UpsertedCount > 0, nil
}

// ListByUser retrieves a page of the user's feed, most recent first
func (r *ActivityRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*activity.Event, error) {
	filter := bson.M{"user_id": userID}
	opts := options.Find().
		SetSort(bson.D{{Key: "recorded_at", Value: -1}, {Key: "event_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get activity events",
			"user_id", userID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get activity events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []*activity.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		r.logger.Error("Failed to decode activity events",
			"user_id", userID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode activity events: %w", err)
	}

	return events, nil
}

// CountByUser counts the user's feed entries
func (r *ActivityRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		r.logger.Error("Failed to count activity events",
			"user_id", userID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to count activity events: %w", err)
	}

	return count, nil
}
