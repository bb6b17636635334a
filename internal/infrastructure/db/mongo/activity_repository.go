package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/usuarios/users-service/internal/core/ports"
)

const collectionUserActivity = "user_activity"

// UserActivityRepository stores audit rows in the activity store. Rows are
// keyed by the originating event id, so a redelivered UserActivityMade event
// overwrites its own row instead of appending a duplicate.
type UserActivityRepository struct {
	col *mongo.Collection
}

func NewUserActivityRepository(db *mongo.Database) *UserActivityRepository {
	return &UserActivityRepository{col: db.Collection(collectionUserActivity)}
}

func (r *UserActivityRepository) Insert(ctx context.Context, record ports.UserActivityRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": record.ID}, record, options.Replace().SetUpsert(true))
	return err
}

func (r *UserActivityRepository) GetByUser(ctx context.Context, userID string, since time.Time) ([]ports.UserActivityRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"userId": userID}
	if !since.IsZero() {
		filter["timestamp"] = bson.M{"$gte": since}
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []ports.UserActivityRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureIndexes creates the per-user timeline index.
func (r *UserActivityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	return err
}
