package mongo

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/usuarios/users-service/internal/core/domain"
)

// OutboxRepository reads and updates outbox rows on behalf of the relay, and
// appends rows for commands that emit events without an aggregate write.
// Aggregate-mutating commands still append through the write repositories'
// session transaction instead.
type OutboxRepository struct {
	col *mongo.Collection
}

func NewOutboxRepository(db *mongo.Database) *OutboxRepository {
	return &OutboxRepository{col: db.Collection(collectionOutbox)}
}

// Append inserts pending outbox rows for the given envelopes.
func (r *OutboxRepository) Append(ctx context.Context, events ...domain.Envelope) error {
	if len(events) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]interface{}, 0, len(events))
	for _, env := range events {
		docs = append(docs, outboxDoc{
			ID:         env.EventID,
			EventType:  string(env.EventType),
			Payload:    env.Payload,
			OccurredOn: env.OccurredOn.UnixMilli(),
		})
	}
	_, err := r.col.InsertMany(ctx, docs)
	return err
}

// FetchPending returns up to limit unpublished envelopes, oldest first.
func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]domain.Envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_on", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{"published": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var envelopes []domain.Envelope
	for cursor.Next(ctx) {
		var doc outboxDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		envelopes = append(envelopes, domain.Envelope{
			EventID:    doc.ID,
			EventType:  domain.EventType(doc.EventType),
			OccurredOn: time.UnixMilli(doc.OccurredOn).UTC(),
			Payload:    json.RawMessage(doc.Payload),
		})
	}
	return envelopes, cursor.Err()
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateByID(ctx, eventID, bson.M{
		"$set": bson.M{"published": true, "published_at": time.Now().UTC()},
	})
	return err
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, eventID string, cause error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateByID(ctx, eventID, bson.M{
		"$inc": bson.M{"attempts": 1},
		"$set": bson.M{"last_error": cause.Error()},
	})
	return err
}
