package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/usuarios/users-service/internal/core/domain"
)

const collectionOutbox = "outbox"

// withTransaction runs fn inside a session transaction so the aggregate write
// and its outbox append commit or abort together. Requires the write store to
// run as a replica set (single-node replica sets work).
func withTransaction(ctx context.Context, client *mongo.Client, fn func(sc mongo.SessionContext) error) error {
	session, err := client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// outboxDoc is the persisted outbox row. The envelope's event id is the
// document key.
type outboxDoc struct {
	ID         string `bson:"_id"`
	EventType  string `bson:"event_type"`
	Payload    []byte `bson:"payload"`
	OccurredOn int64  `bson:"occurred_on"` // unix millis, preserves drain order
	Published  bool   `bson:"published"`
	Attempts   int    `bson:"attempts"`
	LastError  string `bson:"last_error,omitempty"`
}

func appendOutbox(sc mongo.SessionContext, col *mongo.Collection, events []domain.Envelope) error {
	if len(events) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(events))
	for _, env := range events {
		docs = append(docs, outboxDoc{
			ID:         env.EventID,
			EventType:  string(env.EventType),
			Payload:    env.Payload,
			OccurredOn: env.OccurredOn.UnixMilli(),
		})
	}
	_, err := col.InsertMany(sc, docs)
	return err
}
