package ports

import (
	"context"

	"github.com/usuarios/users-service/internal/core/domain"
)

// OutboxRepository is consumed by the relay that drains persisted events to
// the message transport.
type OutboxRepository interface {
	// FetchPending returns up to limit unpublished envelopes, oldest first.
	FetchPending(ctx context.Context, limit int) ([]domain.Envelope, error)
	// MarkPublished flags an envelope as handed to the transport.
	MarkPublished(ctx context.Context, eventID string) error
	// MarkFailed records a failed publish attempt for later retry.
	MarkFailed(ctx context.Context, eventID string, cause error) error
}

// OutboxAppender records envelopes for publication outside an aggregate
// write. Used by commands that emit an event without mutating any aggregate.
type OutboxAppender interface {
	Append(ctx context.Context, events ...domain.Envelope) error
}

// EventPublisher hands an envelope to the message transport. Command handlers
// never see this interface; only the outbox relay does.
type EventPublisher interface {
	Publish(ctx context.Context, env domain.Envelope) error
}
