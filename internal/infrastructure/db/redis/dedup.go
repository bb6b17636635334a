package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Processed-event markers expire after a day; the broker's retry window is
// far shorter, so an expired key can only mean the event is long settled.
const dedupTTL = 24 * time.Hour

// EventDedup provides consumer-side idempotency checks keyed by event id.
// Key format: events:dedup:<event_id>
type EventDedup struct {
	client *redis.Client
}

func NewEventDedup(client *redis.Client) *EventDedup {
	return &EventDedup{client: client}
}

// IsDuplicate reports whether this event has already been projected.
func (d *EventDedup) IsDuplicate(ctx context.Context, eventID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this event has been projected.
func (d *EventDedup) Mark(ctx context.Context, eventID string) error {
	return d.client.Set(ctx, d.key(eventID), "1", dedupTTL).Err()
}

func (d *EventDedup) key(eventID string) string {
	return "events:dedup:" + eventID
}
