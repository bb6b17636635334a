package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/usuarios/users-service/internal/api/metrics"
	"github.com/usuarios/users-service/internal/core/ports"
)

const (
	defaultRelayInterval = time.Second
	defaultRelayBatch    = 100
)

// Relay drains pending outbox entries to the transport. Together with the
// transactional outbox append this yields at-least-once publishing: an entry
// that fails to publish stays pending and is retried on the next tick.
type Relay struct {
	outbox    ports.OutboxRepository
	publisher ports.EventPublisher
	interval  time.Duration
	batchSize int
	log       zerolog.Logger
}

func NewRelay(outbox ports.OutboxRepository, publisher ports.EventPublisher, interval time.Duration, batchSize int, log zerolog.Logger) *Relay {
	if interval <= 0 {
		interval = defaultRelayInterval
	}
	if batchSize <= 0 {
		batchSize = defaultRelayBatch
	}
	return &Relay{outbox: outbox, publisher: publisher, interval: interval, batchSize: batchSize, log: log}
}

// Start runs the drain loop until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Drain(ctx); err != nil {
				r.log.Error().Err(err).Msg("outbox drain failed")
			}
		}
	}
}

// Drain publishes one batch of pending entries and returns how many were
// handed to the transport. A single failing entry is marked and skipped so it
// cannot block the ones behind it.
func (r *Relay) Drain(ctx context.Context) (int, error) {
	pending, err := r.outbox.FetchPending(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, env := range pending {
		if err := r.publisher.Publish(ctx, env); err != nil {
			r.log.Warn().Err(err).Str("event_id", env.EventID).Msg("publish failed, will retry")
			metrics.OutboxPublishFailuresTotal.Inc()
			if markErr := r.outbox.MarkFailed(ctx, env.EventID, err); markErr != nil {
				r.log.Error().Err(markErr).Str("event_id", env.EventID).Msg("failed to record publish failure")
			}
			continue
		}
		if err := r.outbox.MarkPublished(ctx, env.EventID); err != nil {
			// The event went out but stayed pending; the next drain will
			// republish it. Consumers deduplicate by event id, so this is
			// safe, just noisy.
			r.log.Error().Err(err).Str("event_id", env.EventID).Msg("failed to mark entry published")
			continue
		}
		published++
	}

	metrics.OutboxDrainedTotal.Add(float64(published))
	return published, nil
}
