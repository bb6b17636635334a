package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/usuarios/users-service/internal/api/metrics"
	"github.com/usuarios/users-service/internal/core/domain"
)

// EventApplier is the projector seen from the transport side.
type EventApplier interface {
	Apply(ctx context.Context, env domain.Envelope) error
}

// RetryPolicy is the broker-level resilience knob: a fixed number of
// in-process attempts with a fixed interval before a message is dead-lettered.
type RetryPolicy struct {
	Attempts int
	Interval time.Duration
}

// Consumer runs one worker goroutine per bound queue and feeds deliveries to
// the projector. Failed deliveries are retried per the policy and then
// rejected without requeue, which routes them to the queue's dead-letter
// companion.
type Consumer struct {
	conn      *amqp.Connection
	ch        *amqp.Channel
	bindings  Bindings
	projector EventApplier
	retry     RetryPolicy
	log       zerolog.Logger
}

func NewConsumer(rawURL, username, password string, bindings Bindings, projector EventApplier, retry RetryPolicy, log zerolog.Logger) (*Consumer, error) {
	conn, ch, err := dial(rawURL, username, password)
	if err != nil {
		return nil, err
	}
	for _, queueName := range bindings {
		if err := declareQueue(ch, queueName); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}
	if retry.Attempts <= 0 {
		retry.Attempts = 3
	}
	if retry.Interval <= 0 {
		retry.Interval = 5 * time.Second
	}
	return &Consumer{conn: conn, ch: ch, bindings: bindings, projector: projector, retry: retry, log: log}, nil
}

// Start registers a consumer on every bound queue. Workers stop when ctx is
// cancelled or the broker closes the delivery channel.
func (c *Consumer) Start(ctx context.Context) error {
	for eventType, queueName := range c.bindings {
		deliveries, err := c.ch.Consume(
			queueName,
			"projector-"+string(eventType),
			false, // manual ack
			false, // exclusive
			false, // no-local
			false, // no-wait
			nil,
		)
		if err != nil {
			return err
		}
		go c.runWorker(ctx, queueName, deliveries)
	}
	return nil
}

func (c *Consumer) runWorker(ctx context.Context, queueName string, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			c.handle(ctx, queueName, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, queueName string, d amqp.Delivery) {
	var env domain.Envelope
	if err := json.Unmarshal(d.Body, &env); err != nil {
		// Malformed payloads can never succeed; dead-letter immediately.
		c.log.Error().Err(err).Str("queue", queueName).Msg("undecodable message dead-lettered")
		metrics.EventsDeadLetteredTotal.WithLabelValues(queueName).Inc()
		_ = d.Nack(false, false)
		return
	}

	start := time.Now()
	var err error
	for attempt := 1; attempt <= c.retry.Attempts; attempt++ {
		if err = c.projector.Apply(ctx, env); err == nil {
			break
		}
		c.log.Warn().Err(err).
			Str("event_id", env.EventID).
			Str("event_type", string(env.EventType)).
			Int("attempt", attempt).
			Msg("projection failed")
		if attempt < c.retry.Attempts {
			select {
			case <-ctx.Done():
				// Shutting down: requeue so another instance picks it up.
				_ = d.Nack(false, true)
				return
			case <-time.After(c.retry.Interval):
			}
		}
	}

	if err != nil {
		metrics.EventsDeadLetteredTotal.WithLabelValues(queueName).Inc()
		_ = d.Nack(false, false)
		return
	}

	metrics.ProjectionsAppliedTotal.WithLabelValues(string(env.EventType)).Inc()
	metrics.ProjectionDuration.WithLabelValues(string(env.EventType)).Observe(time.Since(start).Seconds())
	_ = d.Ack(false)
}

func (c *Consumer) Close() {
	_ = c.ch.Close()
	_ = c.conn.Close()
}
