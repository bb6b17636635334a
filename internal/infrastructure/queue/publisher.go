package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/usuarios/users-service/internal/api/metrics"
	"github.com/usuarios/users-service/internal/core/domain"
)

// Publisher hands event envelopes to the broker, one named queue per event
// type. Messages are persistent; the queues are durable.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	bindings Bindings
	log      zerolog.Logger
}

// NewPublisher dials the broker and declares every bound queue (and its
// dead-letter companion) up front, so a publish never races a declare.
func NewPublisher(rawURL, username, password string, bindings Bindings, log zerolog.Logger) (*Publisher, error) {
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
	return &Publisher{conn: conn, ch: ch, bindings: bindings, log: log}, nil
}

// Publish routes the envelope to the queue bound to its event type.
func (p *Publisher) Publish(ctx context.Context, env domain.Envelope) error {
	queueName, ok := p.bindings[env.EventType]
	if !ok {
		return fmt.Errorf("%w: no queue bound for %q", domain.ErrUnknownEvent, env.EventType)
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    env.EventID,
			Type:         string(env.EventType),
			Timestamp:    env.OccurredOn,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", env.EventType, err)
	}

	metrics.EventsPublishedTotal.WithLabelValues(string(env.EventType)).Inc()
	p.log.Debug().Str("event_id", env.EventID).Str("queue", queueName).Msg("event published")
	return nil
}

// Alive reports whether the broker connection is still open. Used by the
// readiness probe.
func (p *Publisher) Alive() bool {
	return !p.conn.IsClosed()
}

func (p *Publisher) Close() {
	_ = p.ch.Close()
	_ = p.conn.Close()
}
