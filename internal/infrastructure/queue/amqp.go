package queue

import (
	"fmt"
	"net/url"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/usuarios/users-service/internal/core/domain"
)

// Bindings maps each event type to its named queue. One queue per event type,
// mirroring the broker topology the projectors were designed for.
type Bindings map[domain.EventType]string

// connectionURL injects credentials into a broker URL that may omit them.
// Credentials already present in the URL win over the supplied ones.
func connectionURL(rawURL, username, password string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse broker url: %w", err)
	}
	if u.Scheme == "" {
		u.Scheme = "amqp"
	}
	if u.User == nil && username != "" {
		u.User = url.UserPassword(username, password)
	}
	return u.String(), nil
}

// dial opens a connection and channel against the broker.
func dial(rawURL, username, password string) (*amqp.Connection, *amqp.Channel, error) {
	addr, err := connectionURL(rawURL, username, password)
	if err != nil {
		return nil, nil, err
	}
	conn, err := amqp.Dial(addr)
	if err != nil {
		return nil, nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("amqp channel: %w", err)
	}
	return conn, ch, nil
}

func deadQueueName(queue string) string {
	return queue + ".dead"
}

// declareQueue declares a durable queue plus its dead-letter companion.
// Messages rejected without requeue are routed to "<queue>.dead".
func declareQueue(ch *amqp.Channel, name string) error {
	if _, err := ch.QueueDeclare(
		deadQueueName(name),
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare dead queue %s: %w", deadQueueName(name), err)
	}

	_, err := ch.QueueDeclare(
		name,
		true,
		false,
		false,
		false,
		amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": deadQueueName(name),
		},
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", name, err)
	}
	return nil
}
