package events

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const OrderCreatedQueue = "order.created"

// Dial connects to RabbitMQ. An empty URL disables eventing; callers treat a
// nil connection as "publishing off".
func Dial(url string) (*amqp.Connection, error) {
	if url == "" {
		return nil, nil
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	return conn, nil
}
