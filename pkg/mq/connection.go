package mq

import (
	"fmt"

	"github.com/rabbitmq/amqp091-go"
)

const (
	// ExchangeName is the topic exchange carrying outbound notifications.
	ExchangeName = "notifications"

	// DLXName is the dead-letter exchange receiving messages that exhaust
	// their delivery attempts or carry unparseable payloads.
	DLXName = "notifications.dlx"
)

// NewConnection creates a new RabbitMQ connection.
func NewConnection(url string) (*amqp091.Connection, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

// DeclareExchange declares the notifications topic exchange.
func DeclareExchange(ch *amqp091.Channel) error {
	return ch.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
}

// DeclareDLX declares the dead-letter exchange.
func DeclareDLX(ch *amqp091.Channel) error {
	return ch.ExchangeDeclare(
		DLXName,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

// DeclareDLQ declares and binds the dead-letter queue for a routing key.
func DeclareDLQ(ch *amqp091.Channel, routingKey string) (amqp091.Queue, error) {
	q, err := ch.QueueDeclare(
		routingKey+".dlq",
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return amqp091.Queue{}, fmt.Errorf("failed to declare DLQ: %w", err)
	}

	if err := ch.QueueBind(q.Name, routingKey, DLXName, false, nil); err != nil {
		return amqp091.Queue{}, fmt.Errorf("failed to bind DLQ: %w", err)
	}

	return q, nil
}
