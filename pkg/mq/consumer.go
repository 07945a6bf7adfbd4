package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// MessageHandler processes one delivered payload. A nil return acknowledges
// the message; any error is classified by the consumer's FatalFunc.
type MessageHandler func(ctx context.Context, data json.RawMessage) error

// FatalFunc reports whether a handler error can never succeed on retry, in
// which case the message is routed straight to the dead-letter queue
// instead of being redelivered.
type FatalFunc func(err error) bool

// DeliveryAttempts counts redeliveries per message id so the consumer can
// bound them.
type DeliveryAttempts interface {
	Increment(ctx context.Context, messageID string) (int64, error)
	Reset(ctx context.Context, messageID string) error
}

type Consumer struct {
	conn        *amqp091.Connection
	channel     *amqp091.Channel
	queue       amqp091.Queue
	routingKey  string
	handler     MessageHandler
	fatal       FatalFunc
	attempts    DeliveryAttempts
	maxAttempts int
	logger      *zap.Logger

	onOutcome func(outcome string)
}

// NewConsumer declares the durable queue for routingKey, bound to the
// notifications exchange and dead-lettering into the DLX, and registers a
// manual-acknowledgment consumer on it.
func NewConsumer(
	url, queueName, routingKey string,
	attempts DeliveryAttempts,
	maxAttempts int,
	logger *zap.Logger,
) (*Consumer, error) {
	conn, err := NewConnection(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := DeclareExchange(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	if err := DeclareDLX(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare DLX: %w", err)
	}
	if _, err := DeclareDLQ(ch, routingKey); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp091.Table{
			"x-dead-letter-exchange":    DLXName,
			"x-dead-letter-routing-key": routingKey,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, routingKey, ExchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	logger.Info("Consumer initialized",
		zap.String("routing_key", routingKey),
		zap.String("queue", queueName),
		zap.String("exchange", ExchangeName),
	)

	return &Consumer{
		conn:        conn,
		channel:     ch,
		queue:       q,
		routingKey:  routingKey,
		attempts:    attempts,
		maxAttempts: maxAttempts,
		logger:      logger,
	}, nil
}

func (c *Consumer) SetHandler(h MessageHandler) {
	c.handler = h
}

// SetFatalFunc installs the permanent-failure classifier. Without one,
// every handler error is treated as transient.
func (c *Consumer) SetFatalFunc(f FatalFunc) {
	c.fatal = f
}

// SetOutcomeObserver installs a callback invoked with the settlement
// outcome of each delivery (acked, redelivered, dead_lettered).
func (c *Consumer) SetOutcomeObserver(f func(outcome string)) {
	c.onOutcome = f
}

func (c *Consumer) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// StartConsuming consumes messages until the channel closes. It blocks and
// should be called in a goroutine. Every delivery is settled exactly once:
// acked on handler success, dead-lettered on fatal errors or exhausted
// attempts, requeued otherwise.
func (c *Consumer) StartConsuming() error {
	if c.handler == nil {
		return fmt.Errorf("consumer handler not set")
	}

	deliveries, err := c.channel.Consume(
		c.queue.Name,
		"notification-worker",
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("Consumer started consuming messages",
		zap.String("routing_key", c.routingKey),
		zap.String("queue", c.queue.Name),
	)

	for msg := range deliveries {
		c.process(msg)
	}

	return nil
}

func (c *Consumer) process(msg amqp091.Delivery) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Handler panic recovered",
				zap.String("routing_key", c.routingKey),
				zap.Any("panic", r),
			)
			c.settle(ctx, msg, fmt.Errorf("handler panic: %v", r))
		}
	}()

	err := c.handler(ctx, msg.Body)
	c.settle(ctx, msg, err)
}

// settle acknowledges msg according to the handler outcome. When the
// attempt tracker is unreachable, or the delivery carries no message id,
// the attempt count falls back to 1 and the message keeps requeueing; the
// cap resumes once the tracker recovers, since counts survive in Redis
// across its own outages.
func (c *Consumer) settle(ctx context.Context, msg amqp091.Delivery, err error) {
	if err == nil {
		if msg.MessageId != "" {
			if resetErr := c.attempts.Reset(ctx, msg.MessageId); resetErr != nil {
				c.logger.Warn("Failed to reset delivery attempts", zap.Error(resetErr))
			}
		}
		if ackErr := msg.Ack(false); ackErr != nil {
			c.logger.Error("Failed to ack message", zap.Error(ackErr))
			return
		}
		c.observe("acked")
		return
	}

	c.logger.Error("Handler error",
		zap.String("routing_key", c.routingKey),
		zap.String("message_id", msg.MessageId),
		zap.Error(err),
	)

	if c.fatal != nil && c.fatal(err) {
		c.reject(msg, false, "dead_lettered")
		return
	}

	attempt := int64(1)
	if msg.MessageId != "" {
		count, incErr := c.attempts.Increment(ctx, msg.MessageId)
		if incErr != nil {
			c.logger.Warn("Failed to track delivery attempt", zap.Error(incErr))
		} else {
			attempt = count
		}
	}

	if attempt >= int64(c.maxAttempts) {
		c.logger.Warn("Delivery attempts exhausted, dead-lettering",
			zap.String("message_id", msg.MessageId),
			zap.Int64("attempts", attempt),
		)
		c.reject(msg, false, "dead_lettered")
		return
	}

	c.reject(msg, true, "redelivered")
}

func (c *Consumer) reject(msg amqp091.Delivery, requeue bool, outcome string) {
	if err := msg.Nack(false, requeue); err != nil {
		c.logger.Error("Failed to nack message", zap.Error(err))
		return
	}
	c.observe(outcome)
}

func (c *Consumer) observe(outcome string) {
	if c.onOutcome != nil {
		c.onOutcome(outcome)
	}
}
