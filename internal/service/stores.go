package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dsgov-acme/devstream-notification-service/internal/model"
	"github.com/dsgov-acme/devstream-notification-service/internal/userdir"
)

// MessageRoutingKey is the routing key outbound messages are published
// under and the dispatch consumer subscribes to.
const MessageRoutingKey = "notification.message.queued"

// MessageQueueName is the durable queue feeding the dispatch consumer.
const MessageQueueName = "notification.message.queued.q"

// TemplateStore is the template lookup/upsert contract. Lookups return
// (nil, nil) when the key is absent.
type TemplateStore interface {
	GetByKey(ctx context.Context, key string) (*model.Template, error)
	ListAll(ctx context.Context) ([]*model.Template, error)
	Upsert(ctx context.Context, t *model.Template) error
}

// LayoutStore is the email layout lookup/upsert contract.
type LayoutStore interface {
	GetByKey(ctx context.Context, key string) (*model.EmailLayout, error)
	Upsert(ctx context.Context, l *model.EmailLayout) error
}

// MessageStore is the message persistence contract.
type MessageStore interface {
	Insert(ctx context.Context, m *model.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Message, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// Publisher hands serialized messages to the broker.
type Publisher interface {
	Publish(routingKey, messageID string, payload any) error
}

// UserDirectory resolves recipients. A missing user returns (nil, nil).
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (*userdir.User, error)
}
