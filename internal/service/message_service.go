package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dsgov-acme/devstream-notification-service/internal/errs"
	"github.com/dsgov-acme/devstream-notification-service/internal/model"
	"github.com/dsgov-acme/devstream-notification-service/pkg/metrics"
)

// MessageService accepts send requests: it validates parameters against
// the template's declared schema, persists the message as QUEUED, and
// publishes it for asynchronous dispatch.
type MessageService struct {
	templates TemplateStore
	messages  MessageStore
	publisher Publisher
	logger    *zap.Logger
}

func NewMessageService(templates TemplateStore, messages MessageStore, publisher Publisher, logger *zap.Logger) *MessageService {
	return &MessageService{
		templates: templates,
		messages:  messages,
		publisher: publisher,
		logger:    logger,
	}
}

// Send validates and enqueues a message. The message is persisted before
// publish; a publish failure is logged and swallowed, so the caller still
// sees an accepted QUEUED message.
func (s *MessageService) Send(ctx context.Context, msg *model.Message) (*model.Message, error) {
	tpl, err := s.templates.GetByKey(ctx, msg.MessageTemplateKey)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, errs.NotFound("template not found")
	}

	if err := validateParameters(msg, tpl, s.logger); err != nil {
		return nil, err
	}

	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	now := time.Now().UTC()
	msg.Status = model.StatusQueued
	msg.RequestedTimestamp = &now

	if err := s.messages.Insert(ctx, msg); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(MessageRoutingKey, msg.ID.String(), msg); err != nil {
		// The QUEUED row is already persisted; the request stays accepted
		// even though nothing will pick it up until republished.
		metrics.PublishFailures.Inc()
		s.logger.Warn("Message could not be published",
			zap.String("message_id", msg.ID.String()),
			zap.Error(err),
		)
		return msg, nil
	}

	metrics.MessagesPublished.Inc()
	return msg, nil
}

// Get returns a message by id for status polling.
func (s *MessageService) Get(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, errs.NotFound("message %s not found", id)
	}
	return msg, nil
}

// validateParameters checks every parameter declared in the template's
// schema: it must be present in the message and satisfy its declared type.
// Parameters present in the message but not declared are retained.
func validateParameters(msg *model.Message, tpl *model.Template, logger *zap.Logger) error {
	for name, parameterType := range tpl.Parameters {
		value, ok := msg.Parameters[name]
		if !ok {
			logger.Warn("Parameter not found in template",
				zap.String("parameter", name),
				zap.String("template_key", tpl.Key),
			)
			return errs.BadData("parameter not found in template")
		}
		if !isCorrectType(value, parameterType) {
			logger.Warn("Parameter value does not correspond to type",
				zap.String("parameter", name),
				zap.String("value", value),
				zap.String("type", parameterType),
			)
			return errs.BadData("parameter not correct type")
		}
	}
	return nil
}

func isCorrectType(value, parameterType string) bool {
	switch parameterType {
	case model.ParameterTypeNumber:
		_, err := strconv.ParseFloat(value, 64)
		return err == nil
	case model.ParameterTypeDate:
		_, err := time.Parse("2006-01-02", value)
		return err == nil
	case model.ParameterTypeDateTime:
		_, err := time.Parse("2006-01-02T15:04:05", value)
		return err == nil
	default:
		return true
	}
}
