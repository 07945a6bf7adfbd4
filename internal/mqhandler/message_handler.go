// Package mqhandler processes deliveries from the dispatch queue. Each
// handled message moves exactly once from QUEUED to a terminal status.
package mqhandler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/dsgov-acme/devstream-notification-service/internal/errs"
	"github.com/dsgov-acme/devstream-notification-service/internal/model"
	"github.com/dsgov-acme/devstream-notification-service/internal/service"
	"github.com/dsgov-acme/devstream-notification-service/pkg/metrics"
)

// Dispatcher performs one delivery attempt for a queued message.
type Dispatcher interface {
	SendMessage(ctx context.Context, msg *model.Message) error
}

// MessageHandler consumes queued messages and dispatches them to the
// recipient's preferred channel.
type MessageHandler struct {
	messages service.MessageStore
	sender   Dispatcher
	logger   *zap.Logger
}

func NewMessageHandler(messages service.MessageStore, sender Dispatcher, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		messages: messages,
		sender:   sender,
		logger:   logger,
	}
}

// Handle processes one delivery. A nil return acknowledges the message:
// either the send succeeded (status SENT) or it failed permanently for
// this recipient (status UNPROCESSABLE). Any other
// error is returned for redelivery; the stored status is left untouched
// so a later attempt can still succeed.
func (h *MessageHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var msg model.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.logger.Error("Error parsing queued message", zap.Error(err))
		return &errs.MessageParsingError{Err: err}
	}

	err := h.sender.SendMessage(ctx, &msg)
	if err == nil {
		if err := h.messages.UpdateStatus(ctx, msg.ID, model.StatusSent); err != nil {
			return err
		}
		metrics.MessagesProcessed.WithLabelValues("sent").Inc()
		return nil
	}

	if errs.IsUnprocessable(err) {
		h.logger.Warn("Message is unprocessable, dropping",
			zap.String("message_id", msg.ID.String()),
			zap.Error(err),
		)
		if err := h.messages.UpdateStatus(ctx, msg.ID, model.StatusUnprocessable); err != nil {
			return err
		}
		metrics.MessagesProcessed.WithLabelValues("unprocessable").Inc()
		return nil
	}

	h.logger.Error("An error occurred processing message",
		zap.String("message_id", msg.ID.String()),
		zap.Error(err),
	)
	return err
}

// IsFatal classifies handler errors for the consumer: a malformed payload
// can never parse on redelivery, so it is routed straight to the
// dead-letter queue.
func IsFatal(err error) bool {
	return errs.IsMessageParsing(err)
}
