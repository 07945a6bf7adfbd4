package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dsgov-acme/devstream-notification-service/internal/errs"
	"github.com/dsgov-acme/devstream-notification-service/internal/model"
	"github.com/dsgov-acme/devstream-notification-service/internal/provider"
	"github.com/dsgov-acme/devstream-notification-service/pkg/metrics"
)

// SendMessageService dispatches a queued message: it resolves the user and
// their preferred channel, then delegates to the matching channel
// provider. The provider registry is built once at composition time and
// read-only afterwards.
type SendMessageService struct {
	users     UserDirectory
	templates TemplateStore
	providers map[string]provider.SendMessageProvider
	logger    *zap.Logger
}

func NewSendMessageService(
	users UserDirectory,
	templates TemplateStore,
	providers []provider.SendMessageProvider,
	logger *zap.Logger,
) *SendMessageService {
	registry := make(map[string]provider.SendMessageProvider, len(providers))
	for _, p := range providers {
		registry[p.SupportedMethod()] = p
	}
	return &SendMessageService{
		users:     users,
		templates: templates,
		providers: registry,
		logger:    logger,
	}
}

// SendMessage performs one delivery attempt. Every Unprocessable return is
// a permanent failure for this recipient/template combination and must not
// be redelivered.
func (s *SendMessageService) SendMessage(ctx context.Context, msg *model.Message) error {
	user, err := s.users.GetUser(ctx, msg.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		s.logger.Error("Message could not be sent, user not found",
			zap.String("user_id", msg.UserID),
		)
		return errs.Unprocessable("message could not be sent, user not found %s", msg.UserID)
	}

	if user.Preferences == nil || user.Preferences.PreferredCommunicationMethod == "" {
		s.logger.Error("Message could not be sent, communication preferences not found",
			zap.String("user_id", msg.UserID),
		)
		return errs.Unprocessable("message could not be sent, communication preferences not found for user %s", msg.UserID)
	}

	method := user.Preferences.PreferredCommunicationMethod
	messageProvider, ok := s.providers[method]
	if !ok {
		s.logger.Error("Message could not be sent, preferred communication method not supported",
			zap.String("user_id", msg.UserID),
			zap.String("method", method),
		)
		return errs.Unprocessable("message could not be sent, preferred communication method not supported for user %s", msg.UserID)
	}

	tpl, err := s.templates.GetByKey(ctx, msg.MessageTemplateKey)
	if err != nil {
		return err
	}
	if tpl == nil {
		s.logger.Error("Message could not be sent, template not found",
			zap.String("template_key", msg.MessageTemplateKey),
		)
		return errs.Unprocessable("message could not be sent, template not found for template key %s", msg.MessageTemplateKey)
	}

	start := time.Now()
	err = messageProvider.Send(ctx, user, msg, tpl)
	metrics.DispatchDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	return err
}
