package provider

import (
	"context"

	"go.uber.org/zap"

	"github.com/dsgov-acme/devstream-notification-service/internal/errs"
	"github.com/dsgov-acme/devstream-notification-service/internal/locale"
	"github.com/dsgov-acme/devstream-notification-service/internal/model"
	"github.com/dsgov-acme/devstream-notification-service/internal/render"
	"github.com/dsgov-acme/devstream-notification-service/internal/userdir"
)

// SmsMessageProvider renders the localized SMS message and sends it over
// the SMS transport.
type SmsMessageProvider struct {
	sender SmsSender
	logger *zap.Logger
}

func NewSmsMessageProvider(sender SmsSender, logger *zap.Logger) *SmsMessageProvider {
	return &SmsMessageProvider{sender: sender, logger: logger}
}

func (p *SmsMessageProvider) SupportedMethod() string { return MethodSms }

func (p *SmsMessageProvider) Send(ctx context.Context, user *userdir.User, msg *model.Message, tpl *model.Template) error {
	language := user.Preferences.PreferredLanguage

	if tpl.Sms == nil {
		return errs.Unprocessable("template %s has no sms format", tpl.Key)
	}

	messageTemplate, ok := locale.Resolve(tpl.Sms.Message, language)
	if !ok {
		p.logger.Error("No sms template found",
			zap.String("template_key", tpl.Key),
			zap.String("language", language),
		)
		return errs.Unprocessable("no template found for language %s, template key %s", language, tpl.Key)
	}

	text, err := render.Render(messageTemplate, msg.Parameters)
	if err != nil {
		return err
	}

	return p.sender.SendSms(ctx, user.PhoneNumber, text)
}
