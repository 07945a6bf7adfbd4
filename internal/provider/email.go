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

// EmailMessageProvider renders the subject, the per-slot contents, and the
// enclosing layout, then sends over the email transport.
type EmailMessageProvider struct {
	layouts LayoutStore
	sender  EmailSender
	logger  *zap.Logger
}

func NewEmailMessageProvider(layouts LayoutStore, sender EmailSender, logger *zap.Logger) *EmailMessageProvider {
	return &EmailMessageProvider{layouts: layouts, sender: sender, logger: logger}
}

func (p *EmailMessageProvider) SupportedMethod() string { return MethodEmail }

func (p *EmailMessageProvider) Send(ctx context.Context, user *userdir.User, msg *model.Message, tpl *model.Template) error {
	language := user.Preferences.PreferredLanguage

	layout, err := p.layouts.GetByKey(ctx, tpl.LayoutKey)
	if err != nil {
		return err
	}
	if layout == nil {
		p.logger.Error("Message could not be sent, email layout not found",
			zap.String("layout_key", tpl.LayoutKey),
		)
		return errs.Unprocessable("message could not be sent, email layout not found %s", tpl.LayoutKey)
	}

	if tpl.Email == nil {
		return errs.Unprocessable("template %s has no email format", tpl.Key)
	}

	subjectTemplate, ok := locale.Resolve(tpl.Email.Subject, language)
	if !ok {
		p.logger.Error("Subject template not found",
			zap.String("template_key", tpl.Key),
			zap.String("user_id", user.ID),
			zap.String("language", language),
		)
		return errs.Unprocessable("could not send %s email to user %s, subject template not found", tpl.Key, user.ID)
	}

	subject, err := render.Render(subjectTemplate, msg.Parameters)
	if err != nil {
		return err
	}

	layoutInputs := make(map[string]string)
	for _, slot := range tpl.Email.DedupedContents() {
		slotTemplate, ok := locale.Resolve(slot.Template, language)
		if !ok {
			p.logger.Error("Content template not found",
				zap.String("template_key", tpl.Key),
				zap.String("user_id", user.ID),
				zap.String("layout_input", slot.LayoutInput),
			)
			return errs.Unprocessable("could not send %s email to user %s, content template not found", tpl.Key, user.ID)
		}
		rendered, err := render.Render(slotTemplate, msg.Parameters)
		if err != nil {
			return err
		}
		layoutInputs[slot.LayoutInput] = rendered
	}

	body, err := render.Render(layout.Content, layoutInputs)
	if err != nil {
		return err
	}

	return p.sender.SendEmail(ctx, user.Email, subject, body)
}
