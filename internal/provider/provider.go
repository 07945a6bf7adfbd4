// Package provider implements the channel-specific dispatch paths behind a
// uniform send contract, one provider per supported communication method.
package provider

import (
	"context"

	"github.com/dsgov-acme/devstream-notification-service/internal/model"
	"github.com/dsgov-acme/devstream-notification-service/internal/userdir"
)

// Communication methods as stored in user preferences.
const (
	MethodEmail = "email"
	MethodSms   = "sms"
)

// SendMessageProvider renders and sends one message over its channel.
type SendMessageProvider interface {
	// SupportedMethod is the preferred-communication-method value this
	// provider serves.
	SupportedMethod() string
	// Send resolves locale variants, renders the template pieces with the
	// message parameters, and hands the result to the channel transport.
	Send(ctx context.Context, user *userdir.User, msg *model.Message, tpl *model.Template) error
}

// EmailSender is the outbound email transport contract.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SmsSender is the outbound SMS transport contract.
type SmsSender interface {
	SendSms(ctx context.Context, to, text string) error
}

// LayoutStore looks up email layouts by key. A missing layout returns
// (nil, nil).
type LayoutStore interface {
	GetByKey(ctx context.Context, key string) (*model.EmailLayout, error)
}
