package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dsgov-acme/devstream-notification-service/internal/errs"
	"github.com/dsgov-acme/devstream-notification-service/internal/model"
	"github.com/dsgov-acme/devstream-notification-service/internal/provider"
	"github.com/dsgov-acme/devstream-notification-service/internal/userdir"
)

func smsUser(id string) *userdir.User {
	return &userdir.User{
		ID:          id,
		PhoneNumber: "+15550001111",
		Preferences: &userdir.Preferences{
			PreferredLanguage:            "en",
			PreferredCommunicationMethod: provider.MethodSms,
		},
	}
}

func TestSendMessageHappyPath(t *testing.T) {
	user := smsUser("user-1")
	smsProvider := &fakeProvider{method: provider.MethodSms}
	svc := NewSendMessageService(
		newFakeUserDirectory(user),
		newFakeTemplateStore(&model.Template{Key: "welcome"}),
		[]provider.SendMessageProvider{smsProvider},
		zap.NewNop(),
	)

	msg := &model.Message{UserID: "user-1", MessageTemplateKey: "welcome"}
	require.NoError(t, svc.SendMessage(context.Background(), msg))
	assert.Len(t, smsProvider.sent, 1)
}

func TestSendMessageUnprocessableCases(t *testing.T) {
	tests := []struct {
		name string
		user *userdir.User
	}{
		{name: "user not found", user: nil},
		{
			name: "no preferences",
			user: &userdir.User{ID: "user-1"},
		},
		{
			name: "blank communication method",
			user: &userdir.User{
				ID:          "user-1",
				Preferences: &userdir.Preferences{PreferredLanguage: "en"},
			},
		},
		{
			name: "unsupported method",
			user: &userdir.User{
				ID: "user-1",
				Preferences: &userdir.Preferences{
					PreferredCommunicationMethod: "carrier-pigeon",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dir *fakeUserDirectory
			if tt.user != nil {
				dir = newFakeUserDirectory(tt.user)
			} else {
				dir = newFakeUserDirectory()
			}
			smsProvider := &fakeProvider{method: provider.MethodSms}
			svc := NewSendMessageService(
				dir,
				newFakeTemplateStore(&model.Template{Key: "welcome"}),
				[]provider.SendMessageProvider{smsProvider},
				zap.NewNop(),
			)

			err := svc.SendMessage(context.Background(), &model.Message{
				UserID:             "user-1",
				MessageTemplateKey: "welcome",
			})
			require.Error(t, err)
			assert.True(t, errs.IsUnprocessable(err))
			assert.Empty(t, smsProvider.sent)
		})
	}
}

func TestSendMessageTemplateMissing(t *testing.T) {
	svc := NewSendMessageService(
		newFakeUserDirectory(smsUser("user-1")),
		newFakeTemplateStore(),
		[]provider.SendMessageProvider{&fakeProvider{method: provider.MethodSms}},
		zap.NewNop(),
	)

	err := svc.SendMessage(context.Background(), &model.Message{
		UserID:             "user-1",
		MessageTemplateKey: "deleted-template",
	})
	require.Error(t, err)
	assert.True(t, errs.IsUnprocessable(err))
}

func TestSendMessagePropagatesProviderError(t *testing.T) {
	transient := errors.New("smtp connect timeout")
	svc := NewSendMessageService(
		newFakeUserDirectory(smsUser("user-1")),
		newFakeTemplateStore(&model.Template{Key: "welcome"}),
		[]provider.SendMessageProvider{&fakeProvider{method: provider.MethodSms, err: transient}},
		zap.NewNop(),
	)

	err := svc.SendMessage(context.Background(), &model.Message{
		UserID:             "user-1",
		MessageTemplateKey: "welcome",
	})
	assert.ErrorIs(t, err, transient)
}
