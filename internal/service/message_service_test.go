package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dsgov-acme/devstream-notification-service/internal/errs"
	"github.com/dsgov-acme/devstream-notification-service/internal/model"
)

func paymentTemplate() *model.Template {
	return &model.Template{
		Key: "payment-due",
		Parameters: map[string]string{
			"amount":  model.ParameterTypeNumber,
			"dueDate": model.ParameterTypeDate,
			"name":    model.ParameterTypeString,
		},
	}
}

func TestSendAcceptsValidMessage(t *testing.T) {
	templates := newFakeTemplateStore(paymentTemplate())
	messages := newFakeMessageStore()
	publisher := &fakePublisher{}
	svc := NewMessageService(templates, messages, publisher, zap.NewNop())

	msg, err := svc.Send(context.Background(), &model.Message{
		UserID:             "user-1",
		MessageTemplateKey: "payment-due",
		Parameters: map[string]string{
			"amount":  "45",
			"dueDate": "2026-09-01",
			"name":    "Ada",
		},
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, msg.ID)
	assert.Equal(t, model.StatusQueued, msg.Status)
	require.NotNil(t, msg.RequestedTimestamp)
	assert.Nil(t, msg.SentTimestamp)

	stored, err := messages.GetByID(context.Background(), msg.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, []string{msg.ID.String()}, publisher.published)
}

func TestSendRetainsUndeclaredParameters(t *testing.T) {
	templates := newFakeTemplateStore(paymentTemplate())
	messages := newFakeMessageStore()
	svc := NewMessageService(templates, messages, &fakePublisher{}, zap.NewNop())

	msg, err := svc.Send(context.Background(), &model.Message{
		UserID:             "user-1",
		MessageTemplateKey: "payment-due",
		Parameters: map[string]string{
			"amount":  "45",
			"dueDate": "2026-09-01",
			"name":    "Ada",
			"extra":   "kept as-is",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "kept as-is", msg.Parameters["extra"])
}

func TestSendRejectsInvalidMessage(t *testing.T) {
	tests := []struct {
		name       string
		parameters map[string]string
	}{
		{
			name: "number parameter not numeric",
			parameters: map[string]string{
				"amount":  "not-a-number",
				"dueDate": "2026-09-01",
				"name":    "Ada",
			},
		},
		{
			name: "date parameter malformed",
			parameters: map[string]string{
				"amount":  "45",
				"dueDate": "September 1st",
				"name":    "Ada",
			},
		},
		{
			name: "declared parameter missing",
			parameters: map[string]string{
				"amount": "45",
				"name":   "Ada",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			templates := newFakeTemplateStore(paymentTemplate())
			messages := newFakeMessageStore()
			publisher := &fakePublisher{}
			svc := NewMessageService(templates, messages, publisher, zap.NewNop())

			_, err := svc.Send(context.Background(), &model.Message{
				UserID:             "user-1",
				MessageTemplateKey: "payment-due",
				Parameters:         tt.parameters,
			})
			require.Error(t, err)
			assert.True(t, errs.IsBadData(err))

			// Nothing persisted, nothing published.
			assert.Empty(t, messages.messages)
			assert.Empty(t, publisher.published)
		})
	}
}

func TestSendUnknownTemplate(t *testing.T) {
	svc := NewMessageService(newFakeTemplateStore(), newFakeMessageStore(), &fakePublisher{}, zap.NewNop())

	_, err := svc.Send(context.Background(), &model.Message{
		UserID:             "user-1",
		MessageTemplateKey: "no-such-template",
	})
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestSendSwallowsPublishFailure(t *testing.T) {
	templates := newFakeTemplateStore(paymentTemplate())
	messages := newFakeMessageStore()
	publisher := &fakePublisher{err: errors.New("broker unavailable")}
	svc := NewMessageService(templates, messages, publisher, zap.NewNop())

	msg, err := svc.Send(context.Background(), &model.Message{
		UserID:             "user-1",
		MessageTemplateKey: "payment-due",
		Parameters: map[string]string{
			"amount":  "45",
			"dueDate": "2026-09-01",
			"name":    "Ada",
		},
	})
	require.NoError(t, err)

	// The QUEUED row survives the failed publish.
	assert.Equal(t, model.StatusQueued, messages.statuses[msg.ID])
}

func TestGetMessage(t *testing.T) {
	messages := newFakeMessageStore()
	id := uuid.New()
	require.NoError(t, messages.Insert(context.Background(), &model.Message{ID: id, Status: model.StatusQueued}))

	svc := NewMessageService(newFakeTemplateStore(), messages, &fakePublisher{}, zap.NewNop())

	msg, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, msg.ID)

	_, err = svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}
