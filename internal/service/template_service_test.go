package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsgov-acme/devstream-notification-service/internal/errs"
	"github.com/dsgov-acme/devstream-notification-service/internal/model"
)

func TestTemplateCreateOrUpdate(t *testing.T) {
	templates := newFakeTemplateStore()
	svc := NewTemplateService(templates)

	first, err := svc.CreateOrUpdate(context.Background(), "welcome", &model.Template{
		Name:       "Welcome",
		Parameters: map[string]string{"name": model.ParameterTypeString},
	})
	require.NoError(t, err)
	assert.Equal(t, "welcome", first.Key)
	assert.Equal(t, "DRAFT", first.Status)

	// Overwriting replaces formats wholesale but keeps the creation
	// timestamp of the original row.
	second, err := svc.CreateOrUpdate(context.Background(), "welcome", &model.Template{
		Name: "Welcome v2",
		Sms: &model.SmsFormat{
			Message: model.LocalizedStringSet{{Language: "en", Template: "hi {{.name}}"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, first.CreatedTimestamp, second.CreatedTimestamp)

	stored, err := svc.Get(context.Background(), "welcome")
	require.NoError(t, err)
	assert.Equal(t, "Welcome v2", stored.Name)
	assert.Nil(t, stored.Parameters)
}

func TestTemplateGetNotFound(t *testing.T) {
	svc := NewTemplateService(newFakeTemplateStore())

	_, err := svc.Get(context.Background(), "absent")
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}
