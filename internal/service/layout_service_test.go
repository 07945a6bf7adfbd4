package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsgov-acme/devstream-notification-service/internal/errs"
	"github.com/dsgov-acme/devstream-notification-service/internal/model"
)

func TestLayoutCreateOrUpdate(t *testing.T) {
	layouts := newFakeLayoutStore()
	svc := NewEmailLayoutService(layouts)

	created, err := svc.CreateOrUpdate(context.Background(), "standard", &model.EmailLayout{
		Name:    "Standard",
		Content: "<html>{{.header}}{{.body}}</html>",
		Inputs:  []string{"header", "body"},
	})
	require.NoError(t, err)
	assert.Equal(t, "standard", created.Key)
	assert.Equal(t, "DRAFT", created.Status)

	stored, err := svc.Get(context.Background(), "standard")
	require.NoError(t, err)
	assert.Equal(t, created.Content, stored.Content)
}

func TestLayoutCreateOrUpdateKeepsCreationTimestamp(t *testing.T) {
	layouts := newFakeLayoutStore()
	svc := NewEmailLayoutService(layouts)

	first, err := svc.CreateOrUpdate(context.Background(), "standard", &model.EmailLayout{
		Content: "{{.body}}",
		Inputs:  []string{"body"},
	})
	require.NoError(t, err)

	second, err := svc.CreateOrUpdate(context.Background(), "standard", &model.EmailLayout{
		Content: "v2 {{.body}}",
		Inputs:  []string{"body"},
	})
	require.NoError(t, err)
	assert.Equal(t, first.CreatedTimestamp, second.CreatedTimestamp)
}

func TestLayoutRejectsUndeclaredInputs(t *testing.T) {
	svc := NewEmailLayoutService(newFakeLayoutStore())

	_, err := svc.CreateOrUpdate(context.Background(), "standard", &model.EmailLayout{
		Content: "{{.header}}{{.body}}{{.footer}}",
		Inputs:  []string{"body"},
	})
	require.Error(t, err)
	assert.True(t, errs.IsBadData(err))
	assert.Contains(t, err.Error(), "not defined")
}

func TestLayoutRejectsMalformedContent(t *testing.T) {
	svc := NewEmailLayoutService(newFakeLayoutStore())

	_, err := svc.CreateOrUpdate(context.Background(), "standard", &model.EmailLayout{
		Content: "{{.broken",
		Inputs:  []string{"broken"},
	})
	require.Error(t, err)
	assert.True(t, errs.IsTemplateCompilation(err))
}

func TestLayoutGetNotFound(t *testing.T) {
	svc := NewEmailLayoutService(newFakeLayoutStore())

	_, err := svc.Get(context.Background(), "absent")
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}
