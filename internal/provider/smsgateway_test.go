package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsgov-acme/devstream-notification-service/internal/config"
	"github.com/dsgov-acme/devstream-notification-service/internal/errs"
)

func newGatewaySender(serverURL string) *HTTPSmsSender {
	return NewHTTPSmsSender(config.SmsGatewayConfig{
		BaseURL:    serverURL,
		AccountSID: "AC123",
		AuthToken:  "secret",
		FromNumber: "+15550100000",
	})
}

func TestSendSms(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/AC123/messages", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+15550001111", r.PostForm.Get("To"))
		assert.Equal(t, "+15550100000", r.PostForm.Get("From"))
		assert.Equal(t, "Your code is 42", r.PostForm.Get("Body"))

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	err := newGatewaySender(server.URL).SendSms(context.Background(), "+15550001111", "Your code is 42")
	assert.NoError(t, err)
}

func TestSendSmsRejectionIsPermanent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	err := newGatewaySender(server.URL).SendSms(context.Background(), "+15550001111", "x")
	require.Error(t, err)
	assert.True(t, errs.IsUnprocessable(err))
}

func TestSendSmsServerErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := newGatewaySender(server.URL).SendSms(context.Background(), "+15550001111", "x")
	require.Error(t, err)
	assert.False(t, errs.IsUnprocessable(err))
}
