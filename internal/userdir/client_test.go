package userdir

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	pemKey, _ := testKeyPEM(t)
	tokens, err := NewTokenProvider("issuer", pemKey)
	require.NoError(t, err)
	return NewClient(server.URL, tokens, zap.NewNop())
}

func TestGetUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/user-1", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "user-1",
			"email": "ada@example.com",
			"phoneNumber": "+15550001111",
			"preferences": {
				"preferredLanguage": "en",
				"preferredCommunicationMethod": "email"
			}
		}`))
	}))
	defer server.Close()

	user, err := newTestClient(t, server).GetUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ada@example.com", user.Email)
	require.NotNil(t, user.Preferences)
	assert.Equal(t, "email", user.Preferences.PreferredCommunicationMethod)
}

func TestGetUserNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	user, err := newTestClient(t, server).GetUser(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestGetUserServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(t, server).GetUser(context.Background(), "user-1")
	assert.Error(t, err)
}
