// Package userdir is the client for the external user directory, the
// source of recipient addresses and communication preferences.
package userdir

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Preferences are the user's delivery preferences.
type Preferences struct {
	PreferredLanguage            string `json:"preferredLanguage"`
	PreferredCommunicationMethod string `json:"preferredCommunicationMethod"`
}

// User is a user directory record.
type User struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	PhoneNumber string       `json:"phoneNumber"`
	Preferences *Preferences `json:"preferences"`
}

// Client queries the user directory over HTTP with a bearer service token.
type Client struct {
	baseURL string
	tokens  *TokenProvider
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, tokens *TokenProvider, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// GetUser fetches a user record by id. A missing user returns (nil, nil);
// transport and server failures return an error and are retryable.
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	url := fmt.Sprintf("%s/api/v1/users/%s", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build user directory request: %w", err)
	}

	token, err := c.tokens.GetToken()
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call user directory: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("user directory returned status %d", resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user directory response: %w", err)
	}
	return &user, nil
}
