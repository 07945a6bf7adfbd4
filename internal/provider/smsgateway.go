package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dsgov-acme/devstream-notification-service/internal/config"
	"github.com/dsgov-acme/devstream-notification-service/internal/errs"
)

// HTTPSmsSender delivers rendered SMS texts through a REST gateway. A 4xx
// response is a permanent rejection for this recipient and surfaces as
// Unprocessable; 5xx and transport errors are transient and retryable.
type HTTPSmsSender struct {
	cfg  config.SmsGatewayConfig
	http *http.Client
}

func NewHTTPSmsSender(cfg config.SmsGatewayConfig) *HTTPSmsSender {
	return &HTTPSmsSender{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPSmsSender) SendSms(ctx context.Context, to, text string) error {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.cfg.FromNumber)
	form.Set("Body", text)

	endpoint := fmt.Sprintf("%s/accounts/%s/messages", s.cfg.BaseURL, s.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build sms gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call sms gateway: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return errs.Unprocessable("sms gateway rejected message for %s with status %d", to, resp.StatusCode)
	default:
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}
}
