package provider

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/dsgov-acme/devstream-notification-service/internal/config"
)

// SMTPEmailSender delivers rendered emails over SMTP. Dial and send
// failures carry no indication of permanence and are treated as transient
// by the dispatch consumer.
type SMTPEmailSender struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailSender(cfg config.SMTPConfig) *SMTPEmailSender {
	return &SMTPEmailSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *SMTPEmailSender) SendEmail(_ context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromAddress)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
