// Package email delivers staff-facing notification mail. Two providers are
// supported: the Brevo transactional API and a direct SMTP connection.
package email

import (
	"context"

	"autoassist_backend/platform/config"
)

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte // raw file bytes (base64-encoded for Brevo)
	FileName string
	MIMEType string
}

// EscalationAlert carries the details shown in an escalation email.
type EscalationAlert struct {
	LeadPhone      string
	LeadName       string
	EscalationType string
	Score          int
	Quality        string
	Message        string
	DashboardURL   string
}

type Sender interface {
	SendEscalationAlert(ctx context.Context, toEmail string, alert EscalationAlert) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

type NoopSender struct{}

func (NoopSender) SendEscalationAlert(ctx context.Context, toEmail string, alert EscalationAlert) error {
	return nil
}

func (NoopSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return nil
}

// NewSender picks a provider from configuration: Brevo when an API key is
// set, SMTP when a host is set, otherwise a no-op sender.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	if cfg.GetBrevoAPIKey() != "" {
		return NewBrevoSender(cfg)
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(), cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(), cfg.GetEmailFromName(),
	)
}
