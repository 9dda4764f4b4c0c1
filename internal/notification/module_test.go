package notification

import (
	"context"
	"strings"
	"testing"

	"autoassist_backend/internal/email"
	"autoassist_backend/internal/events"
	"autoassist_backend/platform/logger"

	"github.com/google/uuid"
)

type stubSender struct {
	alerts []string // recipient addresses
	last   email.EscalationAlert
}

func (s *stubSender) SendEscalationAlert(ctx context.Context, toEmail string, alert email.EscalationAlert) error {
	s.alerts = append(s.alerts, toEmail)
	s.last = alert
	return nil
}

func (s *stubSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return nil
}

type stubWhatsApp struct {
	phone   string
	message string
}

func (s *stubWhatsApp) SendMessage(ctx context.Context, phoneNumber string, message string) error {
	s.phone = phoneNumber
	s.message = message
	return nil
}

type stubConfig struct {
	emails []string
	phone  string
}

func (c stubConfig) GetAppBaseURL() string         { return "https://app.example.com" }
func (c stubConfig) GetEscalationEmails() []string { return c.emails }
func (c stubConfig) GetEscalationPhone() string    { return c.phone }

func TestHandleLeadEscalatedFansOut(t *testing.T) {
	sender := &stubSender{}
	wa := &stubWhatsApp{}
	m := NewModule(sender, wa, stubConfig{
		emails: []string{"sales@example.com", "manager@example.com"},
		phone:  "+31600000000",
	}, logger.New("test"))

	leadID := uuid.New()
	err := m.Handle(context.Background(), events.LeadEscalated{
		LeadID:         leadID,
		Phone:          "+31612345678",
		EscalationType: "human_request",
		Score:          55,
		Quality:        "WARM",
		Message:        "Kan ik een verkoper spreken?",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(sender.alerts) != 2 {
		t.Fatalf("sent %d alert emails, want 2", len(sender.alerts))
	}
	if !strings.Contains(sender.last.DashboardURL, leadID.String()) {
		t.Errorf("dashboard URL %q missing lead id", sender.last.DashboardURL)
	}
	if wa.phone != "+31600000000" {
		t.Errorf("whatsapp ping sent to %q, want staff number", wa.phone)
	}
	if !strings.Contains(wa.message, "medewerker") {
		t.Errorf("whatsapp ping %q missing escalation reason", wa.message)
	}
}

func TestHandleSkipsWhatsAppWithoutStaffPhone(t *testing.T) {
	sender := &stubSender{}
	wa := &stubWhatsApp{}
	m := NewModule(sender, wa, stubConfig{emails: []string{"sales@example.com"}}, logger.New("test"))

	err := m.Handle(context.Background(), events.LeadEscalated{
		LeadID:         uuid.New(),
		Phone:          "+31612345678",
		EscalationType: "complaint",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if wa.phone != "" {
		t.Errorf("whatsapp ping sent to %q, want none", wa.phone)
	}
}
