// Package notification provides event handlers for alerting staff when a
// conversation is escalated. It subscribes to domain events and inverts the
// dependency: the leads module never needs to know about email providers.
package notification

import (
	"context"
	"errors"
	"fmt"

	"autoassist_backend/internal/email"
	"autoassist_backend/internal/events"
	"autoassist_backend/platform/config"
	"autoassist_backend/platform/logger"
)

// WhatsAppSender sends WhatsApp messages. Satisfied by the whatsapp client.
type WhatsAppSender interface {
	SendMessage(ctx context.Context, phoneNumber string, message string) error
}

// Module fans escalation events out to staff email and WhatsApp.
type Module struct {
	sender email.Sender
	wa     WhatsAppSender
	cfg    config.NotificationConfig
	log    *logger.Logger
}

// NewModule creates the notification module. wa may be nil when the WhatsApp
// gateway is not configured.
func NewModule(sender email.Sender, wa WhatsAppSender, cfg config.NotificationConfig, log *logger.Logger) *Module {
	return &Module{
		sender: sender,
		wa:     wa,
		cfg:    cfg,
		log:    log,
	}
}

// RegisterHandlers subscribes the module to the events it handles.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.LeadEscalated{}.EventName(), m)
	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadEscalated:
		return m.handleLeadEscalated(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleLeadEscalated(ctx context.Context, e events.LeadEscalated) error {
	alert := email.EscalationAlert{
		LeadPhone:      e.Phone,
		EscalationType: e.EscalationType,
		Score:          e.Score,
		Quality:        e.Quality,
		Message:        e.Message,
		DashboardURL:   fmt.Sprintf("%s/leads/%s", m.cfg.GetAppBaseURL(), e.LeadID),
	}

	var errs []error
	for _, to := range m.cfg.GetEscalationEmails() {
		if err := m.sender.SendEscalationAlert(ctx, to, alert); err != nil {
			m.log.Error("escalation email failed", "to", to, "leadId", e.LeadID.String(), "error", err)
			errs = append(errs, err)
		}
	}

	if staffPhone := m.cfg.GetEscalationPhone(); staffPhone != "" && m.wa != nil {
		if err := m.wa.SendMessage(ctx, staffPhone, staffPingMessage(e, alert.DashboardURL)); err != nil {
			m.log.Error("escalation whatsapp ping failed", "leadId", e.LeadID.String(), "error", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func staffPingMessage(e events.LeadEscalated, dashboardURL string) string {
	reason := map[string]string{
		"human_request": "klant vraagt om een medewerker",
		"complaint":     "klacht ontvangen",
		"hot_lead":      "hot lead, klaar om te kopen",
	}[e.EscalationType]
	if reason == "" {
		reason = e.EscalationType
	}
	return fmt.Sprintf("Actie nodig: %s (%s). Score %d (%s). %s",
		reason, e.Phone, e.Score, e.Quality, dashboardURL)
}
