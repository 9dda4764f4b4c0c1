// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"autoassist_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// InboundMessageStored is published after an inbound WhatsApp message has
// been persisted, before scoring results are known to subscribers.
type InboundMessageStored struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	MessageID uuid.UUID `json:"messageId"`
	Phone     string    `json:"phone"`
	Content   string    `json:"content"`
	MediaKey  string    `json:"mediaKey,omitempty"`
}

func (e InboundMessageStored) EventName() string { return "leads.message.stored" }

// LeadScored is published every time a lead is (re)scored.
type LeadScored struct {
	BaseEvent
	LeadID     uuid.UUID      `json:"leadId"`
	Phone      string         `json:"phone"`
	Score      int            `json:"leadScore"`
	Quality    string         `json:"leadQuality"`
	Interest   string         `json:"interestLevel"`
	Urgency    string         `json:"urgency"`
	TimeWaster bool           `json:"timeWaster"`
	Tags       []string       `json:"tags"`
	Breakdown  map[string]int `json:"scoreBreakdown"`
}

func (e LeadScored) EventName() string { return "leads.lead.scored" }

// LeadEscalated is published when a conversation needs human attention:
// an explicit request for a salesperson, a complaint, or a lead whose
// score crossed the hot-lead handoff threshold.
type LeadEscalated struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	Phone          string    `json:"phone"`
	EscalationType string    `json:"escalationType"`
	Score          int       `json:"leadScore"`
	Quality        string    `json:"leadQuality"`
	Message        string    `json:"message"`
}

func (e LeadEscalated) EventName() string { return "leads.lead.escalated" }

// CRMSyncRequested is published when a lead's CRM profile is stale and a
// background sync task has been enqueued.
type CRMSyncRequested struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
}

func (e CRMSyncRequested) EventName() string { return "crm.sync.requested" }
