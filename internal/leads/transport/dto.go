package transport

import (
	"time"

	"autoassist_backend/internal/leads/repository"

	"github.com/google/uuid"
)

// LeadResponse is the staff API representation of a lead.
type LeadResponse struct {
	ID                uuid.UUID      `json:"id"`
	Phone             string         `json:"phone"`
	Name              *string        `json:"name,omitempty"`
	LeadScore         int            `json:"lead_score"`
	LeadQuality       string         `json:"lead_quality"`
	InterestLevel     string         `json:"interest_level"`
	Urgency           string         `json:"urgency"`
	TimeWaster        bool           `json:"time_waster"`
	ScoreBreakdown    map[string]int `json:"score_breakdown,omitempty"`
	Tags              []string       `json:"tags"`
	CRMContactID      *int           `json:"crmContactId,omitempty"`
	CRMConversationID *int           `json:"crmConversationId,omitempty"`
	EscalationType    *string        `json:"escalationType,omitempty"`
	EscalatedAt       *time.Time     `json:"escalatedAt,omitempty"`
	LastMessageAt     *time.Time     `json:"lastMessageAt,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// ToLeadResponse maps a repository lead to its API shape.
func ToLeadResponse(lead repository.Lead) LeadResponse {
	tags := lead.Tags
	if tags == nil {
		tags = []string{}
	}
	return LeadResponse{
		ID:                lead.ID,
		Phone:             lead.Phone,
		Name:              lead.Name,
		LeadScore:         lead.Score,
		LeadQuality:       lead.Quality,
		InterestLevel:     lead.InterestLevel,
		Urgency:           lead.Urgency,
		TimeWaster:        lead.TimeWaster,
		ScoreBreakdown:    lead.ScoreBreakdown,
		Tags:              tags,
		CRMContactID:      lead.CRMContactID,
		CRMConversationID: lead.CRMConversationID,
		EscalationType:    lead.EscalationType,
		EscalatedAt:       lead.EscalatedAt,
		LastMessageAt:     lead.LastMessageAt,
		CreatedAt:         lead.CreatedAt,
		UpdatedAt:         lead.UpdatedAt,
	}
}

// ToLeadResponses maps a slice of leads.
func ToLeadResponses(leads []repository.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, ToLeadResponse(lead))
	}
	return out
}

// MessageResponse is one conversation turn in the staff API.
type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	MediaKey  *string   `json:"mediaKey,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToMessageResponses maps stored messages to their API shape.
func ToMessageResponses(messages []repository.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, MessageResponse{
			ID:        msg.ID,
			Role:      msg.Role,
			Content:   msg.Content,
			MediaKey:  msg.MediaKey,
			CreatedAt: msg.CreatedAt,
		})
	}
	return out
}

// RescoreResponse returns the outcome of a manual rescore.
type RescoreResponse struct {
	Lead       LeadResponse `json:"lead"`
	TimeWaster bool         `json:"time_waster"`
	Tags       []string     `json:"tags"`
}
