// Package crm provides a client for a Chatwoot-compatible CRM API. Leads
// are mirrored as contacts; scoring results land in contact custom
// attributes and conversation labels.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"autoassist_backend/platform/config"
	"autoassist_backend/platform/logger"
)

type Client struct {
	baseURL   string
	apiToken  string
	accountID int
	inboxID   int
	http      *http.Client
	log       *logger.Logger
}

// NewClient creates the CRM client. Returns nil when the CRM integration
// is not configured; a nil client turns every call into a no-op error-free
// return so callers need no enabled-checks.
func NewClient(cfg config.CRMConfig, log *logger.Logger) *Client {
	if !cfg.IsCRMEnabled() {
		return nil
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.GetCRMBaseURL(), "/"),
		apiToken:  cfg.GetCRMAPIToken(),
		accountID: cfg.GetCRMAccountID(),
		inboxID:   cfg.GetCRMInboxID(),
		http:      &http.Client{Timeout: 15 * time.Second},
		log:       log,
	}
}

// Contact is the CRM contact representation we care about.
type Contact struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

// ContactAttributes are the scoring fields synced onto the CRM contact.
type ContactAttributes struct {
	LeadScore     int    `json:"lead_score"`
	LeadQuality   string `json:"lead_quality"`
	InterestLevel string `json:"interest_level"`
	Urgency       string `json:"urgency"`
	TimeWaster    bool   `json:"time_waster"`
}

// FindContactByPhone searches the CRM for a contact with the given E.164
// phone number. Returns nil when no contact matches.
func (c *Client) FindContactByPhone(ctx context.Context, phone string) (*Contact, error) {
	if c == nil {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/api/v1/accounts/%d/contacts/search?q=%s",
		c.baseURL, c.accountID, url.QueryEscape(phone))

	var result struct {
		Payload []Contact `json:"payload"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}

	for i := range result.Payload {
		if result.Payload[i].PhoneNumber == phone {
			return &result.Payload[i], nil
		}
	}
	return nil, nil
}

// CreateContact creates a CRM contact for a lead.
func (c *Client) CreateContact(ctx context.Context, name, phone string) (*Contact, error) {
	if c == nil {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/api/v1/accounts/%d/contacts", c.baseURL, c.accountID)
	body := map[string]any{
		"name":         name,
		"phone_number": phone,
		"inbox_id":     c.inboxID,
	}

	var result struct {
		Payload struct {
			Contact Contact `json:"contact"`
		} `json:"payload"`
	}
	if err := c.do(ctx, http.MethodPost, endpoint, body, &result); err != nil {
		return nil, err
	}
	return &result.Payload.Contact, nil
}

// UpdateContactAttributes writes the scoring state to the contact's custom
// attributes. Idempotent; the CRM overwrites the attribute map.
func (c *Client) UpdateContactAttributes(ctx context.Context, contactID int, attrs ContactAttributes) error {
	if c == nil {
		return nil
	}

	endpoint := fmt.Sprintf("%s/api/v1/accounts/%d/contacts/%d", c.baseURL, c.accountID, contactID)
	body := map[string]any{
		"custom_attributes": attrs,
	}
	return c.do(ctx, http.MethodPut, endpoint, body, nil)
}

// Conversation is the CRM conversation shell that carries labels.
type Conversation struct {
	ID      int `json:"id"`
	InboxID int `json:"inbox_id"`
}

// EnsureConversation returns the contact's conversation in the configured
// inbox, creating one when the contact has none yet. Labels hang off the
// conversation, not the contact, so every label push needs one.
func (c *Client) EnsureConversation(ctx context.Context, contactID int) (int, error) {
	if c == nil {
		return 0, nil
	}

	endpoint := fmt.Sprintf("%s/api/v1/accounts/%d/contacts/%d/conversations",
		c.baseURL, c.accountID, contactID)

	var result struct {
		Payload []Conversation `json:"payload"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return 0, err
	}
	for _, conv := range result.Payload {
		if conv.InboxID == c.inboxID {
			return conv.ID, nil
		}
	}

	createEndpoint := fmt.Sprintf("%s/api/v1/accounts/%d/conversations", c.baseURL, c.accountID)
	body := map[string]any{
		"contact_id": contactID,
		"inbox_id":   c.inboxID,
	}
	var created Conversation
	if err := c.do(ctx, http.MethodPost, createEndpoint, body, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// SetConversationLabels replaces the label set on a CRM conversation. The
// CRM treats this as the full list, so callers pass the complete ordered
// tag list from the tagging engine.
func (c *Client) SetConversationLabels(ctx context.Context, conversationID int, labels []string) error {
	if c == nil {
		return nil
	}

	endpoint := fmt.Sprintf("%s/api/v1/accounts/%d/conversations/%d/labels",
		c.baseURL, c.accountID, conversationID)
	body := map[string]any{
		"labels": labels,
	}
	return c.do(ctx, http.MethodPost, endpoint, body, nil)
}

// Label is a CRM label definition, provisioned from the tag registry.
type Label struct {
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Color         string `json:"color,omitempty"`
	ShowOnSidebar bool   `json:"show_on_sidebar"`
}

// CreateLabel provisions a label definition. The CRM returns a conflict for
// labels that already exist; callers treat that as success.
func (c *Client) CreateLabel(ctx context.Context, label Label) error {
	if c == nil {
		return nil
	}

	endpoint := fmt.Sprintf("%s/api/v1/accounts/%d/labels", c.baseURL, c.accountID)
	err := c.do(ctx, http.MethodPost, endpoint, label, nil)
	if err != nil && strings.Contains(err.Error(), "422") {
		// Label already exists.
		return nil
	}
	return err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal crm payload: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api_access_token", c.apiToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("crm request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("crm returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode crm response: %w", err)
		}
	}
	return nil
}
