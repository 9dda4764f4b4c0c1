package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"autoassist_backend/platform/logger"
)

type testConfig struct {
	baseURL string
}

func (c testConfig) GetCRMBaseURL() string  { return c.baseURL }
func (c testConfig) GetCRMAPIToken() string { return "test-token" }
func (c testConfig) GetCRMAccountID() int   { return 7 }
func (c testConfig) GetCRMInboxID() int     { return 3 }
func (c testConfig) IsCRMEnabled() bool     { return c.baseURL != "" }

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(testConfig{baseURL: srv.URL}, logger.New("test"))
	if client == nil {
		t.Fatal("NewClient returned nil for enabled config")
	}
	return client, srv
}

func TestNewClientDisabled(t *testing.T) {
	if client := NewClient(testConfig{}, logger.New("test")); client != nil {
		t.Error("NewClient should return nil when CRM is not configured")
	}
}

func TestNilClientIsNoOp(t *testing.T) {
	var client *Client
	ctx := context.Background()

	if contact, err := client.FindContactByPhone(ctx, "+31612345678"); contact != nil || err != nil {
		t.Errorf("FindContactByPhone on nil client = (%v, %v), want (nil, nil)", contact, err)
	}
	if err := client.UpdateContactAttributes(ctx, 1, ContactAttributes{}); err != nil {
		t.Errorf("UpdateContactAttributes on nil client: %v", err)
	}
	if err := client.SetConversationLabels(ctx, 1, []string{"hot-lead"}); err != nil {
		t.Errorf("SetConversationLabels on nil client: %v", err)
	}
	if id, err := client.EnsureConversation(ctx, 1); id != 0 || err != nil {
		t.Errorf("EnsureConversation on nil client = (%d, %v), want (0, nil)", id, err)
	}
	if err := client.CreateLabel(ctx, Label{Title: "hot-lead"}); err != nil {
		t.Errorf("CreateLabel on nil client: %v", err)
	}
}

func TestFindContactByPhoneExactMatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/accounts/7/contacts/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("api_access_token"); got != "test-token" {
			t.Errorf("api_access_token = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"payload": []Contact{
				{ID: 1, Name: "Other", PhoneNumber: "+31687654321"},
				{ID: 2, Name: "Jan", PhoneNumber: "+31612345678"},
			},
		})
	})

	contact, err := client.FindContactByPhone(context.Background(), "+31612345678")
	if err != nil {
		t.Fatalf("FindContactByPhone: %v", err)
	}
	if contact == nil || contact.ID != 2 {
		t.Fatalf("contact = %+v, want ID 2", contact)
	}
}

func TestFindContactByPhoneNoMatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Search can return fuzzy hits that are not the number asked for.
		_ = json.NewEncoder(w).Encode(map[string]any{
			"payload": []Contact{{ID: 1, PhoneNumber: "+31600000001"}},
		})
	})

	contact, err := client.FindContactByPhone(context.Background(), "+31612345678")
	if err != nil {
		t.Fatalf("FindContactByPhone: %v", err)
	}
	if contact != nil {
		t.Errorf("contact = %+v, want nil for fuzzy-only hits", contact)
	}
}

func TestCreateContact(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/accounts/7/contacts" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["inbox_id"] != float64(3) {
			t.Errorf("inbox_id = %v, want 3", body["inbox_id"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"payload": map[string]any{
				"contact": Contact{ID: 42, Name: "Jan", PhoneNumber: "+31612345678"},
			},
		})
	})

	contact, err := client.CreateContact(context.Background(), "Jan", "+31612345678")
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	if contact.ID != 42 {
		t.Errorf("contact ID = %d, want 42", contact.ID)
	}
}

func TestEnsureConversationFindsInboxMatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/v1/accounts/7/contacts/42/conversations" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		// The contact can have conversations in other inboxes.
		_ = json.NewEncoder(w).Encode(map[string]any{
			"payload": []Conversation{
				{ID: 11, InboxID: 9},
				{ID: 12, InboxID: 3},
			},
		})
	})

	id, err := client.EnsureConversation(context.Background(), 42)
	if err != nil {
		t.Fatalf("EnsureConversation: %v", err)
	}
	if id != 12 {
		t.Errorf("conversation ID = %d, want 12 (inbox 3 match)", id)
	}
}

func TestEnsureConversationCreatesWhenMissing(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{"payload": []Conversation{}})
		case r.Method == http.MethodPost:
			if r.URL.Path != "/api/v1/accounts/7/conversations" {
				t.Errorf("unexpected create path %s", r.URL.Path)
			}
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["contact_id"] != float64(42) || body["inbox_id"] != float64(3) {
				t.Errorf("create body = %v, want contact 42 in inbox 3", body)
			}
			_ = json.NewEncoder(w).Encode(Conversation{ID: 77, InboxID: 3})
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	id, err := client.EnsureConversation(context.Background(), 42)
	if err != nil {
		t.Fatalf("EnsureConversation: %v", err)
	}
	if id != 77 {
		t.Errorf("conversation ID = %d, want 77 from create", id)
	}
}

func TestSetConversationLabelsSendsFullList(t *testing.T) {
	var got []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/accounts/7/conversations/9/labels" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			Labels []string `json:"labels"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		got = body.Labels
		w.WriteHeader(http.StatusOK)
	})

	labels := []string{"hot-lead", "interesse-volkswagen", "whatsapp-ai"}
	if err := client.SetConversationLabels(context.Background(), 9, labels); err != nil {
		t.Fatalf("SetConversationLabels: %v", err)
	}
	if len(got) != 3 || got[2] != "whatsapp-ai" {
		t.Errorf("labels sent = %v, want full ordered list", got)
	}
}

func TestCreateLabelTreatsConflictAsSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Title has already been taken"}`))
	})

	if err := client.CreateLabel(context.Background(), Label{Title: "hot-lead"}); err != nil {
		t.Errorf("CreateLabel on 422: %v, want nil", err)
	}
}

func TestErrorStatusSurfaced(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid token"}`))
	})

	if err := client.UpdateContactAttributes(context.Background(), 1, ContactAttributes{LeadScore: 80}); err == nil {
		t.Error("UpdateContactAttributes should surface 401 errors")
	}
}
