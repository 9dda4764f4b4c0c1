package webhook

import (
	"encoding/json"
	"testing"
)

func TestSenderPhone(t *testing.T) {
	tests := []struct {
		name     string
		senderID string
		want     string
	}{
		{"jid", "31612345678@s.whatsapp.net", "+31612345678"},
		{"jid with device suffix", "31612345678:12@s.whatsapp.net", "+31612345678"},
		{"legacy c.us jid", "31612345678@c.us", "+31612345678"},
		{"plain number", "31612345678", "+31612345678"},
		{"already prefixed", "+31612345678", "+31612345678"},
		{"group jid", "1234567890-987654@g.us", ""},
		{"broadcast", "status@broadcast", ""},
		{"empty", "", ""},
		{"garbage", "not-a-number@s.whatsapp.net", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := InboundPayload{SenderID: tt.senderID}
			if got := p.SenderPhone(); got != tt.want {
				t.Errorf("SenderPhone(%q) = %q, want %q", tt.senderID, got, tt.want)
			}
		})
	}
}

func TestTextFallsBackToCaption(t *testing.T) {
	p := InboundPayload{
		Image: &PayloadMedia{Caption: "Hoeveel kost deze auto?", MimeType: "image/jpeg", Data: "aGk="},
	}
	if got := p.Text(); got != "Hoeveel kost deze auto?" {
		t.Errorf("Text() = %q, want caption fallback", got)
	}

	p.Message = &PayloadMessage{Text: "Zie foto"}
	if got := p.Text(); got != "Zie foto" {
		t.Errorf("Text() = %q, want message text to win over caption", got)
	}
}

func TestPayloadToleratesUnknownFields(t *testing.T) {
	raw := `{
		"sender_id": "31612345678@s.whatsapp.net",
		"pushname": "Jan",
		"message": {"id": "abc", "text": "hallo", "reply_to": "xyz"},
		"forwarded": true,
		"view_once": false,
		"some_future_field": {"nested": 1}
	}`

	var p InboundPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.SenderPhone() != "+31612345678" {
		t.Errorf("SenderPhone() = %q", p.SenderPhone())
	}
	if p.Text() != "hallo" {
		t.Errorf("Text() = %q", p.Text())
	}
	if name := p.SenderName(); name == nil || *name != "Jan" {
		t.Errorf("SenderName() = %v, want Jan", name)
	}
}

func TestMediaPicksFirstWithData(t *testing.T) {
	p := InboundPayload{
		Audio:    &PayloadMedia{MimeType: "audio/ogg"},
		Document: &PayloadMedia{MimeType: "application/pdf", Data: "ZG9j"},
	}
	media := p.Media()
	if media == nil || media.MimeType != "application/pdf" {
		t.Fatalf("Media() = %v, want the document attachment", media)
	}
}

func TestAPIKeyHashRoundTrip(t *testing.T) {
	plaintext, hash, prefix, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey: %v", err)
	}
	if len(plaintext) != 4+64 {
		t.Errorf("plaintext length = %d, want 68", len(plaintext))
	}
	if plaintext[:4] != "whk_" {
		t.Errorf("plaintext prefix = %q, want whk_", plaintext[:4])
	}
	if prefix != plaintext[:12] {
		t.Errorf("prefix = %q, want first 12 chars of plaintext", prefix)
	}
	if HashKey(plaintext) != hash {
		t.Error("HashKey(plaintext) does not match stored hash")
	}

	p2, h2, _, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey: %v", err)
	}
	if p2 == plaintext || h2 == hash {
		t.Error("two generated keys must differ")
	}
}
