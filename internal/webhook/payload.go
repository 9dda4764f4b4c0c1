package webhook

import (
	"strings"
)

// InboundPayload is the webhook body posted by the WhatsApp gateway for an
// incoming message. Unknown fields are ignored so gateway upgrades that add
// fields do not break ingestion.
type InboundPayload struct {
	SenderID  string          `json:"sender_id"`
	ChatID    string          `json:"chat_id"`
	Pushname  string          `json:"pushname"`
	Timestamp string          `json:"timestamp"`
	FromMe    bool            `json:"from_me"`
	Message   *PayloadMessage `json:"message"`
	Image     *PayloadMedia   `json:"image"`
	Audio     *PayloadMedia   `json:"audio"`
	Video     *PayloadMedia   `json:"video"`
	Document  *PayloadMedia   `json:"document"`
}

// PayloadMessage carries the text portion of an inbound message.
type PayloadMessage struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// PayloadMedia carries an inline media attachment. Data is base64 encoded.
type PayloadMedia struct {
	Caption  string `json:"caption"`
	MimeType string `json:"mime_type"`
	FileName string `json:"file_name"`
	Data     string `json:"data"`
}

// SenderPhone extracts the sender's phone number from the gateway sender ID.
// The gateway sends JID-style identifiers like "31612345678@s.whatsapp.net";
// plain numbers pass through. Group and broadcast JIDs yield "".
func (p InboundPayload) SenderPhone() string {
	return phoneFromJID(p.SenderID)
}

// ChatPhone extracts the customer's phone number from the chat ID. For
// from_me deliveries the sender is the dealership's own device, so the chat
// side identifies the customer.
func (p InboundPayload) ChatPhone() string {
	return phoneFromJID(p.ChatID)
}

func phoneFromJID(jid string) string {
	id := strings.TrimSpace(jid)
	if id == "" {
		return ""
	}
	if at := strings.IndexByte(id, '@'); at >= 0 {
		domain := id[at+1:]
		if domain != "s.whatsapp.net" && domain != "c.us" {
			return ""
		}
		id = id[:at]
	}
	// Device suffixes look like "31612345678:12".
	if colon := strings.IndexByte(id, ':'); colon >= 0 {
		id = id[:colon]
	}
	if id == "" || !allDigits(strings.TrimPrefix(id, "+")) {
		return ""
	}
	if !strings.HasPrefix(id, "+") {
		id = "+" + id
	}
	return id
}

// SenderName returns the WhatsApp push name, if any.
func (p InboundPayload) SenderName() *string {
	name := strings.TrimSpace(p.Pushname)
	if name == "" {
		return nil
	}
	return &name
}

// Text returns the message text, falling back to the media caption when the
// message itself is empty (media-only sends carry their text as a caption).
func (p InboundPayload) Text() string {
	if p.Message != nil {
		if text := strings.TrimSpace(p.Message.Text); text != "" {
			return text
		}
	}
	if media := p.Media(); media != nil {
		return strings.TrimSpace(media.Caption)
	}
	return ""
}

// Media returns the first attachment carrying inline data, or nil.
func (p InboundPayload) Media() *PayloadMedia {
	for _, m := range []*PayloadMedia{p.Image, p.Video, p.Audio, p.Document} {
		if m != nil && m.Data != "" {
			return m
		}
	}
	return nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
