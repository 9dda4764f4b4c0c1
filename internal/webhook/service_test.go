package webhook

import (
	"context"
	"errors"
	"testing"

	"autoassist_backend/internal/leads/service"
	"autoassist_backend/platform/apperr"
	"autoassist_backend/platform/logger"

	"github.com/google/uuid"
)

type recordedReply struct {
	orgID   uuid.UUID
	phone   string
	content string
}

type stubProcessor struct {
	inbound []service.InboundMessage
	replies []recordedReply
}

func (s *stubProcessor) ProcessInboundMessage(_ context.Context, in service.InboundMessage) (service.ProcessResult, error) {
	s.inbound = append(s.inbound, in)
	return service.ProcessResult{}, nil
}

func (s *stubProcessor) RecordOutboundReply(_ context.Context, orgID uuid.UUID, phone, content string) error {
	s.replies = append(s.replies, recordedReply{orgID: orgID, phone: phone, content: content})
	return nil
}

func newTestService(processor MessageProcessor) *Service {
	return NewService(nil, processor, nil, "", logger.New("test"))
}

func TestProcessInboundDelegatesSanitizedText(t *testing.T) {
	processor := &stubProcessor{}
	svc := newTestService(processor)
	orgID := uuid.New()

	payload := InboundPayload{
		SenderID: "31612345678@s.whatsapp.net",
		ChatID:   "31612345678@s.whatsapp.net",
		Message:  &PayloadMessage{Text: "<b>Wat kost</b> de Golf?"},
	}

	if _, err := svc.ProcessInbound(context.Background(), payload, orgID); err != nil {
		t.Fatalf("ProcessInbound: %v", err)
	}
	if len(processor.inbound) != 1 {
		t.Fatalf("inbound messages = %d, want 1", len(processor.inbound))
	}
	got := processor.inbound[0]
	if got.Phone != "+31612345678" {
		t.Errorf("phone = %q, want +31612345678", got.Phone)
	}
	if got.Content != "Wat kost de Golf?" {
		t.Errorf("content = %q, want sanitized text", got.Content)
	}
}

func TestRecordReplyUsesChatPhone(t *testing.T) {
	processor := &stubProcessor{}
	svc := newTestService(processor)
	orgID := uuid.New()

	// For from_me deliveries the sender is the dealership device; the chat
	// side identifies the customer.
	payload := InboundPayload{
		SenderID: "31699999999:12@s.whatsapp.net",
		ChatID:   "31612345678@s.whatsapp.net",
		FromMe:   true,
		Message:  &PayloadMessage{Text: "De Golf 8 staat nog in de showroom."},
	}

	if err := svc.RecordReply(context.Background(), payload, orgID); err != nil {
		t.Fatalf("RecordReply: %v", err)
	}
	if len(processor.inbound) != 0 {
		t.Errorf("reply must not be scored as an inbound message")
	}
	if len(processor.replies) != 1 {
		t.Fatalf("replies = %d, want 1", len(processor.replies))
	}
	got := processor.replies[0]
	if got.orgID != orgID {
		t.Errorf("orgID = %s, want %s", got.orgID, orgID)
	}
	if got.phone != "+31612345678" {
		t.Errorf("phone = %q, want chat-side number", got.phone)
	}
	if got.content != "De Golf 8 staat nog in de showroom." {
		t.Errorf("content = %q", got.content)
	}
}

func TestRecordReplyRejectsGroupChat(t *testing.T) {
	svc := newTestService(&stubProcessor{})

	payload := InboundPayload{
		SenderID: "31699999999@s.whatsapp.net",
		ChatID:   "123456789-987654@g.us",
		FromMe:   true,
		Message:  &PayloadMessage{Text: "groepsbericht"},
	}

	err := svc.RecordReply(context.Background(), payload, uuid.New())
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("err = %v, want validation error for group chat", err)
	}
}

func TestRecordReplyRejectsEmptyText(t *testing.T) {
	svc := newTestService(&stubProcessor{})

	payload := InboundPayload{
		SenderID: "31699999999@s.whatsapp.net",
		ChatID:   "31612345678@s.whatsapp.net",
		FromMe:   true,
	}

	err := svc.RecordReply(context.Background(), payload, uuid.New())
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("err = %v, want validation error for empty reply", err)
	}
}
