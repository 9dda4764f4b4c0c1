package webhook

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"autoassist_backend/internal/adapters/storage"
	"autoassist_backend/internal/leads/service"
	"autoassist_backend/platform/apperr"
	"autoassist_backend/platform/logger"
	"autoassist_backend/platform/phone"
	"autoassist_backend/platform/sanitize"

	"github.com/google/uuid"
)

const whatsappSource = "whatsapp"

// MessageProcessor runs the scoring pipeline for one inbound message and
// records the assistant's own replies. Satisfied by the leads service.
type MessageProcessor interface {
	ProcessInboundMessage(ctx context.Context, in service.InboundMessage) (service.ProcessResult, error)
	RecordOutboundReply(ctx context.Context, orgID uuid.UUID, phone, content string) error
}

// InboundResponse is returned to the gateway after a message is processed.
type InboundResponse struct {
	LeadID     uuid.UUID `json:"leadId"`
	Score      int       `json:"leadScore"`
	Quality    string    `json:"leadQuality"`
	TimeWaster bool      `json:"timeWaster"`
	Tags       []string  `json:"tags"`
	Escalated  bool      `json:"escalated"`
}

// Service handles inbound WhatsApp webhook deliveries.
type Service struct {
	repo          *Repository
	processor     MessageProcessor
	storageSvc    storage.StorageService
	storageBucket string
	log           *logger.Logger
}

// NewService creates a new webhook service. storageSvc may be nil, in which
// case inline media is dropped and only the caption text is processed.
func NewService(repo *Repository, processor MessageProcessor, storageSvc storage.StorageService, storageBucket string, log *logger.Logger) *Service {
	return &Service{
		repo:          repo,
		processor:     processor,
		storageSvc:    storageSvc,
		storageBucket: storageBucket,
		log:           log,
	}
}

// ProcessInbound validates an inbound WhatsApp payload, stores any media
// attachment, and hands the message to the scoring pipeline.
func (s *Service) ProcessInbound(ctx context.Context, payload InboundPayload, orgID uuid.UUID) (InboundResponse, error) {
	sender := payload.SenderPhone()
	if sender == "" {
		s.log.WebhookEvent(whatsappSource, payload.SenderID, false, "unrecognized sender id")
		return InboundResponse{}, apperr.Validation("sender is not an individual WhatsApp number")
	}

	text := sanitize.Text(payload.Text())
	media := payload.Media()
	if text == "" && media == nil {
		s.log.WebhookEvent(whatsappSource, sender, false, "empty message")
		return InboundResponse{}, apperr.Validation("message has no content")
	}

	mediaKey := s.storeMedia(ctx, orgID, sender, media)

	result, err := s.processor.ProcessInboundMessage(ctx, service.InboundMessage{
		OrganizationID: orgID,
		Phone:          sender,
		Name:           payload.SenderName(),
		Content:        text,
		MediaKey:       mediaKey,
	})
	if err != nil {
		s.log.WebhookEvent(whatsappSource, sender, false, err.Error())
		return InboundResponse{}, err
	}

	s.log.WebhookEvent(whatsappSource, sender, true, "")
	return InboundResponse{
		LeadID:     result.Lead.ID,
		Score:      result.Score.Score,
		Quality:    result.Score.Quality,
		TimeWaster: result.TimeWaster,
		Tags:       result.Tags,
		Escalated:  result.Escalation != nil,
	}, nil
}

// RecordReply stores a device-sent (from_me) delivery as an assistant turn
// so later scoring passes see both sides of the conversation.
func (s *Service) RecordReply(ctx context.Context, payload InboundPayload, orgID uuid.UUID) error {
	recipient := payload.ChatPhone()
	if recipient == "" {
		s.log.WebhookEvent(whatsappSource, payload.ChatID, false, "unrecognized chat id")
		return apperr.Validation("chat is not an individual WhatsApp number")
	}

	text := sanitize.Text(payload.Text())
	if text == "" {
		return apperr.Validation("reply has no text")
	}

	if err := s.processor.RecordOutboundReply(ctx, orgID, recipient, text); err != nil {
		s.log.WebhookEvent(whatsappSource, recipient, false, err.Error())
		return err
	}
	return nil
}

// storeMedia uploads an inline attachment and returns its object key.
// Media failures never block message processing; the text still scores.
func (s *Service) storeMedia(ctx context.Context, orgID uuid.UUID, sender string, media *PayloadMedia) *string {
	if media == nil || s.storageSvc == nil {
		return nil
	}

	data, err := base64.StdEncoding.DecodeString(media.Data)
	if err != nil {
		s.log.Warn("webhook: media payload is not valid base64", "sender", sender, "error", err)
		return nil
	}
	if err := s.storageSvc.ValidateContentType(media.MimeType); err != nil {
		s.log.Warn("webhook: media content type rejected", "sender", sender, "contentType", media.MimeType)
		return nil
	}
	if err := s.storageSvc.ValidateFileSize(int64(len(data))); err != nil {
		s.log.Warn("webhook: media too large", "sender", sender, "sizeBytes", len(data))
		return nil
	}

	folder := fmt.Sprintf("%s/%s", orgID, phone.Digits(sender))
	fileName := media.FileName
	if fileName == "" {
		fileName = "attachment"
	}

	key, err := s.storageSvc.UploadFile(ctx, s.storageBucket, folder, fileName, media.MimeType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		s.log.Error("webhook: media upload failed", "sender", sender, "error", err)
		return nil
	}
	return &key
}
