// Package service orchestrates lead scoring for inbound WhatsApp messages:
// persistence, history retrieval, scoring, tagging, escalation, and CRM
// sync scheduling.
package service

import (
	"context"
	"errors"
	"fmt"

	"autoassist_backend/internal/events"
	"autoassist_backend/internal/leads/repository"
	"autoassist_backend/internal/scoring"
	"autoassist_backend/internal/tagging"
	"autoassist_backend/platform/apperr"
	"autoassist_backend/platform/logger"
	"autoassist_backend/platform/phone"

	"github.com/google/uuid"
)

// ConversationCache provides fast access to the recent conversation window.
// Implementations fall back to the database when the cache is cold.
type ConversationCache interface {
	History(ctx context.Context, leadID uuid.UUID) ([]scoring.Turn, error)
	Append(ctx context.Context, leadID uuid.UUID, turn scoring.Turn) error
}

// TaskEnqueuer schedules background work.
type TaskEnqueuer interface {
	EnqueueCRMSync(ctx context.Context, leadID uuid.UUID) error
}

// Service is the lead scoring application service.
type Service struct {
	repo   *repository.Repository
	cache  ConversationCache
	tasks  TaskEnqueuer
	bus    events.Bus
	engine *scoring.Engine
	log    *logger.Logger
}

// New creates the leads service. cache and tasks may be nil; both degrade
// gracefully (history falls back to the database, CRM sync is skipped).
func New(repo *repository.Repository, cache ConversationCache, tasks TaskEnqueuer, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		tasks:  tasks,
		bus:    bus,
		engine: scoring.NewEngine(),
		log:    log,
	}
}

// InboundMessage is one inbound WhatsApp message to process.
type InboundMessage struct {
	OrganizationID uuid.UUID
	Phone          string
	Name           *string
	Content        string
	MediaKey       *string
	Extraction     *scoring.Extraction
}

// ProcessResult is the outcome of processing one inbound message.
type ProcessResult struct {
	Lead       repository.Lead
	Score      scoring.Result
	Tags       []string
	TimeWaster bool
	Escalation *scoring.EscalationDecision
}

// ProcessInboundMessage runs the full scoring pipeline for one message:
// upsert the lead by phone, score against the recent conversation window,
// derive tags, evaluate escalation, persist, and schedule a CRM sync.
func (s *Service) ProcessInboundMessage(ctx context.Context, in InboundMessage) (ProcessResult, error) {
	normalized := phone.NormalizeE164(in.Phone)
	if normalized == "" {
		return ProcessResult{}, apperr.Validation("phone number is required")
	}

	lead, err := s.repo.UpsertByPhone(ctx, in.OrganizationID, normalized, in.Name)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("upsert lead: %w", err)
	}

	history := s.history(ctx, lead.ID)

	result, update := s.scorePass(in.Content, in.Extraction, history)

	msg, err := s.repo.AppendMessage(ctx, lead.ID, "user", in.Content, in.MediaKey)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("append message: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Append(ctx, lead.ID, scoring.Turn{Role: "user", Content: in.Content}); err != nil {
			s.log.Warn("conversation cache append failed", "leadId", lead.ID, "error", err)
		}
	}

	lead, err = s.repo.UpdateScore(ctx, lead.ID, update.scoreUpdate)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("update score: %w", err)
	}

	s.bus.Publish(ctx, events.InboundMessageStored{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		MessageID: msg.ID,
		Phone:     lead.Phone,
		Content:   in.Content,
		MediaKey:  derefString(in.MediaKey),
	})
	s.publishScored(ctx, lead, result, update)

	if update.escalation != nil {
		if err := s.repo.MarkEscalated(ctx, lead.ID, update.escalation.EscalationType); err != nil {
			s.log.Error("failed to mark lead escalated", "leadId", lead.ID, "error", err)
		}
		s.bus.Publish(ctx, events.LeadEscalated{
			BaseEvent:      events.NewBaseEvent(),
			LeadID:         lead.ID,
			Phone:          lead.Phone,
			EscalationType: update.escalation.EscalationType,
			Score:          result.Score,
			Quality:        result.Quality,
			Message:        in.Content,
		})
	}

	s.scheduleCRMSync(ctx, lead.ID)

	s.log.LeadScored(lead.ID.String(), result.Score, result.Quality, update.timeWaster)

	return ProcessResult{
		Lead:       lead,
		Score:      result,
		Tags:       update.tags,
		TimeWaster: update.timeWaster,
		Escalation: update.escalation,
	}, nil
}

// Rescore re-runs the scoring pipeline over the stored conversation,
// treating the latest customer message as the current one. Used after
// keyword table updates or manual corrections.
func (s *Service) Rescore(ctx context.Context, leadID uuid.UUID) (ProcessResult, error) {
	lead, err := s.GetLead(ctx, leadID)
	if err != nil {
		return ProcessResult{}, err
	}

	messages, err := s.repo.RecentMessages(ctx, leadID, 11)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("load messages: %w", err)
	}

	var latest string
	history := make([]scoring.Turn, 0, len(messages))
	lastUser := -1
	for i, m := range messages {
		if m.Role == "user" {
			lastUser = i
		}
	}
	for i, m := range messages {
		if i == lastUser {
			latest = m.Content
			continue
		}
		history = append(history, scoring.Turn{Role: m.Role, Content: m.Content})
	}
	if lastUser == -1 {
		return ProcessResult{}, apperr.Conflict("lead has no customer messages to rescore")
	}

	result, update := s.scorePass(latest, nil, history)

	lead, err = s.repo.UpdateScore(ctx, lead.ID, update.scoreUpdate)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("update score: %w", err)
	}

	s.publishScored(ctx, lead, result, update)
	s.scheduleCRMSync(ctx, lead.ID)

	return ProcessResult{
		Lead:       lead,
		Score:      result,
		Tags:       update.tags,
		TimeWaster: update.timeWaster,
		Escalation: update.escalation,
	}, nil
}

// GetLead returns a single lead.
func (s *Service) GetLead(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, err
}

// ListLeads returns leads matching the filter.
func (s *Service) ListLeads(ctx context.Context, params repository.ListParams) ([]repository.Lead, error) {
	return s.repo.List(ctx, params)
}

// ListMessages returns the stored conversation for a lead.
func (s *Service) ListMessages(ctx context.Context, leadID uuid.UUID, limit, offset int) ([]repository.Message, error) {
	if _, err := s.GetLead(ctx, leadID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, leadID, limit, offset)
}

// GetMessage returns one stored conversation turn for a lead.
func (s *Service) GetMessage(ctx context.Context, leadID, messageID uuid.UUID) (repository.Message, error) {
	msg, err := s.repo.GetMessage(ctx, leadID, messageID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Message{}, apperr.NotFound("message not found")
	}
	return msg, err
}

// RecordOutboundReply stores an assistant reply addressed to a customer's
// phone number. The gateway reports the assistant's own sends back on the
// webhook; replies to numbers without a lead are dropped, a reply alone
// must never create one.
func (s *Service) RecordOutboundReply(ctx context.Context, orgID uuid.UUID, phoneNumber, content string) error {
	normalized := phone.NormalizeE164(phoneNumber)
	if normalized == "" {
		return apperr.Validation("phone number is required")
	}

	lead, err := s.repo.GetByPhone(ctx, orgID, normalized)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("assistant reply for unknown lead dropped", "phone", normalized)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load lead: %w", err)
	}

	return s.RecordAssistantReply(ctx, lead.ID, content)
}

// RecordAssistantReply stores an outbound assistant turn so later scoring
// passes see the full conversation.
func (s *Service) RecordAssistantReply(ctx context.Context, leadID uuid.UUID, content string) error {
	if _, err := s.repo.AppendMessage(ctx, leadID, "assistant", content, nil); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Append(ctx, leadID, scoring.Turn{Role: "assistant", Content: content}); err != nil {
			s.log.Warn("conversation cache append failed", "leadId", leadID, "error", err)
		}
	}
	return nil
}

// scoreOutcome bundles everything one scoring pass derives from a message.
type scoreOutcome struct {
	scoreUpdate repository.ScoreUpdate
	tags        []string
	timeWaster  bool
	escalation  *scoring.EscalationDecision
}

func (s *Service) scorePass(message string, extraction *scoring.Extraction, history []scoring.Turn) (scoring.Result, scoreOutcome) {
	result := s.engine.CalculateScore(scoring.Input{
		Message:    message,
		Extraction: extraction,
		History:    history,
	})
	timeWaster := scoring.IsTimeWaster(message, history)
	escalation := EvaluateEscalation(message, result)

	var expertise *scoring.ExpertiseOutput
	if escalation != nil {
		expertise = &scoring.ExpertiseOutput{Escalation: escalation}
	}
	tags := tagging.GenerateTags(message, result, expertise, history)

	return result, scoreOutcome{
		scoreUpdate: repository.ScoreUpdate{
			Score:          result.Score,
			Quality:        result.Quality,
			InterestLevel:  result.Interest,
			Urgency:        result.Urgency,
			TimeWaster:     timeWaster,
			ScoreBreakdown: result.Breakdown,
			Tags:           tags,
		},
		tags:       tags,
		timeWaster: timeWaster,
		escalation: escalation,
	}
}

func (s *Service) history(ctx context.Context, leadID uuid.UUID) []scoring.Turn {
	if s.cache != nil {
		turns, err := s.cache.History(ctx, leadID)
		if err == nil && len(turns) > 0 {
			return turns
		}
		if err != nil {
			s.log.Warn("conversation cache read failed", "leadId", leadID, "error", err)
		}
	}

	messages, err := s.repo.RecentMessages(ctx, leadID, 10)
	if err != nil {
		s.log.Error("failed to load conversation history", "leadId", leadID, "error", err)
		return nil
	}
	turns := make([]scoring.Turn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, scoring.Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}

func (s *Service) publishScored(ctx context.Context, lead repository.Lead, result scoring.Result, update scoreOutcome) {
	s.bus.Publish(ctx, events.LeadScored{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		Phone:      lead.Phone,
		Score:      result.Score,
		Quality:    result.Quality,
		Interest:   result.Interest,
		Urgency:    result.Urgency,
		TimeWaster: update.timeWaster,
		Tags:       update.tags,
		Breakdown:  result.Breakdown,
	})
}

func (s *Service) scheduleCRMSync(ctx context.Context, leadID uuid.UUID) {
	if s.tasks == nil {
		return
	}
	if err := s.tasks.EnqueueCRMSync(ctx, leadID); err != nil {
		s.log.CRMSyncError("enqueue", leadID.String(), err)
		return
	}
	s.bus.Publish(ctx, events.CRMSyncRequested{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
	})
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
