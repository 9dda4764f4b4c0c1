package scheduler

import (
	"context"
	"fmt"

	"autoassist_backend/internal/crm"
	"autoassist_backend/internal/leads/repository"
	"autoassist_backend/internal/tagging"
	"autoassist_backend/platform/config"
	"autoassist_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Worker processes background CRM tasks: per-lead sync and label
// provisioning.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   *repository.Repository
	crm    *crm.Client
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, crmClient *crm.Client, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetSchedulerConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		crm:    crmClient,
		log:    log,
	}

	mux.HandleFunc(TaskCRMSyncLead, w.handleCRMSyncLead)
	mux.HandleFunc(TaskProvisionLabels, w.handleProvisionLabels)

	return w, nil
}

// Run starts the worker and blocks until shutdown.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

// Shutdown stops the worker gracefully.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

// handleCRMSyncLead mirrors one lead into the CRM: contact upsert by phone,
// custom attributes, and conversation labels. The task is idempotent; any
// step can be retried safely.
func (w *Worker) handleCRMSyncLead(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCRMSyncLeadPayload(task)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	lead, err := w.repo.GetByID(ctx, leadID)
	if err != nil {
		return err
	}

	contactID, err := w.ensureContact(ctx, lead)
	if err != nil {
		w.log.CRMSyncError("ensure_contact", lead.ID.String(), err)
		return err
	}

	if err := w.crm.UpdateContactAttributes(ctx, contactID, crm.ContactAttributes{
		LeadScore:     lead.Score,
		LeadQuality:   lead.Quality,
		InterestLevel: lead.InterestLevel,
		Urgency:       lead.Urgency,
		TimeWaster:    lead.TimeWaster,
	}); err != nil {
		w.log.CRMSyncError("update_attributes", lead.ID.String(), err)
		return err
	}

	if len(lead.Tags) > 0 {
		conversationID, err := w.ensureConversation(ctx, lead, contactID)
		if err != nil {
			w.log.CRMSyncError("ensure_conversation", lead.ID.String(), err)
			return err
		}
		if err := w.crm.SetConversationLabels(ctx, conversationID, lead.Tags); err != nil {
			w.log.CRMSyncError("set_labels", lead.ID.String(), err)
			return err
		}
	}

	w.log.Info("lead synced to crm", "leadId", lead.ID, "crmContactId", contactID)
	return nil
}

func (w *Worker) ensureContact(ctx context.Context, lead repository.Lead) (int, error) {
	if lead.CRMContactID != nil {
		return *lead.CRMContactID, nil
	}

	contact, err := w.crm.FindContactByPhone(ctx, lead.Phone)
	if err != nil {
		return 0, err
	}
	if contact == nil {
		name := lead.Phone
		if lead.Name != nil && *lead.Name != "" {
			name = *lead.Name
		}
		contact, err = w.crm.CreateContact(ctx, name, lead.Phone)
		if err != nil {
			return 0, err
		}
	}
	if contact == nil {
		// CRM integration disabled; nothing to store.
		return 0, fmt.Errorf("crm client not configured: %w", asynq.SkipRetry)
	}

	if err := w.repo.SetCRMContactID(ctx, lead.ID, contact.ID); err != nil {
		return 0, err
	}
	return contact.ID, nil
}

// ensureConversation resolves the CRM conversation that carries the lead's
// labels, creating and persisting it on first sync.
func (w *Worker) ensureConversation(ctx context.Context, lead repository.Lead, contactID int) (int, error) {
	if lead.CRMConversationID != nil {
		return *lead.CRMConversationID, nil
	}

	conversationID, err := w.crm.EnsureConversation(ctx, contactID)
	if err != nil {
		return 0, err
	}
	if err := w.repo.SetCRMConversationID(ctx, lead.ID, conversationID); err != nil {
		return 0, err
	}
	return conversationID, nil
}

// handleProvisionLabels creates every registry tag as a CRM label so staff
// can filter before the first lead ever carries the tag.
func (w *Worker) handleProvisionLabels(ctx context.Context, task *asynq.Task) error {
	for _, entry := range tagging.AllEntries() {
		err := w.crm.CreateLabel(ctx, crm.Label{
			Title:         entry.Title,
			Description:   entry.Description,
			Color:         entry.Color,
			ShowOnSidebar: entry.ShowOnSidebar,
		})
		if err != nil {
			w.log.Error("label provisioning failed", "label", entry.Title, "error", err)
			return err
		}
	}
	w.log.Info("crm labels provisioned", "count", len(tagging.AllEntries()))
	return nil
}
