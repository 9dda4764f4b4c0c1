package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID                uuid.UUID
	OrganizationID    uuid.UUID
	Phone             string
	Name              *string
	Score             int
	Quality           string
	InterestLevel     string
	Urgency           string
	TimeWaster        bool
	ScoreBreakdown    map[string]int
	Tags              []string
	CRMContactID      *int
	CRMConversationID *int
	EscalationType    *string
	EscalatedAt       *time.Time
	LastMessageAt     *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

const leadColumns = `id, organization_id, phone, name, score, quality, interest_level, urgency,
	time_waster, score_breakdown, tags, crm_contact_id, crm_conversation_id,
	escalation_type, escalated_at, last_message_at, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.OrganizationID, &lead.Phone, &lead.Name, &lead.Score,
		&lead.Quality, &lead.InterestLevel, &lead.Urgency, &lead.TimeWaster,
		&lead.ScoreBreakdown, &lead.Tags, &lead.CRMContactID, &lead.CRMConversationID,
		&lead.EscalationType, &lead.EscalatedAt, &lead.LastMessageAt,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// UpsertByPhone finds or creates the lead for a phone number within an
// organization. The phone must already be normalized to E.164. A fresh lead
// starts COLD with zero score; existing leads keep their scoring state.
func (r *Repository) UpsertByPhone(ctx context.Context, orgID uuid.UUID, phone string, name *string) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		INSERT INTO leads (organization_id, phone, name, score, quality, interest_level, urgency)
		VALUES ($1, $2, $3, 0, 'COLD', 'browsing', 'low')
		ON CONFLICT (organization_id, phone) DO UPDATE
		SET name = COALESCE(EXCLUDED.name, leads.name),
			updated_at = now()
		RETURNING `+leadColumns,
		orgID, phone, name))
}

// GetByID returns a single lead.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
}

// GetByPhone returns the lead for a normalized E.164 phone number within an
// organization.
func (r *Repository) GetByPhone(ctx context.Context, orgID uuid.UUID, phone string) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads WHERE organization_id = $1 AND phone = $2`, orgID, phone))
}

// ListParams filters the lead listing.
type ListParams struct {
	OrganizationID uuid.UUID
	Quality        string
	MinScore       int
	Limit          int
	Offset         int
}

// List returns leads for an organization ordered by score, hottest first.
func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, error) {
	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE organization_id = $1
			AND ($2 = '' OR quality = $2)
			AND score >= $3
		ORDER BY score DESC, last_message_at DESC NULLS LAST
		LIMIT $4 OFFSET $5
	`, params.OrganizationID, params.Quality, params.MinScore, limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// ScoreUpdate carries the result of one scoring pass.
type ScoreUpdate struct {
	Score          int
	Quality        string
	InterestLevel  string
	Urgency        string
	TimeWaster     bool
	ScoreBreakdown map[string]int
	Tags           []string
}

// UpdateScore persists a scoring pass and bumps last_message_at.
func (r *Repository) UpdateScore(ctx context.Context, id uuid.UUID, update ScoreUpdate) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads
		SET score = $2, quality = $3, interest_level = $4, urgency = $5,
			time_waster = $6, score_breakdown = $7, tags = $8,
			last_message_at = now(), updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		id, update.Score, update.Quality, update.InterestLevel, update.Urgency,
		update.TimeWaster, update.ScoreBreakdown, update.Tags))
}

// SetCRMContactID stores the CRM contact identifier after a successful sync.
func (r *Repository) SetCRMContactID(ctx context.Context, id uuid.UUID, contactID int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET crm_contact_id = $2, updated_at = now()
		WHERE id = $1
	`, id, contactID)
	return err
}

// SetCRMConversationID stores the CRM conversation identifier once known.
func (r *Repository) SetCRMConversationID(ctx context.Context, id uuid.UUID, conversationID int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET crm_conversation_id = $2, updated_at = now()
		WHERE id = $1
	`, id, conversationID)
	return err
}

// MarkEscalated records an escalation. Only the first escalation per lead is
// kept; repeated escalations refresh the type but not the timestamp.
func (r *Repository) MarkEscalated(ctx context.Context, id uuid.UUID, escalationType string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET escalation_type = $2,
			escalated_at = COALESCE(escalated_at, now()),
			updated_at = now()
		WHERE id = $1
	`, id, escalationType)
	return err
}
