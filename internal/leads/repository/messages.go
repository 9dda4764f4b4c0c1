package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Message is one stored conversation turn.
type Message struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	Role      string // "user" or "assistant"
	Content   string
	MediaKey  *string
	CreatedAt time.Time
}

// AppendMessage stores a conversation turn for a lead.
func (r *Repository) AppendMessage(ctx context.Context, leadID uuid.UUID, role, content string, mediaKey *string) (Message, error) {
	var msg Message
	err := r.pool.QueryRow(ctx, `
		INSERT INTO conversation_messages (lead_id, role, content, media_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, lead_id, role, content, media_key, created_at
	`, leadID, role, content, mediaKey).Scan(
		&msg.ID, &msg.LeadID, &msg.Role, &msg.Content, &msg.MediaKey, &msg.CreatedAt,
	)
	return msg, err
}

// GetMessage returns one conversation turn, scoped to the lead it belongs to.
func (r *Repository) GetMessage(ctx context.Context, leadID, messageID uuid.UUID) (Message, error) {
	var msg Message
	err := r.pool.QueryRow(ctx, `
		SELECT id, lead_id, role, content, media_key, created_at
		FROM conversation_messages
		WHERE id = $1 AND lead_id = $2
	`, messageID, leadID).Scan(
		&msg.ID, &msg.LeadID, &msg.Role, &msg.Content, &msg.MediaKey, &msg.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Message{}, ErrNotFound
	}
	return msg, err
}

// RecentMessages returns the last limit turns for a lead, oldest first.
func (r *Repository) RecentMessages(ctx context.Context, leadID uuid.UUID, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, role, content, media_key, created_at
		FROM (
			SELECT id, lead_id, role, content, media_key, created_at
			FROM conversation_messages
			WHERE lead_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`, leadID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]Message, 0, limit)
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.LeadID, &msg.Role, &msg.Content, &msg.MediaKey, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// ListMessages returns up to limit turns for a lead ordered oldest first,
// for the staff conversation view.
func (r *Repository) ListMessages(ctx context.Context, leadID uuid.UUID, limit, offset int) ([]Message, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, role, content, media_key, created_at
		FROM conversation_messages
		WHERE lead_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`, leadID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]Message, 0)
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.LeadID, &msg.Role, &msg.Content, &msg.MediaKey, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
