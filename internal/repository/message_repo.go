package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dsgov-acme/devstream-notification-service/internal/model"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Insert persists a new message row. Messages are never deleted by this
// service.
func (r *MessageRepository) Insert(ctx context.Context, m *model.Message) error {
	query := `
        INSERT INTO messages (id, user_id, template_key, status, parameters, requested_at, sent_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.db.Exec(ctx, query,
		m.ID, m.UserID, m.MessageTemplateKey, m.Status,
		m.Parameters, m.RequestedTimestamp, m.SentTimestamp,
	)
	return err
}

// GetByID returns the message for id, or nil when absent.
func (r *MessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	query := `
        SELECT id, user_id, template_key, status, parameters, requested_at, sent_at
        FROM messages
        WHERE id = $1
    `
	var m model.Message
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.UserID, &m.MessageTemplateKey, &m.Status,
		&m.Parameters, &m.RequestedTimestamp, &m.SentTimestamp,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateStatus moves a message to a terminal status. The sent timestamp is
// recorded only for SENT.
func (r *MessageRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	var sentAt *time.Time
	if status == model.StatusSent {
		now := time.Now().UTC()
		sentAt = &now
	}
	query := `
        UPDATE messages
        SET status = $1, sent_at = COALESCE($2, sent_at)
        WHERE id = $3
    `
	_, err := r.db.Exec(ctx, query, status, sentAt, id)
	return err
}
