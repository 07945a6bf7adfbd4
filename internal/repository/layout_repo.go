package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dsgov-acme/devstream-notification-service/internal/model"
)

type EmailLayoutRepository struct {
	db *pgxpool.Pool
}

func NewEmailLayoutRepository(db *pgxpool.Pool) *EmailLayoutRepository {
	return &EmailLayoutRepository{db: db}
}

// Upsert creates or overwrites the layout row for l.Key.
func (r *EmailLayoutRepository) Upsert(ctx context.Context, l *model.EmailLayout) error {
	query := `
        INSERT INTO email_layouts (key, name, description, version, status, content, inputs, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (key) DO UPDATE SET
            name = EXCLUDED.name,
            description = EXCLUDED.description,
            version = EXCLUDED.version,
            status = EXCLUDED.status,
            content = EXCLUDED.content,
            inputs = EXCLUDED.inputs,
            updated_at = EXCLUDED.updated_at
    `
	_, err := r.db.Exec(ctx, query,
		l.Key, l.Name, l.Description, l.Version, l.Status,
		l.Content, l.Inputs, l.CreatedTimestamp, l.LastUpdatedTimestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert email layout %s: %w", l.Key, err)
	}
	return nil
}

// GetByKey returns the layout for key, or nil when absent.
func (r *EmailLayoutRepository) GetByKey(ctx context.Context, key string) (*model.EmailLayout, error) {
	query := `
        SELECT key, name, description, version, status, content, inputs, created_at, updated_at
        FROM email_layouts
        WHERE key = $1
    `
	var l model.EmailLayout
	err := r.db.QueryRow(ctx, query, key).Scan(
		&l.Key, &l.Name, &l.Description, &l.Version, &l.Status,
		&l.Content, &l.Inputs, &l.CreatedTimestamp, &l.LastUpdatedTimestamp,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}
