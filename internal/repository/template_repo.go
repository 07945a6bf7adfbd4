package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dsgov-acme/devstream-notification-service/internal/model"
)

type TemplateRepository struct {
	db *pgxpool.Pool
}

func NewTemplateRepository(db *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Upsert creates or overwrites the template row for t.Key. Formats are
// replaced wholesale.
func (r *TemplateRepository) Upsert(ctx context.Context, t *model.Template) error {
	query := `
        INSERT INTO templates (key, version, status, name, description, parameters, layout_key, sms_format, email_format, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (key) DO UPDATE SET
            version = EXCLUDED.version,
            status = EXCLUDED.status,
            name = EXCLUDED.name,
            description = EXCLUDED.description,
            parameters = EXCLUDED.parameters,
            layout_key = EXCLUDED.layout_key,
            sms_format = EXCLUDED.sms_format,
            email_format = EXCLUDED.email_format,
            updated_at = EXCLUDED.updated_at
    `
	_, err := r.db.Exec(ctx, query,
		t.Key, t.Version, t.Status, t.Name, t.Description,
		t.Parameters, t.LayoutKey, t.Sms, t.Email,
		t.CreatedTimestamp, t.LastUpdatedTimestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert template %s: %w", t.Key, err)
	}
	return nil
}

// GetByKey returns the template for key, or nil when absent.
func (r *TemplateRepository) GetByKey(ctx context.Context, key string) (*model.Template, error) {
	query := `
        SELECT key, version, status, name, description, parameters, layout_key, sms_format, email_format, created_at, updated_at
        FROM templates
        WHERE key = $1
    `
	t, err := scanTemplate(r.db.QueryRow(ctx, query, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// ListAll returns every stored template in store order.
func (r *TemplateRepository) ListAll(ctx context.Context) ([]*model.Template, error) {
	query := `
        SELECT key, version, status, name, description, parameters, layout_key, sms_format, email_format, created_at, updated_at
        FROM templates
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var templates []*model.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func scanTemplate(row pgx.Row) (*model.Template, error) {
	var t model.Template
	err := row.Scan(
		&t.Key, &t.Version, &t.Status, &t.Name, &t.Description,
		&t.Parameters, &t.LayoutKey, &t.Sms, &t.Email,
		&t.CreatedTimestamp, &t.LastUpdatedTimestamp,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
