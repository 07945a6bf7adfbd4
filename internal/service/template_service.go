package service

import (
	"context"
	"time"

	"github.com/dsgov-acme/devstream-notification-service/internal/errs"
	"github.com/dsgov-acme/devstream-notification-service/internal/model"
)

const draftStatus = "DRAFT"

// TemplateService manages notification templates. Updates overwrite the
// row for the same key; the version field is carried along but no history
// is kept.
type TemplateService struct {
	templates TemplateStore
}

func NewTemplateService(templates TemplateStore) *TemplateService {
	return &TemplateService{templates: templates}
}

// CreateOrUpdate upserts the template under key. Formats are replaced
// wholesale; an existing row keeps its creation timestamp.
func (s *TemplateService) CreateOrUpdate(ctx context.Context, key string, tpl *model.Template) (*model.Template, error) {
	now := time.Now().UTC()

	tpl.Key = key
	tpl.Status = draftStatus
	tpl.CreatedTimestamp = now
	tpl.LastUpdatedTimestamp = now

	existing, err := s.templates.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		tpl.CreatedTimestamp = existing.CreatedTimestamp
		tpl.Version = existing.Version
	}

	if err := s.templates.Upsert(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// Get returns the template for key.
func (s *TemplateService) Get(ctx context.Context, key string) (*model.Template, error) {
	tpl, err := s.templates.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, errs.NotFound("template %s not found", key)
	}
	return tpl, nil
}
