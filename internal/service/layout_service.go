package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dsgov-acme/devstream-notification-service/internal/errs"
	"github.com/dsgov-acme/devstream-notification-service/internal/model"
	"github.com/dsgov-acme/devstream-notification-service/internal/render"
)

// EmailLayoutService manages email layouts. Creation enforces that every
// placeholder referenced by the layout content is declared among its
// inputs.
type EmailLayoutService struct {
	layouts LayoutStore
}

func NewEmailLayoutService(layouts LayoutStore) *EmailLayoutService {
	return &EmailLayoutService{layouts: layouts}
}

// CreateOrUpdate upserts the layout under key after validating its content
// against the declared inputs. Undeclared placeholders abort with BadData
// naming the missing inputs.
func (s *EmailLayoutService) CreateOrUpdate(ctx context.Context, key string, layout *model.EmailLayout) (*model.EmailLayout, error) {
	variables, err := render.ExtractVariables(layout.Content)
	if err != nil {
		return nil, err
	}

	missing := missingInputs(variables, layout.Inputs)
	if len(missing) > 0 {
		return nil, errs.BadData("these inputs are not defined: %s", fmt.Sprint(missing))
	}

	now := time.Now().UTC()
	layout.Key = key
	layout.Status = draftStatus
	layout.CreatedTimestamp = now
	layout.LastUpdatedTimestamp = now

	existing, err := s.layouts.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		layout.CreatedTimestamp = existing.CreatedTimestamp
		layout.Version = existing.Version
	}

	if err := s.layouts.Upsert(ctx, layout); err != nil {
		return nil, err
	}
	return layout, nil
}

// Get returns the layout for key.
func (s *EmailLayoutService) Get(ctx context.Context, key string) (*model.EmailLayout, error) {
	layout, err := s.layouts.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if layout == nil {
		return nil, errs.NotFound("email layout %s not found", key)
	}
	return layout, nil
}

func missingInputs(variables map[string]struct{}, inputs []string) []string {
	declared := make(map[string]struct{}, len(inputs))
	for _, input := range inputs {
		declared[input] = struct{}{}
	}

	var missing []string
	for variable := range variables {
		if _, ok := declared[variable]; !ok {
			missing = append(missing, variable)
		}
	}
	return missing
}
