package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dsgov-acme/devstream-notification-service/internal/model"
	"github.com/dsgov-acme/devstream-notification-service/internal/userdir"
)

type fakeTemplateStore struct {
	templates map[string]*model.Template
	upserts   []*model.Template
}

func newFakeTemplateStore(templates ...*model.Template) *fakeTemplateStore {
	store := &fakeTemplateStore{templates: make(map[string]*model.Template)}
	for _, tpl := range templates {
		store.templates[tpl.Key] = tpl
	}
	return store
}

func (s *fakeTemplateStore) GetByKey(_ context.Context, key string) (*model.Template, error) {
	return s.templates[key], nil
}

func (s *fakeTemplateStore) ListAll(_ context.Context) ([]*model.Template, error) {
	all := make([]*model.Template, 0, len(s.templates))
	for _, tpl := range s.templates {
		all = append(all, tpl)
	}
	return all, nil
}

func (s *fakeTemplateStore) Upsert(_ context.Context, tpl *model.Template) error {
	s.templates[tpl.Key] = tpl
	s.upserts = append(s.upserts, tpl)
	return nil
}

type fakeLayoutStore struct {
	layouts map[string]*model.EmailLayout
}

func newFakeLayoutStore(layouts ...*model.EmailLayout) *fakeLayoutStore {
	store := &fakeLayoutStore{layouts: make(map[string]*model.EmailLayout)}
	for _, layout := range layouts {
		store.layouts[layout.Key] = layout
	}
	return store
}

func (s *fakeLayoutStore) GetByKey(_ context.Context, key string) (*model.EmailLayout, error) {
	return s.layouts[key], nil
}

func (s *fakeLayoutStore) Upsert(_ context.Context, layout *model.EmailLayout) error {
	s.layouts[layout.Key] = layout
	return nil
}

type fakeMessageStore struct {
	messages map[uuid.UUID]*model.Message
	statuses map[uuid.UUID]string
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{
		messages: make(map[uuid.UUID]*model.Message),
		statuses: make(map[uuid.UUID]string),
	}
}

func (s *fakeMessageStore) Insert(_ context.Context, m *model.Message) error {
	s.messages[m.ID] = m
	s.statuses[m.ID] = m.Status
	return nil
}

func (s *fakeMessageStore) GetByID(_ context.Context, id uuid.UUID) (*model.Message, error) {
	return s.messages[id], nil
}

func (s *fakeMessageStore) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	if _, ok := s.messages[id]; !ok {
		return errors.New("message not found")
	}
	s.statuses[id] = status
	return nil
}

type fakePublisher struct {
	published []string
	err       error
}

func (p *fakePublisher) Publish(_, messageID string, _ any) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, messageID)
	return nil
}

type fakeUserDirectory struct {
	users map[string]*userdir.User
}

func newFakeUserDirectory(users ...*userdir.User) *fakeUserDirectory {
	dir := &fakeUserDirectory{users: make(map[string]*userdir.User)}
	for _, user := range users {
		dir.users[user.ID] = user
	}
	return dir
}

func (d *fakeUserDirectory) GetUser(_ context.Context, userID string) (*userdir.User, error) {
	return d.users[userID], nil
}

type fakeProvider struct {
	method string
	err    error
	sent   []*model.Message
}

func (p *fakeProvider) SupportedMethod() string { return p.method }

func (p *fakeProvider) Send(_ context.Context, _ *userdir.User, msg *model.Message, _ *model.Template) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, msg)
	return nil
}
