package template

import (
	"context"
	"errors"
	"fmt"
)

// ErrTemplateUnavailable is returned when a rule references a template that
// is missing or deactivated. Callers log and skip rather than abort.
var ErrTemplateUnavailable = errors.New("template missing or inactive")

type TemplateService interface {
	CreateTemplate(ctx context.Context, tpl *MessageTemplate) error
	GetTemplate(ctx context.Context, id string) (*MessageTemplate, error)
	ListTemplates(ctx context.Context) ([]MessageTemplate, error)
	UpdateTemplate(ctx context.Context, tpl *MessageTemplate) error
	DeleteTemplate(ctx context.Context, id string) error

	// RenderTemplate resolves a template by id and substitutes data into it
	RenderTemplate(ctx context.Context, templateID string, data map[string]interface{}) (string, error)
}

type TemplateServiceImpl struct {
	Repo TemplateRepository
}

func NewTemplateService(repo TemplateRepository) TemplateService {
	return &TemplateServiceImpl{Repo: repo}
}

func (s *TemplateServiceImpl) CreateTemplate(ctx context.Context, tpl *MessageTemplate) error {
	if tpl.Name == "" {
		return errors.New("template name is required")
	}
	if tpl.Content == "" {
		return errors.New("template content is required")
	}
	return s.Repo.Create(ctx, tpl)
}

func (s *TemplateServiceImpl) GetTemplate(ctx context.Context, id string) (*MessageTemplate, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *TemplateServiceImpl) ListTemplates(ctx context.Context) ([]MessageTemplate, error) {
	return s.Repo.List(ctx)
}

func (s *TemplateServiceImpl) UpdateTemplate(ctx context.Context, tpl *MessageTemplate) error {
	return s.Repo.Update(ctx, tpl)
}

func (s *TemplateServiceImpl) DeleteTemplate(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

func (s *TemplateServiceImpl) RenderTemplate(ctx context.Context, templateID string, data map[string]interface{}) (string, error) {
	tpl, err := s.Repo.GetByID(ctx, templateID)
	if err != nil {
		return "", fmt.Errorf("failed to load template %s: %w", templateID, err)
	}
	if tpl == nil || !tpl.Active {
		return "", ErrTemplateUnavailable
	}
	return Render(tpl.Content, data), nil
}
