package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lpcraft/checklist-engine/pkg/apperrors"
	"github.com/lpcraft/checklist-engine/pkg/models"
	"github.com/lpcraft/checklist-engine/pkg/repositories"
)

// TemplateService serves content templates and their examples.
type TemplateService interface {
	List(ctx context.Context, filter models.TemplateFilter) ([]*models.ContentTemplate, error)
	// Bundle collects the drafting material for one checklist item.
	// An item without templates yields an empty bundle, not an error.
	Bundle(ctx context.Context, itemID uuid.UUID) (*models.TemplateBundle, error)
	Examples(ctx context.Context, itemID uuid.UUID) ([]*models.ContentExample, error)
}

type templateService struct {
	templateRepo repositories.TemplateRepository
	logger       *zap.Logger
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(templateRepo repositories.TemplateRepository, logger *zap.Logger) TemplateService {
	return &templateService{
		templateRepo: templateRepo,
		logger:       logger.Named("template-service"),
	}
}

var _ TemplateService = (*templateService)(nil)

func (s *templateService) List(ctx context.Context, filter models.TemplateFilter) ([]*models.ContentTemplate, error) {
	if filter.ItemType != "" && !filter.ItemType.IsValid() {
		return nil, fmt.Errorf("%w: unknown item type %q", apperrors.ErrInvalidInput, filter.ItemType)
	}
	if filter.TemplateType != "" && !filter.TemplateType.IsValid() {
		return nil, fmt.Errorf("%w: unknown template type %q", apperrors.ErrInvalidInput, filter.TemplateType)
	}

	templates, err := s.templateRepo.ListByFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

func (s *templateService) Bundle(ctx context.Context, itemID uuid.UUID) (*models.TemplateBundle, error) {
	templates, err := s.templateRepo.ListByItemID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	examples, err := s.templateRepo.ExamplesByItemID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load examples: %w", err)
	}
	if examples == nil {
		examples = []*models.ContentExample{}
	}

	bundle := &models.TemplateBundle{
		StructuredData:  map[string]any{},
		ContentExamples: examples,
		SEOGuidelines:   []models.SEOGuideline{},
	}

	var haveHTML, haveStructured bool
	for _, tmpl := range templates {
		switch tmpl.TemplateType {
		case models.TemplateTypeHTML:
			if !haveHTML {
				bundle.HTMLTemplate = tmpl.Content
				haveHTML = true
			}
		case models.TemplateTypeStructured:
			if !haveStructured && tmpl.Variables != nil {
				bundle.StructuredData = tmpl.Variables
				haveStructured = true
			}
		}
	}

	return bundle, nil
}

func (s *templateService) Examples(ctx context.Context, itemID uuid.UUID) ([]*models.ContentExample, error) {
	examples, err := s.templateRepo.ExamplesByItemID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load examples: %w", err)
	}
	if examples == nil {
		examples = []*models.ContentExample{}
	}
	return examples, nil
}
