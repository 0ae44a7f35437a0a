package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lpcraft/checklist-engine/pkg/apperrors"
	"github.com/lpcraft/checklist-engine/pkg/audit"
	"github.com/lpcraft/checklist-engine/pkg/models"
	"github.com/lpcraft/checklist-engine/pkg/repositories"
)

// CustomizationService persists users' saved checklist selections.
type CustomizationService interface {
	// Save stores a new customization and returns it with id and timestamps set.
	Save(ctx context.Context, c *models.UserCustomization) (*models.UserCustomization, error)
	Get(ctx context.Context, id uuid.UUID) (*models.UserCustomization, error)
	ListByUser(ctx context.Context, userID string, page models.PageRequest) (*models.Page[*models.UserCustomization], error)
	// Update replaces every field except id and owner. It never creates a row.
	Update(ctx context.Context, c *models.UserCustomization) (*models.UserCustomization, error)
	// Delete removes the customization or returns apperrors.ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
}

type customizationService struct {
	repo    repositories.CustomizationRepository
	auditor *audit.SecurityAuditor
	logger  *zap.Logger
}

// NewCustomizationService creates a new CustomizationService.
func NewCustomizationService(
	repo repositories.CustomizationRepository,
	auditor *audit.SecurityAuditor,
	logger *zap.Logger,
) CustomizationService {
	return &customizationService{
		repo:    repo,
		auditor: auditor,
		logger:  logger.Named("customization-service"),
	}
}

var _ CustomizationService = (*customizationService)(nil)

func (s *customizationService) Save(ctx context.Context, c *models.UserCustomization) (*models.UserCustomization, error) {
	if c.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", apperrors.ErrInvalidInput)
	}
	if c.ProjectName == "" {
		return nil, fmt.Errorf("%w: projectName is required", apperrors.ErrInvalidInput)
	}

	s.screen(ctx, c)

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save customization: %w", err)
	}

	s.logger.Debug("Saved customization",
		zap.String("id", c.ID.String()),
		zap.String("user_id", c.UserID))
	return c, nil
}

func (s *customizationService) Get(ctx context.Context, id uuid.UUID) (*models.UserCustomization, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *customizationService) ListByUser(ctx context.Context, userID string, page models.PageRequest) (*models.Page[*models.UserCustomization], error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", apperrors.ErrInvalidInput)
	}
	s.auditor.ScreenInput(ctx, "userId", userID)

	items, total, err := s.repo.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list customizations: %w", err)
	}
	return models.NewPage(items, page, total), nil
}

func (s *customizationService) Update(ctx context.Context, c *models.UserCustomization) (*models.UserCustomization, error) {
	if c.ProjectName == "" {
		return nil, fmt.Errorf("%w: projectName is required", apperrors.ErrInvalidInput)
	}

	s.screen(ctx, c)

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update customization: %w", err)
	}
	return c, nil
}

func (s *customizationService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete customization: %w", err)
	}
	if !deleted {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *customizationService) screen(ctx context.Context, c *models.UserCustomization) {
	s.auditor.ScreenInput(ctx, "userId", c.UserID)
	s.auditor.ScreenInput(ctx, "projectName", c.ProjectName)
}
