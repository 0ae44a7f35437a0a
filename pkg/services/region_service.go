package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lpcraft/checklist-engine/pkg/audit"
	"github.com/lpcraft/checklist-engine/pkg/models"
	"github.com/lpcraft/checklist-engine/pkg/repositories"
)

// RegionService serves the region catalog.
type RegionService interface {
	List(ctx context.Context, filter repositories.RegionFilter, page models.PageRequest) (*models.Page[*models.Region], error)
	Get(ctx context.Context, id uuid.UUID) (*models.Region, error)
	// Items returns every region-specific item of the region, highest priority first.
	// Returns apperrors.ErrNotFound when the region does not exist.
	Items(ctx context.Context, id uuid.UUID) ([]*models.ChecklistItem, error)
}

type regionService struct {
	regionRepo repositories.RegionRepository
	itemRepo   repositories.ItemRepository
	auditor    *audit.SecurityAuditor
	logger     *zap.Logger
}

// NewRegionService creates a new RegionService.
func NewRegionService(
	regionRepo repositories.RegionRepository,
	itemRepo repositories.ItemRepository,
	auditor *audit.SecurityAuditor,
	logger *zap.Logger,
) RegionService {
	return &regionService{
		regionRepo: regionRepo,
		itemRepo:   itemRepo,
		auditor:    auditor,
		logger:     logger.Named("region-service"),
	}
}

var _ RegionService = (*regionService)(nil)

func (s *regionService) List(ctx context.Context, filter repositories.RegionFilter, page models.PageRequest) (*models.Page[*models.Region], error) {
	s.auditor.ScreenInput(ctx, "prefecture", filter.Prefecture)

	regions, total, err := s.regionRepo.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	return models.NewPage(regions, page, total), nil
}

func (s *regionService) Get(ctx context.Context, id uuid.UUID) (*models.Region, error) {
	return s.regionRepo.GetByID(ctx, id)
}

func (s *regionService) Items(ctx context.Context, id uuid.UUID) ([]*models.ChecklistItem, error) {
	if _, err := s.regionRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListByRegion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list region items: %w", err)
	}
	return items, nil
}
