package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lpcraft/checklist-engine/pkg/apperrors"
	"github.com/lpcraft/checklist-engine/pkg/audit"
	"github.com/lpcraft/checklist-engine/pkg/models"
	"github.com/lpcraft/checklist-engine/pkg/repositories"
)

// maxConcurrentFetches bounds the store queries one generation issues at a time.
const maxConcurrentFetches = 4

// ChecklistService assembles checklists and serves item lookups.
type ChecklistService interface {
	// Generate merges common, genre-specific, region-specific and compliance
	// items for the input. Any store failure fails the whole call.
	Generate(ctx context.Context, input models.GenerateChecklistInput) (*models.Checklist, error)

	// GetItem probes common, genre-specific, region-specific and compliance
	// items in that order and returns the first match.
	GetItem(ctx context.Context, id uuid.UUID) (*models.ChecklistItem, error)

	// ListItems returns one page of items of a single type.
	ListItems(ctx context.Context, filter repositories.ItemFilter, page models.PageRequest) (*models.Page[*models.ChecklistItem], error)
}

type checklistService struct {
	itemRepo repositories.ItemRepository
	ruleRepo repositories.ComplianceRuleRepository
	resolver NameResolver
	auditor  *audit.SecurityAuditor
	logger   *zap.Logger
}

// NewChecklistService creates a new ChecklistService.
func NewChecklistService(
	itemRepo repositories.ItemRepository,
	ruleRepo repositories.ComplianceRuleRepository,
	resolver NameResolver,
	auditor *audit.SecurityAuditor,
	logger *zap.Logger,
) ChecklistService {
	return &checklistService{
		itemRepo: itemRepo,
		ruleRepo: ruleRepo,
		resolver: resolver,
		auditor:  auditor,
		logger:   logger.Named("checklist-service"),
	}
}

var _ ChecklistService = (*checklistService)(nil)

func (s *checklistService) Generate(ctx context.Context, input models.GenerateChecklistInput) (*models.Checklist, error) {
	if len(input.Genres) == 0 {
		return nil, fmt.Errorf("%w: at least one genre is required", apperrors.ErrInvalidInput)
	}

	s.auditor.ScreenInputs(ctx, "genres", input.Genres)
	s.auditor.ScreenInput(ctx, "region", input.Region)

	genres, err := s.resolver.ResolveGenres(ctx, input.Genres)
	if err != nil {
		return nil, fmt.Errorf("failed to generate checklist: %w", err)
	}
	if len(genres) < len(input.Genres) {
		s.logger.Debug("Dropped unresolved genre names",
			zap.Int("requested", len(input.Genres)),
			zap.Int("resolved", len(genres)))
	}

	order := models.OrderFor(input.SEOOptimized)
	checklist := &models.Checklist{
		RegionSpecificItems: []*models.ChecklistItem{},
		ComplianceItems:     []*models.ChecklistItem{},
	}
	perGenre := make([][]*models.ChecklistItem, len(genres))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	g.Go(func() error {
		items, err := s.itemRepo.ListCommon(gctx, order)
		if err != nil {
			return err
		}
		checklist.CommonItems = items
		return nil
	})

	for i, genre := range genres {
		g.Go(func() error {
			items, err := s.itemRepo.ListByGenre(gctx, genre.ID, order)
			if err != nil {
				return err
			}
			perGenre[i] = items
			return nil
		})
	}

	if input.Region != "" {
		g.Go(func() error {
			region, err := s.resolver.ResolveRegion(gctx, input.Region)
			if err != nil || region == nil {
				return err
			}
			items, err := s.itemRepo.ListByRegion(gctx, region.ID)
			if err != nil {
				return err
			}
			checklist.RegionSpecificItems = items
			return nil
		})
	}

	if input.IncludeCompliance && len(genres) > 0 {
		g.Go(func() error {
			items, err := s.complianceItems(gctx, genreIDs(genres))
			if err != nil {
				return err
			}
			checklist.ComplianceItems = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to generate checklist: %w", err)
	}

	checklist.GenreSpecificItems = []*models.ChecklistItem{}
	for _, items := range perGenre {
		checklist.GenreSpecificItems = append(checklist.GenreSpecificItems, items...)
	}
	if checklist.CommonItems == nil {
		checklist.CommonItems = []*models.ChecklistItem{}
	}

	checklist.Summarize()
	return checklist, nil
}

func (s *checklistService) complianceItems(ctx context.Context, ids []uuid.UUID) ([]*models.ChecklistItem, error) {
	rules, err := s.ruleRepo.ListByGenreIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return []*models.ChecklistItem{}, nil
	}

	ruleIDs := make([]uuid.UUID, len(rules))
	for i, rule := range rules {
		ruleIDs[i] = rule.ID
	}
	return s.itemRepo.ListByComplianceRules(ctx, ruleIDs)
}

func (s *checklistService) GetItem(ctx context.Context, id uuid.UUID) (*models.ChecklistItem, error) {
	for _, itemType := range models.ItemTypes {
		item, err := s.itemRepo.GetByID(ctx, itemType, id)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to get item: %w", err)
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *checklistService) ListItems(ctx context.Context, filter repositories.ItemFilter, page models.PageRequest) (*models.Page[*models.ChecklistItem], error) {
	switch filter.Type {
	case models.ItemTypeGenreSpecific:
		if filter.ScopeID == nil {
			return nil, fmt.Errorf("%w: genre is required for genre_specific items", apperrors.ErrInvalidInput)
		}
	case models.ItemTypeRegionSpecific:
		if filter.ScopeID == nil {
			return nil, fmt.Errorf("%w: region is required for region_specific items", apperrors.ErrInvalidInput)
		}
	}

	items, total, err := s.itemRepo.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return models.NewPage(items, page, total), nil
}
