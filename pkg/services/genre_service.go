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

// GenreService serves the genre catalog.
type GenreService interface {
	List(ctx context.Context, filter repositories.GenreFilter, page models.PageRequest) (*models.Page[*models.Genre], error)
	Get(ctx context.Context, id uuid.UUID) (*models.Genre, error)
	// Items returns every genre-specific item of the genre in priority order.
	// Returns apperrors.ErrNotFound when the genre does not exist.
	Items(ctx context.Context, id uuid.UUID) ([]*models.ChecklistItem, error)
}

type genreService struct {
	genreRepo repositories.GenreRepository
	itemRepo  repositories.ItemRepository
	logger    *zap.Logger
}

// NewGenreService creates a new GenreService.
func NewGenreService(genreRepo repositories.GenreRepository, itemRepo repositories.ItemRepository, logger *zap.Logger) GenreService {
	return &genreService{
		genreRepo: genreRepo,
		itemRepo:  itemRepo,
		logger:    logger.Named("genre-service"),
	}
}

var _ GenreService = (*genreService)(nil)

func (s *genreService) List(ctx context.Context, filter repositories.GenreFilter, page models.PageRequest) (*models.Page[*models.Genre], error) {
	if filter.Category != "" && !filter.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrInvalidInput, filter.Category)
	}

	genres, total, err := s.genreRepo.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return models.NewPage(genres, page, total), nil
}

func (s *genreService) Get(ctx context.Context, id uuid.UUID) (*models.Genre, error) {
	return s.genreRepo.GetByID(ctx, id)
}

func (s *genreService) Items(ctx context.Context, id uuid.UUID) ([]*models.ChecklistItem, error) {
	if _, err := s.genreRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListByGenre(ctx, id, models.OrderByPriority)
	if err != nil {
		return nil, fmt.Errorf("failed to list genre items: %w", err)
	}
	return items, nil
}
