package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lpcraft/checklist-engine/pkg/apperrors"
	"github.com/lpcraft/checklist-engine/pkg/models"
	"github.com/lpcraft/checklist-engine/pkg/repositories"
)

// NameResolver maps user-supplied genre and region names to catalog rows.
// Unknown names are not errors: they resolve to nothing.
type NameResolver interface {
	// ResolveGenres resolves each name in input order, dropping unknown names
	// and keeping duplicates.
	ResolveGenres(ctx context.Context, names []string) ([]*models.Genre, error)
	// ResolveRegion returns nil for an empty or unknown name.
	ResolveRegion(ctx context.Context, name string) (*models.Region, error)
}

type nameResolver struct {
	genreRepo  repositories.GenreRepository
	regionRepo repositories.RegionRepository
	cache      NameCache
}

// NewNameResolver creates a NameResolver. A nil cache disables caching.
func NewNameResolver(
	genreRepo repositories.GenreRepository,
	regionRepo repositories.RegionRepository,
	cache NameCache,
) NameResolver {
	if cache == nil {
		cache = NoopNameCache{}
	}
	return &nameResolver{
		genreRepo:  genreRepo,
		regionRepo: regionRepo,
		cache:      cache,
	}
}

var _ NameResolver = (*nameResolver)(nil)

func (r *nameResolver) ResolveGenres(ctx context.Context, names []string) ([]*models.Genre, error) {
	genres := make([]*models.Genre, 0, len(names))
	for _, name := range names {
		genre, err := r.resolveGenre(ctx, name)
		if err != nil {
			return nil, err
		}
		if genre != nil {
			genres = append(genres, genre)
		}
	}
	return genres, nil
}

func (r *nameResolver) resolveGenre(ctx context.Context, name string) (*models.Genre, error) {
	if genre, ok := r.cache.GetGenre(ctx, name); ok {
		return genre, nil
	}

	genre, err := r.genreRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve genre %q: %w", name, err)
	}

	r.cache.SetGenre(ctx, genre)
	return genre, nil
}

func (r *nameResolver) ResolveRegion(ctx context.Context, name string) (*models.Region, error) {
	if name == "" {
		return nil, nil
	}
	if region, ok := r.cache.GetRegion(ctx, name); ok {
		return region, nil
	}

	region, err := r.regionRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve region %q: %w", name, err)
	}

	r.cache.SetRegion(ctx, region)
	return region, nil
}

func genreIDs(genres []*models.Genre) []uuid.UUID {
	ids := make([]uuid.UUID, len(genres))
	for i, g := range genres {
		ids[i] = g.ID
	}
	return ids
}
