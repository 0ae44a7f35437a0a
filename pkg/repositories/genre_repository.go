package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lpcraft/checklist-engine/pkg/apperrors"
	"github.com/lpcraft/checklist-engine/pkg/database"
	"github.com/lpcraft/checklist-engine/pkg/models"
)

// GenreFilter narrows a genre listing. Empty fields match everything.
type GenreFilter struct {
	Category models.GenreCategory
}

// GenreRepository provides data access for genres.
type GenreRepository interface {
	Create(ctx context.Context, genre *models.Genre) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Genre, error)
	GetByName(ctx context.Context, name string) (*models.Genre, error)
	List(ctx context.Context, filter GenreFilter, page models.PageRequest) ([]*models.Genre, int, error)
}

type genreRepository struct {
	q database.Querier
}

// NewGenreRepository creates a new GenreRepository.
func NewGenreRepository(q database.Querier) GenreRepository {
	return &genreRepository{q: q}
}

var _ GenreRepository = (*genreRepository)(nil)

const genreColumns = `id, name, category, seo_keywords, created_at, updated_at`

func (r *genreRepository) Create(ctx context.Context, genre *models.Genre) error {
	if !genre.Category.IsValid() {
		return fmt.Errorf("%w: unknown genre category %q", apperrors.ErrInvalidInput, genre.Category)
	}
	genre.SEOKeywords = textArray(genre.SEOKeywords)

	query := `
		INSERT INTO genres (name, category, seo_keywords)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query, genre.Name, string(genre.Category), genre.SEOKeywords).
		Scan(&genre.ID, &genre.CreatedAt, &genre.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create genre: %w", err)
	}
	return nil
}

func (r *genreRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Genre, error) {
	query := `SELECT ` + genreColumns + ` FROM genres WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByName matches the stored name exactly.
func (r *genreRepository) GetByName(ctx context.Context, name string) (*models.Genre, error) {
	query := `SELECT ` + genreColumns + ` FROM genres WHERE name = $1`
	return r.getOne(ctx, query, name)
}

func (r *genreRepository) getOne(ctx context.Context, query string, arg any) (*models.Genre, error) {
	genre, err := scanGenre(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return genre, nil
}

func (r *genreRepository) List(ctx context.Context, filter GenreFilter, page models.PageRequest) ([]*models.Genre, int, error) {
	var conds conditions
	if filter.Category != "" {
		conds.add("category = $%d", string(filter.Category))
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM genres`+conds.where(), conds.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count genres: %w", err)
	}

	limit, args := conds.paged(page)
	query := `SELECT ` + genreColumns + ` FROM genres` + conds.where() + ` ORDER BY ` + nameOrderSQL + limit

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query genres: %w", err)
	}
	defer rows.Close()

	genres := []*models.Genre{}
	for rows.Next() {
		genre, err := scanGenre(rows)
		if err != nil {
			return nil, 0, err
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating genres: %w", err)
	}

	return genres, total, nil
}

func scanGenre(row pgx.Row) (*models.Genre, error) {
	var g models.Genre
	var category string

	err := row.Scan(
		&g.ID,
		&g.Name,
		&category,
		&g.SEOKeywords,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan genre: %w", err)
	}

	g.Category = models.GenreCategory(category)
	g.SEOKeywords = textArray(g.SEOKeywords)
	return &g, nil
}
