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

// CustomizationRepository provides data access for saved user customizations.
type CustomizationRepository interface {
	Create(ctx context.Context, c *models.UserCustomization) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.UserCustomization, error)
	// ListByUser returns the owner's customizations, most recently updated first.
	ListByUser(ctx context.Context, userID string, page models.PageRequest) ([]*models.UserCustomization, int, error)
	// Update replaces every field except id and owner. Returns apperrors.ErrNotFound
	// when no row has the id.
	Update(ctx context.Context, c *models.UserCustomization) error
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type customizationRepository struct {
	q database.Querier
}

// NewCustomizationRepository creates a new CustomizationRepository.
func NewCustomizationRepository(q database.Querier) CustomizationRepository {
	return &customizationRepository{q: q}
}

var _ CustomizationRepository = (*customizationRepository)(nil)

const customizationColumns = `id, user_id, project_name, selected_genres, selected_regions,
	selected_items, custom_items, settings, created_at, updated_at`

func (r *customizationRepository) Create(ctx context.Context, c *models.UserCustomization) error {
	c.Normalize()

	query := `
		INSERT INTO user_customizations (
			user_id, project_name, selected_genres, selected_regions,
			selected_items, custom_items, settings
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query,
		c.UserID,
		c.ProjectName,
		c.SelectedGenres,
		c.SelectedRegions,
		c.SelectedItems,
		c.CustomItems,
		c.Settings,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create customization: %w", err)
	}
	return nil
}

func (r *customizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.UserCustomization, error) {
	query := `SELECT ` + customizationColumns + ` FROM user_customizations WHERE id = $1`

	c, err := scanCustomization(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *customizationRepository) ListByUser(ctx context.Context, userID string, page models.PageRequest) ([]*models.UserCustomization, int, error) {
	var conds conditions
	conds.add("user_id = $%d", userID)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM user_customizations`+conds.where(), conds.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customizations: %w", err)
	}

	limit, args := conds.paged(page)
	query := `SELECT ` + customizationColumns + ` FROM user_customizations` + conds.where() +
		` ORDER BY updated_at DESC, id` + limit

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query customizations: %w", err)
	}
	defer rows.Close()

	list := []*models.UserCustomization{}
	for rows.Next() {
		c, err := scanCustomization(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating customizations: %w", err)
	}

	return list, total, nil
}

func (r *customizationRepository) Update(ctx context.Context, c *models.UserCustomization) error {
	c.Normalize()

	query := `
		UPDATE user_customizations
		SET project_name = $2, selected_genres = $3, selected_regions = $4,
		    selected_items = $5, custom_items = $6, settings = $7,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING user_id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query,
		c.ID,
		c.ProjectName,
		c.SelectedGenres,
		c.SelectedRegions,
		c.SelectedItems,
		c.CustomItems,
		c.Settings,
	).Scan(&c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update customization: %w", err)
	}
	return nil
}

func (r *customizationRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM user_customizations WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete customization: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func scanCustomization(row pgx.Row) (*models.UserCustomization, error) {
	var c models.UserCustomization
	var selectedItems, customItems, settings []byte

	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.ProjectName,
		&c.SelectedGenres,
		&c.SelectedRegions,
		&selectedItems,
		&customItems,
		&settings,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan customization: %w", err)
	}

	if err := jsonUnmarshal(selectedItems, &c.SelectedItems); err != nil {
		return nil, fmt.Errorf("failed to unmarshal selected items: %w", err)
	}
	if err := jsonUnmarshal(customItems, &c.CustomItems); err != nil {
		return nil, fmt.Errorf("failed to unmarshal custom items: %w", err)
	}
	if err := jsonUnmarshal(settings, &c.Settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	c.Normalize()
	return &c, nil
}
