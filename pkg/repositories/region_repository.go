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

// RegionFilter narrows a region listing. Empty fields match everything.
type RegionFilter struct {
	Prefecture string
}

// RegionRepository provides data access for regions.
type RegionRepository interface {
	Create(ctx context.Context, region *models.Region) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Region, error)
	GetByName(ctx context.Context, name string) (*models.Region, error)
	List(ctx context.Context, filter RegionFilter, page models.PageRequest) ([]*models.Region, int, error)
}

type regionRepository struct {
	q database.Querier
}

// NewRegionRepository creates a new RegionRepository.
func NewRegionRepository(q database.Querier) RegionRepository {
	return &regionRepository{q: q}
}

var _ RegionRepository = (*regionRepository)(nil)

const regionColumns = `id, name, prefecture, area_code, created_at, updated_at`

func (r *regionRepository) Create(ctx context.Context, region *models.Region) error {
	query := `
		INSERT INTO regions (name, prefecture, area_code)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query, region.Name, region.Prefecture, region.AreaCode).
		Scan(&region.ID, &region.CreatedAt, &region.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create region: %w", err)
	}
	return nil
}

func (r *regionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Region, error) {
	return r.getOne(ctx, `SELECT `+regionColumns+` FROM regions WHERE id = $1`, id)
}

// GetByName matches the stored name exactly.
func (r *regionRepository) GetByName(ctx context.Context, name string) (*models.Region, error) {
	return r.getOne(ctx, `SELECT `+regionColumns+` FROM regions WHERE name = $1`, name)
}

func (r *regionRepository) getOne(ctx context.Context, query string, arg any) (*models.Region, error) {
	region, err := scanRegion(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return region, nil
}

func (r *regionRepository) List(ctx context.Context, filter RegionFilter, page models.PageRequest) ([]*models.Region, int, error) {
	var conds conditions
	if filter.Prefecture != "" {
		conds.add("prefecture = $%d", filter.Prefecture)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM regions`+conds.where(), conds.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count regions: %w", err)
	}

	limit, args := conds.paged(page)
	query := `SELECT ` + regionColumns + ` FROM regions` + conds.where() + ` ORDER BY ` + nameOrderSQL + limit

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query regions: %w", err)
	}
	defer rows.Close()

	regions := []*models.Region{}
	for rows.Next() {
		region, err := scanRegion(rows)
		if err != nil {
			return nil, 0, err
		}
		regions = append(regions, region)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating regions: %w", err)
	}

	return regions, total, nil
}

func scanRegion(row pgx.Row) (*models.Region, error) {
	var reg models.Region
	err := row.Scan(
		&reg.ID,
		&reg.Name,
		&reg.Prefecture,
		&reg.AreaCode,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan region: %w", err)
	}
	return &reg, nil
}
