package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/lpcraft/checklist-engine/pkg/database"
)

// catalogTables lists every reference table, children before parents.
var catalogTables = []string{
	"content_examples",
	"content_templates",
	"compliance_items",
	"compliance_rules",
	"region_specific_items",
	"genre_specific_items",
	"common_items",
	"regions",
	"genres",
}

// CatalogRepository maintains the reference catalog as a whole.
// User customizations are never touched.
type CatalogRepository interface {
	// IsEmpty reports whether no catalog table holds a row.
	IsEmpty(ctx context.Context) (bool, error)
	// Truncate removes every catalog row.
	Truncate(ctx context.Context) error
}

type catalogRepository struct {
	q database.Querier
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(q database.Querier) CatalogRepository {
	return &catalogRepository{q: q}
}

var _ CatalogRepository = (*catalogRepository)(nil)

func (r *catalogRepository) IsEmpty(ctx context.Context) (bool, error) {
	exists := make([]string, len(catalogTables))
	for i, table := range catalogTables {
		exists[i] = fmt.Sprintf("EXISTS (SELECT 1 FROM %s)", table)
	}

	var populated bool
	query := `SELECT ` + strings.Join(exists, " OR ")
	if err := r.q.QueryRow(ctx, query).Scan(&populated); err != nil {
		return false, fmt.Errorf("failed to inspect catalog: %w", err)
	}
	return !populated, nil
}

func (r *catalogRepository) Truncate(ctx context.Context) error {
	query := `TRUNCATE ` + strings.Join(catalogTables, ", ")
	if _, err := r.q.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate catalog: %w", err)
	}
	return nil
}
