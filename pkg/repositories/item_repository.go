package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lpcraft/checklist-engine/pkg/apperrors"
	"github.com/lpcraft/checklist-engine/pkg/database"
	"github.com/lpcraft/checklist-engine/pkg/models"
)

// ItemFilter narrows a paginated item listing.
type ItemFilter struct {
	Type models.ItemType // empty lists common items
	// ScopeID is the genre, region or compliance rule id, depending on Type.
	ScopeID  *uuid.UUID
	Priority models.Priority
}

// ItemRepository provides data access for the four checklist item tables.
type ItemRepository interface {
	Create(ctx context.Context, item *models.ChecklistItem) error
	GetByID(ctx context.Context, itemType models.ItemType, id uuid.UUID) (*models.ChecklistItem, error)
	ListCommon(ctx context.Context, order models.ItemOrder) ([]*models.ChecklistItem, error)
	ListByGenre(ctx context.Context, genreID uuid.UUID, order models.ItemOrder) ([]*models.ChecklistItem, error)
	ListByRegion(ctx context.Context, regionID uuid.UUID) ([]*models.ChecklistItem, error)
	ListByComplianceRules(ctx context.Context, ruleIDs []uuid.UUID) ([]*models.ChecklistItem, error)
	List(ctx context.Context, filter ItemFilter, page models.PageRequest) ([]*models.ChecklistItem, int, error)
}

type itemRepository struct {
	q database.Querier
}

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(q database.Querier) ItemRepository {
	return &itemRepository{q: q}
}

var _ ItemRepository = (*itemRepository)(nil)

// itemTable describes how one item variant is stored.
type itemTable struct {
	name          string
	scopeColumn   string // empty for common items
	hasWeight     bool
	hasGuidelines bool
}

var itemTables = map[models.ItemType]itemTable{
	models.ItemTypeCommon:         {name: "common_items", hasWeight: true, hasGuidelines: true},
	models.ItemTypeGenreSpecific:  {name: "genre_specific_items", scopeColumn: "genre_id", hasWeight: true, hasGuidelines: true},
	models.ItemTypeRegionSpecific: {name: "region_specific_items", scopeColumn: "region_id"},
	models.ItemTypeCompliance:     {name: "compliance_items", scopeColumn: "compliance_rule_id", hasGuidelines: true},
}

func tableFor(itemType models.ItemType) (itemTable, error) {
	if itemType == "" {
		itemType = models.ItemTypeCommon
	}
	t, ok := itemTables[itemType]
	if !ok {
		return itemTable{}, fmt.Errorf("%w: unknown item type %q", apperrors.ErrInvalidInput, itemType)
	}
	return t, nil
}

// selectColumns yields the same column shape for every variant so one scan
// function serves all four tables.
func (t itemTable) selectColumns() string {
	scope := "NULL::uuid"
	if t.scopeColumn != "" {
		scope = t.scopeColumn
	}
	weight := "0"
	if t.hasWeight {
		weight = "seo_weight"
	}
	guidelines := "NULL::jsonb"
	if t.hasGuidelines {
		guidelines = "content_guidelines"
	}
	return fmt.Sprintf("id, %s, name, description, priority, %s, %s, created_at, updated_at",
		scope, weight, guidelines)
}

func (t itemTable) orderBy(order models.ItemOrder) string {
	if !t.hasWeight {
		return priorityRankSQL + " DESC, " + nameOrderSQL
	}
	if order == models.OrderBySEOWeight {
		return "seo_weight DESC, " + priorityRankSQL + " DESC, " + nameOrderSQL
	}
	return priorityRankSQL + " DESC, seo_weight DESC, " + nameOrderSQL
}

func (r *itemRepository) Create(ctx context.Context, item *models.ChecklistItem) error {
	if item.Type == "" {
		item.Type = models.ItemTypeCommon
	}
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	t, err := tableFor(item.Type)
	if err != nil {
		return err
	}

	cols := []string{"name", "description", "priority"}
	args := []any{item.Name, item.Description, string(item.Priority)}
	if scopeID, ok := item.ScopeID(); ok {
		cols = append(cols, t.scopeColumn)
		args = append(args, scopeID)
	}
	if t.hasWeight {
		cols = append(cols, "seo_weight")
		args = append(args, item.SEOWeight)
	} else {
		item.SEOWeight = 0
	}
	if t.hasGuidelines {
		item.ContentGuidelines.Normalize()
		cols = append(cols, "content_guidelines")
		args = append(args, item.ContentGuidelines)
	} else {
		item.ContentGuidelines = models.EmptyContentGuidelines()
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING id, created_at, updated_at`,
		t.name, strings.Join(cols, ", "), placeholders(len(args)))

	if err := r.q.QueryRow(ctx, query, args...).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create %s item: %w", item.Type, err)
	}
	return nil
}

func (r *itemRepository) GetByID(ctx context.Context, itemType models.ItemType, id uuid.UUID) (*models.ChecklistItem, error) {
	t, err := tableFor(itemType)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, t.selectColumns(), t.name)

	item, err := scanItem(r.q.QueryRow(ctx, query, id), itemType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *itemRepository) ListCommon(ctx context.Context, order models.ItemOrder) ([]*models.ChecklistItem, error) {
	t := itemTables[models.ItemTypeCommon]
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s`, t.selectColumns(), t.name, t.orderBy(order))
	return r.queryItems(ctx, models.ItemTypeCommon, query)
}

func (r *itemRepository) ListByGenre(ctx context.Context, genreID uuid.UUID, order models.ItemOrder) ([]*models.ChecklistItem, error) {
	t := itemTables[models.ItemTypeGenreSpecific]
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE genre_id = $1 ORDER BY %s`,
		t.selectColumns(), t.name, t.orderBy(order))
	return r.queryItems(ctx, models.ItemTypeGenreSpecific, query, genreID)
}

func (r *itemRepository) ListByRegion(ctx context.Context, regionID uuid.UUID) ([]*models.ChecklistItem, error) {
	t := itemTables[models.ItemTypeRegionSpecific]
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE region_id = $1 ORDER BY %s`,
		t.selectColumns(), t.name, t.orderBy(models.OrderByPriority))
	return r.queryItems(ctx, models.ItemTypeRegionSpecific, query, regionID)
}

func (r *itemRepository) ListByComplianceRules(ctx context.Context, ruleIDs []uuid.UUID) ([]*models.ChecklistItem, error) {
	if len(ruleIDs) == 0 {
		return []*models.ChecklistItem{}, nil
	}

	t := itemTables[models.ItemTypeCompliance]
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE compliance_rule_id = ANY($1) ORDER BY %s`,
		t.selectColumns(), t.name, t.orderBy(models.OrderByPriority))
	return r.queryItems(ctx, models.ItemTypeCompliance, query, ruleIDs)
}

func (r *itemRepository) List(ctx context.Context, filter ItemFilter, page models.PageRequest) ([]*models.ChecklistItem, int, error) {
	itemType := filter.Type
	if itemType == "" {
		itemType = models.ItemTypeCommon
	}
	t, err := tableFor(itemType)
	if err != nil {
		return nil, 0, err
	}

	var conds conditions
	if filter.ScopeID != nil {
		if t.scopeColumn == "" {
			return nil, 0, fmt.Errorf("%w: %s items have no scope", apperrors.ErrInvalidInput, itemType)
		}
		conds.add(t.scopeColumn+" = $%d", *filter.ScopeID)
	}
	if filter.Priority != "" {
		conds.add("priority = $%d", string(filter.Priority))
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, t.name, conds.where())
	if err := r.q.QueryRow(ctx, countQuery, conds.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count %s items: %w", itemType, err)
	}

	limit, args := conds.paged(page)
	query := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s%s`,
		t.selectColumns(), t.name, conds.where(), t.orderBy(models.OrderByPriority), limit)

	items, err := r.queryItems(ctx, itemType, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *itemRepository) queryItems(ctx context.Context, itemType models.ItemType, query string, args ...any) ([]*models.ChecklistItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s items: %w", itemType, err)
	}
	defer rows.Close()

	items := []*models.ChecklistItem{}
	for rows.Next() {
		item, err := scanItem(rows, itemType)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s items: %w", itemType, err)
	}
	return items, nil
}

func scanItem(row pgx.Row, itemType models.ItemType) (*models.ChecklistItem, error) {
	item := models.ChecklistItem{Type: itemType}
	var scopeID *uuid.UUID
	var priority string
	var guidelines []byte

	err := row.Scan(
		&item.ID,
		&scopeID,
		&item.Name,
		&item.Description,
		&priority,
		&item.SEOWeight,
		&guidelines,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan %s item: %w", itemType, err)
	}

	item.Priority = models.Priority(priority)
	switch itemType {
	case models.ItemTypeGenreSpecific:
		item.GenreID = scopeID
	case models.ItemTypeRegionSpecific:
		item.RegionID = scopeID
	case models.ItemTypeCompliance:
		item.ComplianceRuleID = scopeID
	}

	if err := jsonUnmarshal(guidelines, &item.ContentGuidelines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal content guidelines: %w", err)
	}
	item.ContentGuidelines.Normalize()

	return &item, nil
}
