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

// TemplateRepository provides data access for content templates and examples.
type TemplateRepository interface {
	CreateTemplate(ctx context.Context, tmpl *models.ContentTemplate) error
	CreateExample(ctx context.Context, example *models.ContentExample) error
	// ListByItemID returns the item's templates in creation order.
	ListByItemID(ctx context.Context, itemID uuid.UUID) ([]*models.ContentTemplate, error)
	ListByFilter(ctx context.Context, filter models.TemplateFilter) ([]*models.ContentTemplate, error)
	// ExamplesByItemID returns the examples of every template attached to the item.
	ExamplesByItemID(ctx context.Context, itemID uuid.UUID) ([]*models.ContentExample, error)
	ExamplesByTemplateID(ctx context.Context, templateID uuid.UUID) ([]*models.ContentExample, error)
}

type templateRepository struct {
	q database.Querier
}

// NewTemplateRepository creates a new TemplateRepository.
func NewTemplateRepository(q database.Querier) TemplateRepository {
	return &templateRepository{q: q}
}

var _ TemplateRepository = (*templateRepository)(nil)

const templateColumns = `id, item_id, item_type, template_type, content, variables, created_at, updated_at`

const exampleColumns = `e.id, e.template_id, e.title, e.content, e.recommended_length,
	e.keyword_suggestions, e.created_at, e.updated_at`

func (r *templateRepository) CreateTemplate(ctx context.Context, tmpl *models.ContentTemplate) error {
	if !tmpl.ItemType.IsValid() {
		return fmt.Errorf("%w: unknown item type %q", apperrors.ErrInvalidInput, tmpl.ItemType)
	}
	if !tmpl.TemplateType.IsValid() {
		return fmt.Errorf("%w: unknown template type %q", apperrors.ErrInvalidInput, tmpl.TemplateType)
	}
	tmpl.Variables = jsonbMap(tmpl.Variables)

	query := `
		INSERT INTO content_templates (item_id, item_type, template_type, content, variables)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query,
		tmpl.ItemID,
		string(tmpl.ItemType),
		string(tmpl.TemplateType),
		tmpl.Content,
		tmpl.Variables,
	).Scan(&tmpl.ID, &tmpl.CreatedAt, &tmpl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create content template: %w", err)
	}
	return nil
}

func (r *templateRepository) CreateExample(ctx context.Context, example *models.ContentExample) error {
	example.KeywordSuggestions = textArray(example.KeywordSuggestions)

	query := `
		INSERT INTO content_examples (template_id, title, content, recommended_length, keyword_suggestions)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query,
		example.TemplateID,
		example.Title,
		example.Content,
		example.RecommendedLength,
		example.KeywordSuggestions,
	).Scan(&example.ID, &example.CreatedAt, &example.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create content example: %w", err)
	}
	return nil
}

func (r *templateRepository) ListByItemID(ctx context.Context, itemID uuid.UUID) ([]*models.ContentTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM content_templates WHERE item_id = $1 ORDER BY created_at, id`
	return r.queryTemplates(ctx, query, itemID)
}

func (r *templateRepository) ListByFilter(ctx context.Context, filter models.TemplateFilter) ([]*models.ContentTemplate, error) {
	var conds conditions
	if filter.ItemType != "" {
		conds.add("item_type = $%d", string(filter.ItemType))
	}
	if filter.TemplateType != "" {
		conds.add("template_type = $%d", string(filter.TemplateType))
	}

	query := `SELECT ` + templateColumns + ` FROM content_templates` + conds.where() +
		` ORDER BY item_type, template_type, created_at, id`
	return r.queryTemplates(ctx, query, conds.args...)
}

func (r *templateRepository) ExamplesByItemID(ctx context.Context, itemID uuid.UUID) ([]*models.ContentExample, error) {
	query := `
		SELECT ` + exampleColumns + `
		FROM content_examples e
		JOIN content_templates t ON t.id = e.template_id
		WHERE t.item_id = $1
		ORDER BY e.created_at, e.id`
	return r.queryExamples(ctx, query, itemID)
}

func (r *templateRepository) ExamplesByTemplateID(ctx context.Context, templateID uuid.UUID) ([]*models.ContentExample, error) {
	query := `
		SELECT ` + exampleColumns + `
		FROM content_examples e
		WHERE e.template_id = $1
		ORDER BY e.created_at, e.id`
	return r.queryExamples(ctx, query, templateID)
}

func (r *templateRepository) queryTemplates(ctx context.Context, query string, args ...any) ([]*models.ContentTemplate, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query content templates: %w", err)
	}
	defer rows.Close()

	templates := []*models.ContentTemplate{}
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content templates: %w", err)
	}
	return templates, nil
}

func (r *templateRepository) queryExamples(ctx context.Context, query string, args ...any) ([]*models.ContentExample, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query content examples: %w", err)
	}
	defer rows.Close()

	examples := []*models.ContentExample{}
	for rows.Next() {
		var e models.ContentExample
		if err := rows.Scan(
			&e.ID,
			&e.TemplateID,
			&e.Title,
			&e.Content,
			&e.RecommendedLength,
			&e.KeywordSuggestions,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan content example: %w", err)
		}
		e.KeywordSuggestions = textArray(e.KeywordSuggestions)
		examples = append(examples, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content examples: %w", err)
	}
	return examples, nil
}

func scanTemplate(row pgx.Row) (*models.ContentTemplate, error) {
	var t models.ContentTemplate
	var itemType, templateType string
	var variables []byte

	err := row.Scan(
		&t.ID,
		&t.ItemID,
		&itemType,
		&templateType,
		&t.Content,
		&variables,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan content template: %w", err)
	}

	t.ItemType = models.ItemType(itemType)
	t.TemplateType = models.TemplateType(templateType)
	if err := jsonUnmarshal(variables, &t.Variables); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template variables: %w", err)
	}
	t.Variables = jsonbMap(t.Variables)
	return &t, nil
}
