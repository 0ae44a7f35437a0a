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

// ComplianceRuleRepository provides data access for compliance rules.
type ComplianceRuleRepository interface {
	Create(ctx context.Context, rule *models.ComplianceRule) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ComplianceRule, error)
	ListByLaw(ctx context.Context, law models.Law) ([]*models.ComplianceRule, error)
	// ListByGenreIDs returns every rule whose applicable genres intersect genreIDs.
	ListByGenreIDs(ctx context.Context, genreIDs []uuid.UUID) ([]*models.ComplianceRule, error)
}

type complianceRuleRepository struct {
	q database.Querier
}

// NewComplianceRuleRepository creates a new ComplianceRuleRepository.
func NewComplianceRuleRepository(q database.Querier) ComplianceRuleRepository {
	return &complianceRuleRepository{q: q}
}

var _ ComplianceRuleRepository = (*complianceRuleRepository)(nil)

const complianceRuleColumns = `id, law, description, required_items, prohibited_expressions,
	required_disclosures, applicable_genres, created_at, updated_at`

func (r *complianceRuleRepository) Create(ctx context.Context, rule *models.ComplianceRule) error {
	rule.RequiredItems = textArray(rule.RequiredItems)
	rule.ProhibitedExpressions = textArray(rule.ProhibitedExpressions)
	rule.RequiredDisclosures = textArray(rule.RequiredDisclosures)
	if rule.ApplicableGenres == nil {
		rule.ApplicableGenres = []uuid.UUID{}
	}

	query := `
		INSERT INTO compliance_rules (
			law, description, required_items, prohibited_expressions,
			required_disclosures, applicable_genres
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query,
		string(rule.Law),
		rule.Description,
		rule.RequiredItems,
		rule.ProhibitedExpressions,
		rule.RequiredDisclosures,
		rule.ApplicableGenres,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create compliance rule: %w", err)
	}
	return nil
}

func (r *complianceRuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ComplianceRule, error) {
	query := `SELECT ` + complianceRuleColumns + ` FROM compliance_rules WHERE id = $1`

	rule, err := scanComplianceRule(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return rule, nil
}

func (r *complianceRuleRepository) ListByLaw(ctx context.Context, law models.Law) ([]*models.ComplianceRule, error) {
	query := `SELECT ` + complianceRuleColumns + ` FROM compliance_rules WHERE law = $1 ORDER BY created_at, id`
	return r.queryRules(ctx, query, string(law))
}

func (r *complianceRuleRepository) ListByGenreIDs(ctx context.Context, genreIDs []uuid.UUID) ([]*models.ComplianceRule, error) {
	if len(genreIDs) == 0 {
		return []*models.ComplianceRule{}, nil
	}

	query := `SELECT ` + complianceRuleColumns + `
		FROM compliance_rules
		WHERE applicable_genres && $1::uuid[]
		ORDER BY created_at, id`
	return r.queryRules(ctx, query, genreIDs)
}

func (r *complianceRuleRepository) queryRules(ctx context.Context, query string, args ...any) ([]*models.ComplianceRule, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query compliance rules: %w", err)
	}
	defer rows.Close()

	rules := []*models.ComplianceRule{}
	for rows.Next() {
		rule, err := scanComplianceRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating compliance rules: %w", err)
	}
	return rules, nil
}

func scanComplianceRule(row pgx.Row) (*models.ComplianceRule, error) {
	var rule models.ComplianceRule
	var law string

	err := row.Scan(
		&rule.ID,
		&law,
		&rule.Description,
		&rule.RequiredItems,
		&rule.ProhibitedExpressions,
		&rule.RequiredDisclosures,
		&rule.ApplicableGenres,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan compliance rule: %w", err)
	}

	rule.Law = models.Law(law)
	return &rule, nil
}
