package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/lpcraft/checklist-engine/pkg/apperrors"
	"github.com/lpcraft/checklist-engine/pkg/database"
	"github.com/lpcraft/checklist-engine/pkg/models"
	"github.com/lpcraft/checklist-engine/pkg/repositories"
)

// Result counts the rows one Apply inserted.
type Result struct {
	Genres          int
	Regions         int
	ComplianceRules int
	Items           int
	Templates       int
	Examples        int
}

// Seeder inserts catalogs into PostgreSQL.
type Seeder struct {
	db     *database.DB
	logger *zap.Logger
}

// NewSeeder creates a Seeder.
func NewSeeder(db *database.DB, logger *zap.Logger) *Seeder {
	return &Seeder{db: db, logger: logger.Named("seed")}
}

// Apply inserts the catalog in one transaction. A catalog that already holds
// rows is rejected with apperrors.ErrCatalogSeeded unless reset is true,
// in which case every catalog table is truncated first.
func (s *Seeder) Apply(ctx context.Context, catalog *Catalog, reset bool) (*Result, error) {
	var result *Result
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		catalogRepo := repositories.NewCatalogRepository(tx)

		empty, err := catalogRepo.IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			if !reset {
				return apperrors.ErrCatalogSeeded
			}
			if err := catalogRepo.Truncate(ctx); err != nil {
				return err
			}
			s.logger.Info("Truncated existing catalog")
		}

		w := newWriter(tx)
		if err := w.write(ctx, catalog); err != nil {
			return err
		}
		result = &w.result
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}

	s.logger.Info("Seeded catalog",
		zap.Int("genres", result.Genres),
		zap.Int("regions", result.Regions),
		zap.Int("compliance_rules", result.ComplianceRules),
		zap.Int("items", result.Items),
		zap.Int("templates", result.Templates),
		zap.Int("examples", result.Examples))
	return result, nil
}

// writer inserts one catalog through repositories bound to a transaction.
type writer struct {
	genreRepo    repositories.GenreRepository
	regionRepo   repositories.RegionRepository
	ruleRepo     repositories.ComplianceRuleRepository
	itemRepo     repositories.ItemRepository
	templateRepo repositories.TemplateRepository

	genreIDs  map[string]uuid.UUID
	regionIDs map[string]uuid.UUID
	result    Result
}

func newWriter(q database.Querier) *writer {
	return &writer{
		genreRepo:    repositories.NewGenreRepository(q),
		regionRepo:   repositories.NewRegionRepository(q),
		ruleRepo:     repositories.NewComplianceRuleRepository(q),
		itemRepo:     repositories.NewItemRepository(q),
		templateRepo: repositories.NewTemplateRepository(q),
		genreIDs:     map[string]uuid.UUID{},
		regionIDs:    map[string]uuid.UUID{},
	}
}

func (w *writer) write(ctx context.Context, c *Catalog) error {
	for _, spec := range c.Genres {
		genre := &models.Genre{Name: spec.Name, Category: spec.Category, SEOKeywords: spec.SEOKeywords}
		if err := w.genreRepo.Create(ctx, genre); err != nil {
			return fmt.Errorf("genre %q: %w", spec.Name, err)
		}
		w.genreIDs[spec.Name] = genre.ID
		w.result.Genres++
	}

	for _, spec := range c.Regions {
		region := &models.Region{Name: spec.Name, Prefecture: spec.Prefecture, AreaCode: spec.AreaCode}
		if err := w.regionRepo.Create(ctx, region); err != nil {
			return fmt.Errorf("region %q: %w", spec.Name, err)
		}
		w.regionIDs[spec.Name] = region.ID
		w.result.Regions++
	}

	for i := range c.CommonItems {
		if err := w.writeItem(ctx, c.CommonItems[i].toModel(models.ItemTypeCommon), c.CommonItems[i].Templates); err != nil {
			return err
		}
	}

	for i := range c.GenreItems {
		spec := &c.GenreItems[i]
		item := spec.toModel(models.ItemTypeGenreSpecific)
		id := w.genreIDs[spec.Scope]
		item.GenreID = &id
		if err := w.writeItem(ctx, item, spec.Templates); err != nil {
			return err
		}
	}

	for i := range c.RegionItems {
		spec := &c.RegionItems[i]
		item := spec.toModel(models.ItemTypeRegionSpecific)
		id := w.regionIDs[spec.Scope]
		item.RegionID = &id
		if err := w.writeItem(ctx, item, spec.Templates); err != nil {
			return err
		}
	}

	for _, spec := range c.ComplianceRules {
		rule := &models.ComplianceRule{
			Law:                   spec.Law,
			Description:           spec.Description,
			RequiredItems:         spec.RequiredItems,
			ProhibitedExpressions: spec.ProhibitedExpressions,
			RequiredDisclosures:   spec.RequiredDisclosures,
			ApplicableGenres:      make([]uuid.UUID, 0, len(spec.Genres)),
		}
		for _, name := range spec.Genres {
			rule.ApplicableGenres = append(rule.ApplicableGenres, w.genreIDs[name])
		}
		if err := w.ruleRepo.Create(ctx, rule); err != nil {
			return fmt.Errorf("compliance rule %q: %w", spec.Key, err)
		}
		w.result.ComplianceRules++

		for j := range spec.Items {
			item := spec.Items[j].toModel(models.ItemTypeCompliance)
			item.ComplianceRuleID = &rule.ID
			if err := w.writeItem(ctx, item, spec.Items[j].Templates); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *writer) writeItem(ctx context.Context, item *models.ChecklistItem, templates []TemplateSpec) error {
	if err := w.itemRepo.Create(ctx, item); err != nil {
		return fmt.Errorf("%s item %q: %w", item.Type, item.Name, err)
	}
	w.result.Items++

	for _, spec := range templates {
		tmpl := &models.ContentTemplate{
			ItemID:       item.ID,
			ItemType:     item.Type,
			TemplateType: spec.Type,
			Content:      spec.Content,
			Variables:    spec.Variables,
		}
		if err := w.templateRepo.CreateTemplate(ctx, tmpl); err != nil {
			return fmt.Errorf("template for item %q: %w", item.Name, err)
		}
		w.result.Templates++

		for _, ex := range spec.Examples {
			example := &models.ContentExample{
				TemplateID:         tmpl.ID,
				Title:              ex.Title,
				Content:            ex.Content,
				RecommendedLength:  ex.RecommendedLength,
				KeywordSuggestions: ex.KeywordSuggestions,
			}
			if err := w.templateRepo.CreateExample(ctx, example); err != nil {
				return fmt.Errorf("example %q: %w", ex.Title, err)
			}
			w.result.Examples++
		}
	}
	return nil
}
