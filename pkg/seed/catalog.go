// Package seed loads catalog fixtures from YAML and inserts them into the store.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lpcraft/checklist-engine/pkg/models"
)

// Catalog is the YAML fixture layout. Items reference genres, regions and
// compliance rules by name or key within the same file; templates and their
// examples nest under the item they describe.
type Catalog struct {
	Genres          []GenreSpec          `yaml:"genres"`
	Regions         []RegionSpec         `yaml:"regions"`
	CommonItems     []ItemSpec           `yaml:"common_items"`
	GenreItems      []ScopedItemSpec     `yaml:"genre_items"`
	RegionItems     []ScopedItemSpec     `yaml:"region_items"`
	ComplianceRules []ComplianceRuleSpec `yaml:"compliance_rules"`
}

type GenreSpec struct {
	Name        string               `yaml:"name"`
	Category    models.GenreCategory `yaml:"category"`
	SEOKeywords []string             `yaml:"seo_keywords"`
}

type RegionSpec struct {
	Name       string `yaml:"name"`
	Prefecture string `yaml:"prefecture"`
	AreaCode   string `yaml:"area_code"`
}

type ItemSpec struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Priority    models.Priority `yaml:"priority"`
	SEOWeight   int             `yaml:"seo_weight"`
	Guidelines  *GuidelinesSpec `yaml:"guidelines"`
	Templates   []TemplateSpec  `yaml:"templates"`
}

// ScopedItemSpec is an item attached to one genre or region, named by Scope.
type ScopedItemSpec struct {
	Scope    string `yaml:"scope"`
	ItemSpec `yaml:",inline"`
}

type GuidelinesSpec struct {
	RecommendedLength  int      `yaml:"recommended_length"`
	KeywordSuggestions []string `yaml:"keyword_suggestions"`
	AvoidExpressions   []string `yaml:"avoid_expressions"`
}

type ComplianceRuleSpec struct {
	Key                   string     `yaml:"key"`
	Law                   models.Law `yaml:"law"`
	Description           string     `yaml:"description"`
	RequiredItems         []string   `yaml:"required_items"`
	ProhibitedExpressions []string   `yaml:"prohibited_expressions"`
	RequiredDisclosures   []string   `yaml:"required_disclosures"`
	Genres                []string   `yaml:"genres"`
	Items                 []ItemSpec `yaml:"items"`
}

type TemplateSpec struct {
	Type      models.TemplateType `yaml:"type"`
	Content   string              `yaml:"content"`
	Variables map[string]any      `yaml:"variables"`
	Examples  []ExampleSpec       `yaml:"examples"`
}

type ExampleSpec struct {
	Title              string   `yaml:"title"`
	Content            string   `yaml:"content"`
	RecommendedLength  int      `yaml:"recommended_length"`
	KeywordSuggestions []string `yaml:"keyword_suggestions"`
}

// LoadFile reads and validates a catalog fixture.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	catalog, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return catalog, nil
}

// Parse decodes a catalog fixture, rejecting unknown keys, and validates it.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var catalog Catalog
	if err := dec.Decode(&catalog); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog file is empty")
		}
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// Validate checks enum values, name uniqueness and that every reference
// resolves within the catalog. All problems are reported together.
func (c *Catalog) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	genres := make(map[string]bool, len(c.Genres))
	for i, g := range c.Genres {
		switch {
		case g.Name == "":
			add("genres[%d]: name is required", i)
		case genres[g.Name]:
			add("genres[%d]: duplicate genre %q", i, g.Name)
		}
		if !g.Category.IsValid() {
			add("genre %q: unknown category %q", g.Name, g.Category)
		}
		genres[g.Name] = true
	}

	regions := make(map[string]bool, len(c.Regions))
	for i, r := range c.Regions {
		switch {
		case r.Name == "":
			add("regions[%d]: name is required", i)
		case regions[r.Name]:
			add("regions[%d]: duplicate region %q", i, r.Name)
		}
		regions[r.Name] = true
	}

	for i, item := range c.CommonItems {
		errs = append(errs, item.validate(fmt.Sprintf("common_items[%d]", i))...)
	}
	for i, item := range c.GenreItems {
		where := fmt.Sprintf("genre_items[%d]", i)
		if !genres[item.Scope] {
			add("%s: unknown genre %q", where, item.Scope)
		}
		errs = append(errs, item.validate(where)...)
	}
	for i, item := range c.RegionItems {
		where := fmt.Sprintf("region_items[%d]", i)
		if !regions[item.Scope] {
			add("%s: unknown region %q", where, item.Scope)
		}
		errs = append(errs, item.validate(where)...)
	}

	keys := make(map[string]bool, len(c.ComplianceRules))
	for i, rule := range c.ComplianceRules {
		where := fmt.Sprintf("compliance_rules[%d]", i)
		switch {
		case rule.Key == "":
			add("%s: key is required", where)
		case keys[rule.Key]:
			add("%s: duplicate rule key %q", where, rule.Key)
		}
		keys[rule.Key] = true
		if rule.Law == "" {
			add("%s: law is required", where)
		}
		for _, name := range rule.Genres {
			if !genres[name] {
				add("%s: unknown genre %q", where, name)
			}
		}
		for j, item := range rule.Items {
			errs = append(errs, item.validate(fmt.Sprintf("%s.items[%d]", where, j))...)
		}
	}

	return errors.Join(errs...)
}

func (s *ItemSpec) validate(where string) []error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, fmt.Errorf("%s: name is required", where))
	}
	if !s.Priority.IsValid() {
		errs = append(errs, fmt.Errorf("%s: unknown priority %q", where, s.Priority))
	}
	if s.SEOWeight < 0 {
		errs = append(errs, fmt.Errorf("%s: seo_weight must be non-negative", where))
	}
	for i, t := range s.Templates {
		if !t.Type.IsValid() {
			errs = append(errs, fmt.Errorf("%s.templates[%d]: unknown template type %q", where, i, t.Type))
		}
	}
	return errs
}

func (s *ItemSpec) toModel(itemType models.ItemType) *models.ChecklistItem {
	item := &models.ChecklistItem{
		Type:              itemType,
		Name:              s.Name,
		Description:       s.Description,
		Priority:          s.Priority,
		SEOWeight:         s.SEOWeight,
		ContentGuidelines: models.EmptyContentGuidelines(),
	}
	if s.Guidelines != nil {
		item.ContentGuidelines = models.ContentGuidelines{
			RecommendedLength:  s.Guidelines.RecommendedLength,
			KeywordSuggestions: s.Guidelines.KeywordSuggestions,
			AvoidExpressions:   s.Guidelines.AvoidExpressions,
		}
	}
	return item
}
