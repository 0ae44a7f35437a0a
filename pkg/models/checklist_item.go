package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Priority is the importance tier of a checklist item.
type Priority string

const (
	PriorityRequired    Priority = "required"
	PriorityRecommended Priority = "recommended"
	PriorityOptional    Priority = "optional"
)

// Priorities lists every priority from highest to lowest precedence.
var Priorities = []Priority{PriorityRequired, PriorityRecommended, PriorityOptional}

// IsValid reports whether p is one of the three known priorities.
func (p Priority) IsValid() bool {
	return p.Rank() > 0
}

// Rank returns the display precedence of p: 3 for required, 2 for
// recommended, 1 for optional and 0 for anything else.
func (p Priority) Rank() int {
	switch p {
	case PriorityRequired:
		return 3
	case PriorityRecommended:
		return 2
	case PriorityOptional:
		return 1
	default:
		return 0
	}
}

// ItemType discriminates the four checklist item variants.
type ItemType string

const (
	ItemTypeCommon         ItemType = "common"
	ItemTypeGenreSpecific  ItemType = "genre_specific"
	ItemTypeRegionSpecific ItemType = "region_specific"
	ItemTypeCompliance     ItemType = "compliance"
)

// ItemTypes lists the variants in single-item lookup probe order.
var ItemTypes = []ItemType{
	ItemTypeCommon,
	ItemTypeGenreSpecific,
	ItemTypeRegionSpecific,
	ItemTypeCompliance,
}

// IsValid reports whether t is one of the four variants.
func (t ItemType) IsValid() bool {
	for _, known := range ItemTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ContentGuidelines describes how the section content should be written.
type ContentGuidelines struct {
	RecommendedLength  int      `json:"recommendedLength"`
	KeywordSuggestions []string `json:"keywordSuggestions"`
	AvoidExpressions   []string `json:"avoidExpressions"`
}

// EmptyContentGuidelines returns guidelines with non-nil empty slices so they
// encode as [] rather than null.
func EmptyContentGuidelines() ContentGuidelines {
	return ContentGuidelines{
		KeywordSuggestions: []string{},
		AvoidExpressions:   []string{},
	}
}

// Normalize replaces nil slices with empty ones.
func (g *ContentGuidelines) Normalize() {
	if g.KeywordSuggestions == nil {
		g.KeywordSuggestions = []string{}
	}
	if g.AvoidExpressions == nil {
		g.AvoidExpressions = []string{}
	}
}

// ChecklistItem is a recommended landing page section. Type decides which of
// GenreID, RegionID and ComplianceRuleID is populated; common items carry none.
type ChecklistItem struct {
	ID                uuid.UUID         `json:"id"`
	Type              ItemType          `json:"type"`
	GenreID           *uuid.UUID        `json:"genreId,omitempty"`
	RegionID          *uuid.UUID        `json:"regionId,omitempty"`
	ComplianceRuleID  *uuid.UUID        `json:"complianceRuleId,omitempty"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	Priority          Priority          `json:"priority"`
	SEOWeight         int               `json:"seoWeight"`
	ContentGuidelines ContentGuidelines `json:"contentGuidelines"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// ScopeID returns the foreign key the variant is scoped by.
// The boolean is false for common items.
func (i *ChecklistItem) ScopeID() (uuid.UUID, bool) {
	switch i.Type {
	case ItemTypeGenreSpecific:
		return derefID(i.GenreID)
	case ItemTypeRegionSpecific:
		return derefID(i.RegionID)
	case ItemTypeCompliance:
		return derefID(i.ComplianceRuleID)
	default:
		return uuid.Nil, false
	}
}

// Validate checks that exactly the foreign key belonging to the item's type is set.
func (i *ChecklistItem) Validate() error {
	if !i.Type.IsValid() {
		return fmt.Errorf("unknown item type %q", i.Type)
	}
	if !i.Priority.IsValid() {
		return fmt.Errorf("unknown priority %q", i.Priority)
	}
	if i.SEOWeight < 0 {
		return fmt.Errorf("seo weight must be non-negative, got %d", i.SEOWeight)
	}

	want := map[ItemType]bool{
		ItemTypeGenreSpecific:  i.GenreID != nil,
		ItemTypeRegionSpecific: i.RegionID != nil,
		ItemTypeCompliance:     i.ComplianceRuleID != nil,
	}
	for t, set := range want {
		if t == i.Type && !set {
			return fmt.Errorf("%s item is missing its scope id", i.Type)
		}
		if t != i.Type && set {
			return fmt.Errorf("%s item must not reference a %s scope", i.Type, t)
		}
	}
	return nil
}

func derefID(id *uuid.UUID) (uuid.UUID, bool) {
	if id == nil {
		return uuid.Nil, false
	}
	return *id, true
}

// ItemOrder selects the sort policy for common and genre-specific items.
type ItemOrder int

const (
	// OrderByPriority sorts by priority desc, then SEO weight desc.
	OrderByPriority ItemOrder = iota
	// OrderBySEOWeight sorts by SEO weight desc, then priority desc.
	OrderBySEOWeight
)

// OrderFor maps the seoOptimized flag to an ItemOrder.
func OrderFor(seoOptimized bool) ItemOrder {
	if seoOptimized {
		return OrderBySEOWeight
	}
	return OrderByPriority
}

// Less reports whether a sorts before b under the order. Remaining ties
// break on name and then id so the order is total.
func (o ItemOrder) Less(a, b *ChecklistItem) bool {
	ra, rb := a.Priority.Rank(), b.Priority.Rank()
	if o == OrderBySEOWeight {
		if a.SEOWeight != b.SEOWeight {
			return a.SEOWeight > b.SEOWeight
		}
		if ra != rb {
			return ra > rb
		}
	} else {
		if ra != rb {
			return ra > rb
		}
		if a.SEOWeight != b.SEOWeight {
			return a.SEOWeight > b.SEOWeight
		}
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID.String() < b.ID.String()
}
