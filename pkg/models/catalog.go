// Package models contains domain types for the checklist engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// GenreCategory is the closed set of classes a genre belongs to.
type GenreCategory string

const (
	GenreCategoryMedical GenreCategory = "medical"
	GenreCategoryBeauty  GenreCategory = "beauty"
	GenreCategoryFitness GenreCategory = "fitness"
	GenreCategoryGeneral GenreCategory = "general"
)

// GenreCategories lists every valid genre category.
var GenreCategories = []GenreCategory{
	GenreCategoryMedical,
	GenreCategoryBeauty,
	GenreCategoryFitness,
	GenreCategoryGeneral,
}

// IsValid reports whether c is one of the known categories.
func (c GenreCategory) IsValid() bool {
	for _, known := range GenreCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Genre is a business category ("医療脱毛", "パーソナルジム", ...).
// Stored in the genres table.
type Genre struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Category    GenreCategory `json:"category"`
	SEOKeywords []string      `json:"seoKeywords"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Region is a geographic area a landing page targets.
// Stored in the regions table.
type Region struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Prefecture string    `json:"prefecture"`
	AreaCode   string    `json:"areaCode"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Law names the regulation a compliance rule derives from.
type Law string

const (
	LawPharmaceuticalAffairs   Law = "薬機法"
	LawPremiumsRepresentations Law = "景品表示法"
	LawPersonalInformation     Law = "個人情報保護法"
)

// ComplianceRule groups compliance items under one law and lists the genres
// it applies to.
type ComplianceRule struct {
	ID                    uuid.UUID   `json:"id"`
	Law                   Law         `json:"law"`
	Description           string      `json:"description"`
	RequiredItems         []string    `json:"requiredItems"`
	ProhibitedExpressions []string    `json:"prohibitedExpressions"`
	RequiredDisclosures   []string    `json:"requiredDisclosures"`
	ApplicableGenres      []uuid.UUID `json:"applicableGenres"`
	CreatedAt             time.Time   `json:"createdAt"`
	UpdatedAt             time.Time   `json:"updatedAt"`
}

// AppliesTo reports whether the rule covers any of the given genre ids.
func (r *ComplianceRule) AppliesTo(genreIDs []uuid.UUID) bool {
	for _, applicable := range r.ApplicableGenres {
		for _, id := range genreIDs {
			if applicable == id {
				return true
			}
		}
	}
	return false
}
