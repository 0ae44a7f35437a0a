package models

import (
	"time"

	"github.com/google/uuid"
)

// UserCustomization is a user's saved checklist selection for one project.
// Stored in the user_customizations table.
type UserCustomization struct {
	ID              uuid.UUID      `json:"id"`
	UserID          string         `json:"userId"`
	ProjectName     string         `json:"projectName"`
	SelectedGenres  []string       `json:"selectedGenres"`
	SelectedRegions []string       `json:"selectedRegions"`
	SelectedItems   map[string]any `json:"selectedItems"`
	CustomItems     map[string]any `json:"customItems"`
	Settings        map[string]any `json:"settings"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// Normalize replaces nil collections with empty ones.
func (c *UserCustomization) Normalize() {
	if c.SelectedGenres == nil {
		c.SelectedGenres = []string{}
	}
	if c.SelectedRegions == nil {
		c.SelectedRegions = []string{}
	}
	if c.SelectedItems == nil {
		c.SelectedItems = map[string]any{}
	}
	if c.CustomItems == nil {
		c.CustomItems = map[string]any{}
	}
	if c.Settings == nil {
		c.Settings = map[string]any{}
	}
}
