package models

import (
	"time"

	"github.com/google/uuid"
)

// TemplateType is the format of a content template.
type TemplateType string

const (
	TemplateTypeHTML       TemplateType = "html"
	TemplateTypeText       TemplateType = "text"
	TemplateTypeStructured TemplateType = "structured"
)

// IsValid reports whether t is a known template format.
func (t TemplateType) IsValid() bool {
	switch t {
	case TemplateTypeHTML, TemplateTypeText, TemplateTypeStructured:
		return true
	}
	return false
}

// ContentTemplate is reference markup for writing one checklist item.
type ContentTemplate struct {
	ID           uuid.UUID      `json:"id"`
	ItemID       uuid.UUID      `json:"itemId"`
	ItemType     ItemType       `json:"itemType"`
	TemplateType TemplateType   `json:"templateType"`
	Content      string         `json:"content"`
	Variables    map[string]any `json:"variables"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// ContentExample is a worked example attached to a template.
type ContentExample struct {
	ID                 uuid.UUID `json:"id"`
	TemplateID         uuid.UUID `json:"templateId"`
	Title              string    `json:"title"`
	Content            string    `json:"content"`
	RecommendedLength  int       `json:"recommendedLength"`
	KeywordSuggestions []string  `json:"keywordSuggestions"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// TemplateFilter narrows a template listing. Empty fields match everything.
type TemplateFilter struct {
	ItemType     ItemType
	TemplateType TemplateType
}

// SEOGuideline is one piece of SEO advice for an item.
type SEOGuideline struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Importance     Priority `json:"importance"`
	Implementation string   `json:"implementation"`
}

// TemplateBundle is everything needed to draft one item's content.
type TemplateBundle struct {
	HTMLTemplate    string            `json:"htmlTemplate"`
	CSSTemplate     string            `json:"cssTemplate"`
	StructuredData  map[string]any    `json:"structuredData"`
	ContentExamples []*ContentExample `json:"contentExamples"`
	SEOGuidelines   []SEOGuideline    `json:"seoGuidelines"`
}
