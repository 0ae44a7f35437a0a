package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecklist_SummarizeEmpty(t *testing.T) {
	c := &Checklist{}
	c.Summarize()

	assert.Equal(t, 0, c.Metadata.TotalCount)
	assert.Equal(t, PriorityDistribution{
		PriorityRequired:    0,
		PriorityRecommended: 0,
		PriorityOptional:    0,
	}, c.Metadata.PriorityDistribution)
}

func TestChecklist_SummarizeSumsToTotal(t *testing.T) {
	c := &Checklist{
		CommonItems: []*ChecklistItem{
			{Priority: PriorityRequired},
			{Priority: PriorityRequired},
		},
		GenreSpecificItems: []*ChecklistItem{
			{Priority: PriorityRecommended},
		},
		RegionSpecificItems: []*ChecklistItem{
			{Priority: PriorityOptional},
		},
		ComplianceItems: []*ChecklistItem{
			{Priority: PriorityRequired},
		},
	}
	c.Summarize()

	assert.Equal(t, 5, c.Metadata.TotalCount)
	assert.Equal(t, 3, c.Metadata.PriorityDistribution[PriorityRequired])
	assert.Equal(t, 1, c.Metadata.PriorityDistribution[PriorityRecommended])
	assert.Equal(t, 1, c.Metadata.PriorityDistribution[PriorityOptional])
	assert.Equal(t, c.Metadata.TotalCount, c.Metadata.PriorityDistribution.Total())
}

func TestChecklist_MetadataEncodesAllPriorityKeys(t *testing.T) {
	c := &Checklist{CommonItems: []*ChecklistItem{{Priority: PriorityOptional}}}
	c.Summarize()

	data, err := json.Marshal(c.Metadata)
	require.NoError(t, err)

	var decoded struct {
		TotalCount           int            `json:"totalCount"`
		PriorityDistribution map[string]int `json:"priorityDistribution"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, 1, decoded.TotalCount)
	assert.Equal(t, map[string]int{"required": 0, "recommended": 0, "optional": 1}, decoded.PriorityDistribution)
}
