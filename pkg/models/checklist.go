package models

// GenerateChecklistInput holds the parameters of a checklist generation.
type GenerateChecklistInput struct {
	Genres            []string
	Region            string
	SEOOptimized      bool
	IncludeCompliance bool
}

// PriorityDistribution counts items per priority. Every priority key is
// always present in the encoded form.
type PriorityDistribution map[Priority]int

// NewPriorityDistribution returns a distribution with every priority at zero.
func NewPriorityDistribution() PriorityDistribution {
	d := make(PriorityDistribution, len(Priorities))
	for _, p := range Priorities {
		d[p] = 0
	}
	return d
}

// Total sums the counts of every priority.
func (d PriorityDistribution) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// ChecklistMetadata summarizes a generated checklist.
type ChecklistMetadata struct {
	TotalCount           int                  `json:"totalCount"`
	PriorityDistribution PriorityDistribution `json:"priorityDistribution"`
}

// Checklist is the result of merging the four item collections.
type Checklist struct {
	CommonItems         []*ChecklistItem  `json:"commonItems"`
	GenreSpecificItems  []*ChecklistItem  `json:"genreSpecificItems"`
	RegionSpecificItems []*ChecklistItem  `json:"regionSpecificItems"`
	ComplianceItems     []*ChecklistItem  `json:"complianceItems"`
	Metadata            ChecklistMetadata `json:"metadata"`
}

// AllItems returns the four lists concatenated in output order.
func (c *Checklist) AllItems() []*ChecklistItem {
	all := make([]*ChecklistItem, 0,
		len(c.CommonItems)+len(c.GenreSpecificItems)+len(c.RegionSpecificItems)+len(c.ComplianceItems))
	all = append(all, c.CommonItems...)
	all = append(all, c.GenreSpecificItems...)
	all = append(all, c.RegionSpecificItems...)
	all = append(all, c.ComplianceItems...)
	return all
}

// Summarize fills Metadata from the current item lists.
func (c *Checklist) Summarize() {
	dist := NewPriorityDistribution()
	all := c.AllItems()
	for _, item := range all {
		dist[item.Priority]++
	}
	c.Metadata = ChecklistMetadata{
		TotalCount:           len(all),
		PriorityDistribution: dist,
	}
}
