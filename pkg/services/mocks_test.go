package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lpcraft/checklist-engine/pkg/apperrors"
	"github.com/lpcraft/checklist-engine/pkg/models"
	"github.com/lpcraft/checklist-engine/pkg/repositories"
)

// mockItemRepo implements repositories.ItemRepository over in-memory slices.
type mockItemRepo struct {
	mu      sync.Mutex
	items   []*models.ChecklistItem
	listErr error
	getErr  error
	calls   map[string]int
}

func newMockItemRepo(items ...*models.ChecklistItem) *mockItemRepo {
	return &mockItemRepo{items: items, calls: map[string]int{}}
}

func (m *mockItemRepo) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[op]++
}

func (m *mockItemRepo) callCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *mockItemRepo) selectItems(order models.ItemOrder, match func(*models.ChecklistItem) bool) []*models.ChecklistItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*models.ChecklistItem{}
	for _, item := range m.items {
		if match(item) {
			result = append(result, item)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return order.Less(result[i], result[j]) })
	return result
}

func (m *mockItemRepo) Create(_ context.Context, item *models.ChecklistItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = uuid.New()
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	m.items = append(m.items, item)
	return nil
}

func (m *mockItemRepo) GetByID(_ context.Context, itemType models.ItemType, id uuid.UUID) (*models.ChecklistItem, error) {
	m.record("GetByID:" + string(itemType))
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.Type == itemType && item.ID == id {
			return item, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockItemRepo) ListCommon(_ context.Context, order models.ItemOrder) ([]*models.ChecklistItem, error) {
	m.record("ListCommon")
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.selectItems(order, func(i *models.ChecklistItem) bool {
		return i.Type == models.ItemTypeCommon
	}), nil
}

func (m *mockItemRepo) ListByGenre(_ context.Context, genreID uuid.UUID, order models.ItemOrder) ([]*models.ChecklistItem, error) {
	m.record("ListByGenre")
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.selectItems(order, func(i *models.ChecklistItem) bool {
		return i.Type == models.ItemTypeGenreSpecific && *i.GenreID == genreID
	}), nil
}

func (m *mockItemRepo) ListByRegion(_ context.Context, regionID uuid.UUID) ([]*models.ChecklistItem, error) {
	m.record("ListByRegion")
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.selectItems(models.OrderByPriority, func(i *models.ChecklistItem) bool {
		return i.Type == models.ItemTypeRegionSpecific && *i.RegionID == regionID
	}), nil
}

func (m *mockItemRepo) ListByComplianceRules(_ context.Context, ruleIDs []uuid.UUID) ([]*models.ChecklistItem, error) {
	m.record("ListByComplianceRules")
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.selectItems(models.OrderByPriority, func(i *models.ChecklistItem) bool {
		if i.Type != models.ItemTypeCompliance {
			return false
		}
		for _, id := range ruleIDs {
			if *i.ComplianceRuleID == id {
				return true
			}
		}
		return false
	}), nil
}

func (m *mockItemRepo) List(_ context.Context, filter repositories.ItemFilter, page models.PageRequest) ([]*models.ChecklistItem, int, error) {
	m.record("List")
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	itemType := filter.Type
	if itemType == "" {
		itemType = models.ItemTypeCommon
	}
	all := m.selectItems(models.OrderByPriority, func(i *models.ChecklistItem) bool {
		if i.Type != itemType {
			return false
		}
		if filter.Priority != "" && i.Priority != filter.Priority {
			return false
		}
		if filter.ScopeID != nil {
			scope, ok := i.ScopeID()
			return ok && scope == *filter.ScopeID
		}
		return true
	})

	start := min(page.Offset(), len(all))
	end := min(start+page.Limit, len(all))
	return all[start:end], len(all), nil
}

// mockGenreRepo implements repositories.GenreRepository.
type mockGenreRepo struct {
	mu      sync.Mutex
	genres  []*models.Genre
	lookups map[string]int
	err     error
}

func newMockGenreRepo(genres ...*models.Genre) *mockGenreRepo {
	return &mockGenreRepo{genres: genres, lookups: map[string]int{}}
}

func (m *mockGenreRepo) Create(_ context.Context, genre *models.Genre) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	genre.ID = uuid.New()
	m.genres = append(m.genres, genre)
	return nil
}

func (m *mockGenreRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Genre, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.genres {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockGenreRepo) GetByName(_ context.Context, name string) (*models.Genre, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups[name]++
	for _, g := range m.genres {
		if g.Name == name {
			return g, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockGenreRepo) List(_ context.Context, filter repositories.GenreFilter, page models.PageRequest) ([]*models.Genre, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*models.Genre
	for _, g := range m.genres {
		if filter.Category == "" || g.Category == filter.Category {
			result = append(result, g)
		}
	}
	return result, len(result), nil
}

// mockRegionRepo implements repositories.RegionRepository.
type mockRegionRepo struct {
	regions []*models.Region
	err     error
}

func (m *mockRegionRepo) Create(_ context.Context, region *models.Region) error {
	region.ID = uuid.New()
	m.regions = append(m.regions, region)
	return nil
}

func (m *mockRegionRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Region, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.regions {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockRegionRepo) GetByName(_ context.Context, name string) (*models.Region, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.regions {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockRegionRepo) List(_ context.Context, filter repositories.RegionFilter, _ models.PageRequest) ([]*models.Region, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	var result []*models.Region
	for _, r := range m.regions {
		if filter.Prefecture == "" || r.Prefecture == filter.Prefecture {
			result = append(result, r)
		}
	}
	return result, len(result), nil
}

// mockRuleRepo implements repositories.ComplianceRuleRepository.
type mockRuleRepo struct {
	rules []*models.ComplianceRule
	err   error
}

func (m *mockRuleRepo) Create(_ context.Context, rule *models.ComplianceRule) error {
	rule.ID = uuid.New()
	m.rules = append(m.rules, rule)
	return nil
}

func (m *mockRuleRepo) GetByID(_ context.Context, id uuid.UUID) (*models.ComplianceRule, error) {
	for _, r := range m.rules {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockRuleRepo) ListByLaw(_ context.Context, law models.Law) ([]*models.ComplianceRule, error) {
	var result []*models.ComplianceRule
	for _, r := range m.rules {
		if r.Law == law {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockRuleRepo) ListByGenreIDs(_ context.Context, genreIDs []uuid.UUID) ([]*models.ComplianceRule, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := []*models.ComplianceRule{}
	for _, r := range m.rules {
		if r.AppliesTo(genreIDs) {
			result = append(result, r)
		}
	}
	return result, nil
}

// mockTemplateRepo implements repositories.TemplateRepository.
type mockTemplateRepo struct {
	templates []*models.ContentTemplate
	examples  []*models.ContentExample
	err       error
}

func (m *mockTemplateRepo) CreateTemplate(_ context.Context, tmpl *models.ContentTemplate) error {
	tmpl.ID = uuid.New()
	m.templates = append(m.templates, tmpl)
	return nil
}

func (m *mockTemplateRepo) CreateExample(_ context.Context, example *models.ContentExample) error {
	example.ID = uuid.New()
	m.examples = append(m.examples, example)
	return nil
}

func (m *mockTemplateRepo) ListByItemID(_ context.Context, itemID uuid.UUID) ([]*models.ContentTemplate, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []*models.ContentTemplate
	for _, t := range m.templates {
		if t.ItemID == itemID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockTemplateRepo) ListByFilter(_ context.Context, filter models.TemplateFilter) ([]*models.ContentTemplate, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []*models.ContentTemplate
	for _, t := range m.templates {
		if filter.ItemType != "" && t.ItemType != filter.ItemType {
			continue
		}
		if filter.TemplateType != "" && t.TemplateType != filter.TemplateType {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (m *mockTemplateRepo) ExamplesByItemID(ctx context.Context, itemID uuid.UUID) ([]*models.ContentExample, error) {
	templates, err := m.ListByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	var result []*models.ContentExample
	for _, t := range templates {
		examples, _ := m.ExamplesByTemplateID(ctx, t.ID)
		result = append(result, examples...)
	}
	return result, nil
}

func (m *mockTemplateRepo) ExamplesByTemplateID(_ context.Context, templateID uuid.UUID) ([]*models.ContentExample, error) {
	var result []*models.ContentExample
	for _, e := range m.examples {
		if e.TemplateID == templateID {
			result = append(result, e)
		}
	}
	return result, nil
}

// mockCustomizationRepo implements repositories.CustomizationRepository.
type mockCustomizationRepo struct {
	rows map[uuid.UUID]*models.UserCustomization
	err  error
}

func newMockCustomizationRepo() *mockCustomizationRepo {
	return &mockCustomizationRepo{rows: map[uuid.UUID]*models.UserCustomization{}}
}

func (m *mockCustomizationRepo) Create(_ context.Context, c *models.UserCustomization) error {
	if m.err != nil {
		return m.err
	}
	c.Normalize()
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	stored := *c
	m.rows[c.ID] = &stored
	return nil
}

func (m *mockCustomizationRepo) GetByID(_ context.Context, id uuid.UUID) (*models.UserCustomization, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return c, nil
}

func (m *mockCustomizationRepo) ListByUser(_ context.Context, userID string, _ models.PageRequest) ([]*models.UserCustomization, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	var result []*models.UserCustomization
	for _, c := range m.rows {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	return result, len(result), nil
}

func (m *mockCustomizationRepo) Update(_ context.Context, c *models.UserCustomization) error {
	existing, ok := m.rows[c.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	c.Normalize()
	c.UserID = existing.UserID
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now()
	stored := *c
	m.rows[c.ID] = &stored
	return nil
}

func (m *mockCustomizationRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

// countingCache records hits and stores entries in memory.
type countingCache struct {
	mu      sync.Mutex
	genres  map[string]*models.Genre
	regions map[string]*models.Region
	hits    int
}

func newCountingCache() *countingCache {
	return &countingCache{genres: map[string]*models.Genre{}, regions: map[string]*models.Region{}}
}

func (c *countingCache) GetGenre(_ context.Context, name string) (*models.Genre, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.genres[name]
	if ok {
		c.hits++
	}
	return g, ok
}

func (c *countingCache) SetGenre(_ context.Context, genre *models.Genre) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.genres[genre.Name] = genre
}

func (c *countingCache) GetRegion(_ context.Context, name string) (*models.Region, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.regions[name]
	if ok {
		c.hits++
	}
	return r, ok
}

func (c *countingCache) SetRegion(_ context.Context, region *models.Region) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regions[region.Name] = region
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
