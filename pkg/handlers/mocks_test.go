package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/lpcraft/checklist-engine/pkg/apperrors"
	"github.com/lpcraft/checklist-engine/pkg/models"
	"github.com/lpcraft/checklist-engine/pkg/repositories"
	"github.com/lpcraft/checklist-engine/pkg/services"
)

// mockChecklistService implements services.ChecklistService for handler tests.
type mockChecklistService struct {
	checklist   *models.Checklist
	item        *models.ChecklistItem
	page        *models.Page[*models.ChecklistItem]
	err         error
	calls       int
	lastInput   models.GenerateChecklistInput
	lastFilter  repositories.ItemFilter
	lastPageReq models.PageRequest
}

var _ services.ChecklistService = (*mockChecklistService)(nil)

func (m *mockChecklistService) Generate(_ context.Context, input models.GenerateChecklistInput) (*models.Checklist, error) {
	m.calls++
	m.lastInput = input
	if m.err != nil {
		return nil, m.err
	}
	return m.checklist, nil
}

func (m *mockChecklistService) GetItem(_ context.Context, id uuid.UUID) (*models.ChecklistItem, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.item == nil || m.item.ID != id {
		return nil, apperrors.ErrNotFound
	}
	return m.item, nil
}

func (m *mockChecklistService) ListItems(_ context.Context, filter repositories.ItemFilter, page models.PageRequest) (*models.Page[*models.ChecklistItem], error) {
	m.calls++
	m.lastFilter = filter
	m.lastPageReq = page
	if m.err != nil {
		return nil, m.err
	}
	if m.page != nil {
		return m.page, nil
	}
	return models.NewPage[*models.ChecklistItem](nil, page, 0), nil
}

// mockGenreService implements services.GenreService for handler tests.
type mockGenreService struct {
	genre      *models.Genre
	items      []*models.ChecklistItem
	err        error
	lastFilter repositories.GenreFilter
	calls      int
}

var _ services.GenreService = (*mockGenreService)(nil)

func (m *mockGenreService) List(_ context.Context, filter repositories.GenreFilter, page models.PageRequest) (*models.Page[*models.Genre], error) {
	m.calls++
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	var genres []*models.Genre
	if m.genre != nil {
		genres = append(genres, m.genre)
	}
	return models.NewPage(genres, page, len(genres)), nil
}

func (m *mockGenreService) Get(_ context.Context, id uuid.UUID) (*models.Genre, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.genre == nil || m.genre.ID != id {
		return nil, apperrors.ErrNotFound
	}
	return m.genre, nil
}

func (m *mockGenreService) Items(ctx context.Context, id uuid.UUID) ([]*models.ChecklistItem, error) {
	if _, err := m.Get(ctx, id); err != nil {
		return nil, err
	}
	return m.items, nil
}

// mockRegionService implements services.RegionService for handler tests.
type mockRegionService struct {
	region     *models.Region
	items      []*models.ChecklistItem
	err        error
	lastFilter repositories.RegionFilter
}

var _ services.RegionService = (*mockRegionService)(nil)

func (m *mockRegionService) List(_ context.Context, filter repositories.RegionFilter, page models.PageRequest) (*models.Page[*models.Region], error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	var regions []*models.Region
	if m.region != nil {
		regions = append(regions, m.region)
	}
	return models.NewPage(regions, page, len(regions)), nil
}

func (m *mockRegionService) Get(_ context.Context, id uuid.UUID) (*models.Region, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.region == nil || m.region.ID != id {
		return nil, apperrors.ErrNotFound
	}
	return m.region, nil
}

func (m *mockRegionService) Items(ctx context.Context, id uuid.UUID) ([]*models.ChecklistItem, error) {
	if _, err := m.Get(ctx, id); err != nil {
		return nil, err
	}
	return m.items, nil
}

// mockTemplateService implements services.TemplateService for handler tests.
type mockTemplateService struct {
	templates  []*models.ContentTemplate
	bundle     *models.TemplateBundle
	examples   []*models.ContentExample
	err        error
	lastFilter models.TemplateFilter
	calls      int
}

var _ services.TemplateService = (*mockTemplateService)(nil)

func (m *mockTemplateService) List(_ context.Context, filter models.TemplateFilter) ([]*models.ContentTemplate, error) {
	m.calls++
	m.lastFilter = filter
	return m.templates, m.err
}

func (m *mockTemplateService) Bundle(context.Context, uuid.UUID) (*models.TemplateBundle, error) {
	m.calls++
	return m.bundle, m.err
}

func (m *mockTemplateService) Examples(context.Context, uuid.UUID) ([]*models.ContentExample, error) {
	m.calls++
	return m.examples, m.err
}

// mockCustomizationService implements services.CustomizationService over a map.
type mockCustomizationService struct {
	rows  map[uuid.UUID]*models.UserCustomization
	err   error
	calls int
}

var _ services.CustomizationService = (*mockCustomizationService)(nil)

func newMockCustomizationService() *mockCustomizationService {
	return &mockCustomizationService{rows: map[uuid.UUID]*models.UserCustomization{}}
}

func (m *mockCustomizationService) Save(_ context.Context, c *models.UserCustomization) (*models.UserCustomization, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	c.Normalize()
	c.ID = uuid.New()
	m.rows[c.ID] = c
	return c, nil
}

func (m *mockCustomizationService) Get(_ context.Context, id uuid.UUID) (*models.UserCustomization, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return c, nil
}

func (m *mockCustomizationService) ListByUser(_ context.Context, userID string, page models.PageRequest) (*models.Page[*models.UserCustomization], error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	var result []*models.UserCustomization
	for _, c := range m.rows {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	return models.NewPage(result, page, len(result)), nil
}

func (m *mockCustomizationService) Update(_ context.Context, c *models.UserCustomization) (*models.UserCustomization, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	existing, ok := m.rows[c.ID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c.Normalize()
	c.UserID = existing.UserID
	m.rows[c.ID] = c
	return c, nil
}

func (m *mockCustomizationService) Delete(_ context.Context, id uuid.UUID) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	if _, ok := m.rows[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}
