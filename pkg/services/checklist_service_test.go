package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/lpcraft/checklist-engine/pkg/apperrors"
	"github.com/lpcraft/checklist-engine/pkg/models"
	"github.com/lpcraft/checklist-engine/pkg/repositories"
)

type checklistFixture struct {
	items    *mockItemRepo
	genres   *mockGenreRepo
	regions  *mockRegionRepo
	rules    *mockRuleRepo
	datsumo  *models.Genre
	gym      *models.Genre
	shibuya  *models.Region
	yakkihou *models.ComplianceRule
}

func newChecklistFixture() *checklistFixture {
	f := &checklistFixture{
		datsumo: &models.Genre{ID: uuid.New(), Name: "医療脱毛", Category: models.GenreCategoryMedical},
		gym:     &models.Genre{ID: uuid.New(), Name: "パーソナルジム", Category: models.GenreCategoryFitness},
		shibuya: &models.Region{ID: uuid.New(), Name: "渋谷", Prefecture: "東京都"},
	}
	f.yakkihou = &models.ComplianceRule{
		ID:               uuid.New(),
		Law:              models.LawPharmaceuticalAffairs,
		ApplicableGenres: []uuid.UUID{f.datsumo.ID},
	}

	item := func(t models.ItemType, name string, p models.Priority, weight int) *models.ChecklistItem {
		return &models.ChecklistItem{
			ID:                uuid.New(),
			Type:              t,
			Name:              name,
			Priority:          p,
			SEOWeight:         weight,
			ContentGuidelines: models.EmptyContentGuidelines(),
		}
	}

	genreItem := func(g *models.Genre, name string, p models.Priority, weight int) *models.ChecklistItem {
		i := item(models.ItemTypeGenreSpecific, name, p, weight)
		i.GenreID = uuidPtr(g.ID)
		return i
	}

	access := item(models.ItemTypeRegionSpecific, "アクセス情報", models.PriorityRequired, 0)
	access.RegionID = uuidPtr(f.shibuya.ID)
	expressions := item(models.ItemTypeCompliance, "効果効能の表現", models.PriorityRequired, 0)
	expressions.ComplianceRuleID = uuidPtr(f.yakkihou.ID)

	f.items = newMockItemRepo(
		item(models.ItemTypeCommon, "料金表", models.PriorityRequired, 90),
		item(models.ItemTypeCommon, "口コミ", models.PriorityRecommended, 95),
		item(models.ItemTypeCommon, "FAQ", models.PriorityOptional, 50),
		genreItem(f.datsumo, "施術の流れ", models.PriorityRequired, 80),
		genreItem(f.datsumo, "医師紹介", models.PriorityRecommended, 85),
		genreItem(f.gym, "トレーナー紹介", models.PriorityRequired, 70),
		access,
		expressions,
	)
	f.genres = newMockGenreRepo(f.datsumo, f.gym)
	f.regions = &mockRegionRepo{regions: []*models.Region{f.shibuya}}
	f.rules = &mockRuleRepo{rules: []*models.ComplianceRule{f.yakkihou}}
	return f
}

func (f *checklistFixture) service(cache NameCache) ChecklistService {
	resolver := NewNameResolver(f.genres, f.regions, cache)
	return NewChecklistService(f.items, f.rules, resolver, nil, zap.NewNop())
}

func names(items []*models.ChecklistItem) []string {
	result := make([]string, len(items))
	for i, item := range items {
		result[i] = item.Name
	}
	return result
}

func TestChecklistService_Generate_DefaultOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newChecklistFixture()
	svc := f.service(nil)

	checklist, err := svc.Generate(context.Background(), models.GenerateChecklistInput{
		Genres:            []string{"医療脱毛"},
		Region:            "渋谷",
		IncludeCompliance: true,
	})
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"料金表", "口コミ", "FAQ"}, names(checklist.CommonItems)); diff != "" {
		t.Errorf("common items mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"施術の流れ", "医師紹介"}, names(checklist.GenreSpecificItems)); diff != "" {
		t.Errorf("genre items mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"アクセス情報"}, names(checklist.RegionSpecificItems))
	assert.Equal(t, []string{"効果効能の表現"}, names(checklist.ComplianceItems))

	assert.Equal(t, 7, checklist.Metadata.TotalCount)
	assert.Equal(t, checklist.Metadata.TotalCount, checklist.Metadata.PriorityDistribution.Total())
	assert.Equal(t, 4, checklist.Metadata.PriorityDistribution[models.PriorityRequired])
	assert.Equal(t, 2, checklist.Metadata.PriorityDistribution[models.PriorityRecommended])
	assert.Equal(t, 1, checklist.Metadata.PriorityDistribution[models.PriorityOptional])
}

func TestChecklistService_Generate_SEOOptimizedOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newChecklistFixture()
	svc := f.service(nil)

	checklist, err := svc.Generate(context.Background(), models.GenerateChecklistInput{
		Genres:       []string{"医療脱毛"},
		SEOOptimized: true,
	})
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"口コミ", "料金表", "FAQ"}, names(checklist.CommonItems)); diff != "" {
		t.Errorf("common items mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"医師紹介", "施術の流れ"}, names(checklist.GenreSpecificItems)); diff != "" {
		t.Errorf("genre items mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, checklist.RegionSpecificItems)
	assert.NotNil(t, checklist.RegionSpecificItems)
	assert.Empty(t, checklist.ComplianceItems)
	assert.NotNil(t, checklist.ComplianceItems)
}

func TestChecklistService_Generate_GenreOrderDuplicatesAndMisses(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newChecklistFixture()
	svc := f.service(nil)

	checklist, err := svc.Generate(context.Background(), models.GenerateChecklistInput{
		Genres: []string{"パーソナルジム", "存在しないジャンル", "医療脱毛", "パーソナルジム"},
	})
	require.NoError(t, err)

	want := []string{"トレーナー紹介", "施術の流れ", "医師紹介", "トレーナー紹介"}
	if diff := cmp.Diff(want, names(checklist.GenreSpecificItems)); diff != "" {
		t.Errorf("genre items mismatch (-want +got):\n%s", diff)
	}
}

func TestChecklistService_Generate_NoGenreResolves(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newChecklistFixture()
	svc := f.service(nil)

	checklist, err := svc.Generate(context.Background(), models.GenerateChecklistInput{
		Genres:            []string{"未登録"},
		Region:            "未登録の地域",
		IncludeCompliance: true,
	})
	require.NoError(t, err)

	assert.Len(t, checklist.CommonItems, 3)
	assert.Empty(t, checklist.GenreSpecificItems)
	assert.Empty(t, checklist.RegionSpecificItems)
	assert.Empty(t, checklist.ComplianceItems)
	assert.Equal(t, 0, f.items.callCount("ListByComplianceRules"))
	assert.Equal(t, 3, checklist.Metadata.TotalCount)
}

func TestChecklistService_Generate_ComplianceRulesForOtherGenres(t *testing.T) {
	f := newChecklistFixture()
	svc := f.service(nil)

	checklist, err := svc.Generate(context.Background(), models.GenerateChecklistInput{
		Genres:            []string{"パーソナルジム"},
		IncludeCompliance: true,
	})
	require.NoError(t, err)
	assert.Empty(t, checklist.ComplianceItems)
	assert.Equal(t, 0, f.items.callCount("ListByComplianceRules"))
}

func TestChecklistService_Generate_EmptyGenres(t *testing.T) {
	f := newChecklistFixture()
	svc := f.service(nil)

	_, err := svc.Generate(context.Background(), models.GenerateChecklistInput{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, 0, f.items.callCount("ListCommon"))
}

func TestChecklistService_Generate_StoreFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newChecklistFixture()
	f.items.listErr = errors.New("connection reset")
	svc := f.service(nil)

	checklist, err := svc.Generate(context.Background(), models.GenerateChecklistInput{
		Genres:            []string{"医療脱毛", "パーソナルジム"},
		Region:            "渋谷",
		IncludeCompliance: true,
	})
	require.Error(t, err)
	assert.Nil(t, checklist)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestChecklistService_Generate_CanceledContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newChecklistFixture()
	f.genres.err = context.Canceled
	svc := f.service(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, models.GenerateChecklistInput{Genres: []string{"医療脱毛"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChecklistService_Generate_UsesNameCache(t *testing.T) {
	f := newChecklistFixture()
	cache := newCountingCache()
	svc := f.service(cache)

	input := models.GenerateChecklistInput{Genres: []string{"医療脱毛"}, Region: "渋谷"}
	_, err := svc.Generate(context.Background(), input)
	require.NoError(t, err)
	_, err = svc.Generate(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 1, f.genres.lookups["医療脱毛"])
	assert.Equal(t, 2, cache.hits)
}

func TestChecklistService_GetItem_ProbeOrder(t *testing.T) {
	f := newChecklistFixture()
	svc := f.service(nil)

	region := f.items.items[6]
	require.Equal(t, models.ItemTypeRegionSpecific, region.Type)

	got, err := svc.GetItem(context.Background(), region.ID)
	require.NoError(t, err)
	assert.Equal(t, region.ID, got.ID)
	assert.Equal(t, models.ItemTypeRegionSpecific, got.Type)

	assert.Equal(t, 1, f.items.callCount("GetByID:common"))
	assert.Equal(t, 1, f.items.callCount("GetByID:genre_specific"))
	assert.Equal(t, 1, f.items.callCount("GetByID:region_specific"))
	assert.Equal(t, 0, f.items.callCount("GetByID:compliance"))
}

func TestChecklistService_GetItem_NotFound(t *testing.T) {
	f := newChecklistFixture()
	svc := f.service(nil)

	_, err := svc.GetItem(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 1, f.items.callCount("GetByID:compliance"))
}

func TestChecklistService_GetItem_StoreError(t *testing.T) {
	f := newChecklistFixture()
	f.items.getErr = errors.New("timeout")
	svc := f.service(nil)

	_, err := svc.GetItem(context.Background(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 0, f.items.callCount("GetByID:genre_specific"))
}

func TestChecklistService_ListItems(t *testing.T) {
	f := newChecklistFixture()
	svc := f.service(nil)

	page, err := svc.ListItems(context.Background(), repositories.ItemFilter{}, models.PageRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"料金表", "口コミ"}, names(page.Data))
	assert.Equal(t, models.Pagination{Page: 1, Limit: 2, Total: 3, TotalPages: 2}, page.Pagination)

	page, err = svc.ListItems(context.Background(), repositories.ItemFilter{
		Type:     models.ItemTypeGenreSpecific,
		ScopeID:  uuidPtr(f.datsumo.ID),
		Priority: models.PriorityRecommended,
	}, models.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"医師紹介"}, names(page.Data))
}

func TestChecklistService_ListItems_EmptyResult(t *testing.T) {
	f := newChecklistFixture()
	svc := f.service(nil)

	page, err := svc.ListItems(context.Background(), repositories.ItemFilter{
		Type:    models.ItemTypeRegionSpecific,
		ScopeID: uuidPtr(uuid.New()),
	}, models.DefaultPageRequest())
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, 0, page.Pagination.Total)
	assert.Equal(t, 0, page.Pagination.TotalPages)
}

func TestChecklistService_ListItems_ScopeRequired(t *testing.T) {
	f := newChecklistFixture()
	svc := f.service(nil)

	for _, itemType := range []models.ItemType{models.ItemTypeGenreSpecific, models.ItemTypeRegionSpecific} {
		_, err := svc.ListItems(context.Background(), repositories.ItemFilter{Type: itemType}, models.DefaultPageRequest())
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, itemType)
	}
	assert.Equal(t, 0, f.items.callCount("List"))
}
