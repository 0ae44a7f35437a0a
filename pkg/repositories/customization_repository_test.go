//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpcraft/checklist-engine/pkg/apperrors"
	"github.com/lpcraft/checklist-engine/pkg/models"
	"github.com/lpcraft/checklist-engine/pkg/testhelpers"
)

func setupCustomizationTest(t *testing.T) CustomizationRepository {
	testDB := testhelpers.GetTestDB(t)
	testhelpers.ResetTables(t, testDB.DB)
	return NewCustomizationRepository(testDB.DB)
}

func TestCustomizationRepository_CreateDefaultsCollections(t *testing.T) {
	repo := setupCustomizationTest(t)
	ctx := context.Background()

	c := &models.UserCustomization{UserID: "user-1", ProjectName: "渋谷院LP"}
	require.NoError(t, repo.Create(ctx, c))

	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.SelectedGenres)
	assert.Equal(t, []string{}, got.SelectedRegions)
	assert.Equal(t, map[string]any{}, got.SelectedItems)
	assert.Equal(t, map[string]any{}, got.CustomItems)
	assert.Equal(t, map[string]any{}, got.Settings)
}

func TestCustomizationRepository_UpdateReplacesFields(t *testing.T) {
	repo := setupCustomizationTest(t)
	ctx := context.Background()

	c := &models.UserCustomization{
		UserID:         "user-1",
		ProjectName:    "before",
		SelectedGenres: []string{"医療脱毛"},
		Settings:       map[string]any{"theme": "light"},
	}
	require.NoError(t, repo.Create(ctx, c))
	createdAt := c.CreatedAt

	update := &models.UserCustomization{
		ID:          c.ID,
		UserID:      "someone-else",
		ProjectName: "after",
	}
	require.NoError(t, repo.Update(ctx, update))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.ProjectName)
	assert.Equal(t, "user-1", got.UserID, "owner must not change")
	assert.Equal(t, []string{}, got.SelectedGenres)
	assert.Equal(t, map[string]any{}, got.Settings)
	assert.WithinDuration(t, createdAt, got.CreatedAt, time.Millisecond)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestCustomizationRepository_UpdateMissingDoesNotCreate(t *testing.T) {
	repo := setupCustomizationTest(t)
	ctx := context.Background()

	missing := uuid.New()
	err := repo.Update(ctx, &models.UserCustomization{ID: missing, ProjectName: "ghost"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = repo.GetByID(ctx, missing)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCustomizationRepository_DeleteTwice(t *testing.T) {
	repo := setupCustomizationTest(t)
	ctx := context.Background()

	c := &models.UserCustomization{UserID: "user-1", ProjectName: "p"}
	require.NoError(t, repo.Create(ctx, c))

	deleted, err := repo.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCustomizationRepository_ListByUserScopedAndOrdered(t *testing.T) {
	repo := setupCustomizationTest(t)
	ctx := context.Background()

	var last *models.UserCustomization
	for i := 0; i < 3; i++ {
		c := &models.UserCustomization{UserID: "owner", ProjectName: uuid.NewString()}
		require.NoError(t, repo.Create(ctx, c))
		last = c
	}
	require.NoError(t, repo.Create(ctx, &models.UserCustomization{UserID: "other", ProjectName: "x"}))

	// Touch the last one so it sorts first regardless of insert timing
	last.ProjectName = "touched"
	require.NoError(t, repo.Update(ctx, last))

	list, total, err := repo.ListByUser(ctx, "owner", models.PageRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 2)
	assert.Equal(t, last.ID, list[0].ID)
	for _, c := range list {
		assert.Equal(t, "owner", c.UserID)
	}

	none, total, err := repo.ListByUser(ctx, "nobody", models.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, none)
}
