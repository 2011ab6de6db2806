package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/gearhub/gearhub-backend/apperrors"
	"github.com/gearhub/gearhub-backend/dto"
	"github.com/gearhub/gearhub-backend/models"
	"github.com/gearhub/gearhub-backend/store"
)

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	var ae *apperrors.AppError
	require.True(t, errors.As(err, &ae), "expected AppError, got %v", err)
	assert.Equal(t, code, ae.Code)
}

func newCategoryService() (*CategoryService, *store.MemoryCategoryStore) {
	categories := store.NewMemoryCategoryStore()
	return NewCategoryService(categories), categories
}

func mustCreate(t *testing.T, svc *CategoryService, name, parentID string) *models.Category {
	t.Helper()
	cat, err := svc.Create(context.Background(), dto.CreateCategoryDTO{
		Name:        name,
		Description: name + " parts and accessories",
		ParentId:    parentID,
	})
	require.NoError(t, err)
	return cat
}

func TestCategoryCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("root_category", func(t *testing.T) {
		svc, _ := newCategoryService()

		cat, err := svc.Create(ctx, dto.CreateCategoryDTO{Name: "Brake Pads!", Description: "Pads for every car"})
		require.NoError(t, err)

		assert.False(t, cat.Id.IsZero())
		assert.Equal(t, "brake-pads", cat.Slug)
		assert.Nil(t, cat.ParentId)
		assert.False(t, cat.CreatedAt.IsZero())
		assert.Equal(t, cat.CreatedAt, cat.UpdatedAt)
	})

	t.Run("missing_fields", func(t *testing.T) {
		svc, _ := newCategoryService()

		_, err := svc.Create(ctx, dto.CreateCategoryDTO{Name: "Brakes"})
		assertAppError(t, err, "INVALID_INPUT")

		_, err = svc.Create(ctx, dto.CreateCategoryDTO{Description: "no name"})
		assertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_name_same_parent", func(t *testing.T) {
		svc, _ := newCategoryService()
		mustCreate(t, svc, "Brakes", "")

		_, err := svc.Create(ctx, dto.CreateCategoryDTO{Name: "Brakes", Description: "second time around"})
		assertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("same_name_different_parent_allowed", func(t *testing.T) {
		svc, _ := newCategoryService()
		parent := mustCreate(t, svc, "Brakes", "")

		cat, err := svc.Create(ctx, dto.CreateCategoryDTO{
			Name:        "Brakes",
			Description: "nested brakes",
			ParentId:    parent.Id.Hex(),
		})
		require.NoError(t, err)
		require.NotNil(t, cat.ParentId)
		assert.Equal(t, parent.Id, *cat.ParentId)
	})

	t.Run("unknown_parent", func(t *testing.T) {
		svc, _ := newCategoryService()

		_, err := svc.Create(ctx, dto.CreateCategoryDTO{
			Name:        "Brakes",
			Description: "orphan to be",
			ParentId:    bson.NewObjectID().Hex(),
		})
		assertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("child_id_appended_to_parent", func(t *testing.T) {
		svc, categories := newCategoryService()
		parent := mustCreate(t, svc, "Engine", "")
		child := mustCreate(t, svc, "Pistons", parent.Id.Hex())

		stored, err := categories.FindByID(ctx, parent.Id)
		require.NoError(t, err)
		require.Len(t, stored.SubcategoryIds, 1)
		assert.Equal(t, child.Id, stored.SubcategoryIds[0])
	})
}

func TestCategoryGet(t *testing.T) {
	ctx := context.Background()

	t.Run("not_found", func(t *testing.T) {
		svc, _ := newCategoryService()

		_, err := svc.Get(ctx, bson.NewObjectID())
		assertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("resolves_parent_name", func(t *testing.T) {
		svc, _ := newCategoryService()
		parent := mustCreate(t, svc, "Engine", "")
		child := mustCreate(t, svc, "Pistons", parent.Id.Hex())

		detail, err := svc.Get(ctx, child.Id)
		require.NoError(t, err)
		assert.Equal(t, "Engine", detail.ParentName)

		rootDetail, err := svc.Get(ctx, parent.Id)
		require.NoError(t, err)
		assert.Empty(t, rootDetail.ParentName)
	})
}

func TestCategoryUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("not_found", func(t *testing.T) {
		svc, _ := newCategoryService()

		_, err := svc.Update(ctx, bson.NewObjectID(), dto.UpdateCategoryDTO{Name: "Anything"})
		assertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("rename_recomputes_slug", func(t *testing.T) {
		svc, _ := newCategoryService()
		cat := mustCreate(t, svc, "Brakes", "")

		updated, err := svc.Update(ctx, cat.Id, dto.UpdateCategoryDTO{Name: "Brake Pads!"})
		require.NoError(t, err)
		assert.Equal(t, "Brake Pads!", updated.Name)
		assert.Equal(t, "brake-pads", updated.Slug)
	})

	t.Run("empty_fields_leave_values", func(t *testing.T) {
		svc, _ := newCategoryService()
		cat := mustCreate(t, svc, "Brakes", "")

		updated, err := svc.Update(ctx, cat.Id, dto.UpdateCategoryDTO{Description: "high performance pads"})
		require.NoError(t, err)
		assert.Equal(t, "Brakes", updated.Name)
		assert.Equal(t, cat.Slug, updated.Slug)
		assert.Equal(t, "high performance pads", updated.Description)
		assert.False(t, updated.UpdatedAt.Before(cat.UpdatedAt))
	})

	t.Run("reparent", func(t *testing.T) {
		svc, _ := newCategoryService()
		a := mustCreate(t, svc, "Engine", "")
		b := mustCreate(t, svc, "Filters", "")

		updated, err := svc.Update(ctx, b.Id, dto.UpdateCategoryDTO{ParentId: a.Id.Hex()})
		require.NoError(t, err)
		require.NotNil(t, updated.ParentId)
		assert.Equal(t, a.Id, *updated.ParentId)
	})

	t.Run("self_parent_rejected", func(t *testing.T) {
		svc, _ := newCategoryService()
		cat := mustCreate(t, svc, "Engine", "")

		_, err := svc.Update(ctx, cat.Id, dto.UpdateCategoryDTO{ParentId: cat.Id.Hex()})
		assertAppError(t, err, "CATEGORY_CYCLE")
	})

	t.Run("descendant_parent_rejected", func(t *testing.T) {
		svc, _ := newCategoryService()
		a := mustCreate(t, svc, "Engine", "")
		b := mustCreate(t, svc, "Pistons", a.Id.Hex())
		c := mustCreate(t, svc, "Piston Rings", b.Id.Hex())

		_, err := svc.Update(ctx, a.Id, dto.UpdateCategoryDTO{ParentId: c.Id.Hex()})
		assertAppError(t, err, "CATEGORY_CYCLE")
	})
}

func TestCategoryDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("not_found", func(t *testing.T) {
		svc, _ := newCategoryService()

		err := svc.Delete(ctx, bson.NewObjectID())
		assertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("blocked_by_children", func(t *testing.T) {
		svc, _ := newCategoryService()
		parent := mustCreate(t, svc, "Engine", "")
		mustCreate(t, svc, "Pistons", parent.Id.Hex())

		err := svc.Delete(ctx, parent.Id)
		assertAppError(t, err, "CATEGORY_HAS_CHILDREN")
	})

	t.Run("leaf_deleted", func(t *testing.T) {
		svc, _ := newCategoryService()
		parent := mustCreate(t, svc, "Engine", "")
		child := mustCreate(t, svc, "Pistons", parent.Id.Hex())

		require.NoError(t, svc.Delete(ctx, child.Id))

		_, err := svc.Get(ctx, child.Id)
		assertAppError(t, err, "CATEGORY_NOT_FOUND")

		// parent is now a leaf and deletable
		require.NoError(t, svc.Delete(ctx, parent.Id))
	})
}

func TestCategoryCount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCategoryService()

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	mustCreate(t, svc, "Engine", "")
	mustCreate(t, svc, "Brakes", "")

	n, err = svc.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestCategorySearch(t *testing.T) {
	ctx := context.Background()

	t.Run("empty_query", func(t *testing.T) {
		svc, _ := newCategoryService()

		_, err := svc.Search(ctx, "")
		assertAppError(t, err, "INVALID_INPUT")

		_, err = svc.Search(ctx, "   ")
		assertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("no_matches", func(t *testing.T) {
		svc, _ := newCategoryService()
		mustCreate(t, svc, "Engine", "")

		result, err := svc.Search(ctx, "zzz")
		require.NoError(t, err)
		assert.Equal(t, 0, result.Count)
		assert.Len(t, result.Results, 0)
		assert.Equal(t, "zzz", result.Query)
	})

	t.Run("parent_included_for_context", func(t *testing.T) {
		svc, _ := newCategoryService()
		parent := mustCreate(t, svc, "Engine", "")
		child := mustCreate(t, svc, "Pistons", parent.Id.Hex())

		result, err := svc.Search(ctx, "piston")
		require.NoError(t, err)

		// only the child matched, but the tree shows it under its parent
		assert.Equal(t, 1, result.Count)
		require.Len(t, result.Results, 1)
		assert.Equal(t, parent.Id, result.Results[0].Id)
		require.Len(t, result.Results[0].Subcategories, 1)
		assert.Equal(t, child.Id, result.Results[0].Subcategories[0].Id)
	})

	t.Run("matching_parent_not_duplicated", func(t *testing.T) {
		svc, _ := newCategoryService()
		parent := mustCreate(t, svc, "Brakes", "")
		mustCreate(t, svc, "Brake Pads", parent.Id.Hex())

		result, err := svc.Search(ctx, "brake")
		require.NoError(t, err)

		assert.Equal(t, 2, result.Count)
		require.Len(t, result.Results, 1)
		require.Len(t, result.Results[0].Subcategories, 1)
	})

	t.Run("matches_description_case_insensitive", func(t *testing.T) {
		svc, _ := newCategoryService()
		cat, err := svc.Create(ctx, dto.CreateCategoryDTO{
			Name:        "Filters",
			Description: "OEM oil filters for most makes",
		})
		require.NoError(t, err)

		result, err := svc.Search(ctx, "OIL")
		require.NoError(t, err)
		assert.Equal(t, 1, result.Count)
		require.Len(t, result.Results, 1)
		assert.Equal(t, cat.Id, result.Results[0].Id)
	})
}
