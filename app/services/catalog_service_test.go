package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/pkg/apperr"
)

func TestProductCreateSlugCollisions(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db)
	editor := seedUser(t, db, "editor", models.RoleEditor)
	cat := seedCategory(t, db, "electronics")

	in := ProductInput{
		Name:       "Gaming Mouse",
		Price:      decimal.RequireFromString("49.99"),
		Stock:      10,
		CategoryID: cat.ID,
	}

	first, err := svc.Create(asActor(editor), in)
	require.NoError(t, err)
	assert.Equal(t, "gaming-mouse", first.Slug)

	second, err := svc.Create(asActor(editor), in)
	require.NoError(t, err)
	assert.Equal(t, "gaming-mouse-1", second.Slug)

	third, err := svc.Create(asActor(editor), in)
	require.NoError(t, err)
	assert.Equal(t, "gaming-mouse-2", third.Slug)
}

func TestProductCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db)
	editor := seedUser(t, db, "editor", models.RoleEditor)
	customer := seedUser(t, db, "buyer", models.RoleCustomer)
	cat := seedCategory(t, db, "electronics")

	_, err := svc.Create(asActor(customer), ProductInput{
		Name: "X", Price: decimal.RequireFromString("1.00"), CategoryID: cat.ID,
	})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = svc.Create(asActor(editor), ProductInput{
		Name: "Free Thing", Price: decimal.Zero, CategoryID: cat.ID,
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "price below 0.01")

	_, err = svc.Create(asActor(editor), ProductInput{
		Name: "Ghost Shelf", Price: decimal.RequireFromString("5.00"), CategoryID: 999,
	})
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "unknown category")
}

func TestProductUpdateRegeneratesSlugOnRename(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db)
	editor := seedUser(t, db, "editor", models.RoleEditor)
	cat := seedCategory(t, db, "electronics")

	p, err := svc.Create(asActor(editor), ProductInput{
		Name: "Old Name", Price: decimal.RequireFromString("9.99"), Stock: 1, CategoryID: cat.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "old-name", p.Slug)

	updated, err := svc.Update(asActor(editor), p.ID, ProductInput{
		Name: "New Name", Price: decimal.RequireFromString("9.99"), Stock: 1, CategoryID: cat.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "new-name", updated.Slug)

	// An unchanged name keeps its slug, with no suffix churn.
	same, err := svc.Update(asActor(editor), p.ID, ProductInput{
		Name: "New Name", Price: decimal.RequireFromString("19.99"), Stock: 1, CategoryID: cat.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "new-name", same.Slug)
}

func TestProductListFilters(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db)
	cat := seedCategory(t, db, "electronics")
	books := seedCategory(t, db, "books")

	seedProduct(t, db, cat.ID, "cheap mouse", "9.99", 5)
	seedProduct(t, db, cat.ID, "fancy mouse", "59.99", 5)
	seedProduct(t, db, books.ID, "go book", "39.99", 5)
	hidden := seedProduct(t, db, cat.ID, "secret mouse", "19.99", 5)
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", hidden.ID).Update("active", false).Error)

	ctx := context.Background()

	byName, _, err := svc.List(ctx, repositories.ProductFilter{Search: "mouse", ActiveOnly: true}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, byName, 2, "inactive products excluded")

	byCategory, _, err := svc.List(ctx, repositories.ProductFilter{CategoryID: books.ID, ActiveOnly: true}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	min := decimal.RequireFromString("30.00")
	max := decimal.RequireFromString("60.00")
	byPrice, meta, err := svc.List(ctx, repositories.ProductFilter{MinPrice: &min, MaxPrice: &max, ActiveOnly: true}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, byPrice, 2)
	assert.EqualValues(t, 2, meta.TotalItems)
}

func TestCategoryDeleteBlockedByProducts(t *testing.T) {
	db := newTestDB(t)
	svc := newCategoryService(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	cat := seedCategory(t, db, "electronics")
	seedProduct(t, db, cat.ID, "mouse", "25.00", 5)

	err := svc.Delete(asActor(admin), cat.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	require.NoError(t, db.Unscoped().Where("category_id = ?", cat.ID).Delete(&models.Product{}).Error)
	assert.NoError(t, svc.Delete(asActor(admin), cat.ID))
}

func TestCategoryCreateAndRename(t *testing.T) {
	db := newTestDB(t)
	svc := newCategoryService(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)

	cat, err := svc.Create(asActor(admin), CategoryInput{Name: "Home & Kitchen"})
	require.NoError(t, err)
	assert.Equal(t, "home-kitchen", cat.Slug)
	assert.True(t, cat.Active)

	renamed, err := svc.Update(asActor(admin), cat.ID, CategoryInput{Name: "Kitchenware"})
	require.NoError(t, err)
	assert.Equal(t, "kitchenware", renamed.Slug)
}
