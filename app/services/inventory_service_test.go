package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/pkg/apperr"
)

func TestReserveDecrementsUnderStock(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(repositories.NewProductRepository(db))
	cat := seedCategory(t, db, "electronics")
	mouse := seedProduct(t, db, cat.ID, "mouse", "25.00", 10)

	err := db.Transaction(func(tx *gorm.DB) error {
		p, err := svc.Reserve(tx, mouse.ID, 4)
		require.NoError(t, err)
		assert.Equal(t, "mouse", p.Name)
		assert.Equal(t, 6, p.Stock)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 6, productStock(t, db, mouse.ID))
}

func TestReserveRollsBackWithTransaction(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(repositories.NewProductRepository(db))
	cat := seedCategory(t, db, "electronics")
	mouse := seedProduct(t, db, cat.ID, "mouse", "25.00", 10)

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := svc.Reserve(tx, mouse.ID, 4); err != nil {
			return err
		}
		return apperr.Validation("force rollback")
	})
	require.Error(t, err)
	assert.Equal(t, 10, productStock(t, db, mouse.ID), "no independent commit")
}

func TestReserveErrors(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(repositories.NewProductRepository(db))
	cat := seedCategory(t, db, "electronics")
	mouse := seedProduct(t, db, cat.ID, "mouse", "25.00", 2)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.Reserve(tx, 999, 1)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))

		_, err = svc.Reserve(tx, mouse.ID, 3)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindInsufficientStock))
		assert.EqualError(t, err, `insufficient stock for product "mouse": requested 3, available 2`)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, productStock(t, db, mouse.ID))
}

func TestReleaseIncrementsUnconditionally(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(repositories.NewProductRepository(db))
	cat := seedCategory(t, db, "electronics")
	mouse := seedProduct(t, db, cat.ID, "mouse", "25.00", 2)

	err := db.Transaction(func(tx *gorm.DB) error {
		// No ceiling: release beyond any historical stock is accepted.
		return svc.Release(tx, mouse.ID, 50)
	})
	require.NoError(t, err)
	assert.Equal(t, 52, productStock(t, db, mouse.ID))
}

func TestReleaseDanglingReference(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(repositories.NewProductRepository(db))

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Release(tx, 999, 1)
	})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestStockErrorCarriesQuantities(t *testing.T) {
	err := apperr.InsufficientStock("mouse", 5, 3)
	assert.Equal(t, "mouse", err.Product)
	assert.Equal(t, 5, err.Requested)
	assert.Equal(t, 3, err.Available)
	assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))
}

func TestOrderStatusMachine(t *testing.T) {
	assert.True(t, models.StatusPending.CanTransitionTo(models.StatusProcessing))
	assert.True(t, models.StatusPending.CanTransitionTo(models.StatusCancelled))
	assert.True(t, models.StatusProcessing.CanTransitionTo(models.StatusShipped))
	assert.True(t, models.StatusShipped.CanTransitionTo(models.StatusDelivered))

	assert.False(t, models.StatusPending.CanTransitionTo(models.StatusDelivered))
	assert.False(t, models.StatusShipped.CanTransitionTo(models.StatusCancelled))
	assert.False(t, models.StatusDelivered.CanTransitionTo(models.StatusPending))
	assert.False(t, models.StatusCancelled.CanTransitionTo(models.StatusPending))

	assert.True(t, models.StatusPending.Cancellable())
	assert.True(t, models.StatusProcessing.Cancellable())
	assert.False(t, models.StatusShipped.Cancellable())
	assert.False(t, models.StatusDelivered.Cancellable())
	assert.False(t, models.StatusCancelled.Cancellable())
}
