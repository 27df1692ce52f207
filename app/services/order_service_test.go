package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/pkg/apperr"
)

func TestCheckoutCommitsCartAtomically(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	buyer := seedUser(t, db, "buyer", models.RoleCustomer)
	cat := seedCategory(t, db, "electronics")
	mouse := seedProduct(t, db, cat.ID, "mouse", "25.00", 10)
	keyboard := seedProduct(t, db, cat.ID, "keyboard", "100.00", 8)

	addCartLine(t, db, buyer.ID, mouse.ID, 2)   //  50.00
	addCartLine(t, db, buyer.ID, keyboard.ID, 5) // 500.00

	order, err := svc.Checkout(asActor(buyer), "12 Main St", "")
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("550.00")),
		"want 550.00, got %s", order.Total)
	assert.NotEmpty(t, order.Number)
	assert.Equal(t, "12 Main St", order.ShippingAddress)
	assert.Equal(t, "12 Main St", order.BillingAddress, "billing defaults to shipping")
	require.Len(t, order.Items, 2)

	// Stock decremented.
	assert.Equal(t, 8, productStock(t, db, mouse.ID))
	assert.Equal(t, 3, productStock(t, db, keyboard.ID))

	// Cart cleared.
	var count int64
	db.Model(&models.CartItem{}).Count(&count)
	assert.Zero(t, count)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	buyer := seedUser(t, db, "buyer", models.RoleCustomer)

	_, err := svc.Checkout(asActor(buyer), "12 Main St", "")
	assert.True(t, apperr.Is(err, apperr.KindEmptyCart))
}

func TestCheckoutInsufficientStockNamesProduct(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	buyer := seedUser(t, db, "buyer", models.RoleCustomer)
	cat := seedCategory(t, db, "electronics")
	mouse := seedProduct(t, db, cat.ID, "mouse", "25.00", 3)
	addCartLine(t, db, buyer.ID, mouse.ID, 5)

	_, err := svc.Checkout(asActor(buyer), "12 Main St", "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInsufficientStock))
	assert.Contains(t, err.Error(), "mouse")
	assert.Contains(t, err.Error(), "5")
	assert.Contains(t, err.Error(), "3")
}

func TestCheckoutLastUnitTwoBuyers(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	alice := seedUser(t, db, "alice", models.RoleCustomer)
	bob := seedUser(t, db, "bob", models.RoleCustomer)
	cat := seedCategory(t, db, "electronics")
	mouse := seedProduct(t, db, cat.ID, "mouse", "25.00", 1)

	addCartLine(t, db, alice.ID, mouse.ID, 1)
	addCartLine(t, db, bob.ID, mouse.ID, 1)

	// Both carts held the last unit when they were filled; only the
	// first checkout to reach the locked product row may win it.
	first, err := svc.Checkout(asActor(alice), "1 First St", "")
	require.NoError(t, err)

	_, err = svc.Checkout(asActor(bob), "2 Second St", "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInsufficientStock))

	assert.Zero(t, productStock(t, db, mouse.ID))

	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	assert.EqualValues(t, 1, orders)

	var kept models.Order
	require.NoError(t, db.First(&kept).Error)
	assert.Equal(t, first.ID, kept.ID)
	assert.Equal(t, alice.ID, kept.UserID)

	// The loser's cart is untouched, so they can retry once restocked.
	var bobLines int64
	db.Model(&models.CartItem{}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.user_id = ?", bob.ID).
		Count(&bobLines)
	assert.EqualValues(t, 1, bobLines)
}

func TestCheckoutFailureRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	buyer := seedUser(t, db, "buyer", models.RoleCustomer)
	cat := seedCategory(t, db, "electronics")
	mouse := seedProduct(t, db, cat.ID, "mouse", "25.00", 10)
	keyboard := seedProduct(t, db, cat.ID, "keyboard", "100.00", 1)

	addCartLine(t, db, buyer.ID, mouse.ID, 2)
	addCartLine(t, db, buyer.ID, keyboard.ID, 5) // short by 4

	_, err := svc.Checkout(asActor(buyer), "12 Main St", "")
	require.Error(t, err)

	// The mouse reservation ran first and must have been rolled back.
	assert.Equal(t, 10, productStock(t, db, mouse.ID))
	assert.Equal(t, 1, productStock(t, db, keyboard.ID))

	var orders, lines int64
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.CartItem{}).Count(&lines)
	assert.Zero(t, orders, "no order row persists after a failed checkout")
	assert.EqualValues(t, 2, lines, "cart untouched after a failed checkout")
}

func TestCheckoutSnapshotsPrice(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	buyer := seedUser(t, db, "buyer", models.RoleCustomer)
	cat := seedCategory(t, db, "electronics")
	mouse := seedProduct(t, db, cat.ID, "mouse", "25.00", 10)
	addCartLine(t, db, buyer.ID, mouse.ID, 1)

	order, err := svc.Checkout(asActor(buyer), "12 Main St", "")
	require.NoError(t, err)

	// Raise the catalogue price afterwards; the snapshot must not move.
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", mouse.ID).
		Update("price", decimal.RequireFromString("99.99")).Error)

	reloaded, err := svc.Get(order.ID, asActor(buyer))
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.True(t, reloaded.Items[0].PriceAtPurchase.Equal(decimal.RequireFromString("25.00")))
	assert.True(t, reloaded.Total.Equal(decimal.RequireFromString("25.00")))
}

func TestCheckoutRequiresCustomerRole(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)

	_, err := svc.Checkout(asActor(admin), "12 Main St", "")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestCheckoutInactiveProduct(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	buyer := seedUser(t, db, "buyer", models.RoleCustomer)
	cat := seedCategory(t, db, "electronics")
	mouse := seedProduct(t, db, cat.ID, "mouse", "25.00", 10)
	addCartLine(t, db, buyer.ID, mouse.ID, 1)

	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", mouse.ID).
		Update("active", false).Error)

	_, err := svc.Checkout(asActor(buyer), "12 Main St", "")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCancelRestoresStock(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	buyer := seedUser(t, db, "buyer", models.RoleCustomer)
	cat := seedCategory(t, db, "electronics")
	mouse := seedProduct(t, db, cat.ID, "mouse", "25.00", 10)
	addCartLine(t, db, buyer.ID, mouse.ID, 4)

	order, err := svc.Checkout(asActor(buyer), "12 Main St", "")
	require.NoError(t, err)
	require.Equal(t, 6, productStock(t, db, mouse.ID))

	require.NoError(t, svc.Cancel(order.ID, asActor(buyer)))
	assert.Equal(t, 10, productStock(t, db, mouse.ID))

	reloaded, err := svc.Get(order.ID, asActor(buyer))
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, reloaded.Status)
}

func TestCancelShippedOrderRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	buyer := seedUser(t, db, "buyer", models.RoleCustomer)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	cat := seedCategory(t, db, "electronics")
	mouse := seedProduct(t, db, cat.ID, "mouse", "25.00", 10)
	addCartLine(t, db, buyer.ID, mouse.ID, 1)

	order, err := svc.Checkout(asActor(buyer), "12 Main St", "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(order.ID, models.StatusShipped, asActor(admin))
	require.NoError(t, err)

	err = svc.Cancel(order.ID, asActor(buyer))
	assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))
	assert.Equal(t, 9, productStock(t, db, mouse.ID), "no stock released on refused cancel")
}

func TestCancelByNonOwnerForbidden(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	buyer := seedUser(t, db, "buyer", models.RoleCustomer)
	other := seedUser(t, db, "other", models.RoleCustomer)
	cat := seedCategory(t, db, "electronics")
	mouse := seedProduct(t, db, cat.ID, "mouse", "25.00", 10)
	addCartLine(t, db, buyer.ID, mouse.ID, 1)

	order, err := svc.Checkout(asActor(buyer), "12 Main St", "")
	require.NoError(t, err)

	err = svc.Cancel(order.ID, asActor(other))
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestGetOrderOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	buyer := seedUser(t, db, "buyer", models.RoleCustomer)
	other := seedUser(t, db, "other", models.RoleCustomer)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	cat := seedCategory(t, db, "electronics")
	mouse := seedProduct(t, db, cat.ID, "mouse", "25.00", 10)
	addCartLine(t, db, buyer.ID, mouse.ID, 1)

	order, err := svc.Checkout(asActor(buyer), "12 Main St", "")
	require.NoError(t, err)

	_, err = svc.Get(order.ID, asActor(other))
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = svc.Get(order.ID, asActor(admin))
	assert.NoError(t, err)

	_, err = svc.Get(order.ID+999, asActor(admin))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdateStatusAdminBypassesPath(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	buyer := seedUser(t, db, "buyer", models.RoleCustomer)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	cat := seedCategory(t, db, "electronics")
	mouse := seedProduct(t, db, cat.ID, "mouse", "25.00", 10)
	addCartLine(t, db, buyer.ID, mouse.ID, 1)

	order, err := svc.Checkout(asActor(buyer), "12 Main St", "")
	require.NoError(t, err)

	// PENDING → DELIVERED skips the path; allowed for admins.
	updated, err := svc.UpdateStatus(order.ID, models.StatusDelivered, asActor(admin))
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, updated.Status)
	assert.Equal(t, 9, productStock(t, db, mouse.ID), "status updates never move stock")

	// No-op when unchanged.
	again, err := svc.UpdateStatus(order.ID, models.StatusDelivered, asActor(admin))
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, again.Status)

	// Unknown status is a validation failure.
	_, err = svc.UpdateStatus(order.ID, "TELEPORTED", asActor(admin))
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	// Non-admins may not touch status at all.
	_, err = svc.UpdateStatus(order.ID, models.StatusProcessing, asActor(buyer))
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestListOrdersScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	alice := seedUser(t, db, "alice", models.RoleCustomer)
	bob := seedUser(t, db, "bob", models.RoleCustomer)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	cat := seedCategory(t, db, "electronics")
	mouse := seedProduct(t, db, cat.ID, "mouse", "25.00", 100)

	addCartLine(t, db, alice.ID, mouse.ID, 1)
	_, err := svc.Checkout(asActor(alice), "1 Alice Way", "")
	require.NoError(t, err)

	addCartLine(t, db, bob.ID, mouse.ID, 1)
	_, err = svc.Checkout(asActor(bob), "2 Bob Blvd", "")
	require.NoError(t, err)

	// Non-admin sees only their own, even without a filter.
	mine, meta, err := svc.List(asActor(alice), 1, 10, "", "")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, alice.ID, mine[0].UserID)
	assert.EqualValues(t, 1, meta.TotalItems)

	// Admin sees all.
	all, meta, err := svc.List(asActor(admin), 1, 10, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.EqualValues(t, 2, meta.TotalItems)

	// Search matches shipping address.
	found, _, err := svc.List(asActor(admin), 1, 10, "", "Bob")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, bob.ID, found[0].UserID)

	// Out-of-range page: empty items, correct total.
	page9, meta, err := svc.List(asActor(admin), 9, 10, "", "")
	require.NoError(t, err)
	assert.Empty(t, page9)
	assert.EqualValues(t, 2, meta.TotalItems)

	// Bad status filter.
	_, _, err = svc.List(asActor(admin), 1, 10, "LOST", "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestDeleteOrderAdminOnlyNoStockReversal(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	buyer := seedUser(t, db, "buyer", models.RoleCustomer)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	cat := seedCategory(t, db, "electronics")
	mouse := seedProduct(t, db, cat.ID, "mouse", "25.00", 10)
	addCartLine(t, db, buyer.ID, mouse.ID, 3)

	order, err := svc.Checkout(asActor(buyer), "12 Main St", "")
	require.NoError(t, err)

	err = svc.Delete(order.ID, asActor(buyer))
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	require.NoError(t, svc.Delete(order.ID, asActor(admin)))
	assert.Equal(t, 7, productStock(t, db, mouse.ID), "hard delete never reverses stock")

	var orders, items int64
	db.Unscoped().Model(&models.Order{}).Count(&orders)
	db.Unscoped().Model(&models.OrderItem{}).Count(&items)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}
