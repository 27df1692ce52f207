package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/pkg/apperr"
	"github.com/shashiranjanraj/dukaan/pkg/logger"
	"github.com/shashiranjanraj/dukaan/pkg/metrics"
	"github.com/shashiranjanraj/dukaan/pkg/pagination"
)

// OrderService is the fulfillment engine: atomic cart→order commit, the
// status lifecycle, and stock-restoring cancellation.
type OrderService struct {
	db        *gorm.DB
	orders    *repositories.OrderRepository
	carts     *repositories.CartRepository
	users     *repositories.UserRepository
	inventory *InventoryService
	authz     *AuthzService
}

func NewOrderService(
	db *gorm.DB,
	orders *repositories.OrderRepository,
	carts *repositories.CartRepository,
	users *repositories.UserRepository,
	inventory *InventoryService,
	authz *AuthzService,
) *OrderService {
	return &OrderService{
		db:        db,
		orders:    orders,
		carts:     carts,
		users:     users,
		inventory: inventory,
		authz:     authz,
	}
}

// Checkout commits the actor's cart into an order. The whole operation runs
// in one transaction: every line either reserves its stock and is priced at
// this moment, or nothing is persisted at all. Billing address defaults to
// shipping when omitted.
func (s *OrderService) Checkout(actor Actor, shippingAddr, billingAddr string) (*models.Order, error) {
	if err := s.authz.Can(actor, ActionCheckout, 0); err != nil {
		return nil, err
	}
	if shippingAddr == "" {
		return nil, apperr.Validation("shipping address is required")
	}
	if billingAddr == "" {
		billingAddr = shippingAddr
	}

	user, err := s.users.FindByID(actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %d not found", actor.ID)
		}
		return nil, apperr.Internal(err, "load user %d", actor.ID)
	}
	if !user.Active {
		return nil, apperr.Forbidden("account is deactivated")
	}

	var order *models.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		cart, err := s.carts.WithTx(tx).FindByUserID(actor.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.EmptyCart()
			}
			return apperr.Internal(err, "load cart for user %d", actor.ID)
		}
		if len(cart.Items) == 0 {
			return apperr.EmptyCart()
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, line := range cart.Items {
			// Reserve locks the row, so the returned price is the one
			// the decrement happened under.
			p, err := s.inventory.Reserve(tx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}

			total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			items = append(items, models.OrderItem{
				ProductID:       p.ID,
				Quantity:        line.Quantity,
				PriceAtPurchase: p.Price,
			})
		}

		order = &models.Order{
			Number:          uuid.NewString(),
			UserID:          actor.ID,
			Status:          models.StatusPending,
			Total:           total,
			ShippingAddress: shippingAddr,
			BillingAddress:  billingAddr,
			Items:           items,
		}
		if err := s.orders.WithTx(tx).Create(order); err != nil {
			return apperr.Internal(err, "create order for user %d", actor.ID)
		}

		if err := s.carts.WithTx(tx).ClearItems(cart.ID); err != nil {
			return apperr.Internal(err, "clear cart %d", cart.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCommitted.Inc()
	logger.Info("order committed",
		"order_id", order.ID, "number", order.Number,
		"user_id", actor.ID, "total", order.Total.StringFixed(2))
	return order, nil
}

// Cancel releases every item's stock and marks the order CANCELLED, in one
// transaction. Owner or admin; only PENDING and PROCESSING orders qualify.
func (s *OrderService) Cancel(orderID uint, actor Actor) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orders.WithTx(tx).FindByID(orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order %d not found", orderID)
			}
			return apperr.Internal(err, "load order %d", orderID)
		}

		if err := s.authz.Can(actor, ActionOrderCancel, order.UserID); err != nil {
			return err
		}
		if !order.Status.Cancellable() {
			return apperr.InvalidTransition("order in status %s cannot be cancelled", order.Status)
		}

		for _, item := range order.Items {
			if err := s.inventory.Release(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		order.Status = models.StatusCancelled
		if err := s.orders.WithTx(tx).Update(order); err != nil {
			return apperr.Internal(err, "cancel order %d", orderID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.OrdersCancelled.Inc()
	logger.Info("order cancelled", "order_id", orderID, "by_user", actor.ID)
	return nil
}

// UpdateStatus sets the order's lifecycle status. Admin-only; an admin may
// set any status without walking the transition path (deliberate escape
// hatch for back-office corrections). A no-op when unchanged. Never moves
// stock; cancellation is the only stock-moving path.
func (s *OrderService) UpdateStatus(orderID uint, newStatus models.OrderStatus, actor Actor) (*models.Order, error) {
	if err := s.authz.Can(actor, ActionOrderSetStatus, 0); err != nil {
		return nil, err
	}
	if !models.ValidStatus(newStatus) {
		return nil, apperr.Validation("unknown order status %q", newStatus)
	}

	order, err := s.orders.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order %d not found", orderID)
		}
		return nil, apperr.Internal(err, "load order %d", orderID)
	}

	if order.Status == newStatus {
		return order, nil
	}

	old := order.Status
	order.Status = newStatus
	if err := s.orders.Update(order); err != nil {
		return nil, apperr.Internal(err, "update status of order %d", orderID)
	}

	logger.Info("order status updated",
		"order_id", orderID, "from", old, "to", newStatus, "by_user", actor.ID)
	return order, nil
}

// Get returns a single order; owner or admin.
func (s *OrderService) Get(orderID uint, actor Actor) (*models.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order %d not found", orderID)
		}
		return nil, apperr.Internal(err, "load order %d", orderID)
	}
	if err := s.authz.Can(actor, ActionOrderView, order.UserID); err != nil {
		return nil, err
	}
	return order, nil
}

// List returns a page of orders. Non-admins are restricted to their own
// orders regardless of any filter supplied. Search matches the shipping
// address.
func (s *OrderService) List(actor Actor, page, perPage int, status models.OrderStatus, search string) ([]models.Order, pagination.Page, error) {
	if status != "" && !models.ValidStatus(status) {
		return nil, pagination.Page{}, apperr.Validation("unknown order status %q", status)
	}

	filter := repositories.OrderFilter{Status: status, Search: search}
	if actor.Role != models.RoleAdmin {
		filter.UserID = actor.ID
	}

	page, perPage = pagination.Clamp(page, perPage)
	orders, total, err := s.orders.List(filter, page, perPage)
	if err != nil {
		return nil, pagination.Page{}, apperr.Internal(err, "list orders")
	}
	return orders, pagination.New(page, perPage, total), nil
}

// Delete permanently removes an order. Admin-only; no stock reversal.
func (s *OrderService) Delete(orderID uint, actor Actor) error {
	if err := s.authz.Can(actor, ActionOrderDelete, 0); err != nil {
		return err
	}

	order, err := s.orders.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("order %d not found", orderID)
		}
		return apperr.Internal(err, "load order %d", orderID)
	}

	if err := s.orders.HardDelete(order); err != nil {
		return apperr.Internal(err, "delete order %d", orderID)
	}
	logger.Info("order deleted", "order_id", orderID, "by_user", actor.ID)
	return nil
}
