package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/pkg/apperr"
	"github.com/shashiranjanraj/dukaan/pkg/logger"
	"github.com/shashiranjanraj/dukaan/pkg/metrics"
)

// InventoryService moves stock. Both operations run inside the caller's
// transaction and lock the product row, so a failure later in the same
// logical operation rolls the stock change back.
type InventoryService struct {
	products *repositories.ProductRepository
}

func NewInventoryService(products *repositories.ProductRepository) *InventoryService {
	return &InventoryService{products: products}
}

// Reserve decrements stock by qty under a row lock. Returns the locked
// product (price and name as of the lock) so callers can snapshot them.
// Fails with NotFound when the product is missing or inactive, and with
// InsufficientStock when qty exceeds what is on hand.
func (s *InventoryService) Reserve(tx *gorm.DB, productID uint, qty int) (*models.Product, error) {
	p, err := s.products.WithTx(tx).FindForUpdate(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product %d not found", productID)
		}
		return nil, apperr.Internal(err, "lock product %d", productID)
	}
	if !p.Active {
		return nil, apperr.NotFound("product %d not found", productID)
	}

	if p.Stock < qty {
		metrics.OversellRejected.Inc()
		return nil, apperr.InsufficientStock(p.Name, qty, p.Stock)
	}

	p.Stock -= qty
	if err := tx.Model(p).Update("stock", p.Stock).Error; err != nil {
		return nil, apperr.Internal(err, "decrement stock for product %d", productID)
	}

	metrics.StockReserved.Add(float64(qty))
	return p, nil
}

// Release increments stock by qty under a row lock. Used on cancellation;
// there is no maximum-stock ceiling. A missing product is a dangling
// reference: logged and reported as NotFound, never silently ignored.
func (s *InventoryService) Release(tx *gorm.DB, productID uint, qty int) error {
	p, err := s.products.WithTx(tx).FindForUpdate(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("inventory: release against missing product",
				"product_id", productID, "quantity", qty)
			return apperr.NotFound("product %d not found", productID)
		}
		return apperr.Internal(err, "lock product %d", productID)
	}

	p.Stock += qty
	if err := tx.Model(p).Update("stock", p.Stock).Error; err != nil {
		return apperr.Internal(err, "increment stock for product %d", productID)
	}

	metrics.StockReleased.Add(float64(qty))
	return nil
}
