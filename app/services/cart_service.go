package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/pkg/apperr"
)

// CartService mutates the per-user cart. Stock checks here are advisory;
// checkout repeats them authoritatively under row locks, because stock may
// change between adding to cart and checking out.
type CartService struct {
	carts    *repositories.CartRepository
	products *repositories.ProductRepository
}

func NewCartService(carts *repositories.CartRepository, products *repositories.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// Get returns the user's cart with its items.
func (s *CartService) Get(userID uint) (*models.Cart, error) {
	cart, err := s.carts.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("cart for user %d not found", userID)
		}
		return nil, apperr.Internal(err, "load cart for user %d", userID)
	}
	return cart, nil
}

// Subtotal computes the advisory cart total from current catalogue prices.
func (s *CartService) Subtotal(cart *models.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, item := range cart.Items {
		if item.Product == nil {
			continue
		}
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// AddItem puts qty units of a product into the cart. An existing line for
// the same product merges: quantities are summed and the combined total is
// validated against current stock, so the error names the would-be total.
func (s *CartService) AddItem(userID, productID uint, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, apperr.Validation("quantity must be a positive integer")
	}

	product, err := s.activeProduct(productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.carts.FindItem(cart.ID, productID)
	switch {
	case err == nil:
		combined := existing.Quantity + qty
		if combined > product.Stock {
			return nil, apperr.InsufficientStock(product.Name, combined, product.Stock)
		}
		existing.Quantity = combined
		if err := s.carts.UpdateItem(existing); err != nil {
			return nil, apperr.Internal(err, "merge cart line for product %d", productID)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if qty > product.Stock {
			return nil, apperr.InsufficientStock(product.Name, qty, product.Stock)
		}
		item := &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: qty}
		if err := s.carts.CreateItem(item); err != nil {
			return nil, apperr.Internal(err, "add cart line for product %d", productID)
		}
	default:
		return nil, apperr.Internal(err, "look up cart line for product %d", productID)
	}

	return s.Get(userID)
}

// UpdateItemQuantity replaces the line's quantity outright (not additive).
func (s *CartService) UpdateItemQuantity(userID, productID uint, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, apperr.Validation("quantity must be a positive integer")
	}

	product, err := s.activeProduct(productID)
	if err != nil {
		return nil, err
	}
	if qty > product.Stock {
		return nil, apperr.InsufficientStock(product.Name, qty, product.Stock)
	}

	cart, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	item, err := s.carts.FindItem(cart.ID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product %d is not in the cart", productID)
		}
		return nil, apperr.Internal(err, "look up cart line for product %d", productID)
	}

	item.Quantity = qty
	if err := s.carts.UpdateItem(item); err != nil {
		return nil, apperr.Internal(err, "update cart line for product %d", productID)
	}
	return s.Get(userID)
}

// RemoveItem deletes the product's line. Removing an absent item is NotFound.
func (s *CartService) RemoveItem(userID, productID uint) (*models.Cart, error) {
	cart, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	item, err := s.carts.FindItem(cart.ID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product %d is not in the cart", productID)
		}
		return nil, apperr.Internal(err, "look up cart line for product %d", productID)
	}

	if err := s.carts.DeleteItem(item); err != nil {
		return nil, apperr.Internal(err, "remove cart line for product %d", productID)
	}
	return s.Get(userID)
}

// Clear empties the cart. Clearing an empty cart is a no-op success.
func (s *CartService) Clear(userID uint) error {
	cart, err := s.Get(userID)
	if err != nil {
		return err
	}
	if err := s.carts.ClearItems(cart.ID); err != nil {
		return apperr.Internal(err, "clear cart %d", cart.ID)
	}
	return nil
}

func (s *CartService) activeProduct(productID uint) (*models.Product, error) {
	product, err := s.products.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product %d not found", productID)
		}
		return nil, apperr.Internal(err, "load product %d", productID)
	}
	if !product.Active {
		return nil, apperr.NotFound("product %d not found", productID)
	}
	return product, nil
}
