package repositories

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/dukaan/app/models"
)

// CartRepository handles database operations for Cart and CartItem.
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx.
func (r *CartRepository) WithTx(tx *gorm.DB) *CartRepository {
	return &CartRepository{db: tx}
}

// Create persists a new empty cart.
func (r *CartRepository) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// FindByUserID loads a user's cart with its items and their products.
func (r *CartRepository) FindByUserID(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_items.id asc")
	}).Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindItem returns the cart line for the given product, if present.
func (r *CartRepository) FindItem(cartID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *CartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

func (r *CartRepository) UpdateItem(item *models.CartItem) error {
	return r.db.Save(item).Error
}

func (r *CartRepository) DeleteItem(item *models.CartItem) error {
	return r.db.Unscoped().Delete(item).Error
}

// ClearItems removes every line from the cart. Hard delete so the unique
// (cart, product) index never collides with soft-deleted rows.
func (r *CartRepository) ClearItems(cartID uint) error {
	return r.db.Unscoped().
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}
