package repositories

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/pkg/pagination"
)

// OrderFilter narrows an order listing.
type OrderFilter struct {
	UserID uint               // 0 means all users (admin listing)
	Status models.OrderStatus // "" means any status
	Search string             // shipping address substring
}

// OrderRepository handles database operations for Order and OrderItem.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx.
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

// Create persists an order together with its items.
func (r *OrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// FindByID loads an order with its items and their products.
func (r *OrderRepository) FindByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Preload("Items.Product").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByNumber loads an order by its public order number.
func (r *OrderRepository) FindByNumber(number string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Preload("Items.Product").
		Where("number = ?", number).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Update persists changes to an order (status transitions).
func (r *OrderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

// HardDelete permanently removes an order and its items. Stock is not
// touched; cancellation is the stock-reversing path.
func (r *OrderRepository) HardDelete(order *models.Order) error {
	if err := r.db.Unscoped().
		Where("order_id = ?", order.ID).
		Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	return r.db.Unscoped().Delete(order).Error
}

// List returns a page of orders matching the filter, newest first.
func (r *OrderRepository) List(f OrderFilter, page, perPage int) ([]models.Order, int64, error) {
	q := r.db.Model(&models.Order{})
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		q = q.Where("shipping_address LIKE ?", "%"+f.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := q.Scopes(pagination.Scope(page, perPage)).
		Preload("Items").Preload("Items.Product").
		Order("id desc").
		Find(&orders).Error
	return orders, total, err
}
