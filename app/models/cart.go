package models

import "gorm.io/gorm"

// Cart is the per-user shopping cart. One per user, created with the account.
type Cart struct {
	gorm.Model
	UserID uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Items  []CartItem `json:"items"`
}

// CartItem is a single product line in a cart. A cart holds at most one
// line per product; adding the same product again merges quantities.
type CartItem struct {
	gorm.Model
	CartID    uint     `gorm:"not null;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint     `gorm:"not null;uniqueIndex:idx_cart_product" json:"product_id"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int      `gorm:"not null" json:"quantity"`
}
