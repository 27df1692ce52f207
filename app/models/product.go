package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a product in the catalogue. Price is fixed-point;
// Stock is the on-hand quantity checkout decrements.
type Product struct {
	gorm.Model
	Name        string          `gorm:"size:200;not null;index" json:"name"`
	Slug        string          `gorm:"uniqueIndex;size:220;not null" json:"slug"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	ImageURL    string          `gorm:"size:500" json:"image_url"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Category    *Category       `json:"category,omitempty"`
	Active      bool            `gorm:"not null;default:true" json:"is_active"`
}
