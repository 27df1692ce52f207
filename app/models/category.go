package models

import "gorm.io/gorm"

// Category groups products in the catalogue.
type Category struct {
	gorm.Model
	Name        string    `gorm:"uniqueIndex;size:150;not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;size:170;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Active      bool      `gorm:"not null;default:true" json:"is_active"`
	Products    []Product `json:"-"`
}
