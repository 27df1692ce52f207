package seeders

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/pkg/slugify"
)

func init() {
	Register("catalog", SeedCatalog)
}

// SeedCatalog creates a small demo catalogue. Idempotent by category and
// product name.
func SeedCatalog(db *gorm.DB) error {
	catalog := map[string][]struct {
		name  string
		price string
		stock int
	}{
		"Electronics": {
			{"Wireless Mouse", "24.99", 120},
			{"Mechanical Keyboard", "89.50", 45},
			{"USB-C Hub", "39.00", 80},
		},
		"Books": {
			{"The Go Programming Language", "44.95", 30},
			{"Designing Data-Intensive Applications", "54.99", 25},
		},
		"Home & Kitchen": {
			{"French Press", "29.90", 60},
			{"Chef Knife", "74.00", 15},
		},
	}

	for catName, products := range catalog {
		cat, err := findOrCreateCategory(db, catName)
		if err != nil {
			return err
		}

		for _, p := range products {
			var existing models.Product
			err := db.Where("name = ?", p.name).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			price, err := decimal.NewFromString(p.price)
			if err != nil {
				return err
			}

			product := models.Product{
				Name:       p.name,
				Slug:       slugify.Make(p.name),
				Price:      price,
				Stock:      p.stock,
				CategoryID: cat.ID,
				Active:     true,
			}
			if err := db.Create(&product).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func findOrCreateCategory(db *gorm.DB, name string) (*models.Category, error) {
	var cat models.Category
	err := db.Where("name = ?", name).First(&cat).Error
	if err == nil {
		return &cat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cat = models.Category{
		Name:   name,
		Slug:   slugify.Make(name),
		Active: true,
	}
	if err := db.Create(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}
