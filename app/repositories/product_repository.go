package repositories

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/pkg/pagination"
)

// ProductFilter narrows a product listing.
type ProductFilter struct {
	Search     string           // name/description substring
	CategoryID uint             // 0 means all categories
	MinPrice   *decimal.Decimal // nil means unbounded
	MaxPrice   *decimal.Decimal // nil means unbounded
	ActiveOnly bool
}

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

func (r *ProductRepository) FindByID(id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.Preload("Category").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) FindBySlug(slug string) (*models.Product, error) {
	var p models.Product
	if err := r.db.Preload("Category").Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindForUpdate loads the product row under SELECT ... FOR UPDATE. Must be
// called on a repository bound to a transaction; the row lock is held until
// that transaction ends.
func (r *ProductRepository) FindForUpdate(id uint) (*models.Product, error) {
	var p models.Product
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SlugTaken reports whether any product already uses slug.
func (r *ProductRepository) SlugTaken(slug string) bool {
	var p models.Product
	err := r.db.Select("id").Where("slug = ?", slug).First(&p).Error
	return !errors.Is(err, gorm.ErrRecordNotFound)
}

func (r *ProductRepository) Create(p *models.Product) error {
	return r.db.Create(p).Error
}

func (r *ProductRepository) Update(p *models.Product) error {
	return r.db.Save(p).Error
}

func (r *ProductRepository) Delete(p *models.Product) error {
	return r.db.Delete(p).Error
}

// List returns a page of products matching the filter.
func (r *ProductRepository) List(f ProductFilter, page, perPage int) ([]models.Product, int64, error) {
	q := r.db.Model(&models.Product{})
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", f.MaxPrice)
	}
	if f.ActiveOnly {
		q = q.Where("active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := q.Scopes(pagination.Scope(page, perPage)).
		Preload("Category").
		Order("id asc").
		Find(&products).Error
	return products, total, err
}
