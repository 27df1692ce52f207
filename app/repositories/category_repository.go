package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/pkg/pagination"
)

// CategoryRepository handles database operations for Category.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx.
func (r *CategoryRepository) WithTx(tx *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: tx}
}

func (r *CategoryRepository) FindByID(id uint) (*models.Category, error) {
	var cat models.Category
	if err := r.db.First(&cat, id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) FindBySlug(slug string) (*models.Category, error) {
	var cat models.Category
	if err := r.db.Where("slug = ?", slug).First(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// SlugTaken reports whether any category already uses slug.
func (r *CategoryRepository) SlugTaken(slug string) bool {
	var cat models.Category
	err := r.db.Select("id").Where("slug = ?", slug).First(&cat).Error
	return !errors.Is(err, gorm.ErrRecordNotFound)
}

func (r *CategoryRepository) Create(cat *models.Category) error {
	return r.db.Create(cat).Error
}

func (r *CategoryRepository) Update(cat *models.Category) error {
	return r.db.Save(cat).Error
}

func (r *CategoryRepository) Delete(cat *models.Category) error {
	return r.db.Delete(cat).Error
}

// ProductCount returns how many products reference the category. Deletion is
// refused while this is non-zero.
func (r *CategoryRepository) ProductCount(categoryID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}

// List returns a page of categories. When activeOnly is set, inactive
// categories are excluded.
func (r *CategoryRepository) List(activeOnly bool, page, perPage int) ([]models.Category, int64, error) {
	q := r.db.Model(&models.Category{})
	if activeOnly {
		q = q.Where("active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cats []models.Category
	err := q.Scopes(pagination.Scope(page, perPage)).
		Order("name asc").
		Find(&cats).Error
	return cats, total, err
}
