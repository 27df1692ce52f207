package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/pkg/apperr"
	"github.com/shashiranjanraj/dukaan/pkg/cache"
	"github.com/shashiranjanraj/dukaan/pkg/pagination"
	"github.com/shashiranjanraj/dukaan/pkg/slugify"
)

const categoryCacheTTL = 10 * time.Minute

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	Name        string `json:"name"        validate:"required,min=2,max=150"`
	Description string `json:"description" validate:"nullable,max=2000"`
	Active      *bool  `json:"is_active"`
}

// CategoryService manages product categories.
type CategoryService struct {
	categories *repositories.CategoryRepository
	authz      *AuthzService
	cache      *cache.Cache
}

func NewCategoryService(categories *repositories.CategoryRepository, authz *AuthzService, c *cache.Cache) *CategoryService {
	return &CategoryService{categories: categories, authz: authz, cache: c}
}

// Create adds a category. ADMIN or EDITOR. Duplicate names are a Conflict.
func (s *CategoryService) Create(actor Actor, in CategoryInput) (*models.Category, error) {
	if err := s.authz.Can(actor, ActionCatalogMutate, 0); err != nil {
		return nil, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	cat := &models.Category{
		Name:        in.Name,
		Slug:        slugify.Unique(in.Name, s.categories.SlugTaken),
		Description: in.Description,
		Active:      active,
	}
	if err := s.categories.Create(cat); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("category %q already exists", in.Name)
		}
		return nil, apperr.Internal(err, "create category %q", in.Name)
	}

	s.invalidate()
	return cat, nil
}

// Update edits a category. ADMIN or EDITOR.
func (s *CategoryService) Update(actor Actor, id uint, in CategoryInput) (*models.Category, error) {
	if err := s.authz.Can(actor, ActionCatalogMutate, 0); err != nil {
		return nil, err
	}

	cat, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if in.Name != cat.Name {
		cat.Slug = slugify.Unique(in.Name, func(slug string) bool {
			other, err := s.categories.FindBySlug(slug)
			return err == nil && other.ID != cat.ID
		})
	}
	cat.Name = in.Name
	cat.Description = in.Description
	if in.Active != nil {
		cat.Active = *in.Active
	}

	if err := s.categories.Update(cat); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("category %q already exists", in.Name)
		}
		return nil, apperr.Internal(err, "update category %d", id)
	}

	s.invalidate()
	return cat, nil
}

// Delete removes a category. ADMIN or EDITOR. Refused with Conflict while
// any product still references it.
func (s *CategoryService) Delete(actor Actor, id uint) error {
	if err := s.authz.Can(actor, ActionCatalogMutate, 0); err != nil {
		return err
	}

	cat, err := s.find(id)
	if err != nil {
		return err
	}

	n, err := s.categories.ProductCount(cat.ID)
	if err != nil {
		return apperr.Internal(err, "count products in category %d", id)
	}
	if n > 0 {
		return apperr.Conflict("category %q still has %d products", cat.Name, n)
	}

	if err := s.categories.Delete(cat); err != nil {
		return apperr.Internal(err, "delete category %d", id)
	}

	s.invalidate()
	return nil
}

// Get returns a category by id.
func (s *CategoryService) Get(id uint) (*models.Category, error) {
	return s.find(id)
}

// categoryPage is the cached shape of a category listing.
type categoryPage struct {
	Items []models.Category `json:"items"`
	Page  pagination.Page   `json:"page"`
}

// List returns a page of categories, cached in Redis.
func (s *CategoryService) List(ctx context.Context, activeOnly bool, page, perPage int) ([]models.Category, pagination.Page, error) {
	page, perPage = pagination.Clamp(page, perPage)

	key := fmt.Sprintf("categories:list:%t:%d:%d", activeOnly, page, perPage)
	var cached categoryPage
	if s.cache.Get(ctx, key, &cached) {
		return cached.Items, cached.Page, nil
	}

	items, total, err := s.categories.List(activeOnly, page, perPage)
	if err != nil {
		return nil, pagination.Page{}, apperr.Internal(err, "list categories")
	}

	meta := pagination.New(page, perPage, total)
	_ = s.cache.Set(ctx, key, categoryPage{Items: items, Page: meta}, categoryCacheTTL)
	return items, meta, nil
}

func (s *CategoryService) find(id uint) (*models.Category, error) {
	cat, err := s.categories.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category %d not found", id)
		}
		return nil, apperr.Internal(err, "load category %d", id)
	}
	return cat, nil
}

func (s *CategoryService) invalidate() {
	_ = s.cache.DelPrefix(context.Background(), "categories:")
	_ = s.cache.DelPrefix(context.Background(), "products:")
}
