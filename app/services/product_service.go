package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/pkg/apperr"
	"github.com/shashiranjanraj/dukaan/pkg/cache"
	"github.com/shashiranjanraj/dukaan/pkg/pagination"
	"github.com/shashiranjanraj/dukaan/pkg/slugify"
	"github.com/shashiranjanraj/dukaan/pkg/storage"
)

const productCacheTTL = 5 * time.Minute

// minPrice is the lowest allowed product price.
var minPrice = decimal.NewFromFloat(0.01)

// ProductInput carries the writable product fields.
type ProductInput struct {
	Name        string          `json:"name"        validate:"required,min=2,max=200"`
	Description string          `json:"description" validate:"nullable,max=5000"`
	Price       decimal.Decimal `json:"price"       validate:"required"`
	Stock       int             `json:"stock"       validate:"nullable,integer,gte=0"`
	CategoryID  uint            `json:"category_id" validate:"required"`
	Active      *bool           `json:"is_active"`
}

// ProductService manages the catalogue. Listings are cached in Redis and
// invalidated on every mutation. Stock changes go through InventoryService,
// not here.
type ProductService struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
	authz      *AuthzService
	cache      *cache.Cache
	storage    *storage.Manager
}

func NewProductService(
	products *repositories.ProductRepository,
	categories *repositories.CategoryRepository,
	authz *AuthzService,
	c *cache.Cache,
	store *storage.Manager,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		authz:      authz,
		cache:      c,
		storage:    store,
	}
}

// Create adds a product to the catalogue. ADMIN or EDITOR. The slug is
// derived from the name; collisions get a numeric suffix.
func (s *ProductService) Create(actor Actor, in ProductInput) (*models.Product, error) {
	if err := s.authz.Can(actor, ActionCatalogMutate, 0); err != nil {
		return nil, err
	}
	if in.Price.LessThan(minPrice) {
		return nil, apperr.Validation("price must be at least %s", minPrice.StringFixed(2))
	}
	if in.Stock < 0 {
		return nil, apperr.Validation("stock must not be negative")
	}
	if _, err := s.categories.FindByID(in.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category %d not found", in.CategoryID)
		}
		return nil, apperr.Internal(err, "load category %d", in.CategoryID)
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	p := &models.Product{
		Name:        in.Name,
		Slug:        slugify.Unique(in.Name, s.products.SlugTaken),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		Active:      active,
	}
	if err := s.products.Create(p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("product slug %q already exists", p.Slug)
		}
		return nil, apperr.Internal(err, "create product %q", in.Name)
	}

	s.invalidate()
	return p, nil
}

// Update edits a product. ADMIN or EDITOR. A name change regenerates the
// slug, keeping it unique against every other product.
func (s *ProductService) Update(actor Actor, id uint, in ProductInput) (*models.Product, error) {
	if err := s.authz.Can(actor, ActionCatalogMutate, 0); err != nil {
		return nil, err
	}

	p, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if in.Price.LessThan(minPrice) {
		return nil, apperr.Validation("price must be at least %s", minPrice.StringFixed(2))
	}
	if in.Stock < 0 {
		return nil, apperr.Validation("stock must not be negative")
	}
	if in.CategoryID != p.CategoryID {
		if _, err := s.categories.FindByID(in.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("category %d not found", in.CategoryID)
			}
			return nil, apperr.Internal(err, "load category %d", in.CategoryID)
		}
	}

	if in.Name != p.Name {
		p.Slug = slugify.Unique(in.Name, func(slug string) bool {
			other, err := s.products.FindBySlug(slug)
			return err == nil && other.ID != p.ID
		})
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Stock = in.Stock
	p.CategoryID = in.CategoryID
	if in.Active != nil {
		p.Active = *in.Active
	}

	if err := s.products.Update(p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("product slug %q already exists", p.Slug)
		}
		return nil, apperr.Internal(err, "update product %d", id)
	}

	s.invalidate()
	return p, nil
}

// Delete soft-deletes a product. ADMIN or EDITOR.
func (s *ProductService) Delete(actor Actor, id uint) error {
	if err := s.authz.Can(actor, ActionCatalogMutate, 0); err != nil {
		return err
	}

	p, err := s.find(id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(p); err != nil {
		return apperr.Internal(err, "delete product %d", id)
	}

	s.invalidate()
	return nil
}

// Get returns a product by id.
func (s *ProductService) Get(id uint) (*models.Product, error) {
	return s.find(id)
}

// GetBySlug returns a product by its slug.
func (s *ProductService) GetBySlug(slug string) (*models.Product, error) {
	p, err := s.products.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product %q not found", slug)
		}
		return nil, apperr.Internal(err, "load product %q", slug)
	}
	return p, nil
}

// productPage is the cached shape of a product listing.
type productPage struct {
	Items []models.Product `json:"items"`
	Page  pagination.Page  `json:"page"`
}

// List returns a page of products matching the filter, served from Redis
// when a fresh copy exists.
func (s *ProductService) List(ctx context.Context, f repositories.ProductFilter, page, perPage int) ([]models.Product, pagination.Page, error) {
	page, perPage = pagination.Clamp(page, perPage)

	key := listCacheKey(f, page, perPage)
	var cached productPage
	if s.cache.Get(ctx, key, &cached) {
		return cached.Items, cached.Page, nil
	}

	items, total, err := s.products.List(f, page, perPage)
	if err != nil {
		return nil, pagination.Page{}, apperr.Internal(err, "list products")
	}

	meta := pagination.New(page, perPage, total)
	_ = s.cache.Set(ctx, key, productPage{Items: items, Page: meta}, productCacheTTL)
	return items, meta, nil
}

// AttachImage stores an uploaded image on the configured disk and records
// its public URL on the product. ADMIN or EDITOR.
func (s *ProductService) AttachImage(actor Actor, id uint, filename string, r io.Reader) (*models.Product, error) {
	if err := s.authz.Can(actor, ActionCatalogMutate, 0); err != nil {
		return nil, err
	}

	p, err := s.find(id)
	if err != nil {
		return nil, err
	}

	disk := s.storage.Default()
	objectPath := fmt.Sprintf("products/%d/%s", p.ID, path.Base(filename))
	if err := disk.PutStream(objectPath, r); err != nil {
		return nil, apperr.Internal(err, "store image for product %d", id)
	}

	p.ImageURL = disk.URL(objectPath)
	if err := s.products.Update(p); err != nil {
		return nil, apperr.Internal(err, "record image for product %d", id)
	}

	s.invalidate()
	return p, nil
}

func (s *ProductService) find(id uint) (*models.Product, error) {
	p, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product %d not found", id)
		}
		return nil, apperr.Internal(err, "load product %d", id)
	}
	return p, nil
}

func (s *ProductService) invalidate() {
	_ = s.cache.DelPrefix(context.Background(), "products:")
}

func listCacheKey(f repositories.ProductFilter, page, perPage int) string {
	minP, maxP := "", ""
	if f.MinPrice != nil {
		minP = f.MinPrice.String()
	}
	if f.MaxPrice != nil {
		maxP = f.MaxPrice.String()
	}
	return fmt.Sprintf("products:list:%s:%d:%s:%s:%t:%d:%d",
		f.Search, f.CategoryID, minP, maxP, f.ActiveOnly, page, perPage)
}
