package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/response"
	"github.com/shashiranjanraj/dukaan/pkg/validate"
)

// maxImageSize caps product image uploads at 5 MiB.
const maxImageSize = 5 << 20

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// Index lists products with search, category, price-range and active
// filters. Public.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repositories.ProductFilter{
		Search:     q.Get("search"),
		CategoryID: uint(queryInt(r, "category_id", 0)),
		ActiveOnly: true,
	}
	if raw := q.Get("min_price"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			filter.MinPrice = &d
		}
	}
	if raw := q.Get("max_price"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			filter.MaxPrice = &d
		}
	}
	if actor, ok := actorFrom(r); ok && actor.Role != "" && q.Get("include_inactive") != "" {
		filter.ActiveOnly = false
	}

	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 0)

	items, meta, err := c.products.List(r.Context(), filter, page, perPage)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Paginated(w, items, meta)
}

// Show returns one product by id.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	p, err := c.products.Get(id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, p)
}

// ShowBySlug returns one product by its slug.
func (c *ProductController) ShowBySlug(w http.ResponseWriter, r *http.Request) {
	slug := urlParam(r, "slug")
	if slug == "" {
		response.NotFound(w)
		return
	}

	p, err := c.products.GetBySlug(slug)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, p)
}

// Store creates a product; ADMIN or EDITOR.
func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var in services.ProductInput
	if !decode(w, r, &in) {
		return
	}
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.products.Create(actor, in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, p)
}

// Update edits a product; ADMIN or EDITOR.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var in services.ProductInput
	if !decode(w, r, &in) {
		return
	}
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.products.Update(actor, id, in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, p)
}

// Destroy soft-deletes a product; ADMIN or EDITOR.
func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := c.products.Delete(actor, id); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "product deleted"})
}

// UploadImage accepts a multipart image and attaches it to the product.
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		response.Error(w, http.StatusBadRequest, "Malformed multipart body")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing image file")
		return
	}
	defer file.Close()

	p, err := c.products.AttachImage(actor, id, header.Filename, file)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, p)
}
