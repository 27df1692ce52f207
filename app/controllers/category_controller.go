package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/response"
	"github.com/shashiranjanraj/dukaan/pkg/validate"
)

type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

// Index lists categories. Public; non-staff callers only see active ones.
func (c *CategoryController) Index(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 0)

	activeOnly := true
	if actor, ok := actorFrom(r); ok && actor.Role != models.RoleCustomer {
		activeOnly = r.URL.Query().Get("include_inactive") == ""
	}

	cats, meta, err := c.categories.List(r.Context(), activeOnly, page, perPage)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Paginated(w, cats, meta)
}

// Show returns one category.
func (c *CategoryController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	cat, err := c.categories.Get(id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, cat)
}

// Store creates a category; ADMIN or EDITOR.
func (c *CategoryController) Store(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var in services.CategoryInput
	if !decode(w, r, &in) {
		return
	}
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	cat, err := c.categories.Create(actor, in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, cat)
}

// Update edits a category; ADMIN or EDITOR.
func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var in services.CategoryInput
	if !decode(w, r, &in) {
		return
	}
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	cat, err := c.categories.Update(actor, id, in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, cat)
}

// Destroy deletes a category; refused while products reference it.
func (c *CategoryController) Destroy(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := c.categories.Delete(actor, id); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "category deleted"})
}
