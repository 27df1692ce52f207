package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/response"
	"github.com/shashiranjanraj/dukaan/pkg/validate"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// Index lists accounts; admin only.
func (c *UserController) Index(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 0)
	search := r.URL.Query().Get("search")

	users, meta, err := c.users.List(actor, search, page, perPage)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Paginated(w, users, meta)
}

// Show returns one profile; self or admin.
func (c *UserController) Show(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	user, err := c.users.Get(actor, id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, user)
}

// Update edits a profile; self or admin.
func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var in services.UserUpdateInput
	if !decode(w, r, &in) {
		return
	}
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.users.Update(actor, id, in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, user)
}

// Destroy deletes an account; admin only, never the admin's own.
func (c *UserController) Destroy(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := c.users.Delete(actor, id); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "user deleted"})
}
