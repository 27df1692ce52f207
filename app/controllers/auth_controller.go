package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/response"
	"github.com/shashiranjanraj/dukaan/pkg/validate"
)

type AuthController struct {
	auth  *services.AuthService
	users *services.UserService
}

func NewAuthController(auth *services.AuthService, users *services.UserService) *AuthController {
	return &AuthController{auth: auth, users: users}
}

// Register creates a CUSTOMER account with an empty cart.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if !decode(w, r, &in) {
		return
	}
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.users.Register(in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, user)
}

// Login exchanges credentials for a token pair.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Identity string `json:"identity" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if !decode(w, r, &in) {
		return
	}
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	user, pair, err := c.auth.Login(in.Identity, in.Password)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"user":   user,
		"tokens": pair,
	})
}

// Refresh exchanges a refresh token for a new pair.
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if !decode(w, r, &in) {
		return
	}
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	pair, err := c.auth.Refresh(in.RefreshToken)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, pair)
}

// Me returns the authenticated user's profile.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	user, err := c.auth.Me(actor.ID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, user)
}
