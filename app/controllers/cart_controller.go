package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/response"
	"github.com/shashiranjanraj/dukaan/pkg/validate"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

// cartView adds the advisory subtotal to the serialised cart.
func (c *CartController) cartView(cart *models.Cart) map[string]interface{} {
	return map[string]interface{}{
		"cart":     cart,
		"subtotal": c.carts.Subtotal(cart).StringFixed(2),
	}
}

// Show returns the caller's cart.
func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	cart, err := c.carts.Get(actor.ID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, c.cartView(cart))
}

// AddItem puts a product into the caller's cart, merging an existing line.
func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var in struct {
		ProductID uint `json:"product_id" validate:"required"`
		Quantity  int  `json:"quantity"   validate:"required,integer,gte=1"`
	}
	if !decode(w, r, &in) {
		return
	}
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	cart, err := c.carts.AddItem(actor.ID, in.ProductID, in.Quantity)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, c.cartView(cart))
}

// UpdateItem replaces a line's quantity outright.
func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	productID, ok := urlID(w, r, "productID")
	if !ok {
		return
	}

	var in struct {
		Quantity int `json:"quantity" validate:"required,integer,gte=1"`
	}
	if !decode(w, r, &in) {
		return
	}
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	cart, err := c.carts.UpdateItemQuantity(actor.ID, productID, in.Quantity)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, c.cartView(cart))
}

// RemoveItem deletes a line from the caller's cart.
func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	productID, ok := urlID(w, r, "productID")
	if !ok {
		return
	}

	cart, err := c.carts.RemoveItem(actor.ID, productID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, c.cartView(cart))
}

// Clear empties the caller's cart.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := c.carts.Clear(actor.ID); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "cart cleared"})
}
