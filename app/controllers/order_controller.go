package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/response"
	"github.com/shashiranjanraj/dukaan/pkg/validate"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Checkout commits the caller's cart into an order.
func (c *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var in struct {
		ShippingAddress string `json:"shipping_address" validate:"required,min=5,max=500"`
		BillingAddress  string `json:"billing_address"  validate:"nullable,min=5,max=500"`
	}
	if !decode(w, r, &in) {
		return
	}
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.Checkout(actor, in.ShippingAddress, in.BillingAddress)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, order)
}

// Index lists orders; non-admins see only their own.
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 0)
	status := models.OrderStatus(q.Get("status"))
	search := q.Get("search")

	orders, meta, err := c.orders.List(actor, page, perPage, status, search)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Paginated(w, orders, meta)
}

// Show returns one order; owner or admin.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	order, err := c.orders.Get(id, actor)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, order)
}

// Cancel releases stock and marks the order CANCELLED.
func (c *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := c.orders.Cancel(id, actor); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "order cancelled"})
}

// UpdateStatus sets the order's lifecycle status; admin only.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var in struct {
		Status string `json:"status" validate:"required,in=PENDING,PROCESSING,SHIPPED,DELIVERED,CANCELLED"`
	}
	if !decode(w, r, &in) {
		return
	}
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.UpdateStatus(id, models.OrderStatus(in.Status), actor)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, order)
}

// Destroy hard-deletes an order; admin only, no stock reversal.
func (c *OrderController) Destroy(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := c.orders.Delete(id, actor); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "order deleted"})
}
