// Package routes wires controllers onto the named router. Route-level role
// gates are coarse; the authorization gate in app/services makes the final
// ownership decision per operation.
package routes

import (
	"github.com/shashiranjanraj/dukaan/app/controllers"
	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/pkg/middleware"
	"github.com/shashiranjanraj/dukaan/pkg/rbac"
	"github.com/shashiranjanraj/dukaan/pkg/router"
)

// Controllers bundles everything RegisterAPI mounts.
type Controllers struct {
	Auth     *controllers.AuthController
	Users    *controllers.UserController
	Category *controllers.CategoryController
	Product  *controllers.ProductController
	Cart     *controllers.CartController
	Order    *controllers.OrderController
}

func RegisterAPI(r *router.Router, c Controllers) {
	api := r.Group("/api/v1")

	// Public
	api.Post("/auth/register", "auth.register", c.Auth.Register)
	api.Post("/auth/login", "auth.login", c.Auth.Login)
	api.Post("/auth/refresh", "auth.refresh", c.Auth.Refresh)

	api.Get("/categories", "categories.index", c.Category.Index)
	api.Get("/categories/{id}", "categories.show", c.Category.Show)
	api.Get("/products", "products.index", c.Product.Index)
	api.Get("/products/{id}", "products.show", c.Product.Show)
	api.Get("/products/slug/{slug}", "products.show_by_slug", c.Product.ShowBySlug)

	// Authenticated
	authed := api.Group("", middleware.Auth)
	authed.Get("/auth/me", "auth.me", c.Auth.Me)

	authed.Get("/cart", "cart.show", c.Cart.Show)
	authed.Post("/cart/items", "cart.add_item", c.Cart.AddItem)
	authed.Put("/cart/items/{productID}", "cart.update_item", c.Cart.UpdateItem)
	authed.Delete("/cart/items/{productID}", "cart.remove_item", c.Cart.RemoveItem)
	authed.Delete("/cart", "cart.clear", c.Cart.Clear)

	authed.Post("/orders", "orders.checkout", c.Order.Checkout,
		rbac.HasRole(models.RoleCustomer))
	authed.Get("/orders", "orders.index", c.Order.Index)
	authed.Get("/orders/{id}", "orders.show", c.Order.Show)
	authed.Post("/orders/{id}/cancel", "orders.cancel", c.Order.Cancel)

	authed.Get("/users/{id}", "users.show", c.Users.Show)
	authed.Put("/users/{id}", "users.update", c.Users.Update)

	// Staff (catalogue mutation)
	staff := authed.Group("", rbac.HasRole(models.RoleAdmin, models.RoleEditor))
	staff.Post("/categories", "categories.store", c.Category.Store)
	staff.Put("/categories/{id}", "categories.update", c.Category.Update)
	staff.Delete("/categories/{id}", "categories.destroy", c.Category.Destroy)
	staff.Post("/products", "products.store", c.Product.Store)
	staff.Put("/products/{id}", "products.update", c.Product.Update)
	staff.Delete("/products/{id}", "products.destroy", c.Product.Destroy)
	staff.Post("/products/{id}/image", "products.upload_image", c.Product.UploadImage)

	// Admin
	admin := authed.Group("", rbac.HasRole(models.RoleAdmin))
	admin.Get("/users", "users.index", c.Users.Index)
	admin.Delete("/users/{id}", "users.destroy", c.Users.Destroy)
	admin.Patch("/orders/{id}/status", "orders.update_status", c.Order.UpdateStatus)
	admin.Delete("/orders/{id}", "orders.destroy", c.Order.Destroy)
}
