package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamedRoutesAndURL(t *testing.T) {
	r := New()
	handler := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

	r.Get("/products/{id}", "products.show", handler)

	path, ok := r.Path("products.show")
	require.True(t, ok)
	assert.Equal(t, "/products/{id}", path)

	url, err := r.URL("products.show", map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "/products/42", url)

	_, err = r.URL("products.show", nil)
	assert.Error(t, err, "missing params")

	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}

func TestGroupsPrefixAndMiddleware(t *testing.T) {
	r := New()

	var order []string
	mw := func(tag string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, req)
			})
		}
	}

	api := r.Group("/api/v1", mw("outer"))
	admin := api.Group("/admin", mw("inner"))
	admin.Delete("/orders/{id}", "admin.orders.destroy", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	path, ok := r.Path("admin.orders.destroy")
	require.True(t, ok)
	assert.Equal(t, "/api/v1/admin/orders/{id}", path)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/orders/7", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestMethodsAreDistinct(t *testing.T) {
	r := New()
	r.Get("/cart", "cart.show", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodDelete, "/cart", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
