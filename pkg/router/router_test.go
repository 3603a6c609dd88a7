package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func tag(v string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", v)
			next.ServeHTTP(w, r)
		})
	}
}

func TestGroupsAndMiddlewareOrder(t *testing.T) {
	r := New()
	api := r.Group("/api", tag("api"))
	admin := api.Group("admin/", tag("admin"))
	admin.Delete("/products/{id}", "admin.products.destroy", ok, tag("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/products/42", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"api", "admin", "route"}, rec.Header().Values("X-Chain"))
}

func TestNamedRoutes(t *testing.T) {
	r := New()
	r.Group("/api").Get("/products/{id}", "products.show", ok)

	path, found := r.Path("products.show")
	require.True(t, found)
	assert.Equal(t, "/api/products/{id}", path)

	url, err := r.URL("products.show", map[string]string{"id": "p1"})
	require.NoError(t, err)
	assert.Equal(t, "/api/products/p1", url)

	_, err = r.URL("products.show", nil)
	assert.Error(t, err)
	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestRoutesSorted(t *testing.T) {
	r := New()
	g := r.Group("/api")
	g.Put("/b", "b.update", ok)
	g.Get("/b", "b.show", ok)
	g.Post("/a", "", ok)
	r.Handle("/graphql", "graphql", http.HandlerFunc(ok))

	assert.Equal(t, []RouteInfo{
		{Method: http.MethodPost, Path: "/api/a"},
		{Method: http.MethodGet, Path: "/api/b", Name: "b.show"},
		{Method: http.MethodPut, Path: "/api/b", Name: "b.update"},
		{Method: "*", Path: "/graphql", Name: "graphql"},
	}, r.Routes())
}

func TestHandleAcceptsAnyMethod(t *testing.T) {
	r := New()
	r.Handle("/graphql", "graphql", http.HandlerFunc(ok))

	for _, m := range []string{http.MethodGet, http.MethodPost} {
		rec := httptest.NewRecorder()
		r.Handler().ServeHTTP(rec, httptest.NewRequest(m, "/graphql", nil))
		assert.Equal(t, http.StatusOK, rec.Code, m)
	}
}
