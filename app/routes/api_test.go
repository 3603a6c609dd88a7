package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appgraphql "github.com/shashiranjanraj/velocart/app/graphql"
	"github.com/shashiranjanraj/velocart/app/models"
	"github.com/shashiranjanraj/velocart/app/repositories/memstore"
	"github.com/shashiranjanraj/velocart/app/services"
	"github.com/shashiranjanraj/velocart/internal/kernel"
	"github.com/shashiranjanraj/velocart/pkg/auth"
	gql "github.com/shashiranjanraj/velocart/pkg/graphql"
	"github.com/shashiranjanraj/velocart/pkg/middleware"
	"github.com/shashiranjanraj/velocart/pkg/rbac"
	"github.com/shashiranjanraj/velocart/pkg/router"
)

const adminEmail = "ops@velocart.test"

func newServer(t *testing.T, ping func(context.Context) error) (*httptest.Server, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	require.NoError(t, store.PutCategory(context.Background(), models.Category{
		Name: "Bikes",
		SubCategories: []models.SubCategory{
			{Name: "Mountain", Brands: []string{"Trek"}},
		},
	}))

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	if ping == nil {
		ping = store.Ping
	}
	products := services.NewProductService(store, store, services.ProductConfig{})
	taxonomy := services.NewTaxonomyService(store, 0)
	schema, err := appgraphql.NewSchema(products, taxonomy)
	require.NoError(t, err)

	r := kernel.NewRouter(func(r *router.Router) {
		RegisterAPI(r, Deps{
			Products:      products,
			Taxonomy:      taxonomy,
			Auth:          services.NewAuthService(adminEmail, string(hash)),
			StoreDriver:   "memory",
			Ping:          ping,
			SearchLimiter: middleware.NewMemoryLimiter(2, time.Minute),
			GraphQL:       gql.Handler(schema),
		})
	})
	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, err := auth.GenerateToken(adminEmail, rbac.RoleAdmin, time.Hour)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, method, url, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var out map[string]any
	if res.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	}
	return res, out
}

const trek = `{"name":"Marlin 5","category":"bikes","subCategory":"mountain","brand":"trek","actualPrice":650,"rating":4.2}`

func TestAdminCreateThenStorefrontLists(t *testing.T) {
	srv, _ := newServer(t, nil)

	res, body := do(t, http.MethodPost, srv.URL+"/admin/products", adminToken(t), trek)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Bikes", data["category"])
	assert.Equal(t, "Trek", data["brand"])
	id := data["id"].(string)

	res, body = do(t, http.MethodGet, srv.URL+"/products?pageSize=5", "", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, body["products"], 1)
	assert.Equal(t, false, body["hasMore"])

	res, body = do(t, http.MethodGet, srv.URL+"/products/category/bikes/MOUNTAIN", "", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, body["products"], 1)

	res, body = do(t, http.MethodGet, srv.URL+"/products/"+id, "", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Marlin 5", body["data"].(map[string]any)["name"])

	res, _ = do(t, http.MethodDelete, srv.URL+"/admin/products/"+id, adminToken(t), "")
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res, _ = do(t, http.MethodGet, srv.URL+"/products/"+id, "", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	srv, _ := newServer(t, nil)

	res, _ := do(t, http.MethodPost, srv.URL+"/admin/products", "", trek)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	tok, err := auth.GenerateToken(adminEmail, "viewer", time.Hour)
	require.NoError(t, err)
	res, _ = do(t, http.MethodGet, srv.URL+"/admin/products", tok, "")
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestAdminLogin(t *testing.T) {
	srv, _ := newServer(t, nil)

	res, body := do(t, http.MethodPost, srv.URL+"/admin/login", "", `{"email":"OPS@velocart.test","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	tok := body["data"].(map[string]any)["token"].(string)

	res, body = do(t, http.MethodGet, srv.URL+"/admin/products", tok, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "products")

	res, _ = do(t, http.MethodPost, srv.URL+"/admin/login", "", `{"email":"ops@velocart.test","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestListingValidationAndUnknownCategory(t *testing.T) {
	srv, _ := newServer(t, nil)

	res, body := do(t, http.MethodGet, srv.URL+"/products?pageSize=500", "", "")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body["errors"], "pageSize")

	res, _ = do(t, http.MethodGet, srv.URL+"/products/category/boats/sail", "", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestBrandMutations(t *testing.T) {
	srv, _ := newServer(t, nil)
	tok := adminToken(t)

	res, body := do(t, http.MethodPost, srv.URL+"/admin/taxonomy/brands", tok, `{"category":"bikes","subCategory":"mountain","brand":"Giant"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.ElementsMatch(t, []any{"Giant", "Trek"}, body["data"].(map[string]any)["brands"])

	res, body = do(t, http.MethodGet, srv.URL+"/taxonomy/Bikes/Mountain/brands", "", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, body["data"].(map[string]any)["brands"], 2)

	res, _ = do(t, http.MethodDelete, srv.URL+"/admin/taxonomy/brands", tok, `{"category":"bikes","subCategory":"mountain","brand":"giant"}`)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestSearchIsRateLimited(t *testing.T) {
	srv, _ := newServer(t, nil)

	for range 2 {
		res, body := do(t, http.MethodGet, srv.URL+"/search?q=mar", "", "")
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Contains(t, body, "products")
	}
	res, _ := do(t, http.MethodGet, srv.URL+"/search?q=mar", "", "")
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("Retry-After"))
}

func TestGraphQLSharesSearchRateLimit(t *testing.T) {
	srv, _ := newServer(t, nil)
	query := `{"query":"{ search(q: \"mar\") { id } }"}`

	res, body := do(t, http.MethodPost, srv.URL+"/graphql", "", query)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "data")

	res, _ = do(t, http.MethodGet, srv.URL+"/search?q=mar", "", "")
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = do(t, http.MethodPost, srv.URL+"/graphql", "", query)
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("Retry-After"))
}

func TestHealthz(t *testing.T) {
	srv, _ := newServer(t, nil)
	res, _ := do(t, http.MethodGet, srv.URL+"/healthz", "", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)

	down, _ := newServer(t, func(context.Context) error { return errors.New("connection refused") })
	res, _ = do(t, http.MethodGet, down.URL+"/healthz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.Equal(t, "5", res.Header.Get("Retry-After"))
}

func TestUnknownRouteIsJSON(t *testing.T) {
	srv, _ := newServer(t, nil)
	res, body := do(t, http.MethodGet, srv.URL+"/nope", "", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.EqualValues(t, http.StatusNotFound, body["status"])
}
