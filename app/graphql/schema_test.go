package graphql

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/velocart/app/models"
	"github.com/shashiranjanraj/velocart/app/repositories/memstore"
	"github.com/shashiranjanraj/velocart/app/services"
	gql "github.com/shashiranjanraj/velocart/pkg/graphql"
)

func testSchema(t *testing.T) graphql.Schema {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	require.NoError(t, store.PutCategory(ctx, models.Category{
		Name:          "Bikes",
		SubCategories: []models.SubCategory{{Name: "Mountain", Brands: []string{"Giant", "Trek"}}},
	}))
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"Mountain Explorer", "Trail Blazer", "Mountain Goat"} {
		p := models.Product{
			ID: name[:1] + string(rune('0'+i)), Name: name, Category: "Bikes", SubCategory: "Mountain",
			Brand: "Trek", ActualPrice: float64(100 * (i + 1)), Rating: float64(5 - i), Inventory: 1,
			CreatedAt: created.Add(time.Duration(i) * time.Hour),
		}
		p.Normalize()
		store.Put(p)
	}

	products := services.NewProductService(store, store, services.ProductConfig{})
	schema, err := NewSchema(products, services.NewTaxonomyService(store, 0))
	require.NoError(t, err)
	return schema
}

func run(t *testing.T, schema graphql.Schema, query string) map[string]any {
	t.Helper()
	rec := httptest.NewRecorder()
	body, _ := json.Marshal(map[string]string{"query": query})
	gql.Handler(schema)(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(string(body))))
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestProductsQueryPaginates(t *testing.T) {
	out := run(t, testSchema(t), `{ products(pageSize: 2, sortBy: "price_low") { hasMore lastProductId products { name price } } }`)
	require.Nil(t, out["errors"])

	page := out["data"].(map[string]any)["products"].(map[string]any)
	assert.Equal(t, true, page["hasMore"])
	items := page["products"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "Mountain Explorer", items[0].(map[string]any)["name"])
	assert.Equal(t, "T1", page["lastProductId"])
}

func TestCategoryProductsResolvesPath(t *testing.T) {
	out := run(t, testSchema(t), `{ categoryProducts(category: "BIKES", subcategory: "mountain", brands: ["Trek"]) { products { id } } }`)
	require.Nil(t, out["errors"])
	items := out["data"].(map[string]any)["categoryProducts"].(map[string]any)["products"].([]any)
	assert.Len(t, items, 3)
}

func TestSearchAndTaxonomy(t *testing.T) {
	out := run(t, testSchema(t), `{ search(q: "mountain") { name } taxonomy { name subCategories { name brands } } }`)
	require.Nil(t, out["errors"])
	data := out["data"].(map[string]any)
	assert.Len(t, data["search"].([]any), 2)
	tax := data["taxonomy"].([]any)
	require.Len(t, tax, 1)
	assert.Equal(t, "Bikes", tax[0].(map[string]any)["name"])
}

func TestResolverErrorsCarryKind(t *testing.T) {
	out := run(t, testSchema(t), `{ product(id: "nope") { id } }`)
	errs, ok := out["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	ext := errs[0].(map[string]any)["extensions"].(map[string]any)
	assert.Equal(t, "not_found", ext["code"])

	out = run(t, testSchema(t), `{ products(pageSize: 500) { hasMore } }`)
	errs = out["errors"].([]any)
	ext = errs[0].(map[string]any)["extensions"].(map[string]any)
	assert.Equal(t, "validation", ext["code"])
}
