package catalog_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/models"
	"github.com/shashiranjanraj/velocart/app/repositories/memstore"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func product(id, name string, createdAt int) models.Product {
	p := models.Product{
		ID:          id,
		Name:        name,
		Category:    "Bikes",
		SubCategory: "Mountain",
		Brand:       "Trek",
		ActualPrice: 100,
		Rating:      4,
		Inventory:   1,
		CreatedAt:   epoch.Add(time.Duration(createdAt) * time.Hour),
	}
	p.Normalize()
	p.UpdatedAt = p.CreatedAt
	return p
}

func seeded(t *testing.T, products ...models.Product) *memstore.Store {
	t.Helper()
	s := memstore.New()
	for _, p := range products {
		s.Put(p)
	}
	return s
}

func numbered(n int) []models.Product {
	out := make([]models.Product, n)
	for i := range out {
		out[i] = product(fmt.Sprintf("p%03d", i), fmt.Sprintf("Bike %03d", i), i)
	}
	return out
}

func newestFirst(t *testing.T) catalog.Query {
	t.Helper()
	q, err := catalog.NewBuilder().OrderBy(catalog.FieldCreatedAt, true).Build()
	require.NoError(t, err)
	return q
}

// blockingStore never answers Find until the context ends.
type blockingStore struct {
	*memstore.Store
}

func (b blockingStore) Find(ctx context.Context, _ catalog.Query, _ *models.Product) ([]models.Product, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// countingTaxonomy counts LoadTaxonomy calls.
type countingTaxonomy struct {
	catalog.TaxonomyStore
	loads atomic.Int32
}

func (c *countingTaxonomy) LoadTaxonomy(ctx context.Context) (models.Taxonomy, error) {
	c.loads.Add(1)
	return c.TaxonomyStore.LoadTaxonomy(ctx)
}

func bikeTaxonomy(t *testing.T) *memstore.Store {
	t.Helper()
	s := memstore.New()
	ctx := context.Background()
	require.NoError(t, s.PutCategory(ctx, models.Category{
		Name: "Bikes",
		SubCategories: []models.SubCategory{
			{Name: "Mountain", Brands: []string{"Trek", "Giant"}},
			{Name: "Road", Brands: []string{"Cannondale"}},
		},
	}))
	require.NoError(t, s.PutCategory(ctx, models.Category{
		Name:          "Components",
		SubCategories: []models.SubCategory{{Name: "Drivetrain", Brands: []string{"Shimano", "SRAM"}}},
	}))
	return s
}
