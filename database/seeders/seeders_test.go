package seeders

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/repositories/memstore"
)

func TestRunAllSeedsCatalogOnce(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	target := Target{Store: store, Taxonomy: store}

	var out bytes.Buffer
	require.NoError(t, RunAll(ctx, target, &out))
	assert.Contains(t, out.String(), "Running seeder: products")

	tax, err := store.LoadTaxonomy(ctx)
	require.NoError(t, err)
	assert.Len(t, tax.Categories, len(demoTaxonomy))

	q, err := catalog.NewBuilder().Build()
	require.NoError(t, err)
	all, err := store.Find(ctx, q, nil)
	require.NoError(t, err)
	assert.Len(t, all, len(demoProducts))

	require.NoError(t, RunAll(ctx, target, &out))
	all, err = store.Find(ctx, q, nil)
	require.NoError(t, err)
	assert.Len(t, all, len(demoProducts), "second run must not duplicate products")
}

func TestDemoProductsMatchTaxonomy(t *testing.T) {
	for _, p := range demoProducts {
		found := false
		for _, c := range demoTaxonomy {
			if c.Name != p.Category {
				continue
			}
			for _, s := range c.SubCategories {
				if s.Name == p.SubCategory {
					assert.Contains(t, s.Brands, p.Brand, p.Name)
					found = true
				}
			}
		}
		assert.True(t, found, "%s has no category %s/%s", p.Name, p.Category, p.SubCategory)
	}
}
