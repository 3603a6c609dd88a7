package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/models"
)

func TestCreateAssignsID(t *testing.T) {
	s := New()
	s.NewID = func() string { return "fixed" }

	p := &models.Product{Name: "Helmet"}
	require.NoError(t, s.Create(context.Background(), p))
	assert.Equal(t, "fixed", p.ID)

	got, err := s.Get(context.Background(), "fixed")
	require.NoError(t, err)
	assert.Equal(t, "Helmet", got.Name)
}

func TestDeleteTwice(t *testing.T) {
	s := New()
	s.Put(models.Product{ID: "p1"})
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, "p1"))
	err := s.Delete(ctx, "p1")
	assert.True(t, catalog.IsKind(err, catalog.KindNotFound))

	_, err = s.Get(ctx, "p1")
	assert.True(t, catalog.IsKind(err, catalog.KindNotFound))
	assert.True(t, catalog.IsKind(s.Update(ctx, &models.Product{ID: "p1"}), catalog.KindNotFound))
}

func TestGetReturnsCopy(t *testing.T) {
	s := New()
	s.Put(models.Product{ID: "p1", Images: []string{"a"}})

	got, err := s.Get(context.Background(), "p1")
	require.NoError(t, err)
	got.Images[0] = "changed"

	again, _ := s.Get(context.Background(), "p1")
	assert.Equal(t, "a", again.Images[0])
}

func TestFindOffsetPastEnd(t *testing.T) {
	s := New()
	s.Put(models.Product{ID: "p1"})
	q, err := catalog.NewBuilder().Offset(5).Build()
	require.NoError(t, err)

	got, err := s.Find(context.Background(), q, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Find(ctx, catalog.Query{}, nil)
	assert.True(t, catalog.IsKind(err, catalog.KindUnavailable))
}

func TestMutateTaxonomyConcurrentAdds(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.PutCategory(ctx, models.Category{
		Name:          "Bikes",
		SubCategories: []models.SubCategory{{Name: "Mountain", Brands: []string{"Trek"}}},
	}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m := catalog.TaxonomyMutation{Op: catalog.AddBrand, Category: "Bikes", SubCategory: "Mountain", Brand: fmt.Sprintf("Brand%02d", i%10)}
			assert.NoError(t, s.MutateTaxonomy(ctx, m))
		}(i)
	}
	wg.Wait()

	tax, err := s.LoadTaxonomy(ctx)
	require.NoError(t, err)
	brands := tax.Categories[0].SubCategories[0].Brands
	require.Len(t, brands, 11)
	assert.IsNonDecreasing(t, brands)
	assert.EqualValues(t, 10, tax.Categories[0].Version)
}

func TestMutateTaxonomyNotFound(t *testing.T) {
	s := New()
	ctx := context.Background()
	err := s.MutateTaxonomy(ctx, catalog.TaxonomyMutation{Op: catalog.AddBrand, Category: "Bikes", SubCategory: "Mountain", Brand: "Trek"})
	assert.True(t, catalog.IsKind(err, catalog.KindNotFound))

	require.NoError(t, s.PutCategory(ctx, models.Category{Name: "Bikes", SubCategories: []models.SubCategory{{Name: "Mountain"}}}))
	err = s.MutateTaxonomy(ctx, catalog.TaxonomyMutation{Op: catalog.RemoveBrand, Category: "Bikes", SubCategory: "Mountain", Brand: "Trek"})
	assert.True(t, catalog.IsKind(err, catalog.KindNotFound))
}

func TestLoadTaxonomySortedByName(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, name := range []string{"Components", "Accessories", "Bikes"} {
		require.NoError(t, s.PutCategory(ctx, models.Category{Name: name}))
	}
	tax, err := s.LoadTaxonomy(ctx)
	require.NoError(t, err)
	names := make([]string, len(tax.Categories))
	for i, c := range tax.Categories {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Accessories", "Bikes", "Components"}, names)
}
