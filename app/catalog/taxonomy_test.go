package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/models"
)

func mountain() models.Category {
	return models.Category{
		Name:          "Bikes",
		SubCategories: []models.SubCategory{{Name: "Mountain", Brands: []string{"Giant", "Trek"}}},
	}
}

func TestApplyMutationAddKeepsOrder(t *testing.T) {
	c := mountain()
	changed, err := catalog.ApplyMutation(&c, catalog.TaxonomyMutation{Op: catalog.AddBrand, Category: "Bikes", SubCategory: "Mountain", Brand: "Specialized"})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"Giant", "Specialized", "Trek"}, c.SubCategories[0].Brands)

	changed, err = catalog.ApplyMutation(&c, catalog.TaxonomyMutation{Op: catalog.AddBrand, Category: "Bikes", SubCategory: "Mountain", Brand: "Trek"})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, c.SubCategories[0].Brands, 3)
}

func TestApplyMutationRemove(t *testing.T) {
	c := mountain()
	changed, err := catalog.ApplyMutation(&c, catalog.TaxonomyMutation{Op: catalog.RemoveBrand, Category: "Bikes", SubCategory: "Mountain", Brand: "Giant"})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"Trek"}, c.SubCategories[0].Brands)

	_, err = catalog.ApplyMutation(&c, catalog.TaxonomyMutation{Op: catalog.RemoveBrand, Category: "Bikes", SubCategory: "Mountain", Brand: "Giant"})
	assert.True(t, catalog.IsKind(err, catalog.KindNotFound))
}

func TestApplyMutationUnknownSubcategory(t *testing.T) {
	c := mountain()
	_, err := catalog.ApplyMutation(&c, catalog.TaxonomyMutation{Op: catalog.AddBrand, Category: "Bikes", SubCategory: "Road", Brand: "Trek"})
	assert.True(t, catalog.IsKind(err, catalog.KindNotFound))
}

func TestTaxonomyMutationValidate(t *testing.T) {
	err := catalog.TaxonomyMutation{Op: "rename"}.Validate()
	fields := catalog.FieldErrors(err)
	assert.Len(t, fields, 4)

	assert.NoError(t, catalog.TaxonomyMutation{Op: catalog.RemoveBrand, Category: "Bikes", SubCategory: "Road", Brand: "Trek"}.Validate())
}

func TestSortCategory(t *testing.T) {
	c := models.Category{SubCategories: []models.SubCategory{
		{Name: "Road", Brands: []string{"Trek", "Cannondale", "Trek"}},
		{Name: "Gravel"},
	}}
	catalog.SortCategory(&c)
	assert.Equal(t, []string{"Cannondale", "Trek"}, c.SubCategories[0].Brands)
	assert.NotNil(t, c.SubCategories[1].Brands)
}

func TestErrorWrapKeepsKind(t *testing.T) {
	err := catalog.Wrap("svc.Get", catalog.NotFound("", "product %q not found", "x"))
	require.Error(t, err)
	assert.True(t, catalog.IsKind(err, catalog.KindNotFound))
	assert.Equal(t, `svc.Get: product "x" not found`, err.Error())

	assert.Equal(t, catalog.KindInternal, catalog.KindOf(assert.AnError))
	assert.Nil(t, catalog.Wrap("op", nil))
}
