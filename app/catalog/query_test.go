package catalog_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/velocart/app/catalog"
)

func TestBuildAppendsIDTiebreak(t *testing.T) {
	q, err := catalog.NewBuilder().Build()
	require.NoError(t, err)
	assert.Equal(t, []catalog.Order{{Field: catalog.FieldID}}, q.Orders)

	q, err = catalog.NewBuilder().OrderBy(catalog.FieldRating, true).OrderBy(catalog.FieldName, false).Build()
	require.NoError(t, err)
	assert.Equal(t, []catalog.Order{{Field: catalog.FieldName}, {Field: catalog.FieldID}}, q.Orders)
}

func TestBuildOrdersRangeFieldFirst(t *testing.T) {
	q, err := catalog.NewBuilder().
		Range(catalog.FieldPrice, catalog.OpGte, 10.0).
		OrderBy(catalog.FieldRating, true).
		Build()
	require.NoError(t, err)
	assert.Equal(t, []catalog.Order{
		{Field: catalog.FieldPrice},
		{Field: catalog.FieldRating, Desc: true},
		{Field: catalog.FieldID},
	}, q.Orders)

	q, err = catalog.NewBuilder().
		Range(catalog.FieldPrice, catalog.OpLte, 10.0).
		OrderBy(catalog.FieldPrice, true).
		Build()
	require.NoError(t, err)
	assert.Equal(t, []catalog.Order{{Field: catalog.FieldPrice, Desc: true}, {Field: catalog.FieldID}}, q.Orders)
}

func TestBuildRejectsTwoRangeFields(t *testing.T) {
	_, err := catalog.NewBuilder().
		Range(catalog.FieldPrice, catalog.OpGte, 10.0).
		Prefix(catalog.FieldNameLower, "moun").
		Build()
	require.Error(t, err)
	assert.True(t, catalog.IsKind(err, catalog.KindConfiguration))
}

func TestBuildEqualityPredicates(t *testing.T) {
	q, err := catalog.NewBuilder().
		Where(catalog.FieldSubCategory, "Mountain").
		In(catalog.FieldCategory, []string{"Bikes"}).
		In(catalog.FieldBrand, nil).
		Where(catalog.FieldSubCategory, "Mountain").
		Build()
	require.NoError(t, err)
	assert.Equal(t, []catalog.Predicate{
		{Field: catalog.FieldCategory, Op: catalog.OpEq, Value: "Bikes"},
		{Field: catalog.FieldSubCategory, Op: catalog.OpEq, Value: "Mountain"},
	}, q.Equals)

	_, err = catalog.NewBuilder().
		Where(catalog.FieldBrand, "Trek").
		Where(catalog.FieldBrand, "Giant").
		Build()
	assert.True(t, catalog.IsKind(err, catalog.KindConfiguration))
}

func TestBuildRejectsEqualityOperatorAsRange(t *testing.T) {
	_, err := catalog.NewBuilder().Range(catalog.FieldPrice, catalog.OpEq, 1.0).Build()
	assert.True(t, catalog.IsKind(err, catalog.KindConfiguration))
}

func TestBuildNegativeLimit(t *testing.T) {
	_, err := catalog.NewBuilder().Limit(-1).Build()
	assert.True(t, catalog.IsKind(err, catalog.KindConfiguration))
}

func TestBuildRequiresDeclaredIndex(t *testing.T) {
	indexes := catalog.NewIndexSet(catalog.NewIndex([]string{catalog.FieldCategory}, catalog.Order{Field: catalog.FieldRating, Desc: true}))

	_, err := catalog.NewBuilder().
		Where(catalog.FieldCategory, "Bikes").
		OrderBy(catalog.FieldRating, true).
		RequireIndexes(indexes).
		Build()
	require.NoError(t, err)

	_, err = catalog.NewBuilder().
		Where(catalog.FieldCategory, "Bikes").
		OrderBy(catalog.FieldName, false).
		RequireIndexes(indexes).
		Build()
	require.Error(t, err)
	assert.True(t, catalog.IsKind(err, catalog.KindConfiguration))
	assert.Contains(t, err.Error(), "category|name:asc")

	// Single-field orderings need no composite index.
	_, err = catalog.NewBuilder().OrderBy(catalog.FieldName, false).RequireIndexes(indexes).Build()
	assert.NoError(t, err)
}

func TestQueryShape(t *testing.T) {
	q, err := catalog.NewBuilder().
		Where(catalog.FieldCategory, "Bikes").
		Range(catalog.FieldPrice, catalog.OpLt, 50.0).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "where[category ==, price <] order[price:asc, id:asc]", q.Shape())
}

func TestDefaultIndexesCoverListingShapes(t *testing.T) {
	set := catalog.DefaultIndexes()
	assert.Less(t, set.Len(), 64, "one slot is left for the _id index")

	profiles := []catalog.Profile{catalog.StorefrontProfile, catalog.CategoryProfile, catalog.AdminProfile}
	categories := []string{"", "Bikes", "Bikes,Components"}
	brands := []string{"", "Trek", "Trek,Giant"}
	for _, profile := range profiles {
		for _, cats := range categories {
			for _, sub := range []string{"", "Road"} {
				for _, brs := range brands {
					for _, key := range catalog.SortKeys() {
						for _, extra := range []url.Values{{}, {"minPrice": {"100"}}, {"q": {"moun"}}} {
							values := url.Values{"sortBy": {string(key)}}
							put := func(k, v string) {
								if v != "" {
									values.Set(k, v)
								}
							}
							put("categories", cats)
							put("subCategory", sub)
							put("brands", brs)
							for k, v := range extra {
								values[k] = v
							}

							spec, err := catalog.NormalizeListing(values, profile)
							if sub != "" && cats == "" {
								assert.Contains(t, catalog.FieldErrors(err), "subCategory")
								continue
							}
							require.NoError(t, err, "%s %v", profile.Name, values)

							_, err = spec.Query(set)
							assert.NoError(t, err, "%s %v", profile.Name, values)
						}
					}
				}
			}
		}
	}
}
