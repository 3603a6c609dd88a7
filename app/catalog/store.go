package catalog

import (
	"context"

	"github.com/shashiranjanraj/velocart/app/models"
)

// Store is the document store behind the catalog.
//
// Find returns products matching q in q.Orders order. When after is non-nil
// only products strictly after it in that order are returned (keyset
// pagination); q.Offset and q.Limit apply after that. A zero limit means
// unbounded.
//
// Get, Update and Delete return a KindNotFound *Error for unknown IDs.
// Create assigns the ID.
type Store interface {
	Find(ctx context.Context, q Query, after *models.Product) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// MutationOp is an atomic taxonomy edit.
type MutationOp string

const (
	AddBrand    MutationOp = "add_brand"
	RemoveBrand MutationOp = "remove_brand"
)

// TaxonomyMutation names a brand edit on a canonical category/subcategory.
type TaxonomyMutation struct {
	Op          MutationOp
	Category    string
	SubCategory string
	Brand       string
}

// TaxonomyStore holds the category tree.
//
// MutateTaxonomy applies m atomically: concurrent mutations never lose each
// other's updates. Adding a brand that is already present is a no-op;
// removing a missing brand, or naming a missing category or subcategory, is
// KindNotFound. Brand lists stay sorted and unique.
//
// PutCategory creates or replaces a whole category; it is used for seeding.
type TaxonomyStore interface {
	LoadTaxonomy(ctx context.Context) (models.Taxonomy, error)
	MutateTaxonomy(ctx context.Context, m TaxonomyMutation) error
	PutCategory(ctx context.Context, c models.Category) error
}
