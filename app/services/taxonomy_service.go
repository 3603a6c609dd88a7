package services

import (
	"context"
	"strings"
	"time"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/models"
	"github.com/shashiranjanraj/velocart/pkg/logger"
)

// BrandInput names a brand within a subcategory.
type BrandInput struct {
	Category    string `json:"category"    validate:"required,max=100"`
	SubCategory string `json:"subCategory" validate:"required,max=100"`
	Brand       string `json:"brand"       validate:"required,max=100"`
}

type TaxonomyService struct {
	store catalog.TaxonomyStore
}

// NewTaxonomyService bounds every store call by timeout, or by
// catalog.DefaultStoreTimeout when timeout is not positive.
func NewTaxonomyService(store catalog.TaxonomyStore, timeout time.Duration) *TaxonomyService {
	return &TaxonomyService{store: catalog.BoundTaxonomy(store, timeout)}
}

func (s *TaxonomyService) Taxonomy(ctx context.Context) (models.Taxonomy, error) {
	tax, err := catalog.NewLookup(s.store).Taxonomy(ctx)
	if err != nil {
		return models.Taxonomy{}, catalog.Wrap("TaxonomyService.Taxonomy", err)
	}
	return tax, nil
}

// Brands resolves both path segments case-insensitively.
func (s *TaxonomyService) Brands(ctx context.Context, category, subcategory string) ([]string, error) {
	brands, err := catalog.NewLookup(s.store).Brands(ctx, category, subcategory)
	if err != nil {
		return nil, catalog.Wrap("TaxonomyService.Brands", err)
	}
	return brands, nil
}

// AddBrand adds a brand and returns the updated brand list. Adding a brand
// that exists in any letter case is a no-op.
func (s *TaxonomyService) AddBrand(ctx context.Context, in BrandInput) ([]string, error) {
	return s.mutate(ctx, catalog.AddBrand, in)
}

// RemoveBrand removes a brand, matched case-insensitively, and returns the
// updated brand list.
func (s *TaxonomyService) RemoveBrand(ctx context.Context, in BrandInput) ([]string, error) {
	return s.mutate(ctx, catalog.RemoveBrand, in)
}

func (s *TaxonomyService) mutate(ctx context.Context, op catalog.MutationOp, in BrandInput) ([]string, error) {
	const name = "TaxonomyService.MutateTaxonomy"

	m := catalog.TaxonomyMutation{
		Op:          op,
		Category:    strings.TrimSpace(in.Category),
		SubCategory: strings.TrimSpace(in.SubCategory),
		Brand:       strings.TrimSpace(in.Brand),
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	lookup := catalog.NewLookup(s.store)
	var err error
	if m.Category, err = lookup.ResolveCategory(ctx, m.Category); err != nil {
		return nil, catalog.Wrap(name, err)
	}
	if m.SubCategory, err = lookup.ResolveSubcategory(ctx, m.Category, m.SubCategory); err != nil {
		return nil, catalog.Wrap(name, err)
	}
	if existing, err := lookup.ResolveBrand(ctx, m.Category, m.SubCategory, m.Brand); err == nil {
		if op == catalog.AddBrand {
			return lookup.Brands(ctx, m.Category, m.SubCategory)
		}
		m.Brand = existing
	} else if !catalog.IsKind(err, catalog.KindNotFound) {
		return nil, catalog.Wrap(name, err)
	}

	if err := s.store.MutateTaxonomy(ctx, m); err != nil {
		return nil, catalog.Wrap(name, err)
	}
	logger.WithCtx(ctx).Info("taxonomy updated",
		"op", string(m.Op), "category", m.Category, "subCategory", m.SubCategory, "brand", m.Brand)

	return s.Brands(ctx, m.Category, m.SubCategory)
}

// PutCategory creates or replaces a whole category.
func (s *TaxonomyService) PutCategory(ctx context.Context, c models.Category) error {
	catalog.SortCategory(&c)
	return catalog.Wrap("TaxonomyService.PutCategory", s.store.PutCategory(ctx, c))
}
