package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/shashiranjanraj/velocart/app/models"
)

// Lookup resolves user-supplied category and subcategory names against one
// taxonomy snapshot. Create one per request: the snapshot is loaded on first
// use and reused for the lifetime of the Lookup. Failed loads are not cached.
type Lookup struct {
	store TaxonomyStore

	mu     sync.Mutex
	loaded bool
	tax    models.Taxonomy
}

func NewLookup(store TaxonomyStore) *Lookup {
	return &Lookup{store: store}
}

// Taxonomy returns the memoized snapshot.
func (l *Lookup) Taxonomy(ctx context.Context) (models.Taxonomy, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return l.tax, nil
	}
	tax, err := l.store.LoadTaxonomy(ctx)
	if err != nil {
		return models.Taxonomy{}, Wrap("Lookup.Taxonomy", err)
	}
	l.tax, l.loaded = tax, true
	return l.tax, nil
}

// ResolveCategory returns the canonical spelling of input.
func (l *Lookup) ResolveCategory(ctx context.Context, input string) (string, error) {
	c, err := l.category(ctx, input)
	if err != nil {
		return "", err
	}
	return c.Name, nil
}

// ResolveSubcategory returns the canonical spelling of input within category.
func (l *Lookup) ResolveSubcategory(ctx context.Context, category, input string) (string, error) {
	s, err := l.subcategory(ctx, category, input)
	if err != nil {
		return "", err
	}
	return s.Name, nil
}

// Brands returns the brand list of a subcategory. Both names resolve
// case-insensitively.
func (l *Lookup) Brands(ctx context.Context, category, sub string) ([]string, error) {
	s, err := l.subcategory(ctx, category, sub)
	if err != nil {
		return nil, err
	}
	return append([]string{}, s.Brands...), nil
}

// ResolveBrand returns the canonical spelling of brand within a subcategory.
func (l *Lookup) ResolveBrand(ctx context.Context, category, sub, brand string) (string, error) {
	s, err := l.subcategory(ctx, category, sub)
	if err != nil {
		return "", err
	}
	want := strings.TrimSpace(brand)
	for _, b := range s.Brands {
		if strings.EqualFold(b, want) {
			return b, nil
		}
	}
	return "", NotFound("Lookup.ResolveBrand", "brand %q not found in %s/%s", brand, category, s.Name)
}

func (l *Lookup) category(ctx context.Context, input string) (*models.Category, error) {
	tax, err := l.Taxonomy(ctx)
	if err != nil {
		return nil, err
	}
	want := strings.TrimSpace(input)
	for i := range tax.Categories {
		if strings.EqualFold(tax.Categories[i].Name, want) {
			return &tax.Categories[i], nil
		}
	}
	return nil, NotFound("Lookup.ResolveCategory", "category %q not found", input)
}

func (l *Lookup) subcategory(ctx context.Context, category, input string) (*models.SubCategory, error) {
	c, err := l.category(ctx, category)
	if err != nil {
		return nil, err
	}
	want := strings.TrimSpace(input)
	for i := range c.SubCategories {
		if strings.EqualFold(c.SubCategories[i].Name, want) {
			return &c.SubCategories[i], nil
		}
	}
	return nil, NotFound("Lookup.ResolveSubcategory", "subcategory %q not found in %s", input, c.Name)
}
