// Package memstore is an in-process catalog backend with the same query and
// keyset semantics as the document store. It backs local development and the
// test suites.
package memstore

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/models"
)

// Store implements catalog.Store and catalog.TaxonomyStore.
type Store struct {
	mu         sync.RWMutex
	products   map[string]models.Product
	categories map[string]models.Category

	// NewID overrides ID generation; tests use it for deterministic IDs.
	NewID func() string
}

func New() *Store {
	return &Store{
		products:   make(map[string]models.Product),
		categories: make(map[string]models.Category),
		NewID:      uuid.NewString,
	}
}

func (s *Store) Find(ctx context.Context, q catalog.Query, after *models.Product) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, catalog.Wrap("memstore.Find", err)
	}

	s.mu.RLock()
	matched := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if catalog.Matches(&p, q) {
			matched = append(matched, clone(p))
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return catalog.CompareProducts(&matched[i], &matched[j], q.Orders) < 0
	})

	if after != nil {
		start := sort.Search(len(matched), func(i int) bool {
			return catalog.CompareProducts(&matched[i], after, q.Orders) > 0
		})
		matched = matched[start:]
	}

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			return []models.Product{}, nil
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, catalog.Wrap("memstore.Get", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, catalog.NotFound("memstore.Get", "product %q not found", id)
	}
	cp := clone(p)
	return &cp, nil
}

func (s *Store) Create(ctx context.Context, p *models.Product) error {
	if err := ctx.Err(); err != nil {
		return catalog.Wrap("memstore.Create", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.NewID()
	s.products[p.ID] = clone(*p)
	return nil
}

func (s *Store) Update(ctx context.Context, p *models.Product) error {
	if err := ctx.Err(); err != nil {
		return catalog.Wrap("memstore.Update", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[p.ID]; !ok {
		return catalog.NotFound("memstore.Update", "product %q not found", p.ID)
	}
	s.products[p.ID] = clone(*p)
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return catalog.Wrap("memstore.Delete", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return catalog.NotFound("memstore.Delete", "product %q not found", id)
	}
	delete(s.products, id)
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// Put stores p under its existing ID, for fixtures.
func (s *Store) Put(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = clone(p)
}

func (s *Store) LoadTaxonomy(ctx context.Context) (models.Taxonomy, error) {
	if err := ctx.Err(); err != nil {
		return models.Taxonomy{}, catalog.Wrap("memstore.LoadTaxonomy", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tax := models.Taxonomy{Categories: make([]models.Category, 0, len(s.categories))}
	for _, c := range s.categories {
		tax.Categories = append(tax.Categories, c.Clone())
	}
	slices.SortFunc(tax.Categories, func(a, b models.Category) int { return strings.Compare(a.Name, b.Name) })
	return tax, nil
}

func (s *Store) MutateTaxonomy(ctx context.Context, m catalog.TaxonomyMutation) error {
	const op = "memstore.MutateTaxonomy"
	if err := ctx.Err(); err != nil {
		return catalog.Wrap(op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[m.Category]
	if !ok {
		return catalog.NotFound(op, "category %q not found", m.Category)
	}
	c = c.Clone()
	changed, err := catalog.ApplyMutation(&c, m)
	if err != nil {
		return catalog.Wrap(op, err)
	}
	if changed {
		c.Version++
		s.categories[c.Name] = c
	}
	return nil
}

func (s *Store) PutCategory(ctx context.Context, c models.Category) error {
	if err := ctx.Err(); err != nil {
		return catalog.Wrap("memstore.PutCategory", err)
	}

	c = c.Clone()
	catalog.SortCategory(&c)

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.categories[c.Name]; ok {
		c.Version = prev.Version + 1
	}
	s.categories[c.Name] = c
	return nil
}

func clone(p models.Product) models.Product {
	p.Images = slices.Clone(p.Images)
	if p.DiscountPercentage != nil {
		d := *p.DiscountPercentage
		p.DiscountPercentage = &d
	}
	return p
}
