package catalog

import (
	"context"
	"time"

	"github.com/shashiranjanraj/velocart/app/models"
)

// BoundedStore gives every call to the wrapped Store its own deadline.
// Failures after the deadline passed are KindUnavailable.
type BoundedStore struct {
	next    Store
	timeout time.Duration
}

// Bound wraps s so no call outlives timeout. A non-positive timeout means
// DefaultStoreTimeout.
func Bound(s Store, timeout time.Duration) *BoundedStore {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &BoundedStore{next: s, timeout: timeout}
}

func (s *BoundedStore) Find(ctx context.Context, q Query, after *models.Product) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	out, err := s.next.Find(ctx, q, after)
	if err != nil {
		return nil, storeError(ctx, "Store.Find", err)
	}
	return out, nil
}

func (s *BoundedStore) Get(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	p, err := s.next.Get(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "Store.Get", err)
	}
	return p, nil
}

func (s *BoundedStore) Create(ctx context.Context, p *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.next.Create(ctx, p); err != nil {
		return storeError(ctx, "Store.Create", err)
	}
	return nil
}

func (s *BoundedStore) Update(ctx context.Context, p *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.next.Update(ctx, p); err != nil {
		return storeError(ctx, "Store.Update", err)
	}
	return nil
}

func (s *BoundedStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.next.Delete(ctx, id); err != nil {
		return storeError(ctx, "Store.Delete", err)
	}
	return nil
}

func (s *BoundedStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.next.Ping(ctx); err != nil {
		return storeError(ctx, "Store.Ping", err)
	}
	return nil
}

// BoundedTaxonomy is the TaxonomyStore counterpart of BoundedStore.
type BoundedTaxonomy struct {
	next    TaxonomyStore
	timeout time.Duration
}

func BoundTaxonomy(t TaxonomyStore, timeout time.Duration) *BoundedTaxonomy {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &BoundedTaxonomy{next: t, timeout: timeout}
}

func (t *BoundedTaxonomy) LoadTaxonomy(ctx context.Context) (models.Taxonomy, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	tax, err := t.next.LoadTaxonomy(ctx)
	if err != nil {
		return models.Taxonomy{}, storeError(ctx, "TaxonomyStore.LoadTaxonomy", err)
	}
	return tax, nil
}

// MutateTaxonomy bounds the whole mutation, including any retries the
// backend makes on contention.
func (t *BoundedTaxonomy) MutateTaxonomy(ctx context.Context, m TaxonomyMutation) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	if err := t.next.MutateTaxonomy(ctx, m); err != nil {
		return storeError(ctx, "TaxonomyStore.MutateTaxonomy", err)
	}
	return nil
}

func (t *BoundedTaxonomy) PutCategory(ctx context.Context, c models.Category) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	if err := t.next.PutCategory(ctx, c); err != nil {
		return storeError(ctx, "TaxonomyStore.PutCategory", err)
	}
	return nil
}
