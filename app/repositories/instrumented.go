// Package repositories selects and decorates the catalog backend named by
// STORE_DRIVER.
package repositories

import (
	"context"
	"time"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/models"
	"github.com/shashiranjanraj/velocart/pkg/metrics"
)

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return catalog.KindOf(err).String()
}

// InstrumentedStore records the latency and outcome of every store call.
type InstrumentedStore struct {
	backend string
	next    catalog.Store
}

func Instrument(backend string, s catalog.Store) *InstrumentedStore {
	return &InstrumentedStore{backend: backend, next: s}
}

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	metrics.ObserveStore(s.backend, op, start, outcome(err))
}

func (s *InstrumentedStore) Find(ctx context.Context, q catalog.Query, after *models.Product) (out []models.Product, err error) {
	defer func(start time.Time) { s.observe("find", start, err) }(time.Now())
	return s.next.Find(ctx, q, after)
}

func (s *InstrumentedStore) Get(ctx context.Context, id string) (p *models.Product, err error) {
	defer func(start time.Time) { s.observe("get", start, err) }(time.Now())
	return s.next.Get(ctx, id)
}

func (s *InstrumentedStore) Create(ctx context.Context, p *models.Product) (err error) {
	defer func(start time.Time) { s.observe("create", start, err) }(time.Now())
	return s.next.Create(ctx, p)
}

func (s *InstrumentedStore) Update(ctx context.Context, p *models.Product) (err error) {
	defer func(start time.Time) { s.observe("update", start, err) }(time.Now())
	return s.next.Update(ctx, p)
}

func (s *InstrumentedStore) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { s.observe("delete", start, err) }(time.Now())
	return s.next.Delete(ctx, id)
}

func (s *InstrumentedStore) Ping(ctx context.Context) (err error) {
	defer func(start time.Time) { s.observe("ping", start, err) }(time.Now())
	return s.next.Ping(ctx)
}

// InstrumentedTaxonomy is the TaxonomyStore counterpart of InstrumentedStore.
type InstrumentedTaxonomy struct {
	backend string
	next    catalog.TaxonomyStore
}

func InstrumentTaxonomy(backend string, t catalog.TaxonomyStore) *InstrumentedTaxonomy {
	return &InstrumentedTaxonomy{backend: backend, next: t}
}

func (t *InstrumentedTaxonomy) LoadTaxonomy(ctx context.Context) (tax models.Taxonomy, err error) {
	defer func(start time.Time) { metrics.ObserveStore(t.backend, "load_taxonomy", start, outcome(err)) }(time.Now())
	return t.next.LoadTaxonomy(ctx)
}

func (t *InstrumentedTaxonomy) MutateTaxonomy(ctx context.Context, m catalog.TaxonomyMutation) (err error) {
	defer func(start time.Time) { metrics.ObserveStore(t.backend, "mutate_taxonomy", start, outcome(err)) }(time.Now())
	return t.next.MutateTaxonomy(ctx, m)
}

func (t *InstrumentedTaxonomy) PutCategory(ctx context.Context, c models.Category) (err error) {
	defer func(start time.Time) { metrics.ObserveStore(t.backend, "put_category", start, outcome(err)) }(time.Now())
	return t.next.PutCategory(ctx, c)
}
