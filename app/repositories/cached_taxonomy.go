package repositories

import (
	"context"
	"time"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/models"
	"github.com/shashiranjanraj/velocart/pkg/cache"
	"github.com/shashiranjanraj/velocart/pkg/logger"
	"github.com/shashiranjanraj/velocart/pkg/metrics"
)

// TaxonomyCacheKey is the redis key of the shared taxonomy snapshot.
const TaxonomyCacheKey = "velocart:taxonomy:v1"

// CachedTaxonomy serves LoadTaxonomy from redis for ttl and drops the
// snapshot after every write. Without redis it is a pass-through.
type CachedTaxonomy struct {
	next catalog.TaxonomyStore
	ttl  time.Duration
}

func CacheTaxonomy(t catalog.TaxonomyStore, ttl time.Duration) *CachedTaxonomy {
	return &CachedTaxonomy{next: t, ttl: ttl}
}

func (c *CachedTaxonomy) LoadTaxonomy(ctx context.Context) (models.Taxonomy, error) {
	if !cache.Enabled() || c.ttl <= 0 {
		return c.next.LoadTaxonomy(ctx)
	}

	var tax models.Taxonomy
	if cache.Get(ctx, TaxonomyCacheKey, &tax) {
		metrics.CacheHits.WithLabelValues("taxonomy").Inc()
		return tax, nil
	}
	metrics.CacheMisses.WithLabelValues("taxonomy").Inc()

	tax, err := c.next.LoadTaxonomy(ctx)
	if err != nil {
		return models.Taxonomy{}, err
	}
	if err := cache.Set(ctx, TaxonomyCacheKey, tax, c.ttl); err != nil {
		logger.WithCtx(ctx).Warn("taxonomy cache: set failed", "error", err)
	}
	return tax, nil
}

func (c *CachedTaxonomy) MutateTaxonomy(ctx context.Context, m catalog.TaxonomyMutation) error {
	err := c.next.MutateTaxonomy(ctx, m)
	c.invalidate(ctx)
	return err
}

func (c *CachedTaxonomy) PutCategory(ctx context.Context, cat models.Category) error {
	err := c.next.PutCategory(ctx, cat)
	c.invalidate(ctx)
	return err
}

func (c *CachedTaxonomy) invalidate(ctx context.Context) {
	if err := cache.Del(ctx, TaxonomyCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("taxonomy cache: invalidate failed", "error", err)
	}
}
