package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/repositories/memstore"
	"github.com/shashiranjanraj/velocart/app/repositories/mongostore"
	"github.com/shashiranjanraj/velocart/app/repositories/sqlstore"
	"github.com/shashiranjanraj/velocart/config"
	"github.com/shashiranjanraj/velocart/pkg/database"
)

// ErrUnknownDriver is returned by Open for a driver it has no backend for.
var ErrUnknownDriver = errors.New("unknown STORE_DRIVER")

// Indexer provisions composite indexes in a backend.
type Indexer interface {
	EnsureIndexes(ctx context.Context, set *catalog.IndexSet) ([]string, error)
}

// Backend is an opened catalog backend with its decorators applied.
type Backend struct {
	Driver   string
	Store    catalog.Store
	Taxonomy catalog.TaxonomyStore
	// DB is set for the SQL drivers.
	DB *gorm.DB

	indexer Indexer
	close   func(ctx context.Context) error
}

// EnsureIndexes creates the missing indexes of set. Backends without
// declared indexes report none created.
func (b *Backend) EnsureIndexes(ctx context.Context, set *catalog.IndexSet) ([]string, error) {
	if b.indexer == nil {
		return nil, nil
	}
	return b.indexer.EnsureIndexes(ctx, set)
}

func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// Open connects the backend named by driver. Every store call is
// instrumented; the taxonomy is cached in redis when TAXONOMY_CACHE_TTL is
// positive.
func Open(ctx context.Context, driver string) (*Backend, error) {
	b := &Backend{Driver: driver}

	var (
		store catalog.Store
		tax   catalog.TaxonomyStore
	)
	switch driver {
	case "memory":
		m := memstore.New()
		store, tax = m, m

	case "mongo":
		client, err := mongostore.Connect(ctx, config.MongoURI(), config.MongoDatabase())
		if err != nil {
			return nil, err
		}
		products := client.Products()
		store, tax = products, client.Taxonomy()
		b.indexer = products
		b.close = client.Close

	case "sqlite", "postgres", "mysql", "sqlserver":
		db, err := database.Open(ctx, driver, config.DatabaseDSN())
		if err != nil {
			return nil, err
		}
		s := sqlstore.New(db)
		store, tax = s, s
		b.DB = db
		b.indexer = s
		b.close = func(context.Context) error { return database.Close(db) }

	default:
		return nil, fmt.Errorf("repositories: %w %q", ErrUnknownDriver, driver)
	}

	b.Store = Instrument(driver, store)
	b.Taxonomy = CacheTaxonomy(InstrumentTaxonomy(driver, tax), config.TaxonomyCacheTTL())
	return b, nil
}
