// Package mongostore is the MongoDB catalog backend: products live in one
// collection, and each category of the taxonomy is a document of its own.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	ProductsCollection   = "products"
	CategoriesCollection = "categories"
)

// Client owns the driver connection shared by the product and taxonomy
// stores.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri and verifies the primary is reachable. The caller must
// eventually call Close.
func Connect(ctx context.Context, uri, database string) (*Client, error) {
	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(50)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping: %w", classify("mongostore.Connect", err))
	}
	return &Client{client: client, db: client.Database(database)}, nil
}

func (c *Client) Products() *Store {
	return &Store{coll: c.db.Collection(ProductsCollection), client: c.client}
}

func (c *Client) Taxonomy() *TaxonomyStore {
	return &TaxonomyStore{coll: c.db.Collection(CategoriesCollection)}
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
