package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/velocart/app/catalog"
)

// maxIndexes is the per-collection limit, including the _id index.
const maxIndexes = 64

// IndexModels renders the declared composite indexes. Each ends with _id so
// the keyset tiebreak is covered too.
func IndexModels(set *catalog.IndexSet) []mongo.IndexModel {
	all := set.All()
	out := make([]mongo.IndexModel, 0, len(all))
	for _, ix := range all {
		keys := bson.D{}
		for _, f := range ix.Equality {
			keys = append(keys, bson.E{Key: key(f), Value: 1})
		}
		keys = append(keys, sortDoc(ix.Fields)...)
		keys = append(keys, bson.E{Key: "_id", Value: 1})
		out = append(out, mongo.IndexModel{
			Keys:    keys,
			Options: options.Index().SetName("catalog_" + indexName(ix)),
		})
	}
	return out
}

func indexName(ix catalog.Index) string {
	name := ""
	for _, f := range ix.Equality {
		name += f + "_"
	}
	for _, o := range ix.Fields {
		if o.Desc {
			name += o.Field + "_-1_"
		} else {
			name += o.Field + "_1_"
		}
	}
	return name + "id"
}

// EnsureIndexes creates every declared index that does not exist yet and
// returns the index names.
func (s *Store) EnsureIndexes(ctx context.Context, set *catalog.IndexSet) ([]string, error) {
	const op = "mongostore.EnsureIndexes"

	models := IndexModels(set)
	if len(models)+1 > maxIndexes {
		return nil, catalog.Misconfigured(op, "%d indexes exceed the collection limit of %d", len(models)+1, maxIndexes)
	}
	names, err := s.coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return nil, classify(op, fmt.Errorf("create indexes: %w", err))
	}
	return names, nil
}

// ListIndexes returns the names of the indexes present on the collection.
func (s *Store) ListIndexes(ctx context.Context) ([]string, error) {
	const op = "mongostore.ListIndexes"

	specs, err := s.coll.Indexes().ListSpecifications(ctx)
	if err != nil {
		return nil, classify(op, err)
	}
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	return names, nil
}
