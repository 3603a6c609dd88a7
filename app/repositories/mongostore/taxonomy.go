package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/models"
)

// maxMutationAttempts bounds the re-check loop when a conditional update
// misses because another writer got there first.
const maxMutationAttempts = 3

var errContended = errors.New("taxonomy document changed concurrently")

// TaxonomyStore implements catalog.TaxonomyStore on the categories
// collection.
type TaxonomyStore struct {
	coll *mongo.Collection
}

func (t *TaxonomyStore) LoadTaxonomy(ctx context.Context) (models.Taxonomy, error) {
	const op = "mongostore.LoadTaxonomy"

	cur, err := t.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return models.Taxonomy{}, classify(op, err)
	}
	tax := models.Taxonomy{Categories: []models.Category{}}
	if err := cur.All(ctx, &tax.Categories); err != nil {
		return models.Taxonomy{}, classify(op, err)
	}
	return tax, nil
}

// MutateTaxonomy edits one brand list with a single conditional update, so
// concurrent writers never overwrite each other. When the condition misses,
// the current document decides between a no-op and NotFound.
func (t *TaxonomyStore) MutateTaxonomy(ctx context.Context, m catalog.TaxonomyMutation) error {
	const op = "mongostore.MutateTaxonomy"

	filter, update := mutationDocs(m)
	for attempt := 0; attempt < maxMutationAttempts; attempt++ {
		res, err := t.coll.UpdateOne(ctx, filter, update)
		if err != nil {
			return classify(op, err)
		}
		if res.MatchedCount > 0 {
			return nil
		}

		var current models.Category
		err = t.coll.FindOne(ctx, bson.D{{Key: "_id", Value: m.Category}}).Decode(&current)
		if err == mongo.ErrNoDocuments {
			return catalog.NotFound(op, "category %q not found", m.Category)
		}
		if err != nil {
			return classify(op, err)
		}
		changed, err := catalog.ApplyMutation(&current, m)
		if err != nil {
			return catalog.Wrap(op, err)
		}
		if !changed {
			return nil
		}
	}
	return catalog.Unavailable(op, errContended)
}

func mutationDocs(m catalog.TaxonomyMutation) (filter, update bson.D) {
	brands := "subCategories.$.brands"
	switch m.Op {
	case catalog.RemoveBrand:
		filter = bson.D{
			{Key: "_id", Value: m.Category},
			{Key: "subCategories", Value: bson.D{{Key: "$elemMatch", Value: bson.D{
				{Key: "name", Value: m.SubCategory},
				{Key: "brands", Value: m.Brand},
			}}}},
		}
		update = bson.D{
			{Key: "$pull", Value: bson.D{{Key: brands, Value: m.Brand}}},
			{Key: "$inc", Value: bson.D{{Key: "version", Value: 1}}},
		}
	default:
		filter = bson.D{
			{Key: "_id", Value: m.Category},
			{Key: "subCategories", Value: bson.D{{Key: "$elemMatch", Value: bson.D{
				{Key: "name", Value: m.SubCategory},
				{Key: "brands", Value: bson.D{{Key: "$ne", Value: m.Brand}}},
			}}}},
		}
		update = bson.D{
			{Key: "$push", Value: bson.D{{Key: brands, Value: bson.D{
				{Key: "$each", Value: bson.A{m.Brand}},
				{Key: "$sort", Value: 1},
			}}}},
			{Key: "$inc", Value: bson.D{{Key: "version", Value: 1}}},
		}
	}
	return filter, update
}

func (t *TaxonomyStore) PutCategory(ctx context.Context, c models.Category) error {
	c = c.Clone()
	catalog.SortCategory(&c)

	_, err := t.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: c.Name}},
		bson.D{
			{Key: "$set", Value: bson.D{{Key: "subCategories", Value: c.SubCategories}}},
			{Key: "$inc", Value: bson.D{{Key: "version", Value: 1}}},
		},
		options.Update().SetUpsert(true),
	)
	return classify("mongostore.PutCategory", err)
}
