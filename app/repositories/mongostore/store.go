package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/models"
)

// Store implements catalog.Store on the products collection.
type Store struct {
	coll   *mongo.Collection
	client *mongo.Client
}

func (s *Store) Find(ctx context.Context, q catalog.Query, after *models.Product) ([]models.Product, error) {
	const op = "mongostore.Find"

	opts := options.Find().SetSort(sortDoc(q.Orders))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if q.Offset > 0 {
		opts.SetSkip(int64(q.Offset))
	}

	cur, err := s.coll.Find(ctx, findFilter(q, after), opts)
	if err != nil {
		return nil, classify(op, err)
	}
	out := []models.Product{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, classify(op, err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.Product, error) {
	const op = "mongostore.Get"

	var p models.Product
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, catalog.NotFound(op, "product %q not found", id)
	}
	if err != nil {
		return nil, classify(op, err)
	}
	return &p, nil
}

func (s *Store) Create(ctx context.Context, p *models.Product) error {
	p.ID = primitive.NewObjectID().Hex()
	_, err := s.coll.InsertOne(ctx, p)
	return classify("mongostore.Create", err)
}

func (s *Store) Update(ctx context.Context, p *models.Product) error {
	const op = "mongostore.Update"

	res, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: p.ID}}, p)
	if err != nil {
		return classify(op, err)
	}
	if res.MatchedCount == 0 {
		return catalog.NotFound(op, "product %q not found", p.ID)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	const op = "mongostore.Delete"

	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return classify(op, err)
	}
	if res.DeletedCount == 0 {
		return catalog.NotFound(op, "product %q not found", id)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return classify("mongostore.Ping", s.client.Ping(ctx, readpref.Primary()))
}
