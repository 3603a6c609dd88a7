package mongostore

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/models"
)

var operators = map[catalog.Op]string{
	catalog.OpGt:  "$gt",
	catalog.OpGte: "$gte",
	catalog.OpLt:  "$lt",
	catalog.OpLte: "$lte",
}

// key maps a catalog field to its document key.
func key(field string) string {
	if field == catalog.FieldID {
		return "_id"
	}
	return field
}

// compileFilter renders the predicates of q.
func compileFilter(q catalog.Query) bson.D {
	filter := bson.D{}
	for _, p := range q.Equals {
		if p.Op == catalog.OpIn {
			filter = append(filter, bson.E{Key: key(p.Field), Value: bson.D{{Key: "$in", Value: p.Value}}})
			continue
		}
		filter = append(filter, bson.E{Key: key(p.Field), Value: p.Value})
	}

	if len(q.Ranges) > 0 {
		bounds := bson.D{}
		for _, p := range q.Ranges {
			bounds = append(bounds, bson.E{Key: operators[p.Op], Value: p.Value})
		}
		filter = append(filter, bson.E{Key: key(q.RangeField), Value: bounds})
	}
	return filter
}

// afterFilter selects documents strictly after the cursor product in the
// query order:
//
//	o1 > v1  OR  (o1 == v1 AND o2 > v2)  OR ...
//
// with < in place of > for descending keys.
func afterFilter(q catalog.Query, after *models.Product) bson.D {
	branches := make(bson.A, 0, len(q.Orders))
	for i, o := range q.Orders {
		branch := bson.D{}
		for _, prev := range q.Orders[:i] {
			branch = append(branch, bson.E{Key: key(prev.Field), Value: catalog.FieldValue(after, prev.Field)})
		}
		cmp := "$gt"
		if o.Desc {
			cmp = "$lt"
		}
		branch = append(branch, bson.E{Key: key(o.Field), Value: bson.D{{Key: cmp, Value: catalog.FieldValue(after, o.Field)}}})
		branches = append(branches, branch)
	}
	return bson.D{{Key: "$or", Value: branches}}
}

// findFilter combines the predicates with the keyset condition.
func findFilter(q catalog.Query, after *models.Product) bson.D {
	base := compileFilter(q)
	if after == nil {
		return base
	}
	if len(base) == 0 {
		return afterFilter(q, after)
	}
	return bson.D{{Key: "$and", Value: bson.A{base, afterFilter(q, after)}}}
}

func sortDoc(orders []catalog.Order) bson.D {
	doc := make(bson.D, 0, len(orders))
	for _, o := range orders {
		dir := 1
		if o.Desc {
			dir = -1
		}
		doc = append(doc, bson.E{Key: key(o.Field), Value: dir})
	}
	return doc
}
