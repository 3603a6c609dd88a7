package catalog

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/shashiranjanraj/velocart/app/models"
)

// Queryable product fields, named as stored in the document store.
const (
	FieldID            = "id"
	FieldName          = "name"
	FieldNameLower     = "nameLower"
	FieldCategory      = "category"
	FieldSubCategory   = "subCategory"
	FieldBrand         = "brand"
	FieldPrice         = "price"
	FieldActualPrice   = "actualPrice"
	FieldRating        = "rating"
	FieldCreatedAt     = "createdAt"
	FieldIsRecommended = "isRecommended"
)

// FieldValue reads field from p as a comparable scalar: string, float64,
// bool or time.Time. Unknown fields yield nil.
func FieldValue(p *models.Product, field string) any {
	switch field {
	case FieldID:
		return p.ID
	case FieldName:
		return p.Name
	case FieldNameLower:
		return p.NameLower
	case FieldCategory:
		return p.Category
	case FieldSubCategory:
		return p.SubCategory
	case FieldBrand:
		return p.Brand
	case FieldPrice:
		return p.Price
	case FieldActualPrice:
		return p.ActualPrice
	case FieldRating:
		return p.Rating
	case FieldCreatedAt:
		return p.CreatedAt
	case FieldIsRecommended:
		return p.IsRecommended
	}
	return nil
}

// CompareValues orders two scalars of the same dynamic type. Strings compare
// bytewise, matching the document store's default collation.
func CompareValues(a, b any) int {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return strings.Compare(av, bv)
	case float64:
		bv, _ := toFloat(b)
		return cmp.Compare(av, bv)
	case int:
		bv, _ := toFloat(b)
		return cmp.Compare(float64(av), bv)
	case bool:
		bv, _ := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Compare(bv)
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// CompareProducts orders a and b by orders, each applied in turn.
func CompareProducts(a, b *models.Product, orders []Order) int {
	for _, o := range orders {
		c := CompareValues(FieldValue(a, o.Field), FieldValue(b, o.Field))
		if o.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

// Matches reports whether p satisfies every predicate in q.
func Matches(p *models.Product, q Query) bool {
	for _, pred := range q.Equals {
		if !pred.matches(p) {
			return false
		}
	}
	for _, pred := range q.Ranges {
		if !pred.matches(p) {
			return false
		}
	}
	return true
}

func (pr Predicate) matches(p *models.Product) bool {
	got := FieldValue(p, pr.Field)
	switch pr.Op {
	case OpEq:
		return CompareValues(got, pr.Value) == 0
	case OpIn:
		values, _ := pr.Value.([]string)
		s, _ := got.(string)
		return slices.Contains(values, s)
	case OpGte:
		return CompareValues(got, pr.Value) >= 0
	case OpGt:
		return CompareValues(got, pr.Value) > 0
	case OpLte:
		return CompareValues(got, pr.Value) <= 0
	case OpLt:
		return CompareValues(got, pr.Value) < 0
	}
	return false
}
