package sqlstore

import (
	"strings"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/models"
)

var columns = map[string]string{
	catalog.FieldID:            "id",
	catalog.FieldName:          "name",
	catalog.FieldNameLower:     "name_lower",
	catalog.FieldCategory:      "category",
	catalog.FieldSubCategory:   "sub_category",
	catalog.FieldBrand:         "brand",
	catalog.FieldPrice:         "price",
	catalog.FieldActualPrice:   "actual_price",
	catalog.FieldRating:        "rating",
	catalog.FieldCreatedAt:     "created_at",
	catalog.FieldIsRecommended: "is_recommended",
}

func column(field string) string {
	if c, ok := columns[field]; ok {
		return c
	}
	return field
}

// compileWhere renders q, and the keyset condition when after is set, as a
// parameterised WHERE clause. The clause is empty when nothing filters.
func compileWhere(q catalog.Query, after *models.Product) (string, []any) {
	var (
		parts []string
		args  []any
	)
	for _, p := range q.Equals {
		if p.Op == catalog.OpIn {
			parts = append(parts, column(p.Field)+" IN ?")
		} else {
			parts = append(parts, column(p.Field)+" = ?")
		}
		args = append(args, p.Value)
	}
	for _, p := range q.Ranges {
		parts = append(parts, column(p.Field)+" "+string(p.Op)+" ?")
		args = append(args, p.Value)
	}

	if after != nil && len(q.Orders) > 0 {
		branches := make([]string, 0, len(q.Orders))
		for i, o := range q.Orders {
			conds := make([]string, 0, i+1)
			for _, prev := range q.Orders[:i] {
				conds = append(conds, column(prev.Field)+" = ?")
				args = append(args, catalog.FieldValue(after, prev.Field))
			}
			cmp := " > ?"
			if o.Desc {
				cmp = " < ?"
			}
			conds = append(conds, column(o.Field)+cmp)
			args = append(args, catalog.FieldValue(after, o.Field))
			branches = append(branches, "("+strings.Join(conds, " AND ")+")")
		}
		parts = append(parts, "("+strings.Join(branches, " OR ")+")")
	}
	return strings.Join(parts, " AND "), args
}

func orderClause(orders []catalog.Order) string {
	parts := make([]string, len(orders))
	for i, o := range orders {
		dir := " ASC"
		if o.Desc {
			dir = " DESC"
		}
		parts[i] = column(o.Field) + dir
	}
	return strings.Join(parts, ", ")
}
