package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/models"
)

// IndexDDL renders one CREATE INDEX statement per declared index, keyed by
// index name.
func IndexDDL(set *catalog.IndexSet) map[string]string {
	out := make(map[string]string, set.Len())
	for _, ix := range set.All() {
		cols := make([]string, 0, len(ix.Equality)+len(ix.Fields)+1)
		name := "idx_products"
		for _, f := range ix.Equality {
			cols = append(cols, column(f))
			name += "_" + column(f)
		}
		for _, o := range ix.Fields {
			if o.Desc {
				cols = append(cols, column(o.Field)+" DESC")
				name += "_" + column(o.Field) + "_desc"
			} else {
				cols = append(cols, column(o.Field))
				name += "_" + column(o.Field)
			}
		}
		cols = append(cols, "id")
		out[name] = fmt.Sprintf("CREATE INDEX %s ON products (%s)", name, strings.Join(cols, ", "))
	}
	return out
}

// EnsureIndexes creates the declared indexes that are missing and returns
// the names it created.
func (s *Store) EnsureIndexes(ctx context.Context, set *catalog.IndexSet) ([]string, error) {
	db := s.db.WithContext(ctx)
	var created []string
	for name, ddl := range IndexDDL(set) {
		if db.Migrator().HasIndex(&models.Product{}, name) {
			continue
		}
		if err := db.Exec(ddl).Error; err != nil {
			return created, classify("sqlstore.EnsureIndexes", fmt.Errorf("%s: %w", name, err))
		}
		created = append(created, name)
	}
	return created, nil
}
