package catalog

import (
	"slices"
	"strings"

	"github.com/shashiranjanraj/velocart/app/models"
)

// Validate checks a mutation before it reaches a store.
func (m TaxonomyMutation) Validate() error {
	errs := map[string]string{}
	if m.Op != AddBrand && m.Op != RemoveBrand {
		errs["op"] = "unknown taxonomy operation"
	}
	if strings.TrimSpace(m.Category) == "" {
		errs["category"] = "category is required"
	}
	if strings.TrimSpace(m.SubCategory) == "" {
		errs["subCategory"] = "subCategory is required"
	}
	if b := strings.TrimSpace(m.Brand); b == "" || len(b) > 100 {
		errs["brand"] = "brand must be between 1 and 100 characters"
	}
	if len(errs) > 0 {
		return InvalidFields(errs)
	}
	return nil
}

// ApplyMutation edits c in place for stores that serialise mutations
// themselves. It reports whether c changed.
func ApplyMutation(c *models.Category, m TaxonomyMutation) (bool, error) {
	const op = "ApplyMutation"

	idx := slices.IndexFunc(c.SubCategories, func(s models.SubCategory) bool { return s.Name == m.SubCategory })
	if idx < 0 {
		return false, NotFound(op, "subcategory %q not found in %s", m.SubCategory, c.Name)
	}
	sub := &c.SubCategories[idx]

	pos, found := slices.BinarySearch(sub.Brands, m.Brand)
	switch m.Op {
	case AddBrand:
		if found {
			return false, nil
		}
		sub.Brands = slices.Insert(sub.Brands, pos, m.Brand)
	case RemoveBrand:
		if !found {
			return false, NotFound(op, "brand %q not found in %s/%s", m.Brand, c.Name, m.SubCategory)
		}
		sub.Brands = slices.Delete(sub.Brands, pos, pos+1)
	default:
		return false, Invalid("op", "unknown taxonomy operation %q", m.Op)
	}
	return true, nil
}

// SortCategory orders subcategory brand lists and drops duplicates.
func SortCategory(c *models.Category) {
	for i := range c.SubCategories {
		brands := slices.Clone(c.SubCategories[i].Brands)
		slices.Sort(brands)
		c.SubCategories[i].Brands = slices.Compact(brands)
		if c.SubCategories[i].Brands == nil {
			c.SubCategories[i].Brands = []string{}
		}
	}
}
