package models

// Category is one root of the category → subcategory → brand tree. Each
// category is stored as its own document keyed by name.
type Category struct {
	Name          string        `json:"name"          bson:"_id"`
	SubCategories []SubCategory `json:"subCategories" bson:"subCategories"`
	Version       int64         `json:"-"             bson:"version"`
}

type SubCategory struct {
	Name   string   `json:"name"   bson:"name"`
	Brands []string `json:"brands" bson:"brands"`
}

// Taxonomy is a full snapshot of the category tree.
type Taxonomy struct {
	Categories []Category `json:"categories"`
}

// Clone deep-copies t so callers can't mutate a shared snapshot.
func (t Taxonomy) Clone() Taxonomy {
	out := Taxonomy{Categories: make([]Category, len(t.Categories))}
	for i, c := range t.Categories {
		out.Categories[i] = c.Clone()
	}
	return out
}

func (c Category) Clone() Category {
	out := Category{Name: c.Name, Version: c.Version, SubCategories: make([]SubCategory, len(c.SubCategories))}
	for i, s := range c.SubCategories {
		out.SubCategories[i] = SubCategory{Name: s.Name, Brands: append([]string{}, s.Brands...)}
	}
	return out
}
