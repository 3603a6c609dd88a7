package catalog

import (
	"slices"
	"sort"
	"strings"
)

// Index describes a composite index: equality fields (unordered) followed by
// ordered fields.
type Index struct {
	Equality []string
	Fields   []Order
}

func NewIndex(equality []string, fields ...Order) Index {
	eq := slices.Clone(equality)
	sort.Strings(eq)
	return Index{Equality: eq, Fields: slices.Clone(fields)}
}

// Implicit reports whether the store serves the shape without a declared
// composite index: single-field orderings and pure equality scans.
func (i Index) Implicit() bool {
	return len(i.Equality) == 0 && len(i.Fields) <= 1 || len(i.Fields) == 0
}

// Key is a canonical identifier such as "category,subCategory|price:asc,rating:desc".
func (i Index) Key() string {
	fields := make([]string, len(i.Fields))
	for n, f := range i.Fields {
		fields[n] = f.String()
	}
	return strings.Join(i.Equality, ",") + "|" + strings.Join(fields, ",")
}

func (i Index) String() string { return i.Key() }

// IndexSet is the set of composite indexes provisioned for the store.
type IndexSet struct {
	byKey map[string]Index
}

func NewIndexSet(indexes ...Index) *IndexSet {
	s := &IndexSet{byKey: make(map[string]Index, len(indexes))}
	for _, ix := range indexes {
		s.Add(ix)
	}
	return s
}

func (s *IndexSet) Add(ix Index) {
	if ix.Implicit() {
		return
	}
	s.byKey[ix.Key()] = ix
}

// Covers reports whether a query needing ix can run against the set.
func (s *IndexSet) Covers(ix Index) bool {
	if ix.Implicit() {
		return true
	}
	_, ok := s.byKey[ix.Key()]
	return ok
}

// All returns the declared indexes sorted by key.
func (s *IndexSet) All() []Index {
	out := make([]Index, 0, len(s.byKey))
	for _, ix := range s.byKey {
		out = append(out, ix)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Key() < out[b].Key() })
	return out
}

func (s *IndexSet) Len() int { return len(s.byKey) }

// listingEqualitySets are the equality combinations the listing endpoints
// issue. subCategory is only accepted alongside a category.
var listingEqualitySets = [][]string{
	{},
	{FieldCategory},
	{FieldBrand},
	{FieldCategory, FieldBrand},
	{FieldCategory, FieldSubCategory},
	{FieldCategory, FieldSubCategory, FieldBrand},
}

// DefaultIndexes enumerates every composite index the HTTP surface needs:
// each listing equality set combined with each sort key, with and without a
// price range, and with the name prefix a search adds. The set stays within
// the 64 indexes a MongoDB collection allows.
func DefaultIndexes() *IndexSet {
	set := NewIndexSet()
	sorts := SortKeys()

	for _, eq := range listingEqualitySets {
		for _, key := range sorts {
			o := key.Order()
			set.Add(NewIndex(eq, o))

			priced := []Order{{Field: FieldPrice}}
			if o.Field == FieldPrice {
				priced = []Order{o}
			} else {
				priced = append(priced, o)
			}
			set.Add(NewIndex(eq, priced...))
		}
		set.Add(NewIndex(eq, Order{Field: FieldNameLower}))
	}
	return set
}
