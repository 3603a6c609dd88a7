package catalog

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// SortKey is the public sort vocabulary of the listing endpoints.
type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceLow  SortKey = "price_low"
	SortPriceHigh SortKey = "price_high"
	SortRating    SortKey = "rating"
	SortCreatedAt SortKey = "createdAt"
)

func SortKeys() []SortKey {
	return []SortKey{SortName, SortPriceLow, SortPriceHigh, SortRating, SortCreatedAt}
}

// ParseSortKey reports whether raw is a recognised sort key.
func ParseSortKey(raw string) (SortKey, bool) {
	for _, k := range SortKeys() {
		if strings.EqualFold(raw, string(k)) {
			return k, true
		}
	}
	return "", false
}

// Order maps the key to the stored field and direction.
func (k SortKey) Order() Order {
	switch k {
	case SortName:
		return Order{Field: FieldName}
	case SortPriceLow:
		return Order{Field: FieldPrice}
	case SortPriceHigh:
		return Order{Field: FieldPrice, Desc: true}
	case SortCreatedAt:
		return Order{Field: FieldCreatedAt, Desc: true}
	default:
		return Order{Field: FieldRating, Desc: true}
	}
}

// Profile carries the per-endpoint listing defaults.
type Profile struct {
	Name            string
	DefaultPageSize int
	MaxPageSize     int
	DefaultSort     SortKey
}

var (
	StorefrontProfile = Profile{Name: "storefront", DefaultPageSize: 20, MaxPageSize: 50, DefaultSort: SortRating}
	CategoryProfile   = Profile{Name: "category", DefaultPageSize: 24, MaxPageSize: 50, DefaultSort: SortRating}
	AdminProfile      = Profile{Name: "admin", DefaultPageSize: 24, MaxPageSize: 100, DefaultSort: SortCreatedAt}
)

// MaxListValues caps comma-separated membership filters.
const MaxListValues = 10

// FilterSpec is a validated listing request. Values are copied on the way in
// and must be treated as read-only.
type FilterSpec struct {
	Categories  []string
	SubCategory string
	Brands      []string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Search      string
	Sort        SortKey
	PageSize    int
	Cursor      string
}

// NormalizeListing validates untrusted listing parameters. Parameter names
// follow the public API; short aliases (category, brand, sort, cursor) are
// accepted too. Unknown sort keys fall back to the profile default.
func NormalizeListing(values url.Values, p Profile) (FilterSpec, error) {
	spec := FilterSpec{
		Categories:  csv(values, "categories", "category"),
		SubCategory: first(values, "subCategory", "subcategory"),
		Brands:      csv(values, "brands", "brand"),
		Sort:        p.DefaultSort,
		PageSize:    p.DefaultPageSize,
		Cursor:      first(values, "startAfterId", "cursor"),
	}
	errs := map[string]string{}

	if len(spec.Categories) > MaxListValues {
		errs["categories"] = "at most " + strconv.Itoa(MaxListValues) + " categories may be combined"
	}
	if len(spec.Brands) > MaxListValues {
		errs["brands"] = "at most " + strconv.Itoa(MaxListValues) + " brands may be combined"
	}

	var err string
	if spec.MinPrice, err = price(first(values, "minPrice")); err != "" {
		errs["minPrice"] = "minPrice " + err
	}
	if spec.MaxPrice, err = price(first(values, "maxPrice")); err != "" {
		errs["maxPrice"] = "maxPrice " + err
	}
	if spec.MinPrice != nil && spec.MaxPrice != nil && spec.MinPrice.GreaterThan(*spec.MaxPrice) {
		errs["minPrice"] = "minPrice must not exceed maxPrice"
	}

	if raw := first(values, "pageSize", "limit"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		switch {
		case convErr != nil:
			errs["pageSize"] = "pageSize must be an integer"
		case n < 1 || n > p.MaxPageSize:
			errs["pageSize"] = "pageSize must be between 1 and " + strconv.Itoa(p.MaxPageSize)
		default:
			spec.PageSize = n
		}
	}

	if key, ok := ParseSortKey(first(values, "sortBy", "sort")); ok {
		spec.Sort = key
	}

	if raw := first(values, "q", "search"); raw != "" {
		term, termErr := SanitizeTerm(raw)
		if termErr != "" {
			errs["q"] = termErr
		}
		spec.Search = term
	}

	if spec.SubCategory != "" && len(spec.Categories) == 0 {
		errs["subCategory"] = "subCategory requires a category"
	}

	if len(errs) > 0 {
		return FilterSpec{}, InvalidFields(errs)
	}
	return spec, nil
}

// HasPriceRange reports whether either price bound is present.
func (s FilterSpec) HasPriceRange() bool {
	return s.MinPrice != nil || s.MaxPrice != nil
}

// Query compiles the spec. The limit is left to the paginator.
func (s FilterSpec) Query(indexes *IndexSet) (Query, error) {
	b := NewBuilder().
		In(FieldCategory, s.Categories).
		In(FieldBrand, s.Brands)
	if s.SubCategory != "" {
		b.Where(FieldSubCategory, s.SubCategory)
	}
	if s.MinPrice != nil {
		f, _ := s.MinPrice.Float64()
		b.Range(FieldPrice, OpGte, f)
	}
	if s.MaxPrice != nil {
		f, _ := s.MaxPrice.Float64()
		b.Range(FieldPrice, OpLte, f)
	}
	if s.Search != "" {
		b.Prefix(FieldNameLower, strings.ToLower(s.Search))
	}
	o := s.Sort.Order()
	if s.Search != "" {
		// The prefix range leads the ordering, so a search is ordered by name
		// whatever sort was asked for.
		o = Order{Field: FieldNameLower}
	}
	b.OrderBy(o.Field, o.Desc)
	if indexes != nil {
		b.RequireIndexes(indexes)
	}
	return b.Build()
}

func first(values url.Values, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(values.Get(k)); v != "" {
			return v
		}
	}
	return ""
}

// csv splits every value of the first present key on commas, trimming and
// dropping empty and duplicate tokens.
func csv(values url.Values, keys ...string) []string {
	var out []string
	for _, k := range keys {
		for _, raw := range values[k] {
			for _, tok := range strings.Split(raw, ",") {
				tok = strings.TrimSpace(tok)
				if tok != "" && !slices.Contains(out, tok) {
					out = append(out, tok)
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return out
}

func price(raw string) (*decimal.Decimal, string) {
	if raw == "" {
		return nil, ""
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, "must be a number"
	}
	if d.IsNegative() {
		return nil, "must not be negative"
	}
	return &d, ""
}
