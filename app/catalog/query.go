package catalog

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// PrefixSentinel is appended to a prefix to form the inclusive upper bound of
// a prefix-range scan.
const PrefixSentinel = "\uf8ff"

type Op string

const (
	OpEq  Op = "=="
	OpIn  Op = "in"
	OpGt  Op = ">"
	OpGte Op = ">="
	OpLt  Op = "<"
	OpLte Op = "<="
)

// Predicate is one compiled filter clause. Value is a string, float64, bool,
// time.Time or, for OpIn, a []string.
type Predicate struct {
	Field string
	Op    Op
	Value any
}

type Order struct {
	Field string
	Desc  bool
}

func (o Order) String() string {
	if o.Desc {
		return o.Field + ":desc"
	}
	return o.Field + ":asc"
}

// Query is a compiled, store-agnostic query. Orders always end with the id
// tiebreaker so every result set has a total order usable as a keyset.
type Query struct {
	Equals     []Predicate
	Ranges     []Predicate
	RangeField string
	Orders     []Order
	Limit      int
	Offset     int
}

// Index returns the composite index the query needs: the equality fields
// followed by the ordered fields, without the id tiebreaker.
func (q Query) Index() Index {
	eq := make([]string, 0, len(q.Equals))
	for _, p := range q.Equals {
		if !slices.Contains(eq, p.Field) {
			eq = append(eq, p.Field)
		}
	}
	fields := make([]Order, 0, len(q.Orders))
	for _, o := range q.Orders {
		if o.Field != FieldID {
			fields = append(fields, o)
		}
	}
	return NewIndex(eq, fields...)
}

// Shape renders the query without its values, for logs.
func (q Query) Shape() string {
	parts := make([]string, 0, len(q.Equals)+len(q.Ranges)+1)
	for _, p := range q.Equals {
		parts = append(parts, p.Field+" "+string(p.Op))
	}
	for _, p := range q.Ranges {
		parts = append(parts, p.Field+" "+string(p.Op))
	}
	orders := make([]string, len(q.Orders))
	for i, o := range q.Orders {
		orders[i] = o.String()
	}
	return fmt.Sprintf("where[%s] order[%s]", strings.Join(parts, ", "), strings.Join(orders, ", "))
}

// Builder accumulates predicates and a sort and compiles them into a Query.
// It never executes anything.
type Builder struct {
	equals  []Predicate
	ranges  []Predicate
	sort    *Order
	limit   int
	offset  int
	indexes *IndexSet
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Where adds an equality predicate.
func (b *Builder) Where(field string, value any) *Builder {
	b.equals = append(b.equals, Predicate{Field: field, Op: OpEq, Value: value})
	return b
}

// In adds a membership predicate; a single value collapses to Where and an
// empty list is ignored.
func (b *Builder) In(field string, values []string) *Builder {
	switch len(values) {
	case 0:
		return b
	case 1:
		return b.Where(field, values[0])
	}
	b.equals = append(b.equals, Predicate{Field: field, Op: OpIn, Value: slices.Clone(values)})
	return b
}

// Range adds an inequality predicate (>, >=, <, <=).
func (b *Builder) Range(field string, op Op, value any) *Builder {
	b.ranges = append(b.ranges, Predicate{Field: field, Op: op, Value: value})
	return b
}

// Prefix adds a case-sensitive prefix range: field >= term AND
// field <= term+PrefixSentinel.
func (b *Builder) Prefix(field, term string) *Builder {
	return b.Range(field, OpGte, term).Range(field, OpLte, term+PrefixSentinel)
}

// OrderBy sets the sort; the last call wins.
func (b *Builder) OrderBy(field string, desc bool) *Builder {
	b.sort = &Order{Field: field, Desc: desc}
	return b
}

func (b *Builder) Limit(n int) *Builder {
	b.limit = n
	return b
}

func (b *Builder) Offset(n int) *Builder {
	b.offset = n
	return b
}

// RequireIndexes makes Build reject queries whose composite index is not in
// set.
func (b *Builder) RequireIndexes(set *IndexSet) *Builder {
	b.indexes = set
	return b
}

// Build compiles the query. Only one field may carry range predicates; when
// it differs from the sort field the range field is ordered first, as the
// document store requires.
func (b *Builder) Build() (Query, error) {
	const op = "Builder.Build"

	var q Query

	rangeField := ""
	for _, p := range b.ranges {
		if p.Op == OpEq || p.Op == OpIn {
			return Query{}, Misconfigured(op, "operator %s is not a range operator", p.Op)
		}
		if rangeField != "" && rangeField != p.Field {
			return Query{}, Misconfigured(op, "range predicates on %q and %q cannot be combined in one query", rangeField, p.Field)
		}
		rangeField = p.Field
	}

	seen := make(map[string]Predicate, len(b.equals))
	for _, p := range b.equals {
		if prev, ok := seen[p.Field]; ok {
			if prev.Op == p.Op && prev.Op == OpEq && CompareValues(prev.Value, p.Value) == 0 {
				continue
			}
			return Query{}, Misconfigured(op, "conflicting equality predicates on %q", p.Field)
		}
		seen[p.Field] = p
		q.Equals = append(q.Equals, p)
	}
	// Equality predicates commute; a stable order keeps index keys canonical.
	sort.SliceStable(q.Equals, func(i, j int) bool { return q.Equals[i].Field < q.Equals[j].Field })

	q.Ranges = append(q.Ranges, b.ranges...)
	q.RangeField = rangeField

	switch {
	case rangeField != "" && (b.sort == nil || b.sort.Field != rangeField):
		q.Orders = append(q.Orders, Order{Field: rangeField})
		if b.sort != nil {
			q.Orders = append(q.Orders, *b.sort)
		}
	case b.sort != nil:
		q.Orders = append(q.Orders, *b.sort)
	}
	if len(q.Orders) == 0 || q.Orders[len(q.Orders)-1].Field != FieldID {
		q.Orders = append(q.Orders, Order{Field: FieldID})
	}

	if b.limit < 0 || b.offset < 0 {
		return Query{}, Misconfigured(op, "limit and offset must not be negative")
	}
	q.Limit = b.limit
	q.Offset = b.offset

	if b.indexes != nil && !b.indexes.Covers(q.Index()) {
		return Query{}, Misconfigured(op, "no composite index declared for %s", q.Index())
	}

	return q, nil
}
