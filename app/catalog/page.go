package catalog

import (
	"context"
	"time"

	"github.com/shashiranjanraj/velocart/app/models"
)

// Page is one slice of a cursor-paginated result. LastID is set iff Items is
// non-empty. There is deliberately no total count.
type Page[T any] struct {
	Items   []T
	HasMore bool
	LastID  string
}

// MissingCursorPolicy decides what happens when the cursor entity was deleted
// between two page requests.
type MissingCursorPolicy int

const (
	// CursorEnds answers with an empty terminal page.
	CursorEnds MissingCursorPolicy = iota
	// CursorRestarts serves the first page again.
	CursorRestarts
)

func ParseCursorPolicy(s string) MissingCursorPolicy {
	if s == "restart" {
		return CursorRestarts
	}
	return CursorEnds
}

const DefaultStoreTimeout = 5 * time.Second

type PaginatorOption func(*Paginator)

func WithTimeout(d time.Duration) PaginatorOption {
	return func(p *Paginator) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func WithMissingCursor(policy MissingCursorPolicy) PaginatorOption {
	return func(p *Paginator) { p.policy = policy }
}

// Paginator runs compiled queries page by page using the id of the last
// returned product as the cursor.
type Paginator struct {
	store   Store
	timeout time.Duration
	policy  MissingCursorPolicy
}

func NewPaginator(store Store, opts ...PaginatorOption) *Paginator {
	p := &Paginator{store: store, timeout: DefaultStoreTimeout, policy: CursorEnds}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fetch returns up to pageSize products after cursor. It asks the store for
// pageSize+1 rows and uses the extra row only to set HasMore.
func (p *Paginator) Fetch(ctx context.Context, q Query, pageSize int, cursor string) (Page[models.Product], error) {
	const op = "Paginator.Fetch"

	if pageSize < 1 {
		return Page[models.Product]{}, Invalid("pageSize", "pageSize must be positive")
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var after *models.Product
	if cursor != "" {
		found, err := p.store.Get(ctx, cursor)
		switch {
		case err == nil:
			after = found
		case IsKind(err, KindNotFound) && p.policy == CursorEnds:
			return Page[models.Product]{Items: []models.Product{}}, nil
		case IsKind(err, KindNotFound):
			after = nil
		default:
			return Page[models.Product]{}, storeError(ctx, op, err)
		}
	}

	q.Limit = pageSize + 1
	items, err := p.store.Find(ctx, q, after)
	if err != nil {
		return Page[models.Product]{}, storeError(ctx, op, err)
	}

	page := Page[models.Product]{Items: items}
	if len(page.Items) > pageSize {
		page.HasMore = true
		page.Items = page.Items[:pageSize]
	}
	if page.Items == nil {
		page.Items = []models.Product{}
	}
	if n := len(page.Items); n > 0 {
		page.LastID = page.Items[n-1].ID
	}
	return page, nil
}

// storeError classifies a store failure, treating any failure after the
// deadline passed as a timeout.
func storeError(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil && !IsKind(err, KindUnavailable) {
		return &Error{Kind: KindUnavailable, Op: op, Msg: "store call timed out", Err: err}
	}
	return Wrap(op, err)
}
