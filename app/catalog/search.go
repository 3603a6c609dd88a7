package catalog

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shashiranjanraj/velocart/app/models"
)

const (
	MinSearchLength    = 2
	MaxSearchLength    = 100
	DefaultSearchLimit = 20
	MaxSearchLimit     = 50
	MaxSearchOffset    = 500
)

// SearchRequest is a validated search.
type SearchRequest struct {
	Term   string
	Limit  int
	Offset int
}

// SearchResult is the lightweight projection returned by search.
type SearchResult struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand,omitempty"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	Image       string  `json:"image,omitempty"`
	Category    string  `json:"category"`
	SubCategory string  `json:"subCategory"`
}

func Project(p *models.Product) SearchResult {
	return SearchResult{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Price:       p.Price,
		Rating:      p.Rating,
		Image:       p.PrimaryImage(),
		Category:    p.Category,
		SubCategory: p.SubCategory,
	}
}

// SanitizeTerm trims raw and strips control characters. The second result is
// a user-facing problem description, empty when the term is acceptable.
func SanitizeTerm(raw string) (string, string) {
	term := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, raw)
	term = strings.Join(strings.Fields(term), " ")

	n := utf8.RuneCountInString(term)
	if n < MinSearchLength || n > MaxSearchLength {
		return term, "search query must be between " + strconv.Itoa(MinSearchLength) +
			" and " + strconv.Itoa(MaxSearchLength) + " characters"
	}
	return term, ""
}

// NormalizeSearch validates q, limit and offset.
func NormalizeSearch(values url.Values) (SearchRequest, error) {
	req := SearchRequest{Limit: DefaultSearchLimit}
	errs := map[string]string{}

	term, problem := SanitizeTerm(values.Get("q"))
	if problem != "" {
		errs["q"] = problem
	}
	req.Term = term

	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxSearchLimit {
			errs["limit"] = "limit must be between 1 and " + strconv.Itoa(MaxSearchLimit)
		} else {
			req.Limit = n
		}
	}
	if raw := strings.TrimSpace(values.Get("offset")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > MaxSearchOffset {
			errs["offset"] = "offset must be between 0 and " + strconv.Itoa(MaxSearchOffset)
		} else {
			req.Offset = n
		}
	}

	if len(errs) > 0 {
		return SearchRequest{}, InvalidFields(errs)
	}
	return req, nil
}

// Searcher is a prefix-only name search: the lower-cased term must match the
// start of the lower-cased product name. Words in the middle of a name are
// not found.
type Searcher struct {
	store   Store
	timeout time.Duration
}

func NewSearcher(store Store, timeout time.Duration) *Searcher {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &Searcher{store: store, timeout: timeout}
}

func (s *Searcher) Search(ctx context.Context, req SearchRequest) ([]SearchResult, error) {
	const op = "Searcher.Search"

	q, err := NewBuilder().
		Prefix(FieldNameLower, strings.ToLower(req.Term)).
		OrderBy(FieldNameLower, false).
		Limit(req.Limit).
		Offset(req.Offset).
		Build()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	products, err := s.store.Find(ctx, q, nil)
	if err != nil {
		return nil, storeError(ctx, op, err)
	}

	out := make([]SearchResult, len(products))
	for i := range products {
		out[i] = Project(&products[i])
	}
	return out, nil
}
