package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/models"
	"github.com/shashiranjanraj/velocart/pkg/logger"
	"github.com/shashiranjanraj/velocart/pkg/metrics"
	"github.com/shashiranjanraj/velocart/pkg/validate"
)

// ProductInput is the admin write payload.
type ProductInput struct {
	Name               string   `json:"name"               validate:"required,between=2|200"`
	Category           string   `json:"category"           validate:"required,max=100"`
	SubCategory        string   `json:"subCategory"        validate:"required,max=100"`
	Brand              string   `json:"brand"              validate:"max=100"`
	ActualPrice        float64  `json:"actualPrice"        validate:"gte=0"`
	DiscountPercentage *float64 `json:"discountPercentage" validate:"nullable,between=0|100"`
	Rating             float64  `json:"rating"             validate:"between=0|5"`
	Inventory          *int     `json:"inventory"          validate:"nullable,gte=0"`
	IsRecommended      bool     `json:"isRecommended"`
	Images             []string `json:"images"             validate:"max=10,urls"`
	ShortDescription   string   `json:"shortDescription"   validate:"max=500"`
	Details            string   `json:"details"            validate:"max=10000"`
}

// Listing is the body of every cursor-paginated endpoint.
type Listing struct {
	Products      []models.Product `json:"products"`
	HasMore       bool             `json:"hasMore"`
	LastProductID string           `json:"lastProductId,omitempty"`
}

// SearchResults is the body of the search endpoint.
type SearchResults struct {
	Products []catalog.SearchResult `json:"products"`
}

type ProductConfig struct {
	// Indexes, when set, makes listings reject queries without a declared
	// composite index.
	Indexes       *catalog.IndexSet
	StoreTimeout  time.Duration
	MissingCursor catalog.MissingCursorPolicy
	Images        ImageReleaser
	Now           func() time.Time
}

type ProductService struct {
	store    catalog.Store
	taxonomy catalog.TaxonomyStore
	indexes  *catalog.IndexSet
	pages    *catalog.Paginator
	searcher *catalog.Searcher
	images   ImageReleaser
	now      func() time.Time
}

func NewProductService(store catalog.Store, taxonomy catalog.TaxonomyStore, cfg ProductConfig) *ProductService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	store = catalog.Bound(store, cfg.StoreTimeout)
	taxonomy = catalog.BoundTaxonomy(taxonomy, cfg.StoreTimeout)
	return &ProductService{
		store:    store,
		taxonomy: taxonomy,
		indexes:  cfg.Indexes,
		pages:    catalog.NewPaginator(store, catalog.WithTimeout(cfg.StoreTimeout), catalog.WithMissingCursor(cfg.MissingCursor)),
		searcher: catalog.NewSearcher(store, cfg.StoreTimeout),
		images:   cfg.Images,
		now:      cfg.Now,
	}
}

// List serves a listing endpoint under profile.
func (s *ProductService) List(ctx context.Context, values url.Values, profile catalog.Profile) (Listing, error) {
	spec, err := catalog.NormalizeListing(values, profile)
	if err != nil {
		return Listing{}, err
	}
	return s.fetch(ctx, spec, profile)
}

// ListCategory serves the category page. Path segments resolve
// case-insensitively; unknown names are NotFound, no matches is an empty
// page.
func (s *ProductService) ListCategory(ctx context.Context, category, subcategory string, values url.Values) (Listing, error) {
	// The path names the category and subcategory.
	values = maps.Clone(values)
	for _, k := range []string{"categories", "category", "subCategory", "subcategory"} {
		delete(values, k)
	}
	spec, err := catalog.NormalizeListing(values, catalog.CategoryProfile)
	if err != nil {
		return Listing{}, err
	}

	lookup := catalog.NewLookup(s.taxonomy)
	cat, err := lookup.ResolveCategory(ctx, category)
	if err != nil {
		return Listing{}, err
	}
	sub, err := lookup.ResolveSubcategory(ctx, cat, subcategory)
	if err != nil {
		return Listing{}, err
	}
	spec.Categories = []string{cat}
	spec.SubCategory = sub
	return s.fetch(ctx, spec, catalog.CategoryProfile)
}

func (s *ProductService) fetch(ctx context.Context, spec catalog.FilterSpec, profile catalog.Profile) (Listing, error) {
	const op = "ProductService.List"

	q, err := spec.Query(s.indexes)
	if err != nil {
		s.logQueryShape(ctx, profile, describe(spec), err)
		return Listing{}, catalog.Wrap(op, err)
	}

	page, err := s.pages.Fetch(ctx, q, spec.PageSize, spec.Cursor)
	if err != nil {
		if catalog.IsKind(err, catalog.KindConfiguration) {
			s.logQueryShape(ctx, profile, q.Shape(), err)
		}
		return Listing{}, catalog.Wrap(op, err)
	}

	metrics.ObservePage(profile.Name, page.HasMore)
	return Listing{Products: page.Items, HasMore: page.HasMore, LastProductID: page.LastID}, nil
}

func (s *ProductService) logQueryShape(ctx context.Context, profile catalog.Profile, shape string, err error) {
	logger.WithCtx(ctx).Error("catalog: missing index or invalid query shape",
		"profile", profile.Name,
		"shape", shape,
		"error", err,
	)
}

// describe summarises a filter spec without its values.
func describe(spec catalog.FilterSpec) string {
	return fmt.Sprintf("categories=%d subCategory=%t brands=%d price=%t q=%t sort=%s",
		len(spec.Categories), spec.SubCategory != "", len(spec.Brands), spec.HasPriceRange(), spec.Search != "", spec.Sort)
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, catalog.Wrap("ProductService.Get", err)
	}
	return p, nil
}

func (s *ProductService) Search(ctx context.Context, values url.Values) (SearchResults, error) {
	req, err := catalog.NormalizeSearch(values)
	if err != nil {
		return SearchResults{}, err
	}
	results, err := s.searcher.Search(ctx, req)
	if err != nil {
		return SearchResults{}, catalog.Wrap("ProductService.Search", err)
	}
	return SearchResults{Products: results}, nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	const op = "ProductService.Create"

	p, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	if err := s.store.Create(ctx, p); err != nil {
		return nil, catalog.Wrap(op, err)
	}
	logger.WithCtx(ctx).Info("product created", "id", p.ID, "category", p.Category)
	return p, nil
}

// Update replaces a product. Images dropped by the update are released.
func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	const op = "ProductService.Update"

	prev, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, catalog.Wrap(op, err)
	}
	p, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}
	p.ID = prev.ID
	p.CreatedAt = prev.CreatedAt
	p.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, p); err != nil {
		return nil, catalog.Wrap(op, err)
	}

	var dropped []string
	for _, u := range prev.Images {
		if !slices.Contains(p.Images, u) {
			dropped = append(dropped, u)
		}
	}
	s.release(ctx, dropped)
	return p, nil
}

// Delete removes the product, then releases its images without waiting.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	const op = "ProductService.Delete"

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return catalog.Wrap(op, err)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return catalog.Wrap(op, err)
	}
	logger.WithCtx(ctx).Info("product deleted", "id", id, "images", len(p.Images))
	s.release(ctx, p.Images)
	return nil
}

func (s *ProductService) release(ctx context.Context, urls []string) {
	if s.images != nil && len(urls) > 0 {
		s.images.Release(ctx, urls)
	}
}

// build validates in and resolves its taxonomy references to their
// canonical spelling. The check reads a fresh snapshot and is not
// transactional with the write.
func (s *ProductService) build(ctx context.Context, in ProductInput) (*models.Product, error) {
	if errs := validate.Struct(in); len(errs) > 0 {
		return nil, catalog.InvalidFields(errs)
	}

	lookup := catalog.NewLookup(s.taxonomy)
	category, err := lookup.ResolveCategory(ctx, in.Category)
	if err != nil {
		return nil, asInvalid("category", err)
	}
	sub, err := lookup.ResolveSubcategory(ctx, category, in.SubCategory)
	if err != nil {
		return nil, asInvalid("subCategory", err)
	}
	brand := strings.TrimSpace(in.Brand)
	if brand != "" {
		if brand, err = lookup.ResolveBrand(ctx, category, sub, brand); err != nil {
			return nil, asInvalid("brand", err)
		}
	}

	inventory := 1
	if in.Inventory != nil {
		inventory = *in.Inventory
	}
	p := &models.Product{
		Name:               strings.TrimSpace(in.Name),
		Category:           category,
		SubCategory:        sub,
		Brand:              brand,
		ActualPrice:        in.ActualPrice,
		DiscountPercentage: in.DiscountPercentage,
		Rating:             in.Rating,
		Inventory:          inventory,
		IsRecommended:      in.IsRecommended,
		Images:             slices.Clone(in.Images),
		ShortDescription:   in.ShortDescription,
		Details:            in.Details,
	}
	p.Normalize()
	return p, nil
}

// asInvalid turns an unknown taxonomy reference into a field error; store
// failures pass through.
func asInvalid(field string, err error) error {
	var ce *catalog.Error
	if errors.As(err, &ce) && ce.Kind == catalog.KindNotFound {
		return catalog.Invalid(field, "%s", ce.Msg)
	}
	return err
}
