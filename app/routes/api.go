package routes

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/velocart/app/controllers"
	"github.com/shashiranjanraj/velocart/app/services"
	"github.com/shashiranjanraj/velocart/pkg/ctx"
	"github.com/shashiranjanraj/velocart/pkg/metrics"
	"github.com/shashiranjanraj/velocart/pkg/middleware"
	"github.com/shashiranjanraj/velocart/pkg/rbac"
	"github.com/shashiranjanraj/velocart/pkg/router"
)

// Deps are the services the HTTP surface is built on.
type Deps struct {
	Products *services.ProductService
	Taxonomy *services.TaxonomyService
	Auth     *services.AuthService

	// StoreDriver and Ping back /healthz.
	StoreDriver string
	Ping        func(ctx context.Context) error

	// SearchLimiter throttles /search and /graphql per client IP; nil
	// disables it.
	SearchLimiter middleware.Limiter
	GraphQL       http.Handler
}

// RegisterAPI mounts the storefront, admin and operational routes.
func RegisterAPI(r *router.Router, d Deps) {
	products := controllers.NewProductController(d.Products)
	taxonomy := controllers.NewTaxonomyController(d.Taxonomy)
	auth := controllers.NewAuthController(d.Auth)
	health := controllers.NewHealthController(d.StoreDriver, d.Ping)

	r.Get("/products", "products.index", ctx.Wrap(products.Index))
	r.Get("/products/category/{category}/{subcategory}", "products.category", ctx.Wrap(products.Category))
	r.Get("/products/{id}", "products.show", ctx.Wrap(products.Show))

	// /graphql exposes the same search, so both draw on one budget per client.
	var searchMW []router.Middleware
	if d.SearchLimiter != nil {
		searchMW = append(searchMW, middleware.RateLimit("search", d.SearchLimiter))
	}
	r.Get("/search", "search", ctx.Wrap(products.Search), searchMW...)

	r.Get("/taxonomy", "taxonomy.index", ctx.Wrap(taxonomy.Index))
	r.Get("/taxonomy/{category}/{subcategory}/brands", "taxonomy.brands", ctx.Wrap(taxonomy.Brands))

	r.Get("/healthz", "healthz", ctx.Wrap(health.Healthz))
	r.Get("/metrics", "metrics", metrics.Handler())
	if d.GraphQL != nil {
		r.Post("/graphql", "graphql", d.GraphQL.ServeHTTP, searchMW...)
	}

	r.Post("/admin/login", "admin.login", ctx.Wrap(auth.Login))

	admin := r.Group("/admin", middleware.Auth, rbac.HasRole(rbac.RoleAdmin))
	admin.Get("/products", "admin.products.index", ctx.Wrap(products.AdminIndex))
	admin.Post("/products", "admin.products.store", ctx.Wrap(products.Store))
	admin.Put("/products/{id}", "admin.products.update", ctx.Wrap(products.Update))
	admin.Delete("/products/{id}", "admin.products.destroy", ctx.Wrap(products.Destroy))
	admin.Post("/taxonomy/brands", "admin.brands.store", ctx.Wrap(taxonomy.AddBrand))
	admin.Delete("/taxonomy/brands", "admin.brands.destroy", ctx.Wrap(taxonomy.RemoveBrand))
}
