// Package server assembles the catalog service from configuration and runs
// its HTTP and gRPC listeners until the context ends.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"google.golang.org/grpc"

	"github.com/shashiranjanraj/velocart/app/catalog"
	appgraphql "github.com/shashiranjanraj/velocart/app/graphql"
	"github.com/shashiranjanraj/velocart/app/repositories"
	"github.com/shashiranjanraj/velocart/app/routes"
	"github.com/shashiranjanraj/velocart/app/services"
	"github.com/shashiranjanraj/velocart/config"
	"github.com/shashiranjanraj/velocart/database/seeders"
	"github.com/shashiranjanraj/velocart/internal/kernel"
	"github.com/shashiranjanraj/velocart/pkg/cache"
	"github.com/shashiranjanraj/velocart/pkg/graphql"
	grpcserver "github.com/shashiranjanraj/velocart/pkg/grpc"
	"github.com/shashiranjanraj/velocart/pkg/logger"
	"github.com/shashiranjanraj/velocart/pkg/middleware"
	"github.com/shashiranjanraj/velocart/pkg/retry"
	"github.com/shashiranjanraj/velocart/pkg/router"
	"github.com/shashiranjanraj/velocart/pkg/storage"
	"github.com/shashiranjanraj/velocart/pkg/workerpool"
)

const shutdownTimeout = 10 * time.Second

// BootRetry governs connecting to the store and redis at startup.
var BootRetry = retry.Config{
	MaxAttempts: 5,
	Backoff:     retry.Exponential(250*time.Millisecond, 5*time.Second),
	OnRetry: func(attempt int, wait time.Duration, err error) {
		logger.Warn("boot: dependency not ready, retrying", "attempt", attempt, "wait", wait, "error", err)
	},
}

// Redis is optional, so it gets a short leash.
var cacheRetry = retry.Config{MaxAttempts: 2, Backoff: retry.Constant(500 * time.Millisecond)}

type App struct {
	Backend *repositories.Backend
	Router  *router.Router

	images     *workerpool.Pool
	httpServer HTTPServer
	grpcServer *grpc.Server
}

// New connects every dependency named by the configuration and builds the
// HTTP surface. Redis is optional: when it cannot be reached the taxonomy
// cache and the redis rate limiter are disabled.
func New(ctx context.Context) (*App, error) {
	const op = "server.New"

	if err := config.Load(); err != nil {
		return nil, err
	}
	logger.Reload()

	if err := retry.Do(ctx, cacheRetry, cache.Connect); err != nil {
		logger.Warn("redis unavailable, continuing without cache", "error", err)
	}

	backend, err := OpenBackend(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app := &App{Backend: backend}

	if backend.Driver == "memory" {
		if err := seeders.RunAll(ctx, seeders.Target{Store: backend.Store, Taxonomy: backend.Taxonomy}, io.Discard); err != nil {
			app.Close(ctx)
			return nil, fmt.Errorf("%s: seed memory store: %w", op, err)
		}
	}

	disk, err := storage.New(ctx, config.StorageDefault())
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app.images = workerpool.New("image_cleanup", config.ImageCleanupWorkers())

	var indexes *catalog.IndexSet
	if config.IndexStrict() {
		indexes = catalog.DefaultIndexes()
	}
	products := services.NewProductService(backend.Store, backend.Taxonomy, services.ProductConfig{
		Indexes:       indexes,
		StoreTimeout:  config.StoreTimeout(),
		MissingCursor: catalog.ParseCursorPolicy(config.CursorMissingPolicy()),
		Images:        services.NewImageCleaner(disk, app.images),
	})
	taxonomy := services.NewTaxonomyService(backend.Taxonomy, config.StoreTimeout())

	schema, err := appgraphql.NewSchema(products, taxonomy)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("%s: graphql schema: %w", op, err)
	}

	deps := routes.Deps{
		Products:      products,
		Taxonomy:      taxonomy,
		Auth:          services.NewAuthService(config.AdminEmail(), config.AdminPasswordHash()),
		StoreDriver:   backend.Driver,
		Ping:          backend.Store.Ping,
		SearchLimiter: searchLimiter(),
		GraphQL:       graphql.Handler(schema),
	}
	app.Router = kernel.NewRouter(func(r *router.Router) { routes.RegisterAPI(r, deps) })
	app.httpServer = NewHTTPServer(":"+config.AppPort(), app.Router.Handler())
	return app, nil
}

// OpenBackend opens the configured store, retrying while it reports itself
// unavailable.
func OpenBackend(ctx context.Context) (*repositories.Backend, error) {
	return openBackend(ctx, BootRetry, config.StoreDriver())
}

func openBackend(ctx context.Context, cfg retry.Config, driver string) (*repositories.Backend, error) {
	cfg.ShouldRetry = retryOpen
	return retry.DoWithResult(ctx, cfg, func(ctx context.Context) (*repositories.Backend, error) {
		return repositories.Open(ctx, driver)
	})
}

// retryOpen rejects failures another attempt cannot fix.
func retryOpen(err error) bool {
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, repositories.ErrUnknownDriver),
		catalog.IsKind(err, catalog.KindAccessDenied):
		return false
	}
	return true
}

func searchLimiter() middleware.Limiter {
	limit, window := config.SearchRateLimit(), config.SearchRateWindow()
	if limit <= 0 {
		return nil
	}
	if config.RateLimitDriver() == "redis" && cache.Enabled() {
		return middleware.NewRedisLimiter("velocart:ratelimit:", limit, window)
	}
	return middleware.NewMemoryLimiter(limit, window)
}

// Run starts the listeners and blocks until ctx ends or the HTTP server
// stops on its own, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	grpcSrv, err := grpcserver.Start(config.GRPCPort(), a.Backend.Store.Ping)
	if err != nil {
		a.Close(context.WithoutCancel(ctx))
		return err
	}
	a.grpcServer = grpcSrv

	go a.httpServer.Run(stop)
	logger.Info("velocart is running", "http_port", config.AppPort(), "grpc_port", config.GRPCPort(), "store", a.Backend.Driver)

	<-ctx.Done()

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	a.Close(closeCtx)
	return nil
}

// Close stops the listeners, drains the image cleanup pool and disconnects
// the store and redis, in that order.
func (a *App) Close(ctx context.Context) {
	logger.Info("velocart is closing...")

	if a.Router != nil {
		a.httpServer.Close(ctx)
	}
	if a.grpcServer != nil {
		grpcserver.Stop(a.grpcServer)
	}
	if a.images != nil {
		if err := a.images.Shutdown(ctx); err != nil {
			logger.Warn("image cleanup pool did not drain", "error", err)
		}
	}
	if a.Backend != nil {
		if err := a.Backend.Close(ctx); err != nil {
			logger.Warn("store close failed", "error", err)
		}
	}
	if cache.Enabled() {
		if err := cache.Close(); err != nil {
			logger.Warn("redis close failed", "error", err)
		}
	}

	logger.Info("velocart is closed")
}
