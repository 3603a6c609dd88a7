// Package kernel builds the HTTP handler: the global middleware stack, JSON
// fallbacks for unknown routes, then the application routes.
package kernel

import (
	"net/http"

	"github.com/shashiranjanraj/velocart/config"
	"github.com/shashiranjanraj/velocart/pkg/metrics"
	"github.com/shashiranjanraj/velocart/pkg/middleware"
	"github.com/shashiranjanraj/velocart/pkg/reqid"
	"github.com/shashiranjanraj/velocart/pkg/response"
	"github.com/shashiranjanraj/velocart/pkg/router"
)

// NewRouter returns a router with the global middleware applied and routes
// registered by each fn.
//
// Middleware order, outermost first:
//  1. metrics   total latency including everything below
//  2. request id
//  3. logger    per-request logger tagged with the request id
//  4. recovery  so panics are logged with the request id
//  5. CORS
func NewRouter(fns ...func(*router.Router)) *router.Router {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSAllowedOrigins())))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	for _, fn := range fns {
		fn(r)
	}
	return r
}
