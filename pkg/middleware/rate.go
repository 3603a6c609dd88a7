// Package middleware provides the HTTP middleware stack.
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/shashiranjanraj/velocart/pkg/cache"
	"github.com/shashiranjanraj/velocart/pkg/ctx"
	"github.com/shashiranjanraj/velocart/pkg/logger"
	"github.com/shashiranjanraj/velocart/pkg/metrics"
	"github.com/shashiranjanraj/velocart/pkg/response"
)

// Limiter counts hits per key in fixed windows.
type Limiter interface {
	// Allow records a hit for key and reports whether it is within the limit,
	// and if not, how long until the window resets.
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// ─── In-process limiter ──────────────────────────────────────────────────────

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps windows in process memory. Suitable for a single
// instance.
type MemoryLimiter struct {
	max    int
	period time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*window
	sweepAt time.Time
}

func NewMemoryLimiter(max int, period time.Duration) *MemoryLimiter {
	return &MemoryLimiter{max: max, period: period, now: time.Now, windows: map[string]*window{}}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(l.period)}
		l.windows[key] = w
	}
	w.count++
	if w.count > l.max {
		return false, w.resetAt.Sub(now), nil
	}
	return true, 0, nil
}

// sweep drops expired windows at most once per period so the map can't grow
// without bound on a long-running server.
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Before(l.sweepAt) {
		return
	}
	for k, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, k)
		}
	}
	l.sweepAt = now.Add(l.period)
}

// ─── Redis limiter ───────────────────────────────────────────────────────────

// RedisLimiter shares windows across instances through pkg/cache.
type RedisLimiter struct {
	max    int
	period time.Duration
	prefix string
}

func NewRedisLimiter(prefix string, max int, period time.Duration) *RedisLimiter {
	return &RedisLimiter{max: max, period: period, prefix: prefix}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	n, ttl, err := cache.Incr(ctx, l.prefix+key, l.period)
	if err != nil {
		return true, 0, err
	}
	if n > int64(l.max) {
		return false, ttl, nil
	}
	return true, 0, nil
}

// ─── Middleware ──────────────────────────────────────────────────────────────

// RateLimit rejects clients over the limit with 429 and Retry-After. Limiter
// failures let the request through.
//
//	r.Get("/search", "search", h, middleware.RateLimit("search", limiter))
func RateLimit(name string, l Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter, err := l.Allow(r.Context(), name+":"+ctx.ClientIP(r))
			if err != nil {
				logger.WithCtx(r.Context()).Warn("rate limiter unavailable", "limiter", name, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				metrics.RateLimited.WithLabelValues(name).Inc()
				response.TooManyRequests(w, retryAfter)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
