package controllers

import (
	"context"
	"time"

	"github.com/shashiranjanraj/velocart/pkg/ctx"
	"github.com/shashiranjanraj/velocart/pkg/logger"
)

type HealthController struct {
	driver string
	ping   func(ctx context.Context) error
}

func NewHealthController(driver string, ping func(ctx context.Context) error) *HealthController {
	return &HealthController{driver: driver, ping: ping}
}

// Healthz reports 200 while the catalog store answers a ping.
func (hc *HealthController) Healthz(c *ctx.Context) {
	pctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if err := hc.ping(pctx); err != nil {
		logger.WithCtx(c.Context()).Warn("health check failed", "driver", hc.driver, "error", err)
		c.Unavailable(RetryAfter)
		return
	}
	c.Success(map[string]string{"status": "ok", "store": hc.driver})
}
