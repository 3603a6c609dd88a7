package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/pkg/ctx"
	"github.com/shashiranjanraj/velocart/pkg/logger"
)

// RetryAfter is the hint sent with 503 responses.
const RetryAfter = 5 * time.Second

// fail maps a catalog error kind to its HTTP response.
func fail(c *ctx.Context, err error) {
	log := logger.WithCtx(c.Context())

	var ce *catalog.Error
	if !errors.As(err, &ce) {
		log.Error("request failed", "error", err)
		c.Error(http.StatusInternalServerError, "Internal server error")
		return
	}

	switch ce.Kind {
	case catalog.KindValidation:
		c.ValidationError(ce.Fields)
	case catalog.KindConfiguration:
		// Already logged with the query shape by the service.
		c.Error(http.StatusBadRequest, "This combination of filters and sort order is not supported")
	case catalog.KindNotFound:
		c.NotFound(ce.Msg)
	case catalog.KindAccessDenied:
		log.Error("catalog store denied access", "error", err)
		c.Error(http.StatusForbidden, "Catalog access denied")
	case catalog.KindUnavailable:
		log.Warn("catalog store unavailable", "error", err)
		c.Unavailable(RetryAfter)
	default:
		log.Error("request failed", "error", err)
		c.Error(http.StatusInternalServerError, "Internal server error")
	}
}
