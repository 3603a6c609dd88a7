package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareLabelsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(RequestTotal.WithLabelValues(http.MethodGet, "/products/{id}", "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/def", nil))

	after := testutil.ToFloat64(RequestTotal.WithLabelValues(http.MethodGet, "/products/{id}", "404"))
	assert.Equal(t, before+2, after)
}

func TestHelpers(t *testing.T) {
	ObservePage("storefront", true)
	assert.GreaterOrEqual(t, testutil.ToFloat64(PagesServed.WithLabelValues("storefront", "true")), 1.0)

	RecordJob("image_cleanup", errors.New("boom"))
	assert.GreaterOrEqual(t, testutil.ToFloat64(JobsProcessed.WithLabelValues("image_cleanup", "failed")), 1.0)

	ObserveStore("memory", "find", time.Now(), "ok")
	assert.Equal(t, 1, testutil.CollectAndCount(StoreDuration, "velocart_store_operation_duration_seconds"))
}

func TestHandlerServesRegistry(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "velocart_http_requests_in_flight"))
}
