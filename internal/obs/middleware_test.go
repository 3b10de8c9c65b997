package obs_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/noah-isme/backend-carwash/internal/obs"
)

func TestHTTPMetricsLabelRouteAndRole(t *testing.T) {
	metrics := obs.NewHTTPMetrics("carwash", []float64{1, 10}, prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(obs.RequestInfo)
	r.Use(obs.HTTPObs{Metrics: metrics}.Middleware)
	r.Post("/api/v1/services", func(w http.ResponseWriter, r *http.Request) {
		obs.Annotate(r.Context(), obs.LabelRole, "admin")
		w.WriteHeader(http.StatusCreated)
	})
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/services", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Requests.WithLabelValues(http.MethodPost, "/api/v1/services", "201", "admin")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Requests.WithLabelValues(http.MethodGet, "/health/live", "200", "anonymous")))
	require.Equal(t, 2, testutil.CollectAndCount(metrics.Latency))
	require.Zero(t, testutil.ToFloat64(metrics.InFlight))
}

func TestNewHTTPMetricsReusesRegisteredCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := obs.NewHTTPMetrics("carwash", nil, registry)
	second := obs.NewHTTPMetrics("carwash", nil, registry)
	require.Same(t, first.Requests, second.Requests)
}

func TestParseBucketsCSV(t *testing.T) {
	require.Equal(t, []float64{5, 50, 250}, obs.ParseBucketsCSV("250, 5,nope,-1,50,5"))
	require.Empty(t, obs.ParseBucketsCSV(" "))
}

func TestTracingMiddlewareNamesSpanAfterRoute(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	r := chi.NewRouter()
	r.Use(obs.RequestInfo)
	r.Use(obs.TracingMiddleware)
	r.Patch("/api/v1/services/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		obs.Annotate(r.Context(), obs.LabelUserID, "emp-1")
		obs.Annotate(r.Context(), obs.LabelServiceType, "full_carwash")
		w.WriteHeader(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPatch, "/api/v1/services/abc/status", nil))

	ended := spans.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, "PATCH /api/v1/services/{id}/status", ended[0].Name())
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range ended[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	require.Equal(t, "full_carwash", attrs["carwash.service_type"].AsString())
	require.Equal(t, int64(200), attrs["http.response.status_code"].AsInt64())
	_, leaked := attrs["carwash.user_id"]
	require.False(t, leaked)
}
