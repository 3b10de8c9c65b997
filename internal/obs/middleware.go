package obs

import (
	"context"
	"maps"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Label keys shared by handlers and the request middleware.
const (
	LabelRole        = "role"
	LabelUserID      = "user_id"
	LabelServiceType = "service_type"
	LabelDiscount    = "discount"
	LabelPeriod      = "period"
)

type requestInfoKey struct{}

type requestInfo struct {
	mu     sync.Mutex
	labels map[string]string
}

// RequestInfo installs a per-request label set. Handlers deeper in the chain
// add to it with Annotate; the metrics, tracing and logging middleware read it
// once the handler has returned, so they see labels set on derived contexts.
func RequestInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if infoFrom(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), requestInfoKey{}, &requestInfo{labels: map[string]string{}})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func infoFrom(ctx context.Context) *requestInfo {
	if ctx == nil {
		return nil
	}
	info, _ := ctx.Value(requestInfoKey{}).(*requestInfo)
	return info
}

// Annotate labels the current request, e.g. with the service type and
// discount a wash order resolved to. Outside RequestInfo it does nothing.
func Annotate(ctx context.Context, key, value string) {
	info := infoFrom(ctx)
	if info == nil || key == "" || value == "" {
		return
	}
	info.mu.Lock()
	info.labels[key] = value
	info.mu.Unlock()
}

// Annotations returns a copy of the request's labels.
func Annotations(ctx context.Context) map[string]string {
	info := infoFrom(ctx)
	if info == nil {
		return nil
	}
	info.mu.Lock()
	defer info.mu.Unlock()
	return maps.Clone(info.labels)
}

// sortedLabels yields labels in key order for stable log and span output.
func sortedLabels(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// routeOf reads chi's matched pattern. The route context is shared with the
// router, so after the handler returns it holds the full pattern.
func routeOf(r *http.Request, fallback string) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return fallback
}

type recorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func newRecorder(w http.ResponseWriter) *recorder {
	return &recorder{ResponseWriter: w, status: http.StatusOK}
}

func (rw *recorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recorder) Write(p []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(p)
	rw.bytes += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *recorder) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

// HTTPObs records request metrics.
type HTTPObs struct {
	Metrics *HTTPMetrics
}

// Middleware counts requests by route, status and the role Annotate recorded.
func (o HTTPObs) Middleware(next http.Handler) http.Handler {
	if o.Metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := newRecorder(w)
		o.Metrics.InFlight.Inc()
		defer o.Metrics.InFlight.Dec()
		start := time.Now()
		next.ServeHTTP(rec, r)
		role := Annotations(r.Context())[LabelRole]
		o.Metrics.observe(r.Method, routeOf(r, "unmatched"), rec.status, role, time.Since(start))
	})
}

// TracingMiddleware opens a server span per request. The span is renamed to
// the matched route once routing is done and carries the request's labels as
// carwash.* attributes.
func TracingMiddleware(next http.Handler) http.Handler {
	tracer := otel.Tracer("github.com/noah-isme/backend-carwash/internal/obs")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := tracer.Start(ctx, r.Method, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		rec := newRecorder(w)
		next.ServeHTTP(rec, r.WithContext(ctx))

		route := routeOf(r, r.URL.Path)
		span.SetName(r.Method + " " + route)
		attrs := []attribute.KeyValue{
			attribute.String("http.request.method", r.Method),
			attribute.String("http.route", route),
			attribute.String("url.path", r.URL.Path),
			attribute.Int("http.response.status_code", rec.status),
		}
		labels := Annotations(r.Context())
		for _, key := range sortedLabels(labels) {
			if key == LabelUserID {
				continue
			}
			attrs = append(attrs, attribute.String("carwash."+key, labels[key]))
		}
		span.SetAttributes(attrs...)
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
	})
}
