package app

import (
	"crypto/subtle"
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-carwash/internal/auth"
	"github.com/noah-isme/backend-carwash/internal/common"
	"github.com/noah-isme/backend-carwash/internal/customer"
	"github.com/noah-isme/backend-carwash/internal/employee"
	"github.com/noah-isme/backend-carwash/internal/health"
	"github.com/noah-isme/backend-carwash/internal/obs"
	"github.com/noah-isme/backend-carwash/internal/reviews"
	"github.com/noah-isme/backend-carwash/internal/sales"
	"github.com/noah-isme/backend-carwash/internal/security"
	"github.com/noah-isme/backend-carwash/internal/shopinfo"
	"github.com/noah-isme/backend-carwash/internal/washing"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth      auth.Middleware
	Sessions  *auth.Handler
	Employees *employee.Handler
	Customers *customer.Handler
	Services  *washing.Handler
	Sales     *sales.Handler
	Reviews   *reviews.Handler
	ShopInfo  *shopinfo.Handler
	Health    health.Handler

	// Optional middleware. Nil entries are skipped.
	GlobalLimit func(http.Handler) http.Handler
	LoginLimit  func(http.Handler) http.Handler
	Idempotency func(http.Handler) http.Handler
}

// RouterConfig controls the ambient middleware stack.
type RouterConfig struct {
	Logger         zerolog.Logger
	Metrics        *obs.HTTPMetrics
	Tracing        bool
	AllowedOrigins []string
	Pprof          bool
	PprofUser      string
	PprofPass      string
	// HSTS is enabled when the API is only served over TLS.
	HSTS           bool
	MaxBodyBytes   int64
}

// NewRouter mounts the HTTP API under /api/v1 next to health, metrics and pprof.
func NewRouter(cfg RouterConfig, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(obs.RequestInfo)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Tracing {
		r.Use(obs.TracingMiddleware)
	}
	if cfg.Metrics != nil {
		r.Use(obs.HTTPObs{Metrics: cfg.Metrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: cfg.Logger}.Middleware)
	r.Use(security.Headers{HSTS: cfg.HSTS}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg.AllowedOrigins),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		common.JSONError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	if cfg.Metrics != nil {
		r.Handle("/metrics", promhttp.Handler())
	}
	if cfg.Pprof {
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), cfg.PprofUser, cfg.PprofPass))
	}
	r.Get("/health/live", h.Health.Live)
	r.Get("/health/ready", h.Health.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		if h.GlobalLimit != nil {
			v.Use(h.GlobalLimit)
		}
		v.Use(security.BodyLimit{Max: cfg.MaxBodyBytes}.Middleware)
		v.Use(h.Auth.Authenticate)
		login := optional(h.LoginLimit)

		v.Get("/about-us", h.ShopInfo.AboutUs)
		v.Post("/social-links", h.ShopInfo.SocialLinks)
		v.Post("/auth/refresh", h.Sessions.Refresh)

		v.Route("/employees", func(e chi.Router) {
			e.Post("/register", h.Employees.Register)
			e.With(login).Post("/login", h.Employees.Login)
			e.Post("/logout", h.Sessions.Logout)
			e.Group(func(admin chi.Router) {
				admin.Use(h.Auth.RequireAdmin)
				admin.Get("/", h.Employees.List)
				admin.Post("/", h.Employees.Create)
				admin.Put("/{id}", h.Employees.Update)
				admin.Delete("/{id}", h.Employees.Delete)
			})
		})

		v.Route("/customers", func(c chi.Router) {
			c.Post("/register", h.Customers.Register)
			c.With(login).Post("/login", h.Customers.Login)
			c.Post("/logout", h.Sessions.Logout)
			c.Group(func(admin chi.Router) {
				admin.Use(h.Auth.RequireAdmin)
				admin.Get("/", h.Customers.List)
				admin.Post("/", h.Customers.Create)
				admin.Put("/{id}", h.Customers.Update)
				admin.Delete("/{id}", h.Customers.Delete)
				admin.Get("/{id}/discount-preview", h.Services.Preview)
			})
		})

		v.Route("/services", func(s chi.Router) {
			s.Use(h.Auth.RequireAdmin)
			s.Get("/", h.Services.List)
			s.With(optional(h.Idempotency)).Post("/", h.Services.Create)
			s.Get("/{id}", h.Services.Get)
			s.Patch("/{id}/status", h.Services.UpdateStatus)
		})

		v.With(h.Auth.RequireAdmin).Get("/sales/count", h.Sales.Count)
		v.With(h.Auth.RequireAdmin).Post("/sales/count", h.Sales.Count)

		v.Route("/reviews", func(rv chi.Router) {
			rv.Get("/", h.Reviews.List)
			rv.Get("/stats", h.Reviews.Stats)
			rv.With(h.Auth.RequireCustomer).Post("/", h.Reviews.Create)
		})
	})
	return r
}

func optional(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func newPprofMux() http.Handler {
	// chi.Mount keeps the full path, so the mux registers absolute patterns.
	const prefix = "/debug/pprof"
	mux := http.NewServeMux()
	mux.HandleFunc(prefix+"/", pprof.Index)
	mux.HandleFunc(prefix+"/cmdline", pprof.Cmdline)
	mux.HandleFunc(prefix+"/profile", pprof.Profile)
	mux.HandleFunc(prefix+"/symbol", pprof.Symbol)
	mux.HandleFunc(prefix+"/trace", pprof.Trace)
	return mux
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", "Basic realm=restricted")
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorised", nil)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
