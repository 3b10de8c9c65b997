package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-carwash/internal/auth"
	"github.com/noah-isme/backend-carwash/internal/common"
	"github.com/noah-isme/backend-carwash/internal/config"
	"github.com/noah-isme/backend-carwash/internal/customer"
	"github.com/noah-isme/backend-carwash/internal/db"
	dbgen "github.com/noah-isme/backend-carwash/internal/db/gen"
	"github.com/noah-isme/backend-carwash/internal/employee"
	"github.com/noah-isme/backend-carwash/internal/events"
	"github.com/noah-isme/backend-carwash/internal/health"
	"github.com/noah-isme/backend-carwash/internal/jobs"
	"github.com/noah-isme/backend-carwash/internal/lock"
	"github.com/noah-isme/backend-carwash/internal/loyalty"
	"github.com/noah-isme/backend-carwash/internal/obs"
	"github.com/noah-isme/backend-carwash/internal/pricing"
	"github.com/noah-isme/backend-carwash/internal/ratelimit"
	"github.com/noah-isme/backend-carwash/internal/reviews"
	"github.com/noah-isme/backend-carwash/internal/sales"
	"github.com/noah-isme/backend-carwash/internal/shopinfo"
	"github.com/noah-isme/backend-carwash/internal/washing"
)

// ApplicationName is reported to Postgres and used as the tracing service name.
const ApplicationName = "carwash-api"

// App owns the API process' shared infrastructure and its HTTP handler.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Pool   *pgxpool.Pool
	Redis  *redis.Client
	Tasks  *asynq.Client
	Router http.Handler
}

// New connects to the backing stores and assembles the router. Redis is
// optional: without it locking, caching, token revocation, rate limiting and
// background jobs are switched off.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	if cfg.AutoMigrate {
		version, applied, err := db.Migrate(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info().Uint("version", version).Bool("applied", applied).Msg("database migrated")
	}

	pool, err := db.NewPool(ctx, db.PoolConfig{
		URL:             cfg.DatabaseURL,
		ApplicationName: ApplicationName,
		MaxConns:        cfg.DBMaxConns,
		LogQueries:      cfg.DBLogQueries,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Logger: logger, Pool: pool}

	if cfg.RedisEnabled() {
		rdb, err := NewRedis(ctx, cfg.RedisURL, cfg.MetricsEnabled, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Redis = rdb

		opt, err := asynq.ParseRedisURI(cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("parse redis url for jobs: %w", err)
		}
		a.Tasks = asynq.NewClient(opt)
	} else {
		logger.Warn().Msg("REDIS_URL not set: locking, caching, rate limiting and background jobs disabled")
	}

	var httpMetrics *obs.HTTPMetrics
	if cfg.MetricsEnabled {
		obs.MustRegisterDomainMetrics(cfg.MetricsNamespace, nil)
		httpMetrics = obs.NewHTTPMetrics(cfg.MetricsNamespace, obs.ParseBucketsCSV(cfg.MetricsBucketsMS), nil)
	}

	h, err := a.handlers(dbgen.New(pool))
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Router = NewRouter(RouterConfig{
		Logger:         logger,
		Metrics:        httpMetrics,
		Tracing:        cfg.TracingEnabled,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Pprof:          cfg.PprofEnabled,
		PprofUser:      cfg.PprofBasicAuthUser,
		PprofPass:      cfg.PprofBasicAuthPass,
		HSTS:           cfg.CookieSecure,
	}, h)
	return a, nil
}

func (a *App) handlers(queries *dbgen.Queries) (Handlers, error) {
	cfg := a.Config
	logger := a.Logger

	authCfg := auth.Config{
		Secret:          cfg.JWTSecret,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	}
	if a.Redis != nil {
		authCfg.Revocations = auth.RedisRevocations{Client: a.Redis, Prefix: "auth:revoked"}
	}
	authSvc, err := auth.NewService(authCfg)
	if err != nil {
		return Handlers{}, fmt.Errorf("initialise auth service: %w", err)
	}
	sessions := &auth.Handler{
		Service:           authSvc,
		AccessCookieName:  "access_token",
		RefreshCookieName: "refresh_token",
		CookieDomain:      cfg.CookieDomain,
		CookieSecure:      cfg.CookieSecure,
		CookieSameSite:    cfg.CookieSameSite,
	}

	bus := &events.Bus{Store: queries}
	if a.Tasks != nil {
		bus.Scheduler = jobs.Scheduler{Client: a.Tasks}
	}

	washSvc := &washing.Service{
		Store:    washing.NewPGStore(a.Pool),
		Prices:   pricing.DefaultTable(),
		Resolver: loyalty.NewResolver(loyalty.DefaultTiers()),
		LockTTL:  cfg.Wash.LockTTL,
		Events:   bus,
		Logger:   &logger,
	}
	if a.Redis != nil {
		washSvc.Locker = lock.CustomerLocks{Client: a.Redis, Backoff: cfg.Wash.LockRetryBackoff, Logger: &logger}
		washSvc.Sales = sales.Invalidator{R: a.Redis}
	}

	h := Handlers{
		Auth:      auth.Middleware{Service: authSvc, AccessCookie: sessions.AccessCookieName},
		Sessions:  sessions,
		Employees: &employee.Handler{Svc: &employee.Service{Q: queries, Logger: &logger}, Sessions: sessions},
		Customers: &customer.Handler{Svc: &customer.Service{Q: queries, Logger: &logger}, Sessions: sessions},
		Services:  &washing.Handler{Svc: washSvc},
		Sales: &sales.Handler{Svc: &sales.Service{
			Q:        queries,
			R:        a.Redis,
			TTL:      cfg.Wash.SalesCacheTTL,
			Location: cfg.Shop.Timezone,
			Logger:   &logger,
		}},
		Reviews:  &reviews.Handler{Svc: &reviews.Service{Q: queries}},
		ShopInfo: &shopinfo.Handler{ShopName: cfg.Shop.Name, Currency: cfg.Shop.Currency, Prices: pricing.DefaultTable()},
		Health:   health.Handler{Dependencies: a.dependencies()},
	}

	if a.Redis != nil {
		h.Idempotency = common.Idem{R: a.Redis, TTL: cfg.Wash.IdempotencyTTL}.Middleware
		h.LoginLimit = ratelimit.Handler{
			Limiter: ratelimit.Limiter{Client: a.Redis, Prefix: "ratelimit"},
			Config: ratelimit.Config{
				Key:    ratelimit.ClientKey("login"),
				Window: cfg.LoginRateLimitWindow,
				Max:    cfg.LoginRateLimitMax,
			},
			OnError: func(err error) {
				logger.Warn().Err(err).Msg("login rate limiter unavailable")
			},
			OnLimited: func(key string) {
				logger.Info().Str("key", key).Msg("login attempts throttled")
				if obs.LoginsThrottled != nil {
					obs.LoginsThrottled.Inc()
				}
			},
		}.Middleware
		if cfg.GlobalRateLimit != "" {
			store, err := ratelimit.NewStore(a.Redis)
			if err != nil {
				return Handlers{}, fmt.Errorf("initialise rate limit store: %w", err)
			}
			global, err := ratelimit.Global(store, cfg.GlobalRateLimit)
			if err != nil {
				return Handlers{}, err
			}
			h.GlobalLimit = global
		}
	}
	return h, nil
}

func (a *App) dependencies() []health.Dependency {
	deps := []health.Dependency{{
		Name:    "database",
		Timeout: a.Config.HealthDBTimeout,
		Check:   a.Pool.Ping,
	}}
	cache := health.Dependency{Name: "redis", Timeout: a.Config.HealthRedisTimeout}
	if a.Redis != nil {
		cache.Check = func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() }
	}
	return append(deps, cache)
}

// Close releases every connection the app opened.
func (a *App) Close() error {
	var errs error
	if a.Tasks != nil {
		errs = errors.Join(errs, a.Tasks.Close())
	}
	if a.Redis != nil {
		errs = errors.Join(errs, a.Redis.Close())
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
	return errs
}

// NewRedis opens an instrumented Redis client and verifies it answers.
func NewRedis(ctx context.Context, url string, withMetrics bool, logger zerolog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if withMetrics {
		if err := redisotel.InstrumentMetrics(client); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
