package config

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/ulule/limiter/v3"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	JWTSecret          string
	CORSAllowedOrigins []string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	CookieDomain       string
	CookieSecure       bool
	CookieSameSite     http.SameSite

	Shop Shop
	Wash Wash

	LoginRateLimitMax    int
	LoginRateLimitWindow time.Duration
	// GlobalRateLimit uses the ulule/limiter formatted rate, e.g. "300-M".
	// "off" leaves it empty, which disables the global limiter.
	GlobalRateLimit string

	DBMaxConns   int32
	DBLogQueries bool
	AutoMigrate  bool

	WorkerConcurrency int
	// WorkerMetricsAddr exposes the worker's /metrics when set, e.g. ":9091".
	WorkerMetricsAddr string
	ResendAPIKey      string
	EmailFrom         string

	LogFormat            string
	LogLevel             string
	MetricsNamespace     string
	MetricsEnabled       bool
	MetricsBucketsMS     string
	TracingEnabled       bool
	TracingExporter      string
	TracingEndpoint      string
	TracingSamplingRatio float64
	HealthDBTimeout      time.Duration
	HealthRedisTimeout   time.Duration
	PprofEnabled         bool
	PprofBasicAuthUser   string
	PprofBasicAuthPass   string
}

// Shop describes the car wash itself.
type Shop struct {
	Name     string
	Currency string
	// Timezone decides where sales periods start.
	Timezone *time.Location
}

// Attributes labels telemetry with the shop's identity.
func (s Shop) Attributes() map[string]string {
	attrs := map[string]string{
		"shop.name":     s.Name,
		"shop.currency": s.Currency,
	}
	if s.Timezone != nil {
		attrs["shop.timezone"] = s.Timezone.String()
	}
	return attrs
}

// Wash tunes wash order creation and the caches around it.
type Wash struct {
	// LockTTL bounds how long one customer's lock may be held.
	LockTTL          time.Duration
	LockRetryBackoff time.Duration
	SalesCacheTTL    time.Duration
	IdempotencyTTL   time.Duration
}

// Load reads configuration from environment variables and an optional .env
// file. Every invalid setting is reported, not only the first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	return parse(vars{k: k})
}

func parse(v vars) (*Config, error) {
	var errs []error

	tz, err := time.LoadLocation(v.str("APP_TIMEZONE", "UTC"))
	if err != nil {
		errs = append(errs, fmt.Errorf("APP_TIMEZONE: %w", err))
	}

	cfg := &Config{
		AppEnv:             v.str("APP_ENV", "development"),
		Port:               v.str("PORT", "8080"),
		DatabaseURL:        v.str("DATABASE_URL", ""),
		RedisURL:           v.str("REDIS_URL", ""),
		JWTSecret:          v.str("JWT_SECRET", ""),
		CORSAllowedOrigins: v.list("CORS_ALLOWED_ORIGINS"),
		AccessTokenTTL:     v.duration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:    v.duration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		CookieDomain:       v.str("COOKIE_DOMAIN", ""),
		CookieSecure:       v.boolean("COOKIE_SECURE", false),
		CookieSameSite:     sameSite(v.str("COOKIE_SAMESITE", "lax")),

		Shop: Shop{
			Name:     v.str("SHOP_NAME", "Carsss"),
			Currency: strings.ToUpper(v.str("CURRENCY_CODE", "INR")),
			Timezone: tz,
		},
		Wash: Wash{
			LockTTL:          v.duration("CUSTOMER_LOCK_TTL", 10*time.Second),
			LockRetryBackoff: v.duration("LOCK_RETRY_BACKOFF", 25*time.Millisecond),
			SalesCacheTTL:    v.duration("SALES_CACHE_TTL", 30*time.Second),
			IdempotencyTTL:   v.duration("IDEMPOTENCY_TTL", 24*time.Hour),
		},

		LoginRateLimitMax:    v.positive("LOGIN_RATE_LIMIT_MAX", 10),
		LoginRateLimitWindow: v.duration("LOGIN_RATE_LIMIT_WINDOW", time.Minute),
		GlobalRateLimit:      v.str("GLOBAL_RATE_LIMIT", "600-M"),

		DBMaxConns:   int32(v.positive("DB_MAX_CONNS", 10)),
		DBLogQueries: v.boolean("DB_LOG_QUERIES", false),
		AutoMigrate:  v.boolean("AUTO_MIGRATE", false),

		WorkerConcurrency: v.positive("WORKER_CONCURRENCY", 10),
		WorkerMetricsAddr: v.str("WORKER_METRICS_ADDR", ""),
		ResendAPIKey:      v.str("RESEND_API_KEY", ""),
		EmailFrom:         v.str("EMAIL_FROM", "Carsss <no-reply@carsss.local>"),

		LogFormat:            v.str("OBS_LOG_FORMAT", "json"),
		LogLevel:             v.str("OBS_LOG_LEVEL", "info"),
		MetricsNamespace:     v.str("OBS_METRICS_NAMESPACE", "carwash"),
		MetricsEnabled:       v.boolean("OBS_ENABLE_PROMETHEUS", true),
		MetricsBucketsMS:     v.str("OBS_METRICS_BUCKETS_MS", ""),
		TracingEnabled:       v.boolean("OBS_ENABLE_TRACING", false),
		TracingExporter:      v.str("OBS_TRACING_EXPORTER", "otlp"),
		TracingEndpoint:      v.str("OBS_OTLP_ENDPOINT", ""),
		TracingSamplingRatio: v.float("OBS_TRACING_SAMPLING_RATIO", 1),
		HealthDBTimeout:      v.duration("HEALTH_READY_DB_TIMEOUT", 500*time.Millisecond),
		HealthRedisTimeout:   v.duration("HEALTH_READY_REDIS_TIMEOUT", 300*time.Millisecond),
		PprofEnabled:         v.boolean("OBS_ENABLE_PPROF", false),
		PprofBasicAuthUser:   v.str("SECURE_PPROF_BASIC_AUTH_USER", ""),
		PprofBasicAuthPass:   v.str("SECURE_PPROF_BASIC_AUTH_PASS", ""),
	}

	if strings.EqualFold(cfg.GlobalRateLimit, "off") {
		cfg.GlobalRateLimit = ""
	}
	errs = append(errs, v.errs...)
	errs = append(errs, cfg.validate()...)
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() []error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if !isCurrencyCode(c.Shop.Currency) {
		errs = append(errs, fmt.Errorf("CURRENCY_CODE: %q is not an ISO 4217 code", c.Shop.Currency))
	}
	if c.Wash.LockRetryBackoff >= c.Wash.LockTTL {
		errs = append(errs, fmt.Errorf("LOCK_RETRY_BACKOFF (%s) must be shorter than CUSTOMER_LOCK_TTL (%s)", c.Wash.LockRetryBackoff, c.Wash.LockTTL))
	}
	if c.GlobalRateLimit != "" {
		if _, err := limiter.NewRateFromFormatted(c.GlobalRateLimit); err != nil {
			errs = append(errs, fmt.Errorf("GLOBAL_RATE_LIMIT: %w", err))
		}
	}
	return errs
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// RedisEnabled reports whether a Redis URL was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != ""
}

// vars reads typed settings, remembering values that are set but malformed.
type vars struct {
	k    *koanf.Koanf
	errs []error
}

func (v *vars) str(key, fallback string) string {
	if s := strings.TrimSpace(v.k.String(key)); s != "" {
		return s
	}
	return fallback
}

func (v *vars) list(key string) []string {
	var out []string
	for _, part := range strings.Split(v.k.String(key), ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (v *vars) duration(key string, fallback time.Duration) time.Duration {
	raw := v.str(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		v.errs = append(v.errs, fmt.Errorf("%s: invalid duration %q", key, raw))
		return fallback
	}
	return d
}

func (v *vars) boolean(key string, fallback bool) bool {
	switch strings.ToLower(v.str(key, "")) {
	case "":
		return fallback
	case "1", "t", "true", "yes", "on":
		return true
	case "0", "f", "false", "no", "off":
		return false
	default:
		v.errs = append(v.errs, fmt.Errorf("%s: invalid boolean", key))
		return fallback
	}
}

func (v *vars) positive(key string, fallback int) int {
	raw := v.str(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		v.errs = append(v.errs, fmt.Errorf("%s: want a positive integer, got %q", key, raw))
		return fallback
	}
	return n
}

func (v *vars) float(key string, fallback float64) float64 {
	raw := v.str(key, "")
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		v.errs = append(v.errs, fmt.Errorf("%s: invalid number %q", key, raw))
		return fallback
	}
	return f
}

func sameSite(value string) http.SameSite {
	switch strings.ToLower(value) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
