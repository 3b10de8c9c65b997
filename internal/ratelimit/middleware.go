package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/noah-isme/backend-carwash/internal/common"
)

// Config describes how to derive a rate limit key and thresholds.
type Config struct {
	Key    func(*http.Request) string
	Window time.Duration
	Max    int
}

// Handler enforces rate limits before delegating to the next handler.
// OnLimited sees the key of every refused request.
type Handler struct {
	Limiter   Limiter
	Config    Config
	OnError   func(error)
	OnLimited func(key string)
}

func (h Handler) now() time.Time {
	if h.Limiter.Now != nil {
		return h.Limiter.Now()
	}
	return time.Now()
}

// ClientKey keys requests by scope and client IP.
func ClientKey(scope string) func(*http.Request) string {
	return func(r *http.Request) string {
		return scope + ":" + common.ClientIP(r)
	}
}

// Middleware implements the http.Handler middleware interface. Limiter
// failures let the request through.
func (h Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Config.Key == nil {
			next.ServeHTTP(w, r)
			return
		}
		key := h.Config.Key(r)
		verdict, err := h.Limiter.Allow(r.Context(), key, h.Config.Window, h.Config.Max)
		if err != nil {
			if h.OnError != nil {
				h.OnError(err)
			}
			next.ServeHTTP(w, r)
			return
		}

		headers := w.Header()
		headers.Set("X-RateLimit-Limit", strconv.Itoa(max(h.Config.Max, 0)))
		headers.Set("X-RateLimit-Remaining", strconv.Itoa(verdict.Remaining))
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(verdict.RetryAt.Unix(), 10))

		if !verdict.Allowed {
			if h.OnLimited != nil {
				h.OnLimited(key)
			}
			wait := verdict.RetryAt.Sub(h.now())
			headers.Set("Retry-After", strconv.Itoa(max(int(math.Ceil(wait.Seconds())), 0)))
			common.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many attempts, try again later", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
