// Package security holds HTTP hardening middleware shared by every route.
package security

import (
	"net/http"
	"strconv"

	"github.com/noah-isme/backend-carwash/internal/common"
)

// DefaultMaxBody caps JSON payloads. No endpoint accepts more than a few
// hundred bytes.
const DefaultMaxBody int64 = 64 << 10

// BodyLimit caps request payloads.
type BodyLimit struct {
	Max int64
}

// Middleware answers 413 when the declared length exceeds Max and otherwise
// wraps the body so decoders fail once Max bytes have been read.
func (b BodyLimit) Middleware(next http.Handler) http.Handler {
	limit := b.Max
	if limit <= 0 {
		limit = DefaultMaxBody
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil || r.Body == http.NoBody {
			next.ServeHTTP(w, r)
			return
		}
		if r.ContentLength > limit {
			common.JSONError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large", map[string]any{"max_bytes": limit})
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		next.ServeHTTP(w, r)
	})
}

// Headers sets browser hardening headers. HSTS is only sent over TLS.
type Headers struct {
	HSTS       bool
	HSTSMaxAge int
}

// Middleware attaches the headers before the handler runs.
func (h Headers) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := w.Header()
		headers.Set("X-Content-Type-Options", "nosniff")
		headers.Set("X-Frame-Options", "DENY")
		headers.Set("Referrer-Policy", "no-referrer")
		headers.Set("Cache-Control", "no-store")
		if h.HSTS && r.TLS != nil {
			maxAge := h.HSTSMaxAge
			if maxAge <= 0 {
				maxAge = 31536000
			}
			headers.Set("Strict-Transport-Security", "max-age="+strconv.Itoa(maxAge)+"; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}
