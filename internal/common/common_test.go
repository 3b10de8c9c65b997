package common

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query   string
		page    int
		perPage int
	}{
		{"", 1, 20},
		{"page=3&per_page=5", 3, 5},
		{"page=2&limit=7", 2, 7},
		{"page=-1&per_page=0", 1, 20},
		{"page=abc&per_page=1000", 1, MaxPerPage},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/customers?"+tc.query, nil)
		page, perPage := ParsePagination(req, 20)
		require.Equal(t, tc.page, page, tc.query)
		require.Equal(t, tc.perPage, perPage, tc.query)
	}
}

func TestIdemRejectsReplay(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	calls := 0
	status := http.StatusCreated
	handler := Idem{R: rdb, TTL: time.Minute}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(status)
	}))
	send := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/services", nil)
		req.Header.Set("Idempotency-Key", "order-42")
		req = req.WithContext(WithUserID(req.Context(), user))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusCreated, send("admin-1"))
	require.Equal(t, http.StatusConflict, send("admin-1"))
	require.Equal(t, http.StatusCreated, send("admin-2"))
	require.Equal(t, 2, calls)
}

func TestIdemReleasesKeyOnFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	status := http.StatusConflict
	handler := Idem{R: rdb, TTL: time.Minute}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/services", nil)
		req.Header.Set("Idempotency-Key", "retry-me")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusConflict, send())
	status = http.StatusCreated
	require.Equal(t, http.StatusCreated, send())
	require.Equal(t, http.StatusConflict, send())
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	require.Equal(t, "10.0.0.1", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	require.Equal(t, "203.0.113.9", ClientIP(req))
}

func TestClientIPIgnoresForgedHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/login", nil)
	req.RemoteAddr = "[::ffff:198.51.100.4]:40000"
	req.Header.Set("X-Forwarded-For", "login-attempt-1337")
	req.Header.Set("X-Real-IP", "also not an ip")
	require.Equal(t, "198.51.100.4", ClientIP(req))

	req.Header.Set("X-Real-IP", " 2001:db8::1 ")
	require.Equal(t, "2001:db8::1", ClientIP(req))
}

func TestEnvelopes(t *testing.T) {
	rec := httptest.NewRecorder()
	Data(rec, http.StatusCreated, map[string]int64{"final_price": 6650})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"data":{"final_price":6650}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	var none []string
	Page(rec, none, Pagination{Page: 2, PerPage: 20, TotalItems: 21})
	require.JSONEq(t, `{"data":[],"pagination":{"page":2,"per_page":20,"total_items":21}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	JSONError(rec, http.StatusConflict, "CONCURRENT_MODIFICATION", "customer was modified concurrently", nil)
	require.JSONEq(t, `{"error":{"code":"CONCURRENT_MODIFICATION","message":"customer was modified concurrently"}}`, rec.Body.String())
}

func TestWriteAppError(t *testing.T) {
	login := NewAppError("INVALID_CREDENTIALS", "email or password is incorrect", http.StatusUnauthorized, errors.New("argon2id mismatch"))

	rec := httptest.NewRecorder()
	require.True(t, WriteAppError(rec, fmt.Errorf("employee login: %w", login)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":{"code":"INVALID_CREDENTIALS","message":"email or password is incorrect"}}`, rec.Body.String())
	require.ErrorContains(t, login, "argon2id mismatch")

	rec = httptest.NewRecorder()
	require.True(t, WriteAppError(rec, &AppError{Message: "rating must be between 1 and 5"}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"error":{"code":"Bad Request","message":"rating must be between 1 and 5"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	require.False(t, WriteAppError(rec, errors.New("customer not found")))
	require.Zero(t, rec.Body.Len())
}
