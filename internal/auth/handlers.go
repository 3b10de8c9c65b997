package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/noah-isme/backend-carwash/internal/common"
)

// Handler issues sessions for the account packages and exposes refresh/logout.
type Handler struct {
	Service           *Service
	AccessCookieName  string
	RefreshCookieName string
	CookieDomain      string
	CookieSecure      bool
	CookieSameSite    http.SameSite
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// StartSession issues tokens for subject and writes the login response with principal as "user".
func (h *Handler) StartSession(w http.ResponseWriter, subject, role string, principal any) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "auth service not configured", nil)
		return
	}
	pair, err := h.Service.Issue(subject, role)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.setAuthCookies(w, pair)
	common.Data(w, http.StatusOK, map[string]any{
		"user":                     principal,
		"role":                     role,
		"access_token":             pair.AccessToken,
		"access_token_expires_at":  pair.AccessExpiry,
		"refresh_token":            pair.RefreshToken,
		"refresh_token_expires_at": pair.RefreshExpiry,
	})
}

// Refresh handles POST /api/v1/auth/refresh.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "auth service not configured", nil)
		return
	}
	token := h.refreshTokenFromRequest(r)
	pair, err := h.Service.Refresh(r.Context(), token)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.setAuthCookies(w, pair)
	common.Data(w, http.StatusOK, pair)
}

// Logout handles the employee and customer logout routes.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "auth service not configured", nil)
		return
	}
	access := bearerToken(r, h.AccessCookieName)
	refresh := h.refreshTokenFromRequest(r)
	if err := h.Service.Logout(r.Context(), access, refresh); err != nil {
		h.writeError(w, err)
		return
	}
	h.clearAuthCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if !common.WriteAppError(w, err) {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}

func (h *Handler) setAuthCookies(w http.ResponseWriter, pair TokenPair) {
	if h.AccessCookieName != "" {
		http.SetCookie(w, h.cookie(h.AccessCookieName, pair.AccessToken, pair.AccessExpiry))
	}
	if h.RefreshCookieName != "" {
		http.SetCookie(w, h.cookie(h.RefreshCookieName, pair.RefreshToken, pair.RefreshExpiry))
	}
}

func (h *Handler) clearAuthCookies(w http.ResponseWriter) {
	if h.AccessCookieName != "" {
		http.SetCookie(w, h.cookie(h.AccessCookieName, "", time.Time{}))
	}
	if h.RefreshCookieName != "" {
		http.SetCookie(w, h.cookie(h.RefreshCookieName, "", time.Time{}))
	}
}

// cookie builds an HttpOnly cookie. A zero expiry deletes it.
func (h *Handler) cookie(name, value string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Domain:   h.CookieDomain,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: h.CookieSameSite,
	}
	if expires.IsZero() {
		c.MaxAge = -1
	} else {
		c.Expires = expires
	}
	return c
}

func (h *Handler) refreshTokenFromRequest(r *http.Request) string {
	if h.RefreshCookieName != "" {
		if cookie, err := r.Cookie(h.RefreshCookieName); err == nil && strings.TrimSpace(cookie.Value) != "" {
			return strings.TrimSpace(cookie.Value)
		}
	}
	if r.Body == nil {
		return ""
	}
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	return strings.TrimSpace(req.RefreshToken)
}
