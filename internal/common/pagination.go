package common

import (
	"net/http"
	"strconv"
)

// MaxPerPage bounds the page size a client may request.
const MaxPerPage = 100

// Pagination holds pagination metadata for list responses.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
}

// ParsePagination extracts page and per-page parameters from query values.
// "limit" is accepted as an alias of "per_page".
func ParsePagination(r *http.Request, defaultPerPage int) (page, perPage int) {
	q := r.URL.Query()
	page = queryInt(q.Get("page"), 1)
	if page < 1 {
		page = 1
	}
	raw := q.Get("per_page")
	if raw == "" {
		raw = q.Get("limit")
	}
	perPage = queryInt(raw, defaultPerPage)
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

func queryInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
