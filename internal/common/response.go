package common

import (
	"encoding/json"
	"net/http"
)

// Envelope wraps every successful body: {"data": ...} plus a pagination
// block on list endpoints.
type Envelope struct {
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ErrorBody is the "error" member of a failed response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON writes v as-is. Most handlers want Data or Page.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Data writes a single record or summary as {"data": v}.
func Data(w http.ResponseWriter, status int, v any) {
	JSON(w, status, Envelope{Data: v})
}

// Page writes one page of a listing. A nil slice is rendered as [] so clients
// can always range over data.
func Page[T any](w http.ResponseWriter, items []T, p Pagination) {
	if items == nil {
		items = []T{}
	}
	JSON(w, http.StatusOK, Envelope{Data: items, Pagination: &p})
}

// JSONError renders {"error": {"code", "message", "details"}}.
func JSONError(w http.ResponseWriter, status int, code, message string, details any) {
	JSON(w, status, map[string]ErrorBody{
		"error": {Code: code, Message: message, Details: details},
	})
}
