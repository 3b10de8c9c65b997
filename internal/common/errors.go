package common

import (
	"errors"
	"net/http"
)

// AppError carries the API error code and HTTP status alongside the cause,
// e.g. INVALID_CREDENTIALS/401 for a failed employee login.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// WriteAppError renders err if it wraps an *AppError and reports whether it
// did. A missing status is treated as a client error. Handlers fall back to
// their own sentinel mapping when it returns false.
func WriteAppError(w http.ResponseWriter, err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr == nil {
		return false
	}
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusBadRequest
	}
	code := appErr.Code
	if code == "" {
		code = http.StatusText(status)
	}
	JSONError(w, status, code, appErr.Message, appErr.Details)
	return true
}
