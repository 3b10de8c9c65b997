package employee

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-carwash/internal/auth"
	"github.com/noah-isme/backend-carwash/internal/common"
)

// Handler exposes employee signup, login and admin management.
type Handler struct {
	Svc      *Service
	Sessions *auth.Handler
}

type loginRequest struct {
	EmployeeName string `json:"employee_name" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

// Register handles POST /employees/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, false)
}

// Create handles POST /employees for admins.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, true)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, byAdmin bool) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "employee service not configured", nil)
		return
	}
	var in RegisterInput
	if err := common.DecodeAndValidate(r, &in); err != nil {
		writeError(w, err)
		return
	}
	emp, err := h.Svc.Register(r.Context(), in, byAdmin)
	if err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, emp)
}

// Login handles POST /employees/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil || h.Sessions == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "employee service not configured", nil)
		return
	}
	var req loginRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	emp, err := h.Svc.Authenticate(r.Context(), req.EmployeeName, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	h.Sessions.StartSession(w, emp.ID, emp.Role(), emp)
}

// List handles GET /employees.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "employee service not configured", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	items, total, err := h.Svc.List(r.Context(), page, perPage)
	if err != nil {
		writeError(w, err)
		return
	}
	common.Page(w, items, common.Pagination{Page: page, PerPage: perPage, TotalItems: total})
}

// Update handles PUT /employees/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "employee service not configured", nil)
		return
	}
	var in UpdateInput
	if err := common.DecodeAndValidate(r, &in); err != nil {
		writeError(w, err)
		return
	}
	emp, err := h.Svc.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, emp)
}

// Delete handles DELETE /employees/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "employee service not configured", nil)
		return
	}
	if err := h.Svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	if common.WriteAppError(w, err) {
		return
	}
	switch {
	case errors.Is(err, ErrInvalidName):
		common.JSONError(w, http.StatusBadRequest, "INVALID_NAME", err.Error(), nil)
	case errors.Is(err, ErrInvalidSalary), errors.Is(err, ErrInvalidDate):
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), nil)
	case errors.Is(err, ErrNameTaken):
		common.JSONError(w, http.StatusConflict, "NAME_TAKEN", err.Error(), nil)
	case errors.Is(err, ErrInvalidCredentials):
		common.JSONError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
	}
}
