package customer

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-carwash/internal/auth"
	"github.com/noah-isme/backend-carwash/internal/common"
)

// Handler exposes customer signup, login and admin management.
type Handler struct {
	Svc      *Service
	Sessions *auth.Handler
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /customers/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, "")
}

// Create handles POST /customers; the calling admin becomes the owner.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	owner, _ := common.UserID(r.Context())
	h.create(w, r, owner)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, owner string) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "customer service not configured", nil)
		return
	}
	var in RegisterInput
	if err := common.DecodeAndValidate(r, &in); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.Svc.Register(r.Context(), in, owner)
	if err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, c)
}

// Login handles POST /customers/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil || h.Sessions == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "customer service not configured", nil)
		return
	}
	var req loginRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.Svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	h.Sessions.StartSession(w, c.ID, common.RoleCustomer, c)
}

// List handles GET /customers for the calling admin.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "customer service not configured", nil)
		return
	}
	owner, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	items, total, err := h.Svc.ListForEmployee(r.Context(), owner, page, perPage)
	if err != nil {
		writeError(w, err)
		return
	}
	common.Page(w, items, common.Pagination{Page: page, PerPage: perPage, TotalItems: total})
}

// Update handles PUT /customers/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "customer service not configured", nil)
		return
	}
	var in UpdateInput
	if err := common.DecodeAndValidate(r, &in); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.Svc.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, c)
}

// Delete handles DELETE /customers/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "customer service not configured", nil)
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
	case errors.Is(err, ErrEmailTaken):
		common.JSONError(w, http.StatusConflict, "EMAIL_TAKEN", err.Error(), nil)
	case errors.Is(err, ErrInvalidCredentials):
		common.JSONError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error(), nil)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrEmployeeNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
	}
}
