package washing

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-carwash/internal/common"
	"github.com/noah-isme/backend-carwash/internal/obs"
	"github.com/noah-isme/backend-carwash/internal/pricing"
)

// Handler exposes service records over HTTP.
type Handler struct {
	Svc *Service
}

// Create handles POST /services.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "washing service not configured", nil)
		return
	}
	var in CreateInput
	if err := common.DecodeAndValidate(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if in.EmployeeID == nil && common.IsStaff(r.Context()) {
		if id, ok := common.UserID(r.Context()); ok && id != "" {
			in.EmployeeID = &id
		}
	}
	rec, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	obs.Annotate(r.Context(), obs.LabelServiceType, rec.ServiceType)
	if rec.Discount != nil {
		obs.Annotate(r.Context(), obs.LabelDiscount, rec.Discount.Label())
	}
	common.Data(w, http.StatusCreated, rec)
}

// List handles GET /services.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "washing service not configured", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	filter := ListFilter{
		EmployeeName: strings.TrimSpace(r.URL.Query().Get("employee")),
		Page:         page,
		PerPage:      perPage,
	}
	records, total, err := h.Svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	common.Page(w, records, common.Pagination{Page: page, PerPage: perPage, TotalItems: total})
}

// Get handles GET /services/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "washing service not configured", nil)
		return
	}
	rec, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, rec)
}

type statusPayload struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed"`
}

// UpdateStatus handles PATCH /services/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "washing service not configured", nil)
		return
	}
	var payload statusPayload
	if err := common.DecodeAndValidate(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.Svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), payload.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, rec)
}

// Preview handles GET /customers/{id}/discount-preview.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "washing service not configured", nil)
		return
	}
	customerID := chi.URLParam(r, "id")
	outcome, err := h.Svc.Preview(r.Context(), customerID)
	if err != nil {
		writeError(w, err)
		return
	}
	obs.Annotate(r.Context(), obs.LabelDiscount, outcome.Label())
	common.Data(w, http.StatusOK, map[string]any{
		"customer_id": customerID,
		"discount":    outcome,
	})
}

func writeError(w http.ResponseWriter, err error) {
	if common.WriteAppError(w, err) {
		return
	}
	switch {
	case errors.Is(err, pricing.ErrInvalidServiceType):
		common.JSONError(w, http.StatusBadRequest, "INVALID_SERVICE_TYPE", err.Error(), map[string]any{"allowed": pricing.DefaultTable().Types()})
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidTransition):
		common.JSONError(w, http.StatusBadRequest, "INVALID_STATUS", err.Error(), nil)
	case errors.Is(err, ErrCustomerNotFound), errors.Is(err, ErrEmployeeNotFound), errors.Is(err, ErrServiceNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrConcurrentModification):
		common.JSONError(w, http.StatusConflict, "CONCURRENT_MODIFICATION", ErrConcurrentModification.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
	}
}
