package reviews

import (
	"errors"
	"net/http"

	"github.com/noah-isme/backend-carwash/internal/common"
)

type Handler struct {
	Svc *Service
}

type createRequest struct {
	Ratings int    `json:"ratings" validate:"required,min=1,max=5"`
	Review  string `json:"review" validate:"required"`
}

// Create handles POST /reviews for an authenticated customer.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	customerID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var req createRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	review, err := h.Svc.Create(r.Context(), customerID, req.Ratings, req.Review)
	if err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, review)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 10)
	items, err := h.Svc.List(r.Context(), page, perPage)
	if err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, items)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, stats)
}

func writeError(w http.ResponseWriter, err error) {
	if common.WriteAppError(w, err) {
		return
	}
	switch {
	case errors.Is(err, ErrInvalidRating), errors.Is(err, ErrBlankReview):
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), nil)
	case errors.Is(err, ErrCustomerNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
	}
}
