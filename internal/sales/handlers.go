package sales

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/noah-isme/backend-carwash/internal/common"
	"github.com/noah-isme/backend-carwash/internal/obs"
)

// Handler exposes the sales aggregator.
type Handler struct {
	Svc *Service
}

// Count serves GET and POST /sales/count. The period comes from the query
// string or, for POST, from a JSON body {"period": "..."}.
func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "SALES_NOT_CONFIGURED", "sales service not configured", nil)
		return
	}
	period := r.URL.Query().Get("period")
	if r.Method == http.MethodPost && r.ContentLength != 0 {
		var body struct {
			Period string `json:"period"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
			return
		}
		if body.Period != "" {
			period = body.Period
		}
	}
	summary, err := h.Svc.Aggregate(r.Context(), period)
	if err != nil {
		if errors.Is(err, ErrInvalidPeriod) {
			common.JSONError(w, http.StatusBadRequest, "INVALID_PERIOD", "period must be one of today, yesterday, weekly, this_month", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "SALES_ERROR", "could not aggregate sales", nil)
		return
	}
	obs.Annotate(r.Context(), obs.LabelPeriod, string(summary.Period))
	common.Data(w, http.StatusOK, summary)
}
