package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/runseob/paceboard/internal/domain/aggregate"
	"github.com/runseob/paceboard/internal/domain/model"
)

// PeriodsDependencies defines the interface for period total queries.
type PeriodsDependencies interface {
	Runs(ctx context.Context) (model.Dataset, error)
}

// PeriodsHandler handles period total requests.
type PeriodsHandler struct {
	deps PeriodsDependencies
}

// NewPeriodsHandler creates a new periods handler.
func NewPeriodsHandler(deps PeriodsDependencies) *PeriodsHandler {
	return &PeriodsHandler{deps: deps}
}

// HandleGetPeriods handles GET /periods?by=month|week requests.
func (h *PeriodsHandler) HandleGetPeriods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	by := r.URL.Query().Get("by")
	if by == "" {
		by = "month"
	}
	if by != "month" && by != "week" {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: by must be month or week, got %q", ErrBadRequest, by))
		return
	}

	ds, err := h.deps.Runs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	var totals []aggregate.PeriodTotal
	if by == "week" {
		totals = aggregate.WeeklyTotals(ds)
	} else {
		totals = aggregate.MonthlyTotals(ds)
	}
	writeJSON(w, http.StatusOK, totals)
}
