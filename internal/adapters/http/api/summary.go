package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/runseob/paceboard/internal/domain/aggregate"
	"github.com/runseob/paceboard/internal/domain/model"
)

// SummaryDependencies defines the interface for summary queries.
type SummaryDependencies interface {
	Runs(ctx context.Context) (model.Dataset, error)
}

// SummaryHandler handles summary requests.
type SummaryHandler struct {
	deps SummaryDependencies
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(deps SummaryDependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// HandleGetSummary handles GET /summary requests. Optional year and
// month query parameters narrow the window; month requires year.
func (h *SummaryHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	ds, err := h.deps.Runs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	ds, err = filterWindow(ds, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	writeJSON(w, http.StatusOK, aggregate.Summarize(ds))
}

// filterWindow applies optional year and month query filters.
func filterWindow(ds model.Dataset, r *http.Request) (model.Dataset, error) {
	q := r.URL.Query()
	yearStr := q.Get("year")
	monthStr := q.Get("month")

	if yearStr == "" {
		if monthStr != "" {
			return nil, fmt.Errorf("%w: month requires year", ErrBadRequest)
		}
		return ds, nil
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid year %q", ErrBadRequest, yearStr)
	}
	if monthStr == "" {
		return ds.FilterYear(year), nil
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: invalid month %q", ErrBadRequest, monthStr)
	}
	return ds.FilterMonth(year, month), nil
}
