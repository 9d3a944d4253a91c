package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/runseob/paceboard/internal/domain/aggregate"
	"github.com/runseob/paceboard/internal/domain/model"
)

const (
	defaultTopRuns    = 5
	defaultMaxTopRuns = 50
)

// RecordsDependencies defines the interface for personal record queries.
type RecordsDependencies interface {
	Runs(ctx context.Context) (model.Dataset, error)
}

// RecordsHandler handles personal record requests.
type RecordsHandler struct {
	deps       RecordsDependencies
	maxTopRuns int
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(deps RecordsDependencies, maxTopRuns int) *RecordsHandler {
	return &RecordsHandler{deps: deps, maxTopRuns: maxTopRuns}
}

// HandleGetRecords handles GET /records?top=N requests.
func (h *RecordsHandler) HandleGetRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	top := defaultTopRuns
	if topStr := r.URL.Query().Get("top"); topStr != "" {
		n, err := strconv.Atoi(topStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request",
				fmt.Errorf("%w: invalid top %q", ErrBadRequest, topStr))
			return
		}
		if n > h.maxTopRuns {
			writeError(w, http.StatusBadRequest, "limit_exceeded",
				fmt.Errorf("%w: top must be at most %d", ErrBadRequest, h.maxTopRuns))
			return
		}
		top = n
	}

	ds, err := h.deps.Runs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	writeJSON(w, http.StatusOK, aggregate.PersonalRecords(ds, top))
}
