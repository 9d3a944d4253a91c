package api

import (
	"context"
	"net/http"
	"time"

	"github.com/runseob/paceboard/internal/domain/aggregate"
	"github.com/runseob/paceboard/internal/domain/model"
)

// StreaksDependencies defines the interface for streak queries.
type StreaksDependencies interface {
	Runs(ctx context.Context) (model.Dataset, error)
}

// StreaksHandler handles streak requests.
type StreaksHandler struct {
	deps StreaksDependencies
	now  func() time.Time
}

// NewStreaksHandler creates a new streaks handler.
func NewStreaksHandler(deps StreaksDependencies, now func() time.Time) *StreaksHandler {
	return &StreaksHandler{deps: deps, now: now}
}

// HandleGetStreaks handles GET /streaks requests.
func (h *StreaksHandler) HandleGetStreaks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	ds, err := h.deps.Runs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	writeJSON(w, http.StatusOK, aggregate.ComputeStreaks(ds.ActiveDates(), h.now()))
}
