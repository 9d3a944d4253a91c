package api

import (
	"context"
	"net/http"
	"time"

	"github.com/runseob/paceboard/internal/domain/aggregate"
	"github.com/runseob/paceboard/internal/domain/model"
)

// HeatmapDependencies defines the interface for heatmap queries.
type HeatmapDependencies interface {
	Runs(ctx context.Context) (model.Dataset, error)
}

// HeatmapHandler handles heatmap requests.
type HeatmapHandler struct {
	deps HeatmapDependencies
	now  func() time.Time
}

// NewHeatmapHandler creates a new heatmap handler.
func NewHeatmapHandler(deps HeatmapDependencies, now func() time.Time) *HeatmapHandler {
	return &HeatmapHandler{deps: deps, now: now}
}

// HandleGetHeatmap handles GET /heatmap requests, returning the
// trailing-year distance grid.
func (h *HeatmapHandler) HandleGetHeatmap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	ds, err := h.deps.Runs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	writeJSON(w, http.StatusOK, aggregate.BuildHeatmap(ds, h.now()))
}
