package api

import (
	"context"
	"net/http"

	"github.com/runseob/paceboard/internal/domain/aggregate"
	"github.com/runseob/paceboard/internal/domain/model"
)

// PatternsDependencies defines the interface for habit pattern queries.
type PatternsDependencies interface {
	Runs(ctx context.Context) (model.Dataset, error)
}

// patternsResponse bundles the weekday, hour and zone breakdowns used by
// habit views.
type patternsResponse struct {
	WeekdayNames    [7]string      `json:"weekday_names"`
	WeekdayTotals   [7]float64     `json:"weekday_totals"`
	TimeOfDayCounts map[string]int `json:"time_of_day_counts"`
	PaceZoneCounts  map[string]int `json:"pace_zone_counts"`
	HourlyGrid      [7][24]int     `json:"hourly_grid"`
}

// PatternsHandler handles habit pattern requests.
type PatternsHandler struct {
	deps PatternsDependencies
}

// NewPatternsHandler creates a new patterns handler.
func NewPatternsHandler(deps PatternsDependencies) *PatternsHandler {
	return &PatternsHandler{deps: deps}
}

// HandleGetPatterns handles GET /patterns requests.
func (h *PatternsHandler) HandleGetPatterns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	ds, err := h.deps.Runs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	writeJSON(w, http.StatusOK, patternsResponse{
		WeekdayNames:    aggregate.WeekdayNames(),
		WeekdayTotals:   aggregate.WeekdayTotals(ds),
		TimeOfDayCounts: aggregate.TimeOfDayCounts(ds),
		PaceZoneCounts:  aggregate.PaceZoneCounts(ds),
		HourlyGrid:      aggregate.HourlyGrid(ds),
	})
}
