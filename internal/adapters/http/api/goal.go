package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/runseob/paceboard/internal/domain/aggregate"
	"github.com/runseob/paceboard/internal/domain/model"
)

// GoalDependencies defines the interface for goal reads and writes.
type GoalDependencies interface {
	Runs(ctx context.Context) (model.Dataset, error)
	State(ctx context.Context) (model.SyncState, error)
	SetGoal(ctx context.Context, km int) error
}

// goalRequest mirrors the state file field for PUT /goal.
type goalRequest struct {
	MonthlyGoal int `json:"monthly_goal"`
}

// GoalHandler handles monthly goal requests.
type GoalHandler struct {
	deps GoalDependencies
	now  func() time.Time
}

// NewGoalHandler creates a new goal handler.
func NewGoalHandler(deps GoalDependencies, now func() time.Time) *GoalHandler {
	return &GoalHandler{deps: deps, now: now}
}

// HandleGoal handles GET and PUT /goal requests.
func (h *GoalHandler) HandleGoal(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPut:
		h.handlePut(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleGet reports progress toward the current month's goal.
func (h *GoalHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	state, err := h.deps.State(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	ds, err := h.deps.Runs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, aggregate.Progress(ds, state.MonthlyGoalKM, h.now()))
}

func (h *GoalHandler) handlePut(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: invalid body", ErrBadRequest))
		return
	}
	if req.MonthlyGoal < 0 {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: monthly_goal must not be negative", ErrBadRequest))
		return
	}
	if err := h.deps.SetGoal(r.Context(), req.MonthlyGoal); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, goalRequest{MonthlyGoal: req.MonthlyGoal})
}
