package api

import (
	"context"
	"net/http"

	"github.com/runseob/paceboard/internal/domain/model"
)

// SyncDependencies defines the interface for triggering a sync.
type SyncDependencies interface {
	Refresh(ctx context.Context, force bool) (model.Dataset, bool, error)
}

type syncResponse struct {
	Status string `json:"status"`
	Synced bool   `json:"synced"`
	Rows   int    `json:"rows"`
}

// SyncHandler handles manual sync requests.
type SyncHandler struct {
	deps SyncDependencies
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(deps SyncDependencies) *SyncHandler {
	return &SyncHandler{deps: deps}
}

// HandlePostSync handles POST /sync requests, forcing a sync cycle
// regardless of the daily schedule.
func (h *SyncHandler) HandlePostSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	ds, synced, err := h.deps.Refresh(r.Context(), true)
	if err != nil {
		writeError(w, http.StatusBadGateway, "sync_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, syncResponse{Status: "ok", Synced: synced, Rows: len(ds)})
}
