// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/runseob/paceboard/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Runs returns the cached dataset filtered to the analytics
	// activity type.
	Runs(ctx context.Context) (model.Dataset, error)

	// Refresh runs a sync cycle. With force set the schedule gate is
	// skipped.
	Refresh(ctx context.Context, force bool) (model.Dataset, bool, error)

	// State returns the persisted sync state.
	State(ctx context.Context) (model.SyncState, error)

	// SetGoal updates the monthly distance goal.
	SetGoal(ctx context.Context, km int) error
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithClock overrides the clock used for streak and heatmap windows.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMaxTopRuns caps the top-K runs a records request may ask for.
func WithMaxTopRuns(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxTopRuns = n
		}
	}
}

// Server wires HTTP routes for the analytics API.
type Server struct {
	now        func() time.Time
	maxTopRuns int

	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	summaryHandler  *SummaryHandler
	streaksHandler  *StreaksHandler
	heatmapHandler  *HeatmapHandler
	recordsHandler  *RecordsHandler
	periodsHandler  *PeriodsHandler
	patternsHandler *PatternsHandler
	goalHandler     *GoalHandler
	syncHandler     *SyncHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		now:        time.Now,
		maxTopRuns: defaultMaxTopRuns,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.summaryHandler = NewSummaryHandler(deps)
	s.streaksHandler = NewStreaksHandler(deps, s.now)
	s.heatmapHandler = NewHeatmapHandler(deps, s.now)
	s.recordsHandler = NewRecordsHandler(deps, s.maxTopRuns)
	s.periodsHandler = NewPeriodsHandler(deps)
	s.patternsHandler = NewPatternsHandler(deps)
	s.goalHandler = NewGoalHandler(deps, s.now)
	s.syncHandler = NewSyncHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/summary", MetricsMiddleware(s.summaryHandler.HandleGetSummary, "summary"))
	mux.HandleFunc("/streaks", MetricsMiddleware(s.streaksHandler.HandleGetStreaks, "streaks"))
	mux.HandleFunc("/heatmap", MetricsMiddleware(s.heatmapHandler.HandleGetHeatmap, "heatmap"))
	mux.HandleFunc("/records", MetricsMiddleware(s.recordsHandler.HandleGetRecords, "records"))
	mux.HandleFunc("/periods", MetricsMiddleware(s.periodsHandler.HandleGetPeriods, "periods"))
	mux.HandleFunc("/patterns", MetricsMiddleware(s.patternsHandler.HandleGetPatterns, "patterns"))
	mux.HandleFunc("/goal", MetricsMiddleware(s.goalHandler.HandleGoal, "goal"))
	mux.HandleFunc("/sync", MetricsMiddleware(s.syncHandler.HandlePostSync, "sync"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
