// Command server runs the activity sync service with its analytics API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/runseob/paceboard/internal/adapters/http/api"
	"github.com/runseob/paceboard/internal/adapters/snapshot"
	"github.com/runseob/paceboard/internal/adapters/strava"
	"github.com/runseob/paceboard/internal/app"
	"github.com/runseob/paceboard/internal/config"
	"github.com/runseob/paceboard/pkg/logger"
	"github.com/runseob/paceboard/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// Disable default Go metrics collection; the custom system metrics
	// updater covers what the dashboards need.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, log)

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Serve the snapshot immediately when credentials are missing; the
	// API still works read-only against an existing snapshot.
	if !cfg.HasCredentials() {
		log.Warn(ctx, "no API credentials configured; serving cached snapshot only")
	} else if _, synced, err := svc.Refresh(ctx, false); err != nil {
		log.Warn(ctx, "initial refresh failed; serving cached snapshot", logger.Error(err))
	} else if synced {
		log.Info(ctx, "initial sync complete")
	}

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// newService wires the sync pipeline from configuration.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	httpClient := &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutSec) * time.Second}

	tokens := strava.NewTokenProvider(
		strava.Credentials{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RefreshToken: cfg.RefreshToken,
		},
		strava.WithTokenURL(cfg.TokenURL),
		strava.WithTokenTTL(time.Duration(cfg.TokenTTLMin)*time.Minute),
		strava.WithTokenHTTPClient(httpClient),
	)

	client := strava.NewClient(
		strava.WithActivitiesURL(cfg.ActivitiesURL),
		strava.WithPerPage(cfg.PerPage),
		strava.WithMaxPages(cfg.MaxPages),
		strava.WithHTTPClient(httpClient),
	)

	store := snapshot.New(
		snapshot.WithSnapshotPath(cfg.SnapshotPath),
		snapshot.WithStatePath(cfg.StatePath),
		snapshot.WithGoalDefault(cfg.MonthlyGoalKM),
		snapshot.WithLogger(log),
	)

	return app.New(
		app.WithLogger(log),
		app.WithTokenSource(tokens),
		app.WithFetcher(client),
		app.WithStore(store),
		app.WithActivityType(cfg.ActivityType),
		app.WithFetchTTL(time.Duration(cfg.FetchTTLMin)*time.Minute),
	)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
