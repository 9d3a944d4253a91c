// Command sync runs one forced sync cycle and exits. It is meant for
// cron or CI use; exit code 1 signals any failure.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/runseob/paceboard/internal/adapters/snapshot"
	"github.com/runseob/paceboard/internal/adapters/strava"
	"github.com/runseob/paceboard/internal/app"
	"github.com/runseob/paceboard/internal/config"
	"github.com/runseob/paceboard/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	if !cfg.HasCredentials() {
		log.Error(ctx, "refusing to run without credentials", logger.Error(config.ErrMissingCredentials))
		return 1
	}

	httpClient := &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutSec) * time.Second}

	svc := app.New(
		app.WithLogger(log),
		app.WithTokenSource(strava.NewTokenProvider(
			strava.Credentials{
				ClientID:     cfg.ClientID,
				ClientSecret: cfg.ClientSecret,
				RefreshToken: cfg.RefreshToken,
			},
			strava.WithTokenURL(cfg.TokenURL),
			strava.WithTokenTTL(time.Duration(cfg.TokenTTLMin)*time.Minute),
			strava.WithTokenHTTPClient(httpClient),
		)),
		app.WithFetcher(strava.NewClient(
			strava.WithActivitiesURL(cfg.ActivitiesURL),
			strava.WithPerPage(cfg.PerPage),
			strava.WithMaxPages(cfg.MaxPages),
			strava.WithHTTPClient(httpClient),
		)),
		app.WithStore(snapshot.New(
			snapshot.WithSnapshotPath(cfg.SnapshotPath),
			snapshot.WithStatePath(cfg.StatePath),
			snapshot.WithGoalDefault(cfg.MonthlyGoalKM),
			snapshot.WithLogger(log),
		)),
		app.WithActivityType(cfg.ActivityType),
	)

	ds, _, err := svc.Refresh(ctx, true)
	if err != nil {
		log.Error(ctx, "sync failed", logger.Error(err))
		return 1
	}

	log.Info(ctx, "sync complete", logger.Int("rows", len(ds)))
	return 0
}
