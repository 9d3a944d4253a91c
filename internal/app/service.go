// Package app wires the sync pipeline: scheduling, token exchange,
// paginated fetch, processing, and snapshot persistence, plus the
// read path the HTTP API consumes.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/runseob/paceboard/internal/adapters/snapshot"
	"github.com/runseob/paceboard/internal/domain/model"
	"github.com/runseob/paceboard/internal/domain/process"
	"github.com/runseob/paceboard/internal/domain/schedule"
	"github.com/runseob/paceboard/pkg/logger"
	"github.com/runseob/paceboard/pkg/metrics"
)

// defaultFetchTTL is the memoization window for a full fetch result.
const defaultFetchTTL = 30 * time.Minute

// TokenSource exchanges credentials for a bearer token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Fetcher retrieves the complete raw activity history.
type Fetcher interface {
	FetchAll(ctx context.Context, token string) ([]model.RawActivity, error)
}

// Store persists the dataset snapshot and the sync state.
type Store interface {
	Save(ctx context.Context, ds model.Dataset) error
	Load(ctx context.Context) (model.Dataset, error)
	LoadState(ctx context.Context) (model.SyncState, error)
	SaveState(ctx context.Context, st model.SyncState) error
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithTokenSource sets the token provider.
func WithTokenSource(ts TokenSource) Option {
	return func(s *Service) {
		if ts != nil {
			s.tokens = ts
		}
	}
}

// WithFetcher sets the activity fetcher.
func WithFetcher(f Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithStore sets the snapshot store.
func WithStore(st Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithProcessor sets the record processor.
func WithProcessor(p *process.Processor) Option {
	return func(s *Service) {
		if p != nil {
			s.processor = p
		}
	}
}

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithFetchTTL sets the memoization window for loaded datasets.
func WithFetchTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.fetchTTL = ttl
		}
	}
}

// WithActivityType sets the activity type served to analytics readers.
func WithActivityType(t string) Option {
	return func(s *Service) {
		s.activityType = t
	}
}

// Service orchestrates sync cycles and serves the cached dataset.
// A sync either replaces the whole snapshot or leaves it untouched;
// partial results are never persisted.
type Service struct {
	log          logger.Logger
	tokens       TokenSource
	fetcher      Fetcher
	store        Store
	processor    *process.Processor
	now          func() time.Time
	fetchTTL     time.Duration
	activityType string

	// syncMu serializes sync cycles; concurrent forced refreshes run
	// one at a time so snapshot and state writes stay paired.
	syncMu sync.Mutex

	mu      sync.Mutex
	memo    model.Dataset
	memoAt  time.Time
	hasMemo bool
}

// New constructs a Service. Token source, fetcher and store must be
// supplied via options before Refresh is called.
func New(opts ...Option) *Service {
	s := &Service{
		processor:    process.New(),
		now:          time.Now,
		fetchTTL:     defaultFetchTTL,
		activityType: "Run",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	return s
}

// Refresh runs a sync cycle when one is due (or force is set) and
// returns the resulting dataset. When no refresh is due it serves the
// cached snapshot; that is a scheduling noop, not an error. synced
// reports whether a sync actually replaced the snapshot.
func (s *Service) Refresh(ctx context.Context, force bool) (ds model.Dataset, synced bool, err error) {
	now := s.now()

	state, err := s.store.LoadState(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("load state: %w", err)
	}

	if !force && !schedule.ShouldUpdate(state, now) {
		cached, err := s.Dataset(ctx)
		if err == nil {
			return cached, false, nil
		}
		if !errors.Is(err, snapshot.ErrNoSnapshot) {
			return nil, false, err
		}
		// State says synced but the snapshot is gone; fall through and
		// rebuild it.
	}

	ds, err = s.sync(ctx, state, now)
	if err != nil {
		return nil, false, err
	}
	return ds, true, nil
}

// sync performs one full token+fetch+process+save cycle. Any failure
// leaves the persisted snapshot and state untouched.
func (s *Service) sync(ctx context.Context, state model.SyncState, now time.Time) (model.Dataset, error) {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	runID := uuid.New().String()
	log := s.log.Named("sync")
	started := time.Now()
	metrics.RecordSyncAttempt()

	log.Info(ctx, "sync started", logger.String("run_id", runID))

	token, err := s.tokens.Token(ctx)
	if err != nil {
		metrics.RecordSyncFailure("token")
		log.Error(ctx, "token exchange failed", logger.String("run_id", runID), logger.Error(err))
		return nil, err
	}

	raw, err := s.fetcher.FetchAll(ctx, token)
	if err != nil {
		metrics.RecordSyncFailure("fetch")
		log.Error(ctx, "activity fetch failed", logger.String("run_id", runID), logger.Error(err))
		return nil, err
	}

	ds, duplicates := s.processor.Process(ctx, raw)
	metrics.RecordActivitiesProcessed(len(ds))
	for i := 0; i < duplicates; i++ {
		metrics.RecordDuplicateDropped()
	}

	if err := s.store.Save(ctx, ds); err != nil {
		metrics.RecordSyncFailure("save")
		log.Error(ctx, "snapshot save failed", logger.String("run_id", runID), logger.Error(err))
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	state.LastUpdate = &now
	if err := s.store.SaveState(ctx, state); err != nil {
		metrics.RecordSyncFailure("state")
		log.Error(ctx, "state save failed", logger.String("run_id", runID), logger.Error(err))
		return nil, fmt.Errorf("save state: %w", err)
	}

	s.mu.Lock()
	s.memo = ds
	s.memoAt = s.now()
	s.hasMemo = true
	s.mu.Unlock()

	metrics.RecordSyncSuccess()
	metrics.RecordSyncDuration(time.Since(started).Seconds())
	log.Info(ctx, "sync finished",
		logger.String("run_id", runID),
		logger.Int("fetched", len(raw)),
		logger.Int("processed", len(ds)),
		logger.Int("duplicates", duplicates),
		logger.Duration("took", time.Since(started)))
	return ds, nil
}

// Dataset returns the cached dataset, serving a memoized copy while it
// is fresh and loading (with backfill) otherwise.
func (s *Service) Dataset(ctx context.Context) (model.Dataset, error) {
	s.mu.Lock()
	if s.hasMemo && s.now().Sub(s.memoAt) < s.fetchTTL {
		ds := s.memo
		s.mu.Unlock()
		return ds, nil
	}
	s.mu.Unlock()

	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.memo = ds
	s.memoAt = s.now()
	s.hasMemo = true
	s.mu.Unlock()
	return ds, nil
}

// Runs returns the cached dataset filtered to the analytics activity
// type.
func (s *Service) Runs(ctx context.Context) (model.Dataset, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.FilterType(s.activityType), nil
}

// InvalidateCache drops the memoized dataset so the next read reloads.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	s.hasMemo = false
	s.memo = nil
	s.mu.Unlock()
}

// State returns the persisted sync state.
func (s *Service) State(ctx context.Context) (model.SyncState, error) {
	return s.store.LoadState(ctx)
}

// SetGoal updates the monthly goal, preserving last_update.
func (s *Service) SetGoal(ctx context.Context, km int) error {
	if km < 0 {
		return fmt.Errorf("monthly goal must not be negative: %d", km)
	}
	state, err := s.store.LoadState(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	state.MonthlyGoalKM = km
	return s.store.SaveState(ctx, state)
}

// GetStats returns service counters for the metrics updater.
func (s *Service) GetStats() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := map[string]any{
		"cachedRows":   len(s.memo),
		"cacheFresh":   s.hasMemo && s.now().Sub(s.memoAt) < s.fetchTTL,
		"activityType": s.activityType,
	}
	if s.hasMemo {
		stats["cachedAt"] = s.memoAt
	}
	return stats
}
