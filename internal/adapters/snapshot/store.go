// Package snapshot persists the processed dataset as a CSV snapshot and
// the sync state as a small JSON file. Writes are temp-then-rename so a
// reader never observes a partial file; loads backfill derived columns
// missing from snapshots written by older schema versions.
package snapshot

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/runseob/paceboard/internal/domain/model"
	"github.com/runseob/paceboard/pkg/logger"
	"github.com/runseob/paceboard/pkg/metrics"
)

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithSnapshotPath sets the CSV snapshot location.
func WithSnapshotPath(path string) Option {
	return func(s *Store) {
		if path != "" {
			s.snapshotPath = path
		}
	}
}

// WithStatePath sets the sync-state JSON location.
func WithStatePath(path string) Option {
	return func(s *Store) {
		if path != "" {
			s.statePath = path
		}
	}
}

// WithGoalDefault seeds MonthlyGoalKM when no state file exists yet.
func WithGoalDefault(km int) Option {
	return func(s *Store) {
		if km >= 0 {
			s.goalDefault = km
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Store reads and writes the persisted snapshot and sync state. It
// assumes a single writer; concurrent writers must be serialized by the
// caller.
type Store struct {
	snapshotPath string
	statePath    string
	goalDefault  int
	log          logger.Logger

	lastBackfill []string
}

// New constructs a Store.
func New(opts ...Option) *Store {
	s := &Store{
		snapshotPath: "running_data.csv",
		statePath:    "app_config.json",
		goalDefault:  100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save replaces the snapshot with the full dataset. The write goes to a
// temp file in the same directory and is renamed into place, so readers
// see either the old snapshot or the new one, never a mix.
func (s *Store) Save(ctx context.Context, ds model.Dataset) error {
	start := time.Now()

	rows := make([][]string, 0, len(ds)+1)
	rows = append(rows, columnNames())
	for _, a := range ds {
		rows = append(rows, encodeRow(a))
	}

	if err := s.writeAtomic(s.snapshotPath, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.WriteAll(rows); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		w.Flush()
		return w.Error()
	}); err != nil {
		return err
	}

	metrics.UpdateSnapshotRows(len(ds))
	metrics.RecordSnapshotSave(time.Since(start).Seconds(), time.Now().Unix())
	if s.log != nil {
		s.log.Info(ctx, "snapshot saved",
			logger.String("path", s.snapshotPath),
			logger.Int("rows", len(ds)))
	}
	return nil
}

// Load reads the snapshot, backfilling any derived column the stored
// schema lacks. A zero-row snapshot is valid and yields an empty
// dataset. Returns ErrNoSnapshot when the file does not exist.
func (s *Store) Load(ctx context.Context) (model.Dataset, error) {
	start := time.Now()
	s.lastBackfill = nil

	f, err := os.Open(s.snapshotPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, s.snapshotPath)
		}
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	if len(records) == 0 {
		return model.Dataset{}, nil
	}

	sch, err := newSchema(records[0])
	if err != nil {
		return nil, err
	}

	ds := make(model.Dataset, 0, len(records)-1)
	for _, row := range records[1:] {
		a, err := sch.decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
		}
		ds = append(ds, a)
	}

	s.lastBackfill = sch.missingDerived()
	for range s.lastBackfill {
		metrics.RecordBackfilledColumn()
	}
	if len(s.lastBackfill) > 0 && s.log != nil {
		s.log.Warn(ctx, "backfilled derived columns missing from snapshot",
			logger.Any("columns", s.lastBackfill),
			logger.String("path", s.snapshotPath))
	}

	metrics.RecordSnapshotLoad(time.Since(start).Seconds())
	metrics.UpdateSnapshotRows(len(ds))
	return ds, nil
}

// BackfilledColumns reports the derived columns the last Load had to
// recompute. Empty for a current-schema snapshot.
func (s *Store) BackfilledColumns() []string {
	return s.lastBackfill
}

// LoadState reads the sync state, or returns defaults when the file
// does not exist yet.
func (s *Store) LoadState(_ context.Context) (model.SyncState, error) {
	data, err := os.ReadFile(s.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return model.SyncState{MonthlyGoalKM: s.goalDefault}, nil
		}
		return model.SyncState{}, fmt.Errorf("read state: %w", err)
	}
	var st model.SyncState
	if err := json.Unmarshal(data, &st); err != nil {
		return model.SyncState{}, fmt.Errorf("decode state: %w", err)
	}
	return st, nil
}

// SaveState writes the sync state with the same temp-then-rename
// discipline as the snapshot.
func (s *Store) SaveState(_ context.Context, st model.SyncState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return s.writeAtomic(s.statePath, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
}

// writeAtomic writes via a temp file in the target's directory and
// renames it over the target.
func (s *Store) writeAtomic(path string, write func(*os.File) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
