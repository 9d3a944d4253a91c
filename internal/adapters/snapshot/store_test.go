package snapshot_test

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/runseob/paceboard/internal/adapters/snapshot"
	"github.com/runseob/paceboard/internal/domain/model"
	"github.com/runseob/paceboard/internal/domain/process"
	. "github.com/smartystreets/goconvey/convey"
)

func rawFixture() []model.RawActivity {
	return []model.RawActivity{
		{
			ID: 1, Name: "Morning Run", Distance: 10000, MovingTime: 3000,
			StartDateLocal: "2024-03-15T06:30:00Z", TotalElevationGain: 85,
			Type: "Run", AverageHeartrate: 151, MaxHeartrate: 172,
			AverageSpeed: 3.33, MaxSpeed: 4.1,
		},
		{
			ID: 2, Name: "Strides", Distance: 0, MovingTime: 600,
			StartDateLocal: "2024-03-16T20:05:00Z", Type: "Run",
		},
	}
}

func newStore(t *testing.T) (*snapshot.Store, string) {
	t.Helper()
	dir := t.TempDir()
	st := snapshot.New(
		snapshot.WithSnapshotPath(filepath.Join(dir, "running_data.csv")),
		snapshot.WithStatePath(filepath.Join(dir, "app_config.json")),
	)
	return st, dir
}

func sameActivity(got, want model.Activity) {
	So(got.ID, ShouldEqual, want.ID)
	So(got.Name, ShouldEqual, want.Name)
	So(got.Distance, ShouldEqual, want.Distance)
	So(got.MovingTime, ShouldEqual, want.MovingTime)
	So(got.StartDateLocal.Equal(want.StartDateLocal), ShouldBeTrue)
	So(got.Type, ShouldEqual, want.Type)
	So(got.DistanceKM, ShouldEqual, want.DistanceKM)
	So(got.MovingTimeMin, ShouldEqual, want.MovingTimeMin)
	So(got.Pace, ShouldEqual, want.Pace)
	So(got.PaceZone, ShouldEqual, want.PaceZone)
	So(got.TimeOfDay, ShouldEqual, want.TimeOfDay)
	So(got.Date.Equal(want.Date), ShouldBeTrue)
	So(got.Hour, ShouldEqual, want.Hour)
	So(got.Weekday, ShouldEqual, want.Weekday)
	So(got.Week, ShouldEqual, want.Week)
	So(got.Month, ShouldEqual, want.Month)
	So(got.Year, ShouldEqual, want.Year)
}

func TestSnapshotRoundTrip(t *testing.T) {
	Convey("Given a processed dataset", t, func() {
		ctx := context.Background()
		ds, _ := process.New().Process(ctx, rawFixture())
		store, _ := newStore(t)

		Convey("When saved and loaded", func() {
			So(store.Save(ctx, ds), ShouldBeNil)
			loaded, err := store.Load(ctx)

			Convey("Then every derived column round-trips", func() {
				So(err, ShouldBeNil)
				So(loaded, ShouldHaveLength, len(ds))
				for i := range ds {
					sameActivity(loaded[i], ds[i])
				}
				So(store.BackfilledColumns(), ShouldHaveLength, 0)
			})
		})

		Convey("When the dataset is empty", func() {
			So(store.Save(ctx, model.Dataset{}), ShouldBeNil)
			loaded, err := store.Load(ctx)

			Convey("Then the zero-row snapshot loads as empty, not an error", func() {
				So(err, ShouldBeNil)
				So(loaded, ShouldHaveLength, 0)
			})
		})

		Convey("When no snapshot exists yet", func() {
			_, err := store.Load(ctx)
			So(errors.Is(err, snapshot.ErrNoSnapshot), ShouldBeTrue)
		})
	})
}

func TestSchemaBackfill(t *testing.T) {
	Convey("Given a snapshot written by an older schema", t, func() {
		ctx := context.Background()
		ds, _ := process.New().Process(ctx, rawFixture())
		store, dir := newStore(t)
		path := filepath.Join(dir, "running_data.csv")

		// Raw columns only, as the first schema version persisted them.
		writeCSV(t, path, [][]string{
			{"id", "name", "distance", "moving_time", "start_date_local", "total_elevation_gain", "type"},
			{"1", "Morning Run", "10000", "3000", "2024-03-15T06:30:00Z", "85", "Run"},
			{"2", "Strides", "0", "600", "2024-03-16T20:05:00Z", "", "Run"},
		})

		Convey("When loaded", func() {
			loaded, err := store.Load(ctx)

			Convey("Then all derived columns are recomputed identically", func() {
				So(err, ShouldBeNil)
				So(loaded, ShouldHaveLength, 2)
				So(loaded[0].DistanceKM, ShouldEqual, ds[0].DistanceKM)
				So(loaded[0].Pace, ShouldEqual, ds[0].Pace)
				So(loaded[0].PaceZone, ShouldEqual, ds[0].PaceZone)
				So(loaded[0].TimeOfDay, ShouldEqual, ds[0].TimeOfDay)
				So(loaded[0].Week, ShouldEqual, ds[0].Week)
				So(loaded[0].Weekday, ShouldEqual, ds[0].Weekday)
				So(loaded[1].Pace, ShouldEqual, 0.0)
				So(loaded[1].PaceZone, ShouldEqual, "Unknown")
			})

			Convey("Then the backfilled columns are reported", func() {
				So(err, ShouldBeNil)
				So(len(store.BackfilledColumns()), ShouldEqual, 11)
			})
		})

		Convey("When only a single derived column is missing", func() {
			// Save the full schema, then strip pace_zone.
			So(store.Save(ctx, ds), ShouldBeNil)
			stripColumn(t, path, "pace_zone")

			loaded, err := store.Load(ctx)

			Convey("Then only that column is backfilled, identically", func() {
				So(err, ShouldBeNil)
				So(store.BackfilledColumns(), ShouldResemble, []string{"pace_zone"})
				for i := range ds {
					So(loaded[i].PaceZone, ShouldEqual, ds[i].PaceZone)
				}
			})
		})

		Convey("When the snapshot lacks the timestamp column", func() {
			writeCSV(t, path, [][]string{
				{"id", "name", "distance"},
				{"1", "x", "1000"},
			})
			_, err := store.Load(ctx)
			So(errors.Is(err, snapshot.ErrBadSnapshot), ShouldBeTrue)
		})
	})
}

func TestStatePersistence(t *testing.T) {
	Convey("Given the sync-state store", t, func() {
		ctx := context.Background()
		store, _ := newStore(t)

		Convey("When no state file exists", func() {
			st, err := store.LoadState(ctx)

			Convey("Then defaults apply and last_update is absent", func() {
				So(err, ShouldBeNil)
				So(st.MonthlyGoalKM, ShouldEqual, 100)
				So(st.LastUpdate, ShouldBeNil)
			})
		})

		Convey("When state is saved and reloaded", func() {
			now := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
			So(store.SaveState(ctx, model.SyncState{MonthlyGoalKM: 120, LastUpdate: &now}), ShouldBeNil)
			st, err := store.LoadState(ctx)

			Convey("Then both fields round-trip", func() {
				So(err, ShouldBeNil)
				So(st.MonthlyGoalKM, ShouldEqual, 120)
				So(st.LastUpdate, ShouldNotBeNil)
				So(st.LastUpdate.Equal(now), ShouldBeTrue)
			})
		})
	})
}

func TestAtomicSave(t *testing.T) {
	Convey("Given an existing snapshot", t, func() {
		ctx := context.Background()
		ds, _ := process.New().Process(ctx, rawFixture())
		store, dir := newStore(t)
		So(store.Save(ctx, ds), ShouldBeNil)

		Convey("When it is overwritten", func() {
			So(store.Save(ctx, ds[:1]), ShouldBeNil)

			Convey("Then no temp files are left behind", func() {
				entries, err := os.ReadDir(dir)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
			})

			Convey("Then the new snapshot is complete", func() {
				loaded, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(loaded, ShouldHaveLength, 1)
			})
		})
	})
}

func writeCSV(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		t.Fatal(err)
	}
	w.Flush()
}

func stripColumn(t *testing.T, path, column string) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(f).ReadAll()
	f.Close()
	if err != nil {
		t.Fatal(err)
	}
	drop := -1
	for i, name := range rows[0] {
		if name == column {
			drop = i
		}
	}
	if drop < 0 {
		t.Fatalf("column %s not found", column)
	}
	for i := range rows {
		rows[i] = append(rows[i][:drop], rows[i][drop+1:]...)
	}
	writeCSV(t, path, rows)
}
