package process_test

import (
	"context"
	"testing"

	"github.com/runseob/paceboard/internal/domain/model"
	"github.com/runseob/paceboard/internal/domain/process"
	. "github.com/smartystreets/goconvey/convey"
)

func TestProcess(t *testing.T) {
	Convey("Given a processor", t, func() {
		ctx := context.Background()
		p := process.New()

		Convey("When processing an empty batch", func() {
			Convey("Then nil input yields an empty dataset", func() {
				ds, duplicates := p.Process(ctx, nil)
				So(ds, ShouldHaveLength, 0)
				So(duplicates, ShouldEqual, 0)
			})
			Convey("Then an empty slice yields an empty dataset", func() {
				ds, _ := p.Process(ctx, []model.RawActivity{})
				So(ds, ShouldHaveLength, 0)
			})
		})

		Convey("When processing a morning run", func() {
			raw := []model.RawActivity{{
				ID:             101,
				Name:           "Morning Run",
				Distance:       10000,
				MovingTime:     3000,
				StartDateLocal: "2024-03-15T06:30:00Z",
				Type:           "Run",
			}}
			ds, _ := p.Process(ctx, raw)

			Convey("Then derived fields are computed", func() {
				So(ds, ShouldHaveLength, 1)
				a := ds[0]
				So(a.DistanceKM, ShouldEqual, 10.0)
				So(a.MovingTimeMin, ShouldEqual, 50.0)
				So(a.Pace, ShouldEqual, 5.0)
				So(a.PaceZone, ShouldEqual, "Tempo")
				So(a.TimeOfDay, ShouldEqual, "Morning")
				So(a.Hour, ShouldEqual, 6)
				So(a.Weekday, ShouldEqual, "Friday")
				So(a.Month, ShouldEqual, 3)
				So(a.Year, ShouldEqual, 2024)
				So(a.Week, ShouldEqual, 11)
				So(a.Date.Format("2006-01-02"), ShouldEqual, "2024-03-15")
			})
		})

		Convey("When a record has zero distance", func() {
			raw := []model.RawActivity{{
				ID:             102,
				Distance:       0,
				MovingTime:     600,
				StartDateLocal: "2024-03-15T21:00:00Z",
				Type:           "Run",
			}}
			ds, _ := p.Process(ctx, raw)

			Convey("Then pace is exactly zero and the zone is Unknown", func() {
				So(ds, ShouldHaveLength, 1)
				So(ds[0].Pace, ShouldEqual, 0.0)
				So(ds[0].PaceZone, ShouldEqual, "Unknown")
				So(ds[0].TimeOfDay, ShouldEqual, "Evening")
			})
		})

		Convey("When the same activity id appears on two pages", func() {
			raw := []model.RawActivity{
				{ID: 7, Name: "first", Distance: 5000, MovingTime: 1500, StartDateLocal: "2024-01-01T08:00:00Z"},
				{ID: 7, Name: "again", Distance: 5000, MovingTime: 1500, StartDateLocal: "2024-01-01T08:00:00Z"},
				{ID: 8, Name: "other", Distance: 3000, MovingTime: 1000, StartDateLocal: "2024-01-02T08:00:00Z"},
			}
			ds, duplicates := p.Process(ctx, raw)

			Convey("Then the first occurrence wins", func() {
				So(ds, ShouldHaveLength, 2)
				So(ds[0].Name, ShouldEqual, "first")
				So(duplicates, ShouldEqual, 1)
			})
		})

		Convey("When records have id zero", func() {
			raw := []model.RawActivity{
				{ID: 0, Name: "a", Distance: 1000, MovingTime: 300, StartDateLocal: "2024-01-01T08:00:00Z"},
				{ID: 0, Name: "b", Distance: 2000, MovingTime: 700, StartDateLocal: "2024-01-02T08:00:00Z"},
			}
			ds, _ := p.Process(ctx, raw)

			Convey("Then they are never treated as duplicates of each other", func() {
				So(ds, ShouldHaveLength, 2)
			})
		})

		Convey("When a timestamp is unparseable", func() {
			raw := []model.RawActivity{
				{ID: 1, StartDateLocal: "not-a-time", Distance: 1000, MovingTime: 300},
				{ID: 2, StartDateLocal: "2024-01-01T08:00:00Z", Distance: 1000, MovingTime: 300},
			}
			ds, _ := p.Process(ctx, raw)

			Convey("Then the bad record is skipped, not fatal", func() {
				So(ds, ShouldHaveLength, 1)
				So(ds[0].ID, ShouldEqual, 2)
			})
		})

		Convey("When the timestamp has no zone suffix", func() {
			raw := []model.RawActivity{
				{ID: 3, StartDateLocal: "2024-06-01T19:15:00", Distance: 8000, MovingTime: 2400},
			}
			ds, _ := p.Process(ctx, raw)

			Convey("Then the fallback layout parses it", func() {
				So(ds, ShouldHaveLength, 1)
				So(ds[0].Hour, ShouldEqual, 19)
				So(ds[0].TimeOfDay, ShouldEqual, "Evening")
			})
		})
	})
}

func TestPaceInvariant(t *testing.T) {
	Convey("Given the pace formula", t, func() {
		Convey("Then pace is zero iff distance is zero", func() {
			So(process.PaceMinPerKM(0, 50), ShouldEqual, 0.0)
			So(process.PaceMinPerKM(10, 0), ShouldEqual, 0.0)
			So(process.PaceMinPerKM(10, 50), ShouldEqual, 5.0)
		})
	})
}
