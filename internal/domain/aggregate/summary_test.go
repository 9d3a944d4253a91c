package aggregate_test

import (
	"testing"

	"github.com/runseob/paceboard/internal/domain/aggregate"
	"github.com/runseob/paceboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSummarize(t *testing.T) {
	Convey("Given the headline summary", t, func() {
		Convey("When the dataset is empty", func() {
			s := aggregate.Summarize(model.Dataset{})
			So(s.TotalRuns, ShouldEqual, 0)
			So(s.AvgPace, ShouldEqual, 0.0)
			So(s.AvgPaceFormatted, ShouldEqual, "-")
		})

		Convey("When the dataset mixes paced and zero-distance rows", func() {
			ds := model.Dataset{
				{DistanceKM: 10, Pace: 5.0, TotalElevationGain: 120},
				{DistanceKM: 6, Pace: 6.0, TotalElevationGain: 40},
				{DistanceKM: 0, Pace: 0},
			}
			s := aggregate.Summarize(ds)

			Convey("Then totals include all rows but avg pace skips zeros", func() {
				So(s.TotalRuns, ShouldEqual, 3)
				So(s.TotalKM, ShouldEqual, 16.0)
				So(s.TotalElevationM, ShouldEqual, 160.0)
				So(s.LongestKM, ShouldEqual, 10.0)
				So(s.AvgPace, ShouldEqual, 5.5)
				So(s.AvgPaceFormatted, ShouldEqual, "5:30")
			})
		})
	})
}

func TestProgress(t *testing.T) {
	Convey("Given monthly goal progress", t, func() {
		now := day("2024-03-20")
		ds := model.Dataset{
			activity("2024-03-05", 30, 5),
			activity("2024-03-12", 50, 5),
			activity("2024-02-27", 99, 5), // previous month, excluded
		}

		Convey("When the goal is partially met", func() {
			p := aggregate.Progress(ds, 100, now)
			So(p.CurrentKM, ShouldEqual, 80.0)
			So(p.Percent, ShouldEqual, 80.0)
			So(p.Achieved, ShouldBeFalse)
		})

		Convey("When the goal is exceeded", func() {
			p := aggregate.Progress(ds, 60, now)
			So(p.Percent, ShouldEqual, 100.0)
			So(p.Achieved, ShouldBeTrue)
		})

		Convey("When the goal is zero", func() {
			p := aggregate.Progress(ds, 0, now)
			So(p.Percent, ShouldEqual, 0.0)
			So(p.Achieved, ShouldBeFalse)
		})
	})
}

func TestFormatPace(t *testing.T) {
	Convey("Given the pace formatter", t, func() {
		So(aggregate.FormatPace(5.5), ShouldEqual, "5:30")
		So(aggregate.FormatPace(4.0), ShouldEqual, "4:00")
		So(aggregate.FormatPace(6.25), ShouldEqual, "6:15")
		So(aggregate.FormatPace(0), ShouldEqual, "-")
	})
}
