package aggregate_test

import (
	"testing"
	"time"

	"github.com/runseob/paceboard/internal/domain/aggregate"
	"github.com/runseob/paceboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func activity(date string, km, pace float64) model.Activity {
	d := day(date)
	return model.Activity{
		StartDateLocal: d.Add(9 * time.Hour),
		Date:           d,
		DistanceKM:     km,
		Pace:           pace,
		MovingTimeMin:  km * pace,
		Year:           d.Year(),
		Month:          int(d.Month()),
	}
}

func TestPersonalRecords(t *testing.T) {
	Convey("Given the personal-record queries", t, func() {
		Convey("When the dataset is empty", func() {
			rec := aggregate.PersonalRecords(model.Dataset{}, 5)

			Convey("Then all records are absent", func() {
				So(rec.BestPace, ShouldBeNil)
				So(rec.LongestRun, ShouldBeNil)
				So(rec.BestMonth, ShouldBeNil)
				So(rec.TopRuns, ShouldHaveLength, 0)
			})
		})

		Convey("When the dataset has runs across two months", func() {
			ds := model.Dataset{
				activity("2024-01-05", 10, 5.2),
				activity("2024-01-20", 21.1, 5.8),
				activity("2024-02-03", 5, 4.1),
				activity("2024-02-10", 0, 0), // zero distance, pace 0
			}
			rec := aggregate.PersonalRecords(ds, 2)

			Convey("Then best pace ignores zero-distance rows", func() {
				So(rec.BestPace, ShouldNotBeNil)
				So(rec.BestPace.Pace, ShouldEqual, 4.1)
				So(rec.BestPace.Date.Format("2006-01-02"), ShouldEqual, "2024-02-03")
			})

			Convey("Then the longest run is the half marathon", func() {
				So(rec.LongestRun, ShouldNotBeNil)
				So(rec.LongestRun.DistanceKM, ShouldEqual, 21.1)
			})

			Convey("Then the best month is January", func() {
				So(rec.BestMonth, ShouldNotBeNil)
				So(rec.BestMonth.Month, ShouldEqual, "2024-01")
				So(rec.BestMonth.DistanceKM, ShouldAlmostEqual, 31.1, 1e-9)
			})

			Convey("Then top runs are ordered by distance and capped at K", func() {
				So(rec.TopRuns, ShouldHaveLength, 2)
				So(rec.TopRuns[0].DistanceKM, ShouldEqual, 21.1)
				So(rec.TopRuns[1].DistanceKM, ShouldEqual, 10.0)
			})
		})
	})
}

func TestPeriodTotals(t *testing.T) {
	Convey("Given period aggregation", t, func() {
		ds := model.Dataset{
			activity("2024-01-05", 10, 5),
			activity("2024-01-20", 5, 5),
			activity("2024-02-03", 7, 5),
		}

		Convey("Then monthly totals group and sort by label", func() {
			monthly := aggregate.MonthlyTotals(ds)
			So(monthly, ShouldHaveLength, 2)
			So(monthly[0].Period, ShouldEqual, "2024-01")
			So(monthly[0].DistanceKM, ShouldEqual, 15.0)
			So(monthly[1].Period, ShouldEqual, "2024-02")
		})

		Convey("Then weekly totals use ISO week labels", func() {
			weekly := aggregate.WeeklyTotals(ds)
			So(len(weekly), ShouldEqual, 3)
			So(weekly[0].Period, ShouldEqual, "2024-W01")
		})

		Convey("Then weekday totals index Monday first", func() {
			// 2024-01-05 and 2024-02-03 land on Friday and Saturday.
			byDay := aggregate.WeekdayTotals(ds)
			So(byDay[4], ShouldEqual, 10.0) // Friday
			So(byDay[5], ShouldEqual, 12.0) // Saturday: Jan 20 + Feb 3
		})
	})
}
