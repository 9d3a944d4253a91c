package aggregate_test

import (
	"testing"
	"time"

	"github.com/runseob/paceboard/internal/domain/aggregate"
	. "github.com/smartystreets/goconvey/convey"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestComputeStreaks(t *testing.T) {
	Convey("Given sorted distinct activity dates", t, func() {
		Convey("When there are no dates", func() {
			s := aggregate.ComputeStreaks(nil, day("2024-01-10"))
			So(s.Longest, ShouldEqual, 0)
			So(s.Current, ShouldEqual, 0)
		})

		Convey("When dates are 01-01, 01-02, 01-03, 01-06", func() {
			dates := []time.Time{day("2024-01-01"), day("2024-01-02"), day("2024-01-03"), day("2024-01-06")}

			Convey("Then the longest streak is 3", func() {
				s := aggregate.ComputeStreaks(dates, day("2024-02-01"))
				So(s.Longest, ShouldEqual, 3)
			})

			Convey("And the current streak is 0 when the last date is stale", func() {
				s := aggregate.ComputeStreaks(dates, day("2024-02-01"))
				So(s.Current, ShouldEqual, 0)
			})

			Convey("And the current streak is 1 when the last date was yesterday", func() {
				s := aggregate.ComputeStreaks(dates, day("2024-01-07"))
				So(s.Current, ShouldEqual, 1)
			})
		})

		Convey("When the run continues through today", func() {
			dates := []time.Time{day("2024-01-04"), day("2024-01-08"), day("2024-01-09"), day("2024-01-10")}
			s := aggregate.ComputeStreaks(dates, day("2024-01-10"))

			Convey("Then the current streak counts backward from today", func() {
				So(s.Current, ShouldEqual, 3)
				So(s.Longest, ShouldEqual, 3)
			})
		})

		Convey("When there is a single date today", func() {
			s := aggregate.ComputeStreaks([]time.Time{day("2024-01-10")}, day("2024-01-10"))
			So(s.Current, ShouldEqual, 1)
			So(s.Longest, ShouldEqual, 1)
		})

		Convey("When the most recent date lies in the future", func() {
			dates := []time.Time{day("2024-01-09"), day("2024-01-10"), day("2024-01-15")}
			s := aggregate.ComputeStreaks(dates, day("2024-01-10"))

			Convey("Then it never counts toward the current streak", func() {
				So(s.Current, ShouldEqual, 0)
				So(s.Longest, ShouldEqual, 2)
			})
		})
	})
}
