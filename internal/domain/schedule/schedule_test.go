package schedule_test

import (
	"testing"
	"time"

	"github.com/runseob/paceboard/internal/domain/model"
	"github.com/runseob/paceboard/internal/domain/schedule"
	. "github.com/smartystreets/goconvey/convey"
)

func at(day string, hour, minute int) time.Time {
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC)
}

func stateAt(t time.Time) model.SyncState {
	return model.SyncState{MonthlyGoalKM: 100, LastUpdate: &t}
}

func TestShouldUpdate(t *testing.T) {
	Convey("Given the refresh scheduler", t, func() {
		Convey("When the state has never been synced", func() {
			So(schedule.ShouldUpdate(model.SyncState{}, at("2024-05-10", 12, 0)), ShouldBeTrue)
		})

		Convey("When the 08:00 boundary was crossed since the last sync", func() {
			last := stateAt(at("2024-05-10", 7, 0))
			So(schedule.ShouldUpdate(last, at("2024-05-10", 9, 0)), ShouldBeTrue)
		})

		Convey("When the last sync already happened after 08:00 today", func() {
			last := stateAt(at("2024-05-10", 9, 0))
			So(schedule.ShouldUpdate(last, at("2024-05-10", 10, 0)), ShouldBeFalse)
		})

		Convey("When the calendar date advanced but 08:00 has not arrived", func() {
			last := stateAt(at("2024-05-09", 23, 0))
			So(schedule.ShouldUpdate(last, at("2024-05-10", 0, 30)), ShouldBeTrue)
		})

		Convey("When the last sync was today before 08:00 and it is still before 08:00", func() {
			last := stateAt(at("2024-05-10", 6, 0))
			So(schedule.ShouldUpdate(last, at("2024-05-10", 7, 30)), ShouldBeFalse)
		})

		Convey("When the last sync is days old", func() {
			last := stateAt(at("2024-05-01", 9, 0))
			So(schedule.ShouldUpdate(last, at("2024-05-10", 3, 0)), ShouldBeTrue)
		})
	})
}
