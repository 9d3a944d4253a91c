package aggregate

import (
	"time"

	"github.com/runseob/paceboard/internal/domain/model"
	"github.com/runseob/paceboard/internal/domain/process"
)

// trailingDays is the window covered by the annual heatmap, inclusive
// of today.
const trailingDays = 365

// Heatmap is a dense weekday-by-week grid of daily summed distance over
// the trailing year. Rows are Monday..Sunday; missing days are zero.
type Heatmap struct {
	Start time.Time   `json:"start"`
	End   time.Time   `json:"end"`
	Weeks int         `json:"weeks"`
	Cells [][]float64 `json:"cells"` // [7][Weeks] daily km
}

// BuildHeatmap aggregates daily distance for the trailing 365 days
// ending at now's date. Every date in the window maps to
// (weekIndex, weekdayIndex) with weekIndex = daysSinceStart/7.
func BuildHeatmap(ds model.Dataset, now time.Time) Heatmap {
	end := process.DateOf(now)
	start := end.AddDate(0, 0, -(trailingDays - 1))
	weeks := (trailingDays-1)/7 + 1

	cells := make([][]float64, 7)
	for i := range cells {
		cells[i] = make([]float64, weeks)
	}

	for _, a := range ds {
		if a.Date.Before(start) || a.Date.After(end) {
			continue
		}
		week := daysBetween(start, a.Date) / 7
		cells[mondayIndex(a.Date.Weekday())][week] += a.DistanceKM
	}

	return Heatmap{Start: start, End: end, Weeks: weeks, Cells: cells}
}

// mondayIndex maps time.Weekday (Sunday=0) onto the Monday-first row
// order used by all grids.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
