package aggregate

import (
	"fmt"
	"sort"

	"github.com/runseob/paceboard/internal/domain/model"
)

// PeriodTotal is the summed distance for one sortable period label.
type PeriodTotal struct {
	Period     string  `json:"period"`
	DistanceKM float64 `json:"distance_km"`
}

// MonthlyTotals sums distance per calendar month, labeled "2006-01",
// ascending.
func MonthlyTotals(ds model.Dataset) []PeriodTotal {
	totals := make(map[string]float64, 12)
	for _, a := range ds {
		label := fmt.Sprintf("%04d-%02d", a.Year, a.Month)
		totals[label] += a.DistanceKM
	}
	return sortTotals(totals)
}

// WeeklyTotals sums distance per ISO week, labeled "2006-W07",
// ascending. The label uses the ISO week-year so early January days that
// belong to the previous year's last week sort correctly.
func WeeklyTotals(ds model.Dataset) []PeriodTotal {
	totals := make(map[string]float64, 53)
	for _, a := range ds {
		isoYear, isoWeek := a.StartDateLocal.ISOWeek()
		label := fmt.Sprintf("%04d-W%02d", isoYear, isoWeek)
		totals[label] += a.DistanceKM
	}
	return sortTotals(totals)
}

func sortTotals(totals map[string]float64) []PeriodTotal {
	out := make([]PeriodTotal, 0, len(totals))
	for period, km := range totals {
		out = append(out, PeriodTotal{Period: period, DistanceKM: km})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// weekdayNames indexes Monday..Sunday, the row order used by every grid.
var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayTotals sums distance per weekday, Monday first.
func WeekdayTotals(ds model.Dataset) [7]float64 {
	var out [7]float64
	for _, a := range ds {
		out[mondayIndex(a.StartDateLocal.Weekday())] += a.DistanceKM
	}
	return out
}

// WeekdayNames returns the Monday-first day names matching WeekdayTotals.
func WeekdayNames() [7]string {
	return weekdayNames
}

// TimeOfDayCounts counts activities per time-of-day zone.
func TimeOfDayCounts(ds model.Dataset) map[string]int {
	out := make(map[string]int, 3)
	for _, a := range ds {
		out[a.TimeOfDay]++
	}
	return out
}

// PaceZoneCounts counts activities per pace zone.
func PaceZoneCounts(ds model.Dataset) map[string]int {
	out := make(map[string]int, 5)
	for _, a := range ds {
		out[a.PaceZone]++
	}
	return out
}

// HourlyGrid counts activities per weekday (Monday first) and start hour.
func HourlyGrid(ds model.Dataset) [7][24]int {
	var grid [7][24]int
	for _, a := range ds {
		if a.Hour < 0 || a.Hour > 23 {
			continue
		}
		grid[mondayIndex(a.StartDateLocal.Weekday())][a.Hour]++
	}
	return grid
}
