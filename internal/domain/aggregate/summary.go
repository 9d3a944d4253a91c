package aggregate

import (
	"fmt"
	"time"

	"github.com/runseob/paceboard/internal/domain/model"
)

// Summary holds the headline totals for a (possibly filtered) dataset.
type Summary struct {
	TotalKM          float64 `json:"total_km"`
	TotalRuns        int     `json:"total_runs"`
	AvgPace          float64 `json:"avg_pace"` // over positive paces only
	TotalElevationM  float64 `json:"total_elevation_m"`
	LongestKM        float64 `json:"longest_km"`
	AvgPaceFormatted string  `json:"avg_pace_formatted"`
}

// Summarize computes the headline totals. Average pace ignores
// zero-distance rows so an empty or walk-only dataset yields 0.
func Summarize(ds model.Dataset) Summary {
	var s Summary
	var paceSum float64
	var paceCount int
	for _, a := range ds {
		s.TotalKM += a.DistanceKM
		s.TotalRuns++
		s.TotalElevationM += a.TotalElevationGain
		if a.DistanceKM > s.LongestKM {
			s.LongestKM = a.DistanceKM
		}
		if a.Pace > 0 {
			paceSum += a.Pace
			paceCount++
		}
	}
	if paceCount > 0 {
		s.AvgPace = paceSum / float64(paceCount)
	}
	s.AvgPaceFormatted = FormatPace(s.AvgPace)
	return s
}

// GoalProgress reports the current month's distance against the goal.
type GoalProgress struct {
	GoalKM    int     `json:"goal_km"`
	CurrentKM float64 `json:"current_km"`
	Percent   float64 `json:"percent"` // capped at 100
	Achieved  bool    `json:"achieved"`
}

// Progress sums the current calendar month (by now) and maps it onto
// the goal. A zero goal reports zero percent.
func Progress(ds model.Dataset, goalKM int, now time.Time) GoalProgress {
	current := 0.0
	for _, a := range ds.FilterMonth(now.Year(), int(now.Month())) {
		current += a.DistanceKM
	}
	p := GoalProgress{GoalKM: goalKM, CurrentKM: current}
	if goalKM > 0 {
		p.Percent = current / float64(goalKM) * 100
		if p.Percent >= 100 {
			p.Percent = 100
			p.Achieved = true
		}
	}
	return p
}

// FormatPace renders a decimal pace as m:ss, e.g. 5.5 -> "5:30".
// Zero pace renders as "-" since it marks a zero-distance row.
func FormatPace(pace float64) string {
	if pace <= 0 {
		return "-"
	}
	minutes := int(pace)
	seconds := int((pace - float64(minutes)) * 60)
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
