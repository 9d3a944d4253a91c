package aggregate

import (
	"sort"
	"time"

	"github.com/runseob/paceboard/internal/domain/model"
)

// PaceRecord is the fastest (minimum positive) pace and its activity.
type PaceRecord struct {
	Pace       float64   `json:"pace"`
	DistanceKM float64   `json:"distance_km"`
	Date       time.Time `json:"date"`
}

// DistanceRecord is the longest single activity.
type DistanceRecord struct {
	DistanceKM float64   `json:"distance_km"`
	Pace       float64   `json:"pace"`
	Date       time.Time `json:"date"`
}

// MonthRecord is the month with the highest summed distance.
type MonthRecord struct {
	Month      string  `json:"month"`
	DistanceKM float64 `json:"distance_km"`
}

// RunSummary is one activity in a top-K listing.
type RunSummary struct {
	Date          time.Time `json:"date"`
	Name          string    `json:"name"`
	DistanceKM    float64   `json:"distance_km"`
	Pace          float64   `json:"pace"`
	MovingTimeMin float64   `json:"moving_time_min"`
}

// Records bundles the personal-record queries. Pointer fields are nil
// when the dataset has no qualifying activity.
type Records struct {
	BestPace   *PaceRecord     `json:"best_pace,omitempty"`
	LongestRun *DistanceRecord `json:"longest_run,omitempty"`
	BestMonth  *MonthRecord    `json:"best_month,omitempty"`
	TopRuns    []RunSummary    `json:"top_runs"`
}

// PersonalRecords scans the dataset once for best pace and longest run,
// then derives the best month and the top-K runs by distance.
// Zero-distance rows never qualify for best pace.
func PersonalRecords(ds model.Dataset, topK int) Records {
	var rec Records

	for _, a := range ds {
		if a.Pace > 0 && (rec.BestPace == nil || a.Pace < rec.BestPace.Pace) {
			rec.BestPace = &PaceRecord{Pace: a.Pace, DistanceKM: a.DistanceKM, Date: a.Date}
		}
		if rec.LongestRun == nil || a.DistanceKM > rec.LongestRun.DistanceKM {
			rec.LongestRun = &DistanceRecord{DistanceKM: a.DistanceKM, Pace: a.Pace, Date: a.Date}
		}
	}

	if monthly := MonthlyTotals(ds); len(monthly) > 0 {
		best := monthly[0]
		for _, m := range monthly[1:] {
			if m.DistanceKM > best.DistanceKM {
				best = m
			}
		}
		rec.BestMonth = &MonthRecord{Month: best.Period, DistanceKM: best.DistanceKM}
	}

	rec.TopRuns = topRuns(ds, topK)
	return rec
}

func topRuns(ds model.Dataset, k int) []RunSummary {
	if k <= 0 || len(ds) == 0 {
		return []RunSummary{}
	}
	sorted := make(model.Dataset, len(ds))
	copy(sorted, ds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DistanceKM > sorted[j].DistanceKM
	})
	if k > len(sorted) {
		k = len(sorted)
	}
	out := make([]RunSummary, 0, k)
	for _, a := range sorted[:k] {
		out = append(out, RunSummary{
			Date:          a.Date,
			Name:          a.Name,
			DistanceKM:    a.DistanceKM,
			Pace:          a.Pace,
			MovingTimeMin: a.MovingTimeMin,
		})
	}
	return out
}
