// Package aggregate computes read-only rollups over a processed
// dataset: streaks, period totals, heatmap grids, and personal records.
// Nothing in this package mutates the dataset or performs I/O.
package aggregate

import (
	"time"

	"github.com/runseob/paceboard/internal/domain/process"
)

// Streaks holds the consecutive-day counters.
type Streaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// ComputeStreaks walks distinct ascending activity dates. A gap of
// exactly one day continues a run; any other gap resets it. The current
// streak counts backward from the most recent date only when that date
// is within one day of now, otherwise it is zero.
func ComputeStreaks(dates []time.Time, now time.Time) Streaks {
	if len(dates) == 0 {
		return Streaks{}
	}

	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if daysBetween(dates[i-1], dates[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	current := 0
	last := dates[len(dates)-1]
	gap := daysBetween(last, process.DateOf(now))
	if gap >= 0 && gap <= 1 {
		current = 1
		for i := len(dates) - 1; i > 0; i-- {
			if daysBetween(dates[i-1], dates[i]) != 1 {
				break
			}
			current++
		}
	}

	return Streaks{Current: current, Longest: longest}
}

// daysBetween returns the whole calendar days from a to b; both are
// expected to be midnight-normalized.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
