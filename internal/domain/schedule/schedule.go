// Package schedule decides when the cached dataset is due for a refresh.
package schedule

import (
	"time"

	"github.com/runseob/paceboard/internal/domain/model"
)

// boundaryHour is the local hour at which the daily refresh is due.
const boundaryHour = 8

// ShouldUpdate reports whether a refresh is due at now. A refresh is due
// when any of these holds:
//  1. the state has never been synced;
//  2. the 08:00 boundary was crossed since the last sync
//     (last_update < today 08:00 <= now);
//  3. at least one calendar day elapsed since the last sync, regardless
//     of hour. This catches up after outages the boundary check alone
//     would miss.
//
// Pure function of its arguments; the caller supplies the clock.
func ShouldUpdate(state model.SyncState, now time.Time) bool {
	if state.LastUpdate == nil {
		return true
	}
	last := *state.LastUpdate

	boundary := time.Date(now.Year(), now.Month(), now.Day(), boundaryHour, 0, 0, 0, now.Location())
	if last.Before(boundary) && !now.Before(boundary) {
		return true
	}

	ly, lm, ld := last.Date()
	ny, nm, nd := now.Date()
	lastDate := time.Date(ly, lm, ld, 0, 0, 0, 0, time.UTC)
	nowDate := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return lastDate.Before(nowDate)
}
