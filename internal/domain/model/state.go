package model

import "time"

// SyncState is the small persisted config that drives refresh
// scheduling. Created with defaults on first run and mutated only after
// a successful sync or a goal edit.
type SyncState struct {
	// MonthlyGoalKM is the user-set monthly distance goal.
	MonthlyGoalKM int `json:"monthly_goal"`

	// LastUpdate is the time of the last successful sync, absent before
	// the first one.
	LastUpdate *time.Time `json:"last_update,omitempty"`
}
