// Package model contains domain models passed between layers.
package model

import (
	"sort"
	"time"
)

// RawActivity mirrors one activity object from the remote listing API.
// Only the whitelisted fields are decoded; anything else in the payload
// is ignored.
type RawActivity struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Distance           float64 `json:"distance"`    // meters
	MovingTime         int64   `json:"moving_time"` // seconds
	StartDateLocal     string  `json:"start_date_local"`
	TotalElevationGain float64 `json:"total_elevation_gain"`
	Type               string  `json:"type"`
	AverageHeartrate   float64 `json:"average_heartrate"`
	MaxHeartrate       float64 `json:"max_heartrate"`
	AverageSpeed       float64 `json:"average_speed"`
	MaxSpeed           float64 `json:"max_speed"`
}

// Activity is one processed record. Raw fields carry the remote values;
// derived fields are computed once and never mutated afterwards.
type Activity struct {
	// Raw
	ID                 int64
	Name               string
	Distance           float64 // meters
	MovingTime         int64   // seconds
	StartDateLocal     time.Time
	TotalElevationGain float64
	Type               string
	AverageHeartrate   float64
	MaxHeartrate       float64
	AverageSpeed       float64
	MaxSpeed           float64

	// Derived
	DistanceKM    float64
	MovingTimeMin float64
	Pace          float64 // min/km, exactly 0 when DistanceKM is 0
	PaceZone      string
	TimeOfDay     string
	Date          time.Time // calendar date, midnight UTC
	Hour          int
	Weekday       string // English day name
	Week          int    // ISO week number
	Month         int
	Year          int
}

// Dataset is an ordered collection of processed activities. A sync
// replaces it whole; it is never merged incrementally.
type Dataset []Activity

// ActiveDates returns the distinct activity dates in ascending order.
func (d Dataset) ActiveDates() []time.Time {
	seen := make(map[time.Time]struct{}, len(d))
	dates := make([]time.Time, 0, len(d))
	for _, a := range d {
		if _, ok := seen[a.Date]; ok {
			continue
		}
		seen[a.Date] = struct{}{}
		dates = append(dates, a.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// FilterType returns the activities of the given type, preserving order.
// An empty type returns the dataset unchanged.
func (d Dataset) FilterType(activityType string) Dataset {
	if activityType == "" {
		return d
	}
	out := make(Dataset, 0, len(d))
	for _, a := range d {
		if a.Type == activityType {
			out = append(out, a)
		}
	}
	return out
}

// FilterSince returns activities whose date is on or after cutoff.
func (d Dataset) FilterSince(cutoff time.Time) Dataset {
	out := make(Dataset, 0, len(d))
	for _, a := range d {
		if !a.Date.Before(cutoff) {
			out = append(out, a)
		}
	}
	return out
}

// FilterMonth returns activities within the given year and month.
func (d Dataset) FilterMonth(year, month int) Dataset {
	out := make(Dataset, 0, len(d))
	for _, a := range d {
		if a.Year == year && a.Month == month {
			out = append(out, a)
		}
	}
	return out
}

// FilterYear returns activities within the given year.
func (d Dataset) FilterYear(year int) Dataset {
	out := make(Dataset, 0, len(d))
	for _, a := range d {
		if a.Year == year {
			out = append(out, a)
		}
	}
	return out
}
