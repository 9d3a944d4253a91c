// Package classify buckets pace and start hour into categorical zones.
// Both classifiers are total functions: every input maps to exactly one
// zone and neither can fail.
package classify

// PaceZone is a categorical pace bucket. Lower pace is faster.
type PaceZone string

// Pace zones, from fastest to slowest.
const (
	ZoneUnknown  PaceZone = "Unknown"
	ZoneSpeed    PaceZone = "Speed"
	ZoneTempo    PaceZone = "Tempo"
	ZoneEasy     PaceZone = "Easy"
	ZoneRecovery PaceZone = "Recovery"
)

// Pace thresholds in min/km. Bounds are half-open on the lower side so
// the zones cover the positive line with no gaps or overlaps.
const (
	speedMax = 4.5
	tempoMax = 5.5
	easyMax  = 6.5
)

// ForPace classifies a pace in min/km. A pace of exactly 0 marks a
// zero-distance activity and maps to ZoneUnknown.
func ForPace(pace float64) PaceZone {
	switch {
	case pace == 0:
		return ZoneUnknown
	case pace < speedMax:
		return ZoneSpeed
	case pace < tempoMax:
		return ZoneTempo
	case pace < easyMax:
		return ZoneEasy
	default:
		return ZoneRecovery
	}
}

// TimeOfDay is a categorical start-hour bucket.
type TimeOfDay string

// Time-of-day zones covering hours 0-23 exhaustively.
const (
	Morning   TimeOfDay = "Morning"
	Afternoon TimeOfDay = "Afternoon"
	Evening   TimeOfDay = "Evening"
)

// ForHour classifies a start hour: 5-11 Morning, 12-17 Afternoon,
// everything else Evening.
func ForHour(hour int) TimeOfDay {
	switch {
	case hour >= 5 && hour < 12:
		return Morning
	case hour >= 12 && hour < 18:
		return Afternoon
	default:
		return Evening
	}
}
