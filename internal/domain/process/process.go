// Package process normalizes raw remote records into the processed
// dataset, computing every derived field exactly once.
package process

import (
	"context"
	"time"

	"github.com/runseob/paceboard/internal/domain/classify"
	"github.com/runseob/paceboard/internal/domain/model"
)

// Timestamp layouts accepted for start_date_local. The remote API sends
// RFC3339; older snapshots may carry the zone-less form.
var startDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Option applies a configuration option to the Processor.
type Option func(*Processor)

// WithDeduplication toggles dropping of repeated activity ids. Enabled
// by default; overlapping pages from the remote API can repeat records.
func WithDeduplication(enabled bool) Option {
	return func(p *Processor) {
		p.dedupe = enabled
	}
}

// Processor converts raw records into a processed Dataset. It carries
// no per-batch state, so one instance is safe for concurrent use.
type Processor struct {
	dedupe bool
}

// New constructs a Processor.
func New(opts ...Option) *Processor {
	p := &Processor{dedupe: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process normalizes raw records in order and reports how many were
// dropped as repeated ids. Nil or empty input yields an empty dataset;
// records whose timestamp cannot be parsed are skipped rather than
// failing the batch.
func (p *Processor) Process(_ context.Context, raw []model.RawActivity) (model.Dataset, int) {
	if len(raw) == 0 {
		return model.Dataset{}, 0
	}

	duplicates := 0
	ds := make(model.Dataset, 0, len(raw))
	seen := make(map[int64]struct{}, len(raw))
	for _, r := range raw {
		if p.dedupe && r.ID != 0 {
			if _, ok := seen[r.ID]; ok {
				duplicates++
				continue
			}
			seen[r.ID] = struct{}{}
		}

		start, err := ParseStartDate(r.StartDateLocal)
		if err != nil {
			continue
		}
		ds = append(ds, derive(r, start))
	}
	return ds, duplicates
}

// derive computes every derived field from the raw record and its
// parsed local start time, in dependency order.
func derive(r model.RawActivity, start time.Time) model.Activity {
	a := model.Activity{
		ID:                 r.ID,
		Name:               r.Name,
		Distance:           r.Distance,
		MovingTime:         r.MovingTime,
		StartDateLocal:     start,
		TotalElevationGain: r.TotalElevationGain,
		Type:               r.Type,
		AverageHeartrate:   r.AverageHeartrate,
		MaxHeartrate:       r.MaxHeartrate,
		AverageSpeed:       r.AverageSpeed,
		MaxSpeed:           r.MaxSpeed,
	}

	a.DistanceKM = r.Distance / 1000
	a.MovingTimeMin = float64(r.MovingTime) / 60
	a.Pace = PaceMinPerKM(a.DistanceKM, a.MovingTimeMin)
	a.PaceZone = string(classify.ForPace(a.Pace))

	a.Date = DateOf(start)
	a.Hour = start.Hour()
	a.Weekday = start.Weekday().String()
	_, a.Week = start.ISOWeek()
	a.Month = int(start.Month())
	a.Year = start.Year()
	a.TimeOfDay = string(classify.ForHour(a.Hour))

	return a
}

// ParseStartDate parses a local start timestamp in any accepted layout.
func ParseStartDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range startDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// PaceMinPerKM returns moving minutes per kilometer, or exactly 0 for a
// zero-distance activity. Never NaN or Inf.
func PaceMinPerKM(distanceKM, movingTimeMin float64) float64 {
	if distanceKM <= 0 {
		return 0
	}
	return movingTimeMin / distanceKM
}

// DateOf truncates a timestamp to its calendar date at midnight UTC,
// which makes dates comparable with == regardless of source zone.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
