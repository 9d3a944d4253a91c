package snapshot

import (
	"fmt"
	"strconv"
	"time"

	"github.com/runseob/paceboard/internal/domain/classify"
	"github.com/runseob/paceboard/internal/domain/model"
	"github.com/runseob/paceboard/internal/domain/process"
)

// Column names of the persisted schema. Raw columns mirror the remote
// payload; derived columns are recomputed on load when absent so
// snapshots written by older versions stay usable.
const (
	colID             = "id"
	colName           = "name"
	colDistance       = "distance"
	colMovingTime     = "moving_time"
	colStartDateLocal = "start_date_local"
	colElevationGain  = "total_elevation_gain"
	colType           = "type"
	colAvgHeartrate   = "average_heartrate"
	colMaxHeartrate   = "max_heartrate"
	colAvgSpeed       = "average_speed"
	colMaxSpeed       = "max_speed"
	colDate           = "date"
	colHour           = "hour"
	colWeekday        = "weekday"
	colWeek           = "week"
	colMonth          = "month"
	colYear           = "year"
	colDistanceKM     = "distance_km"
	colMovingTimeMin  = "moving_time_min"
	colPace           = "pace"
	colPaceZone       = "pace_zone"
	colTimeOfDay      = "time_of_day"
)

const dateLayout = "2006-01-02"

// derivedColumns lists every backfillable column in recompute
// dependency order: calendar fields first, then pace, then the
// classifications that depend on them.
var derivedColumns = []string{
	colDate, colHour, colWeekday, colWeek, colMonth, colYear,
	colDistanceKM, colMovingTimeMin, colPace, colPaceZone, colTimeOfDay,
}

// columnNames returns the full header of a current-schema snapshot.
func columnNames() []string {
	return []string{
		colID, colName, colDistance, colMovingTime, colStartDateLocal,
		colElevationGain, colType, colAvgHeartrate, colMaxHeartrate,
		colAvgSpeed, colMaxSpeed,
		colDate, colHour, colWeekday, colWeek, colMonth, colYear,
		colDistanceKM, colMovingTimeMin, colPace, colPaceZone, colTimeOfDay,
	}
}

func encodeRow(a model.Activity) []string {
	return []string{
		strconv.FormatInt(a.ID, 10),
		a.Name,
		formatFloat(a.Distance),
		strconv.FormatInt(a.MovingTime, 10),
		a.StartDateLocal.Format(time.RFC3339),
		formatFloat(a.TotalElevationGain),
		a.Type,
		formatFloat(a.AverageHeartrate),
		formatFloat(a.MaxHeartrate),
		formatFloat(a.AverageSpeed),
		formatFloat(a.MaxSpeed),
		a.Date.Format(dateLayout),
		strconv.Itoa(a.Hour),
		a.Weekday,
		strconv.Itoa(a.Week),
		strconv.Itoa(a.Month),
		strconv.Itoa(a.Year),
		formatFloat(a.DistanceKM),
		formatFloat(a.MovingTimeMin),
		formatFloat(a.Pace),
		a.PaceZone,
		a.TimeOfDay,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// schema maps the stored header onto column positions, so rows written
// by an older schema version still decode.
type schema struct {
	index map[string]int
}

func newSchema(header []string) (*schema, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	if _, ok := idx[colStartDateLocal]; !ok {
		return nil, fmt.Errorf("%w: missing column %s", ErrBadSnapshot, colStartDateLocal)
	}
	return &schema{index: idx}, nil
}

// missingDerived lists derived columns absent from the stored header,
// in recompute order.
func (s *schema) missingDerived() []string {
	var missing []string
	for _, name := range derivedColumns {
		if _, ok := s.index[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

func (s *schema) get(row []string, col string) (string, bool) {
	i, ok := s.index[col]
	if !ok || i >= len(row) {
		return "", false
	}
	return row[i], true
}

func (s *schema) str(row []string, col string) string {
	v, _ := s.get(row, col)
	return v
}

func (s *schema) float(row []string, col string) float64 {
	v, ok := s.get(row, col)
	if !ok || v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func (s *schema) int(row []string, col string) (int, bool) {
	v, ok := s.get(row, col)
	if !ok || v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// decodeRow reconstructs an Activity, recomputing any derived value the
// stored schema cannot supply. Recomputation follows dependency order:
// timestamp, calendar fields, pace, then the classifications.
func (s *schema) decodeRow(row []string) (model.Activity, error) {
	startRaw := s.str(row, colStartDateLocal)
	start, err := process.ParseStartDate(startRaw)
	if err != nil {
		return model.Activity{}, fmt.Errorf("invalid %s %q: %w", colStartDateLocal, startRaw, err)
	}

	id, _ := strconv.ParseInt(s.str(row, colID), 10, 64)
	movingTime, _ := strconv.ParseInt(s.str(row, colMovingTime), 10, 64)

	a := model.Activity{
		ID:                 id,
		Name:               s.str(row, colName),
		Distance:           s.float(row, colDistance),
		MovingTime:         movingTime,
		StartDateLocal:     start,
		TotalElevationGain: s.float(row, colElevationGain),
		Type:               s.str(row, colType),
		AverageHeartrate:   s.float(row, colAvgHeartrate),
		MaxHeartrate:       s.float(row, colMaxHeartrate),
		AverageSpeed:       s.float(row, colAvgSpeed),
		MaxSpeed:           s.float(row, colMaxSpeed),
	}

	if d, ok := s.get(row, colDate); ok {
		if parsed, err := time.Parse(dateLayout, d); err == nil {
			a.Date = parsed
		} else {
			a.Date = process.DateOf(start)
		}
	} else {
		a.Date = process.DateOf(start)
	}

	if h, ok := s.int(row, colHour); ok {
		a.Hour = h
	} else {
		a.Hour = start.Hour()
	}
	if wd, ok := s.get(row, colWeekday); ok && wd != "" {
		a.Weekday = wd
	} else {
		a.Weekday = start.Weekday().String()
	}
	if w, ok := s.int(row, colWeek); ok {
		a.Week = w
	} else {
		_, a.Week = start.ISOWeek()
	}
	if m, ok := s.int(row, colMonth); ok {
		a.Month = m
	} else {
		a.Month = int(start.Month())
	}
	if y, ok := s.int(row, colYear); ok {
		a.Year = y
	} else {
		a.Year = start.Year()
	}

	if _, ok := s.index[colDistanceKM]; ok {
		a.DistanceKM = s.float(row, colDistanceKM)
	} else {
		a.DistanceKM = a.Distance / 1000
	}
	if _, ok := s.index[colMovingTimeMin]; ok {
		a.MovingTimeMin = s.float(row, colMovingTimeMin)
	} else {
		a.MovingTimeMin = float64(a.MovingTime) / 60
	}
	if _, ok := s.index[colPace]; ok {
		a.Pace = s.float(row, colPace)
	} else {
		a.Pace = process.PaceMinPerKM(a.DistanceKM, a.MovingTimeMin)
	}
	if z, ok := s.get(row, colPaceZone); ok && z != "" {
		a.PaceZone = z
	} else {
		a.PaceZone = string(classify.ForPace(a.Pace))
	}
	if tod, ok := s.get(row, colTimeOfDay); ok && tod != "" {
		a.TimeOfDay = tod
	} else {
		a.TimeOfDay = string(classify.ForHour(a.Hour))
	}

	return a, nil
}
