package analysis

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/2beens/fitassist/internal/ingest"
	"github.com/2beens/fitassist/internal/jsonvalue"
	"github.com/2beens/fitassist/pkg"
)

var (
	ErrInvalidDistance = errors.New("invalid distance")
	ErrNoData          = errors.New("no usable rows")
)

const (
	Distance5K       = "5K"
	Distance10K      = "10K"
	DistanceHalf     = "Half"
	DistanceMarathon = "Marathon"

	insufficientDataMessage = "Insufficient data for the selected date range."
)

var Distances = []string{Distance5K, Distance10K, DistanceHalf, DistanceMarathon}

var distanceColumns = map[string]string{
	Distance5K:       "raceTime5K",
	Distance10K:      "raceTime10K",
	DistanceHalf:     "raceTimeHalf",
	DistanceMarathon: "raceTimeMarathon",
}

// latest predictions are keyed by these labels
var distanceLabels = map[string]string{
	Distance5K:       "5K",
	Distance10K:      "10K",
	DistanceHalf:     "Half Marathon",
	DistanceMarathon: "Marathon",
}

// DistanceColumn maps 5K, 10K, Half or Marathon to its prediction column.
func DistanceColumn(distance string) (string, error) {
	column, ok := distanceColumns[distance]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidDistance, distance)
	}
	return column, nil
}

type Improvement struct {
	Distance           string    `json:"distance"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	InsufficientData   bool      `json:"insufficient_data,omitempty"`
	Message            string    `json:"message,omitempty"`
	StartTime          string    `json:"start_time,omitempty"`
	EndTime            string    `json:"end_time,omitempty"`
	TimeDifference     string    `json:"time_difference,omitempty"`
	TimeDiffSeconds    int64     `json:"time_diff_seconds"`
	PercentImprovement float64   `json:"percent_improvement"`
	Improved           bool      `json:"improved"`
}

type PlotData struct {
	Dates []string `json:"dates"`
	Times []int64  `json:"times"`
}

type predictionPoint struct {
	at      time.Time
	seconds int64
}

// LatestPredictions returns the formatted predictions of the row with the
// latest timestamp, keyed "5K", "10K", "Half Marathon" and "Marathon".
func LatestPredictions(t *ingest.Table) (map[string]string, error) {
	latest := -1
	var latestAt time.Time
	for i := range t.Rows {
		at, ok := t.Value(i, ingest.ColumnTimestamp).Time()
		if !ok {
			continue
		}
		if latest < 0 || at.After(latestAt) {
			latest, latestAt = i, at
		}
	}
	if latest < 0 {
		return nil, fmt.Errorf("%w: no dated race predictions", ErrNoData)
	}

	predictions := make(map[string]string, len(Distances))
	for _, distance := range Distances {
		column := distanceColumns[distance]
		predictions[distanceLabels[distance]] = formattedPrediction(t.Rows[latest], column)
	}
	return predictions, nil
}

func formattedPrediction(row *jsonvalue.Map, column string) string {
	if v, ok := row.Get(column + "_formatted"); ok {
		if s, ok := v.Str(); ok {
			return s
		}
	}
	v, _ := row.Get(column)
	if seconds, ok := v.Int(); ok {
		return pkg.FormatMinSec(seconds)
	}
	return ""
}

// predictionSeries collects the (timestamp, seconds) points of column, in time order.
// Rows without a timestamp or a whole-second value are left out.
func predictionSeries(t *ingest.Table, column string) []predictionPoint {
	var points []predictionPoint
	for i := range t.Rows {
		at, ok := t.Value(i, ingest.ColumnTimestamp).Time()
		if !ok {
			continue
		}
		seconds, ok := t.Value(i, column).Int()
		if !ok {
			continue
		}
		points = append(points, predictionPoint{at: at, seconds: seconds})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].at.Before(points[j].at)
	})
	return points
}

// CalculateImprovement compares the earliest and the latest prediction for
// distance within [start, end]. A zero start or end means unbounded.
func CalculateImprovement(t *ingest.Table, distance string, start, end time.Time) (*Improvement, error) {
	column, err := DistanceColumn(distance)
	if err != nil {
		return nil, err
	}

	var inRange []predictionPoint
	for _, p := range predictionSeries(t, column) {
		if !start.IsZero() && p.at.Before(start) {
			continue
		}
		if !end.IsZero() && p.at.After(end) {
			continue
		}
		inRange = append(inRange, p)
	}

	result := &Improvement{
		Distance:  distance,
		StartDate: start,
		EndDate:   end,
	}
	if len(inRange) < 2 {
		result.InsufficientData = true
		result.Message = insufficientDataMessage
		return result, nil
	}

	first, last := inRange[0], inRange[len(inRange)-1]
	if result.StartDate.IsZero() {
		result.StartDate = first.at
	}
	if result.EndDate.IsZero() {
		result.EndDate = last.at
	}

	// a lower time is an improvement
	diff := first.seconds - last.seconds
	result.StartTime = pkg.FormatMinSec(first.seconds)
	result.EndTime = pkg.FormatMinSec(last.seconds)
	result.TimeDifference = signedMinSec(diff)
	result.TimeDiffSeconds = diff
	if first.seconds != 0 {
		result.PercentImprovement = float64(diff) / float64(first.seconds) * 100
	}
	result.Improved = diff > 0
	return result, nil
}

func signedMinSec(seconds int64) string {
	if seconds < 0 {
		return "-" + pkg.FormatMinSec(-seconds)
	}
	return pkg.FormatMinSec(seconds)
}

// RaceTimeTrend lists the predictions for distance newer than now-days, oldest first.
func RaceTimeTrend(t *ingest.Table, distance string, days int, now time.Time) (*PlotData, error) {
	column, err := DistanceColumn(distance)
	if err != nil {
		return nil, err
	}

	cutoff := now.AddDate(0, 0, -days)
	plot := &PlotData{
		Dates: []string{},
		Times: []int64{},
	}
	for _, p := range predictionSeries(t, column) {
		if !p.at.After(cutoff) {
			continue
		}
		plot.Dates = append(plot.Dates, p.at.Format(time.DateOnly))
		plot.Times = append(plot.Times, p.seconds)
	}
	return plot, nil
}
