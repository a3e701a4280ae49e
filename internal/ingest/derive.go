package ingest

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/2beens/fitassist/internal/jsonvalue"
	"github.com/2beens/fitassist/pkg"

	log "github.com/sirupsen/logrus"
)

const (
	ColumnCalendarDate            = "calendarDate"
	ColumnTrainingStatus          = "trainingStatus"
	ColumnDateUnknown             = "dateUnknown"
	ColumnHeatAcclimatization     = "heatAcclimatization"
	ColumnAltitudeAcclimatization = "altitudeAcclimatization"
	ColumnActivityID              = "activityId"

	formattedSuffix = "_formatted"
)

const (
	StatusProductive   = "productive"
	StatusMaintaining  = "maintaining"
	StatusRecovery     = "recovery"
	StatusUnproductive = "unproductive"
	StatusUnknown      = "unknown"
)

// RaceTimeColumns are the prediction columns, in seconds.
var RaceTimeColumns = []string{"raceTime5K", "raceTime10K", "raceTimeHalf", "raceTimeMarathon"}

var (
	trainingScoreColumns   = []string{"overallScore", "enduranceScore", "score", "trainingScore"}
	heatDirectColumns      = []string{ColumnHeatAcclimatization, "heatAcclimationPercentage"}
	temperatureColumns     = []string{"maxTemperature", "avgTemperature", "temperature"}
	altitudeDirectColumns  = []string{ColumnAltitudeAcclimatization}
	elevationColumns       = []string{"altitudeAcclimation", "elevationGain", "altitude", "elevation"}
	trainingScoreFileToken = "enduranceScore"
	heatLoadFileToken      = "acuteTrainingLoad"
)

// ClassifyScore maps a numeric training score to a training status.
func ClassifyScore(score float64) string {
	switch {
	case score > 80:
		return StatusProductive
	case score > 60:
		return StatusMaintaining
	case score > 40:
		return StatusRecovery
	default:
		return StatusUnproductive
	}
}

// Clamp limits v to [0, 100]. NaN reads as 0.
func Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

// HeatAcclimatization reads a direct acclimatization value, or derives one
// from temperature: 10 points per degree above 25°C.
func HeatAcclimatization(row *jsonvalue.Map) float64 {
	if v, ok := numberField(row, heatDirectColumns...); ok {
		return Clamp(v)
	}
	if t, ok := numberField(row, temperatureColumns...); ok && t > 25 {
		return Clamp((t - 25) * 10)
	}
	return 0
}

// AltitudeAcclimatization reads a direct acclimatization value, or derives
// one from elevation: one point per 50m above 500m.
func AltitudeAcclimatization(row *jsonvalue.Map) float64 {
	if v, ok := numberField(row, altitudeDirectColumns...); ok {
		return Clamp(v)
	}
	if e, ok := numberField(row, elevationColumns...); ok && e > 500 {
		return Clamp(e / 50)
	}
	return 0
}

// TrainingStatus keeps an explicit status, otherwise classifies the first score found.
func TrainingStatus(row *jsonvalue.Map) string {
	if v, ok := row.Get(ColumnTrainingStatus); ok {
		if s, ok := v.Str(); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	if score, ok := numberField(row, trainingScoreColumns...); ok {
		return ClassifyScore(score)
	}
	return StatusUnknown
}

func numberField(row *jsonvalue.Map, columns ...string) (float64, bool) {
	for _, c := range columns {
		v, ok := row.Get(c)
		if !ok {
			continue
		}
		if f, ok := v.Float(); ok {
			return f, true
		}
	}
	return 0, false
}

func fileNameContains(path, token string) bool {
	return strings.Contains(strings.ToLower(filepath.Base(path)), strings.ToLower(token))
}

// FormatRaceTimes adds a minutes:seconds <column>_formatted column for every race time column present.
func FormatRaceTimes(t *Table) {
	for _, column := range RaceTimeColumns {
		if !t.HasColumn(column) {
			continue
		}
		t.SetColumn(column+formattedSuffix, func(row *jsonvalue.Map) jsonvalue.Value {
			v, _ := row.Get(column)
			seconds, ok := v.Int()
			if !ok {
				return jsonvalue.Value{}
			}
			return jsonvalue.FromString(pkg.FormatMinSec(seconds))
		})
	}
}

func deriveTrainingHistory(t *Table, path string) {
	if fileNameContains(path, trainingScoreFileToken) {
		synthesizeDates(t, path)
	}
	t.SetColumn(ColumnTrainingStatus, func(row *jsonvalue.Map) jsonvalue.Value {
		return jsonvalue.FromString(TrainingStatus(row))
	})
}

func deriveHeatAltitude(t *Table, path string) {
	if fileNameContains(path, heatLoadFileToken) {
		synthesizeDates(t, path)
	}
	t.SetColumn(ColumnHeatAcclimatization, func(row *jsonvalue.Map) jsonvalue.Value {
		return jsonvalue.FromFloat(HeatAcclimatization(row))
	})
	t.SetColumn(ColumnAltitudeAcclimatization, func(row *jsonvalue.Map) jsonvalue.Value {
		return jsonvalue.FromFloat(AltitudeAcclimatization(row))
	})
}

// synthesizeDates fills calendarDate and timestamp of rows lacking them with
// the date embedded in the file name, one day further per row in file order.
// Without such a date the rows are explicitly marked with dateUnknown.
func synthesizeDates(t *Table, path string) {
	start, ok := DateFromFilename(path)
	if !ok {
		log.Warnf("%s: no date in file name %s, rows marked with unknown date", t.Family, filepath.Base(path))
	}

	for i, row := range t.Rows {
		if !ok {
			if isMissing(row, ColumnCalendarDate) {
				row.Set(ColumnCalendarDate, jsonvalue.Value{})
				row.Set(ColumnDateUnknown, jsonvalue.FromBool(true))
			}
			if isMissing(row, ColumnTimestamp) {
				row.Set(ColumnTimestamp, jsonvalue.Value{})
			}
			continue
		}

		day := jsonvalue.FromTime(start.AddDate(0, 0, i))
		if isMissing(row, ColumnCalendarDate) {
			row.Set(ColumnCalendarDate, day)
		}
		if isMissing(row, ColumnTimestamp) {
			row.Set(ColumnTimestamp, day)
		}
	}
	t.addColumns(ColumnCalendarDate, ColumnTimestamp)
	if !ok && len(t.Rows) > 0 {
		// every row carries the marker
		for _, row := range t.Rows {
			if !row.Has(ColumnDateUnknown) {
				row.Set(ColumnDateUnknown, jsonvalue.FromBool(false))
			}
		}
		t.addColumns(ColumnDateUnknown)
	}
}

func isMissing(row *jsonvalue.Map, column string) bool {
	v, ok := row.Get(column)
	return !ok || v.IsNull()
}
