package garmin

import (
	"sort"
	"strings"
	"time"

	"github.com/2beens/fitassist/internal/ingest"
	"github.com/2beens/fitassist/internal/jsonvalue"
)

const (
	halfMarathonMeters = 21097
	marathonMeters     = 42195
)

// default projection when there are no runs to derive one from
var defaultRaceTimes = map[string]int64{
	"raceTime5K":       1500,
	"raceTime10K":      3000,
	"raceTimeHalf":     6300,
	"raceTimeMarathon": 14400,
}

// distance in meters and slowdown factor per race time column
var raceProjections = []struct {
	column   string
	meters   float64
	slowdown float64
}{
	{column: "raceTime5K", meters: 5000, slowdown: 1.05},
	{column: "raceTime10K", meters: 10000, slowdown: 1.08},
	{column: "raceTimeHalf", meters: halfMarathonMeters, slowdown: 1.10},
	{column: "raceTimeMarathon", meters: marathonMeters, slowdown: 1.15},
}

var activityStartColumns = []string{"startTimeLocal", "beginTimestamp", "startTimeGmt", "startTimeGMT", "calendarDate"}

// SynthesizeRacePredictions projects race times per ISO week of running
// activities: the week's average pace times the distance, slowed down by a
// fixed factor per distance.
func SynthesizeRacePredictions(activities *ingest.Table, now time.Time) *ingest.Table {
	type week struct {
		last     time.Time
		distance float64
		duration float64
	}
	weeks := map[[2]int]*week{}

	for _, row := range activities.Rows {
		if !strings.Contains(strings.ToLower(ActivityType(row)), "running") {
			continue
		}
		start, ok := ActivityStart(row)
		if !ok {
			continue
		}
		year, weekNum := start.ISOWeek()
		w, ok := weeks[[2]int{year, weekNum}]
		if !ok {
			w = &week{}
			weeks[[2]int{year, weekNum}] = w
		}
		if start.After(w.last) {
			w.last = start
		}
		w.distance += number(row, "distance")
		w.duration += number(row, "duration")
	}

	var ordered []*week
	for _, w := range weeks {
		if w.distance > 0 {
			ordered = append(ordered, w)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].last.Before(ordered[j].last)
	})

	t := ingest.NewTable(ingest.FamilyRacePredictions)
	for _, w := range ordered {
		pace := w.duration / w.distance
		row := jsonvalue.MapOf(ingest.ColumnTimestamp, truncateDay(w.last))
		for _, p := range raceProjections {
			row.Set(p.column, jsonvalue.FromInt(int64(p.meters*pace*p.slowdown)))
		}
		t.Append(row)
	}

	if t.Empty() {
		row := jsonvalue.MapOf(ingest.ColumnTimestamp, truncateDay(now))
		for _, p := range raceProjections {
			row.Set(p.column, jsonvalue.FromInt(defaultRaceTimes[p.column]))
		}
		t.Append(row)
	}

	ingest.FormatRaceTimes(t)
	return synthesized(t)
}

// SynthesizeHeatAltitude approximates acclimatization per day of activities,
// from the day's highest (or average) temperature and total elevation gain.
func SynthesizeHeatAltitude(activities *ingest.Table, now time.Time) *ingest.Table {
	type day struct {
		date       time.Time
		maxTemp    *float64
		avgTempSum float64
		avgTempN   int
		elevation  *float64
	}
	days := map[time.Time]*day{}

	for _, row := range activities.Rows {
		start, ok := ActivityStart(row)
		if !ok {
			continue
		}
		date := truncateDay(start)
		d, ok := days[date]
		if !ok {
			d = &day{date: date}
			days[date] = d
		}
		if v, ok := floatField(row, "maxTemperature"); ok && (d.maxTemp == nil || v > *d.maxTemp) {
			d.maxTemp = &v
		}
		if v, ok := floatField(row, "avgTemperature"); ok {
			d.avgTempSum += v
			d.avgTempN++
		}
		if v, ok := floatField(row, "elevationGain"); ok {
			sum := v
			if d.elevation != nil {
				sum += *d.elevation
			}
			d.elevation = &sum
		}
	}

	ordered := make([]*day, 0, len(days))
	for _, d := range days {
		ordered = append(ordered, d)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].date.Before(ordered[j].date)
	})

	t := ingest.NewTable(ingest.FamilyHeatAltitude)
	for _, d := range ordered {
		signals := jsonvalue.NewMap()
		if d.maxTemp != nil {
			signals.Set("maxTemperature", jsonvalue.FromFloat(*d.maxTemp))
		}
		if d.avgTempN > 0 {
			signals.Set("avgTemperature", jsonvalue.FromFloat(d.avgTempSum/float64(d.avgTempN)))
		}
		if d.elevation != nil {
			signals.Set("elevationGain", jsonvalue.FromFloat(*d.elevation))
		}
		t.Append(heatAltitudeRow(d.date, ingest.HeatAcclimatization(signals), ingest.AltitudeAcclimatization(signals)))
	}

	if t.Empty() {
		t.Append(heatAltitudeRow(truncateDay(now), 0, 0))
	}
	return synthesized(t)
}

func heatAltitudeRow(date time.Time, heat, altitude float64) *jsonvalue.Map {
	return jsonvalue.MapOf(
		ingest.ColumnTimestamp, date,
		ingest.ColumnCalendarDate, date,
		ingest.ColumnHeatAcclimatization, heat,
		ingest.ColumnAltitudeAcclimatization, altitude,
	)
}

// SynthesizeTrainingHistory turns VO2 max entries of a max metrics payload
// into training history rows. VO2 max is not a training score, so the
// status stays unknown and the reading is kept in the vo2max column.
func SynthesizeTrainingHistory(maxMetrics jsonvalue.Value, today time.Time) *ingest.Table {
	t := ingest.NewTable(ingest.FamilyTrainingHistory)
	for _, entry := range ingest.NormalizeRecords(maxMetrics) {
		vo2max, ok := vo2MaxOf(entry)
		if !ok || vo2max <= 0 {
			continue
		}
		date := today
		if v, ok := entry.Get(ingest.ColumnCalendarDate); ok {
			if s, ok := v.Str(); ok {
				if parsed, ok := ingest.ParseTime(s); ok {
					date = truncateDay(parsed)
				}
			}
		}
		t.Append(jsonvalue.MapOf(
			ingest.ColumnTimestamp, date,
			ingest.ColumnCalendarDate, date,
			ingest.ColumnTrainingStatus, ingest.StatusUnknown,
			"vo2max", vo2max,
		))
	}

	if t.Empty() {
		t.Append(jsonvalue.MapOf(
			ingest.ColumnTimestamp, truncateDay(today),
			ingest.ColumnCalendarDate, truncateDay(today),
			ingest.ColumnTrainingStatus, ingest.StatusUnknown,
		))
	}
	return synthesized(t)
}

func vo2MaxOf(entry *jsonvalue.Map) (float64, bool) {
	for _, key := range []string{"vo2maxValue", "vo2MaxValue", "vo2MaxPreciseValue"} {
		if v, ok := floatField(entry, key); ok {
			return v, true
		}
	}
	if generic, ok := entry.Get("generic"); ok {
		if m, ok := generic.Map(); ok {
			return vo2MaxOf(m)
		}
	}
	return 0, false
}

func synthesized(t *ingest.Table) *ingest.Table {
	t.MarkSynthesized()
	ingest.CoerceTimeColumns(t, false)
	return t
}

// ActivityType reads the activity type, given either as text or as an
// object carrying a typeKey.
func ActivityType(row *jsonvalue.Map) string {
	v, ok := row.Get("activityType")
	if !ok {
		return ""
	}
	if s, ok := v.Str(); ok {
		return s
	}
	if m, ok := v.Map(); ok {
		if key, ok := m.Get("typeKey"); ok {
			s, _ := key.Str()
			return s
		}
	}
	return ""
}

// ActivityStart reads the start of an activity from the first start column present.
func ActivityStart(row *jsonvalue.Map) (time.Time, bool) {
	for _, column := range activityStartColumns {
		v, ok := row.Get(column)
		if !ok {
			continue
		}
		switch v.Kind() {
		case jsonvalue.Time:
			t, _ := v.Time()
			return t, true
		case jsonvalue.String:
			s, _ := v.Str()
			if t, ok := ingest.ParseTime(s); ok {
				return t, true
			}
		case jsonvalue.Number:
			if ms, ok := v.Int(); ok {
				return time.UnixMilli(ms).UTC(), true
			}
		}
	}
	return time.Time{}, false
}

func floatField(row *jsonvalue.Map, column string) (float64, bool) {
	v, ok := row.Get(column)
	if !ok {
		return 0, false
	}
	return v.Float()
}

func number(row *jsonvalue.Map, column string) float64 {
	f, _ := floatField(row, column)
	return f
}
