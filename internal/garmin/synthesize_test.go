package garmin_test

import (
	"testing"

	"github.com/2beens/fitassist/internal/garmin"
	"github.com/2beens/fitassist/internal/ingest"
	"github.com/2beens/fitassist/internal/jsonvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activitiesTable(t *testing.T, payload string) *ingest.Table {
	t.Helper()
	v, err := jsonvalue.DecodeString(payload)
	require.NoError(t, err)
	tbl := ingest.NewTable(ingest.FamilyActivities, ingest.NormalizeRecords(v)...)
	ingest.CoerceTimeColumns(tbl, true)
	return tbl
}

func TestSynthesizeRacePredictions_WeeklyPace(t *testing.T) {
	activities := activitiesTable(t, `[
		{"activityId": 1, "activityType": "running", "startTimeLocal": "2024-03-04 07:00:00", "distance": 10000, "duration": 3000},
		{"activityId": 2, "activityType": {"typeKey": "trail_running"}, "startTimeLocal": "2024-03-06 07:00:00", "distance": 10000, "duration": 3400},
		{"activityId": 3, "activityType": "cycling", "startTimeLocal": "2024-03-06 17:00:00", "distance": 40000, "duration": 4000},
		{"activityId": 4, "activityType": "running", "beginTimestamp": 1709539200000, "distance": 5000, "duration": 1200},
		{"activityId": 5, "activityType": "running", "startTimeLocal": "2024-02-26 07:00:00", "distance": 8000, "duration": 2400},
		{"activityId": 6, "activityType": "running", "startTimeLocal": "2024-02-20 07:00:00", "distance": 0, "duration": 600}
	]`)

	tbl := garmin.SynthesizeRacePredictions(activities, day("2024-03-10"))
	require.Equal(t, 2, tbl.Len())
	assert.True(t, tbl.Synthesized)
	assert.True(t, tbl.IsTimeColumn(ingest.ColumnTimestamp))

	// week of 2024-02-26: 0.3 s/m
	assert.Equal(t, jsonvalue.FromInt(1575), tbl.Value(0, "raceTime5K"))
	assert.Equal(t, jsonvalue.FromString("26:15"), tbl.Value(0, "raceTime5K_formatted"))

	// week of 2024-03-04: 7600s over 25000m
	assert.Equal(t, jsonvalue.FromInt(1596), tbl.Value(1, "raceTime5K"))
	assert.Equal(t, jsonvalue.FromInt(14751), tbl.Value(1, "raceTimeMarathon"))
	ts, ok := tbl.Value(1, ingest.ColumnTimestamp).Time()
	require.True(t, ok)
	assert.Equal(t, "2024-03-06", ts.Format("2006-01-02"))
}

func TestSynthesizeRacePredictions_NoRunsDefault(t *testing.T) {
	activities := activitiesTable(t, `[{"activityId": 3, "activityType": "swimming", "startTimeLocal": "2024-03-06 17:00:00", "distance": 1500, "duration": 1800}]`)

	tbl := garmin.SynthesizeRacePredictions(activities, day("2024-03-10"))
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, jsonvalue.FromString("25:00"), tbl.Value(0, "raceTime5K_formatted"))
	assert.Equal(t, jsonvalue.FromString("50:00"), tbl.Value(0, "raceTime10K_formatted"))
	assert.Equal(t, jsonvalue.FromString("105:00"), tbl.Value(0, "raceTimeHalf_formatted"))
	assert.Equal(t, jsonvalue.FromString("240:00"), tbl.Value(0, "raceTimeMarathon_formatted"))
	ts, _ := tbl.Value(0, ingest.ColumnTimestamp).Time()
	assert.Equal(t, "2024-03-10", ts.Format("2006-01-02"))
}

func TestSynthesizeHeatAltitude(t *testing.T) {
	activities := activitiesTable(t, `[
		{"activityId": 1, "startTimeLocal": "2024-07-02 07:00:00", "maxTemperature": 29, "elevationGain": 300},
		{"activityId": 2, "startTimeLocal": "2024-07-02 18:00:00", "maxTemperature": 33, "elevationGain": 400},
		{"activityId": 3, "startTimeLocal": "2024-07-01 07:00:00", "avgTemperature": 20, "elevationGain": 9000},
		{"activityId": 4, "startTimeLocal": "2024-07-03 07:00:00", "maxTemperature": 60}
	]`)

	tbl := garmin.SynthesizeHeatAltitude(activities, day("2024-07-10"))
	require.Equal(t, 3, tbl.Len())
	assert.True(t, tbl.Synthesized)

	assert.Equal(t, jsonvalue.FromFloat(0), tbl.Value(0, ingest.ColumnHeatAcclimatization))
	assert.Equal(t, jsonvalue.FromFloat(100), tbl.Value(0, ingest.ColumnAltitudeAcclimatization))
	assert.Equal(t, jsonvalue.FromFloat(80), tbl.Value(1, ingest.ColumnHeatAcclimatization))
	assert.Equal(t, jsonvalue.FromFloat(14), tbl.Value(1, ingest.ColumnAltitudeAcclimatization))
	assert.Equal(t, jsonvalue.FromFloat(100), tbl.Value(2, ingest.ColumnHeatAcclimatization))
	assert.Equal(t, jsonvalue.FromFloat(0), tbl.Value(2, ingest.ColumnAltitudeAcclimatization))

	empty := garmin.SynthesizeHeatAltitude(ingest.NewTable(ingest.FamilyActivities), day("2024-07-10"))
	require.Equal(t, 1, empty.Len())
	assert.Equal(t, jsonvalue.FromFloat(0), empty.Value(0, ingest.ColumnHeatAcclimatization))
}

func TestSynthesizeTrainingHistory(t *testing.T) {
	payload, err := jsonvalue.DecodeString(`[
		{"calendarDate": "2024-03-09", "vo2maxValue": 85},
		{"generic": {"vo2MaxPreciseValue": 58.3}},
		{"vo2maxValue": 0}
	]`)
	require.NoError(t, err)

	tbl := garmin.SynthesizeTrainingHistory(payload, day("2024-03-10"))
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, jsonvalue.FromString(ingest.StatusUnknown), tbl.Value(0, ingest.ColumnTrainingStatus))
	assert.Equal(t, jsonvalue.FromString(ingest.StatusUnknown), tbl.Value(1, ingest.ColumnTrainingStatus))
	assert.Equal(t, jsonvalue.FromFloat(85), tbl.Value(0, "vo2max"))
	assert.Equal(t, jsonvalue.FromFloat(58.3), tbl.Value(1, "vo2max"))
	first, _ := tbl.Value(0, ingest.ColumnCalendarDate).Time()
	assert.Equal(t, "2024-03-09", first.Format("2006-01-02"))
	second, _ := tbl.Value(1, ingest.ColumnCalendarDate).Time()
	assert.Equal(t, "2024-03-10", second.Format("2006-01-02"))

	unknown := garmin.SynthesizeTrainingHistory(jsonvalue.Value{}, day("2024-03-10"))
	require.Equal(t, 1, unknown.Len())
	assert.Equal(t, jsonvalue.FromString(ingest.StatusUnknown), unknown.Value(0, ingest.ColumnTrainingStatus))
}

func TestDateRange_Days(t *testing.T) {
	days := garmin.DateRange{Start: day("2024-02-27"), End: day("2024-03-01")}.Days()
	require.Len(t, days, 4)
	assert.Equal(t, "2024-02-29", days[2].Format("2006-01-02"))
	assert.Empty(t, garmin.DateRange{Start: day("2024-03-02"), End: day("2024-03-01")}.Days())
}
