package analysis

import (
	"sort"
	"time"

	"github.com/2beens/fitassist/internal/ingest"
)

type AcclimatizationPoint struct {
	Date     string  `json:"date"`
	Heat     float64 `json:"heat"`
	Altitude float64 `json:"altitude"`
}

type HeatAltitudeAnalysis struct {
	Points          []AcclimatizationPoint `json:"points"`
	AverageHeat     float64                `json:"average_heat"`
	AverageAltitude float64                `json:"average_altitude"`
	Latest          *AcclimatizationPoint  `json:"latest,omitempty"`
	Synthesized     bool                   `json:"synthesized"`
}

// HeatAltitudeTrend reports acclimatization per day over the rows newer than
// now-days. Several rows of one day are averaged.
func HeatAltitudeTrend(t *ingest.Table, days int, now time.Time) *HeatAltitudeAnalysis {
	cutoff := now.AddDate(0, 0, -days)
	dateColumns := append([]string{ingest.ColumnCalendarDate, ingest.ColumnTimestamp, ingest.ColumnDate}, t.TimeColumns...)

	type sums struct {
		heat, altitude float64
		n              int
	}
	perDay := map[string]*sums{}
	for _, row := range t.Rows {
		at, ok := rowTime(row, dateColumns...)
		if !ok || !at.After(cutoff) {
			continue
		}
		key := at.Format(time.DateOnly)
		s, ok := perDay[key]
		if !ok {
			s = &sums{}
			perDay[key] = s
		}
		s.heat += ingest.HeatAcclimatization(row)
		s.altitude += ingest.AltitudeAcclimatization(row)
		s.n++
	}

	analysis := &HeatAltitudeAnalysis{
		Points:      make([]AcclimatizationPoint, 0, len(perDay)),
		Synthesized: t.Synthesized,
	}
	for day, s := range perDay {
		analysis.Points = append(analysis.Points, AcclimatizationPoint{
			Date:     day,
			Heat:     s.heat / float64(s.n),
			Altitude: s.altitude / float64(s.n),
		})
	}
	sort.Slice(analysis.Points, func(i, j int) bool {
		return analysis.Points[i].Date < analysis.Points[j].Date
	})

	if len(analysis.Points) == 0 {
		return analysis
	}
	for _, p := range analysis.Points {
		analysis.AverageHeat += p.Heat
		analysis.AverageAltitude += p.Altitude
	}
	analysis.AverageHeat /= float64(len(analysis.Points))
	analysis.AverageAltitude /= float64(len(analysis.Points))
	latest := analysis.Points[len(analysis.Points)-1]
	analysis.Latest = &latest
	return analysis
}
