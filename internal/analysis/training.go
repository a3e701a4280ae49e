package analysis

import (
	"sort"
	"time"

	"github.com/2beens/fitassist/internal/ingest"
	"github.com/2beens/fitassist/internal/jsonvalue"
)

type TrainingStatusAnalysis struct {
	StatusCounts map[string]int    `json:"status_counts"`
	DailyStatus  map[string]string `json:"daily_status"`
	// rows left out because their date is unknown
	UndatedRows int `json:"undated_rows,omitempty"`
}

// AnalyzeTrainingStatus counts training statuses of the rows newer than
// now-days and picks the most frequent status per calendar day (ties go to
// the alphabetically first status).
func AnalyzeTrainingStatus(t *ingest.Table, days int, now time.Time) *TrainingStatusAnalysis {
	cutoff := now.AddDate(0, 0, -days)
	analysis := &TrainingStatusAnalysis{
		StatusCounts: map[string]int{},
		DailyStatus:  map[string]string{},
	}

	perDay := map[string]map[string]int{}
	for _, row := range t.Rows {
		at, ok := rowTime(row, ingest.ColumnTimestamp, ingest.ColumnCalendarDate)
		if !ok {
			analysis.UndatedRows++
			continue
		}
		if !at.After(cutoff) {
			continue
		}

		status := ingest.TrainingStatus(row)
		analysis.StatusCounts[status]++

		day, ok := rowTime(row, ingest.ColumnCalendarDate, ingest.ColumnTimestamp)
		if !ok {
			continue
		}
		key := day.Format(time.DateOnly)
		if perDay[key] == nil {
			perDay[key] = map[string]int{}
		}
		perDay[key][status]++
	}

	for day, counts := range perDay {
		analysis.DailyStatus[day] = dominant(counts)
	}
	return analysis
}

func dominant(counts map[string]int) string {
	statuses := make([]string, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	best := ""
	for _, status := range statuses {
		if best == "" || counts[status] > counts[best] {
			best = status
		}
	}
	return best
}

// RecentStatusCounts counts training statuses over the last n rows by date.
func RecentStatusCounts(t *ingest.Table, n int) map[string]int {
	type dated struct {
		at     time.Time
		status string
	}
	var rows []dated
	for _, row := range t.Rows {
		at, ok := rowTime(row, ingest.ColumnTimestamp, ingest.ColumnCalendarDate)
		if !ok {
			continue
		}
		rows = append(rows, dated{at: at, status: ingest.TrainingStatus(row)})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].at.Before(rows[j].at)
	})
	if len(rows) > n {
		rows = rows[len(rows)-n:]
	}

	counts := map[string]int{}
	for _, r := range rows {
		counts[r.status]++
	}
	return counts
}

// rowTime returns the first time value among columns.
func rowTime(row *jsonvalue.Map, columns ...string) (time.Time, bool) {
	for _, column := range columns {
		v, ok := row.Get(column)
		if !ok {
			continue
		}
		if at, ok := v.Time(); ok {
			return at, true
		}
	}
	return time.Time{}, false
}
