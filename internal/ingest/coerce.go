package ingest

import (
	"strings"
	"time"

	"github.com/2beens/fitassist/internal/jsonvalue"

	log "github.com/sirupsen/logrus"
)

// integers below this are not millisecond epochs (1973-03-03)
const minEpochMillis = 100_000_000_000

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// IsTimeLikeColumn reports whether a column name suggests a date/time value.
func IsTimeLikeColumn(name string) bool {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, "_formatted") || lower == ColumnRawData {
		return false
	}
	return strings.Contains(lower, "date") ||
		strings.Contains(lower, "time") ||
		strings.Contains(lower, "timestamp")
}

// ParseTime parses the textual date/time forms found in exports and API payloads.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CoerceTimeColumns converts every time-like column to time values. Text is
// parsed; integers are read as millisecond epochs only when epochMillis is
// set. A column is converted all or nothing: one bad value leaves it as is.
func CoerceTimeColumns(t *Table, epochMillis bool) {
	for _, column := range t.Columns {
		if !IsTimeLikeColumn(column) {
			continue
		}
		if coerceColumn(t, column, epochMillis) {
			t.markTimeColumn(column)
		}
	}
}

// AlignTimeColumns re-coerces a table concatenated from several files. A
// column converted in some files but not in others gets every parsable value
// converted, so equal source rows end up with equal values.
func AlignTimeColumns(t *Table, epochMillis bool) {
	for _, column := range t.Columns {
		if !IsTimeLikeColumn(column) {
			continue
		}
		if coerceColumn(t, column, epochMillis) {
			t.markTimeColumn(column)
			continue
		}
		if !t.IsTimeColumn(column) {
			continue
		}
		for _, row := range t.Rows {
			v, ok := row.Get(column)
			if !ok {
				continue
			}
			if ts, ok := timeValue(v, epochMillis); ok {
				row.Set(column, jsonvalue.FromTime(ts))
			}
		}
	}
}

func timeValue(v jsonvalue.Value, epochMillis bool) (time.Time, bool) {
	switch v.Kind() {
	case jsonvalue.Time:
		return v.Time()
	case jsonvalue.String:
		s, _ := v.Str()
		return ParseTime(s)
	case jsonvalue.Number:
		ms, ok := v.Int()
		if !epochMillis || !ok || ms < minEpochMillis {
			return time.Time{}, false
		}
		return time.UnixMilli(ms).UTC(), true
	}
	return time.Time{}, false
}

func coerceColumn(t *Table, column string, epochMillis bool) bool {
	converted := make([]jsonvalue.Value, len(t.Rows))
	seen := 0
	for i, row := range t.Rows {
		v, ok := row.Get(column)
		if !ok || v.IsNull() {
			converted[i] = jsonvalue.Value{}
			continue
		}
		seen++

		switch v.Kind() {
		case jsonvalue.Time:
			converted[i] = v
		case jsonvalue.String:
			s, _ := v.Str()
			ts, ok := ParseTime(s)
			if !ok {
				log.Warnf("%s: column %s has unparsable time %q, left as is", t.Family, column, s)
				return false
			}
			converted[i] = jsonvalue.FromTime(ts)
		case jsonvalue.Number:
			ms, ok := v.Int()
			if !epochMillis || !ok || ms < minEpochMillis {
				log.Tracef("%s: column %s holds plain numbers, left as is", t.Family, column)
				return false
			}
			converted[i] = jsonvalue.FromTime(time.UnixMilli(ms).UTC())
		default:
			log.Tracef("%s: column %s holds %s values, left as is", t.Family, column, v.Kind())
			return false
		}
	}
	if seen == 0 {
		return false
	}

	for i, row := range t.Rows {
		if _, ok := row.Get(column); ok {
			row.Set(column, converted[i])
		}
	}
	return true
}
