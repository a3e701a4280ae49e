package ingest

import (
	"github.com/2beens/fitassist/internal/jsonvalue"
	"github.com/2beens/fitassist/pkg"

	log "github.com/sirupsen/logrus"
)

const (
	ColumnDate            = "date"
	ColumnTimestamp       = "timestamp"
	ColumnValue           = "value"
	ColumnRawData         = "raw_data"
	ColumnUnknownTypeData = "unknown_type_data"
	ColumnSynthesized     = "synthesized"

	rawDataPreviewLen = 100
)

// Nested array keys unwrapped by NormalizeDay, per remote metric.
var (
	HeartRateNestedKeys       = []string{"heartRateValues", "values"}
	StressNestedKeys          = []string{"stressValuesArray", "stressValues", "values"}
	SleepLevelsNestedKeys     = []string{"sleepLevels"}
	BodyCompositionNestedKeys = []string{"dateWeightList"}
)

// NormalizeDay flattens the payload of one day (or one record) into rows,
// each tagged with date (left untagged when date is empty). It never fails:
// shapes it cannot interpret end up as a single row carrying a raw preview
// or a type marker.
//
// Of nestedKeys, the first one present on an object payload decides: a
// non-empty list under it is unwrapped, anything else keeps the object whole.
func NormalizeDay(payload jsonvalue.Value, date string, nestedKeys ...string) []*jsonvalue.Map {
	switch payload.Kind() {
	case jsonvalue.Null:
		log.Debugf("normalize: no data for %s", date)
		return nil

	case jsonvalue.String:
		s, _ := payload.Str()
		decoded, err := jsonvalue.DecodeString(s)
		if err != nil {
			log.Warnf("normalize: payload for %s is not valid json, keeping a preview", date)
			return []*jsonvalue.Map{
				tagged(date, ColumnRawData, pkg.Preview(s, rawDataPreviewLen)),
			}
		}
		return NormalizeDay(decoded, date, nestedKeys...)

	case jsonvalue.List:
		items, _ := payload.List()
		return normalizeItems(items, date)

	case jsonvalue.Object:
		m, _ := payload.Map()
		for _, key := range nestedKeys {
			nested, ok := m.Get(key)
			if !ok {
				continue
			}
			if items, ok := nested.List(); ok && len(items) > 0 {
				return normalizeItems(items, date)
			}
			break
		}
		return []*jsonvalue.Map{withDate(m, date)}

	default:
		log.Debugf("normalize: unexpected %s payload for %s", payload.Kind(), date)
		return []*jsonvalue.Map{
			tagged(date, ColumnUnknownTypeData, payload.Kind().String()),
		}
	}
}

// normalizeItems decides per element: objects become rows, [x, y] pairs
// become timestamp/value rows, everything else a single value row.
func normalizeItems(items []jsonvalue.Value, date string) []*jsonvalue.Map {
	rows := make([]*jsonvalue.Map, 0, len(items))
	for _, item := range items {
		if m, ok := item.Map(); ok {
			rows = append(rows, withDate(m, date))
			continue
		}
		if pair, ok := item.List(); ok && len(pair) >= 2 {
			rows = append(rows, tagged(date,
				ColumnTimestamp, pair[0],
				ColumnValue, pair[1],
			))
			continue
		}
		rows = append(rows, tagged(date, ColumnValue, item))
	}
	return rows
}

// NormalizeRecords applies the NormalizeDay shape rules to a payload that
// spans a whole range rather than one day, without date tagging.
func NormalizeRecords(payload jsonvalue.Value, nestedKeys ...string) []*jsonvalue.Map {
	return NormalizeDay(payload, "", nestedKeys...)
}

func withDate(m *jsonvalue.Map, date string) *jsonvalue.Map {
	row := m.Clone()
	if date != "" {
		row.Set(ColumnDate, jsonvalue.FromString(date))
	}
	return row
}

func tagged(date string, pairs ...any) *jsonvalue.Map {
	if date == "" {
		return jsonvalue.MapOf(pairs...)
	}
	return jsonvalue.MapOf(append([]any{ColumnDate, date}, pairs...)...)
}

// tabulateRecords turns the records of an export file into rows. A record
// that is not an object becomes a type marker row instead of being dropped.
func tabulateRecords(items []jsonvalue.Value) []*jsonvalue.Map {
	rows := make([]*jsonvalue.Map, 0, len(items))
	for _, item := range items {
		if m, ok := item.Map(); ok {
			rows = append(rows, m.Clone())
			continue
		}
		rows = append(rows, jsonvalue.MapOf(ColumnUnknownTypeData, item.Kind().String()))
	}
	return rows
}
