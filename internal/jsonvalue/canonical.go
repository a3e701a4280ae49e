package jsonvalue

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Canonical renders v as a deterministic key: object keys are sorted, numbers
// are normalized so 1500 and 1500.0 agree, and times are written in UTC.
// Values that are Equal have the same canonical form.
func Canonical(v Value) string {
	var sb strings.Builder
	writeCanonical(&sb, v)
	return sb.String()
}

// CanonicalRow is the canonical form of a row over columns; a missing cell reads as null.
func CanonicalRow(row *Map, columns []string) string {
	sorted := append([]string(nil), columns...)
	sort.Strings(sorted)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, c := range sorted {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Quote(c))
		sb.WriteByte(':')
		v, _ := row.Get(c)
		writeCanonical(&sb, v)
	}
	sb.WriteByte('}')
	return sb.String()
}

func writeCanonical(sb *strings.Builder, v Value) {
	switch v.kind {
	case Null:
		sb.WriteString("null")
	case Bool:
		sb.WriteString(strconv.FormatBool(v.b))
	case Number:
		if i, ok := v.Int(); ok {
			sb.WriteString("n:" + strconv.FormatInt(i, 10))
		} else if f, ok := v.Float(); ok {
			sb.WriteString("n:" + strconv.FormatFloat(f, 'g', -1, 64))
		} else {
			sb.WriteString("n:" + v.text)
		}
	case String:
		sb.WriteString(strconv.Quote(v.text))
	case Time:
		sb.WriteString("t:" + v.t.UTC().Format(time.RFC3339Nano))
	case List:
		sb.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCanonical(sb, item)
		}
		sb.WriteByte(']')
	case Object:
		sb.WriteString(CanonicalRow(v.obj, v.obj.Keys()))
	}
}
