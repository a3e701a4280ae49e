package ingest

import (
	"bytes"
	"fmt"

	"github.com/2beens/fitassist/internal/jsonvalue"
)

// Table is the normalized tabular form of one metric family: an ordered list
// of rows sharing one column set. Columns are the union of row keys, in
// first-seen order; a row missing a column reads as null.
type Table struct {
	Family      Family
	Columns     []string
	Rows        []*jsonvalue.Map
	TimeColumns []string
	// Synthesized marks tables derived by heuristics rather than read from a source.
	Synthesized bool

	columnSet map[string]bool
}

func NewTable(family Family, rows ...*jsonvalue.Map) *Table {
	t := &Table{
		Family:    family,
		Rows:      []*jsonvalue.Map{},
		columnSet: map[string]bool{},
	}
	t.Append(rows...)
	return t
}

func (t *Table) Append(rows ...*jsonvalue.Map) {
	for _, row := range rows {
		if row == nil {
			continue
		}
		t.Rows = append(t.Rows, row)
		t.addColumns(row.Keys()...)
	}
}

// AppendTable appends other's rows, keeping their order.
func (t *Table) AppendTable(other *Table) {
	if other == nil {
		return
	}
	t.Append(other.Rows...)
	for _, c := range other.TimeColumns {
		t.markTimeColumn(c)
	}
	t.Synthesized = t.Synthesized || other.Synthesized
}

func (t *Table) addColumns(names ...string) {
	if t.columnSet == nil {
		t.columnSet = map[string]bool{}
	}
	for _, name := range names {
		if !t.columnSet[name] {
			t.columnSet[name] = true
			t.Columns = append(t.Columns, name)
		}
	}
}

func (t *Table) Len() int {
	return len(t.Rows)
}

func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

func (t *Table) HasColumn(name string) bool {
	return t.columnSet[name]
}

// Value returns the cell at (row, column), null when the row lacks the column.
func (t *Table) Value(row int, column string) jsonvalue.Value {
	v, _ := t.Rows[row].Get(column)
	return v
}

func (t *Table) Column(name string) []jsonvalue.Value {
	values := make([]jsonvalue.Value, 0, len(t.Rows))
	for i := range t.Rows {
		values = append(values, t.Value(i, name))
	}
	return values
}

// SetColumn sets column name on every row to fn(row).
func (t *Table) SetColumn(name string, fn func(row *jsonvalue.Map) jsonvalue.Value) {
	for _, row := range t.Rows {
		row.Set(name, fn(row))
	}
	if len(t.Rows) > 0 {
		t.addColumns(name)
	}
}

// MarkSynthesized flags the table, and every row so the flag survives persistence.
func (t *Table) MarkSynthesized() {
	t.Synthesized = true
	t.SetColumn(ColumnSynthesized, func(*jsonvalue.Map) jsonvalue.Value {
		return jsonvalue.FromBool(true)
	})
}

func (t *Table) allRowsSynthesized() bool {
	if t.Empty() {
		return false
	}
	for _, row := range t.Rows {
		v, _ := row.Get(ColumnSynthesized)
		if b, ok := v.Bool(); !ok || !b {
			return false
		}
	}
	return true
}

func (t *Table) IsTimeColumn(name string) bool {
	for _, c := range t.TimeColumns {
		if c == name {
			return true
		}
	}
	return false
}

func (t *Table) markTimeColumn(name string) {
	if !t.IsTimeColumn(name) {
		t.TimeColumns = append(t.TimeColumns, name)
	}
}

// MarshalJSON renders the table as an array of row objects, time values as RFC 3339 text.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range t.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		rowJson, err := row.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("marshal row %d: %w", i, err)
		}
		buf.Write(rowJson)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// DecodeRows decodes a JSON array of objects, e.g. a persisted snapshot.
// Non-object elements are kept as single-column type marker rows.
func DecodeRows(data []byte) ([]*jsonvalue.Map, error) {
	v, err := jsonvalue.Decode(data)
	if err != nil {
		return nil, err
	}
	items, ok := v.List()
	if !ok {
		return nil, fmt.Errorf("expected a json array of rows, got %s", v.Kind())
	}
	return tabulateRecords(items), nil
}

// TableFromJSON decodes persisted rows back into a table and re-applies
// time coercion so date columns are comparable again.
func TableFromJSON(family Family, data []byte) (*Table, error) {
	rows, err := DecodeRows(data)
	if err != nil {
		return nil, err
	}
	t := NewTable(family, rows...)
	t.Synthesized = t.allRowsSynthesized()
	CoerceTimeColumns(t, family == FamilyActivities)
	return t, nil
}
