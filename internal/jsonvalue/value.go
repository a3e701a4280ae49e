// Package jsonvalue models a decoded JSON document as an explicit tagged
// variant, so shape handling can switch on Kind instead of using reflection.
package jsonvalue

import (
	"math"
	"strconv"
	"time"
)

type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	List
	Object
	// Time is never produced by Decode; it marks a value coerced to a date/time.
	Time
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case List:
		return "list"
	case Object:
		return "object"
	case Time:
		return "time"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one decoded JSON value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	// text holds the string for String and the literal for Number
	text string
	t    time.Time
	list []Value
	obj  *Map
}

func FromBool(b bool) Value {
	return Value{kind: Bool, b: b}
}

func FromInt(i int64) Value {
	return Value{kind: Number, text: strconv.FormatInt(i, 10)}
}

func FromFloat(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{kind: Number, text: strconv.FormatFloat(f, 'f', -1, 64)}
}

// FromNumberLiteral keeps a JSON number literal as is (no float round trip).
func FromNumberLiteral(lit string) Value {
	return Value{kind: Number, text: lit}
}

func FromString(s string) Value {
	return Value{kind: String, text: s}
}

func FromTime(t time.Time) Value {
	return Value{kind: Time, t: t}
}

func FromList(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: List, list: items}
}

func FromMap(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: Object, obj: m}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == Null
}

func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == Bool
}

func (v Value) Str() (string, bool) {
	return v.text, v.kind == String
}

// NumberLiteral returns the JSON text of a number value.
func (v Value) NumberLiteral() (string, bool) {
	return v.text, v.kind == Number
}

// Int returns the value as an integer. Numbers with an integral value written
// in float notation (e.g. 1500.0) are accepted too.
func (v Value) Int() (int64, bool) {
	if v.kind != Number {
		return 0, false
	}
	if i, err := strconv.ParseInt(v.text, 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(v.text, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func (v Value) Float() (float64, bool) {
	if v.kind != Number {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// IsInteger reports whether the number literal has no fraction or exponent part.
func (v Value) IsInteger() bool {
	if v.kind != Number {
		return false
	}
	_, err := strconv.ParseInt(v.text, 10, 64)
	return err == nil
}

func (v Value) Time() (time.Time, bool) {
	return v.t, v.kind == Time
}

func (v Value) List() ([]Value, bool) {
	return v.list, v.kind == List
}

func (v Value) Map() (*Map, bool) {
	return v.obj, v.kind == Object
}

// Equal is deep equality. Numbers compare by numeric value when both parse,
// integers exactly.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.b == b.b
	case String:
		return a.text == b.text
	case Number:
		if a.text == b.text {
			return true
		}
		ai, aok := a.Int()
		bi, bok := b.Int()
		if aok || bok {
			return aok && bok && ai == bi
		}
		af, aok := a.Float()
		bf, bok := b.Float()
		return aok && bok && af == bf
	case Time:
		return a.t.Equal(b.t)
	case List:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case Object:
		return a.obj.Equal(b.obj)
	}
	return false
}
