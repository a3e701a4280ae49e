package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/buger/jsonparser"
)

var ErrInvalidJSON = errors.New("invalid json")

// Decode strictly decodes a single JSON document.
func Decode(data []byte) (Value, error) {
	// jsonparser is lenient with trailing garbage and some malformed input
	if !json.Valid(data) {
		return Value{}, ErrInvalidJSON
	}

	raw, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %s", ErrInvalidJSON, err)
	}
	return decodeTyped(raw, dataType)
}

// DecodeString decodes s as a JSON document.
func DecodeString(s string) (Value, error) {
	return Decode([]byte(s))
}

func decodeTyped(raw []byte, dataType jsonparser.ValueType) (Value, error) {
	switch dataType {
	case jsonparser.Null:
		return Value{}, nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return Value{}, err
		}
		return FromBool(b), nil
	case jsonparser.Number:
		return FromNumberLiteral(string(raw)), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return Value{}, err
		}
		return FromString(s), nil
	case jsonparser.Array:
		items := []Value{}
		var itemErr error
		_, err := jsonparser.ArrayEach(raw, func(value []byte, dt jsonparser.ValueType, _ int, err error) {
			if itemErr != nil {
				return
			}
			if err != nil {
				itemErr = err
				return
			}
			item, err := decodeTyped(value, dt)
			if err != nil {
				itemErr = err
				return
			}
			items = append(items, item)
		})
		if err != nil {
			return Value{}, err
		}
		if itemErr != nil {
			return Value{}, itemErr
		}
		return FromList(items...), nil
	case jsonparser.Object:
		m := NewMap()
		err := jsonparser.ObjectEach(raw, func(key []byte, value []byte, dt jsonparser.ValueType, _ int) error {
			k, err := jsonparser.ParseString(key)
			if err != nil {
				return err
			}
			item, err := decodeTyped(value, dt)
			if err != nil {
				return err
			}
			m.Set(k, item)
			return nil
		})
		if err != nil {
			return Value{}, err
		}
		return FromMap(m), nil
	default:
		return Value{}, fmt.Errorf("%w: unexpected value type %s", ErrInvalidJSON, dataType)
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := FromMap(m).encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (m *Map) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	obj, ok := decoded.Map()
	if !ok {
		return fmt.Errorf("expected json object, got %s", decoded.Kind())
	}
	*m = *obj
	return nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(v.b))
	case Number:
		buf.WriteString(v.text)
	case String:
		return writeString(buf, v.text)
	case Time:
		return writeString(buf, v.t.Format(time.RFC3339Nano))
	case List:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, k := range v.obj.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			item, _ := v.obj.Get(k)
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode value of kind %s", v.kind)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	quoted, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(quoted)
	return nil
}

// Of converts plain Go values into a Value. Unsupported types become null.
func Of(x any) Value {
	switch t := x.(type) {
	case nil:
		return Value{}
	case Value:
		return t
	case *Map:
		return FromMap(t)
	case bool:
		return FromBool(t)
	case int:
		return FromInt(int64(t))
	case int64:
		return FromInt(t)
	case float64:
		return FromFloat(t)
	case string:
		return FromString(t)
	case time.Time:
		return FromTime(t)
	case []Value:
		return FromList(t...)
	case []any:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			items = append(items, Of(item))
		}
		return FromList(items...)
	default:
		return Value{}
	}
}

// Interface converts the value back into plain Go values (map[string]any,
// []any, float64 / int64, string, bool, time.Time, nil).
func (v Value) Interface() any {
	switch v.kind {
	case Bool:
		return v.b
	case Number:
		if i, err := strconv.ParseInt(v.text, 10, 64); err == nil {
			return i
		}
		f, _ := v.Float()
		return f
	case String:
		return v.text
	case Time:
		return v.t
	case List:
		items := make([]any, 0, len(v.list))
		for _, item := range v.list {
			items = append(items, item.Interface())
		}
		return items
	case Object:
		m := make(map[string]any, v.obj.Len())
		v.obj.Each(func(key string, item Value) {
			m[key] = item.Interface()
		})
		return m
	default:
		return nil
	}
}
