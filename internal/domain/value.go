package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Kind identifies which JSON type a Value holds.
type Kind int

const (
	// KindNull is the JSON null literal (and the zero Value).
	KindNull Kind = iota
	// KindBool is true or false.
	KindBool
	// KindNumber is any JSON number, kept in its textual form.
	KindNumber
	// KindString is a JSON string.
	KindString
	// KindArray is an ordered list of values.
	KindArray
	// KindObject is a nested record.
	KindObject
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged JSON value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	s    string // string contents, or number text
	arr  []Value
	obj  *Record
}

// Null returns the null value.
func Null() Value { return Value{} }

// BoolValue wraps a bool.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// NumberValue wraps a number given in JSON text form.
func NumberValue(n json.Number) Value { return Value{kind: KindNumber, s: n.String()} }

// IntValue wraps an integer.
func IntValue(n int64) Value { return Value{kind: KindNumber, s: strconv.FormatInt(n, 10)} }

// ArrayValue wraps a list of values.
func ArrayValue(items ...Value) Value { return Value{kind: KindArray, arr: items} }

// ObjectValue wraps a nested record.
func ObjectValue(r *Record) Value {
	if r == nil {
		return Null()
	}

	return Value{kind: KindObject, obj: r}
}

// Kind reports the JSON type held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// AsNumber returns the raw number text held by v.
func (v Value) AsNumber() (json.Number, bool) {
	return json.Number(v.s), v.kind == KindNumber
}

// AsInt returns v as an int64. Fails for non-numbers and non-integral numbers.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}

	n, err := strconv.ParseInt(v.s, 10, 64)
	if err != nil {
		return 0, false
	}

	return n, true
}

// AsFloat returns v as a float64.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}

	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil {
		return 0, false
	}

	return f, true
}

// AsArray returns the elements of an array value, or nil.
func (v Value) AsArray() []Value {
	if v.kind != KindArray {
		return nil
	}

	return v.arr
}

// AsRecord returns the nested record of an object value, or nil.
func (v Value) AsRecord() *Record {
	if v.kind != KindObject {
		return nil
	}

	return v.obj
}

// Interface converts v to plain Go values: nil, bool, int64 or float64,
// string, []any, map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if n, ok := v.AsInt(); ok {
			return n
		}

		f, _ := v.AsFloat()

		return f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Interface()
		}

		return out
	case KindObject:
		return v.obj.Map()
	default:
		return nil
	}
}

// String renders v as compact JSON.
func (v Value) String() string {
	data, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid %s>", v.kind)
	}

	return string(data)
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := parseValue(data)
	if err != nil {
		return err
	}

	*v = parsed

	return nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(v.s)
	case KindString:
		data, err := json.Marshal(v.s)
		if err != nil {
			return err
		}

		buf.Write(data)
	case KindArray:
		buf.WriteByte('[')

		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := item.encode(buf); err != nil {
				return err
			}
		}

		buf.WriteByte(']')
	case KindObject:
		data, err := v.obj.MarshalJSON()
		if err != nil {
			return err
		}

		buf.Write(data)
	default:
		return fmt.Errorf("unknown value kind %d", v.kind)
	}

	return nil
}

// parseValue decodes exactly one JSON value from data.
func parseValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, fmt.Errorf("unexpected data after JSON value at offset %d", dec.InputOffset())
	}

	return v, nil
}

// decodeValue reads one value from the token stream, keeping object key order.
func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		return NumberValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
	}

	return Value{}, fmt.Errorf("unexpected token %v at offset %d", tok, dec.InputOffset())
}

func decodeObject(dec *json.Decoder) (Value, error) {
	rec := NewRecord()

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}

		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("expected object key, got %v", tok)
		}

		v, err := decodeValue(dec)
		if err != nil {
			return Value{}, fmt.Errorf("decoding field %q: %w", key, err)
		}

		rec.Set(key, v)
	}

	// closing '}'
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}

	return ObjectValue(rec), nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	items := make([]Value, 0)

	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return Value{}, fmt.Errorf("decoding element %d: %w", len(items), err)
		}

		items = append(items, v)
	}

	// closing ']'
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}

	return ArrayValue(items...), nil
}
