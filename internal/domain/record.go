package domain

import (
	"errors"
	"fmt"

	orderedmap "github.com/pb33f/ordered-map/v2"
)

// ErrNotObject is returned when a body expected to be a JSON object is not one.
var ErrNotObject = errors.New("JSON value is not an object")

// ErrNotArray is returned when a body expected to be a JSON array is not one.
var ErrNotArray = errors.New("JSON value is not an array")

// Record is a JSON object decoded without a schema. Fields keep the order
// they had in the body and unknown fields are never dropped.
//
// A Record is not safe for concurrent mutation; records returned by the
// services are owned by the caller.
type Record struct {
	fields *orderedmap.OrderedMap[string, Value]
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{fields: orderedmap.New[string, Value]()}
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil || r.fields == nil {
		return 0
	}

	return r.fields.Len()
}

// Keys returns field names in body order.
func (r *Record) Keys() []string {
	if r == nil || r.fields == nil {
		return nil
	}

	out := make([]string, 0, r.fields.Len())
	for k := range r.fields.KeysFromOldest() {
		out = append(out, k)
	}

	return out
}

// Has reports whether the field is present, even if null.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)

	return ok
}

// Get returns the named field.
func (r *Record) Get(key string) (Value, bool) {
	if r == nil || r.fields == nil {
		return Value{}, false
	}

	return r.fields.Get(key)
}

// Set adds or replaces a field. New fields are appended to the key order;
// replacing keeps the field's position.
func (r *Record) Set(key string, v Value) {
	if r.fields == nil {
		r.fields = orderedmap.New[string, Value]()
	}

	r.fields.Set(key, v)
}

// Lookup walks nested objects, e.g. Lookup("user", "login").
func (r *Record) Lookup(path ...string) (Value, bool) {
	current := r

	for i, key := range path {
		v, ok := current.Get(key)
		if !ok {
			return Value{}, false
		}

		if i == len(path)-1 {
			return v, true
		}

		current = v.AsRecord()
		if current == nil {
			return Value{}, false
		}
	}

	return ObjectValue(r), r != nil
}

// GetString returns a string field, or "" if absent or not a string.
func (r *Record) GetString(key string) string {
	v, _ := r.Get(key)
	s, _ := v.AsString()

	return s
}

// GetInt returns an integer field, or 0.
func (r *Record) GetInt(key string) int64 {
	v, _ := r.Get(key)
	n, _ := v.AsInt()

	return n
}

// GetFloat returns a numeric field as float64, or 0.
func (r *Record) GetFloat(key string) float64 {
	v, _ := r.Get(key)
	f, _ := v.AsFloat()

	return f
}

// GetBool returns a boolean field, or false.
func (r *Record) GetBool(key string) bool {
	v, _ := r.Get(key)
	b, _ := v.AsBool()

	return b
}

// GetRecord returns a nested object field, or nil.
func (r *Record) GetRecord(key string) *Record {
	v, _ := r.Get(key)

	return v.AsRecord()
}

// GetArray returns an array field, or nil.
func (r *Record) GetArray(key string) []Value {
	v, _ := r.Get(key)

	return v.AsArray()
}

// Map converts the record to plain Go values. Key order is lost.
func (r *Record) Map() map[string]any {
	if r == nil {
		return nil
	}

	out := make(map[string]any, r.Len())
	if r.fields == nil {
		return out
	}

	for k, v := range r.fields.FromOldest() {
		out[k] = v.Interface()
	}

	return out
}

// MarshalJSON implements json.Marshaler, writing fields in record order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}

	if r.fields == nil {
		return []byte("{}"), nil
	}

	return r.fields.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler. Parsing is strict: the body
// must be exactly one JSON object.
func (r *Record) UnmarshalJSON(data []byte) error {
	parsed, err := ParseRecord(data)
	if err != nil {
		return err
	}

	*r = *parsed

	return nil
}

// ParseRecord decodes a JSON object.
func ParseRecord(data []byte) (*Record, error) {
	v, err := parseValue(data)
	if err != nil {
		return nil, err
	}

	rec := v.AsRecord()
	if rec == nil {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, v.Kind())
	}

	return rec, nil
}

// ParseRecords decodes a JSON array of objects.
func ParseRecords(data []byte) ([]*Record, error) {
	v, err := parseValue(data)
	if err != nil {
		return nil, err
	}

	if v.Kind() != KindArray {
		return nil, fmt.Errorf("%w: got %s", ErrNotArray, v.Kind())
	}

	items := v.AsArray()
	out := make([]*Record, 0, len(items))

	for i, item := range items {
		rec := item.AsRecord()
		if rec == nil {
			return nil, fmt.Errorf("element %d: %w: got %s", i, ErrNotObject, item.Kind())
		}

		out = append(out, rec)
	}

	return out, nil
}
