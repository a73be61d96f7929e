package fetch

import (
	"encoding/json"
	"math"
)

// Topic is one raw record from the backend: a JSON object whose fields are
// decoded on demand. The backend does not guarantee any field, so every
// accessor reports presence instead of failing.
type Topic map[string]json.RawMessage

// NewTopic builds a Topic from plain Go values. Values that cannot be
// encoded are skipped.
func NewTopic(fields map[string]any) Topic {
	t := make(Topic, len(fields))
	for k, v := range fields {
		data, err := json.Marshal(v)
		if err != nil {
			continue
		}
		t[k] = data
	}
	return t
}

// raw returns the field if it is present and not JSON null.
func (t Topic) raw(key string) (json.RawMessage, bool) {
	v, ok := t[key]
	if !ok || len(v) == 0 || string(v) == "null" {
		return nil, false
	}
	return v, true
}

// String returns a text field. Numbers are returned as their literal text;
// any other JSON type counts as absent.
func (t Topic) String(key string) (string, bool) {
	v, ok := t.raw(key)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

// Int returns an integer field. JSON numbers and numeric strings are
// accepted; fractional values are truncated. Anything else counts as absent.
func (t Topic) Int(key string) (int64, bool) {
	v, ok := t.raw(key)
	if !ok {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return i, true
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// Object returns a nested object field.
func (t Topic) Object(key string) (Topic, bool) {
	v, ok := t.raw(key)
	if !ok {
		return nil, false
	}
	var obj Topic
	if err := json.Unmarshal(v, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// Set stores a value under key, replacing any existing field.
func (t Topic) Set(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	t[key] = data
}
