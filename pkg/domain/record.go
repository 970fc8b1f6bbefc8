package domain

import (
	"maps"
	"slices"
	"time"
)

// TimeLayout is the on-disk timestamp format: UTC, microsecond precision, trailing Z.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// Record is the single current pipeline-state snapshot.
// Domain fields hold a string path or nil; timestamps are strings in TimeLayout.
// Unknown fields read from storage are kept as-is.
type Record map[string]any

// NewRecord returns an empty record.
func NewRecord() Record {
	return make(Record)
}

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Clone returns a shallow copy. Values are strings or nil, so shallow is enough.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Lookup returns the string stored under key. ok is false when the field is
// absent, null, or not a string.
func (r Record) Lookup(key Key) (string, bool) {
	v, exists := r[string(key)]
	if !exists || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Value returns the raw field value, or nil if absent.
func (r Record) Value(key Key) any {
	return r[string(key)]
}

// Set stores value under key.
func (r Record) Set(key Key, value any) {
	r[string(key)] = value
}

// ValidValue reports whether v may be stored in a Record field.
func ValidValue(v any) bool {
	switch v.(type) {
	case nil, string:
		return true
	}
	return false
}

// Merge copies the updatable fields of partial into r. Fields outside the
// allow-list and non-string values are skipped and returned as warnings,
// in key order.
func (r Record) Merge(partial map[string]any) []Warning {
	var skipped []Warning
	for _, k := range slices.Sorted(maps.Keys(partial)) {
		v := partial[k]
		switch {
		case !updatable(k):
			skipped = append(skipped, Warning{Key: k, Err: InvalidKey(Key(k))})
		case !ValidValue(v):
			skipped = append(skipped, Warning{Key: k, Err: InvalidValue(k, v)})
		default:
			r[k] = v
		}
	}
	return skipped
}

// Stamp sets updated_at to now, and created_at too if it was never set.
func (r Record) Stamp(now time.Time) {
	ts := FormatTime(now)
	r[FieldUpdatedAt] = ts
	if _, ok := r[FieldCreatedAt]; !ok {
		r[FieldCreatedAt] = ts
	}
}

// Rotate moves every output field into its paired input field and clears the
// output. An empty or null output leaves the input untouched.
func (r Record) Rotate() {
	for _, p := range Pairs {
		if out, ok := r.Lookup(p.Output); ok && out != "" {
			r.Set(p.Input, out)
		} else if _, exists := r[string(p.Input)]; !exists {
			r.Set(p.Input, nil)
		}
		r.Set(p.Output, nil)
	}
}
