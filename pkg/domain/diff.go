package domain

import (
	"reflect"
	"sort"
)

// RecordDiff represents the field changes between two records.
// It is designed to be serialized to JSON for reporting a stage transition.
type RecordDiff struct {
	// Changed contains added or modified fields with their new value.
	// A field that became null is reported in Cleared instead.
	Changed map[string]any `json:"changed,omitempty"`

	// Cleared lists fields that were removed or set to null.
	Cleared []string `json:"cleared,omitempty"`
}

// Diff calculates the difference between oldRec and newRec, ignoring timestamps.
// If oldRec is nil, every non-null field of newRec is reported as changed.
// It returns nil if nothing changed.
func Diff(oldRec, newRec Record) *RecordDiff {
	diff := &RecordDiff{Changed: make(map[string]any)}

	for k, newVal := range newRec {
		if isTimestamp(k) {
			continue
		}
		oldVal, exists := oldRec[k]
		if newVal == nil {
			if exists && oldVal != nil {
				diff.Cleared = append(diff.Cleared, k)
			}
			continue
		}
		if !exists || !reflect.DeepEqual(oldVal, newVal) {
			diff.Changed[k] = newVal
		}
	}

	// Deletions
	for k, oldVal := range oldRec {
		if isTimestamp(k) || oldVal == nil {
			continue
		}
		if _, exists := newRec[k]; !exists {
			diff.Cleared = append(diff.Cleared, k)
		}
	}
	sort.Strings(diff.Cleared)

	if diff.IsEmpty() {
		return nil
	}
	if len(diff.Changed) == 0 {
		diff.Changed = nil
	}
	return diff
}

// IsEmpty checks if the diff contains any changes.
func (d *RecordDiff) IsEmpty() bool {
	return d == nil || (len(d.Changed) == 0 && len(d.Cleared) == 0)
}

func isTimestamp(field string) bool {
	return field == FieldCreatedAt || field == FieldUpdatedAt
}
