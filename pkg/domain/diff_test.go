package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		old      Record
		new      Record
		wantDiff *RecordDiff // nil means we expect no diff
	}{
		{
			name:     "Initial Load (Old is Nil)",
			old:      nil,
			new:      Record{"model_path": "/a", "dataset_path": nil},
			wantDiff: &RecordDiff{Changed: map[string]any{"model_path": "/a"}},
		},
		{
			name:     "No Changes",
			old:      Record{"model_path": "/a", "updated_at": "t1"},
			new:      Record{"model_path": "/a", "updated_at": "t2"},
			wantDiff: nil,
		},
		{
			name: "Rotation",
			old:  Record{"model_path": "/a", "output_model_path": "/b"},
			new:  Record{"model_path": "/b", "output_model_path": nil},
			wantDiff: &RecordDiff{
				Changed: map[string]any{"model_path": "/b"},
				Cleared: []string{"output_model_path"},
			},
		},
		{
			name:     "Field Removed",
			old:      Record{"dataset_path": "/d", "output_dataset_path": "/e"},
			new:      Record{},
			wantDiff: &RecordDiff{Cleared: []string{"dataset_path", "output_dataset_path"}},
		},
		{
			name:     "Null To Null",
			old:      Record{"output_model_path": nil},
			new:      Record{"output_model_path": nil},
			wantDiff: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if !reflect.DeepEqual(got, tt.wantDiff) {
				gotJSON, _ := json.Marshal(got)
				wantJSON, _ := json.Marshal(tt.wantDiff)
				t.Errorf("Diff() = %s, want %s", gotJSON, wantJSON)
			}
		})
	}
}

func TestRecordDiff_IsEmpty(t *testing.T) {
	var nilDiff *RecordDiff
	if !nilDiff.IsEmpty() {
		t.Error("nil diff should be empty")
	}
	if (&RecordDiff{Cleared: []string{"x"}}).IsEmpty() {
		t.Error("diff with cleared fields should not be empty")
	}
}
