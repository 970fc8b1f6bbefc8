package domain_test

import (
	"testing"
	"time"

	"github.com/aretw0/smolbox/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Rotate(t *testing.T) {
	t.Run("Output replaces input and is cleared", func(t *testing.T) {
		rec := domain.Record{
			"model_path":          "A",
			"output_model_path":   "B",
			"dataset_path":        "C",
			"output_dataset_path": nil,
		}
		rec.Rotate()

		assert.Equal(t, "B", rec["model_path"])
		assert.Nil(t, rec["output_model_path"])
		assert.Equal(t, "C", rec["dataset_path"])
		assert.Nil(t, rec["output_dataset_path"])
	})

	t.Run("Empty record gets null fields", func(t *testing.T) {
		rec := domain.NewRecord()
		rec.Rotate()

		for _, k := range domain.AllowedKeys {
			v, exists := rec[string(k)]
			assert.True(t, exists, "expected %s to be present", k)
			assert.Nil(t, v)
		}
	})

	t.Run("Empty output keeps input", func(t *testing.T) {
		rec := domain.Record{"dataset_path": "/in", "output_dataset_path": ""}
		rec.Rotate()

		assert.Equal(t, "/in", rec["dataset_path"])
		assert.Nil(t, rec["output_dataset_path"])
	})
}

func TestRecord_Stamp(t *testing.T) {
	first := time.Date(2024, 3, 1, 10, 0, 0, 123456000, time.UTC)
	later := first.Add(time.Hour)

	rec := domain.NewRecord()
	rec.Stamp(first)
	assert.Equal(t, "2024-03-01T10:00:00.123456Z", rec[domain.FieldCreatedAt])
	assert.Equal(t, rec[domain.FieldCreatedAt], rec[domain.FieldUpdatedAt])

	rec.Stamp(later)
	assert.Equal(t, "2024-03-01T10:00:00.123456Z", rec[domain.FieldCreatedAt], "created_at must not move")
	assert.Equal(t, "2024-03-01T11:00:00.123456Z", rec[domain.FieldUpdatedAt])
}

func TestRecord_Merge(t *testing.T) {
	rec := domain.Record{"model_path": "/old"}
	skipped := rec.Merge(map[string]any{
		"model_path":          "/new",
		"created_at":          "yesterday",
		"bogus":               "x",
		"dataset_path":        42.0,
		"output_dataset_path": nil,
	})

	require.Len(t, skipped, 2)
	assert.Equal(t, "bogus", skipped[0].Key)
	assert.ErrorIs(t, skipped[0], domain.ErrInvalidKey)
	assert.Equal(t, "dataset_path", skipped[1].Key)
	assert.ErrorIs(t, skipped[1], domain.ErrInvalidValue)

	assert.Equal(t, "/new", rec["model_path"])
	assert.Equal(t, "yesterday", rec["created_at"])
	assert.Nil(t, rec["output_dataset_path"])
	assert.NotContains(t, rec, "bogus")
	assert.NotContains(t, rec, "dataset_path")
}

func TestRecord_Lookup(t *testing.T) {
	rec := domain.Record{"model_path": "/m", "dataset_path": nil, "output_model_path": 42}

	v, ok := rec.Lookup(domain.KeyModelPath)
	assert.True(t, ok)
	assert.Equal(t, "/m", v)

	_, ok = rec.Lookup(domain.KeyDatasetPath)
	assert.False(t, ok, "null is not a value")

	_, ok = rec.Lookup(domain.KeyOutputDatasetPath)
	assert.False(t, ok, "absent is not a value")

	_, ok = rec.Lookup(domain.KeyOutputModelPath)
	assert.False(t, ok, "non-string is not a value")
}

func TestRecord_CloneIsolation(t *testing.T) {
	rec := domain.Record{"model_path": "/m"}
	clone := rec.Clone()
	clone["model_path"] = "/other"
	assert.Equal(t, "/m", rec["model_path"])
}

func TestValidValue(t *testing.T) {
	assert.True(t, domain.ValidValue(nil))
	assert.True(t, domain.ValidValue("/m"))
	assert.True(t, domain.ValidValue(""))
	assert.False(t, domain.ValidValue(42.0))
	assert.False(t, domain.ValidValue(map[string]any{"a": 1}))
	assert.False(t, domain.ValidValue([]any{"/m"}))
}
