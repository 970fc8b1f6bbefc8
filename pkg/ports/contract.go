package ports

import (
	"context"
	"testing"

	"github.com/aretw0/smolbox/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRecordStoreContract runs a suite of tests to verify that a RecordStore implementation
// adheres to the defined interface contract. The store must start empty.
func RunRecordStoreContract(t *testing.T, store RecordStore) {
	ctx := context.Background()

	t.Run("Load Bootstraps Empty Record", func(t *testing.T) {
		rec, err := store.Load(ctx)
		require.NoError(t, err, "Load should bootstrap storage")
		assert.Empty(t, rec)
	})

	t.Run("Ensure Is Idempotent", func(t *testing.T) {
		require.NoError(t, store.Ensure(ctx))
		require.NoError(t, store.Ensure(ctx))
	})

	t.Run("Save and Load", func(t *testing.T) {
		rec := domain.Record{
			"model_path":        "/models/base",
			"output_model_path": nil,
			"created_at":        "2024-01-01T00:00:00.000000Z",
		}
		require.NoError(t, store.Save(ctx, rec), "Save should not return error")

		loaded, err := store.Load(ctx)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "/models/base", loaded["model_path"])
		assert.Contains(t, loaded, "output_model_path", "null fields must survive a round-trip")
		assert.Nil(t, loaded["output_model_path"])
		assert.Equal(t, "2024-01-01T00:00:00.000000Z", loaded["created_at"])
	})

	t.Run("Save Replaces Wholesale", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.Record{"dataset_path": "/d"}))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Record{"dataset_path": "/d"}, loaded)
	})

	t.Run("Loaded Record Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		loaded["dataset_path"] = "/mutated"

		again, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "/d", again["dataset_path"])
	})

	t.Run("Purge", func(t *testing.T) {
		require.NoError(t, store.Purge(ctx))
		require.NoError(t, store.Purge(ctx), "Purge of empty store should not fail")

		rec, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, rec, "Load after Purge should bootstrap a fresh record")
	})
}

// RunHistoryLogContract verifies that a HistoryLog implementation is append-only
// and returns entries in append order. The log must start empty.
func RunHistoryLogContract(t *testing.T, log HistoryLog) {
	ctx := context.Background()

	t.Run("Empty Log", func(t *testing.T) {
		entries, err := log.Entries(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("Append Preserves Order", func(t *testing.T) {
		first := domain.Record{"model_path": "/a", "output_model_path": "/b"}
		second := domain.Record{"model_path": "/b", "output_model_path": nil}

		require.NoError(t, log.Append(ctx, first))
		require.NoError(t, log.Append(ctx, second))

		entries, err := log.Entries(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "/a", entries[0]["model_path"])
		assert.Equal(t, "/b", entries[1]["model_path"])
		assert.Nil(t, entries[1]["output_model_path"])
	})

	t.Run("Appended Entry Is Immutable", func(t *testing.T) {
		rec := domain.Record{"dataset_path": "/snap"}
		require.NoError(t, log.Append(ctx, rec))
		rec["dataset_path"] = "/changed-after-append"

		entries, err := log.Entries(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "/snap", entries[2]["dataset_path"])
	})
}
