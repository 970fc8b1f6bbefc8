package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/smolbox/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocator_Allocate(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".smolbox")
	alloc := NewAllocator(root)
	ctx := context.Background()

	first, err := alloc.Allocate(ctx, domain.KeyOutputModelPath)
	require.NoError(t, err)
	second, err := alloc.Allocate(ctx, domain.KeyOutputModelPath)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	for _, p := range []string{first, second} {
		assert.Equal(t, root, filepath.Dir(p))
		info, err := os.Stat(p)
		require.NoError(t, err, "location must exist eagerly")
		assert.True(t, info.IsDir())
	}
}

func TestAllocator_Collision(t *testing.T) {
	root := t.TempDir()
	alloc := NewAllocator(root)
	ids := []string{"taken", "taken", "fresh"}
	alloc.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	require.NoError(t, os.Mkdir(filepath.Join(root, "taken"), 0755))

	path, err := alloc.Allocate(context.Background(), domain.KeyOutputDatasetPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "fresh"), path)
}

func TestAllocator_ListModels(t *testing.T) {
	root := t.TempDir()
	alloc := NewAllocator(root)
	ctx := context.Background()

	t.Run("Missing directory", func(t *testing.T) {
		_, err := alloc.ListModels(ctx)
		assert.ErrorIs(t, err, domain.ErrNoModelsDir)
	})

	t.Run("Hidden entries are skipped", func(t *testing.T) {
		models := filepath.Join(root, "models")
		require.NoError(t, os.MkdirAll(filepath.Join(models, "smollm-135m"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(models, ".DS_Store"), nil, 0644))
		require.NoError(t, os.WriteFile(filepath.Join(models, "notes.txt"), nil, 0644))

		list, err := alloc.ListModels(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"smollm-135m", "notes.txt"}, list)
	})
}
