package smolbox_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/smolbox"
	"github.com/aretw0/smolbox/internal/env"
	"github.com/aretw0/smolbox/pkg/adapters/memory"
	"github.com/aretw0/smolbox/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacade_Pipeline(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".smolbox")
	eng, err := smolbox.New(smolbox.WithRoot(root))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, eng.Init(ctx))
	assert.FileExists(t, filepath.Join(root, "state.json"))

	// Stage 1: explicit input, allocated output
	in, err := eng.Resolve(ctx, domain.KeyModelPath, domain.Explicit("HuggingFaceTB/SmolLM2-135M"), false)
	require.NoError(t, err)
	assert.Equal(t, "HuggingFaceTB/SmolLM2-135M", in)

	out, err := eng.Resolve(ctx, domain.KeyOutputModelPath, domain.Auto(), true)
	require.NoError(t, err)
	assert.Equal(t, root, filepath.Dir(out))
	assert.DirExists(t, out)

	_, err = eng.Advance(ctx)
	require.NoError(t, err)

	// Stage 2: input resolves to the previous output
	in, err = eng.Resolve(ctx, domain.KeyModelPath, domain.Auto(), false)
	require.NoError(t, err)
	assert.Equal(t, out, in)

	history, err := eng.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, out, history[0]["output_model_path"])

	// History file is one line per entry
	data, err := os.ReadFile(filepath.Join(root, "state_history.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, 1, countLines(data))
}

func TestFacade_DetectsWorkdirRoot(t *testing.T) {
	wd := t.TempDir()
	t.Chdir(wd)

	eng, err := smolbox.New(smolbox.WithLocator(env.Detect(filepath.Join(wd, "no-sandbox-here"))))
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, ".smolbox"), eng.Root())
}

func TestFacade_CustomStore(t *testing.T) {
	root := t.TempDir()
	store := memory.NewStore()
	eng, err := smolbox.New(smolbox.WithRoot(root), smolbox.WithStore(store, store))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = eng.Set(ctx, domain.KeyDatasetPath, "/x")
	require.NoError(t, err)

	rec, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/x", rec["dataset_path"])
	assert.NoFileExists(t, filepath.Join(root, "state.json"), "file store must not be used")

	require.NoError(t, eng.Close())
}

func countLines(data []byte) int {
	n := 0
	for _, b := range data {
		if b == '\n' {
			n++
		}
	}
	return n
}

func TestFacade_DefaultLoggerReportsIgnoredKeys(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	stderr := os.Stderr
	os.Stderr = w
	eng, err := smolbox.New(smolbox.WithRoot(t.TempDir()))
	os.Stderr = stderr
	require.NoError(t, err)

	got, err := eng.Resolve(context.Background(), "bogus", domain.Explicit("/x"), false)
	require.NoError(t, err)
	assert.Equal(t, "/x", got)

	require.NoError(t, w.Close())
	logs, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Contains(t, string(logs), "level=WARN")
	assert.Contains(t, string(logs), "bogus")
}
