package runtime_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/smolbox/internal/adapters/file"
	"github.com/aretw0/smolbox/internal/runtime"
)

// newFileEngine builds an engine over a fresh on-disk root.
func newFileEngine(t *testing.T, opts ...runtime.EngineOption) (*runtime.Engine, *file.Store) {
	t.Helper()
	root := filepath.Join(t.TempDir(), ".smolbox")
	store := file.New(root)
	opts = append([]runtime.EngineOption{
		runtime.WithAllocator(file.NewAllocator(root)),
		runtime.WithRoot(root),
	}, opts...)
	return runtime.NewEngine(store, store, opts...), store
}

// fixedClock returns a clock that advances one second per call.
func fixedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(time.Second)
		return now
	}
}
