package smolbox

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/smolbox/internal/adapters/file"
	"github.com/aretw0/smolbox/internal/env"
	"github.com/aretw0/smolbox/internal/logging"
	"github.com/aretw0/smolbox/internal/runtime"
	"github.com/aretw0/smolbox/pkg/domain"
	"github.com/aretw0/smolbox/pkg/ports"
)

// Engine is the high-level entry point for the smolbox library.
// It wraps the internal runtime and wires the default filesystem adapters.
type Engine struct {
	runtime   *runtime.Engine
	root      string
	locator   env.Locator
	store     ports.RecordStore
	history   ports.HistoryLog
	allocator ports.Allocator
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	closers   []io.Closer
}

// Ensure Engine exposes the collaborator API.
var _ ports.Engine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithRoot fixes the root directory, bypassing environment detection.
func WithRoot(root string) Option {
	return func(e *Engine) {
		e.locator = env.Fixed(root)
	}
}

// WithLocator sets the strategy used to find the root directory.
func WithLocator(l env.Locator) Option {
	return func(e *Engine) {
		e.locator = l
	}
}

// WithStore injects a custom RecordStore and HistoryLog, bypassing the default
// files under the root. Allocated locations still live under the root.
// If the store implements io.Closer, Close releases it.
func WithStore(store ports.RecordStore, history ports.HistoryLog) Option {
	return func(e *Engine) {
		e.store = store
		e.history = history
		if c, ok := store.(io.Closer); ok {
			e.closers = append(e.closers, c)
		}
	}
}

// WithAllocator injects a custom Allocator.
func WithAllocator(a ports.Allocator) Option {
	return func(e *Engine) {
		e.allocator = a
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
// The default writes warnings and errors to stderr.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Engine.
// By default the root is detected from the environment and state is kept in
// files under it.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.locator == nil {
		eng.locator = env.Detect(env.DefaultMarker)
	}
	root, err := eng.locator()
	if err != nil {
		return nil, fmt.Errorf("failed to locate state directory: %w", err)
	}
	if eng.root, err = filepath.Abs(root); err != nil {
		return nil, fmt.Errorf("invalid state directory: %w", err)
	}

	if eng.store == nil {
		fs := file.New(eng.root)
		eng.store, eng.history = fs, fs
	}
	if eng.allocator == nil {
		eng.allocator = file.NewAllocator(eng.root)
	}
	if eng.logger == nil {
		eng.logger = logging.New(slog.LevelWarn)
	}
	eng.logger = eng.logger.With("root", eng.root)

	eng.runtime = runtime.NewEngine(eng.store, eng.history,
		runtime.WithAllocator(eng.allocator),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithRoot(eng.root),
	)
	return eng, nil
}

// Root returns the absolute root directory.
func (e *Engine) Root() string {
	return e.root
}

// Set stores value under key. Keys outside the allow-list produce a warning.
func (e *Engine) Set(ctx context.Context, key domain.Key, value any) (domain.Result, error) {
	return e.runtime.Set(ctx, key, value)
}

// Get returns the value stored under key, or nil.
func (e *Engine) Get(ctx context.Context, key domain.Key) (domain.Result, error) {
	return e.runtime.Get(ctx, key)
}

// Resolve returns the value to use for key; see runtime.Engine.Resolve.
// An explicit value for an unknown key is returned unpersisted and logged at Warn.
func (e *Engine) Resolve(ctx context.Context, key domain.Key, value domain.Value, write bool) (string, error) {
	return e.runtime.Resolve(ctx, key, value, write)
}

// Update merges the allow-listed fields of partial into the current Record.
func (e *Engine) Update(ctx context.Context, partial map[string]any) (domain.Result, error) {
	return e.runtime.Update(ctx, partial)
}

// Advance rotates outputs into inputs and archives the previous Record.
func (e *Engine) Advance(ctx context.Context) (domain.Record, error) {
	return e.runtime.Advance(ctx)
}

// Commit appends rec, or the current Record if nil, to the history log.
func (e *Engine) Commit(ctx context.Context, rec domain.Record) error {
	return e.runtime.Commit(ctx, rec)
}

// Reset irreversibly deletes the Record, the history and all allocated locations.
func (e *Engine) Reset(ctx context.Context) error {
	return e.runtime.Reset(ctx)
}

// Init resets and bootstraps an empty pipeline.
func (e *Engine) Init(ctx context.Context) error {
	return e.runtime.Init(ctx)
}

// Current returns the current Record.
func (e *Engine) Current(ctx context.Context) (domain.Record, error) {
	return e.runtime.Current(ctx)
}

// History returns the archived Records in append order.
func (e *Engine) History(ctx context.Context) ([]domain.Record, error) {
	return e.runtime.History(ctx)
}

// ListModels returns the non-hidden entries of <root>/models.
func (e *Engine) ListModels(ctx context.Context) ([]string, error) {
	return e.runtime.ListModels(ctx)
}

// Close releases injected stores that hold connections.
func (e *Engine) Close() error {
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			return err
		}
	}
	return nil
}
