package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/smolbox/internal/logging"
	"github.com/aretw0/smolbox/pkg/domain"
	"github.com/aretw0/smolbox/pkg/ports"
)

// ErrNoAllocator is returned when output-role resolution needs a fresh
// location but the engine was built without an Allocator.
var ErrNoAllocator = errors.New("no allocator configured")

// Engine is the state-resolution and stage-transition core.
// It is not safe for concurrent read-modify-write sequences; callers that
// share an Engine across goroutines serialize access themselves.
type Engine struct {
	store     ports.RecordStore
	history   ports.HistoryLog
	allocator ports.Allocator
	models    ports.ModelLister
	purgers   []ports.Purger
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	now       func() time.Time
	root      string
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithAllocator sets the component that creates fresh output locations.
// If it also lists models or owns data destroyed on reset, those roles are picked up too.
func WithAllocator(a ports.Allocator) EngineOption {
	return func(e *Engine) {
		e.allocator = a
		if m, ok := a.(ports.ModelLister); ok && e.models == nil {
			e.models = m
		}
	}
}

// WithModelLister overrides the models directory view.
func WithModelLister(m ports.ModelLister) EngineOption {
	return func(e *Engine) {
		e.models = m
	}
}

// WithLogger sets a structured logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// WithRoot records the root directory reported in events.
func WithRoot(root string) EngineOption {
	return func(e *Engine) {
		e.root = root
	}
}

// NewEngine creates a new engine over a record store and a history log.
func NewEngine(store ports.RecordStore, history ports.HistoryLog, opts ...EngineOption) *Engine {
	e := &Engine{
		store:   store,
		history: history,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.purgers = []ports.Purger{store}
	if p, ok := history.(ports.Purger); ok {
		e.purgers = append(e.purgers, p)
	}
	if p, ok := e.allocator.(ports.Purger); ok {
		e.purgers = append(e.purgers, p)
	}
	return e
}

// Current returns the current Record, bootstrapping storage if needed.
func (e *Engine) Current(ctx context.Context) (domain.Record, error) {
	return e.load(ctx)
}

// History returns the archived snapshots in append order.
func (e *Engine) History(ctx context.Context) ([]domain.Record, error) {
	return e.history.Entries(ctx)
}

// ListModels returns the non-hidden entries of the models directory.
func (e *Engine) ListModels(ctx context.Context) ([]string, error) {
	if e.models == nil {
		return nil, domain.ErrNoModelsDir
	}
	return e.models.ListModels(ctx)
}

// Reset irreversibly destroys the Record, the history and every allocated location.
func (e *Engine) Reset(ctx context.Context) error {
	for _, p := range e.purgers {
		if err := p.Purge(ctx); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
	}
	e.logger.Info("State reset", "root", e.root)
	if e.hooks.OnReset != nil {
		e.hooks.OnReset(ctx, e.event(domain.EventReset))
	}
	return nil
}

// Init resets and then bootstraps an empty Record.
func (e *Engine) Init(ctx context.Context) error {
	if err := e.Reset(ctx); err != nil {
		return err
	}
	if err := e.store.Ensure(ctx); err != nil {
		return fmt.Errorf("init failed: %w", err)
	}
	return nil
}

func (e *Engine) load(ctx context.Context) (domain.Record, error) {
	rec, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return rec, nil
}

// save stamps and persists rec.
func (e *Engine) save(ctx context.Context, rec domain.Record) error {
	rec.Stamp(e.now())
	if err := e.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

func (e *Engine) event(t domain.EventType) *domain.EventBase {
	return &domain.EventBase{Timestamp: e.now(), Type: t, Root: e.root}
}

func (e *Engine) warn(key string, err error) domain.Warning {
	e.logger.Warn("Ignored field", "key", key, "err", err)
	return domain.Warning{Key: key, Err: err}
}
