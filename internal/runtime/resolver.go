package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/smolbox/pkg/domain"
)

// Set stores value under key and returns it.
// A key outside the allow-list, or a value that is neither a string nor nil,
// is reported as a warning and nothing is written.
func (e *Engine) Set(ctx context.Context, key domain.Key, value any) (domain.Result, error) {
	res := domain.Result{Value: value}
	if !key.Valid() {
		res.Warnings = append(res.Warnings, e.warn(string(key), domain.InvalidKey(key)))
		return res, nil
	}
	if !domain.ValidValue(value) {
		res.Warnings = append(res.Warnings, e.warn(string(key), domain.InvalidValue(string(key), value)))
		return res, nil
	}

	rec, err := e.load(ctx)
	if err != nil {
		return res, err
	}
	rec.Set(key, value)
	if err := e.save(ctx, rec); err != nil {
		return res, err
	}

	e.logger.Debug("Key set", "key", key, "value", value)
	return res, nil
}

// Get returns the value stored under key, or nil if absent.
// A key outside the allow-list is reported as a warning; the lookup still happens.
func (e *Engine) Get(ctx context.Context, key domain.Key) (domain.Result, error) {
	var res domain.Result
	if !key.Valid() {
		res.Warnings = append(res.Warnings, e.warn(string(key), domain.InvalidKey(key)))
	}

	rec, err := e.load(ctx)
	if err != nil {
		return res, err
	}
	res.Value = rec.Value(key)
	return res, nil
}

// Update merges the allow-listed fields and timestamps of partial into the Record.
// Other fields, and non-string values, are skipped and reported as warnings.
func (e *Engine) Update(ctx context.Context, partial map[string]any) (domain.Result, error) {
	var res domain.Result

	rec, err := e.load(ctx)
	if err != nil {
		return res, err
	}
	for _, w := range rec.Merge(partial) {
		res.Warnings = append(res.Warnings, e.warn(w.Key, w.Err))
	}
	if err := e.save(ctx, rec); err != nil {
		return res, err
	}

	res.Value = rec
	return res, nil
}

// Resolve returns the value a caller should use for key.
//
// An explicit value is returned as-is and, when non-empty, persisted under key.
// Auto in read role (write=false) returns the stored value or fails with
// domain.ErrUnresolvedKey. Auto in write role returns the stored value or
// allocates, persists and returns a fresh location; only writable keys qualify.
// A stored value that is not a string fails with domain.ErrInvalidValue.
//
// An explicit value for a key outside the allow-list is returned but not
// persisted; the condition is logged at Warn since there is no Result to carry it.
func (e *Engine) Resolve(ctx context.Context, key domain.Key, value domain.Value, write bool) (resolved string, err error) {
	defer func() {
		e.logger.Debug("Resolve", "key", key, "auto", value.IsAuto(), "write", write, "value", resolved, "err", err)
		if e.hooks.OnResolve != nil {
			e.hooks.OnResolve(ctx, &domain.ResolveEvent{
				EventBase: *e.event(domain.EventResolve),
				Key:       key,
				Write:     write,
				Auto:      value.IsAuto(),
				Value:     resolved,
				Err:       err,
			})
		}
	}()

	if !value.IsAuto() {
		return e.resolveExplicit(ctx, key, value.Text())
	}

	if !key.Valid() {
		return "", domain.InvalidKey(key)
	}
	if write && !key.Writable() {
		return "", fmt.Errorf("%w: %q cannot be allocated in output role", domain.ErrNotWritable, key)
	}

	rec, err := e.load(ctx)
	if err != nil {
		return "", err
	}
	switch existing := rec.Value(key).(type) {
	case string:
		return existing, nil
	case nil:
	default:
		return "", domain.InvalidValue(string(key), existing)
	}
	if !write {
		return "", fmt.Errorf("%w: %s", domain.ErrUnresolvedKey, key)
	}

	return e.allocate(ctx, rec, key)
}

func (e *Engine) resolveExplicit(ctx context.Context, key domain.Key, text string) (string, error) {
	if text == "" {
		return text, nil
	}
	if !key.Valid() {
		e.warn(string(key), domain.InvalidKey(key))
		return text, nil
	}

	rec, err := e.load(ctx)
	if err != nil {
		return "", err
	}
	rec.Set(key, text)
	if err := e.save(ctx, rec); err != nil {
		return "", err
	}
	return text, nil
}

func (e *Engine) allocate(ctx context.Context, rec domain.Record, key domain.Key) (string, error) {
	if e.allocator == nil {
		return "", fmt.Errorf("cannot allocate %s: %w", key, ErrNoAllocator)
	}

	path, err := e.allocator.Allocate(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to allocate %s: %w", key, err)
	}

	rec.Set(key, path)
	if err := e.save(ctx, rec); err != nil {
		return "", err
	}

	e.logger.Info("Allocated output location", "key", key, "path", path)
	if e.hooks.OnAllocate != nil {
		e.hooks.OnAllocate(ctx, &domain.AllocateEvent{
			EventBase: *e.event(domain.EventAllocate),
			Key:       key,
			Path:      path,
		})
	}
	return path, nil
}
