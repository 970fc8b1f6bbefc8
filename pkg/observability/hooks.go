package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/smolbox/pkg/domain"
)

// LogHooks returns hooks that write every engine event to logger at Debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnResolve: func(ctx context.Context, e *domain.ResolveEvent) {
			logger.Debug("Resolve", "key", e.Key, "write", e.Write, "auto", e.Auto, "value", e.Value, "err", e.Err)
		},
		OnAllocate: func(ctx context.Context, e *domain.AllocateEvent) {
			logger.Debug("Allocate", "key", e.Key, "path", e.Path)
		},
		OnAdvance: func(ctx context.Context, e *domain.AdvanceEvent) {
			logger.Debug("Advance", "diff", e.Diff)
		},
		OnReset: func(ctx context.Context, e *domain.EventBase) {
			logger.Debug("Reset", "root", e.Root)
		},
	}
}

// Combine fans every event out to all hook sets, in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnResolve: func(ctx context.Context, e *domain.ResolveEvent) {
			for _, s := range sets {
				if s.OnResolve != nil {
					s.OnResolve(ctx, e)
				}
			}
		},
		OnAllocate: func(ctx context.Context, e *domain.AllocateEvent) {
			for _, s := range sets {
				if s.OnAllocate != nil {
					s.OnAllocate(ctx, e)
				}
			}
		},
		OnAdvance: func(ctx context.Context, e *domain.AdvanceEvent) {
			for _, s := range sets {
				if s.OnAdvance != nil {
					s.OnAdvance(ctx, e)
				}
			}
		},
		OnReset: func(ctx context.Context, e *domain.EventBase) {
			for _, s := range sets {
				if s.OnReset != nil {
					s.OnReset(ctx, e)
				}
			}
		},
	}
}
