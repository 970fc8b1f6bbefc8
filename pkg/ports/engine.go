package ports

import (
	"context"

	"github.com/aretw0/smolbox/pkg/domain"
)

// Engine defines the collaborator-facing API of the pipeline state engine.
// It is the interface used by adapters (e.g., HTTP, MCP) that expose the engine remotely.
type Engine interface {
	// Set stores value under key. Unknown keys produce a warning, not an error.
	Set(ctx context.Context, key domain.Key, value any) (domain.Result, error)

	// Get returns the value stored under key, or nil.
	Get(ctx context.Context, key domain.Key) (domain.Result, error)

	// Resolve returns the value to use for key in the given role.
	Resolve(ctx context.Context, key domain.Key, value domain.Value, write bool) (string, error)

	// Update merges allow-listed fields of partial into the Record.
	Update(ctx context.Context, partial map[string]any) (domain.Result, error)

	// Advance rotates outputs into inputs, archiving the previous Record.
	Advance(ctx context.Context) (domain.Record, error)

	// Commit appends rec (or the current Record if nil) to the history log.
	Commit(ctx context.Context, rec domain.Record) error

	// Reset destroys all state. Init resets and bootstraps an empty Record.
	Reset(ctx context.Context) error
	Init(ctx context.Context) error

	// Current returns the current Record.
	Current(ctx context.Context) (domain.Record, error)

	// History returns the archived snapshots in append order.
	History(ctx context.Context) ([]domain.Record, error)

	// ListModels returns the entries of the models directory.
	ListModels(ctx context.Context) ([]string, error)
}
