package ports

import (
	"context"

	"github.com/aretw0/smolbox/pkg/domain"
)

// RecordStore defines the interface for persisting the current pipeline Record.
// There is exactly one Record per store; the store does not merge or diff.
type RecordStore interface {
	// Ensure bootstraps the storage with an empty Record if none exists.
	// It is idempotent and safe to call before every read.
	Ensure(ctx context.Context) error

	// Load calls Ensure and returns the current Record.
	// Returns an error wrapping domain.ErrCorruptRecord if the stored data cannot be parsed.
	Load(ctx context.Context) (domain.Record, error)

	// Save replaces the current Record. Callers stamp timestamps beforehand.
	Save(ctx context.Context, rec domain.Record) error

	// Purge irreversibly destroys everything the store owns.
	Purge(ctx context.Context) error
}

// Purger is implemented by components that own persisted data destroyed on reset.
type Purger interface {
	Purge(ctx context.Context) error
}
