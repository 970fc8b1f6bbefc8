package ports

import (
	"context"

	"github.com/aretw0/smolbox/pkg/domain"
)

// Allocator creates fresh, unique storage locations for output-role keys.
type Allocator interface {
	// Allocate creates a new location for key and returns its path.
	// The location must exist by the time Allocate returns.
	Allocate(ctx context.Context, key domain.Key) (string, error)
}

// ModelLister lists the externally populated models directory.
type ModelLister interface {
	// ListModels returns the non-hidden entries of the models directory.
	// Returns domain.ErrNoModelsDir if the directory does not exist.
	ListModels(ctx context.Context) ([]string, error)
}
