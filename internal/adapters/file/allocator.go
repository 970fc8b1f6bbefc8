package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/smolbox/pkg/domain"
	"github.com/google/uuid"
)

// ModelsDir is the externally populated directory of available models.
const ModelsDir = "models"

// Allocator implements ports.Allocator and ports.ModelLister.
// Locations are directories named by a random UUID directly under Root.
type Allocator struct {
	Root string

	// newID is swapped in tests to force collisions.
	newID func() string
}

// NewAllocator creates an Allocator rooted at root.
func NewAllocator(root string) *Allocator {
	if root == "" {
		root = ".smolbox"
	}
	return &Allocator{Root: root, newID: uuid.NewString}
}

// Allocate creates a fresh directory and returns its path.
// The directory exists on disk before Allocate returns.
func (a *Allocator) Allocate(ctx context.Context, key domain.Key) (string, error) {
	if err := os.MkdirAll(a.Root, 0755); err != nil {
		return "", fmt.Errorf("failed to ensure state directory: %w", err)
	}

	// Mkdir (not MkdirAll) so an existing directory is never handed out twice.
	for attempt := 0; attempt < 3; attempt++ {
		path := filepath.Join(a.Root, a.newID())
		err := os.Mkdir(path, 0755)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("failed to create location for %s: %w", key, err)
		}
	}
	return "", fmt.Errorf("failed to create location for %s: identifier collision", key)
}

// ListModels returns the non-hidden entries of <Root>/models.
func (a *Allocator) ListModels(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(a.Root, ModelsDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNoModelsDir
		}
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	models := []string{}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		models = append(models, entry.Name())
	}
	return models, nil
}

// Purge removes the root directory, taking every allocated location with it.
func (a *Allocator) Purge(ctx context.Context) error {
	if err := os.RemoveAll(a.Root); err != nil {
		return fmt.Errorf("failed to remove state directory: %w", err)
	}
	return nil
}
