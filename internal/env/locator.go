// Package env decides where the smolbox state lives.
package env

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the state directory created under the chosen base.
const DirName = ".smolbox"

// DefaultMarker is the directory whose presence signals a hosted notebook sandbox.
const DefaultMarker = "/content"

// Locator returns the root directory for all engine state.
type Locator func() (string, error)

// Sandbox roots state under the sandbox marker directory.
func Sandbox(marker string) Locator {
	return func() (string, error) {
		return filepath.Join(marker, DirName), nil
	}
}

// Workdir roots state under the current working directory.
func Workdir() Locator {
	return func() (string, error) {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return filepath.Join(wd, DirName), nil
	}
}

// Fixed always returns root. Used for explicit overrides.
func Fixed(root string) Locator {
	return func() (string, error) {
		return root, nil
	}
}

// Detect picks Sandbox when marker exists and Workdir otherwise.
// An empty marker means DefaultMarker.
func Detect(marker string) Locator {
	if marker == "" {
		marker = DefaultMarker
	}
	if _, err := os.Stat(marker); err == nil {
		return Sandbox(marker)
	}
	return Workdir()
}
