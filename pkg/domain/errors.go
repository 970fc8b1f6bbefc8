package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKey is returned when a key is outside the domain allow-list.
var ErrInvalidKey = errors.New("invalid key name for state")

// ErrUnresolvedKey is returned when an input-role key has no prior value.
var ErrUnresolvedKey = errors.New("could not resolve key")

// ErrNotWritable is returned when output-role resolution targets a key that
// cannot be allocated.
var ErrNotWritable = errors.New("key is not writable")

// ErrInvalidValue is reported when a domain field is given something other
// than a string or null.
var ErrInvalidValue = errors.New("state values must be a string or null")

// ErrCorruptRecord is returned when the persisted record cannot be parsed.
var ErrCorruptRecord = errors.New("corrupt state record")

// ErrNoModelsDir is returned when the models directory does not exist.
var ErrNoModelsDir = errors.New("no models directory found")

// InvalidKey builds an ErrInvalidKey error naming the key and the allow-list.
func InvalidKey(key Key) error {
	names := make([]string, len(AllowedKeys))
	for i, k := range AllowedKeys {
		names[i] = string(k)
	}
	return fmt.Errorf("%w: %q (allowed keys are: %s)", ErrInvalidKey, key, strings.Join(names, ", "))
}

// InvalidValue builds an ErrInvalidValue error naming the field and the offending type.
func InvalidValue(field string, v any) error {
	return fmt.Errorf("%w: %s got %T", ErrInvalidValue, field, v)
}

// Warning is a non-fatal condition reported alongside a successful result.
type Warning struct {
	Key string
	Err error
}

func (w Warning) Error() string {
	return w.Err.Error()
}

func (w Warning) Unwrap() error {
	return w.Err
}

// Result carries a value together with any warnings raised while producing it.
type Result struct {
	Value    any
	Warnings []Warning
}

// HasWarnings reports whether the caller should surface anything to the user.
func (r Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns the value as a string, or "" when null.
func (r Result) String() string {
	s, _ := r.Value.(string)
	return s
}
