package file

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/aretw0/smolbox/pkg/domain"
)

const (
	// StateFile holds the current Record.
	StateFile = "state.json"
	// HistoryFile holds one compact Record per line, newest last.
	HistoryFile = "state_history.jsonl"
)

// Store implements ports.RecordStore and ports.HistoryLog using the local filesystem.
// Everything lives under Root, which is removed as a whole on Purge.
type Store struct {
	Root string
}

// New creates a new Store rooted at root.
// If root is empty, it defaults to ".smolbox".
func New(root string) *Store {
	if root == "" {
		root = ".smolbox"
	}
	return &Store{Root: root}
}

// StatePath returns the path of the current Record file.
func (s *Store) StatePath() string {
	return filepath.Join(s.Root, StateFile)
}

// HistoryPath returns the path of the history log.
func (s *Store) HistoryPath() string {
	return filepath.Join(s.Root, HistoryFile)
}

// Ensure creates the root directory and an empty Record file if absent.
func (s *Store) Ensure(ctx context.Context) error {
	if err := os.MkdirAll(s.Root, 0755); err != nil {
		return fmt.Errorf("failed to ensure state directory: %w", err)
	}

	_, err := os.Stat(s.StatePath())
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat state file: %w", err)
	}

	if err := os.WriteFile(s.StatePath(), []byte("{}"), 0644); err != nil {
		return fmt.Errorf("failed to bootstrap state file: %w", err)
	}
	return nil
}

// Load retrieves the current Record, bootstrapping storage first.
func (s *Store) Load(ctx context.Context) (domain.Record, error) {
	if err := s.Ensure(ctx); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.StatePath())
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var rec domain.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptRecord, s.StatePath(), err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s: not an object", domain.ErrCorruptRecord, s.StatePath())
	}

	return rec, nil
}

// Save persists the Record atomically, pretty-printed with sorted keys.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, rec domain.Record) error {
	if err := os.MkdirAll(s.Root, 0755); err != nil {
		return fmt.Errorf("failed to ensure state directory: %w", err)
	}

	// encoding/json sorts map keys
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// Same directory so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.Root, "tmp-state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := replaceFile(tmpPath, s.StatePath()); err != nil {
		return fmt.Errorf("failed to rename temp file to state file: %w", err)
	}

	return nil
}

// Purge removes the whole root directory: Record, history and every allocated location.
func (s *Store) Purge(ctx context.Context) error {
	if err := os.RemoveAll(s.Root); err != nil {
		return fmt.Errorf("failed to remove state directory: %w", err)
	}
	return nil
}

// Append writes one compact JSON line to the history log.
func (s *Store) Append(ctx context.Context, rec domain.Record) error {
	if err := os.MkdirAll(s.Root, 0755); err != nil {
		return fmt.Errorf("failed to ensure state directory: %w", err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}
	data = append(data, '\n')

	f, err := os.OpenFile(s.HistoryPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return f.Close()
}

// Entries reads the whole history log.
func (s *Store) Entries(ctx context.Context) ([]domain.Record, error) {
	data, err := os.ReadFile(s.HistoryPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.Record{}, nil
		}
		return nil, fmt.Errorf("failed to read history log: %w", err)
	}

	entries := []domain.Record{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var rec domain.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", domain.ErrCorruptRecord, s.HistoryPath(), line, err)
		}
		entries = append(entries, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan history log: %w", err)
	}

	return entries, nil
}

// replaceFile renames src over dst. os.Rename replaces atomically except on
// Windows, where dst has to be removed first.
func replaceFile(src, dst string) error {
	if runtime.GOOS == "windows" {
		if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return os.Rename(src, dst)
}
