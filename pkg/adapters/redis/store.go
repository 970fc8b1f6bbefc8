package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/smolbox/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.RecordStore and ports.HistoryLog using Redis.
// The Record is a JSON string; the history is a list with the newest entry at the tail.
type Store struct {
	client *backend.Client
	prefix string
}

type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "smolbox:",
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) stateKey() string {
	return s.prefix + "state"
}

func (s *Store) historyKey() string {
	return s.prefix + "history"
}

// Ensure writes an empty Record unless one already exists.
func (s *Store) Ensure(ctx context.Context) error {
	if err := s.client.SetNX(ctx, s.stateKey(), "{}", 0).Err(); err != nil {
		return fmt.Errorf("failed to bootstrap state in redis: %w", err)
	}
	return nil
}

// Load retrieves the current Record from Redis.
func (s *Store) Load(ctx context.Context) (domain.Record, error) {
	if err := s.Ensure(ctx); err != nil {
		return nil, err
	}

	val, err := s.client.Get(ctx, s.stateKey()).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			// Purged between Ensure and Get.
			return domain.NewRecord(), nil
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var rec domain.Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("%w: key %s: %v", domain.ErrCorruptRecord, s.stateKey(), err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: key %s: not an object", domain.ErrCorruptRecord, s.stateKey())
	}
	return rec, nil
}

// Save persists the Record to Redis.
func (s *Store) Save(ctx context.Context, rec domain.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := s.client.Set(ctx, s.stateKey(), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Purge deletes the Record and the history.
func (s *Store) Purge(ctx context.Context) error {
	if err := s.client.Del(ctx, s.stateKey(), s.historyKey()).Err(); err != nil {
		return fmt.Errorf("failed to purge redis state: %w", err)
	}
	return nil
}

// Append pushes a compact snapshot to the tail of the history list.
func (s *Store) Append(ctx context.Context, rec domain.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}
	if err := s.client.RPush(ctx, s.historyKey(), data).Err(); err != nil {
		return fmt.Errorf("failed to append history to redis: %w", err)
	}
	return nil
}

// Entries returns the whole history list.
func (s *Store) Entries(ctx context.Context) ([]domain.Record, error) {
	vals, err := s.client.LRange(ctx, s.historyKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history from redis: %w", err)
	}

	entries := make([]domain.Record, 0, len(vals))
	for i, val := range vals {
		var rec domain.Record
		if err := json.Unmarshal([]byte(val), &rec); err != nil {
			return nil, fmt.Errorf("%w: key %s index %d: %v", domain.ErrCorruptRecord, s.historyKey(), i, err)
		}
		entries = append(entries, rec)
	}
	return entries, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
