// Package redisstore provides a Redis-backed entity store.
//
// Each row is a Redis hash keyed by namespace, kind, and id; a per-kind
// list preserves insertion order for ReadAll. The adapter suits a shared
// deployment where multiple sessions inspect the same risk graph.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/laskinner/dag-tui/store"
)

// Options configures the Redis connection.
type Options struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379").
	URL string

	// Namespace prefixes every key. Defaults to "dagtui".
	Namespace string

	// ConnectTimeout is the maximum time to wait for connection establishment.
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations.
	WriteTimeout time.Duration
}

// Store implements store.EntityStore using go-redis/v9.
type Store struct {
	client    *redis.Client
	namespace string
}

// New creates a Redis entity store with the given options and verifies
// connectivity with a ping.
func New(opts Options) (*Store, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.Namespace == "" {
		opts.Namespace = "dagtui"
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if opts.ConnectTimeout > 0 {
		redisOpts.DialTimeout = opts.ConnectTimeout
	}
	if opts.ReadTimeout > 0 {
		redisOpts.ReadTimeout = opts.ReadTimeout
	}
	if opts.WriteTimeout > 0 {
		redisOpts.WriteTimeout = opts.WriteTimeout
	}

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Store{client: client, namespace: opts.Namespace}, nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) rowKey(kind store.Kind, id string) string {
	return fmt.Sprintf("%s:%s:row:%s", s.namespace, kind, id)
}

func (s *Store) indexKey(kind store.Kind) string {
	return fmt.Sprintf("%s:%s:index", s.namespace, kind)
}

func failf(op string, err error) error {
	return fmt.Errorf("redisstore: %s: %w", op, errors.Join(store.ErrStoreFailed, err))
}

// ReadAll returns every row of the kind in insertion order.
func (s *Store) ReadAll(ctx context.Context, kind store.Kind) ([]store.Record, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %s", store.ErrInvalidKind, kind)
	}

	ids, err := s.client.LRange(ctx, s.indexKey(kind), 0, -1).Result()
	if err != nil {
		return nil, failf("read index", err)
	}

	records := make([]store.Record, 0, len(ids))
	for _, id := range ids {
		fields, err := s.client.HGetAll(ctx, s.rowKey(kind, id)).Result()
		if err != nil {
			return nil, failf("read row "+id, err)
		}
		if len(fields) == 0 {
			// Index entry without a hash; treat the row as gone.
			continue
		}
		records = append(records, store.Record(fields))
	}
	return records, nil
}

// Append inserts a new row, rejecting duplicate ids within the kind.
func (s *Store) Append(ctx context.Context, kind store.Kind, rec store.Record) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %s", store.ErrInvalidKind, kind)
	}
	id := rec.ID()
	if id == "" {
		return store.ErrInvalidRecord
	}

	key := s.rowKey(kind, id)
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return failf("check row "+id, err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s %q", store.ErrDuplicateID, kind, id)
	}

	if err := s.client.HSet(ctx, key, map[string]string(rec)).Err(); err != nil {
		return failf("write row "+id, err)
	}
	if err := s.client.RPush(ctx, s.indexKey(kind), id).Err(); err != nil {
		return failf("index row "+id, err)
	}
	return nil
}

// UpdateField updates one field of the row matching id.
func (s *Store) UpdateField(ctx context.Context, kind store.Kind, id, field, value string) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %s", store.ErrInvalidKind, kind)
	}

	key := s.rowKey(kind, id)
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return failf("check row "+id, err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s %q", store.ErrNotFound, kind, id)
	}

	if err := s.client.HSet(ctx, key, field, value).Err(); err != nil {
		return failf("update row "+id, err)
	}
	return nil
}

// DeleteByID removes the row matching id and its index entry.
func (s *Store) DeleteByID(ctx context.Context, kind store.Kind, id string) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %s", store.ErrInvalidKind, kind)
	}

	key := s.rowKey(kind, id)
	deleted, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return failf("delete row "+id, err)
	}
	if deleted == 0 {
		return fmt.Errorf("%w: %s %q", store.ErrNotFound, kind, id)
	}

	if err := s.client.LRem(ctx, s.indexKey(kind), 0, id).Err(); err != nil {
		return failf("unindex row "+id, err)
	}
	return nil
}
