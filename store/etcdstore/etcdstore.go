// Package etcdstore provides an etcd-backed entity store.
//
// Each row is stored as a JSON-encoded record under
// {namespace}/{kind}/{id}. ReadAll performs a prefix read and orders rows
// by creation revision, preserving append order across sessions.
package etcdstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/laskinner/dag-tui/store"
)

// Config configures the etcd connection.
type Config struct {
	// Endpoints lists the etcd cluster endpoints (required).
	Endpoints []string

	// Namespace prefixes every key. Defaults to "dagtui".
	Namespace string

	// DialTimeout is the maximum time to wait for connection establishment.
	// Defaults to 5 seconds.
	DialTimeout time.Duration
}

// Store implements store.EntityStore using an etcd v3 cluster.
type Store struct {
	client    *clientv3.Client
	namespace string
}

// New creates an etcd entity store from the provided configuration and
// verifies connectivity with a read.
func New(cfg Config) (*Store, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("etcd endpoints cannot be empty")
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "dagtui"
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if _, err := cli.Get(ctx, namespace+"/health-check"); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("etcd health check failed: %w", err)
	}

	return &Store{client: cli, namespace: namespace}, nil
}

// Close closes the etcd client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) rowKey(kind store.Kind, id string) string {
	return fmt.Sprintf("%s/%s/%s", s.namespace, kind, id)
}

func (s *Store) kindPrefix(kind store.Kind) string {
	return fmt.Sprintf("%s/%s/", s.namespace, kind)
}

func failf(op string, err error) error {
	return fmt.Errorf("etcdstore: %s: %w", op, errors.Join(store.ErrStoreFailed, err))
}

// ReadAll returns every row of the kind ordered by creation revision.
func (s *Store) ReadAll(ctx context.Context, kind store.Kind) ([]store.Record, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %s", store.ErrInvalidKind, kind)
	}

	resp, err := s.client.Get(ctx, s.kindPrefix(kind), clientv3.WithPrefix())
	if err != nil {
		return nil, failf("prefix read", err)
	}

	kvs := resp.Kvs
	sort.Slice(kvs, func(i, j int) bool {
		return kvs[i].CreateRevision < kvs[j].CreateRevision
	})

	records := make([]store.Record, 0, len(kvs))
	for _, kv := range kvs {
		var rec store.Record
		if err := json.Unmarshal(kv.Value, &rec); err != nil {
			return nil, failf(fmt.Sprintf("decode row %s", kv.Key), err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Append inserts a new row, rejecting duplicate ids within the kind.
// Uniqueness is enforced with a create-revision transaction.
func (s *Store) Append(ctx context.Context, kind store.Kind, rec store.Record) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %s", store.ErrInvalidKind, kind)
	}
	id := rec.ID()
	if id == "" {
		return store.ErrInvalidRecord
	}

	value, err := json.Marshal(rec)
	if err != nil {
		return failf("encode row "+id, err)
	}

	key := s.rowKey(kind, id)
	resp, err := s.client.Txn(ctx).
		If(clientv3.Compare(clientv3.CreateRevision(key), "=", 0)).
		Then(clientv3.OpPut(key, string(value))).
		Commit()
	if err != nil {
		return failf("append row "+id, err)
	}
	if !resp.Succeeded {
		return fmt.Errorf("%w: %s %q", store.ErrDuplicateID, kind, id)
	}
	return nil
}

// UpdateField updates one field of the row matching id with a
// read-modify-write. Single-session use keeps this safe without a
// compare-and-swap.
func (s *Store) UpdateField(ctx context.Context, kind store.Kind, id, field, value string) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %s", store.ErrInvalidKind, kind)
	}

	key := s.rowKey(kind, id)
	resp, err := s.client.Get(ctx, key)
	if err != nil {
		return failf("read row "+id, err)
	}
	if resp.Count == 0 {
		return fmt.Errorf("%w: %s %q", store.ErrNotFound, kind, id)
	}

	var rec store.Record
	if err := json.Unmarshal(resp.Kvs[0].Value, &rec); err != nil {
		return failf("decode row "+id, err)
	}
	rec[field] = value

	encoded, err := json.Marshal(rec)
	if err != nil {
		return failf("encode row "+id, err)
	}
	if _, err := s.client.Put(ctx, key, string(encoded)); err != nil {
		return failf("write row "+id, err)
	}
	return nil
}

// DeleteByID removes the row matching id.
func (s *Store) DeleteByID(ctx context.Context, kind store.Kind, id string) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %s", store.ErrInvalidKind, kind)
	}

	resp, err := s.client.Delete(ctx, s.rowKey(kind, id))
	if err != nil {
		return failf("delete row "+id, err)
	}
	if resp.Deleted == 0 {
		return fmt.Errorf("%w: %s %q", store.ErrNotFound, kind, id)
	}
	return nil
}
