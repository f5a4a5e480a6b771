// Package natsstore implements types.Store on a NATS JetStream key-value
// bucket.
package natsstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// Store is a JetStream KV-backed types.Store.
type Store struct {
	nc *nats.Conn
	kv jetstream.KeyValue
}

// New wraps an existing bucket. Close is a no-op for stores built this
// way.
func New(kv jetstream.KeyValue) *Store {
	return &Store{kv: kv}
}

// Open connects to cfg.URL and binds the bucket, creating it when it does
// not exist yet.
func Open(ctx context.Context, cfg types.NATSConfig) (*Store, error) {
	nc, err := nats.Connect(cfg.GetURL(), nats.Name("board"))
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.GetURL(), err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("get jetstream: %w", err)
	}
	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      cfg.GetBucket(),
		Description: "boards, columns and tasks",
		History:     1,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("bind bucket %s: %w", cfg.GetBucket(), err)
	}
	return &Store{nc: nc, kv: kv}, nil
}

// kvKey maps a store key to a bucket key. Store keys use '/' between
// segments; KV keys use '.' so that segments become subject tokens.
func kvKey(key string) string {
	return strings.ReplaceAll(key, "/", ".")
}

// Read returns the document under key, or types.ErrAbsent.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	entry, err := s.kv.Get(ctx, kvKey(key))
	if errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted) {
		return nil, types.ErrAbsent
	}
	if err != nil {
		return nil, fmt.Errorf("kv get %s: %w", key, err)
	}
	return entry.Value(), nil
}

// Write stores value under key.
func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	if _, err := s.kv.Put(ctx, kvKey(key), value); err != nil {
		return fmt.Errorf("kv put %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	err := s.kv.Delete(ctx, kvKey(key))
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("kv delete %s: %w", key, err)
	}
	return nil
}

// Close drains the connection if the Store opened it.
func (s *Store) Close() error {
	if s.nc == nil {
		return nil
	}
	return s.nc.Drain()
}
