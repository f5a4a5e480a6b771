// Package redisstore implements types.Store on Redis strings. Every store
// key is namespaced with a prefix so several boards databases can share
// one Redis instance.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// Store is a Redis-backed types.Store.
type Store struct {
	client *redis.Client
	prefix string
	owned  bool
}

// New wraps an existing client. The caller keeps ownership of client;
// Close does not close it.
func New(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// Open dials Redis using cfg and verifies the connection with PING.
func Open(ctx context.Context, cfg types.RedisConfig) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.GetAddr(), err)
	}
	s := New(client, cfg.GetPrefix())
	s.owned = true
	return s, nil
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

// Read returns the document under key, or types.ErrAbsent.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, types.ErrAbsent
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Write stores value under key with no expiry.
func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Close closes the client if the Store opened it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}
