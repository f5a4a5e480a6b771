// Package memstore implements types.Store in process memory. It backs the
// "memory" backend and serves as the store double in tests.
package memstore

import (
	"context"
	"slices"
	"sync"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// Store is a map-backed types.Store. Values are copied on the way in and
// out so callers never share buffers with the store.
type Store struct {
	mu   sync.RWMutex
	docs map[string][]byte

	readErr  error
	writeErr error
	writes   int
	removes  int
}

// New returns an empty Store.
func New() *Store {
	return &Store{docs: make(map[string][]byte)}
}

// Read returns a copy of the document under key, or types.ErrAbsent.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.readErr != nil {
		return nil, s.readErr
	}
	v, ok := s.docs[key]
	if !ok {
		return nil, types.ErrAbsent
	}
	return slices.Clone(v), nil
}

// Write stores a copy of value under key.
func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return s.writeErr
	}
	s.docs[key] = slices.Clone(value)
	s.writes++
	return nil
}

// Remove deletes key. Missing keys are ignored.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return s.writeErr
	}
	delete(s.docs, key)
	s.removes++
	return nil
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.docs))
	for k := range s.docs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Writes returns the number of successful Write calls.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Removes returns the number of successful Remove calls.
func (s *Store) Removes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.removes
}

// FailReads makes every subsequent Read return err. A nil err restores
// normal behavior.
func (s *Store) FailReads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErr = err
}

// FailWrites makes every subsequent Write and Remove return err. A nil err
// restores normal behavior.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// Close is a no-op; it lets Store satisfy io.Closer like the other backends.
func (s *Store) Close() error {
	return nil
}
