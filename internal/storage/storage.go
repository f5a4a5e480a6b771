// Package storage opens the types.Store selected by configuration.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/boards/internal/memstore"
	"github.com/mesh-intelligence/boards/internal/natsstore"
	"github.com/mesh-intelligence/boards/internal/redisstore"
	"github.com/mesh-intelligence/boards/internal/sqlite"
	"github.com/mesh-intelligence/boards/pkg/types"
)

// Backend is an open store that must be closed when no longer needed.
type Backend interface {
	types.Store
	io.Closer
}

// Open validates cfg and opens the backend it names.
func Open(ctx context.Context, cfg types.Config, log logrus.FieldLogger) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log = log.WithField("backend", cfg.Backend)
	switch cfg.Backend {
	case types.BackendMemory:
		log.Debug("using in-memory store; nothing will be persisted")
		return memstore.New(), nil
	case types.BackendSQLite:
		s, err := sqlite.Open(ctx, cfg, sqlite.WithLogger(log))
		if err != nil {
			return nil, err
		}
		return s, nil
	case types.BackendRedis:
		s, err := redisstore.Open(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return s, nil
	case types.BackendNATS:
		s, err := natsstore.Open(ctx, cfg.NATS)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, cfg.Backend)
}
