package storage

import (
	"context"
	"io"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/boards/internal/memstore"
	"github.com/mesh-intelligence/boards/internal/redisstore"
	"github.com/mesh-intelligence/boards/internal/sqlite"
	"github.com/mesh-intelligence/boards/pkg/types"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestOpen_SelectsBackend(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	tests := []struct {
		name string
		cfg  types.Config
		want any
	}{
		{"memory", types.Config{Backend: types.BackendMemory}, &memstore.Store{}},
		{"sqlite", types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}, &sqlite.Store{}},
		{"redis", types.Config{Backend: types.BackendRedis, Redis: types.RedisConfig{Addr: mr.Addr()}}, &redisstore.Store{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Open(context.Background(), tt.cfg, quietLogger())
			require.NoError(t, err)
			defer b.Close()
			assert.IsType(t, tt.want, b)
		})
	}
}

func TestOpen_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  types.Config
		want error
	}{
		{"empty backend", types.Config{}, types.ErrBackendEmpty},
		{"unknown backend", types.Config{Backend: "postgres"}, types.ErrBackendUnknown},
		{"bad sync strategy", types.Config{Backend: types.BackendSQLite, SQLite: types.SQLiteConfig{SyncStrategy: "never"}}, types.ErrSyncStrategyUnknown},
		{"bad bucket", types.Config{Backend: types.BackendNATS, NATS: types.NATSConfig{Bucket: "a.b"}}, types.ErrBucketInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(context.Background(), tt.cfg, quietLogger())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
