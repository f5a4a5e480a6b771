// Package sqlite opens the SQLite-backed store for programs that embed the
// task model without going through the board CLI.
//
// Example:
//
//	store, err := sqlite.Open(ctx, dataDir, types.SQLiteConfig{})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	model := taskmodel.New(store)
//	err = model.Load(ctx)
package sqlite

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/boards/internal/sqlite"
	"github.com/mesh-intelligence/boards/pkg/types"
)

// Store is an open SQLite store. Flush writes pending changes to the JSONL
// snapshot; Close flushes and releases the database.
type Store interface {
	types.Store
	Flush(ctx context.Context) error
	Close() error
}

// Open opens the store in dataDir, creating the directory if needed.
func Open(ctx context.Context, dataDir string, cfg types.SQLiteConfig, log logrus.FieldLogger) (Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s, err := sqlite.Open(ctx, types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
		SQLite:  cfg,
	}, sqlite.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return s, nil
}
