// Package sqlite implements types.Store with SQLite as the query engine and
// a JSONL file as the source of truth.
//
// On Open the database file is recreated and filled from documents.jsonl.
// Every write goes to SQLite first; the JSONL snapshot is rewritten
// according to the configured sync strategy.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// Store is a SQLite-backed types.Store.
type Store struct {
	mu     sync.Mutex
	closed bool
	db     *sql.DB
	dir    string
	log    logrus.FieldLogger
	now    func() time.Time

	syncStrategy  string
	batchSize     int
	batchInterval time.Duration
	pending       []pendingWrite
	batchTimer    *time.Timer
}

// pendingWrite records a change not yet reflected in the JSONL snapshot.
type pendingWrite struct {
	key       string
	operation string // "write" or "remove"
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) { s.log = log }
}

// WithClock replaces time.Now for updated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open creates the data directory if needed, rebuilds the SQLite database
// from documents.jsonl, and returns a ready Store.
func Open(ctx context.Context, cfg types.Config, opts ...Option) (*Store, error) {
	if err := cfg.SQLite.Validate(); err != nil {
		return nil, err
	}

	dir := cfg.DataDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	s := &Store{
		dir:           dir,
		log:           logrus.StandardLogger(),
		now:           time.Now,
		syncStrategy:  cfg.SQLite.GetSyncStrategy(),
		batchSize:     cfg.SQLite.GetBatchSize(),
		batchInterval: time.Duration(cfg.SQLite.GetBatchInterval()) * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	// The database is a cache of the JSONL file and is rebuilt every time.
	dbPath := filepath.Join(dir, dbFile)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, createDocuments); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	jsonlPath := filepath.Join(dir, documentsFile)
	if err := ensureJSONL(jsonlPath); err != nil {
		db.Close()
		return nil, err
	}
	docs, err := readJSONL(jsonlPath)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := loadDocuments(ctx, db, docs); err != nil {
		db.Close()
		return nil, fmt.Errorf("load JSONL: %w", err)
	}
	s.db = db

	if s.syncStrategy == types.SyncBatch && s.batchInterval > 0 {
		s.startBatchTimer()
	}
	s.log.WithField("dir", dir).WithField("documents", len(docs)).WithField("sync", s.syncStrategy).Debug("sqlite store opened")
	return s, nil
}

// Read returns the document stored under key, or types.ErrAbsent.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, types.ErrStoreClosed
	}
	var value string
	err := s.db.QueryRowContext(ctx, selectDocument, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrAbsent
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return []byte(value), nil
}

// Write stores value under key.
func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrStoreClosed
	}
	stamp := s.now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, upsertDocument, key, string(value), stamp); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return s.persist(ctx, pendingWrite{key: key, operation: "write"})
}

// Remove deletes key. A missing key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrStoreClosed
	}
	res, err := s.db.ExecContext(ctx, deleteDocument, key)
	if err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}
	return s.persist(ctx, pendingWrite{key: key, operation: "remove"})
}

// Flush writes the JSONL snapshot now if any changes are pending.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrStoreClosed
	}
	return s.flushLocked(ctx)
}

// Close flushes pending changes and releases the database. Close is
// idempotent; every other method returns types.ErrStoreClosed afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.stopBatchTimer()

	flushErr := s.flushLocked(context.Background())
	if flushErr != nil {
		flushErr = fmt.Errorf("flush pending writes: %w", flushErr)
	}
	s.closed = true
	return errors.Join(flushErr, s.db.Close())
}

// persist records a change and writes the snapshot if the sync strategy
// calls for it. The caller holds s.mu.
func (s *Store) persist(ctx context.Context, pw pendingWrite) error {
	s.pending = append(s.pending, pw)

	switch s.syncStrategy {
	case types.SyncOnClose:
		return nil
	case types.SyncBatch:
		if len(s.pending) < s.batchSize {
			return nil
		}
	}
	return s.flushLocked(ctx)
}

// flushLocked rewrites documents.jsonl from the database. The caller holds
// s.mu.
func (s *Store) flushLocked(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	docs, err := dumpDocuments(ctx, s.db)
	if err != nil {
		return err
	}
	if err := writeJSONL(filepath.Join(s.dir, documentsFile), docs); err != nil {
		return err
	}
	s.log.WithField("changes", len(s.pending)).WithField("documents", len(docs)).Debug("jsonl snapshot written")
	s.pending = nil
	return nil
}

// startBatchTimer flushes pending changes every batchInterval until the
// store is closed.
func (s *Store) startBatchTimer() {
	s.batchTimer = time.AfterFunc(s.batchInterval, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.closed || s.batchTimer == nil {
			return
		}
		if err := s.flushLocked(context.Background()); err != nil {
			s.log.WithError(err).Warn("batch flush failed")
		}
		s.batchTimer.Reset(s.batchInterval)
	})
}

// stopBatchTimer stops the batch timer. The caller holds s.mu.
func (s *Store) stopBatchTimer() {
	if s.batchTimer != nil {
		s.batchTimer.Stop()
		s.batchTimer = nil
	}
}

// Pending reports the number of changes not yet written to the snapshot.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
