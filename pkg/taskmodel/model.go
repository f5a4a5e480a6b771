// Package taskmodel owns the board, column, and task collections. Every
// read returns order-sorted copies; every mutation is persisted through a
// types.Store before the call returns.
package taskmodel

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// Model is the task model. The zero value is not usable; call New.
//
// All methods are safe for concurrent use. A mutation holds the model lock
// until its store writes complete, so mutations are applied and persisted
// in the order they acquire the lock.
type Model struct {
	mu    sync.Mutex
	store types.Store
	log   logrus.FieldLogger
	now   func() time.Time
	newID func() string

	boards         []types.Board
	columns        map[string][]types.Column // by board ID, sorted by Order
	tasks          map[string][]types.Task   // by column ID, sorted by Order
	currentBoardID string
}

// Option configures a Model.
type Option func(*Model)

// WithClock replaces time.Now for createdAt and lastUpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Model) { m.log = log }
}

// WithIDGenerator replaces the UUID v7 identifier generator. Generated IDs
// must never repeat.
func WithIDGenerator(gen func() string) Option {
	return func(m *Model) { m.newID = gen }
}

// New creates a Model over store. The model starts empty; call Load to
// read existing collections.
func New(store types.Store, opts ...Option) *Model {
	m := &Model{
		store:   store,
		log:     logrus.StandardLogger(),
		now:     time.Now,
		newID:   generateID,
		columns: make(map[string][]types.Column),
		tasks:   make(map[string][]types.Task),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// generateID returns a new UUID v7, falling back to v4 if v7 generation
// fails.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Load replaces the in-memory collections with the store contents. A
// missing, unreadable, or undecodable document is logged and treated as
// empty. Only context cancellation is returned as an error.
func (m *Model) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var boards []types.Board
	m.readDoc(ctx, types.KeyBoards, &boards)
	sortBoards(boards)

	columns := make(map[string][]types.Column, len(boards))
	tasks := make(map[string][]types.Task)
	for _, b := range boards {
		var cols []types.Column
		m.readDoc(ctx, types.ColumnsKey(b.ID), &cols)
		for i := range cols {
			cols[i].BoardID = b.ID
			cols[i].Options = cols[i].Options.Normalize()
		}
		sortColumns(cols)
		columns[b.ID] = cols

		for _, c := range cols {
			var ts []types.Task
			m.readDoc(ctx, types.TasksKey(c.ID), &ts)
			for i := range ts {
				ts[i].ColumnID = c.ID
			}
			sortTasks(ts)
			tasks[c.ID] = ts
		}
	}

	var current string
	m.readDoc(ctx, types.KeyCurrentBoard, &current)
	if current != "" && !slices.ContainsFunc(boards, func(b types.Board) bool { return b.ID == current }) {
		m.log.WithField("board", current).Warn("current board pointer references a missing board; clearing")
		current = ""
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	m.boards = boards
	m.columns = columns
	m.tasks = tasks
	m.currentBoardID = current
	return nil
}

// readDoc decodes the document under key into v. Failures leave v
// untouched.
func (m *Model) readDoc(ctx context.Context, key string, v any) {
	data, err := m.store.Read(ctx, key)
	if errors.Is(err, types.ErrAbsent) {
		return
	}
	if err != nil {
		m.log.WithError(err).WithField("key", key).Warn("read failed; treating as empty")
		return
	}
	if err := json.Unmarshal(data, v); err != nil {
		m.log.WithError(err).WithField("key", key).Warn("undecodable document; treating as empty")
	}
}

// writeDoc encodes v and writes it under key.
func (m *Model) writeDoc(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := m.store.Write(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// removeDoc deletes key from the store.
func (m *Model) removeDoc(ctx context.Context, key string) error {
	if err := m.store.Remove(ctx, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (m *Model) persistBoards(ctx context.Context) error {
	return m.writeDoc(ctx, types.KeyBoards, nonNil(m.boards))
}

func (m *Model) persistColumns(ctx context.Context, boardID string) error {
	return m.writeDoc(ctx, types.ColumnsKey(boardID), nonNil(m.columns[boardID]))
}

func (m *Model) persistTasks(ctx context.Context, columnID string) error {
	return m.writeDoc(ctx, types.TasksKey(columnID), nonNil(m.tasks[columnID]))
}

func (m *Model) persistCurrentBoard(ctx context.Context) error {
	if m.currentBoardID == "" {
		return m.removeDoc(ctx, types.KeyCurrentBoard)
	}
	return m.writeDoc(ctx, types.KeyCurrentBoard, m.currentBoardID)
}

// nonNil makes empty collections encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func sortBoards(bs []types.Board) {
	slices.SortStableFunc(bs, func(a, b types.Board) int { return cmp.Compare(a.Order, b.Order) })
}

func sortColumns(cs []types.Column) {
	slices.SortStableFunc(cs, func(a, b types.Column) int { return cmp.Compare(a.Order, b.Order) })
}

func sortTasks(ts []types.Task) {
	slices.SortStableFunc(ts, func(a, b types.Task) int { return cmp.Compare(a.Order, b.Order) })
}

// nextOrder returns max(order)+1 over a scope sorted by order, or 0 when
// the scope is empty.
func nextOrder[T any](s []T, order func(T) int) int {
	if len(s) == 0 {
		return 0
	}
	return order(s[len(s)-1]) + 1
}
