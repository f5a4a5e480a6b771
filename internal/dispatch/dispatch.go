// Package dispatch routes user actions to the task model and broadcasts a
// fresh snapshot to every subscriber after each successful mutation.
package dispatch

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/boards/pkg/taskmodel"
	"github.com/mesh-intelligence/boards/pkg/types"
)

// Listener receives the model state after a change.
type Listener func(taskmodel.Snapshot)

// Dispatcher wraps a Model. Failed mutations are returned to the caller
// and do not notify listeners.
type Dispatcher struct {
	model *taskmodel.Model
	log   logrus.FieldLogger

	mu        sync.Mutex
	nextID    int
	listeners map[int]Listener
}

// New creates a Dispatcher over model.
func New(model *taskmodel.Model, log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{
		model:     model,
		log:       log,
		listeners: make(map[int]Listener),
	}
}

// Model returns the wrapped model for read access.
func (d *Dispatcher) Model() *taskmodel.Model {
	return d.model
}

// Subscribe registers l and returns a function that removes it.
func (d *Dispatcher) Subscribe(l Listener) (unsubscribe func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	d.listeners[id] = l
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners, id)
	}
}

// Refresh broadcasts the current state without changing it.
func (d *Dispatcher) Refresh() {
	d.broadcast()
}

func (d *Dispatcher) broadcast() {
	s := d.model.Snapshot()

	d.mu.Lock()
	ls := make([]Listener, 0, len(d.listeners))
	for _, l := range d.listeners {
		ls = append(ls, l)
	}
	d.mu.Unlock()

	for _, l := range ls {
		l(s)
	}
}

// after broadcasts when err is nil and returns err unchanged.
func (d *Dispatcher) after(action string, err error) error {
	if err != nil {
		d.log.WithError(err).WithField("action", action).Warn("action failed")
		return err
	}
	d.broadcast()
	return nil
}

// AddBoard adds a board and returns its ID.
func (d *Dispatcher) AddBoard(ctx context.Context, name string) (string, error) {
	id, err := d.model.AddBoard(ctx, name)
	return id, d.after("add board", err)
}

// SwitchBoard makes boardID current.
func (d *Dispatcher) SwitchBoard(ctx context.Context, boardID string) error {
	return d.after("switch board", d.model.SetCurrentBoard(ctx, boardID))
}

// NextBoard switches to the board after the current one. With fewer than
// two boards it only refreshes listeners.
func (d *Dispatcher) NextBoard(ctx context.Context) error {
	next := d.model.GetNextBoard()
	if next == nil {
		d.broadcast()
		return nil
	}
	return d.SwitchBoard(ctx, next.ID)
}

// RenameBoard renames the current board.
func (d *Dispatcher) RenameBoard(ctx context.Context, name string) error {
	return d.after("rename board", d.model.EditCurrentBoard(ctx, name))
}

// RemoveBoard removes the current board with its columns and tasks.
func (d *Dispatcher) RemoveBoard(ctx context.Context) error {
	return d.after("remove board", d.model.RemoveCurrentBoard(ctx))
}

// AddColumn adds a column to the end of the current board.
func (d *Dispatcher) AddColumn(ctx context.Context, name string, wipLimit int, options types.ColumnOptions) (string, error) {
	id, err := d.model.AddColumn(ctx, name, wipLimit, options)
	return id, d.after("add column", err)
}

// EditColumn replaces a column's name, WIP limit and options.
func (d *Dispatcher) EditColumn(ctx context.Context, columnID, name string, wipLimit int, options types.ColumnOptions) error {
	return d.after("edit column", d.model.EditColumn(ctx, columnID, name, wipLimit, options))
}

// ReorderColumns places sourceID before or after targetID.
func (d *Dispatcher) ReorderColumns(ctx context.Context, boardID, sourceID, targetID string, mode types.InsertionMode) error {
	return d.after("reorder columns", d.model.ReorderColumns(ctx, boardID, sourceID, targetID, mode))
}

// RemoveColumn removes a column and its tasks.
func (d *Dispatcher) RemoveColumn(ctx context.Context, columnID string) error {
	return d.after("remove column", d.model.RemoveColumn(ctx, columnID))
}

// AddTask appends a task to columnID and returns its ID.
func (d *Dispatcher) AddTask(ctx context.Context, columnID, desc, longdesc string, options types.TaskPresentationalOptions) (string, error) {
	id, err := d.model.AddTask(ctx, columnID, desc, longdesc, options)
	return id, d.after("add task", err)
}

// EditTask applies edit to taskID.
func (d *Dispatcher) EditTask(ctx context.Context, taskID string, edit types.TaskEdit) error {
	return d.after("edit task", d.model.EditTask(ctx, taskID, edit))
}

// MoveTask moves taskID to the end of toColumnID.
func (d *Dispatcher) MoveTask(ctx context.Context, taskID, fromColumnID, toColumnID string) error {
	return d.after("move task", d.model.MoveTask(ctx, taskID, fromColumnID, toColumnID))
}

// DeleteTask removes taskID from columnID.
func (d *Dispatcher) DeleteTask(ctx context.Context, columnID, taskID string) error {
	return d.after("delete task", d.model.DeleteTask(ctx, columnID, taskID))
}
