package types

import (
	"context"
	"errors"
)

// Store is the persistence port. Values are JSON documents addressed by
// stable, human-readable keys. Implementations must be safe for concurrent
// use.
type Store interface {
	// Read returns the document stored under key, or ErrAbsent if the key
	// has never been written or was removed.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write stores value under key, replacing any previous document.
	Write(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// ErrAbsent is returned by Store.Read for a key that holds no document.
// It is a sentinel, not a failure.
var ErrAbsent = errors.New("key absent")

// Store keys used by the task model.
const (
	KeyBoards       = "boards"
	KeyCurrentBoard = "currentBoard"

	columnsKeyPrefix = "columns/"
	tasksKeyPrefix   = "tasks/"
)

// ColumnsKey returns the key holding the columns of a board.
func ColumnsKey(boardID string) string {
	return columnsKeyPrefix + boardID
}

// TasksKey returns the key holding the tasks of a column.
func TasksKey(columnID string) string {
	return tasksKeyPrefix + columnID
}
