package types

import "errors"

// Validation errors returned by the add operations of the task model.
var (
	ErrInvalidName          = errors.New("name must not be empty")
	ErrInvalidContent       = errors.New("description must not be empty")
	ErrInvalidWipLimit      = errors.New("wip limit must be a positive integer")
	ErrInvalidInsertionMode = errors.New("invalid insertion mode")
)

// Lookup errors.
var (
	ErrNoCurrentBoard  = errors.New("no current board")
	ErrBoardNotFound   = errors.New("board not found")
	ErrColumnNotFound  = errors.New("column not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrStoreClosed     = errors.New("store is closed")
	ErrCorruptDocument = errors.New("corrupt document")
)
