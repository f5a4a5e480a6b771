package cli

import (
	"errors"

	"github.com/mesh-intelligence/boards/internal/initializer"
	"github.com/mesh-intelligence/boards/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// userErrors are failures caused by what the user asked for. Anything
// else that reaches the root command is a system error.
var userErrors = []error{
	types.ErrInvalidName,
	types.ErrInvalidContent,
	types.ErrInvalidWipLimit,
	types.ErrInvalidInsertionMode,
	types.ErrNoCurrentBoard,
	types.ErrBoardNotFound,
	types.ErrColumnNotFound,
	types.ErrTaskNotFound,
	initializer.ErrTemplateNotFound,
}

// systemError marks a failure of the environment: the store, the file
// system, or the network.
type systemError struct{ err error }

func (e *systemError) Error() string { return e.err.Error() }
func (e *systemError) Unwrap() error { return e.err }

// usageError marks a malformed command line.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// check classifies an error returned by the model or a backend. Known
// user errors pass through; everything else becomes a system error.
func check(err error) error {
	if err == nil {
		return nil
	}
	for _, u := range userErrors {
		if errors.Is(err, u) {
			return err
		}
	}
	return &systemError{err: err}
}

// exitCode maps an error returned from the root command to a process exit
// code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var sys *systemError
	if errors.As(err, &sys) {
		return exitSysError
	}
	return exitUserError
}
