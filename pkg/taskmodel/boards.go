package taskmodel

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/mesh-intelligence/boards/pkg/types"
)

func boardOrder(b types.Board) int { return b.Order }

// AddBoard creates a board at the end of the board sequence and returns
// its ID. It does not change the current board.
func (m *Model) AddBoard(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", types.ErrInvalidName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b := types.Board{
		ID:    m.newID(),
		Name:  name,
		Order: nextOrder(m.boards, boardOrder),
	}
	m.boards = append(m.boards, b)
	m.columns[b.ID] = nil

	if err := m.persistBoards(ctx); err != nil {
		return "", err
	}
	m.log.WithField("board", b.ID).Debug("board added")
	return b.ID, nil
}

// GetBoards returns every board ordered by Order.
func (m *Model) GetBoards() []types.Board {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(nonNil(m.boards))
}

// GetBoard returns the board with the given ID.
func (m *Model) GetBoard(boardID string) (types.Board, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.boardIndex(boardID)
	if i < 0 {
		return types.Board{}, false
	}
	return m.boards[i], true
}

// CurrentBoard returns the current board. ok is false until a board has
// been made current, and again after the last board is removed.
func (m *Model) CurrentBoard() (b types.Board, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.boardIndex(m.currentBoardID)
	if i < 0 {
		return types.Board{}, false
	}
	return m.boards[i], true
}

// SetCurrentBoard makes boardID the current board. An unknown ID is
// ignored.
func (m *Model) SetCurrentBoard(ctx context.Context, boardID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.boardIndex(boardID) < 0 {
		m.log.WithField("board", boardID).Debug("set current board ignored: unknown board")
		return nil
	}
	m.currentBoardID = boardID
	return m.persistCurrentBoard(ctx)
}

// GetNextBoard returns the board following the current one in order,
// wrapping from the last board to the first. It returns nil when there is
// no current board or fewer than two boards exist.
func (m *Model) GetNextBoard() *types.Board {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.boards) < 2 {
		return nil
	}
	i := m.boardIndex(m.currentBoardID)
	if i < 0 {
		return nil
	}
	next := m.boards[(i+1)%len(m.boards)]
	return &next
}

// EditCurrentBoard renames the current board. Other boards are untouched.
// An empty name, or no current board, is a no-op.
func (m *Model) EditCurrentBoard(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.boardIndex(m.currentBoardID)
	if i < 0 {
		return nil
	}
	m.boards[i].Name = name
	return m.persistBoards(ctx)
}

// RemoveCurrentBoard deletes the current board together with its columns
// and their tasks. The current board moves to the first remaining board,
// or is cleared when none remain. Tasks on other boards that link to the
// removed board keep their now dangling link.
func (m *Model) RemoveCurrentBoard(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.boardIndex(m.currentBoardID)
	if i < 0 {
		return nil
	}
	removed := m.boards[i]
	cols := m.columns[removed.ID]

	m.boards = slices.Delete(m.boards, i, i+1)
	delete(m.columns, removed.ID)
	for _, c := range cols {
		delete(m.tasks, c.ID)
	}
	m.currentBoardID = ""
	if len(m.boards) > 0 {
		m.currentBoardID = m.boards[0].ID
	}

	var errs []error
	if err := m.persistBoards(ctx); err != nil {
		return err
	}
	if err := m.persistCurrentBoard(ctx); err != nil {
		errs = append(errs, err)
	}
	for _, c := range cols {
		if err := m.removeDoc(ctx, types.TasksKey(c.ID)); err != nil {
			errs = append(errs, err)
		}
	}
	if err := m.removeDoc(ctx, types.ColumnsKey(removed.ID)); err != nil {
		errs = append(errs, err)
	}

	m.log.WithField("board", removed.ID).WithField("columns", len(cols)).Debug("board removed")
	return errors.Join(errs...)
}

// boardIndex returns the index of boardID in m.boards, or -1.
func (m *Model) boardIndex(boardID string) int {
	if boardID == "" {
		return -1
	}
	return slices.IndexFunc(m.boards, func(b types.Board) bool { return b.ID == boardID })
}
