package taskmodel

import (
	"context"
	"slices"
	"strings"

	"github.com/mesh-intelligence/boards/pkg/types"
)

func columnOrder(c types.Column) int { return c.Order }

// AddColumn appends a column to the current board and returns its ID. A
// wipLimit of 0 selects types.DefaultWipLimit; a negative limit is
// rejected.
func (m *Model) AddColumn(ctx context.Context, name string, wipLimit int, options types.ColumnOptions) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", types.ErrInvalidName
	}
	if wipLimit < 0 {
		return "", types.ErrInvalidWipLimit
	}
	if wipLimit == 0 {
		wipLimit = types.DefaultWipLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.boardIndex(m.currentBoardID) < 0 {
		return "", types.ErrNoCurrentBoard
	}
	boardID := m.currentBoardID
	cols := m.columns[boardID]

	c := types.Column{
		ID:       m.newID(),
		BoardID:  boardID,
		Name:     name,
		WipLimit: wipLimit,
		Order:    nextOrder(cols, columnOrder),
		Options:  options.Normalize(),
	}
	m.columns[boardID] = append(cols, c)
	m.tasks[c.ID] = nil

	if err := m.persistColumns(ctx, boardID); err != nil {
		return "", err
	}
	m.log.WithField("board", boardID).WithField("column", c.ID).Debug("column added")
	return c.ID, nil
}

// GetColumns returns the columns of the current board ordered by Order.
func (m *Model) GetColumns() []types.Column {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(nonNil(m.columns[m.currentBoardID]))
}

// GetColumnsByBoard returns the columns of boardID ordered by Order.
func (m *Model) GetColumnsByBoard(boardID string) []types.Column {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(nonNil(m.columns[boardID]))
}

// GetColumn returns the column with the given ID from any board.
func (m *Model) GetColumn(columnID string) (types.Column, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	boardID, i := m.columnIndex(columnID)
	if i < 0 {
		return types.Column{}, false
	}
	return m.columns[boardID][i], true
}

// EditColumn updates the name, WIP limit and options of a column in
// place. Its position is unchanged. An empty name, a non-positive limit,
// or an unknown column is a no-op.
func (m *Model) EditColumn(ctx context.Context, columnID, name string, wipLimit int, options types.ColumnOptions) error {
	name = strings.TrimSpace(name)
	if name == "" || wipLimit <= 0 {
		m.log.WithField("column", columnID).Debug("edit column ignored: invalid input")
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	boardID, i := m.columnIndex(columnID)
	if i < 0 {
		return nil
	}
	c := &m.columns[boardID][i]
	c.Name = name
	c.WipLimit = wipLimit
	c.Options = options.Normalize()
	return m.persistColumns(ctx, boardID)
}

// ReorderColumns moves sourceID before or after targetID within boardID
// and renumbers the board's columns 0, 1, 2, ... in their new sequence.
// Unknown IDs, equal IDs, or an invalid mode are a no-op.
func (m *Model) ReorderColumns(ctx context.Context, boardID, sourceID, targetID string, mode types.InsertionMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cols, ok := Reorder(m.columns[boardID], func(c types.Column) string { return c.ID }, sourceID, targetID, mode)
	if !ok {
		m.log.WithField("board", boardID).WithField("column", sourceID).Debug("reorder columns ignored")
		return nil
	}
	for i := range cols {
		cols[i].Order = i
	}
	m.columns[boardID] = cols
	return m.persistColumns(ctx, boardID)
}

// RemoveColumn deletes a column and all of its tasks. An unknown column is
// a no-op.
func (m *Model) RemoveColumn(ctx context.Context, columnID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	boardID, i := m.columnIndex(columnID)
	if i < 0 {
		return nil
	}
	m.columns[boardID] = slices.Delete(m.columns[boardID], i, i+1)
	delete(m.tasks, columnID)

	if err := m.persistColumns(ctx, boardID); err != nil {
		return err
	}
	if err := m.removeDoc(ctx, types.TasksKey(columnID)); err != nil {
		return err
	}
	m.log.WithField("board", boardID).WithField("column", columnID).Debug("column removed")
	return nil
}

// ColumnWip reports the WIP load of a column. ok is false for an unknown
// column.
func (m *Model) ColumnWip(columnID string) (w types.WipStatus, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	boardID, i := m.columnIndex(columnID)
	if i < 0 {
		return types.WipStatus{}, false
	}
	return types.NewWipStatus(len(m.tasks[columnID]), m.columns[boardID][i].WipLimit), true
}

// columnIndex locates columnID across all boards. It returns the owning
// board ID and the column's index, or "" and -1.
func (m *Model) columnIndex(columnID string) (string, int) {
	if columnID == "" {
		return "", -1
	}
	for boardID, cols := range m.columns {
		if i := slices.IndexFunc(cols, func(c types.Column) bool { return c.ID == columnID }); i >= 0 {
			return boardID, i
		}
	}
	return "", -1
}
