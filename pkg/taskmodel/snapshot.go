package taskmodel

import (
	"slices"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// Snapshot is a consistent copy of the state a renderer needs: every
// board, plus the columns, tasks and WIP load of the current board.
type Snapshot struct {
	CurrentBoard *types.Board               `json:"currentBoard"`
	Boards       []types.Board              `json:"boards"`
	Columns      []types.Column             `json:"columns"`
	Tasks        map[string][]types.Task    `json:"tasks"` // by column ID
	Wip          map[string]types.WipStatus `json:"wip"`   // by column ID
}

// TaskCount returns the number of tasks on the current board.
func (s Snapshot) TaskCount() int {
	n := 0
	for _, ts := range s.Tasks {
		n += len(ts)
	}
	return n
}

// Snapshot captures the current state under a single lock.
func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Snapshot{
		Boards:  slices.Clone(nonNil(m.boards)),
		Columns: slices.Clone(nonNil(m.columns[m.currentBoardID])),
		Tasks:   make(map[string][]types.Task),
		Wip:     make(map[string]types.WipStatus),
	}
	if i := m.boardIndex(m.currentBoardID); i >= 0 {
		b := m.boards[i]
		s.CurrentBoard = &b
	}
	for _, c := range s.Columns {
		ts := cloneTasks(m.tasks[c.ID])
		s.Tasks[c.ID] = ts
		s.Wip[c.ID] = types.NewWipStatus(len(ts), c.WipLimit)
	}
	return s
}
