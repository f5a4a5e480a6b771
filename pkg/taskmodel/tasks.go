package taskmodel

import (
	"context"
	"slices"
	"strings"

	"github.com/mesh-intelligence/boards/pkg/types"
)

func taskOrder(t types.Task) int { return t.Order }

// AddTask appends a task to columnID and returns its ID. CreatedAt is set
// to now and LastUpdatedAt is left absent.
func (m *Model) AddTask(ctx context.Context, columnID, desc, longdesc string, options types.TaskPresentationalOptions) (string, error) {
	if strings.TrimSpace(desc) == "" {
		return "", types.ErrInvalidContent
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, i := m.columnIndex(columnID); i < 0 {
		return "", types.ErrColumnNotFound
	}
	ts := m.tasks[columnID]

	t := types.Task{
		ID:                    m.newID(),
		ColumnID:              columnID,
		Desc:                  desc,
		LongDesc:              longdesc,
		Order:                 nextOrder(ts, taskOrder),
		CreatedAt:             types.NewTimestamp(m.now()),
		PresentationalOptions: options,
	}
	m.tasks[columnID] = append(ts, t)

	if err := m.persistTasks(ctx, columnID); err != nil {
		return "", err
	}
	m.log.WithField("column", columnID).WithField("task", t.ID).Debug("task added")
	return t.ID, nil
}

// GetTasks returns the tasks of the current board ordered by column order
// and then task order.
func (m *Model) GetTasks() []types.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tasksByBoard(m.currentBoardID)
}

// GetTasksByBoard returns the tasks of boardID ordered by column order and
// then task order.
func (m *Model) GetTasksByBoard(boardID string) []types.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tasksByBoard(boardID)
}

// GetTasksByColumn returns the tasks of columnID ordered by Order.
func (m *Model) GetTasksByColumn(columnID string) []types.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneTasks(m.tasks[columnID])
}

// GetTask returns the task with the given ID.
func (m *Model) GetTask(taskID string) (types.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	colID, i := m.taskIndex(taskID)
	if i < 0 {
		return types.Task{}, false
	}
	return m.tasks[colID][i].Clone(), true
}

// EditTask replaces the content of a task and stamps LastUpdatedAt with
// the current time. When edit.TargetColumnID names an existing column
// other than the task's own, the task is moved to the end of that column.
// An empty description or an unknown task is a no-op and writes nothing.
func (m *Model) EditTask(ctx context.Context, taskID string, edit types.TaskEdit) error {
	if strings.TrimSpace(edit.Desc) == "" {
		m.log.WithField("task", taskID).Debug("edit task ignored: empty description")
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	colID, i := m.taskIndex(taskID)
	if i < 0 {
		return nil
	}

	t := m.tasks[colID][i]
	t.Desc = edit.Desc
	if edit.LongDesc != nil {
		t.LongDesc = *edit.LongDesc
	}
	if edit.PresentationalOptions != nil {
		t.PresentationalOptions = *edit.PresentationalOptions
	}
	if edit.LinkToBoardID != nil {
		t.LinkToBoardID = *edit.LinkToBoardID
	}
	if edit.SteamVolume != nil {
		t.SteamVolume = *edit.SteamVolume
	}
	if edit.ExternalURL != nil {
		t.ExternalURL = *edit.ExternalURL
	}
	ts := types.NewTimestamp(m.now())
	t.LastUpdatedAt = &ts

	target := colID
	if edit.TargetColumnID != nil && *edit.TargetColumnID != colID {
		if _, ci := m.columnIndex(*edit.TargetColumnID); ci >= 0 {
			target = *edit.TargetColumnID
		} else {
			m.log.WithField("task", taskID).WithField("column", *edit.TargetColumnID).Debug("edit task: unknown target column; not moving")
		}
	}

	if target == colID {
		m.tasks[colID][i] = t
		return m.persistTasks(ctx, colID)
	}
	return m.relocateTask(ctx, colID, i, target, t)
}

// MoveTask moves a task from fromColumnID to the end of toColumnID. It is
// a no-op when the task is not in fromColumnID, toColumnID does not exist,
// or the two columns are the same.
func (m *Model) MoveTask(ctx context.Context, taskID, fromColumnID, toColumnID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if fromColumnID == toColumnID {
		return nil
	}
	i := slices.IndexFunc(m.tasks[fromColumnID], func(t types.Task) bool { return t.ID == taskID })
	if i < 0 {
		m.log.WithField("task", taskID).WithField("column", fromColumnID).Debug("move task ignored: task not in column")
		return nil
	}
	if _, ci := m.columnIndex(toColumnID); ci < 0 {
		m.log.WithField("task", taskID).WithField("column", toColumnID).Debug("move task ignored: unknown target column")
		return nil
	}
	return m.relocateTask(ctx, fromColumnID, i, toColumnID, m.tasks[fromColumnID][i])
}

// DeleteTask removes taskID from columnID. It is a no-op if the task is not
// found in that column.
func (m *Model) DeleteTask(ctx context.Context, columnID, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.tasks[columnID], func(t types.Task) bool { return t.ID == taskID })
	if i < 0 {
		m.log.WithField("task", taskID).WithField("column", columnID).Debug("delete task ignored: task not in column")
		return nil
	}
	m.tasks[columnID] = slices.Delete(m.tasks[columnID], i, i+1)

	if err := m.persistTasks(ctx, columnID); err != nil {
		return err
	}
	m.log.WithField("column", columnID).WithField("task", taskID).Debug("task deleted")
	return nil
}

// relocateTask removes the task at index i of from, appends t to the end
// of to, and persists both columns. The destination is written first so a
// failed write leaves the task in at least one stored column. The caller
// holds m.mu.
func (m *Model) relocateTask(ctx context.Context, from string, i int, to string, t types.Task) error {
	m.tasks[from] = slices.Delete(m.tasks[from], i, i+1)

	dst := m.tasks[to]
	t.ColumnID = to
	t.Order = nextOrder(dst, taskOrder)
	m.tasks[to] = append(dst, t)

	if err := m.persistTasks(ctx, to); err != nil {
		return err
	}
	if err := m.persistTasks(ctx, from); err != nil {
		return err
	}
	m.log.WithField("task", t.ID).WithField("from", from).WithField("to", to).Debug("task moved")
	return nil
}

// tasksByBoard concatenates the tasks of boardID's columns in column
// order. The caller holds m.mu.
func (m *Model) tasksByBoard(boardID string) []types.Task {
	out := []types.Task{}
	for _, c := range m.columns[boardID] {
		out = append(out, cloneTasks(m.tasks[c.ID])...)
	}
	return out
}

// taskIndex locates taskID across all columns. It returns the owning column
// ID and the task's index, or "" and -1.
func (m *Model) taskIndex(taskID string) (string, int) {
	if taskID == "" {
		return "", -1
	}
	for colID, ts := range m.tasks {
		if i := slices.IndexFunc(ts, func(t types.Task) bool { return t.ID == taskID }); i >= 0 {
			return colID, i
		}
	}
	return "", -1
}

func cloneTasks(ts []types.Task) []types.Task {
	out := make([]types.Task, len(ts))
	for i, t := range ts {
		out[i] = t.Clone()
	}
	return out
}
