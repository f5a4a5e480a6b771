package initializer

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/boards/internal/memstore"
	"github.com/mesh-intelligence/boards/pkg/taskmodel"
	"github.com/mesh-intelligence/boards/pkg/types"
)

func newModel(t *testing.T) *taskmodel.Model {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	m := taskmodel.New(memstore.New(), taskmodel.WithLogger(log))
	require.NoError(t, m.Load(context.Background()))
	return m
}

func TestBuiltin_ParsesAndListsTemplates(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	assert.Equal(t, []string{"kanban", "personal", "scrum", "empty"}, c.Names())
	_, err = c.Lookup(DefaultTemplate)
	assert.NoError(t, err)
}

func TestLookup_Unknown(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	_, err = c.Lookup("waterfall")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestSeed_BuildsTemplateOnEmptyModel(t *testing.T) {
	ctx := context.Background()
	c, err := Builtin()
	require.NoError(t, err)
	m := newModel(t)

	seeded, err := Seed(ctx, m, c, "kanban")
	require.NoError(t, err)
	assert.True(t, seeded)

	cur, ok := m.CurrentBoard()
	require.True(t, ok)
	assert.Equal(t, "Personal", cur.Name)

	cols := m.GetColumns()
	require.Len(t, cols, 3)
	assert.Equal(t, "To Do", cols[0].Name)
	assert.Equal(t, types.DefaultWipLimit, cols[0].WipLimit)
	assert.Equal(t, 3, cols[1].WipLimit)
	assert.True(t, cols[2].IsHalf())

	tasks := m.GetTasksByColumn(cols[0].ID)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Welcome to your board", tasks[0].Desc)
}

func TestSeed_NoOpWhenBoardsExist(t *testing.T) {
	ctx := context.Background()
	c, err := Builtin()
	require.NoError(t, err)
	m := newModel(t)

	_, err = m.AddBoard(ctx, "mine")
	require.NoError(t, err)

	seeded, err := Seed(ctx, m, c, "kanban")
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Len(t, m.GetBoards(), 1)
}

func TestSeed_UnknownTemplate(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	_, err = Seed(context.Background(), newModel(t), c, "nope")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestApply_AddsBoardAlongsideExisting(t *testing.T) {
	ctx := context.Background()
	c, err := Builtin()
	require.NoError(t, err)
	m := newModel(t)

	_, err = Seed(ctx, m, c, "kanban")
	require.NoError(t, err)

	id, err := Apply(ctx, m, c, "scrum", "Q3 sprint")
	require.NoError(t, err)

	boards := m.GetBoards()
	require.Len(t, boards, 2)
	assert.Equal(t, "Q3 sprint", boards[1].Name)
	cur, _ := m.CurrentBoard()
	assert.Equal(t, id, cur.ID)
	assert.Len(t, m.GetColumns(), 5)
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing name", "templates:\n  - board: B\n"},
		{"missing board", "templates:\n  - name: x\n"},
		{"duplicate", "templates:\n  - name: x\n    board: B\n  - name: x\n    board: C\n"},
		{"empty column", "templates:\n  - name: x\n    board: B\n    columns:\n      - wip_limit: 2\n"},
		{"negative wip", "templates:\n  - name: x\n    board: B\n    columns:\n      - name: c\n        wip_limit: -1\n"},
		{"bad size", "templates:\n  - name: x\n    board: B\n    columns:\n      - name: c\n        size: TINY\n"},
		{"not yaml", "templates: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	content := "templates:\n  - name: solo\n    board: Solo\n    columns:\n      - name: Now\n        wip_limit: 1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"solo"}, c.Names())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
