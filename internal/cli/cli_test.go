package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/boards/internal/initializer"
	"github.com/mesh-intelligence/boards/internal/paths"
	"github.com/mesh-intelligence/boards/pkg/types"
)

// testEnv runs the CLI against a private config and data directory backed
// by SQLite, so state carries over between invocations.
type testEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv("BOARD_"+strings.ToUpper(k), "")
	}
	t.Setenv(paths.EnvConfigDir, "")
	t.Setenv(paths.EnvDataDir, "")

	dir := t.TempDir()
	return &testEnv{
		t:         t,
		configDir: filepath.Join(dir, "config"),
		dataDir:   filepath.Join(dir, "data"),
	}
}

func (e *testEnv) run(args ...string) (stdout, stderr string, code int) {
	e.t.Helper()
	global := []string{
		"--config-dir", e.configDir,
		"--data-dir", e.dataDir,
		"--backend", types.BackendSQLite,
		"--log-level", "error",
	}
	var out, errOut bytes.Buffer
	code = Run(append(global, args...), &out, &errOut)
	return out.String(), errOut.String(), code
}

// ok runs args, requires success and returns trimmed stdout.
func (e *testEnv) ok(args ...string) string {
	e.t.Helper()
	out, errOut, code := e.run(args...)
	require.Equal(e.t, exitSuccess, code, "args %v: stderr %q", args, errOut)
	return strings.TrimSpace(out)
}

func (e *testEnv) code(args ...string) int {
	e.t.Helper()
	_, _, code := e.run(args...)
	return code
}

func TestVersion(t *testing.T) {
	e := newTestEnv(t)
	out := e.ok("version")
	assert.Contains(t, out, "board v"+Version)
	assert.Contains(t, out, "module: "+modulePath)
}

func TestFirstRun_WritesDefaultConfig(t *testing.T) {
	e := newTestEnv(t)
	e.ok("version")

	data, err := os.ReadFile(paths.ConfigFile(e.configDir))
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")
	assert.Contains(t, string(data), "template: kanban")
}

func TestInit_SeedsOnlyOnce(t *testing.T) {
	e := newTestEnv(t)

	out := e.ok("init")
	assert.Contains(t, out, `Created board "Personal" from template kanban`)
	assert.FileExists(t, filepath.Join(e.dataDir, "board.db"))

	out = e.ok("init")
	assert.Contains(t, out, "Store already has 1 boards; nothing seeded")

	show := e.ok("show", "--plain")
	assert.Contains(t, show, "Personal")
	assert.Contains(t, show, "== To Do  1 / 999")
	assert.Contains(t, show, "== Doing  0 / 3")
	assert.Contains(t, show, "Welcome to your board")
}

func TestInit_UnknownTemplate(t *testing.T) {
	e := newTestEnv(t)
	_, errOut, code := e.run("init", "--template", "nope")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, initializer.ErrTemplateNotFound.Error())
}

func TestBoard_AddListAndRotate(t *testing.T) {
	e := newTestEnv(t)

	a := e.ok("board", "add", "Home")
	b := e.ok("board", "add", "Work")
	c := e.ok("board", "add", "Side")

	list := e.ok("board", "list")
	assert.Equal(t, "* Home  ["+a+"]\n  Work  ["+b+"]\n  Side  ["+c+"]", list)

	assert.Contains(t, e.ok("board", "next"), b)
	assert.Contains(t, e.ok("board", "next"), c)
	assert.Contains(t, e.ok("board", "next"), a)

	assert.Contains(t, e.ok("board", "switch", c), "Current board: Side")
}

func TestBoard_ListJSON(t *testing.T) {
	e := newTestEnv(t)
	id := e.ok("board", "add", "Home")

	var got struct {
		CurrentBoardID string        `json:"currentBoardId"`
		Boards         []types.Board `json:"boards"`
	}
	require.NoError(t, json.Unmarshal([]byte(e.ok("--json", "board", "list")), &got))
	assert.Equal(t, id, got.CurrentBoardID)
	require.Len(t, got.Boards, 1)
	assert.Equal(t, "Home", got.Boards[0].Name)
}

func TestBoard_AddFromTemplate(t *testing.T) {
	e := newTestEnv(t)
	e.ok("board", "add", "Home")
	id := e.ok("board", "add", "Sprint 12", "--template", "scrum")

	var boards struct {
		CurrentBoardID string `json:"currentBoardId"`
	}
	require.NoError(t, json.Unmarshal([]byte(e.ok("--json", "board", "list")), &boards))
	assert.Equal(t, id, boards.CurrentBoardID)

	cols := e.ok("column", "list")
	assert.Contains(t, cols, "Sprint Backlog")
	assert.Contains(t, cols, "QA")
}

func TestBoard_RenameAndRemove(t *testing.T) {
	e := newTestEnv(t)
	e.ok("board", "add", "Home")
	keep := e.ok("board", "add", "Work")

	assert.Contains(t, e.ok("board", "rename", "House"), "Current board: House")
	assert.Equal(t, exitUserError, e.code("board", "rename", "  "))

	col := e.ok("column", "add", "Todo")
	e.ok("task", "add", col, "sweep")

	out := e.ok("board", "remove")
	assert.Contains(t, out, "Removed board House")
	assert.Contains(t, out, "Current board: Work  ["+keep+"]")
	assert.Equal(t, exitUserError, e.code("column", "remove", col))
}

func TestColumn_AddMoveEditRemove(t *testing.T) {
	e := newTestEnv(t)
	e.ok("board", "add", "Home")
	x := e.ok("column", "add", "X")
	y := e.ok("column", "add", "Y", "--wip", "2", "--size", "half")
	z := e.ok("column", "add", "Z")

	out := e.ok("column", "move", z, x, "--before")
	assert.Equal(t, "0 Z  ["+z+"]\n1 X  ["+x+"]\n2 Y  ["+y+"]", out)

	out = e.ok("column", "move", z, y, "--after")
	assert.Equal(t, "0 X  ["+x+"]\n1 Y  ["+y+"]\n2 Z  ["+z+"]", out)

	out = e.ok("column", "edit", y, "--name", "Doing", "--wip", "1")
	assert.Equal(t, "Doing  wip 1  half  ["+y+"]", out)

	e.ok("task", "add", y, "one")
	e.ok("task", "add", y, "two")
	assert.Contains(t, e.ok("column", "list"), "over limit")

	assert.Equal(t, "Removed column Doing and 2 tasks", e.ok("column", "remove", y))
	assert.NotContains(t, e.ok("column", "list"), y)
}

func TestColumn_UserErrors(t *testing.T) {
	e := newTestEnv(t)

	assert.Equal(t, exitUserError, e.code("column", "add", "X"), "no current board")
	e.ok("board", "add", "Home")
	x := e.ok("column", "add", "X")
	y := e.ok("column", "add", "Y")

	assert.Equal(t, exitUserError, e.code("column", "add", " "))
	assert.Equal(t, exitUserError, e.code("column", "add", "W", "--wip", "-1"))
	assert.Equal(t, exitUserError, e.code("column", "add", "W", "--size", "wide"))
	assert.Equal(t, exitUserError, e.code("column", "edit", x, "--wip", "0"))
	assert.Equal(t, exitUserError, e.code("column", "move", x, y))
	assert.Equal(t, exitUserError, e.code("column", "move", x, y, "--before", "--after"))
	assert.Equal(t, exitUserError, e.code("column", "move", x, "missing", "--after"))
}

func TestTask_Lifecycle(t *testing.T) {
	e := newTestEnv(t)
	home := e.ok("board", "add", "Home")
	todo := e.ok("column", "add", "Todo")
	done := e.ok("column", "add", "Done")

	id := e.ok("task", "add", todo, "boil water", "--long", "for tea", "--color", "#ff0")
	assert.Contains(t, e.ok("task", "list"), "boil water  ["+id+"]")

	e.ok("task", "edit", id, "--steam", "100", "--url", "https://example.com", "--link", home)
	got := e.ok("task", "get", id)
	assert.Contains(t, got, "Steam:    100 (FULL)")
	assert.Contains(t, got, "URL:      https://example.com")
	assert.Contains(t, got, "Link:     Home  ["+home+"]")
	assert.Contains(t, got, "Updated:  ")

	e.ok("task", "move", id, done)
	assert.Empty(t, e.ok("task", "list", "--column", todo))
	assert.Contains(t, e.ok("task", "list", "--column", done), "!! boil water")

	var task types.Task
	require.NoError(t, json.Unmarshal([]byte(e.ok("--json", "task", "get", id)), &task))
	assert.Equal(t, done, task.ColumnID)
	assert.Equal(t, "for tea", task.LongDesc)
	assert.Equal(t, "#ff0", task.PresentationalOptions.Color)
	require.NotNil(t, task.LastUpdatedAt)

	assert.Equal(t, "Deleted task "+id, e.ok("task", "delete", id))
	assert.Equal(t, exitUserError, e.code("task", "get", id))
}

func TestTask_EditMovesWithColumnFlag(t *testing.T) {
	e := newTestEnv(t)
	e.ok("board", "add", "Home")
	todo := e.ok("column", "add", "Todo")
	done := e.ok("column", "add", "Done")
	id := e.ok("task", "add", todo, "write")

	e.ok("task", "edit", id, "--desc", "write more", "--column", done)
	assert.Contains(t, e.ok("task", "list", "--column", done), "write more")
}

func TestTask_UserErrors(t *testing.T) {
	e := newTestEnv(t)
	e.ok("board", "add", "Home")
	col := e.ok("column", "add", "Todo")
	id := e.ok("task", "add", col, "x")

	assert.Equal(t, exitUserError, e.code("task", "add", col, "   "))
	assert.Equal(t, exitUserError, e.code("task", "add", "missing", "x"))
	assert.Equal(t, exitUserError, e.code("task", "edit", id, "--desc", ""))
	assert.Equal(t, exitUserError, e.code("task", "edit", id, "--link", "missing"))
	assert.Equal(t, exitUserError, e.code("task", "edit", id, "--steam", "-1"))
	assert.Equal(t, exitUserError, e.code("task", "move", id, "missing"))
	assert.Equal(t, exitUserError, e.code("task", "delete", "missing"))
	assert.Equal(t, exitUserError, e.code("task", "add", col))
}

func TestShow_JSON(t *testing.T) {
	e := newTestEnv(t)
	e.ok("init")

	var got struct {
		CurrentBoard types.Board    `json:"currentBoard"`
		Columns      []types.Column `json:"columns"`
	}
	require.NoError(t, json.Unmarshal([]byte(e.ok("--json", "show")), &got))
	assert.Equal(t, "Personal", got.CurrentBoard.Name)
	assert.Len(t, got.Columns, 3)
}

func TestShow_Styled(t *testing.T) {
	e := newTestEnv(t)
	e.ok("init", "--template", "empty")
	out := e.ok("show")
	assert.Contains(t, out, "Board")
	assert.Contains(t, out, "(no columns)")
}

func TestTemplates(t *testing.T) {
	e := newTestEnv(t)
	out := e.ok("templates")
	for _, name := range []string{"kanban", "personal", "scrum", "empty"} {
		assert.Contains(t, out, name)
	}
}

func TestTemplates_CustomFile(t *testing.T) {
	e := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`templates:
  - name: tiny
    description: One column
    board: Tiny
    columns:
      - name: Only
`), 0o644))

	assert.Contains(t, e.ok("templates", "--templates-file", path), "tiny")
	assert.Contains(t, e.ok("init", "--templates-file", path, "--template", "tiny"), `Created board "Tiny"`)
	assert.Equal(t, exitUserError, e.code("templates", "--templates-file", filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestMetricsFile(t *testing.T) {
	e := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "board.prom")
	e.ok("--metrics-file", path, "board", "add", "Home")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "board_store_operations_total")
	assert.Contains(t, string(data), `op="write"`)
}

func TestConfigFile_SelectsBackend(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(paths.ConfigFile(e.configDir), []byte("backend: memory\n"), 0o644))

	var out, errOut bytes.Buffer
	code := Run([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir, "board", "add", "Home"}, &out, &errOut)
	require.Equal(t, exitSuccess, code, errOut.String())
	assert.NoFileExists(t, filepath.Join(e.dataDir, "board.db"))
}

func TestExitCodes(t *testing.T) {
	e := newTestEnv(t)

	assert.Equal(t, exitUserError, e.code("bogus"))
	assert.Equal(t, exitUserError, e.code("board", "list", "--nope"))
	assert.Equal(t, exitUserError, e.code("board", "switch", "missing"))
	assert.Equal(t, exitUserError, e.code("--backend", "postgres", "board", "list"))
	assert.Equal(t, exitUserError, e.code("--log-level", "loud", "version"))

	blocked := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocked, nil, 0o644))
	assert.Equal(t, exitSysError, e.code("--data-dir", filepath.Join(blocked, "data"), "board", "list"))
}

func TestExitCode_Classification(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(check(types.ErrInvalidName)))
	assert.Equal(t, exitUserError, exitCode(check(initializer.ErrTemplateNotFound)))
	assert.Equal(t, exitSysError, exitCode(check(errors.New("disk full"))))
	assert.Equal(t, exitUserError, exitCode(&usageError{err: errors.New("bad flag")}))
	assert.Nil(t, check(nil))
}

func TestNewRootCmd_RegistersCommands(t *testing.T) {
	root := NewRootCmd()
	assert.Equal(t, "board", root.Name())

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"init", "version", "show", "board", "column", "task", "templates"} {
		assert.Contains(t, names, want)
	}
	for _, flag := range []string{"config-dir", "data-dir", "backend", "json", "log-level", "metrics-file"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}
