package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/boards/pkg/taskmodel"
	"github.com/mesh-intelligence/boards/pkg/types"
)

func sampleSnapshot() taskmodel.Snapshot {
	home := types.Board{ID: "b1", Name: "Home", Order: 0}
	work := types.Board{ID: "b2", Name: "Work", Order: 1}
	todo := types.Column{ID: "c1", BoardID: "b1", Name: "TODO", WipLimit: 1, Order: 0}
	done := types.Column{ID: "c2", BoardID: "b1", Name: "Done", WipLimit: 5, Order: 1, Options: types.ColumnOptions{Size: types.ColumnSizeHalf}}

	return taskmodel.Snapshot{
		CurrentBoard: &home,
		Boards:       []types.Board{home, work},
		Columns:      []types.Column{todo, done},
		Tasks: map[string][]types.Task{
			"c1": {
				{ID: "t1", ColumnID: "c1", Desc: "boil water", SteamVolume: 100},
				{ID: "t2", ColumnID: "c1", Desc: "see work", LinkToBoardID: "b2", ExternalURL: "https://example.com/1"},
			},
			"c2": {},
		},
		Wip: map[string]types.WipStatus{
			"c1": types.NewWipStatus(2, 1),
			"c2": types.NewWipStatus(0, 5),
		},
	}
}

func TestSteamMarker(t *testing.T) {
	assert.Equal(t, "", SteamMarker(types.SteamNone))
	assert.Equal(t, "!", SteamMarker(types.SteamAlmostFull))
	assert.Equal(t, "!", SteamMarker(types.SteamHalfFull))
	assert.Equal(t, "!!", SteamMarker(types.SteamFull))
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sampleSnapshot()))
	out := buf.String()

	assert.Contains(t, out, "Home  [b1]")
	assert.Contains(t, out, "== TODO  2 / 1  over limit  [c1]")
	assert.Contains(t, out, "== Done  0 / 5  [c2]")
	assert.Contains(t, out, "  - !! boil water  [t1]")
	assert.Contains(t, out, "  - see work -> Work <https://example.com/1>  [t2]")
}

func TestText_DanglingLink(t *testing.T) {
	s := sampleSnapshot()
	s.Boards = s.Boards[:1]

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, s))
	assert.Contains(t, buf.String(), "see work -> (missing board)")
}

func TestText_NoCurrentBoard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, taskmodel.Snapshot{}))
	assert.Equal(t, "No current board (0 boards)\n", buf.String())
}

func TestStyled(t *testing.T) {
	out := Styled(sampleSnapshot())

	assert.Contains(t, out, "Home")
	assert.Contains(t, out, "TODO")
	assert.Contains(t, out, "Done")
	assert.Contains(t, out, "boil water")
	assert.Contains(t, out, "(empty)")
}

func TestStyled_NoColumns(t *testing.T) {
	s := sampleSnapshot()
	s.Columns = nil
	assert.Contains(t, Styled(s), "(no columns)")
	assert.Contains(t, Styled(taskmodel.Snapshot{}), "No current board")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleSnapshot()))

	var decoded struct {
		CurrentBoard types.Board                `json:"currentBoard"`
		Columns      []types.Column             `json:"columns"`
		Tasks        map[string][]types.Task    `json:"tasks"`
		Wip          map[string]types.WipStatus `json:"wip"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Home", decoded.CurrentBoard.Name)
	assert.Len(t, decoded.Columns, 2)
	assert.Equal(t, "see work", decoded.Tasks["c1"][1].Desc)
	assert.True(t, decoded.Wip["c1"].Exceeded)
}
