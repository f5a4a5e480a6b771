// Package render formats a task model snapshot for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/boards/pkg/taskmodel"
	"github.com/mesh-intelligence/boards/pkg/types"
)

// Column widths in cells for Styled.
const (
	FullWidth = 30
	HalfWidth = 15
)

// SteamMarker returns the marker shown next to a task: "!!" for a full
// steam gauge, "!" for any lower non-empty tier, and "" otherwise.
func SteamMarker(s types.SteamStatus) string {
	switch s {
	case types.SteamFull:
		return "!!"
	case types.SteamHalfFull, types.SteamAlmostFull:
		return "!"
	default:
		return ""
	}
}

// taskLine renders a task as a single line of plain text.
func taskLine(t types.Task, boards map[string]string) string {
	var b strings.Builder
	if m := SteamMarker(t.SteamStatus()); m != "" {
		b.WriteString(m)
		b.WriteByte(' ')
	}
	b.WriteString(t.Desc)
	if t.LinkToBoardID != "" {
		name, ok := boards[t.LinkToBoardID]
		if !ok {
			name = "(missing board)"
		}
		b.WriteString(" -> ")
		b.WriteString(name)
	}
	if t.ExternalURL != "" {
		b.WriteString(" <")
		b.WriteString(t.ExternalURL)
		b.WriteByte('>')
	}
	return b.String()
}

func boardNames(s taskmodel.Snapshot) map[string]string {
	names := make(map[string]string, len(s.Boards))
	for _, b := range s.Boards {
		names[b.ID] = b.Name
	}
	return names
}

func columnHeader(c types.Column, w types.WipStatus) string {
	h := fmt.Sprintf("%s  %s", c.Name, w)
	if w.Exceeded {
		h += "  over limit"
	}
	return h
}

// Text writes a plain listing of the current board, one column after
// another, with IDs so that they can be passed back to the CLI.
func Text(w io.Writer, s taskmodel.Snapshot) error {
	if s.CurrentBoard == nil {
		_, err := fmt.Fprintf(w, "No current board (%d boards)\n", len(s.Boards))
		return err
	}

	names := boardNames(s)
	var b strings.Builder
	fmt.Fprintf(&b, "%s  [%s]\n", s.CurrentBoard.Name, s.CurrentBoard.ID)
	for _, c := range s.Columns {
		fmt.Fprintf(&b, "\n== %s  [%s]\n", columnHeader(c, s.Wip[c.ID]), c.ID)
		for _, t := range s.Tasks[c.ID] {
			fmt.Fprintf(&b, "  - %s  [%s]\n", taskLine(t, names), t.ID)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// JSON writes the snapshot as indented JSON.
func JSON(w io.Writer, s taskmodel.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			MarginBottom(1)

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	overLimitStyle = headerStyle.
			Foreground(lipgloss.Color("196"))

	fullSteamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	softSteamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Styled renders the current board with its columns side by side. Half
// columns are rendered at half width and a column over its WIP limit gets
// a red header.
func Styled(s taskmodel.Snapshot) string {
	if s.CurrentBoard == nil {
		return mutedStyle.Render("No current board")
	}

	names := boardNames(s)
	cols := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		width := FullWidth
		if c.IsHalf() {
			width = HalfWidth
		}
		wip := s.Wip[c.ID]

		header := headerStyle
		if wip.Exceeded {
			header = overLimitStyle
		}
		lines := []string{header.Render(columnHeader(c, wip))}
		for _, t := range s.Tasks[c.ID] {
			line := taskLine(t, names)
			switch t.SteamStatus() {
			case types.SteamFull:
				line = fullSteamStyle.Render(line)
			case types.SteamHalfFull, types.SteamAlmostFull:
				line = softSteamStyle.Render(line)
			}
			lines = append(lines, line)
		}
		if len(lines) == 1 {
			lines = append(lines, mutedStyle.Render("(empty)"))
		}
		cols = append(cols, columnStyle.Width(width).Render(strings.Join(lines, "\n")))
	}

	title := titleStyle.Render(s.CurrentBoard.Name)
	if len(cols) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("(no columns)"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
}
