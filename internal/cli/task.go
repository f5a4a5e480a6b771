package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boards/internal/render"
	"github.com/mesh-intelligence/boards/pkg/taskmodel"
	"github.com/mesh-intelligence/boards/pkg/types"
)

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(
		newTaskListCmd(a),
		newTaskGetCmd(a),
		newTaskAddCmd(a),
		newTaskEditCmd(a),
		newTaskMoveCmd(a),
		newTaskDeleteCmd(a),
	)
	return cmd
}

// lookupTask returns the task or ErrTaskNotFound.
func lookupTask(m *taskmodel.Model, id string) (types.Task, error) {
	t, ok := m.GetTask(id)
	if !ok {
		return types.Task{}, fmt.Errorf("%w: %s", types.ErrTaskNotFound, id)
	}
	return t, nil
}

func newTaskListCmd(a *app) *cobra.Command {
	var columnID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of the current board or of one column",
		Args:  argsUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			m := d.Model()

			var tasks []types.Task
			if columnID != "" {
				if _, err := lookupColumn(m, columnID); err != nil {
					return err
				}
				tasks = m.GetTasksByColumn(columnID)
			} else {
				if _, err := currentBoard(m); err != nil {
					return err
				}
				tasks = m.GetTasks()
			}

			if a.flags.jsonMode {
				return printJSON(cmd, tasks)
			}
			names := make(map[string]string)
			for _, c := range m.GetColumns() {
				names[c.ID] = c.Name
			}
			for _, t := range tasks {
				col, ok := names[t.ColumnID]
				if !ok {
					col = t.ColumnID
				}
				marker := render.SteamMarker(t.SteamStatus())
				if marker != "" {
					marker += " "
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s%s  [%s]\n", col, marker, t.Desc, t.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&columnID, "column", "", "only list tasks in this column")
	return cmd
}

func newTaskGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <task-id>",
		Short: "Show a task",
		Args:  argsUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			t, err := lookupTask(d.Model(), args[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd, t)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:       %s\n", t.ID)
			fmt.Fprintf(out, "Column:   %s\n", t.ColumnID)
			fmt.Fprintf(out, "Desc:     %s\n", t.Desc)
			if t.LongDesc != "" {
				fmt.Fprintf(out, "Details:  %s\n", t.LongDesc)
			}
			if t.PresentationalOptions.Color != "" {
				fmt.Fprintf(out, "Color:    %s\n", t.PresentationalOptions.Color)
			}
			if t.LinkToBoardID != "" {
				link := t.LinkToBoardID
				if b, ok := d.Model().GetBoard(link); ok {
					link = fmt.Sprintf("%s  [%s]", b.Name, b.ID)
				} else {
					link += " (missing board)"
				}
				fmt.Fprintf(out, "Link:     %s\n", link)
			}
			if t.ExternalURL != "" {
				fmt.Fprintf(out, "URL:      %s\n", t.ExternalURL)
			}
			fmt.Fprintf(out, "Steam:    %g (%s)\n", t.SteamVolume, t.SteamStatus())
			fmt.Fprintf(out, "Created:  %s\n", t.CreatedAt.Time().Format(time.RFC3339))
			if t.LastUpdatedAt != nil {
				fmt.Fprintf(out, "Updated:  %s\n", t.LastUpdatedAt.Time().Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newTaskAddCmd(a *app) *cobra.Command {
	var long, color string
	cmd := &cobra.Command{
		Use:   "add <column-id> <desc>",
		Short: "Add a task to the end of a column",
		Args:  argsUsage(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			id, err := d.AddTask(cmd.Context(), args[0], args[1], long, types.TaskPresentationalOptions{Color: color})
			if err != nil {
				return check(err)
			}
			m := d.Model()
			if a.flags.jsonMode {
				t, _ := m.GetTask(id)
				return printJSON(cmd, t)
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			if w, ok := m.ColumnWip(args[0]); ok && w.Exceeded {
				a.log.WithField("column", args[0]).Warnf("column is over its WIP limit (%s)", w)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&long, "long", "", "long description")
	cmd.Flags().StringVar(&color, "color", "", "background color")
	return cmd
}

func newTaskEditCmd(a *app) *cobra.Command {
	var desc, long, color, column, link, url string
	var steam float64
	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Change a task",
		Long: "Change a task's content. Only the flags given are changed. An empty\n" +
			"--link or --url clears the value. --column moves the task to the end\n" +
			"of another column.",
		Args: argsUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			m := d.Model()
			t, err := lookupTask(m, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			edit := types.TaskEdit{Desc: t.Desc}
			if flags.Changed("desc") {
				if strings.TrimSpace(desc) == "" {
					return types.ErrInvalidContent
				}
				edit.Desc = desc
			}
			if flags.Changed("long") {
				edit.LongDesc = &long
			}
			if flags.Changed("color") {
				edit.PresentationalOptions = &types.TaskPresentationalOptions{Color: color}
			}
			if flags.Changed("column") {
				if _, err := lookupColumn(m, column); err != nil {
					return err
				}
				edit.TargetColumnID = &column
			}
			if flags.Changed("link") {
				if link != "" {
					if _, ok := m.GetBoard(link); !ok {
						return fmt.Errorf("%w: %s", types.ErrBoardNotFound, link)
					}
				}
				edit.LinkToBoardID = &link
			}
			if flags.Changed("url") {
				edit.ExternalURL = &url
			}
			if flags.Changed("steam") {
				if steam < 0 {
					return &usageError{err: fmt.Errorf("steam volume must not be negative: %g", steam)}
				}
				edit.SteamVolume = &steam
			}

			if err := d.EditTask(cmd.Context(), t.ID, edit); err != nil {
				return check(err)
			}
			t, _ = m.GetTask(t.ID)
			if a.flags.jsonMode {
				return printJSON(cmd, t)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  [%s]\n", t.Desc, t.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&desc, "desc", "", "new description")
	cmd.Flags().StringVar(&long, "long", "", "new long description")
	cmd.Flags().StringVar(&color, "color", "", "new background color")
	cmd.Flags().StringVar(&column, "column", "", "move the task to this column")
	cmd.Flags().StringVar(&link, "link", "", "link the task to a board")
	cmd.Flags().StringVar(&url, "url", "", "external URL")
	cmd.Flags().Float64Var(&steam, "steam", 0, "steam volume, 0 to 100")
	return cmd
}

func newTaskMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <task-id> <column-id>",
		Short: "Move a task to the end of another column",
		Args:  argsUsage(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			m := d.Model()
			t, err := lookupTask(m, args[0])
			if err != nil {
				return err
			}
			if _, err := lookupColumn(m, args[1]); err != nil {
				return err
			}
			if err := d.MoveTask(cmd.Context(), t.ID, t.ColumnID, args[1]); err != nil {
				return check(err)
			}
			t, _ = m.GetTask(t.ID)
			if a.flags.jsonMode {
				return printJSON(cmd, t)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  [%s] -> %s\n", t.Desc, t.ID, t.ColumnID)
			if w, ok := m.ColumnWip(t.ColumnID); ok && w.Exceeded {
				a.log.WithField("column", t.ColumnID).Warnf("column is over its WIP limit (%s)", w)
			}
			return nil
		},
	}
}

func newTaskDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  argsUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			t, err := lookupTask(d.Model(), args[0])
			if err != nil {
				return err
			}
			if err := d.DeleteTask(cmd.Context(), t.ColumnID, t.ID); err != nil {
				return check(err)
			}
			if a.flags.jsonMode {
				return printJSON(cmd, t)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", t.ID)
			return nil
		},
	}
}
