package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boards/pkg/taskmodel"
	"github.com/mesh-intelligence/boards/pkg/types"
)

func newColumnCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Manage the columns of the current board",
	}
	cmd.AddCommand(
		newColumnListCmd(a),
		newColumnAddCmd(a),
		newColumnEditCmd(a),
		newColumnMoveCmd(a),
		newColumnRemoveCmd(a),
	)
	return cmd
}

// lookupColumn returns the column or ErrColumnNotFound.
func lookupColumn(m *taskmodel.Model, id string) (types.Column, error) {
	c, ok := m.GetColumn(id)
	if !ok {
		return types.Column{}, fmt.Errorf("%w: %s", types.ErrColumnNotFound, id)
	}
	return c, nil
}

// parseSize accepts "full" or "half" in any case.
func parseSize(s string) (types.ColumnSize, error) {
	size := types.ColumnSize(strings.ToUpper(strings.TrimSpace(s)))
	if !size.Valid() {
		return "", &usageError{err: fmt.Errorf("invalid column size %q: want full or half", s)}
	}
	return size, nil
}

// columnView pairs a column with its WIP load for listings.
type columnView struct {
	types.Column
	Wip types.WipStatus `json:"wip"`
}

func newColumnListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the columns of the current board",
		Args:  argsUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			m := d.Model()
			if _, err := currentBoard(m); err != nil {
				return err
			}

			cols := m.GetColumns()
			views := make([]columnView, 0, len(cols))
			for _, c := range cols {
				w, _ := m.ColumnWip(c.ID)
				views = append(views, columnView{Column: c, Wip: w})
			}
			if a.flags.jsonMode {
				return printJSON(cmd, views)
			}
			for _, v := range views {
				line := fmt.Sprintf("%-20s %9s  %-4s", v.Name, v.Wip, strings.ToLower(string(v.Options.Size)))
				if v.Wip.Exceeded {
					line += "  over limit"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  [%s]\n", line, v.ID)
			}
			return nil
		},
	}
}

func newColumnAddCmd(a *app) *cobra.Command {
	var wip int
	var size string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a column to the end of the current board",
		Args:  argsUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			sz, err := parseSize(size)
			if err != nil {
				return err
			}
			d, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			id, err := d.AddColumn(cmd.Context(), args[0], wip, types.ColumnOptions{Size: sz})
			if err != nil {
				return check(err)
			}
			if a.flags.jsonMode {
				c, _ := d.Model().GetColumn(id)
				return printJSON(cmd, c)
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().IntVar(&wip, "wip", 0, fmt.Sprintf("WIP limit (default %d)", types.DefaultWipLimit))
	cmd.Flags().StringVar(&size, "size", "full", "column width: full or half")
	return cmd
}

func newColumnEditCmd(a *app) *cobra.Command {
	var name, size string
	var wip int
	cmd := &cobra.Command{
		Use:   "edit <column-id>",
		Short: "Change a column's name, WIP limit or size",
		Args:  argsUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			c, err := lookupColumn(d.Model(), args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				if strings.TrimSpace(name) == "" {
					return types.ErrInvalidName
				}
				c.Name = name
			}
			if flags.Changed("wip") {
				if wip <= 0 {
					return types.ErrInvalidWipLimit
				}
				c.WipLimit = wip
			}
			if flags.Changed("size") {
				if c.Options.Size, err = parseSize(size); err != nil {
					return err
				}
			}

			if err := d.EditColumn(cmd.Context(), c.ID, c.Name, c.WipLimit, c.Options); err != nil {
				return check(err)
			}
			c, _ = d.Model().GetColumn(c.ID)
			if a.flags.jsonMode {
				return printJSON(cmd, c)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  wip %d  %s  [%s]\n", c.Name, c.WipLimit, strings.ToLower(string(c.Options.Size)), c.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().IntVar(&wip, "wip", 0, "new WIP limit")
	cmd.Flags().StringVar(&size, "size", "", "new width: full or half")
	return cmd
}

func newColumnMoveCmd(a *app) *cobra.Command {
	var before, after bool
	cmd := &cobra.Command{
		Use:   "move <column-id> <target-column-id>",
		Short: "Move a column before or after another column",
		Args:  argsUsage(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := types.InsertBefore
			if after {
				mode = types.InsertAfter
			}

			d, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			m := d.Model()
			src, err := lookupColumn(m, args[0])
			if err != nil {
				return err
			}
			target, err := lookupColumn(m, args[1])
			if err != nil {
				return err
			}
			if src.BoardID != target.BoardID {
				return fmt.Errorf("%w: %s is on another board", types.ErrColumnNotFound, target.ID)
			}

			if err := d.ReorderColumns(cmd.Context(), src.BoardID, src.ID, target.ID, mode); err != nil {
				return check(err)
			}
			cols := m.GetColumnsByBoard(src.BoardID)
			if a.flags.jsonMode {
				return printJSON(cmd, cols)
			}
			for _, c := range cols {
				fmt.Fprintf(cmd.OutOrStdout(), "%d %s  [%s]\n", c.Order, c.Name, c.ID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&before, "before", false, "place the column before the target")
	cmd.Flags().BoolVar(&after, "after", false, "place the column after the target")
	cmd.MarkFlagsMutuallyExclusive("before", "after")
	cmd.MarkFlagsOneRequired("before", "after")
	return cmd
}

func newColumnRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <column-id>",
		Short: "Remove a column and its tasks",
		Args:  argsUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			c, err := lookupColumn(d.Model(), args[0])
			if err != nil {
				return err
			}
			n := len(d.Model().GetTasksByColumn(c.ID))
			if err := d.RemoveColumn(cmd.Context(), c.ID); err != nil {
				return check(err)
			}
			if a.flags.jsonMode {
				return printJSON(cmd, c)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed column %s and %d tasks\n", c.Name, n)
			return nil
		},
	}
}
