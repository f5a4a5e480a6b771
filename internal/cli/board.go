package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boards/internal/initializer"
	"github.com/mesh-intelligence/boards/pkg/taskmodel"
	"github.com/mesh-intelligence/boards/pkg/types"
)

func newBoardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Manage boards",
	}
	cmd.AddCommand(
		newBoardListCmd(a),
		newBoardAddCmd(a),
		newBoardSwitchCmd(a),
		newBoardNextCmd(a),
		newBoardRenameCmd(a),
		newBoardRemoveCmd(a),
	)
	return cmd
}

// currentBoard returns the current board or ErrNoCurrentBoard.
func currentBoard(m *taskmodel.Model) (types.Board, error) {
	b, ok := m.CurrentBoard()
	if !ok {
		return types.Board{}, types.ErrNoCurrentBoard
	}
	return b, nil
}

func printCurrent(cmd *cobra.Command, a *app, m *taskmodel.Model) error {
	b, ok := m.CurrentBoard()
	if a.flags.jsonMode {
		if !ok {
			return printJSON(cmd, nil)
		}
		return printJSON(cmd, b)
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "No current board")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Current board: %s  [%s]\n", b.Name, b.ID)
	return nil
}

func newBoardListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List boards in rotation order",
		Args:  argsUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			m := d.Model()
			boards := m.GetBoards()
			cur, _ := m.CurrentBoard()

			if a.flags.jsonMode {
				return printJSON(cmd, struct {
					CurrentBoardID string        `json:"currentBoardId,omitempty"`
					Boards         []types.Board `json:"boards"`
				}{cur.ID, boards})
			}
			for _, b := range boards {
				mark := " "
				if b.ID == cur.ID {
					mark = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s  [%s]\n", mark, b.Name, b.ID)
			}
			return nil
		},
	}
}

func newBoardAddCmd(a *app) *cobra.Command {
	var template, templatesFile string
	var switchTo bool
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a board",
		Long: "Add a board at the end of the rotation. With --template the board is\n" +
			"built from a template and becomes the current board.",
		Args: argsUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var id string
			if template != "" {
				catalog, err := loadCatalog(templatesFile)
				if err != nil {
					return err
				}
				if strings.TrimSpace(args[0]) == "" {
					return types.ErrInvalidName
				}
				id, err = initializer.Apply(ctx, d.Model(), catalog, template, args[0])
				if err != nil {
					return check(err)
				}
				d.Refresh()
			} else {
				id, err = d.AddBoard(ctx, args[0])
				if err != nil {
					return check(err)
				}
				_, hasCurrent := d.Model().CurrentBoard()
				if switchTo || !hasCurrent {
					if err := d.SwitchBoard(ctx, id); err != nil {
						return check(err)
					}
				}
			}

			if a.flags.jsonMode {
				b, _ := d.Model().GetBoard(id)
				return printJSON(cmd, b)
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&template, "template", "", "build the board from this template")
	cmd.Flags().StringVar(&templatesFile, "templates-file", "", "YAML template catalog to use instead of the built-in one")
	cmd.Flags().BoolVar(&switchTo, "switch", false, "make the new board current")
	return cmd
}

func newBoardSwitchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <board-id>",
		Short: "Make a board current",
		Args:  argsUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if _, ok := d.Model().GetBoard(args[0]); !ok {
				return fmt.Errorf("%w: %s", types.ErrBoardNotFound, args[0])
			}
			if err := d.SwitchBoard(cmd.Context(), args[0]); err != nil {
				return check(err)
			}
			return printCurrent(cmd, a, d.Model())
		},
	}
}

func newBoardNextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Rotate to the next board",
		Args:  argsUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := d.NextBoard(cmd.Context()); err != nil {
				return check(err)
			}
			return printCurrent(cmd, a, d.Model())
		},
	}
}

func newBoardRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name>",
		Short: "Rename the current board",
		Args:  argsUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := currentBoard(d.Model()); err != nil {
				return err
			}
			if strings.TrimSpace(args[0]) == "" {
				return types.ErrInvalidName
			}
			if err := d.RenameBoard(cmd.Context(), args[0]); err != nil {
				return check(err)
			}
			return printCurrent(cmd, a, d.Model())
		},
	}
}

func newBoardRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Remove the current board with its columns and tasks",
		Args:  argsUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			b, err := currentBoard(d.Model())
			if err != nil {
				return err
			}
			if err := d.RemoveBoard(cmd.Context()); err != nil {
				return check(err)
			}
			if !a.flags.jsonMode {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed board %s  [%s]\n", b.Name, b.ID)
			}
			return printCurrent(cmd, a, d.Model())
		},
	}
}
