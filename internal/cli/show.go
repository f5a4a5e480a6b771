package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boards/internal/render"
)

func newShowCmd(a *app) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current board",
		Args:  argsUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			s := d.Model().Snapshot()
			switch {
			case a.flags.jsonMode:
				return render.JSON(cmd.OutOrStdout(), s)
			case plain:
				return render.Text(cmd.OutOrStdout(), s)
			default:
				fmt.Fprintln(cmd.OutOrStdout(), render.Styled(s))
				return nil
			}
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "plain text with IDs instead of styled columns")
	return cmd
}
