package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boards/internal/initializer"
	"github.com/mesh-intelligence/boards/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	var template, templatesFile string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and storage",
		Long: "Create the configuration and data directories and open the store.\n" +
			"If the store holds no boards, a starter board is created from a template.",
		Args: argsUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(templatesFile)
			if err != nil {
				return err
			}
			if template == "" {
				template = a.v.GetString(cfgKeyTemplate)
			}
			if _, err := catalog.Lookup(template); err != nil {
				return err
			}

			d, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			seeded, err := initializer.Seed(cmd.Context(), d.Model(), catalog, template)
			if err != nil {
				return check(err)
			}
			d.Refresh()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config: %s\n", paths.ConfigFile(a.configDir))
			fmt.Fprintf(out, "Data:   %s (%s)\n", a.cfg.DataDir, a.cfg.Backend)
			if seeded {
				b, _ := d.Model().CurrentBoard()
				fmt.Fprintf(out, "Created board %q from template %s\n", b.Name, template)
			} else {
				fmt.Fprintf(out, "Store already has %d boards; nothing seeded\n", len(d.Model().GetBoards()))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&template, "template", "", "template for the starter board (default from config)")
	cmd.Flags().StringVar(&templatesFile, "templates-file", "", "YAML template catalog to use instead of the built-in one")
	return cmd
}

// loadCatalog returns the built-in catalog, or the one in path if set.
func loadCatalog(path string) (*initializer.Catalog, error) {
	if path == "" {
		c, err := initializer.Builtin()
		if err != nil {
			return nil, &systemError{err: err}
		}
		return c, nil
	}
	c, err := initializer.LoadFile(path)
	if err != nil {
		return nil, &usageError{err: err}
	}
	return c, nil
}

func newTemplatesCmd(a *app) *cobra.Command {
	var templatesFile string
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List board templates",
		Args:  argsUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(templatesFile)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd, catalog.Templates)
			}
			for _, t := range catalog.Templates {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", t.Name, t.Description)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&templatesFile, "templates-file", "", "YAML template catalog to list instead of the built-in one")
	return cmd
}
