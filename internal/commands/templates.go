package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerscan/internal/templates"
)

func newTemplatesCommand(g *globalFlags) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List bank templates in detection order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.load()
			if err != nil {
				return err
			}

			if dump {
				cat := templates.BuiltinCatalog()
				if a.cfg.Templates.Path != "" {
					if cat, err = templates.LoadCatalog(a.cfg.Templates.Path); err != nil {
						return err
					}
				}
				return templates.WriteCatalog(cmd.OutOrStdout(), cat)
			}

			reg, err := a.cfg.TemplateRegistry()
			if err != nil {
				return err
			}
			for _, name := range reg.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (fallback)\n", reg.Generic().Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "print the template catalog as YAML")
	return cmd
}
