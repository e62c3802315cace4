package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newDetectCommand(g *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "detect <file>",
		Short: "Print the bank template detected for a statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.load()
			if err != nil {
				return err
			}

			p, err := a.pipeline(pipelineFlags{format: format}, nil)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading statement: %w", err)
			}

			doc, err := p.Extract(cmd.Context(), filepath.Base(args[0]), data)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), p.Detect(doc.Text()).Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "force an extractor (pdf, csv, xlsx, chase)")
	return cmd
}
