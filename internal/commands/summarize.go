package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerscan/internal/ledger"
	"github.com/cleared-dev/ledgerscan/internal/templates"
)

func newSummarizeCommand(g *globalFlags) *cobra.Command {
	var bank string
	var scoring bool

	cmd := &cobra.Command{
		Use:   "summarize <ledger.csv>",
		Short: "Rebuild a summary from a ledger written by analyze --ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.load()
			if err != nil {
				return err
			}

			txns, err := ledger.ReadFile(args[0])
			if err != nil {
				return err
			}

			p, err := a.pipeline(pipelineFlags{}, nil)
			if err != nil {
				return err
			}

			r := p.Summarize(bank, txns)
			if scoring {
				return writeJSON(cmd.OutOrStdout(), p.Assembler().ScoringInput(r))
			}
			return writeJSON(cmd.OutOrStdout(), r)
		},
	}

	cmd.Flags().StringVar(&bank, "bank", templates.GenericName, "bank name to report")
	cmd.Flags().BoolVar(&scoring, "scoring", false, "print the scoring-engine input instead of the summary")
	return cmd
}
