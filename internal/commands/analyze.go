package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerscan/internal/ledger"
)

func newAnalyzeCommand(g *globalFlags) *cobra.Command {
	var pf pipelineFlags
	var ledgerPath string
	var scoring bool

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze one bank statement and print its summary as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.load()
			if err != nil {
				return err
			}

			p, err := a.pipeline(pf, nil)
			if err != nil {
				return err
			}

			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading statement: %w", err)
			}

			r, err := p.Process(cmd.Context(), filepath.Base(path), data)
			if err != nil {
				return err
			}

			if ledgerPath != "" {
				if err := ledger.WriteFile(ledgerPath, r.Transactions); err != nil {
					return err
				}
			}

			if scoring {
				return writeJSON(cmd.OutOrStdout(), p.Assembler().ScoringInput(r))
			}
			return writeJSON(cmd.OutOrStdout(), r)
		},
	}

	cmd.Flags().StringVar(&ledgerPath, "ledger", "", "also write the classified transactions to this CSV file")
	cmd.Flags().BoolVar(&scoring, "scoring", false, "print the scoring-engine input instead of the summary")
	addPipelineFlags(cmd, &pf)

	return cmd
}

func addPipelineFlags(cmd *cobra.Command, pf *pipelineFlags) {
	cmd.Flags().StringVar(&pf.bank, "bank", "", "force a bank template instead of detecting one")
	cmd.Flags().StringVar(&pf.format, "format", "", "force an extractor (pdf, csv, xlsx, chase)")
	cmd.Flags().IntVar(&pf.year, "year", 0, "year for dates printed without one")
	cmd.Flags().BoolVar(&pf.strictDates, "strict-dates", false, "drop rows whose date cannot be parsed")
}
