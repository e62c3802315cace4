package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerscan/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "ledgerscan",
		Short:   "Bank statement analysis for cash-flow underwriting",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default ./"+configFileName+" if present)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAnalyzeCommand(g))
	rootCmd.AddCommand(newDetectCommand(g))
	rootCmd.AddCommand(newTemplatesCommand(g))
	rootCmd.AddCommand(newBatchCommand(g))
	rootCmd.AddCommand(newSummarizeCommand(g))

	return rootCmd
}
