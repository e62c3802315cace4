package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerscan/internal/auditlog"
	"github.com/cleared-dev/ledgerscan/internal/importer"
	"github.com/cleared-dev/ledgerscan/internal/metrics/prometheus"
	"github.com/cleared-dev/ledgerscan/internal/pipeline"
)

func newBatchCommand(g *globalFlags) *cobra.Command {
	var pf pipelineFlags
	var workers int
	var timeout time.Duration
	var metricsOut string
	var move bool

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Analyze every statement in a directory",
		Long: "Analyze every supported statement directly inside <dir> with a bounded worker pool.\n" +
			"Each document's outcome is appended to the audit log.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.load()
			if err != nil {
				return err
			}

			collector, err := prometheus.NewPrometheusCollector(a.cfg.Metrics.Namespace)
			if err != nil {
				return err
			}

			p, err := a.pipeline(pf, collector)
			if err != nil {
				return err
			}

			dir := args[0]
			files, err := p.Extractors().Scan(dir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No statements found in %s\n", dir)
				return nil
			}

			opts := pipeline.BatchOptions{Workers: a.cfg.Batch.Workers, Timeout: a.cfg.Batch.Timeout}
			if workers > 0 {
				opts.Workers = workers
			}
			if timeout > 0 {
				opts.Timeout = timeout
			}

			runID := uuid.NewString()
			outcomes := p.Batch(cmd.Context(), files, opts)

			now := time.Now()
			entries := make([]auditlog.Entry, 0, len(outcomes))
			failed := 0
			var moveErrs []error
			for _, o := range outcomes {
				entries = append(entries, o.AuditEntry(runID, now))
				if o.Err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s: %v\n", o.Status(), o.File, o.Err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s: %s, %d transactions, %d warnings\n",
					o.Status(), o.File, o.Report.Bank, len(o.Report.Transactions), len(o.Report.Warnings))
				if move {
					if err := importer.MarkProcessed(dir, o.File); err != nil {
						moveErrs = append(moveErrs, err)
					}
				}
			}

			if err := auditlog.Append(a.cfg.Audit.Dir, entries); err != nil {
				return err
			}
			if metricsOut != "" {
				if err := collector.WriteTextfile(metricsOut); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Run %s: %d processed, %d failed\n", runID, len(outcomes)-failed, failed)
			if failed > 0 {
				moveErrs = append(moveErrs, fmt.Errorf("%d of %d statements failed", failed, len(outcomes)))
			}
			return errors.Join(moveErrs...)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "documents processed concurrently (default batch.workers)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "time budget per document (default batch.timeout)")
	cmd.Flags().StringVar(&metricsOut, "metrics-out", "", "write Prometheus metrics to this textfile")
	cmd.Flags().BoolVar(&move, "move", false, "move successfully processed files to <dir>/processed")
	addPipelineFlags(cmd, &pf)

	return cmd
}
