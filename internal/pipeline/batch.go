package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/ledgerscan/internal/auditlog"
	"github.com/cleared-dev/ledgerscan/internal/importer"
	"github.com/cleared-dev/ledgerscan/internal/summary"
)

// ErrDocumentTimeout is reported for a document that exceeded its time budget.
var ErrDocumentTimeout = errors.New("document processing timed out")

// Default batch limits.
const (
	DefaultWorkers = 4
	DefaultTimeout = 60 * time.Second
)

// BatchOptions bound a batch run.
type BatchOptions struct {
	Workers int
	Timeout time.Duration
}

// Outcome is the result of processing one file in a batch.
type Outcome struct {
	ID       string
	File     string
	Report   *summary.Report
	Err      error
	Duration time.Duration
}

// Status returns ok, failed or timeout.
func (o Outcome) Status() string {
	if o.Err == nil {
		return auditlog.StatusOK
	}
	return statusOf(o.Err)
}

// AuditEntry converts the outcome to an audit log row.
func (o Outcome) AuditEntry(runID string, at time.Time) auditlog.Entry {
	e := auditlog.Entry{
		Timestamp:  at,
		RunID:      runID,
		File:       o.File,
		Status:     o.Status(),
		DurationMs: o.Duration.Milliseconds(),
	}
	if o.Report != nil {
		e.Bank = o.Report.Bank
		e.Transactions = len(o.Report.Transactions)
		e.Warnings = len(o.Report.Warnings)
	}
	if o.Err != nil {
		e.Error = o.Err.Error()
	}
	return e
}

// Batch processes files with at most Workers in flight. Each file gets its
// own Timeout; a failed or slow file never stops the others. Outcomes are
// returned in input order.
func (p *Pipeline) Batch(ctx context.Context, files []importer.FileInfo, opts BatchOptions) []Outcome {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	outcomes := make([]Outcome, len(files))

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			outcomes[i] = p.processFile(ctx, f, opts.Timeout)
			return nil
		})
	}
	_ = g.Wait()

	p.log.Info("batch complete", zap.Int("files", len(files)), zap.Int("workers", opts.Workers))
	return outcomes
}

type result struct {
	report summary.Report
	err    error
}

func (p *Pipeline) processFile(ctx context.Context, f importer.FileInfo, timeout time.Duration) Outcome {
	start := time.Now()
	out := Outcome{ID: uuid.NewString(), File: f.Name}

	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			done <- result{err: fmt.Errorf("reading %s: %w", f.Name, err)}
			return
		}
		r, err := p.run(dctx, f.Name, data)
		done <- result{report: r, err: err}
	}()

	select {
	case res := <-done:
		out.Err = res.err
		if res.err == nil {
			out.Report = &res.report
		} else if errors.Is(res.err, context.DeadlineExceeded) {
			out.Err = fmt.Errorf("%s: %w", f.Name, ErrDocumentTimeout)
		}
	case <-dctx.Done():
		if errors.Is(dctx.Err(), context.DeadlineExceeded) {
			out.Err = fmt.Errorf("%s: %w", f.Name, ErrDocumentTimeout)
		} else {
			out.Err = dctx.Err()
		}
	}

	out.Duration = time.Since(start)
	var r summary.Report
	if out.Report != nil {
		r = *out.Report
	}
	p.record(f.Name, r, out.Err, out.Duration)
	return out
}
