package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cleared-dev/ledgerscan/internal/auditlog"
	"github.com/cleared-dev/ledgerscan/internal/classify"
	"github.com/cleared-dev/ledgerscan/internal/importer"
	"github.com/cleared-dev/ledgerscan/internal/logging"
	"github.com/cleared-dev/ledgerscan/internal/metrics"
	"github.com/cleared-dev/ledgerscan/internal/model"
	"github.com/cleared-dev/ledgerscan/internal/parser"
	"github.com/cleared-dev/ledgerscan/internal/reconcile"
	"github.com/cleared-dev/ledgerscan/internal/summary"
	"github.com/cleared-dev/ledgerscan/internal/templates"
)

// ErrUnknownBank is returned when a forced bank names no template.
var ErrUnknownBank = errors.New("unknown bank template")

// Options configure a Pipeline. Nil components fall back to built-in defaults.
type Options struct {
	Templates  *templates.Registry
	Extractors *importer.Registry
	Classifier *classify.Classifier
	Assembler  *summary.Assembler

	// Bank forces a template by name instead of detecting one.
	Bank string
	// Format forces an extractor by name instead of dispatching on extension.
	Format string

	Year        int
	StrictDates bool
	Now         func() time.Time

	Logger  *logging.Logger
	Metrics metrics.Collector
}

// Pipeline runs statement documents through extraction, detection,
// parsing, classification, reconciliation and assembly.
type Pipeline struct {
	templates  *templates.Registry
	extractors *importer.Registry
	classifier *classify.Classifier
	assembler  *summary.Assembler
	forced     *templates.Compiled
	format     importer.Extractor

	year   int
	strict bool
	now    func() time.Time

	log     *logging.Logger
	metrics metrics.Collector
}

// New creates a Pipeline.
func New(opts Options) (*Pipeline, error) {
	p := &Pipeline{
		templates:  opts.Templates,
		extractors: opts.Extractors,
		classifier: opts.Classifier,
		assembler:  opts.Assembler,
		year:       opts.Year,
		strict:     opts.StrictDates,
		now:        opts.Now,
		log:        logging.OrNop(opts.Logger).Named("pipeline"),
		metrics:    opts.Metrics,
	}
	if p.templates == nil {
		p.templates = templates.DefaultRegistry()
	}
	if p.extractors == nil {
		p.extractors = importer.DefaultRegistry()
	}
	if p.classifier == nil {
		c, err := classify.NewClassifier(classify.DefaultPatterns())
		if err != nil {
			return nil, err
		}
		p.classifier = c
	}
	if p.assembler == nil {
		p.assembler = summary.DefaultAssembler()
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.metrics == nil {
		p.metrics = metrics.NoOpCollector{}
	}

	if opts.Bank != "" {
		c, ok := p.templates.Get(opts.Bank)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBank, opts.Bank)
		}
		p.forced = c
	}
	if opts.Format != "" {
		p.format = p.extractors.Get(opts.Format)
		if p.format == nil {
			return nil, fmt.Errorf("%q: %w", opts.Format, importer.ErrUnsupportedFormat)
		}
	}
	return p, nil
}

// Assembler returns the assembler in use.
func (p *Pipeline) Assembler() *summary.Assembler {
	return p.assembler
}

// Extractors returns the extractor registry in use.
func (p *Pipeline) Extractors() *importer.Registry {
	return p.extractors
}

// Detect returns the forced template, or the first whose signature
// appears in text.
func (p *Pipeline) Detect(text string) *templates.Compiled {
	if p.forced != nil {
		return p.forced
	}
	return p.templates.Detect(text)
}

// Extract converts file bytes into a Document.
func (p *Pipeline) Extract(ctx context.Context, name string, data []byte) (importer.Document, error) {
	ext := p.format
	if ext == nil {
		var err error
		if ext, err = p.extractors.ForFile(name); err != nil {
			return importer.Document{}, err
		}
	}

	doc, err := ext.Extract(ctx, name, data)
	if err != nil {
		return importer.Document{}, fmt.Errorf("extracting %s: %w", name, err)
	}
	return doc, nil
}

// Process analyses one statement file. Errors are reserved for unreadable
// input; row-level problems end up as report warnings.
func (p *Pipeline) Process(ctx context.Context, name string, data []byte) (summary.Report, error) {
	start := time.Now()
	r, err := p.run(ctx, name, data)
	p.record(name, r, err, time.Since(start))
	return r, err
}

func (p *Pipeline) run(ctx context.Context, name string, data []byte) (summary.Report, error) {
	doc, err := p.Extract(ctx, name, data)
	if err != nil {
		return summary.Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return summary.Report{}, err
	}
	return p.ProcessDocument(doc), nil
}

func (p *Pipeline) record(name string, r summary.Report, err error, elapsed time.Duration) {
	if err != nil {
		p.metrics.RecordDocument(statusOf(err), elapsed)
		p.log.Warn("processing failed", zap.String("file", name), zap.Error(err))
		return
	}
	p.metrics.RecordDocument(auditlog.StatusOK, elapsed)
	p.metrics.RecordTransactions(r.Bank, len(r.Transactions))
	for _, w := range r.Warnings {
		p.metrics.RecordWarning(string(w.Code))
	}
	p.log.Info("processed statement",
		zap.String("file", name),
		zap.String("bank", r.Bank),
		zap.Int("transactions", len(r.Transactions)),
		zap.Int("warnings", len(r.Warnings)),
		zap.Duration("duration", elapsed),
	)
}

// ProcessDocument analyses an extracted document. Tables with a
// recognisable header are preferred; otherwise page text is matched line
// by line against the detected template.
func (p *Pipeline) ProcessDocument(doc importer.Document) summary.Report {
	tmpl := p.Detect(doc.Text())
	p.log.Debug("detected template", zap.String("bank", tmpl.Name))

	prs := p.parser(tmpl)

	var rows []parser.Row
	tabular := false
	for i, table := range doc.Tables {
		tr, err := parser.TableRows(table)
		if err != nil {
			p.log.Debug("skipping table", zap.Int("table", i), zap.Error(err))
			continue
		}
		tabular = true
		rows = append(rows, tr...)
	}

	var res parser.Result
	if tabular {
		res = prs.Parse(rows)
		res.Stated = tmpl.StatedBalances(doc.Text())
		if !parser.HasBalances(rows) {
			parser.DeriveBalances(&res)
		}
	} else {
		res = prs.ParseText(doc.Pages)
	}
	return p.finish(tmpl.Name, res)
}

// ProcessRows analyses already-tabulated rows with the forced template,
// or the generic one when none is forced. Rows without any balance get a
// derived running balance.
func (p *Pipeline) ProcessRows(rows []parser.Row) summary.Report {
	tmpl := p.forced
	if tmpl == nil {
		tmpl = p.templates.Generic()
	}
	res := p.parser(tmpl).Parse(rows)
	if !parser.HasBalances(rows) {
		parser.DeriveBalances(&res)
	}
	return p.finish(tmpl.Name, res)
}

func (p *Pipeline) parser(tmpl *templates.Compiled) *parser.Parser {
	return parser.New(parser.Options{
		Template:    tmpl,
		Year:        p.year,
		Now:         p.now,
		StrictDates: p.strict,
		Logger:      p.log,
	})
}

func (p *Pipeline) finish(bank string, res parser.Result) summary.Report {
	p.classifier.Annotate(res.Transactions)

	warnings := append(res.Warnings, reconcile.Check(res.Transactions, res.Stated)...)

	return p.assembler.Assemble(summary.Input{
		Bank:         bank,
		Transactions: res.Transactions,
		Warnings:     warnings,
		Stated:       res.Stated,
	})
}

// Summarize re-assembles a report from an exported ledger. Transactions
// keep their recorded types and categories.
func (p *Pipeline) Summarize(bank string, txns []model.Transaction) summary.Report {
	return p.assembler.Assemble(summary.Input{
		Bank:         bank,
		Transactions: txns,
		Warnings:     reconcile.Check(txns, model.StatedBalances{}),
	})
}

func statusOf(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrDocumentTimeout) {
		return auditlog.StatusTimeout
	}
	return auditlog.StatusFailed
}
