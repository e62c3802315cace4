package parser

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cleared-dev/ledgerscan/internal/classify"
	"github.com/cleared-dev/ledgerscan/internal/logging"
	"github.com/cleared-dev/ledgerscan/internal/model"
	"github.com/cleared-dev/ledgerscan/internal/templates"
)

// Row is one tabulated statement line before parsing.
type Row struct {
	Date        string
	Description string
	Amount      string
	Balance     string
	Raw         string
}

// Options configure a Parser.
type Options struct {
	// Template supplies date formats, line pattern and footer markers.
	// Defaults to the generic template.
	Template *templates.Compiled
	// Year fills dates whose layout has no year. Zero uses the clock's year.
	Year int
	// Now is the clock used for year fill and unparsed-date fallback.
	Now func() time.Time
	// StrictDates drops rows whose date cannot be parsed.
	StrictDates bool
	Logger      *logging.Logger
}

// Result is the parser output. Transactions are sorted by date.
type Result struct {
	Transactions []model.Transaction
	Warnings     []model.Warning
	// Stated holds balances printed in the text. ParseText fills it; table
	// callers set it from the document text.
	Stated model.StatedBalances
}

// Parser turns rows or text lines into typed transactions.
type Parser struct {
	tmpl   *templates.Compiled
	year   int
	now    func() time.Time
	strict bool
	log    *logging.Logger
}

// New creates a Parser.
func New(opts Options) *Parser {
	p := &Parser{
		tmpl:   opts.Template,
		year:   opts.Year,
		now:    opts.Now,
		strict: opts.StrictDates,
		log:    logging.OrNop(opts.Logger),
	}
	if p.tmpl == nil {
		p.tmpl = templates.MustCompile(templates.GenericTemplate())
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Template returns the template in use.
func (p *Parser) Template() *templates.Compiled {
	return p.tmpl
}

// Parse converts rows into transactions. Malformed fields become warnings;
// only StrictDates removes rows.
func (p *Parser) Parse(rows []Row) Result {
	var res Result
	for i, row := range rows {
		n := i + 1

		date, ok := p.parseDate(row.Date)
		dateMissing := !ok
		if dateMissing {
			res.Warnings = append(res.Warnings, model.Warning{
				Code:    model.WarnDateUnparsed,
				Row:     n,
				Message: fmt.Sprintf("could not parse date %q", row.Date),
			})
			if p.strict {
				continue
			}
			date = model.Day(p.now())
		}

		amount, err := ParseAmount(row.Amount)
		if err != nil {
			res.Warnings = append(res.Warnings, model.Warning{
				Code:    model.WarnAmountUnparsed,
				Row:     n,
				Message: fmt.Sprintf("could not parse amount %q", row.Amount),
			})
		}

		balance, err := ParseAmount(row.Balance)
		if err != nil && !errors.Is(err, ErrEmptyAmount) {
			res.Warnings = append(res.Warnings, model.Warning{
				Code:    model.WarnBalanceUnparsed,
				Row:     n,
				Message: fmt.Sprintf("could not parse balance %q", row.Balance),
			})
		}

		desc := strings.TrimSpace(row.Description)
		txn := model.Transaction{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Balance:     balance,
			Type:        classify.ClassifyType(desc, amount),
			Raw:         row.Raw,
		}
		if dateMissing {
			txn.AddFlag(model.FlagDateUnparsed)
		}
		res.Transactions = append(res.Transactions, txn)
	}

	sort.SliceStable(res.Transactions, func(i, j int) bool {
		return res.Transactions[i].Date.Before(res.Transactions[j].Date)
	})

	p.log.Debug("parsed rows",
		zap.String("template", p.tmpl.Name),
		zap.Int("rows", len(rows)),
		zap.Int("transactions", len(res.Transactions)),
		zap.Int("warnings", len(res.Warnings)),
	)
	return res
}

// ParseText extracts transactions from page text using the template's
// line pattern. Text lines carry no balance, so a running balance is
// derived from the stated beginning balance (zero when absent) and every
// transaction is flagged BALANCE_DERIVED.
func (p *Parser) ParseText(pages []string) Result {
	text := strings.Join(pages, "\n")

	var rows []Row
	for _, page := range pages {
		lines := p.tmpl.TrimFooters(strings.Split(page, "\n"))
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			date, desc, amount, ok := p.tmpl.MatchLine(line)
			if !ok {
				continue
			}
			rows = append(rows, Row{Date: date, Description: desc, Amount: amount, Raw: line})
		}
	}

	res := p.Parse(rows)
	res.Stated = p.tmpl.StatedBalances(text)
	DeriveBalances(&res)
	return res
}

// HasBalances reports whether any row carries a balance cell.
func HasBalances(rows []Row) bool {
	for _, r := range rows {
		if strings.TrimSpace(r.Balance) != "" {
			return true
		}
	}
	return false
}

// DeriveBalances overwrites each balance with a running total that starts
// at the stated beginning balance (zero when absent) and flags every
// transaction BALANCE_DERIVED. Transactions must be in date order.
func DeriveBalances(res *Result) {
	running := decimal.Zero
	if res.Stated.Beginning != nil {
		running = *res.Stated.Beginning
	}
	for i := range res.Transactions {
		running = running.Add(res.Transactions[i].Amount)
		res.Transactions[i].Balance = running
		res.Transactions[i].AddFlag(model.FlagBalanceDerived)
	}
}

func (p *Parser) parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range p.tmpl.DateFormats {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if !layoutHasYear(layout) {
			t = time.Date(p.statementYear(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
		return model.Day(t), true
	}
	return time.Time{}, false
}

func (p *Parser) statementYear() int {
	if p.year > 0 {
		return p.year
	}
	return p.now().Year()
}

// layoutHasYear reports whether a Go layout contains a year element.
// "2006" contains "06", so one check covers both forms.
func layoutHasYear(layout string) bool {
	return strings.Contains(layout, "06")
}
