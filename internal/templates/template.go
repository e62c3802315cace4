package templates

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerscan/internal/model"
)

// ErrInvalidTemplate is returned when a template cannot be compiled.
var ErrInvalidTemplate = errors.New("invalid template")

// Balance field labels understood by BalancePatterns.
const (
	BalanceBeginning    = "beginning"
	BalanceEnding       = "ending"
	BalanceAverageDaily = "average_daily"
)

// Template describes how one institution lays out its statements.
// Templates are configuration and are never modified after compilation.
type Template struct {
	Name string `yaml:"name"`
	// Signatures are case-insensitive regexps tested against document text.
	Signatures []string `yaml:"signatures"`
	// LinePattern captures date, description and amount, in that order.
	LinePattern string `yaml:"line_pattern"`
	// DateFormats are Go time layouts; the first one that parses wins.
	DateFormats []string `yaml:"date_formats"`
	// BalancePatterns maps a balance label to a regexp with one amount group.
	BalancePatterns map[string]string `yaml:"balance_patterns"`
	FooterMarkers   []string          `yaml:"footer_markers,omitempty"`
}

// Compiled is a Template with its patterns compiled once.
type Compiled struct {
	Template

	signatures []*regexp.Regexp
	line       *regexp.Regexp
	balances   map[string]*regexp.Regexp
	footers    []*regexp.Regexp
}

// Compile validates t and compiles its patterns.
func Compile(t Template) (*Compiled, error) {
	if strings.TrimSpace(t.Name) == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidTemplate)
	}
	if len(t.DateFormats) == 0 {
		return nil, fmt.Errorf("%w: %s: no date formats", ErrInvalidTemplate, t.Name)
	}

	c := &Compiled{Template: t, balances: make(map[string]*regexp.Regexp, len(t.BalancePatterns))}

	for _, s := range t.Signatures {
		re, err := regexp.Compile("(?i)" + s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: signature %q: %v", ErrInvalidTemplate, t.Name, s, err)
		}
		c.signatures = append(c.signatures, re)
	}

	line, err := regexp.Compile(t.LinePattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: line pattern: %v", ErrInvalidTemplate, t.Name, err)
	}
	if line.NumSubexp() < 3 {
		return nil, fmt.Errorf("%w: %s: line pattern needs 3 groups, has %d", ErrInvalidTemplate, t.Name, line.NumSubexp())
	}
	c.line = line

	for label, p := range t.BalancePatterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: balance pattern %s: %v", ErrInvalidTemplate, t.Name, label, err)
		}
		c.balances[label] = re
	}

	for _, f := range t.FooterMarkers {
		re, err := regexp.Compile("(?i)" + f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: footer marker %q: %v", ErrInvalidTemplate, t.Name, f, err)
		}
		c.footers = append(c.footers, re)
	}

	return c, nil
}

// MustCompile is like Compile but panics on error. Used for the built-in catalog.
func MustCompile(t Template) *Compiled {
	c, err := Compile(t)
	if err != nil {
		panic(err)
	}
	return c
}

// Matches reports whether any signature occurs in text.
func (c *Compiled) Matches(text string) bool {
	for _, re := range c.signatures {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// MatchLine applies the line pattern and returns the date, description and
// amount fields.
func (c *Compiled) MatchLine(line string) (date, desc, amount string, ok bool) {
	m := c.line.FindStringSubmatch(line)
	if m == nil {
		return "", "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), strings.TrimSpace(m[3]), true
}

// IsFooter reports whether line matches a footer/noise marker.
func (c *Compiled) IsFooter(line string) bool {
	for _, re := range c.footers {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// TrimFooters drops footer/noise lines.
func (c *Compiled) TrimFooters(lines []string) []string {
	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		if c.IsFooter(l) {
			continue
		}
		kept = append(kept, l)
	}
	return kept
}

// StatedBalances extracts the balance figures printed in text.
func (c *Compiled) StatedBalances(text string) model.StatedBalances {
	return model.StatedBalances{
		Beginning:    c.findBalance(BalanceBeginning, text),
		Ending:       c.findBalance(BalanceEnding, text),
		AverageDaily: c.findBalance(BalanceAverageDaily, text),
	}
}

func (c *Compiled) findBalance(label, text string) *decimal.Decimal {
	re, ok := c.balances[label]
	if !ok {
		return nil
	}
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return nil
	}
	return &d
}
