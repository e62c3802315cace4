package templates

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"chase", "Statement period ... Chase Total Business Checking ... chase.com", "Chase"},
		{"chase domain only", "questions? visit CHASE.COM/business", "Chase"},
		{"bank of america beats chase", "Bank of America, N.A. wire from JPMorgan Chase", "Bank of America"},
		{"wells fargo with purchase lines", "Wells Fargo Business Checking\nPOS PURCHASE HOME DEPOT", "Wells Fargo"},
		{"us bank dotted", "U.S. Bank National Association", "US Bank"},
		{"pnc", "PNC Bank statement", "PNC"},
		{"citibank", "www.citi.com", "Citibank"},
		{"purchase is not chase", "First Community Credit Union\nPOS PURCHASE HOME DEPOT\nCARD PURCHASE SHELL", GenericName},
		{"purchases alone", "PURCHASES AND ADJUSTMENTS", GenericName},
		{"unknown falls back", "First Community Credit Union", GenericName},
		{"empty falls back", "", GenericName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Detect(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestGet(t *testing.T) {
	r := DefaultRegistry()

	c, ok := r.Get("chase")
	require.True(t, ok)
	assert.Equal(t, "Chase", c.Name)

	c, ok = r.Get("  WELLS FARGO ")
	require.True(t, ok)
	assert.Equal(t, "Wells Fargo", c.Name)

	c, ok = r.Get("generic")
	assert.False(t, ok, "generic is only reachable as the fallback")
	assert.Nil(t, c)

	_, ok = r.Get("Bank of Nowhere")
	assert.False(t, ok)
}

func TestNamesOrder(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"Bank of America", "Chase", "Wells Fargo", "US Bank", "PNC", "Citibank"}, r.Names())
	assert.Equal(t, GenericName, r.Generic().Name)
	assert.Empty(t, r.Generic().Signatures)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := DefaultRegistry()
	assert.Panics(t, func() {
		r.Register(MustCompile(chase()))
	})
}

func TestMatchLine(t *testing.T) {
	r := DefaultRegistry()
	c, ok := r.Get("chase")
	require.True(t, ok)

	date, desc, amount, ok := c.MatchLine("01/15 SQUARE INC DEPOSIT 1,250.00")
	require.True(t, ok)
	assert.Equal(t, "01/15", date)
	assert.Equal(t, "SQUARE INC DEPOSIT", desc)
	assert.Equal(t, "1,250.00", amount)

	_, _, _, ok = c.MatchLine("DAILY ENDING BALANCE")
	assert.False(t, ok)
}

func TestTrimFooters(t *testing.T) {
	c := MustCompile(bankOfAmerica())
	lines := []string{
		"01/02/2025 DEPOSIT 100.00",
		"Page 1 of 4",
		"01/03/2025 CARD PURCHASE -20.00",
		"See the big picture with Business Advantage",
	}
	assert.Equal(t, []string{lines[0], lines[2]}, c.TrimFooters(lines))
}

func TestStatedBalances(t *testing.T) {
	c := MustCompile(chase())
	text := "Beginning Balance: $5,000.00\nEnding balance $6,250.50\nAverage collected balance: $5,500.00"

	got := c.StatedBalances(text)
	require.NotNil(t, got.Beginning)
	require.NotNil(t, got.Ending)
	require.NotNil(t, got.AverageDaily)
	assert.Equal(t, "5000.00", got.Beginning.StringFixed(2))
	assert.Equal(t, "6250.50", got.Ending.StringFixed(2))
	assert.Equal(t, "5500.00", got.AverageDaily.StringFixed(2))

	none := c.StatedBalances("no balances printed here")
	assert.Nil(t, none.Beginning)
	assert.Nil(t, none.Ending)
	assert.Nil(t, none.AverageDaily)
}

func TestCompileErrors(t *testing.T) {
	base := GenericTemplate()

	bad := base
	bad.Name = ""
	_, err := Compile(bad)
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	bad = base
	bad.Signatures = []string{"("}
	_, err = Compile(bad)
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	bad = base
	bad.LinePattern = `(\d+)\s+(.+)`
	_, err = Compile(bad)
	assert.ErrorIs(t, err, ErrInvalidTemplate)
	assert.Contains(t, err.Error(), "needs 3 groups")

	bad = base
	bad.DateFormats = nil
	_, err = Compile(bad)
	assert.ErrorIs(t, err, ErrInvalidTemplate)
}

func TestFromCatalog_Validation(t *testing.T) {
	cat := BuiltinCatalog()
	cat.Generic.Signatures = []string{"anything"}
	_, err := FromCatalog(cat)
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	cat = BuiltinCatalog()
	cat.Templates = append(cat.Templates, chase())
	_, err = FromCatalog(cat)
	assert.ErrorIs(t, err, ErrInvalidTemplate)
	assert.Contains(t, err.Error(), "duplicate")

	cat = BuiltinCatalog()
	cat.Templates[0].Signatures = nil
	_, err = FromCatalog(cat)
	assert.ErrorIs(t, err, ErrInvalidTemplate)
}

func TestCatalogRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, SaveCatalog(path, BuiltinCatalog()))

	r, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultRegistry().Names(), r.Names())
	assert.Equal(t, "Chase", r.Detect("chase.com").Name)

	c, ok := r.Get("Bank of America")
	require.True(t, ok)
	assert.Equal(t, bankOfAmerica().DateFormats, c.DateFormats)
	assert.Equal(t, bankOfAmerica().BalancePatterns, c.BalancePatterns)
}

func TestCatalogOverride(t *testing.T) {
	cat := Catalog{
		Templates: []Template{{
			Name:        "Mercury",
			Signatures:  []string{`mercury\.com`},
			LinePattern: `(\d{4}-\d{2}-\d{2})\s+(.+?)\s+(-?[\d,]+\.\d{2})`,
			DateFormats: []string{"2006-01-02"},
		}},
		Generic: GenericTemplate(),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCatalog(&buf, cat))
	assert.Contains(t, buf.String(), "name: Mercury")

	r, err := FromCatalog(cat)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mercury"}, r.Names())
	assert.Equal(t, "Mercury", r.Detect("app.mercury.com").Name)
	assert.Equal(t, GenericName, r.Detect("Chase").Name)
}

func TestLoadRegistry_Default(t *testing.T) {
	r, err := LoadRegistry("")
	require.NoError(t, err)
	assert.Len(t, r.Names(), 6)
}

func TestLoadCatalog_NotFound(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
