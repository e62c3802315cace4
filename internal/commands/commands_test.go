package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerscan/internal/auditlog"
	"github.com/cleared-dev/ledgerscan/internal/commands"
	"github.com/cleared-dev/ledgerscan/internal/config"
	"github.com/cleared-dev/ledgerscan/internal/ledger"
)

const statementCSV = `Date,Description,Amount,Balance
01/02/2025,KAPITUS FUNDING,5000.00,6000.00
01/03/2025,SQUARE INC DEPOSIT,2000.00,8000.00
01/05/2025,KAPITUS DAILY DEBIT,-250.00,7750.00
01/06/2025,NSF FEE,-35.00,7715.00
`

func runLedgerscan(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := commands.NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// workspace writes a config whose audit dir lives in a temp directory.
func workspace(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	cfg := config.Default()
	cfg.Audit.Dir = filepath.Join(dir, "logs")
	cfg.Logging.Level = "error"
	cfgPath = filepath.Join(dir, config.FileName)
	require.NoError(t, config.Save(cfgPath, cfg))
	return dir, cfgPath
}

func writeStatement(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestAnalyze(t *testing.T) {
	dir, cfgPath := workspace(t)
	stmt := writeStatement(t, dir, "jan.csv", statementCSV)
	ledgerPath := filepath.Join(dir, "ledger.csv")

	out, err := runLedgerscan(t, "--config", cfgPath, "analyze", stmt, "--ledger", ledgerPath)
	require.NoError(t, err, out)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Generic", got["bank"])
	assert.Equal(t, "7000", got["total_deposits"])
	assert.Equal(t, []any{"KAPITUS"}, got["mca_lenders"])
	assert.Contains(t, got, "cash_flow")

	txns, err := ledger.ReadFile(ledgerPath)
	require.NoError(t, err)
	assert.Len(t, txns, 4)
}

func TestAnalyze_Scoring(t *testing.T) {
	dir, cfgPath := workspace(t)
	stmt := writeStatement(t, dir, "jan.csv", statementCSV)

	out, err := runLedgerscan(t, "--config", cfgPath, "analyze", stmt, "--scoring")
	require.NoError(t, err, out)
	assert.Contains(t, out, `"nsf_count_90d": 1`)
	assert.Contains(t, out, `"mca_positions"`)
}

func TestAnalyze_UnknownBank(t *testing.T) {
	dir, cfgPath := workspace(t)
	stmt := writeStatement(t, dir, "jan.csv", statementCSV)

	_, err := runLedgerscan(t, "--config", cfgPath, "analyze", stmt, "--bank", "Nowhere Savings")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown bank template")
}

func TestAnalyze_MissingFile(t *testing.T) {
	_, cfgPath := workspace(t)
	_, err := runLedgerscan(t, "--config", cfgPath, "analyze", "/nonexistent/statement.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading statement")
}

func TestDetect(t *testing.T) {
	dir, cfgPath := workspace(t)
	stmt := writeStatement(t, dir, "pnc.csv", "PNC Bank business checking\n"+statementCSV)

	out, err := runLedgerscan(t, "--config", cfgPath, "detect", stmt)
	require.NoError(t, err)
	assert.Equal(t, "PNC\n", out)
}

func TestTemplates(t *testing.T) {
	_, cfgPath := workspace(t)

	out, err := runLedgerscan(t, "--config", cfgPath, "templates")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "Bank of America", lines[0])
	assert.Equal(t, "Generic (fallback)", lines[len(lines)-1])

	out, err = runLedgerscan(t, "--config", cfgPath, "templates", "--dump")
	require.NoError(t, err)
	assert.Contains(t, out, "templates:")
	assert.Contains(t, out, "name: Chase")
}

func TestSummarize(t *testing.T) {
	dir, cfgPath := workspace(t)
	stmt := writeStatement(t, dir, "jan.csv", statementCSV)
	ledgerPath := filepath.Join(dir, "ledger.csv")
	_, err := runLedgerscan(t, "--config", cfgPath, "analyze", stmt, "--ledger", ledgerPath)
	require.NoError(t, err)

	out, err := runLedgerscan(t, "--config", cfgPath, "summarize", ledgerPath, "--bank", "Chase")
	require.NoError(t, err, out)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Chase", got["bank"])
	assert.Equal(t, "7000", got["total_deposits"])
	assert.Equal(t, float64(1), got["nsf_count"])
}

func TestBatch(t *testing.T) {
	dir, cfgPath := workspace(t)
	inbox := filepath.Join(dir, "inbox")
	require.NoError(t, os.MkdirAll(inbox, 0o755))
	writeStatement(t, inbox, "a.csv", statementCSV)
	writeStatement(t, inbox, "b.xlsx", "not a workbook")
	metricsPath := filepath.Join(dir, "ledgerscan.prom")

	out, err := runLedgerscan(t, "--config", cfgPath, "batch", inbox, "--metrics-out", metricsPath, "--move")
	require.Error(t, err, "one statement fails")
	assert.Contains(t, err.Error(), "1 of 2 statements failed")
	assert.Contains(t, out, "ok       a.csv: Generic, 4 transactions, 0 warnings")
	assert.Contains(t, out, "failed   b.xlsx")

	entries, err := auditlog.Read(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entries[0].RunID, entries[1].RunID)
	assert.Equal(t, auditlog.StatusOK, entries[0].Status)
	assert.Equal(t, auditlog.StatusFailed, entries[1].Status)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `ledgerscan_documents_processed_total{status="ok"} 1`)

	_, err = os.Stat(filepath.Join(inbox, "processed", "a.csv"))
	assert.NoError(t, err, "successful statement moved")
	_, err = os.Stat(filepath.Join(inbox, "b.xlsx"))
	assert.NoError(t, err, "failed statement left in place")
}

func TestBatch_MoveFailureKeepsAuditLog(t *testing.T) {
	dir, cfgPath := workspace(t)
	inbox := filepath.Join(dir, "inbox")
	require.NoError(t, os.MkdirAll(inbox, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "a.csv"), []byte(statementCSV), 0o644))
	// A plain file where the processed directory should go.
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "processed"), nil, 0o644))
	metricsPath := filepath.Join(dir, "ledgerscan.prom")

	_, err := runLedgerscan(t, "--config", cfgPath, "batch", inbox, "--metrics-out", metricsPath, "--move")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating processed dir")

	entries, err := auditlog.Read(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, auditlog.StatusOK, entries[0].Status)

	_, err = os.Stat(metricsPath)
	assert.NoError(t, err, "metrics written despite the failed move")
}

func TestBatch_Empty(t *testing.T) {
	dir, cfgPath := workspace(t)
	out, err := runLedgerscan(t, "--config", cfgPath, "batch", dir+"/nothing-here")
	require.NoError(t, err)
	assert.Contains(t, out, "No statements found")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	out, err := runLedgerscan(t, "init", dir, "--templates")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized ledgerscan workspace")

	for _, d := range []string{"logs", "inbox", filepath.Join("inbox", "processed")} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir())
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "templates.yaml"), cfg.Templates.Path)
	_, err = cfg.TemplateRegistry()
	assert.NoError(t, err)

	_, err = runLedgerscan(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runLedgerscan(t, "init", dir, "--force")
	assert.NoError(t, err)
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte("patterns:\n  mca: [\"(\"]\n"), 0o644))

	_, err := runLedgerscan(t, "--config", cfgPath, "templates")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validating config")
}
