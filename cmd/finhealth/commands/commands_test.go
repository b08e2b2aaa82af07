package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/finhealth/internal/batch"
	"github.com/wonny/finhealth/internal/contracts"
)

const (
	profitLoss   = "Particulars,Amount\nSales Revenue,\"1,000,000\"\nCost of Goods Sold,600000\nSalary,150000\n"
	balanceSheet = "Item,Amount\nTotal Assets,800000\nCurrent Assets,400000\nCurrent Liabilities,200000\n"
)

// execute runs the CLI in-process with offline-safe environment
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ENV", "development")
	t.Setenv("LOG_LEVEL", "error")

	// package-level flag values survive between runs
	assessName, assessIndustry, assessSize = "", string(contracts.IndustryOther), string(contracts.SizeSmall)
	assessEstablished, assessFormat, assessCommentary = 0, "table", false
	batchConcurrency, batchOutput, batchCommentary = 0, "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeStatements(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profit_loss_2024.csv"), []byte(profitLoss), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "balance_sheet_2024.csv"), []byte(balanceSheet), 0o644))
	return dir
}

func TestAssess_Table(t *testing.T) {
	dir := writeStatements(t)

	out, err := execute(t, "assess",
		filepath.Join(dir, "profit_loss_2024.csv"),
		filepath.Join(dir, "balance_sheet_2024.csv"),
		"--industry", "retail", "--established", "2015")
	require.NoError(t, err)

	assert.Contains(t, out, "profit_loss_2024.csv: profit_loss, 3/3 rows matched")
	assert.Contains(t, out, "Credit score")
	assert.Contains(t, out, "Current ratio      2.00")
	assert.Contains(t, out, "  profit_loss_2024\n")
}

func TestAssess_JSON(t *testing.T) {
	dir := writeStatements(t)

	out, err := execute(t, "assess", filepath.Join(dir, "profit_loss_2024.csv"), "--format", "json", "--name", "acme")
	require.NoError(t, err)

	var res batch.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "acme", res.Name)
	require.NotNil(t, res.Assessment)
	assert.Equal(t, 1000000.0, res.Assessment.Financials.TotalRevenue)
	assert.Equal(t, contracts.CommentaryDisabled, res.Assessment.CommentaryStatus)
}

func TestAssess_Rejections(t *testing.T) {
	dir := writeStatements(t)
	pl := filepath.Join(dir, "profit_loss_2024.csv")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad format", []string{"assess", pl, "--format", "xml"}, "unknown format"},
		{"bad industry", []string{"assess", pl, "--industry", "mining"}, "unknown industry"},
		{"bad size", []string{"assess", pl, "--size", "huge"}, "unknown size"},
		{"unsupported file", []string{"assess", filepath.Join(dir, "ledger.xls")}, "unsupported file type"},
		{"missing file", []string{"assess", filepath.Join(dir, "nope_profit_loss.csv")}, "nope_profit_loss.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBatch(t *testing.T) {
	dir := writeStatements(t)
	manifest := `name: portfolio
defaults:
  industry: retail
businesses:
  - name: acme
    files: [profit_loss_2024.csv, balance_sheet_2024.csv]
  - name: ghost
    files: [ghost_profit_loss.csv]
`
	path := filepath.Join(dir, "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))
	results := filepath.Join(dir, "results.json")

	out, err := execute(t, "batch", path, "--output", results)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 businesses failed")

	assert.Contains(t, out, "Manifest portfolio (2 businesses) sha256:")
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.True(t, strings.HasPrefix(lines[3], "acme"), lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "ghost"), lines[4])

	data, err := os.ReadFile(results)
	require.NoError(t, err)
	var doc batchOutputFile
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.Hash, 64)
	require.Len(t, doc.Results, 2)
	assert.NotNil(t, doc.Results[0].Assessment)
	assert.NotEmpty(t, doc.Results[1].Error)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "finhealth dev"))
}
