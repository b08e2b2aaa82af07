package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wonny/finhealth/internal/contracts"
)

func newTestParser() *Parser {
	return NewParser(1<<20, zerolog.Nop())
}

const balanceSheetCSV = "\xEF\xBB\xBFItem,Amount\n" +
	"Cash at Bank,\"1,20,000\"\n" +
	"Trade Receivables,80000\n" +
	"Inventory,50000\n" +
	"Fixed Assets,300000\n" +
	"\n" +
	"Trade Payables,40000\n" +
	"Short Term Debt,60000\n" +
	"Long Term Debt,100000\n" +
	"Owners Equity,350000\n"

func TestParse_CSVBalanceSheet(t *testing.T) {
	doc, err := newTestParser().Parse(context.Background(), "balance_sheet_2024.csv", []byte(balanceSheetCSV))
	require.NoError(t, err)

	assert.Equal(t, contracts.StatementBalanceSheet, doc.Kind)
	assert.Equal(t, contracts.SourceCSV, doc.Source)
	assert.Equal(t, []string{"Item", "Amount"}, doc.Table.Headers)
	assert.Len(t, doc.Table.Rows, 8)

	f := doc.Financials
	assert.Equal(t, 120000.0, f.CashAndEquivalents)
	assert.Equal(t, 80000.0, f.AccountsReceivable)
	assert.Equal(t, 50000.0, f.Inventory)
	assert.Equal(t, 250000.0, f.CurrentAssets)
	assert.Equal(t, 550000.0, f.TotalAssets)
	assert.Equal(t, 100000.0, f.CurrentLiabilities)
	assert.Equal(t, 200000.0, f.TotalLiabilities)
	assert.Equal(t, 350000.0, f.OwnersEquity)

	assert.Equal(t, 1, doc.Report.AmountColumn)
	assert.Equal(t, 8, doc.Report.RowsMatched)
	assert.Zero(t, doc.Report.RowsSkipped)
}

func TestParse_ClassifiesByHeadersWhenFilenameIsNeutral(t *testing.T) {
	csv := "Revenue Item,Value\nSales,500000\nCost of Goods Sold,300000\nRent,24000\n"
	doc, err := newTestParser().Parse(context.Background(), "fy24.csv", []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, contracts.StatementProfitLoss, doc.Kind)
	assert.Equal(t, 500000.0, doc.Financials.TotalRevenue)
	assert.Equal(t, 300000.0, doc.Financials.CostOfGoodsSold)
	assert.Equal(t, 24000.0, doc.Financials.OperatingExpenses)
	assert.Equal(t, 324000.0, doc.Financials.TotalExpenses)
}

func TestParse_XLSXFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Particulars", "2024"},
		{"Revenue from Operations", 900000},
		{"Salary and Wages", 200000},
		{"Marketing", 50000},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	// A second sheet must be ignored
	_, err := f.NewSheet("Notes")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Notes", "A1", "ignored"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	doc, err := newTestParser().Parse(context.Background(), "profit_and_loss.xlsx", buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, contracts.SourceExcel, doc.Source)
	assert.Equal(t, contracts.StatementProfitLoss, doc.Kind)
	assert.Equal(t, 1, doc.Report.AmountColumn)
	assert.Equal(t, 900000.0, doc.Financials.TotalRevenue)
	assert.Equal(t, 250000.0, doc.Financials.OperatingExpenses)
}

func TestParse_HTMLFirstTable(t *testing.T) {
	html := `<html><body>
<h1>Cash Flow</h1>
<table>
  <tr><th>Activity</th><th>Amount (₹)</th></tr>
  <tr><td>Net cash from operating activities</td><td>1,50,000</td></tr>
  <tr><td>Net cash used in investing activities</td><td>(40,000)</td></tr>
  <tr><td>Net cash from financing   activities</td><td>-20,000</td></tr>
</table>
<table><tr><td>second table</td><td>1</td></tr><tr><td>x</td><td>2</td></tr></table>
</body></html>`

	doc, err := newTestParser().Parse(context.Background(), "cash_flow.html", []byte(html))
	require.NoError(t, err)

	assert.Equal(t, contracts.SourceHTML, doc.Source)
	assert.Equal(t, contracts.StatementCashFlow, doc.Kind)
	assert.Len(t, doc.Table.Rows, 3)
	assert.Equal(t, 150000.0, doc.Financials.OperatingCashFlow)
	assert.Equal(t, -20000.0, doc.Financials.FinancingCashFlow)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		target   error
	}{
		{"unsupported extension", "ledger.xls", "abc", contracts.ErrUnsupportedInput},
		{"no extension", "ledger", "abc", contracts.ErrUnsupportedInput},
		{"header only csv", "balance.csv", "Item,Amount\n", contracts.ErrUnsupportedInput},
		{"blank csv", "balance.csv", "\n\n", contracts.ErrUnsupportedInput},
		{"html without table", "report.html", "<p>nothing here</p>", contracts.ErrUnsupportedInput},
		{"corrupt xlsx", "report.xlsx", "not a zip", contracts.ErrUnsupportedInput},
		{"corrupt pdf", "report.pdf", "%PDF-garbage", contracts.ErrUnsupportedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestParser().Parse(context.Background(), tt.filename, []byte(tt.content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestParse_EmptyTableIsReported(t *testing.T) {
	_, err := newTestParser().Parse(context.Background(), "balance.csv", []byte("Item,Amount\n"))
	assert.ErrorIs(t, err, errEmptyTable)
}

func TestParse_TooLarge(t *testing.T) {
	p := NewParser(10, zerolog.Nop())
	_, err := p.Parse(context.Background(), "balance.csv", []byte("Item,Amount\nCash,100\n"))
	assert.ErrorIs(t, err, contracts.ErrFileTooLarge)
}

func TestParse_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestParser().Parse(ctx, "balance.csv", []byte(balanceSheetCSV))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDataSource(t *testing.T) {
	tests := []struct {
		filename string
		want     contracts.DataSource
		ok       bool
	}{
		{"a.csv", contracts.SourceCSV, true},
		{"A.XLSX", contracts.SourceExcel, true},
		{"a.htm", contracts.SourceHTML, true},
		{"a.html", contracts.SourceHTML, true},
		{"a.pdf", contracts.SourcePDF, true},
		{"a.xls", "", false},
		{"a.txt", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, ok := DataSource(tt.filename)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToTable_SkipsLeadingBlankRows(t *testing.T) {
	table, err := toTable([][]string{
		{"", ""},
		{" Item ", " Amount "},
		{"Cash", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Item", "Amount"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Nil(t, table.Rows[0][1])
}
