package extraction

import (
	"testing"

	"github.com/wonny/finhealth/internal/contracts"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		headers  []string
		want     contracts.StatementKind
	}{
		{"balance sheet filename", "Balance_Sheet_2024.csv", nil, contracts.StatementBalanceSheet},
		{"financial position filename", "position-fy24.xlsx", nil, contracts.StatementBalanceSheet},
		{"p&l filename", "P&L.csv", nil, contracts.StatementProfitLoss},
		{"income statement filename", "income_statement.xlsx", nil, contracts.StatementProfitLoss},
		{"cashflow filename", "cashflow_q1.csv", nil, contracts.StatementCashFlow},
		// "statement" belongs to the P&L group, which is checked before cash flow
		{"group order beats specificity", "cash_flow_statement.csv", nil, contracts.StatementProfitLoss},
		{"filename wins over headers", "cashflow.csv", []string{"Total Assets", "Amount"}, contracts.StatementCashFlow},
		{"balance sheet filename with p&l headers", "balance_sheet_2024.csv", []string{"Revenue", "Expense", "Amount"}, contracts.StatementBalanceSheet},
		{"headers balance sheet", "q1.csv", []string{"Asset", "Amount"}, contracts.StatementBalanceSheet},
		{"headers p&l", "q1.csv", []string{"Item", "Revenue"}, contracts.StatementProfitLoss},
		{"headers cash flow", "q1.csv", []string{"Operating", "Amount"}, contracts.StatementCashFlow},
		{"headers case insensitive", "q1.csv", []string{"LIABILITY"}, contracts.StatementBalanceSheet},
		{"nothing matches", "q1.csv", []string{"A", "B"}, contracts.StatementUnknown},
		{"empty input", "", nil, contracts.StatementUnknown},
	}

	c := NewDocumentClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.filename, tt.headers); got != tt.want {
				t.Errorf("Classify(%q, %v) = %s, want %s", tt.filename, tt.headers, got, tt.want)
			}
			if got := Classify(tt.filename, tt.headers); got != tt.want {
				t.Errorf("package Classify(%q, %v) = %s, want %s", tt.filename, tt.headers, got, tt.want)
			}
		})
	}
}
