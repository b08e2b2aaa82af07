package extraction

import (
	"strings"

	"github.com/wonny/finhealth/internal/contracts"
)

// keywordGroup maps a statement kind to the substrings that identify it
type keywordGroup struct {
	kind     contracts.StatementKind
	keywords []string
}

// Group order is fixed: balance sheet → P&L → cash flow. First hit wins.
var (
	filenameGroups = []keywordGroup{
		{contracts.StatementBalanceSheet, []string{"balance", "sheet", "position"}},
		{contracts.StatementProfitLoss, []string{"profit", "loss", "p&l", "income", "statement"}},
		{contracts.StatementCashFlow, []string{"cash", "flow", "cashflow"}},
	}

	headerGroups = []keywordGroup{
		{contracts.StatementBalanceSheet, []string{"asset", "liability", "equity"}},
		{contracts.StatementProfitLoss, []string{"revenue", "expense", "profit"}},
		{contracts.StatementCashFlow, []string{"operating", "investing", "financing"}},
	}
)

// DocumentClassifier guesses the statement kind of an uploaded table
// ⭐ SSOT: 파일명이 헤더보다 우선
type DocumentClassifier struct{}

// NewDocumentClassifier creates a new classifier
func NewDocumentClassifier() *DocumentClassifier {
	return &DocumentClassifier{}
}

// Classify checks the filename first, then the column headers
func (c *DocumentClassifier) Classify(filename string, headers []string) contracts.StatementKind {
	if kind, ok := matchGroups(strings.ToLower(filename), filenameGroups); ok {
		return kind
	}

	joined := strings.ToLower(strings.Join(headers, " "))
	if kind, ok := matchGroups(joined, headerGroups); ok {
		return kind
	}

	return contracts.StatementUnknown
}

// Classify is a convenience wrapper around DocumentClassifier.Classify
func Classify(filename string, headers []string) contracts.StatementKind {
	return (&DocumentClassifier{}).Classify(filename, headers)
}

func matchGroups(text string, groups []keywordGroup) (contracts.StatementKind, bool) {
	if text == "" {
		return contracts.StatementUnknown, false
	}
	for _, g := range groups {
		for _, kw := range g.keywords {
			if strings.Contains(text, kw) {
				return g.kind, true
			}
		}
	}
	return contracts.StatementUnknown, false
}
