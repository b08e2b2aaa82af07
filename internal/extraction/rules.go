package extraction

import (
	"strings"

	"github.com/wonny/finhealth/internal/contracts"
)

// applyMode says how a matched value lands in its field
type applyMode int

const (
	modeAdd applyMode = iota // accumulate line items
	modeSet                  // explicit subtotal, overwrite
)

// rule maps a row label to a canonical field.
// A label matches when it contains any of anyOf, or all of allOf.
type rule struct {
	field string
	mode  applyMode
	anyOf []string
	allOf []string
}

func (r rule) matches(label string) bool {
	for _, kw := range r.anyOf {
		if strings.Contains(label, kw) {
			return true
		}
	}
	if len(r.allOf) == 0 {
		return false
	}
	for _, kw := range r.allOf {
		if !strings.Contains(label, kw) {
			return false
		}
	}
	return true
}

// Rule order is significant: the first matching rule consumes the row.
// A label such as "cash and equity reserve" lands in cash_and_equivalents.
var balanceSheetRules = []rule{
	{field: "cash_and_equivalents", mode: modeAdd, anyOf: []string{"cash", "bank"}},
	{field: "accounts_receivable", mode: modeAdd, anyOf: []string{"receivable", "debtor"}},
	{field: "inventory", mode: modeAdd, anyOf: []string{"inventory", "stock"}},
	{field: "current_assets", mode: modeSet, anyOf: []string{"current asset"}},
	{field: "fixed_assets", mode: modeAdd, anyOf: []string{"fixed asset", "ppe", "property"}},
	{field: "total_assets", mode: modeSet, anyOf: []string{"total asset"}},
	{field: "accounts_payable", mode: modeAdd, anyOf: []string{"payable", "creditor"}},
	{field: "short_term_debt", mode: modeAdd, allOf: []string{"short", "debt"}},
	{field: "long_term_debt", mode: modeAdd, allOf: []string{"long", "debt"}},
	{field: "current_liabilities", mode: modeSet, anyOf: []string{"current liab"}},
	{field: "total_liabilities", mode: modeSet, anyOf: []string{"total liab"}},
	{field: "owners_equity", mode: modeAdd, anyOf: []string{"equity", "capital"}},
}

var profitLossRules = []rule{
	{field: "total_revenue", mode: modeAdd, anyOf: []string{"revenue", "sales", "income"}},
	{field: "cost_of_goods_sold", mode: modeAdd, anyOf: []string{"cogs", "cost of goods", "cost of sales"}},
	{field: "salaries_wages", mode: modeAdd, anyOf: []string{"salary", "wage", "payroll"}},
	{field: "rent", mode: modeAdd, anyOf: []string{"rent", "lease"}},
	{field: "utilities", mode: modeAdd, anyOf: []string{"utility", "utilities", "electric"}},
	{field: "marketing", mode: modeAdd, anyOf: []string{"marketing", "advertising"}},
	{field: "operating_expenses", mode: modeSet, anyOf: []string{"operating expense", "opex"}},
	{field: "other_expenses", mode: modeAdd, anyOf: []string{"expense", "cost"}},
}

var cashFlowRules = []rule{
	{field: "operating_cash_flow", mode: modeSet, anyOf: []string{"operating"}},
	{field: "investing_cash_flow", mode: modeSet, anyOf: []string{"investing"}},
	{field: "financing_cash_flow", mode: modeSet, anyOf: []string{"financing"}},
}

// rulesFor returns the ordered rule table for a statement kind
func rulesFor(kind contracts.StatementKind) []rule {
	switch kind {
	case contracts.StatementBalanceSheet:
		return balanceSheetRules
	case contracts.StatementProfitLoss:
		return profitLossRules
	case contracts.StatementCashFlow:
		return cashFlowRules
	}
	return nil
}

// amountKeywords are the header hints for the amount column per kind
var amountKeywords = map[contracts.StatementKind][]string{
	contracts.StatementBalanceSheet: {"amount", "value", "balance"},
	contracts.StatementProfitLoss:   {"amount", "value"},
	contracts.StatementCashFlow:     {"amount", "value", "cash"},
}

// numericHeaderKinds may fall back to a purely numeric header such as "2024"
var numericHeaderKinds = map[contracts.StatementKind]bool{
	contracts.StatementBalanceSheet: true,
	contracts.StatementProfitLoss:   true,
}
