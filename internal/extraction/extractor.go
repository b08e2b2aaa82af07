package extraction

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wonny/finhealth/internal/contracts"
)

// RowResult is the outcome of reading one table row.
// A skipped row never contributes a value.
type RowResult struct {
	Field   string
	Value   float64
	Skipped bool
	Reason  string
}

// FieldExtractor maps a classified table onto canonical fields
// ⭐ SSOT: 행 단위 실패는 해당 행만 건너뛰고 추출은 계속
type FieldExtractor struct {
	log zerolog.Logger
}

// NewFieldExtractor creates a new extractor
func NewFieldExtractor(log zerolog.Logger) *FieldExtractor {
	return &FieldExtractor{
		log: log.With().Str("component", "extraction.extractor").Logger(),
	}
}

// Extract reads every row of the table into a Financials value.
// Unknown kinds go through generic label → value extraction.
func (e *FieldExtractor) Extract(table contracts.RawTable, kind contracts.StatementKind) (contracts.Financials, contracts.ExtractionReport) {
	report := contracts.ExtractionReport{
		Kind:         kind,
		AmountColumn: -1,
		RowsTotal:    len(table.Rows),
	}

	var fin contracts.Financials
	if !kind.IsKnown() {
		fin = e.extractGeneric(table, &report)
		e.logReport(report)
		return fin, report
	}

	col := amountColumn(table.Headers, kind)
	report.AmountColumn = col
	if col < 0 {
		for i, row := range table.Rows {
			report.Skip(i, labelOf(row), contracts.SkipShortRow)
		}
		e.logReport(report)
		return fin, report
	}

	rules := rulesFor(kind)
	for i, row := range table.Rows {
		res := readRow(row, col, rules)
		if res.Skipped {
			report.Skip(i, labelOf(row), res.Reason)
			continue
		}

		ptr := fin.Field(res.Field)
		if ptr == nil {
			report.Skip(i, labelOf(row), contracts.SkipUnmatched)
			continue
		}
		if ruleMode(rules, res.Field) == modeSet {
			*ptr = res.Value
		} else {
			*ptr += res.Value
		}
		report.RowsMatched++
	}

	applyRollups(&fin, kind)
	e.logReport(report)
	return fin, report
}

// readRow matches one row against the rule table.
// Any panic while reading a cell becomes a bad_cell skip.
func readRow(row []contracts.Cell, col int, rules []rule) (res RowResult) {
	defer func() {
		if r := recover(); r != nil {
			res = RowResult{Skipped: true, Reason: contracts.SkipBadCell}
		}
	}()

	label := labelOf(row)
	if label == "" {
		return RowResult{Skipped: true, Reason: contracts.SkipEmptyLabel}
	}

	var matched *rule
	for i := range rules {
		if rules[i].matches(label) {
			matched = &rules[i]
			break
		}
	}
	if matched == nil {
		return RowResult{Skipped: true, Reason: contracts.SkipUnmatched}
	}

	if col >= len(row) {
		return RowResult{Field: matched.field, Skipped: true, Reason: contracts.SkipShortRow}
	}
	v, ok := NormalizeResult(row[col])
	if !ok {
		return RowResult{Field: matched.field, Skipped: true, Reason: contracts.SkipBadCell}
	}
	return RowResult{Field: matched.field, Value: v}
}

func ruleMode(rules []rule, field string) applyMode {
	for _, r := range rules {
		if r.field == field {
			return r.mode
		}
	}
	return modeAdd
}

// extractGeneric keeps column 0 → column 1 pairs with a non-zero value
func (e *FieldExtractor) extractGeneric(table contracts.RawTable, report *contracts.ExtractionReport) contracts.Financials {
	var fin contracts.Financials
	for i, row := range table.Rows {
		if len(row) < 2 {
			report.Skip(i, labelOf(row), contracts.SkipShortRow)
			continue
		}
		key := labelOf(row)
		if key == "" {
			report.Skip(i, "", contracts.SkipEmptyLabel)
			continue
		}
		v := Normalize(row[1])
		if v == 0 {
			report.Skip(i, key, contracts.SkipZeroGeneric)
			continue
		}
		if fin.Generic == nil {
			fin.Generic = make(map[string]float64)
		}
		fin.Generic[key] = v
		report.RowsMatched++
	}
	if len(table.Headers) >= 2 {
		report.AmountColumn = 1
	}
	return fin
}

// amountColumn picks the value column of a statement table.
// Column 0 holds labels and is never a candidate while other columns exist.
// Returns -1 when the table has fewer than two columns.
func amountColumn(headers []string, kind contracts.StatementKind) int {
	if len(headers) < 2 {
		return -1
	}

	keywords := amountKeywords[kind]
	numericOK := numericHeaderKinds[kind]
	for i := 1; i < len(headers); i++ {
		h := strings.ToLower(strings.TrimSpace(headers[i]))
		for _, kw := range keywords {
			if strings.Contains(h, kw) {
				return i
			}
		}
		if numericOK && isNumericHeader(h) {
			return i
		}
	}
	return len(headers) - 1
}

var headerStripper = strings.NewReplacer(" ", "", "₹", "", ",", "", ".", "")

// isNumericHeader reports headers like "2024" or "FY 2,023.00"
func isNumericHeader(h string) bool {
	s := headerStripper.Replace(h)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// labelOf returns the lower-cased, trimmed column-0 label
func labelOf(row []contracts.Cell) string {
	if len(row) == 0 || row[0] == nil {
		return ""
	}
	switch v := row[0].(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	default:
		return strings.ToLower(strings.TrimSpace(fmt.Sprint(v)))
	}
}

// applyRollups derives subtotals that are still zero after all rows.
// total_expenses is always recomputed for P&L.
func applyRollups(f *contracts.Financials, kind contracts.StatementKind) {
	switch kind {
	case contracts.StatementBalanceSheet:
		if f.CurrentAssets == 0 {
			f.CurrentAssets = f.CashAndEquivalents + f.AccountsReceivable + f.Inventory
		}
		if f.TotalAssets == 0 {
			f.TotalAssets = f.CurrentAssets + f.FixedAssets
		}
		if f.CurrentLiabilities == 0 {
			f.CurrentLiabilities = f.AccountsPayable + f.ShortTermDebt
		}
		if f.TotalLiabilities == 0 {
			f.TotalLiabilities = f.CurrentLiabilities + f.LongTermDebt
		}
	case contracts.StatementProfitLoss:
		if f.OperatingExpenses == 0 {
			f.OperatingExpenses = f.SalariesWages + f.Rent + f.Utilities + f.Marketing + f.OtherExpenses
		}
		f.TotalExpenses = f.CostOfGoodsSold + f.OperatingExpenses
	}
}

func (e *FieldExtractor) logReport(r contracts.ExtractionReport) {
	e.log.Debug().
		Str("kind", r.Kind.String()).
		Int("amount_column", r.AmountColumn).
		Int("rows_total", r.RowsTotal).
		Int("rows_matched", r.RowsMatched).
		Int("rows_skipped", r.RowsSkipped).
		Msg("extraction completed")
}
