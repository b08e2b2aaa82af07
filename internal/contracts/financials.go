package contracts

// StatementKind identifies which financial statement a table holds
// ⭐ SSOT: 업로드당 한 번 결정되고 이후 변경되지 않음
type StatementKind string

const (
	StatementBalanceSheet StatementKind = "balance_sheet"
	StatementProfitLoss   StatementKind = "profit_loss"
	StatementCashFlow     StatementKind = "cash_flow"
	StatementUnknown      StatementKind = "unknown"
)

// String implements fmt.Stringer
func (k StatementKind) String() string {
	return string(k)
}

// IsKnown reports whether the kind maps to a canonical field group
func (k StatementKind) IsKnown() bool {
	switch k {
	case StatementBalanceSheet, StatementProfitLoss, StatementCashFlow:
		return true
	}
	return false
}

// Cell is a single spreadsheet cell: nil, string, or a number
type Cell = any

// RawTable is a labeled table as read from an upload
// Rows exclude the header row. Column 0 is the row label.
type RawTable struct {
	Headers []string `json:"headers"`
	Rows    [][]Cell `json:"rows"`
}

// ColumnCount returns the widest of the header row and the data rows
func (t RawTable) ColumnCount() int {
	n := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// IsEmpty reports whether the table carries no data rows
func (t RawTable) IsEmpty() bool {
	return len(t.Rows) == 0
}

// Financials is the canonical field set produced by extraction
// ⭐ SSOT: 추출 → 비율 → 점수 단계가 공유하는 고정 필드 집합
// Unset fields stay at zero.
type Financials struct {
	// Profit & loss
	TotalRevenue      float64 `json:"total_revenue"`
	CostOfGoodsSold   float64 `json:"cost_of_goods_sold"`
	TotalExpenses     float64 `json:"total_expenses"`
	OperatingExpenses float64 `json:"operating_expenses"`
	SalariesWages     float64 `json:"salaries_wages"`
	Rent              float64 `json:"rent"`
	Utilities         float64 `json:"utilities"`
	Marketing         float64 `json:"marketing"`
	OtherExpenses     float64 `json:"other_expenses"`

	// Balance sheet: assets
	TotalAssets        float64 `json:"total_assets"`
	CurrentAssets      float64 `json:"current_assets"`
	CashAndEquivalents float64 `json:"cash_and_equivalents"`
	AccountsReceivable float64 `json:"accounts_receivable"`
	Inventory          float64 `json:"inventory"`
	FixedAssets        float64 `json:"fixed_assets"`

	// Balance sheet: liabilities and equity
	TotalLiabilities   float64 `json:"total_liabilities"`
	CurrentLiabilities float64 `json:"current_liabilities"`
	AccountsPayable    float64 `json:"accounts_payable"`
	ShortTermDebt      float64 `json:"short_term_debt"`
	LongTermDebt       float64 `json:"long_term_debt"`
	OwnersEquity       float64 `json:"owners_equity"`

	// Cash flow
	OperatingCashFlow float64 `json:"operating_cash_flow"`
	InvestingCashFlow float64 `json:"investing_cash_flow"`
	FinancingCashFlow float64 `json:"financing_cash_flow"`

	// Tax
	TaxPaid       float64 `json:"tax_paid"`
	TaxDeductions float64 `json:"tax_deductions"`
	GSTCollected  float64 `json:"gst_collected"`
	GSTPaid       float64 `json:"gst_paid"`

	// Generic holds label → value pairs for tables of unknown kind
	Generic map[string]float64 `json:"generic,omitempty"`
}

// NetProfit returns revenue minus total expenses
func (f Financials) NetProfit() float64 {
	return f.TotalRevenue - f.TotalExpenses
}

// TotalDebt returns short-term plus long-term debt
func (f Financials) TotalDebt() float64 {
	return f.ShortTermDebt + f.LongTermDebt
}

// Merge overlays the non-zero fields of other onto f.
// Used when one fiscal year is uploaded as several statements.
func (f Financials) Merge(other Financials) Financials {
	out := f
	merged := out.fields()
	src := other.fields()
	for i := range merged {
		if *src[i].ptr != 0 {
			*merged[i].ptr = *src[i].ptr
		}
	}

	if len(other.Generic) > 0 {
		g := make(map[string]float64, len(out.Generic)+len(other.Generic))
		for k, v := range out.Generic {
			g[k] = v
		}
		for k, v := range other.Generic {
			g[k] = v
		}
		out.Generic = g
	}

	return out
}

// Values returns the canonical fields as an ordered name → value list
func (f Financials) Values() []FieldValue {
	fields := f.fields()
	out := make([]FieldValue, len(fields))
	for i, fld := range fields {
		out[i] = FieldValue{Name: fld.name, Value: *fld.ptr}
	}
	return out
}

// FieldValue is a single canonical field
type FieldValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type fieldRef struct {
	name string
	ptr  *float64
}

// fields lists every canonical field in declaration order.
// Pointers refer to f, so callers on a copy get a copy's pointers.
func (f *Financials) fields() []fieldRef {
	return []fieldRef{
		{"total_revenue", &f.TotalRevenue},
		{"cost_of_goods_sold", &f.CostOfGoodsSold},
		{"total_expenses", &f.TotalExpenses},
		{"operating_expenses", &f.OperatingExpenses},
		{"salaries_wages", &f.SalariesWages},
		{"rent", &f.Rent},
		{"utilities", &f.Utilities},
		{"marketing", &f.Marketing},
		{"other_expenses", &f.OtherExpenses},
		{"total_assets", &f.TotalAssets},
		{"current_assets", &f.CurrentAssets},
		{"cash_and_equivalents", &f.CashAndEquivalents},
		{"accounts_receivable", &f.AccountsReceivable},
		{"inventory", &f.Inventory},
		{"fixed_assets", &f.FixedAssets},
		{"total_liabilities", &f.TotalLiabilities},
		{"current_liabilities", &f.CurrentLiabilities},
		{"accounts_payable", &f.AccountsPayable},
		{"short_term_debt", &f.ShortTermDebt},
		{"long_term_debt", &f.LongTermDebt},
		{"owners_equity", &f.OwnersEquity},
		{"operating_cash_flow", &f.OperatingCashFlow},
		{"investing_cash_flow", &f.InvestingCashFlow},
		{"financing_cash_flow", &f.FinancingCashFlow},
		{"tax_paid", &f.TaxPaid},
		{"tax_deductions", &f.TaxDeductions},
		{"gst_collected", &f.GSTCollected},
		{"gst_paid", &f.GSTPaid},
	}
}

// Field returns a pointer to the canonical field with the given name, or nil
func (f *Financials) Field(name string) *float64 {
	for _, fld := range f.fields() {
		if fld.name == name {
			return fld.ptr
		}
	}
	return nil
}

// SkippedRow records a table row that did not contribute a value
type SkippedRow struct {
	Index  int    `json:"index"`
	Label  string `json:"label,omitempty"`
	Reason string `json:"reason"`
}

// Skip reasons
const (
	SkipUnmatched   = "unmatched"
	SkipShortRow    = "short_row"
	SkipEmptyLabel  = "empty_label"
	SkipBadCell     = "bad_cell"
	SkipZeroGeneric = "zero_value"
)

// ExtractionReport summarizes one extraction run
// 행 단위 실패는 예외 대신 건너뛴 행 수로 노출
type ExtractionReport struct {
	Kind         StatementKind `json:"kind"`
	AmountColumn int           `json:"amount_column"`
	RowsTotal    int           `json:"rows_total"`
	RowsMatched  int           `json:"rows_matched"`
	RowsSkipped  int           `json:"rows_skipped"`
	Skipped      []SkippedRow  `json:"skipped,omitempty"`
}

// SkipCount returns the number of skipped rows with the given reason
func (r ExtractionReport) SkipCount(reason string) int {
	n := 0
	for _, s := range r.Skipped {
		if s.Reason == reason {
			n++
		}
	}
	return n
}

// Skip records a skipped row
func (r *ExtractionReport) Skip(index int, label, reason string) {
	r.Skipped = append(r.Skipped, SkippedRow{Index: index, Label: label, Reason: reason})
	r.RowsSkipped++
}
