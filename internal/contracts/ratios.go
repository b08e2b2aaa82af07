package contracts

// RatioSet holds the computed financial ratios
// ⭐ SSOT: 분모가 0 이하인 비율은 정확히 0 (NaN/Inf 금지)
type RatioSet struct {
	// Liquidity
	CurrentRatio float64 `json:"current_ratio"`
	QuickRatio   float64 `json:"quick_ratio"`
	CashRatio    float64 `json:"cash_ratio"`

	// Leverage
	DebtToEquity     float64 `json:"debt_to_equity"`
	DebtToAsset      float64 `json:"debt_to_asset"`
	EquityMultiplier float64 `json:"equity_multiplier"`
	DebtRatio        float64 `json:"debt_ratio"`

	// Profitability (percent)
	GrossProfitMargin float64 `json:"gross_profit_margin"`
	NetProfitMargin   float64 `json:"net_profit_margin"`
	OperatingMargin   float64 `json:"operating_margin"`
	ReturnOnAssets    float64 `json:"return_on_assets"`
	ReturnOnEquity    float64 `json:"return_on_equity"`

	// Efficiency
	AssetTurnover       float64 `json:"asset_turnover"`
	InventoryTurnover   float64 `json:"inventory_turnover"`
	ReceivablesTurnover float64 `json:"receivables_turnover"`
	PayablesTurnover    float64 `json:"payables_turnover"`

	// Days
	DaysSalesOutstanding     float64 `json:"days_sales_outstanding"`
	DaysInventoryOutstanding float64 `json:"days_inventory_outstanding"`
	DaysPayablesOutstanding  float64 `json:"days_payables_outstanding"`

	// Working capital
	WorkingCapital      float64 `json:"working_capital"`
	WorkingCapitalRatio float64 `json:"working_capital_ratio"`
	CashConversionCycle float64 `json:"cash_conversion_cycle"`

	// Cash flow
	OperatingCashFlowRatio float64 `json:"operating_cash_flow_ratio"`
	CashFlowMargin         float64 `json:"cash_flow_margin"`

	NetProfit float64 `json:"net_profit"`
}

// Map returns the ratios keyed by their canonical names
func (r RatioSet) Map() map[string]float64 {
	return map[string]float64{
		"current_ratio":              r.CurrentRatio,
		"quick_ratio":                r.QuickRatio,
		"cash_ratio":                 r.CashRatio,
		"debt_to_equity":             r.DebtToEquity,
		"debt_to_asset":              r.DebtToAsset,
		"equity_multiplier":          r.EquityMultiplier,
		"debt_ratio":                 r.DebtRatio,
		"gross_profit_margin":        r.GrossProfitMargin,
		"net_profit_margin":          r.NetProfitMargin,
		"operating_margin":           r.OperatingMargin,
		"return_on_assets":           r.ReturnOnAssets,
		"return_on_equity":           r.ReturnOnEquity,
		"asset_turnover":             r.AssetTurnover,
		"inventory_turnover":         r.InventoryTurnover,
		"receivables_turnover":       r.ReceivablesTurnover,
		"payables_turnover":          r.PayablesTurnover,
		"days_sales_outstanding":     r.DaysSalesOutstanding,
		"days_inventory_outstanding": r.DaysInventoryOutstanding,
		"days_payables_outstanding":  r.DaysPayablesOutstanding,
		"working_capital":            r.WorkingCapital,
		"working_capital_ratio":      r.WorkingCapitalRatio,
		"cash_conversion_cycle":      r.CashConversionCycle,
		"operating_cash_flow_ratio":  r.OperatingCashFlowRatio,
		"cash_flow_margin":           r.CashFlowMargin,
		"net_profit":                 r.NetProfit,
	}
}
