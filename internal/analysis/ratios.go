package analysis

import (
	"github.com/rs/zerolog"

	"github.com/wonny/finhealth/internal/contracts"
)

const daysPerYear = 365.0

// RatioCalculator derives the ratio set from canonical fields
// ⭐ SSOT: 비율 공식은 여기서만
type RatioCalculator struct {
	log zerolog.Logger
}

// NewRatioCalculator creates a new ratio calculator
func NewRatioCalculator(log zerolog.Logger) *RatioCalculator {
	return &RatioCalculator{
		log: log.With().Str("component", "analysis.ratios").Logger(),
	}
}

// Compute implements contracts.RatioCalculator
func (c *RatioCalculator) Compute(f contracts.Financials) contracts.RatioSet {
	r := ComputeRatios(f)

	c.log.Debug().
		Float64("current_ratio", r.CurrentRatio).
		Float64("debt_to_equity", r.DebtToEquity).
		Float64("net_profit_margin", r.NetProfitMargin).
		Msg("ratios computed")

	return r
}

// ComputeRatios is the stateless form of RatioCalculator.Compute
func ComputeRatios(f contracts.Financials) contracts.RatioSet {
	var r contracts.RatioSet

	netProfit := f.NetProfit()
	grossProfit := f.TotalRevenue - f.CostOfGoodsSold
	totalDebt := f.TotalDebt()

	// Liquidity
	r.CurrentRatio = safeDiv(f.CurrentAssets, f.CurrentLiabilities)
	r.QuickRatio = safeDiv(f.CurrentAssets-f.Inventory, f.CurrentLiabilities)
	r.CashRatio = safeDiv(f.CashAndEquivalents, f.CurrentLiabilities)

	// Leverage
	r.DebtToEquity = safeDiv(totalDebt, f.OwnersEquity)
	r.DebtToAsset = safeDiv(f.TotalLiabilities, f.TotalAssets)
	r.EquityMultiplier = safeDiv(f.TotalAssets, f.OwnersEquity)
	r.DebtRatio = safeDiv(totalDebt, f.TotalAssets)

	// Profitability, in percent
	r.GrossProfitMargin = safeDiv(grossProfit, f.TotalRevenue) * 100
	r.NetProfitMargin = safeDiv(netProfit, f.TotalRevenue) * 100
	r.OperatingMargin = safeDiv(f.TotalRevenue-f.TotalExpenses, f.TotalRevenue) * 100
	r.ReturnOnAssets = safeDiv(netProfit, f.TotalAssets) * 100
	r.ReturnOnEquity = safeDiv(netProfit, f.OwnersEquity) * 100

	// Efficiency
	r.AssetTurnover = safeDiv(f.TotalRevenue, f.TotalAssets)
	r.InventoryTurnover = safeDiv(f.CostOfGoodsSold, f.Inventory)
	r.ReceivablesTurnover = safeDiv(f.TotalRevenue, f.AccountsReceivable)
	r.PayablesTurnover = safeDiv(f.CostOfGoodsSold, f.AccountsPayable)

	// Days
	r.DaysSalesOutstanding = safeDiv(daysPerYear, r.ReceivablesTurnover)
	r.DaysInventoryOutstanding = safeDiv(daysPerYear, r.InventoryTurnover)
	r.DaysPayablesOutstanding = safeDiv(daysPerYear, r.PayablesTurnover)

	// Working capital
	r.WorkingCapital = f.CurrentAssets - f.CurrentLiabilities
	r.WorkingCapitalRatio = safeDiv(r.WorkingCapital, f.TotalRevenue)
	r.CashConversionCycle = r.DaysInventoryOutstanding + r.DaysSalesOutstanding - r.DaysPayablesOutstanding

	// Cash flow
	r.OperatingCashFlowRatio = safeDiv(f.OperatingCashFlow, f.CurrentLiabilities)
	r.CashFlowMargin = safeDiv(f.OperatingCashFlow, f.TotalRevenue) * 100

	r.NetProfit = netProfit
	return r
}

// safeDiv returns n/d, or exactly 0 when d <= 0.
// Non-finite results also collapse to 0.
func safeDiv(n, d float64) float64 {
	if d <= 0 {
		return 0
	}
	v, _ := finite(n / d)
	return v
}
