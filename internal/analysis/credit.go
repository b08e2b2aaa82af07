package analysis

import (
	"time"

	"github.com/wonny/finhealth/internal/contracts"
)

// Component caps
const (
	maxLiquidityPoints     = 20
	maxLeveragePoints      = 20
	maxProfitabilityPoints = 25
	maxCashFlowPoints      = 20
	maxMaturityPoints      = 15
)

// band is one step of a descending threshold table
type band[T any] struct {
	min   float64
	value T
}

var ratingBands = []band[contracts.Rating]{
	{90, contracts.RatingAAA},
	{80, contracts.RatingAA},
	{70, contracts.RatingA},
	{60, contracts.RatingBBB},
	{50, contracts.RatingBB},
	{40, contracts.RatingB},
	{30, contracts.RatingCCC},
	{20, contracts.RatingCC},
	{10, contracts.RatingC},
}

var riskBands = []band[contracts.RiskLevel]{
	{70, contracts.RiskLow},
	{50, contracts.RiskModerate},
	{30, contracts.RiskHigh},
}

// ScoreCredit runs the five-component additive credit scoring.
// now fixes the reference year for business maturity.
// ⭐ SSOT: 신용 점수 = 구성요소 점수의 합 (최대 100)
func ScoreCredit(f contracts.Financials, r contracts.RatioSet, meta contracts.BusinessMeta, now time.Time) contracts.CreditAssessment {
	b := contracts.CreditBreakdown{
		Liquidity:     liquidityPoints(r.CurrentRatio),
		Leverage:      leveragePoints(r.DebtToEquity),
		Profitability: profitabilityPoints(r.NetProfitMargin),
		CashFlow:      cashFlowPoints(f.OperatingCashFlow, r.OperatingCashFlowRatio),
		Maturity:      maturityPoints(meta.YearsInOperation(now)),
	}

	score := b.Total()
	return contracts.CreditAssessment{
		Score:     score,
		Rating:    RatingFor(score),
		RiskLevel: RiskFor(score),
		Breakdown: b,
	}
}

// RatingFor maps a credit score to its rating tier
func RatingFor(score float64) contracts.Rating {
	for _, b := range ratingBands {
		if score >= b.min {
			return b.value
		}
	}
	return contracts.RatingD
}

// RiskFor maps a credit score to its risk tier
func RiskFor(score float64) contracts.RiskLevel {
	for _, b := range riskBands {
		if score >= b.min {
			return b.value
		}
	}
	return contracts.RiskCritical
}

func liquidityPoints(currentRatio float64) float64 {
	switch {
	case currentRatio >= 2.0:
		return maxLiquidityPoints
	case currentRatio >= 1.5:
		return 15
	case currentRatio >= 1.0:
		return 10
	default:
		return 5
	}
}

func leveragePoints(debtToEquity float64) float64 {
	switch {
	case debtToEquity <= 0.5:
		return maxLeveragePoints
	case debtToEquity <= 1.0:
		return 15
	case debtToEquity <= 2.0:
		return 10
	default:
		return 5
	}
}

func profitabilityPoints(netMargin float64) float64 {
	switch {
	case netMargin >= 15:
		return maxProfitabilityPoints
	case netMargin >= 10:
		return 20
	case netMargin >= 5:
		return 15
	case netMargin >= 0:
		return 10
	default:
		return 0
	}
}

// cashFlowPoints scores only a positive operating cash flow
func cashFlowPoints(operatingCashFlow, ocfRatio float64) float64 {
	if operatingCashFlow <= 0 {
		return 0
	}
	switch {
	case ocfRatio >= 0.4:
		return maxCashFlowPoints
	case ocfRatio >= 0.2:
		return 15
	default:
		return 10
	}
}

// maturityPoints: unknown founding year counts as zero years
func maturityPoints(years int) float64 {
	switch {
	case years >= 10:
		return maxMaturityPoints
	case years >= 5:
		return 10
	case years >= 2:
		return 5
	default:
		return 2
	}
}
