package analysis

import (
	"math"

	"github.com/wonny/finhealth/internal/contracts"
)

// Forecast limits
const (
	minForecastHistory = 3
	minTrendPoints     = 2

	// trendThreshold is an absolute slope, independent of series scale
	trendThreshold = 0.1
)

// ForecastRevenue extrapolates a linear trend fitted over the history.
// Fewer than three points yield periods zeros. Values are clamped at 0.
func ForecastRevenue(history []float64, periods int) contracts.ForecastSeries {
	if periods <= 0 {
		return contracts.ForecastSeries{}
	}
	out := make(contracts.ForecastSeries, periods)
	if len(history) < minForecastHistory {
		return out
	}

	slope, intercept := linearFit(history)
	n := len(history)
	for i := 1; i <= periods; i++ {
		x := float64(n - 1 + i)
		v, _ := finite(slope*x + intercept)
		out[i-1] = math.Max(0, v)
	}
	return out
}

// ClassifyTrend labels the direction of a series by its OLS slope
func ClassifyTrend(series []float64) contracts.Trend {
	if len(series) < minTrendPoints {
		return contracts.TrendStable
	}
	slope, _ := linearFit(series)
	switch {
	case slope > trendThreshold:
		return contracts.TrendIncreasing
	case slope < -trendThreshold:
		return contracts.TrendDecreasing
	default:
		return contracts.TrendStable
	}
}

// BuildForecast assembles the 3/6/12-month revenue projections and
// the summed 3-month operating cash flow projection.
func BuildForecast(revenueHistory, cashFlowHistory []float64) contracts.ForecastBundle {
	return contracts.ForecastBundle{
		Revenue3M:    ForecastRevenue(revenueHistory, 3).Last(),
		Revenue6M:    ForecastRevenue(revenueHistory, 6).Last(),
		Revenue12M:   ForecastRevenue(revenueHistory, 12).Last(),
		CashFlow3M:   ForecastRevenue(cashFlowHistory, 3).Sum(),
		RevenueTrend: ClassifyTrend(revenueHistory),
	}
}
