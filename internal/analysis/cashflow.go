package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/wonny/finhealth/internal/contracts"
)

// AnalyzeCashFlowPattern groups transactions by calendar month and
// summarizes inflows (positive amounts) and outflows (negative amounts).
// Empty input yields zeros and a stable trend.
func AnalyzeCashFlowPattern(txns []contracts.Transaction) contracts.CashFlowPattern {
	pattern := contracts.CashFlowPattern{Trend: contracts.TrendStable}
	if len(txns) == 0 {
		return pattern
	}

	inflowByMonth := make(map[time.Time]float64)
	outflowByMonth := make(map[time.Time]float64)
	for _, t := range txns {
		month := time.Date(t.Date.Year(), t.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		switch {
		case t.Amount > 0:
			inflowByMonth[month] += t.Amount
		case t.Amount < 0:
			outflowByMonth[month] += math.Abs(t.Amount)
		}
	}

	inflows := monthlySeries(inflowByMonth)
	outflows := monthlySeries(outflowByMonth)

	pattern.AverageMonthlyInflow = mean(inflows)
	pattern.AverageMonthlyOutflow = mean(outflows)
	pattern.Volatility = sampleStdDev(inflows)
	pattern.Trend = ClassifyTrend(inflows)
	pattern.MonthsAnalyzed = len(inflows)
	if len(inflows) > 0 {
		pattern.MaxMonthlyInflow = inflows[0]
		pattern.MinMonthlyInflow = inflows[0]
		for _, v := range inflows[1:] {
			pattern.MaxMonthlyInflow = math.Max(pattern.MaxMonthlyInflow, v)
			pattern.MinMonthlyInflow = math.Min(pattern.MinMonthlyInflow, v)
		}
	}
	return pattern
}

// monthlySeries returns the month totals in chronological order
func monthlySeries(byMonth map[time.Time]float64) []float64 {
	months := make([]time.Time, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	out := make([]float64, len(months))
	for i, m := range months {
		out[i] = byMonth[m]
	}
	return out
}
