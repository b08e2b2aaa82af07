package analysis

import (
	"github.com/wonny/finhealth/internal/contracts"
)

// costRule flags one expense category against revenue
type costRule struct {
	area           string
	thresholdPct   float64
	savingsRate    float64
	recommendation string
	value          func(contracts.Financials) float64
}

// Rules fire independently; output follows declaration order.
var costRules = []costRule{
	{
		area:           "Operating Expenses",
		thresholdPct:   30,
		savingsRate:    0.10,
		recommendation: "Operating expenses are high relative to revenue. Consider reviewing and optimizing operational costs.",
		value:          func(f contracts.Financials) float64 { return f.OperatingExpenses },
	},
	{
		area:           "Personnel Costs",
		thresholdPct:   40,
		savingsRate:    0.05,
		recommendation: "Salary expenses are high. Consider workforce optimization or automation.",
		value:          func(f contracts.Financials) float64 { return f.SalariesWages },
	},
	{
		area:           "Inventory Management",
		thresholdPct:   25,
		savingsRate:    0.15,
		recommendation: "Inventory levels are high. Implement just-in-time inventory management to reduce holding costs.",
		value:          func(f contracts.Financials) float64 { return f.Inventory },
	},
}

// FindOpportunities returns the cost categories whose share of revenue
// exceeds its threshold. Zero revenue yields no recommendations.
func FindOpportunities(f contracts.Financials) []contracts.CostRecommendation {
	out := []contracts.CostRecommendation{}
	if f.TotalRevenue == 0 {
		return out
	}

	for _, rule := range costRules {
		v := rule.value(f)
		// multiply first: 30*100/100 == 30 exactly
		pct, ok := finite(v * 100 / f.TotalRevenue)
		if !ok || pct <= rule.thresholdPct {
			continue
		}
		out = append(out, contracts.CostRecommendation{
			Area:              rule.area,
			CurrentPercentage: round2(pct),
			Recommendation:    rule.recommendation,
			PotentialSavings:  v * rule.savingsRate,
		})
	}
	return out
}
