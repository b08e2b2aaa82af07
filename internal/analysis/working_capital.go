package analysis

import "github.com/wonny/finhealth/internal/contracts"

// Working capital labels
const (
	WorkingCapitalHealthy  = "healthy"
	WorkingCapitalStressed = "stressed"

	AdequacyAdequate     = "adequate"
	AdequacyInsufficient = "insufficient"

	// adequate working capital covers at least this share of revenue
	adequacyRevenueShare = 0.1
)

// WorkingCapital summarizes short-term funding health
func WorkingCapital(f contracts.Financials) contracts.WorkingCapitalMetrics {
	wc := f.CurrentAssets - f.CurrentLiabilities

	m := contracts.WorkingCapitalMetrics{
		WorkingCapital:      wc,
		WorkingCapitalRatio: safeDiv(wc, f.TotalRevenue),
		CurrentRatio:        safeDiv(f.CurrentAssets, f.CurrentLiabilities),
		Status:              WorkingCapitalStressed,
		Adequacy:            AdequacyInsufficient,
	}
	if wc > 0 {
		m.Status = WorkingCapitalHealthy
	}
	if wc > f.TotalRevenue*adequacyRevenueShare {
		m.Adequacy = AdequacyAdequate
	}
	return m
}
