package analysis

import (
	"math"

	"github.com/wonny/finhealth/internal/contracts"
)

// ScoreHealth computes the three 0-100 health sub-scores and their weighted overall.
// Overall is derived from the clamped sub-scores only.
func ScoreHealth(r contracts.RatioSet) contracts.HealthScores {
	liquidity := clamp(r.CurrentRatio*30+r.QuickRatio*30+40, 0, 100)

	profitability := clamp(
		math.Min(40, r.NetProfitMargin*2)+
			math.Min(30, r.ReturnOnAssets*1.5)+
			math.Min(30, r.ReturnOnEquity*1.5),
		0, 100)

	efficiency := clamp(r.AssetTurnover*40+math.Min(60, r.InventoryTurnover*10), 0, 100)

	return contracts.HealthScores{
		Liquidity:     liquidity,
		Profitability: profitability,
		Efficiency:    efficiency,
		Overall:       contracts.OverallOf(liquidity, profitability, efficiency),
	}
}
