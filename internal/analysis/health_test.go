package analysis

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/finhealth/internal/contracts"
)

func TestScoreHealth(t *testing.T) {
	tests := []struct {
		name string
		r    contracts.RatioSet
		want contracts.HealthScores
	}{
		{
			name: "liquidity clamps at 100",
			r:    contracts.RatioSet{CurrentRatio: 2.5, QuickRatio: 1.0},
			want: contracts.HealthScores{Liquidity: 100, Overall: 30},
		},
		{
			name: "all zero",
			r:    contracts.RatioSet{},
			want: contracts.HealthScores{Liquidity: 40, Overall: 12},
		},
		{
			name: "mid range",
			r: contracts.RatioSet{
				CurrentRatio: 1, QuickRatio: 0.5,
				NetProfitMargin: 10, ReturnOnAssets: 10, ReturnOnEquity: 10,
				AssetTurnover: 1, InventoryTurnover: 3,
			},
			// 85, 50, 70
			want: contracts.HealthScores{Liquidity: 85, Profitability: 50, Efficiency: 70, Overall: 25.5 + 20 + 21},
		},
		{
			name: "negative margins clamp at 0",
			r:    contracts.RatioSet{NetProfitMargin: -50, ReturnOnAssets: -20, ReturnOnEquity: 90},
			want: contracts.HealthScores{Liquidity: 40, Overall: 12},
		},
		{
			name: "inventory turnover capped at 60",
			r:    contracts.RatioSet{AssetTurnover: 0.5, InventoryTurnover: 50},
			want: contracts.HealthScores{Liquidity: 40, Efficiency: 80, Overall: 12 + 24},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreHealth(tt.r)
			assert.InDelta(t, tt.want.Liquidity, got.Liquidity, 1e-9)
			assert.InDelta(t, tt.want.Profitability, got.Profitability, 1e-9)
			assert.InDelta(t, tt.want.Efficiency, got.Efficiency, 1e-9)
			assert.InDelta(t, tt.want.Overall, got.Overall, 1e-9)
		})
	}
}

func TestScoreHealth_OverallIsWeightedSum(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		l, p, e := rng.Float64()*100, rng.Float64()*100, rng.Float64()*100
		assert.Equal(t, 0.30*l+0.40*p+0.30*e, contracts.OverallOf(l, p, e))

		r := contracts.RatioSet{
			CurrentRatio:      rng.Float64()*6 - 1,
			QuickRatio:        rng.Float64()*6 - 1,
			NetProfitMargin:   rng.Float64()*80 - 40,
			ReturnOnAssets:    rng.Float64()*80 - 40,
			ReturnOnEquity:    rng.Float64()*80 - 40,
			AssetTurnover:     rng.Float64() * 4,
			InventoryTurnover: rng.Float64() * 12,
		}
		h := ScoreHealth(r)
		for _, s := range []float64{h.Liquidity, h.Profitability, h.Efficiency} {
			if s < 0 || s > 100 {
				t.Fatalf("sub-score %v out of range for %+v", s, r)
			}
		}
		assert.Equal(t, 0.30*h.Liquidity+0.40*h.Profitability+0.30*h.Efficiency, h.Overall)
	}
}
