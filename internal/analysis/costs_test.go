package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/finhealth/internal/contracts"
)

func TestFindOpportunities(t *testing.T) {
	t.Run("operating expenses only", func(t *testing.T) {
		got := FindOpportunities(contracts.Financials{TotalRevenue: 100, OperatingExpenses: 40})

		require.Len(t, got, 1)
		assert.Equal(t, "Operating Expenses", got[0].Area)
		assert.Equal(t, 40.0, got[0].CurrentPercentage)
		assert.InDelta(t, 4.0, got[0].PotentialSavings, 1e-9)
		assert.NotEmpty(t, got[0].Recommendation)
	})

	t.Run("zero revenue", func(t *testing.T) {
		got := FindOpportunities(contracts.Financials{OperatingExpenses: 1000, SalariesWages: 500})
		require.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("all rules fire in order", func(t *testing.T) {
		got := FindOpportunities(contracts.Financials{
			TotalRevenue:      1000,
			OperatingExpenses: 350,
			SalariesWages:     450,
			Inventory:         300,
		})

		require.Len(t, got, 3)
		assert.Equal(t, []string{"Operating Expenses", "Personnel Costs", "Inventory Management"},
			[]string{got[0].Area, got[1].Area, got[2].Area})
		assert.InDelta(t, 35, got[0].PotentialSavings, 1e-9)
		assert.InDelta(t, 22.5, got[1].PotentialSavings, 1e-9)
		assert.InDelta(t, 45, got[2].PotentialSavings, 1e-9)
	})

	t.Run("threshold is exclusive", func(t *testing.T) {
		got := FindOpportunities(contracts.Financials{TotalRevenue: 100, OperatingExpenses: 30, SalariesWages: 40, Inventory: 25})
		assert.Empty(t, got)
	})

	t.Run("percentage rounded to two decimals", func(t *testing.T) {
		got := FindOpportunities(contracts.Financials{TotalRevenue: 300, OperatingExpenses: 100.01})
		require.Len(t, got, 1)
		assert.Equal(t, 33.34, got[0].CurrentPercentage)
	})
}

func TestWorkingCapital(t *testing.T) {
	tests := []struct {
		name string
		f    contracts.Financials
		want contracts.WorkingCapitalMetrics
	}{
		{
			name: "healthy and adequate",
			f:    contracts.Financials{CurrentAssets: 200, CurrentLiabilities: 100, TotalRevenue: 500},
			want: contracts.WorkingCapitalMetrics{WorkingCapital: 100, WorkingCapitalRatio: 0.2, CurrentRatio: 2, Status: "healthy", Adequacy: "adequate"},
		},
		{
			name: "healthy but insufficient",
			f:    contracts.Financials{CurrentAssets: 120, CurrentLiabilities: 100, TotalRevenue: 1000},
			want: contracts.WorkingCapitalMetrics{WorkingCapital: 20, WorkingCapitalRatio: 0.02, CurrentRatio: 1.2, Status: "healthy", Adequacy: "insufficient"},
		},
		{
			name: "zero working capital",
			f:    contracts.Financials{CurrentAssets: 100, CurrentLiabilities: 100},
			want: contracts.WorkingCapitalMetrics{CurrentRatio: 1, Status: "stressed", Adequacy: "insufficient"},
		},
		{
			name: "no liabilities",
			f:    contracts.Financials{CurrentAssets: 50},
			want: contracts.WorkingCapitalMetrics{WorkingCapital: 50, Status: "healthy", Adequacy: "adequate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WorkingCapital(tt.f)
			assert.InDelta(t, tt.want.WorkingCapital, got.WorkingCapital, 1e-9)
			assert.InDelta(t, tt.want.WorkingCapitalRatio, got.WorkingCapitalRatio, 1e-9)
			assert.InDelta(t, tt.want.CurrentRatio, got.CurrentRatio, 1e-9)
			assert.Equal(t, tt.want.Status, got.Status)
			assert.Equal(t, tt.want.Adequacy, got.Adequacy)
		})
	}
}
