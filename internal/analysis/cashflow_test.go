package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/finhealth/internal/contracts"
)

func txn(year int, month time.Month, day int, amount float64) contracts.Transaction {
	return contracts.Transaction{Date: time.Date(year, month, day, 10, 0, 0, 0, time.UTC), Amount: amount}
}

func TestAnalyzeCashFlowPattern(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		got := AnalyzeCashFlowPattern(nil)
		assert.Equal(t, contracts.CashFlowPattern{Trend: contracts.TrendStable}, got)
	})

	t.Run("three months out of order", func(t *testing.T) {
		got := AnalyzeCashFlowPattern([]contracts.Transaction{
			txn(2025, time.March, 3, 300),
			txn(2025, time.January, 5, 100),
			txn(2025, time.January, 20, 50),
			txn(2025, time.January, 21, -30),
			txn(2025, time.February, 2, 200),
			txn(2025, time.February, 9, -70),
			txn(2025, time.February, 10, 0),
		})

		assert.InDelta(t, 650.0/3, got.AverageMonthlyInflow, 1e-9)
		assert.InDelta(t, 50, got.AverageMonthlyOutflow, 1e-9)
		assert.Equal(t, 300.0, got.MaxMonthlyInflow)
		assert.Equal(t, 150.0, got.MinMonthlyInflow)
		assert.InDelta(t, 76.376261, got.Volatility, 1e-6)
		assert.Equal(t, contracts.TrendIncreasing, got.Trend)
		assert.Equal(t, 3, got.MonthsAnalyzed)
	})

	t.Run("single month", func(t *testing.T) {
		got := AnalyzeCashFlowPattern([]contracts.Transaction{
			txn(2025, time.May, 1, 400),
			txn(2025, time.May, 2, 100),
		})
		assert.Equal(t, 500.0, got.AverageMonthlyInflow)
		assert.Equal(t, 0.0, got.Volatility)
		assert.Equal(t, contracts.TrendStable, got.Trend)
		assert.Equal(t, 1, got.MonthsAnalyzed)
	})

	t.Run("outflows only", func(t *testing.T) {
		got := AnalyzeCashFlowPattern([]contracts.Transaction{txn(2025, time.June, 1, -80)})
		assert.Equal(t, 80.0, got.AverageMonthlyOutflow)
		assert.Equal(t, 0, got.MonthsAnalyzed)
		assert.Equal(t, contracts.TrendStable, got.Trend)
	})

	t.Run("same month in different years", func(t *testing.T) {
		got := AnalyzeCashFlowPattern([]contracts.Transaction{
			txn(2025, time.January, 1, 10),
			txn(2024, time.January, 1, 1000),
		})
		assert.Equal(t, 2, got.MonthsAnalyzed)
		assert.Equal(t, contracts.TrendDecreasing, got.Trend)
	})
}
