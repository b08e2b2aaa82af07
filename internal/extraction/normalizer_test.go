package extraction

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		cell  any
		want  float64
		found bool
	}{
		{"nil", nil, 0, false},
		{"empty string", "", 0, false},
		{"whitespace", "   ", 0, false},
		{"plain int", 42, 42, true},
		{"int64", int64(-7), -7, true},
		{"float", 1234.5, 1234.5, true},
		{"json number", json.Number("3.25"), 3.25, true},
		{"json number exponent", json.Number("1e5"), 100000, true},
		{"json number upper exponent", json.Number("2.5E3"), 2500, true},
		{"json number not numeric", json.Number("₹1,200"), 1200, true},
		{"int8", int8(-4), -4, true},
		{"int16", int16(7), 7, true},
		{"uint8", uint8(3), 3, true},
		{"uint16", uint16(9), 9, true},
		{"decimal", decimal.RequireFromString("10.75"), 10.75, true},
		{"parenthesised negative", "(1,234.50)", -1234.5, true},
		{"lakh grouping with rupee", "₹2,00,000", 200000, true},
		{"rs prefix", "Rs. 500", 500, true},
		{"percent suffix", "12.5%", 12.5, true},
		{"explicit negative", "-45", -45, true},
		{"trailing dot", "12.", 12, true},
		{"spaces inside", "1 000", 1000, true},
		{"no digits", "n/a", 0, false},
		{"nan", math.NaN(), 0, false},
		{"inf", math.Inf(1), 0, false},
		{"unsupported type", struct{}{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := NormalizeResult(tt.cell)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Equal(t, tt.found, found)
			assert.InDelta(t, tt.want, Normalize(tt.cell), 1e-9)
		})
	}
}

func TestNormalize_NeverNaN(t *testing.T) {
	inputs := []any{"((", ")(", "-", ".", "₹", "Rs", "--1", "1e309", math.Inf(-1), float32(math.NaN())}
	for _, in := range inputs {
		v := Normalize(in)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("Normalize(%v) = %v, want finite", in, v)
		}
	}
}
