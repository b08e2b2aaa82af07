package extraction

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// numberPattern matches the first signed decimal in a cleaned cell
var numberPattern = regexp.MustCompile(`-?\d+\.?\d*`)

// currencyReplacer strips currency markers and thousands separators
var currencyReplacer = strings.NewReplacer(
	"₹", "",
	",", "",
	"Rs", "",
)

// Normalize parses a loosely formatted spreadsheet cell into a float.
// Missing, empty, and unparseable cells yield 0. It never panics.
func Normalize(cell any) float64 {
	v, _ := NormalizeResult(cell)
	return v
}

// NormalizeResult is Normalize plus whether a number was actually found
func NormalizeResult(cell any) (float64, bool) {
	switch v := cell.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return finite(f)
		}
		return parseNumeric(string(v))
	case decimal.Decimal:
		return v.InexactFloat64(), true
	case string:
		return parseNumeric(v)
	case []byte:
		return parseNumeric(string(v))
	default:
		return 0, false
	}
}

// parseNumeric cleans a text cell and parses its first number
func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	s = strings.TrimSpace(currencyReplacer.Replace(s))

	// (1,234.50) → -1234.50
	if strings.Contains(s, "(") && strings.Contains(s, ")") {
		s = "-" + strings.NewReplacer("(", "", ")", "").Replace(s)
	}
	s = strings.Join(strings.Fields(s), "")

	match := numberPattern.FindString(s)
	if match == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(strings.TrimSuffix(match, "."))
	if err != nil {
		return 0, false
	}
	return finite(d.InexactFloat64())
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
