package extraction

import (
	"regexp"
	"strings"

	"github.com/wonny/finhealth/internal/contracts"
)

// textPatterns pull headline figures out of free text such as a PDF text layer.
// Each pattern captures the first number following its label.
var textPatterns = []struct {
	field   string
	pattern *regexp.Regexp
}{
	{"total_revenue", regexp.MustCompile(`(?:total\s+)?revenue[:\s]+₹?[\s,]*(\d+(?:,\d+)*(?:\.\d+)?)`)},
	{"total_assets", regexp.MustCompile(`(?:total\s+)?assets[:\s]+₹?[\s,]*(\d+(?:,\d+)*(?:\.\d+)?)`)},
	{"total_liabilities", regexp.MustCompile(`(?:total\s+)?liabilities[:\s]+₹?[\s,]*(\d+(?:,\d+)*(?:\.\d+)?)`)},
	{"cash_and_equivalents", regexp.MustCompile(`cash[:\s]+₹?[\s,]*(\d+(?:,\d+)*(?:\.\d+)?)`)},
}

// ExtractText reads the headline fields from unstructured statement text.
// Fields without a match stay zero.
func ExtractText(text string) contracts.Financials {
	fin, _ := ExtractTextFields(text)
	return fin
}

// ExtractTextFields is ExtractText plus the names of the fields that matched
func ExtractTextFields(text string) (contracts.Financials, []string) {
	var fin contracts.Financials
	var found []string

	lower := strings.ToLower(text)
	for _, p := range textPatterns {
		m := p.pattern.FindStringSubmatch(lower)
		if len(m) < 2 {
			continue
		}
		v, ok := NormalizeResult(m[1])
		if !ok {
			continue
		}
		if ptr := fin.Field(p.field); ptr != nil {
			*ptr = v
			found = append(found, p.field)
		}
	}
	return fin, found
}
