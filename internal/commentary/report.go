package commentary

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/wonny/finhealth/internal/contracts"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough),
)

// RenderHTML converts a markdown report to an HTML fragment
func RenderHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

// FallbackReport builds a markdown report from the computed figures alone.
// Used when no model is configured or the model call fails.
func FallbackReport(a *contracts.Assessment) string {
	var b strings.Builder

	b.WriteString("# Financial Health Report\n\n")
	if !a.AssessedAt.IsZero() {
		fmt.Fprintf(&b, "_Assessed %s", a.AssessedAt.Format("2 Jan 2006"))
		if a.FiscalYear > 0 {
			fmt.Fprintf(&b, " for fiscal year %d", a.FiscalYear)
		}
		b.WriteString("_\n\n")
	}

	b.WriteString("## Executive Summary\n\n")
	fmt.Fprintf(&b, "Credit score **%.2f** (rating **%s**, %s risk). Overall health score **%.2f** out of 100.\n\n",
		a.Credit.Score, a.Credit.Rating, a.Credit.RiskLevel, a.Health.Overall)

	b.WriteString("## Financial Health Overview\n\n")
	b.WriteString("| Measure | Value |\n|---|---:|\n")
	rows := []struct {
		name  string
		value string
	}{
		{"Revenue", "₹" + FormatAmount(a.Financials.TotalRevenue)},
		{"Net profit", "₹" + FormatAmount(a.Ratios.NetProfit)},
		{"Current ratio", fmt.Sprintf("%.2f", a.Ratios.CurrentRatio)},
		{"Debt to equity", fmt.Sprintf("%.2f", a.Ratios.DebtToEquity)},
		{"Net profit margin", fmt.Sprintf("%.2f%%", a.Ratios.NetProfitMargin)},
		{"Liquidity score", fmt.Sprintf("%.2f", a.Health.Liquidity)},
		{"Profitability score", fmt.Sprintf("%.2f", a.Health.Profitability)},
		{"Efficiency score", fmt.Sprintf("%.2f", a.Health.Efficiency)},
		{"Working capital", "₹" + FormatAmount(a.WorkingCapital.WorkingCapital)},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", r.name, r.value)
	}

	b.WriteString("\n## Credit Score Breakdown\n\n")
	bd := a.Credit.Breakdown
	fmt.Fprintf(&b, "- Liquidity: %.0f / 20\n- Leverage: %.0f / 20\n- Profitability: %.0f / 25\n- Cash flow: %.0f / 20\n- Business maturity: %.0f / 15\n",
		bd.Liquidity, bd.Leverage, bd.Profitability, bd.CashFlow, bd.Maturity)

	b.WriteString("\n## Recommendations for Improvement\n\n")
	if len(a.CostRecommendations) == 0 {
		b.WriteString("No expense category is above its benchmark.\n")
	}
	for _, r := range a.CostRecommendations {
		fmt.Fprintf(&b, "- **%s** (%.2f%% of revenue): %s Potential savings ₹%s.\n",
			r.Area, r.CurrentPercentage, r.Recommendation, FormatAmount(r.PotentialSavings))
	}

	b.WriteString("\n## Future Outlook\n\n")
	fmt.Fprintf(&b, "Revenue is %s. Projected revenue: ₹%s (3 months), ₹%s (6 months), ₹%s (12 months).\n",
		a.Forecast.RevenueTrend,
		FormatAmount(a.Forecast.Revenue3M),
		FormatAmount(a.Forecast.Revenue6M),
		FormatAmount(a.Forecast.Revenue12M))

	if c := a.Commentary; c != nil && c.Summary != "" {
		b.WriteString("\n## Analyst Commentary\n\n")
		b.WriteString(c.Summary)
		b.WriteString("\n")
	}
	return b.String()
}
