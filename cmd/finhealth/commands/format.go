package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/wonny/finhealth/internal/batch"
	"github.com/wonny/finhealth/internal/commentary"
	"github.com/wonny/finhealth/internal/contracts"
)

const (
	doubleRule = "═══════════════════════════════════════════════════════════"
	singleRule = "───────────────────────────────────────────────────────────"
)

// writeJSON prints v indented
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printAssessment renders one assessment as a text report
func printAssessment(w io.Writer, title string, a *contracts.Assessment) {
	fmt.Fprintln(w, doubleRule)
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, singleRule)

	c := a.Credit
	fmt.Fprintf(w, "  Credit score : %.2f / 100  (%s, %s risk)\n", c.Score, c.Rating, c.RiskLevel)
	fmt.Fprintf(w, "    liquidity %.2f/20  leverage %.2f/20  profitability %.2f/25  cash flow %.2f/20  maturity %.2f/15\n",
		c.Breakdown.Liquidity, c.Breakdown.Leverage, c.Breakdown.Profitability, c.Breakdown.CashFlow, c.Breakdown.Maturity)

	h := a.Health
	fmt.Fprintf(w, "  Health       : %.2f  (liquidity %.2f, profitability %.2f, efficiency %.2f)\n",
		h.Overall, h.Liquidity, h.Profitability, h.Efficiency)

	fmt.Fprintln(w, singleRule)
	r := a.Ratios
	fmt.Fprintf(w, "  Current ratio  %8.2f    Debt/Equity     %8.2f\n", r.CurrentRatio, r.DebtToEquity)
	fmt.Fprintf(w, "  Quick ratio    %8.2f    Debt ratio      %8.2f\n", r.QuickRatio, r.DebtRatio)
	fmt.Fprintf(w, "  Gross margin   %7.2f%%    Net margin      %7.2f%%\n", r.GrossProfitMargin, r.NetProfitMargin)
	fmt.Fprintf(w, "  Op. margin     %7.2f%%    Asset turnover  %8.2f\n", r.OperatingMargin, r.AssetTurnover)
	fmt.Fprintf(w, "  ROA            %7.2f%%    ROE             %7.2f%%\n", r.ReturnOnAssets, r.ReturnOnEquity)

	fmt.Fprintln(w, singleRule)
	f := a.Forecast
	fmt.Fprintf(w, "  Revenue forecast  3m %s  6m %s  12m %s  (%s)\n",
		commentary.FormatAmount(f.Revenue3M), commentary.FormatAmount(f.Revenue6M),
		commentary.FormatAmount(f.Revenue12M), f.RevenueTrend)
	fmt.Fprintf(w, "  Working capital   %s  (%s, %s)\n",
		commentary.FormatAmount(a.WorkingCapital.WorkingCapital), a.WorkingCapital.Status, a.WorkingCapital.Adequacy)

	if len(a.CostRecommendations) > 0 {
		fmt.Fprintln(w, singleRule)
		fmt.Fprintln(w, "  Cost recommendations")
		for _, rec := range a.CostRecommendations {
			fmt.Fprintf(w, "   - %s at %.2f%% of revenue, potential savings %s\n",
				rec.Area, rec.CurrentPercentage, commentary.FormatAmount(rec.PotentialSavings))
		}
	}

	if a.Commentary != nil && a.Commentary.Summary != "" {
		fmt.Fprintln(w, singleRule)
		fmt.Fprintf(w, "  %s\n", a.Commentary.Summary)
	}
	fmt.Fprintln(w, doubleRule)
}

// printBatchSummary renders one line per batch entry
func printBatchSummary(w io.Writer, results []batch.Result) {
	fmt.Fprintf(w, "%-24s %8s %-6s %8s  %s\n", "BUSINESS", "SCORE", "RATING", "HEALTH", "NOTE")
	fmt.Fprintln(w, strings.Repeat("─", 64))
	for _, res := range results {
		if res.Assessment == nil {
			fmt.Fprintf(w, "%-24s %8s %-6s %8s  %s\n", res.Name, "-", "-", "-", res.Error)
			continue
		}
		a := res.Assessment
		fmt.Fprintf(w, "%-24s %8.2f %-6s %8.2f  %s\n",
			res.Name, a.Credit.Score, a.Credit.Rating, a.Health.Overall, a.CommentaryStatus)
	}
}
