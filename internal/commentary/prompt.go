package commentary

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/finhealth/internal/contracts"
)

// commentarySchema is the JSON shape requested from the model.
// Scores are computed locally and are only given to the model as context.
const commentarySchema = `{
  "ai_summary": "<2-3 paragraph executive summary>",
  "strengths": ["strength1", "strength2", "strength3"],
  "weaknesses": ["weakness1", "weakness2", "weakness3"],
  "opportunities": ["opportunity1", "opportunity2", "opportunity3"],
  "threats": ["threat1", "threat2", "threat3"],
  "revenue_enhancement_recommendations": [
    {"strategy": "strategy_name", "recommendation": "detailed_recommendation", "potential_increase": amount}
  ],
  "working_capital_recommendations": [
    {"aspect": "aspect_name", "recommendation": "detailed_recommendation", "impact": "high|medium|low"}
  ],
  "tax_optimization_recommendations": [
    {"area": "area_name", "recommendation": "detailed_recommendation", "potential_savings": amount}
  ],
  "recommended_products": [
    {"product_type": "loan_type", "provider": "bank_name", "amount": suggested_amount, "interest_rate": estimated_rate, "reason": "why_this_product"}
  ],
  "identified_risks": [
    {"risk": "risk_description", "severity": "high|medium|low", "probability": "high|medium|low"}
  ],
  "risk_mitigation_strategies": [
    {"risk": "risk_name", "strategy": "mitigation_strategy"}
  ],
  "tax_compliance_score": <0-100>,
  "compliance_issues": ["issue1", "issue2"],
  "percentile_rank": <0-100 compared to industry>,
  "ai_confidence_score": <0-1>
}`

const closingInstruction = "Provide actionable, specific recommendations tailored to Indian SMEs. " +
	"Consider GST compliance, working capital challenges, and growth opportunities."

func writeBusiness(b *strings.Builder, meta contracts.BusinessMeta, withAge bool) {
	b.WriteString("BUSINESS INFORMATION:\n")
	fmt.Fprintf(b, "- Business Name: %s\n", orNA(meta.Name))
	fmt.Fprintf(b, "- Industry: %s\n", orNA(string(meta.Industry)))
	fmt.Fprintf(b, "- Business Size: %s\n", orNA(string(meta.Size)))
	if withAge {
		years := "N/A"
		if meta.EstablishedYear > 0 {
			years = strconv.Itoa(meta.YearsInOperation(time.Now()))
		}
		fmt.Fprintf(b, "- Years in Operation: %s\n", years)
	}
}

type amountLine struct {
	label string
	value float64
}

func buildAnalysisPrompt(req contracts.NarrationRequest) string {
	f := req.Financials
	var b strings.Builder

	b.WriteString("You are an expert financial analyst specializing in SME financial health assessment.\n")
	b.WriteString("Analyze the following financial data and provide comprehensive insights.\n\n")
	writeBusiness(&b, req.Business, true)

	b.WriteString("\nFINANCIAL DATA:\n")
	fmt.Fprintf(&b, "Revenue: ₹%s\n", FormatAmount(f.TotalRevenue))
	fmt.Fprintf(&b, "Expenses: ₹%s\n", FormatAmount(f.TotalExpenses))
	fmt.Fprintf(&b, "Net Profit: ₹%s\n", FormatAmount(f.NetProfit()))

	sections := []struct {
		title string
		lines []amountLine
	}{
		{"Assets", []amountLine{
			{"Total Assets", f.TotalAssets},
			{"Current Assets", f.CurrentAssets},
			{"Cash", f.CashAndEquivalents},
			{"Receivables", f.AccountsReceivable},
			{"Inventory", f.Inventory},
		}},
		{"Liabilities", []amountLine{
			{"Total Liabilities", f.TotalLiabilities},
			{"Current Liabilities", f.CurrentLiabilities},
			{"Accounts Payable", f.AccountsPayable},
			{"Short-term Debt", f.ShortTermDebt},
			{"Long-term Debt", f.LongTermDebt},
		}},
		{"Cash Flow", []amountLine{
			{"Operating Cash Flow", f.OperatingCashFlow},
			{"Investing Cash Flow", f.InvestingCashFlow},
			{"Financing Cash Flow", f.FinancingCashFlow},
		}},
		{"Tax Information", []amountLine{
			{"Tax Paid", f.TaxPaid},
			{"GST Collected", f.GSTCollected},
			{"GST Paid", f.GSTPaid},
		}},
	}
	for _, s := range sections {
		fmt.Fprintf(&b, "\n%s:\n", s.title)
		for _, l := range s.lines {
			fmt.Fprintf(&b, "- %s: ₹%s\n", l.label, FormatAmount(l.value))
		}
	}

	b.WriteString("\nCOMPUTED SCORES (final, do not recompute):\n")
	fmt.Fprintf(&b, "- Credit Score: %.2f (%s, %s risk)\n", req.Credit.Score, req.Credit.Rating, req.Credit.RiskLevel)
	fmt.Fprintf(&b, "- Overall Health: %.2f (liquidity %.2f, profitability %.2f, efficiency %.2f)\n",
		req.Health.Overall, req.Health.Liquidity, req.Health.Profitability, req.Health.Efficiency)
	fmt.Fprintf(&b, "- Current Ratio: %.2f, Debt-to-Equity: %.2f, Net Margin: %.2f%%\n",
		req.Ratios.CurrentRatio, req.Ratios.DebtToEquity, req.Ratios.NetProfitMargin)
	fmt.Fprintf(&b, "- Revenue Forecast 12m: ₹%s (%s)\n", FormatAmount(req.Forecast.Revenue12M), req.Forecast.RevenueTrend)

	b.WriteString("\nPlease provide a comprehensive financial health commentary in the following JSON format:\n\n")
	b.WriteString(commentarySchema)
	b.WriteString("\n\n")
	b.WriteString(closingInstruction)
	b.WriteString("\n")
	return b.String()
}

func buildPDFPrompt(req contracts.NarrationRequest) string {
	var b strings.Builder
	b.WriteString("You are an expert financial analyst specializing in SME financial health assessment.\n\n")
	writeBusiness(&b, req.Business, false)
	b.WriteString(`
Analyze the financial document provided. Read all financial metrics it contains:
- Revenue, expenses, profit/loss
- Assets (current, fixed, total)
- Liabilities (current, long-term, total)
- Cash flow information

Then provide a comprehensive financial health commentary in the following JSON format:

`)
	b.WriteString(commentarySchema)
	b.WriteString("\n\n")
	b.WriteString(closingInstruction)
	b.WriteString("\n")
	return b.String()
}

var languageNames = map[string]string{
	"hi": "Hindi",
	"en": "English",
	"ta": "Tamil",
	"te": "Telugu",
	"mr": "Marathi",
	"gu": "Gujarati",
}

// LanguageName returns the display name for a language code
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	if code == "" {
		return "English"
	}
	return code
}

func reportSystemPrompt(language string) string {
	return "You are a professional financial report writer. Write clear, actionable reports in " + LanguageName(language) + "."
}

func buildReportPrompt(a *contracts.Assessment, language string) (string, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal assessment: %w", err)
	}

	var b strings.Builder
	b.WriteString("Generate a comprehensive financial health report based on the following assessment data:\n\n")
	b.Write(data)
	fmt.Fprintf(&b, "\n\nLanguage: %s\n\n", LanguageName(language))
	b.WriteString(`Create a professional, easy-to-understand report in Markdown suitable for business owners who may not have financial expertise.
Include sections for:
1. Executive Summary
2. Financial Health Overview
3. Key Strengths and Weaknesses
4. Risk Assessment
5. Recommendations for Improvement
6. Financial Product Suggestions
7. Future Outlook

Make it concise yet comprehensive, approximately 1500-2000 words.
`)
	return b.String(), nil
}

// FormatAmount renders v with two decimals and comma thousands separators
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.00"
	}
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	if v < 0 && s != "0.00" {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
