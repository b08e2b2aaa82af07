package contracts

import "time"

// Rating is a banded credit rating, best first
type Rating string

const (
	RatingAAA Rating = "AAA"
	RatingAA  Rating = "AA"
	RatingA   Rating = "A"
	RatingBBB Rating = "BBB"
	RatingBB  Rating = "BB"
	RatingB   Rating = "B"
	RatingCCC Rating = "CCC"
	RatingCC  Rating = "CC"
	RatingC   Rating = "C"
	RatingD   Rating = "D"
)

// Ratings lists every rating tier in descending order
var Ratings = []Rating{RatingAAA, RatingAA, RatingA, RatingBBB, RatingBB, RatingB, RatingCCC, RatingCC, RatingC, RatingD}

// Rank returns the tier position (0 = AAA), or -1 if unknown
func (r Rating) Rank() int {
	for i, t := range Ratings {
		if t == r {
			return i
		}
	}
	return -1
}

// RiskLevel is a banded risk tier, lowest risk first
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// CreditBreakdown holds the points earned per scoring component
type CreditBreakdown struct {
	Liquidity     float64 `json:"liquidity"`
	Leverage      float64 `json:"leverage"`
	Profitability float64 `json:"profitability"`
	CashFlow      float64 `json:"cash_flow"`
	Maturity      float64 `json:"maturity"`
}

// Total returns the sum of all component points
func (b CreditBreakdown) Total() float64 {
	return b.Liquidity + b.Leverage + b.Profitability + b.CashFlow + b.Maturity
}

// CreditAssessment is the result of one credit scoring call
type CreditAssessment struct {
	Score     float64         `json:"score"`
	Rating    Rating          `json:"rating"`
	RiskLevel RiskLevel       `json:"risk_level"`
	Breakdown CreditBreakdown `json:"breakdown"`
}

// Health score weights
const (
	HealthWeightLiquidity     = 0.30
	HealthWeightProfitability = 0.40
	HealthWeightEfficiency    = 0.30
)

// HealthScores holds the 0-100 health sub-scores
type HealthScores struct {
	Liquidity     float64 `json:"liquidity_score"`
	Profitability float64 `json:"profitability_score"`
	Efficiency    float64 `json:"efficiency_score"`
	Overall       float64 `json:"overall_health_score"`
}

// OverallOf returns the weighted overall score for three sub-scores
// ⭐ SSOT: overall 계산은 여기서만 (독립적인 값 금지)
func OverallOf(liquidity, profitability, efficiency float64) float64 {
	return liquidity*HealthWeightLiquidity +
		profitability*HealthWeightProfitability +
		efficiency*HealthWeightEfficiency
}

// ForecastSeries is a projection, one non-negative value per future period
type ForecastSeries []float64

// Last returns the final projected value, or 0 for an empty series
func (s ForecastSeries) Last() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

// Sum returns the total of all projected values
func (s ForecastSeries) Sum() float64 {
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total
}

// Trend classifies the direction of a series
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// ForecastBundle holds the horizons reported on an assessment
type ForecastBundle struct {
	Revenue3M    float64 `json:"revenue_forecast_3m"`
	Revenue6M    float64 `json:"revenue_forecast_6m"`
	Revenue12M   float64 `json:"revenue_forecast_12m"`
	CashFlow3M   float64 `json:"cash_flow_forecast_3m"`
	RevenueTrend Trend   `json:"revenue_trend"`
}

// CostRecommendation flags one expense category that exceeds its threshold
type CostRecommendation struct {
	Area              string  `json:"area"`
	CurrentPercentage float64 `json:"current_percentage"`
	Recommendation    string  `json:"recommendation"`
	PotentialSavings  float64 `json:"potential_savings"`
}

// WorkingCapitalMetrics summarizes short-term funding health
type WorkingCapitalMetrics struct {
	WorkingCapital      float64 `json:"working_capital"`
	WorkingCapitalRatio float64 `json:"working_capital_ratio"`
	CurrentRatio        float64 `json:"current_ratio"`
	Status              string  `json:"status"`   // healthy, stressed
	Adequacy            string  `json:"adequacy"` // adequate, insufficient
}

// Transaction is a single bank/ledger movement; inflows are positive
type Transaction struct {
	ID          int64     `json:"id,omitempty"`
	BusinessID  int64     `json:"business_id,omitempty"`
	Date        time.Time `json:"transaction_date"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	Amount      float64   `json:"amount"`
}

// CashFlowPattern summarizes monthly inflows and outflows
type CashFlowPattern struct {
	AverageMonthlyInflow  float64 `json:"average_monthly_inflow"`
	AverageMonthlyOutflow float64 `json:"average_monthly_outflow"`
	MaxMonthlyInflow      float64 `json:"max_monthly_inflow"`
	MinMonthlyInflow      float64 `json:"min_monthly_inflow"`
	Volatility            float64 `json:"volatility"`
	Trend                 Trend   `json:"trend"`
	MonthsAnalyzed        int     `json:"months_analyzed"`
}

// Commentary status values
const (
	CommentaryDisabled = "disabled"
	CommentaryDone     = "done"
	CommentaryFailed   = "failed"
)

// Assessment is the full output of one assessment run
// ⭐ SSOT: 영속화/LLM 코멘터리로 넘어가는 최종 페이로드
type Assessment struct {
	ID                  int64                 `json:"id,omitempty"`
	BusinessID          int64                 `json:"business_id,omitempty"`
	FiscalYear          int                   `json:"fiscal_year,omitempty"`
	AssessedAt          time.Time             `json:"assessment_date"`
	Financials          Financials            `json:"financials"`
	Ratios              RatioSet              `json:"ratios"`
	Credit              CreditAssessment      `json:"credit"`
	Health              HealthScores          `json:"health"`
	Forecast            ForecastBundle        `json:"forecast"`
	CostRecommendations []CostRecommendation  `json:"cost_recommendations"`
	WorkingCapital      WorkingCapitalMetrics `json:"working_capital"`
	CashFlowPattern     *CashFlowPattern      `json:"cash_flow_pattern,omitempty"`
	Commentary          *Commentary           `json:"commentary,omitempty"`
	CommentaryStatus    string                `json:"commentary_status"`
}
