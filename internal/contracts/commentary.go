package contracts

// Commentary is the free-text assessment returned by the LLM collaborator.
// Numbers in it are informational only and never feed back into scores.
type Commentary struct {
	Summary       string   `json:"ai_summary"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`

	RevenueRecommendations        []RevenueRecommendation        `json:"revenue_enhancement_recommendations"`
	WorkingCapitalRecommendations []WorkingCapitalRecommendation `json:"working_capital_recommendations"`
	TaxRecommendations            []TaxRecommendation            `json:"tax_optimization_recommendations"`
	RecommendedProducts           []FinancialProduct             `json:"recommended_products"`
	IdentifiedRisks               []IdentifiedRisk               `json:"identified_risks"`
	RiskMitigations               []RiskMitigation               `json:"risk_mitigation_strategies"`
	ComplianceIssues              []string                       `json:"compliance_issues"`

	TaxComplianceScore *float64 `json:"tax_compliance_score,omitempty"`
	PercentileRank     *float64 `json:"percentile_rank,omitempty"`
	Confidence         *float64 `json:"ai_confidence_score,omitempty"`
	Model              string   `json:"ai_model_used,omitempty"`
}

// RevenueRecommendation is a suggested revenue strategy
type RevenueRecommendation struct {
	Strategy          string  `json:"strategy"`
	Recommendation    string  `json:"recommendation"`
	PotentialIncrease float64 `json:"potential_increase"`
}

// WorkingCapitalRecommendation is a suggested working capital action
type WorkingCapitalRecommendation struct {
	Aspect         string `json:"aspect"`
	Recommendation string `json:"recommendation"`
	Impact         string `json:"impact"` // high, medium, low
}

// TaxRecommendation is a suggested tax optimization
type TaxRecommendation struct {
	Area             string  `json:"area"`
	Recommendation   string  `json:"recommendation"`
	PotentialSavings float64 `json:"potential_savings"`
}

// FinancialProduct is a suggested credit product
type FinancialProduct struct {
	ProductType  string  `json:"product_type"`
	Provider     string  `json:"provider"`
	Amount       float64 `json:"amount"`
	InterestRate float64 `json:"interest_rate"`
	Reason       string  `json:"reason"`
}

// IdentifiedRisk is a risk flagged by the commentary
type IdentifiedRisk struct {
	Risk        string `json:"risk"`
	Severity    string `json:"severity"`
	Probability string `json:"probability"`
}

// RiskMitigation pairs a risk with a mitigation strategy
type RiskMitigation struct {
	Risk     string `json:"risk"`
	Strategy string `json:"strategy"`
}

// NarrationRequest carries everything the commentary generator sees
type NarrationRequest struct {
	Business   BusinessMeta     `json:"business"`
	Financials Financials       `json:"financials"`
	Ratios     RatioSet         `json:"ratios"`
	Credit     CreditAssessment `json:"credit"`
	Health     HealthScores     `json:"health"`
	Forecast   ForecastBundle   `json:"forecast"`

	// RawPDF, when set, is sent to the model as the source document
	RawPDF []byte `json:"-"`
}
