package queue

import (
	"context"
	"fmt"

	"github.com/wonny/finhealth/internal/assessment"
	"github.com/wonny/finhealth/internal/contracts"
)

// Runner assesses one business and fiscal year from stored data
type Runner struct {
	businesses   contracts.BusinessRepository
	financials   contracts.FinancialRepository
	assessments  contracts.AssessmentRepository
	transactions contracts.TransactionRepository
	service      *assessment.Service
}

// NewRunner creates a runner. transactions may be nil.
func NewRunner(
	businesses contracts.BusinessRepository,
	financials contracts.FinancialRepository,
	assessments contracts.AssessmentRepository,
	transactions contracts.TransactionRepository,
	service *assessment.Service,
) *Runner {
	return &Runner{
		businesses:   businesses,
		financials:   financials,
		assessments:  assessments,
		transactions: transactions,
		service:      service,
	}
}

// Run loads the inputs, assesses them and stores the result
func (r *Runner) Run(ctx context.Context, businessID int64, fiscalYear int) (*contracts.Assessment, error) {
	business, err := r.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	records, err := r.financials.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	in, err := BuildInput(business, records, fiscalYear)
	if err != nil {
		return nil, err
	}

	if r.transactions != nil {
		from, to := contracts.FiscalPeriod(fiscalYear)
		txns, err := r.transactions.ListByBusiness(ctx, businessID, from, to)
		if err != nil {
			return nil, fmt.Errorf("load transactions: %w", err)
		}
		in.Transactions = txns
	}

	a, err := r.service.Assess(ctx, in)
	if err != nil {
		return nil, err
	}

	// cached results carry the id of an earlier row; always store a new one
	stored := *a
	stored.ID = 0
	if err := r.assessments.Save(ctx, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// BuildInput selects the target year's financials and the revenue and
// operating cash flow history up to and including that year.
// records must be ordered by fiscal year ascending.
func BuildInput(business *contracts.Business, records []*contracts.FinancialRecord, fiscalYear int) (assessment.Input, error) {
	in := assessment.Input{
		BusinessID: business.ID,
		FiscalYear: fiscalYear,
		Business:   business.Meta(),
	}

	found := false
	for _, rec := range records {
		if rec.FiscalYear > fiscalYear {
			break
		}
		in.RevenueHistory = append(in.RevenueHistory, rec.Financials.TotalRevenue)
		in.CashFlowHistory = append(in.CashFlowHistory, rec.Financials.OperatingCashFlow)
		if rec.FiscalYear == fiscalYear {
			in.Financials = rec.Financials
			found = true
		}
	}
	if !found {
		return in, fmt.Errorf("financial data for business %d year %d: %w", business.ID, fiscalYear, contracts.ErrNotFound)
	}
	return in, nil
}
