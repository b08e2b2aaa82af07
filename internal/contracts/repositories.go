package contracts

import (
	"context"
	"time"
)

// ⭐ SSOT: Repository 인터페이스 정의는 여기서만

// BusinessRepository manages business profiles
type BusinessRepository interface {
	Create(ctx context.Context, b *Business) error
	GetByID(ctx context.Context, id int64) (*Business, error)
	List(ctx context.Context, limit, offset int) ([]*Business, error)
}

// FinancialRepository manages canonical financials, one row per business and fiscal year
type FinancialRepository interface {
	Upsert(ctx context.Context, rec *FinancialRecord) error
	// Merge overlays rec onto the stored year atomically and returns the
	// replaced upload path, if any
	Merge(ctx context.Context, rec *FinancialRecord) (string, error)
	GetByID(ctx context.Context, id int64) (*FinancialRecord, error)
	ListByBusiness(ctx context.Context, businessID int64) ([]*FinancialRecord, error)
	Delete(ctx context.Context, id int64) (*FinancialRecord, error)
}

// AssessmentRepository manages stored assessments
type AssessmentRepository interface {
	Save(ctx context.Context, a *Assessment) error
	GetByID(ctx context.Context, id int64) (*Assessment, error)
	GetLatest(ctx context.Context, businessID int64) (*Assessment, error)
	ListByBusiness(ctx context.Context, businessID int64) ([]*Assessment, error)
}

// TransactionRepository reads ledger movements for cash flow analysis
type TransactionRepository interface {
	ListByBusiness(ctx context.Context, businessID int64, from, to time.Time) ([]Transaction, error)
	SaveBatch(ctx context.Context, txns []Transaction) error
}
