package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/finhealth/internal/contracts"
)

// FinancialRepository implements contracts.FinancialRepository
// ⭐ SSOT: 재무 데이터 저장소는 여기서만
type FinancialRepository struct {
	pool *pgxpool.Pool
}

// NewFinancialRepository creates a new financial repository
func NewFinancialRepository(pool *pgxpool.Pool) *FinancialRepository {
	return &FinancialRepository{pool: pool}
}

const financialColumns = `
	id, business_id, fiscal_year, period_start, period_end,
	document_type, data_source, COALESCE(uploaded_file_path, ''),
	financials, created_at, updated_at`

// rowQuerier is satisfied by both the pool and a transaction
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Upsert stores the record, replacing any existing row for the same
// business and fiscal year. ID and timestamps are filled in.
func (r *FinancialRepository) Upsert(ctx context.Context, rec *contracts.FinancialRecord) error {
	return upsertFinancial(ctx, r.pool, rec)
}

// Merge overlays rec onto the stored row for the same business and fiscal
// year in one transaction, so statements uploaded in parallel for a year
// combine instead of overwriting each other. rec.Financials holds the merged
// figures afterwards. The returned path is the upload the row referenced
// before, or "" when there was none or it was kept.
func (r *FinancialRepository) Merge(ctx context.Context, rec *contracts.FinancialRecord) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin merge: %w", err)
	}
	defer tx.Rollback(ctx)

	// The business row is the lock: FOR UPDATE on financial_data cannot
	// cover a year that has no row yet.
	var locked int64
	err = tx.QueryRow(ctx, `SELECT id FROM businesses WHERE id = $1 FOR UPDATE`, rec.BusinessID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("business %d: %w", rec.BusinessID, contracts.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("lock business %d: %w", rec.BusinessID, err)
	}

	var (
		data     []byte
		previous string
	)
	err = tx.QueryRow(ctx, `
		SELECT financials, COALESCE(uploaded_file_path, '')
		FROM financial_data
		WHERE business_id = $1 AND fiscal_year = $2
		FOR UPDATE`, rec.BusinessID, rec.FiscalYear).Scan(&data, &previous)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return "", fmt.Errorf("read financial data for business %d year %d: %w", rec.BusinessID, rec.FiscalYear, err)
	default:
		var existing contracts.Financials
		if err := json.Unmarshal(data, &existing); err != nil {
			return "", fmt.Errorf("decode financials for business %d year %d: %w", rec.BusinessID, rec.FiscalYear, err)
		}
		rec.Financials = existing.Merge(rec.Financials)
	}

	if err := upsertFinancial(ctx, tx, rec); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit merge: %w", err)
	}

	if rec.UploadedFile == "" || previous == rec.UploadedFile {
		return "", nil
	}
	return previous, nil
}

// upsertFinancial keeps the stored upload path when rec carries none
func upsertFinancial(ctx context.Context, q rowQuerier, rec *contracts.FinancialRecord) error {
	if rec.PeriodStart.IsZero() || rec.PeriodEnd.IsZero() {
		rec.PeriodStart, rec.PeriodEnd = contracts.FiscalPeriod(rec.FiscalYear)
	}

	data, err := json.Marshal(rec.Financials)
	if err != nil {
		return fmt.Errorf("marshal financials: %w", err)
	}

	query := `
		INSERT INTO financial_data (
			business_id, fiscal_year, period_start, period_end,
			document_type, data_source, uploaded_file_path,
			total_revenue, operating_cash_flow, financials
		) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10)
		ON CONFLICT (business_id, fiscal_year) DO UPDATE SET
			period_start = EXCLUDED.period_start,
			period_end = EXCLUDED.period_end,
			document_type = EXCLUDED.document_type,
			data_source = EXCLUDED.data_source,
			uploaded_file_path = COALESCE(EXCLUDED.uploaded_file_path, financial_data.uploaded_file_path),
			total_revenue = EXCLUDED.total_revenue,
			operating_cash_flow = EXCLUDED.operating_cash_flow,
			financials = EXCLUDED.financials,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		rec.BusinessID, rec.FiscalYear, rec.PeriodStart, rec.PeriodEnd,
		rec.Kind, rec.Source, rec.UploadedFile,
		rec.Financials.TotalRevenue, rec.Financials.OperatingCashFlow, data,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert financial data for business %d year %d: %w", rec.BusinessID, rec.FiscalYear, err)
	}
	return nil
}

// GetByID returns contracts.ErrNotFound for an unknown id
func (r *FinancialRepository) GetByID(ctx context.Context, id int64) (*contracts.FinancialRecord, error) {
	query := `SELECT ` + financialColumns + ` FROM financial_data WHERE id = $1`

	rec, err := scanFinancial(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("financial data %d: %w", id, contracts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get financial data %d: %w", id, err)
	}
	return rec, nil
}

// ListByBusiness returns a business's records oldest fiscal year first
func (r *FinancialRepository) ListByBusiness(ctx context.Context, businessID int64) ([]*contracts.FinancialRecord, error) {
	query := `SELECT ` + financialColumns + `
		FROM financial_data
		WHERE business_id = $1
		ORDER BY fiscal_year ASC`

	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list financial data: %w", err)
	}
	defer rows.Close()

	var out []*contracts.FinancialRecord
	for rows.Next() {
		rec, err := scanFinancial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan financial data: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes a record and returns what was deleted, so the caller
// can clean up the uploaded file
func (r *FinancialRepository) Delete(ctx context.Context, id int64) (*contracts.FinancialRecord, error) {
	query := `DELETE FROM financial_data WHERE id = $1 RETURNING ` + financialColumns

	rec, err := scanFinancial(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("financial data %d: %w", id, contracts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("delete financial data %d: %w", id, err)
	}
	return rec, nil
}

func scanFinancial(row pgx.Row) (*contracts.FinancialRecord, error) {
	var (
		rec  contracts.FinancialRecord
		data []byte
	)
	err := row.Scan(
		&rec.ID, &rec.BusinessID, &rec.FiscalYear, &rec.PeriodStart, &rec.PeriodEnd,
		&rec.Kind, &rec.Source, &rec.UploadedFile,
		&data, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &rec.Financials); err != nil {
		return nil, fmt.Errorf("decode financials for record %d: %w", rec.ID, err)
	}
	return &rec, nil
}

// StaleRecord is a financial record newer than its business's latest assessment
type StaleRecord struct {
	BusinessID int64
	FiscalYear int
}

// ListStale returns the newest fiscal year of every business whose financial
// data changed after its latest assessment, or that was never assessed
func (r *FinancialRepository) ListStale(ctx context.Context) ([]StaleRecord, error) {
	query := `
		SELECT DISTINCT ON (f.business_id) f.business_id, f.fiscal_year
		FROM financial_data f
		LEFT JOIN LATERAL (
			SELECT MAX(a.assessment_date) AS last_assessed
			FROM assessments a
			WHERE a.business_id = f.business_id
		) la ON TRUE
		WHERE la.last_assessed IS NULL OR f.updated_at > la.last_assessed
		ORDER BY f.business_id, f.fiscal_year DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stale financial data: %w", err)
	}
	defer rows.Close()

	var out []StaleRecord
	for rows.Next() {
		var s StaleRecord
		if err := rows.Scan(&s.BusinessID, &s.FiscalYear); err != nil {
			return nil, fmt.Errorf("scan stale record: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
