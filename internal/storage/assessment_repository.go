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

// AssessmentRepository implements contracts.AssessmentRepository.
// Headline scores are kept in columns for querying; the full result lives in payload.
type AssessmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(pool *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{pool: pool}
}

// Save inserts a new assessment row and sets a.ID
func (r *AssessmentRepository) Save(ctx context.Context, a *contracts.Assessment) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal assessment: %w", err)
	}

	query := `
		INSERT INTO assessments (
			business_id, fiscal_year, assessment_date,
			credit_score, credit_rating, risk_level, overall_health_score,
			commentary_status, payload
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err = r.pool.QueryRow(ctx, query,
		a.BusinessID, a.FiscalYear, a.AssessedAt,
		a.Credit.Score, a.Credit.Rating, a.Credit.RiskLevel, a.Health.Overall,
		a.CommentaryStatus, payload,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert assessment for business %d: %w", a.BusinessID, err)
	}
	return nil
}

// GetByID returns contracts.ErrNotFound for an unknown id
func (r *AssessmentRepository) GetByID(ctx context.Context, id int64) (*contracts.Assessment, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, payload FROM assessments WHERE id = $1`, id)

	a, err := scanAssessment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("assessment %d: %w", id, contracts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment %d: %w", id, err)
	}
	return a, nil
}

// GetLatest returns the most recent assessment for a business
func (r *AssessmentRepository) GetLatest(ctx context.Context, businessID int64) (*contracts.Assessment, error) {
	query := `
		SELECT id, payload
		FROM assessments
		WHERE business_id = $1
		ORDER BY assessment_date DESC, id DESC
		LIMIT 1
	`

	a, err := scanAssessment(r.pool.QueryRow(ctx, query, businessID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("assessment for business %d: %w", businessID, contracts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get latest assessment for business %d: %w", businessID, err)
	}
	return a, nil
}

// ListByBusiness returns a business's assessments newest first
func (r *AssessmentRepository) ListByBusiness(ctx context.Context, businessID int64) ([]*contracts.Assessment, error) {
	query := `
		SELECT id, payload
		FROM assessments
		WHERE business_id = $1
		ORDER BY assessment_date DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var out []*contracts.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAssessment(row pgx.Row) (*contracts.Assessment, error) {
	var (
		id      int64
		payload []byte
	)
	if err := row.Scan(&id, &payload); err != nil {
		return nil, err
	}

	var a contracts.Assessment
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("decode assessment %d: %w", id, err)
	}
	a.ID = id
	return &a, nil
}
