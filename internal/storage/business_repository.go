package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/finhealth/internal/contracts"
)

// BusinessRepository implements contracts.BusinessRepository
// ⭐ SSOT: 사업체 프로필 저장소는 여기서만
type BusinessRepository struct {
	pool *pgxpool.Pool
}

// NewBusinessRepository creates a new business repository
func NewBusinessRepository(pool *pgxpool.Pool) *BusinessRepository {
	return &BusinessRepository{pool: pool}
}

const businessColumns = `
	id, business_name, COALESCE(legal_name, ''), COALESCE(registration_number, ''),
	COALESCE(gst_number, ''), COALESCE(pan_number, ''), industry, business_size,
	COALESCE(city, ''), COALESCE(state, ''), COALESCE(email, ''),
	annual_revenue, employee_count, COALESCE(established_year, 0),
	created_at, updated_at`

// Create inserts a business and fills in its ID and timestamps
func (r *BusinessRepository) Create(ctx context.Context, b *contracts.Business) error {
	size := b.Size
	if size == "" {
		size = contracts.SizeSmall
	}

	query := `
		INSERT INTO businesses (
			business_name, legal_name, registration_number, gst_number, pan_number,
			industry, business_size, city, state, email,
			annual_revenue, employee_count, established_year
		) VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''),
		          $6, $7, NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''),
		          $11, $12, NULLIF($13, 0))
		RETURNING id, business_size, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		b.Name, b.LegalName, b.RegistrationNumber, b.GSTNumber, b.PANNumber,
		b.Industry, size, b.City, b.State, b.Email,
		b.AnnualRevenue, b.EmployeeCount, b.EstablishedYear,
	).Scan(&b.ID, &b.Size, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

// GetByID returns contracts.ErrNotFound for an unknown id
func (r *BusinessRepository) GetByID(ctx context.Context, id int64) (*contracts.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = $1`

	b, err := scanBusiness(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("business %d: %w", id, contracts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get business %d: %w", id, err)
	}
	return b, nil
}

// List returns businesses newest first
func (r *BusinessRepository) List(ctx context.Context, limit, offset int) ([]*contracts.Business, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + businessColumns + `
		FROM businesses
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()

	var out []*contracts.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBusiness(row pgx.Row) (*contracts.Business, error) {
	var b contracts.Business
	err := row.Scan(
		&b.ID, &b.Name, &b.LegalName, &b.RegistrationNumber,
		&b.GSTNumber, &b.PANNumber, &b.Industry, &b.Size,
		&b.City, &b.State, &b.Email,
		&b.AnnualRevenue, &b.EmployeeCount, &b.EstablishedYear,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
