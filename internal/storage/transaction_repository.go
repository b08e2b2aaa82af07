package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/finhealth/internal/contracts"
)

// TransactionRepository implements contracts.TransactionRepository
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// ListByBusiness returns transactions dated within [from, to], oldest first
func (r *TransactionRepository) ListByBusiness(ctx context.Context, businessID int64, from, to time.Time) ([]contracts.Transaction, error) {
	query := `
		SELECT id, business_id, transaction_date, description, COALESCE(category, ''), amount
		FROM transactions
		WHERE business_id = $1 AND transaction_date BETWEEN $2 AND $3
		ORDER BY transaction_date ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []contracts.Transaction
	for rows.Next() {
		var t contracts.Transaction
		if err := rows.Scan(&t.ID, &t.BusinessID, &t.Date, &t.Description, &t.Category, &t.Amount); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SaveBatch inserts transactions in one round trip
func (r *TransactionRepository) SaveBatch(ctx context.Context, txns []contracts.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	query := `
		INSERT INTO transactions (business_id, transaction_date, description, category, amount)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
	`

	batch := &pgx.Batch{}
	for _, t := range txns {
		batch.Queue(query, t.BusinessID, t.Date, t.Description, t.Category, t.Amount)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := range txns {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert transaction %d of %d: %w", i+1, len(txns), err)
		}
	}
	return nil
}
