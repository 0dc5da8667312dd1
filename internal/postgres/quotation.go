package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tilbury/quoteworks/internal/domain"
)

// QuotationService implements domain.QuotationService using PostgreSQL.
type QuotationService struct {
	pool *pgxpool.Pool
}

var _ domain.QuotationService = (*QuotationService)(nil)

// NewQuotationService creates a new PostgreSQL-backed quotation service.
func NewQuotationService(pool *pgxpool.Pool) *QuotationService {
	return &QuotationService{pool: pool}
}

// CreateQuotation stores a finalized quotation with its lines.
func (s *QuotationService) CreateQuotation(ctx context.Context, q *domain.Quotation) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Internal(err, "quotation.create", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO quotations (id, number, domain, status, customer_name, customer_email,
			customer_phone, customer_address, pricing, subtotal, total_gst, discount, grand_total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		q.ID, q.Number, q.Domain, q.Status,
		q.Customer.Name, q.Customer.Email, q.Customer.Phone, q.Customer.Address,
		q.PricingJSON, q.Subtotal, q.TotalGST, q.Discount, q.GrandTotal, q.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateNumber
		}
		return domain.Internal(err, "quotation.create", "failed to insert quotation")
	}

	for i, line := range q.Lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO quotation_lines (quotation_id, position, description, quantity, unit, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			q.ID, i, line.Description, line.Quantity, line.Unit, line.UnitPrice, line.LineTotal); err != nil {
			return domain.Internal(err, "quotation.create", "failed to insert quotation line")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Internal(err, "quotation.create", "failed to commit")
	}
	return nil
}

// GetQuotation retrieves a quotation with its lines.
func (s *QuotationService) GetQuotation(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	var q domain.Quotation
	err := s.pool.QueryRow(ctx, `
		SELECT id, number, domain, status, customer_name, customer_email,
			customer_phone, customer_address, pricing, subtotal, total_gst, discount, grand_total, created_at
		FROM quotations
		WHERE id = $1`, id).
		Scan(&q.ID, &q.Number, &q.Domain, &q.Status,
			&q.Customer.Name, &q.Customer.Email, &q.Customer.Phone, &q.Customer.Address,
			&q.PricingJSON, &q.Subtotal, &q.TotalGST, &q.Discount, &q.GrandTotal, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrQuotationNotFound
		}
		return nil, domain.Internal(err, "quotation.get", "failed to get quotation")
	}

	rows, err := s.pool.Query(ctx, `
		SELECT description, quantity, unit, unit_price, line_total
		FROM quotation_lines
		WHERE quotation_id = $1
		ORDER BY position`, id)
	if err != nil {
		return nil, domain.Internal(err, "quotation.get", "failed to load quotation lines")
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.QuotationLine
		if err := rows.Scan(&line.Description, &line.Quantity, &line.Unit, &line.UnitPrice, &line.LineTotal); err != nil {
			return nil, domain.Internal(err, "quotation.get", "failed to scan quotation line")
		}
		q.Lines = append(q.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "quotation.get", "failed to read quotation lines")
	}

	return &q, nil
}

// ListQuotations returns quotations newest first, without lines.
func (s *QuotationService) ListQuotations(ctx context.Context, limit, offset int) ([]domain.Quotation, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, number, domain, status, customer_name, customer_email,
			customer_phone, customer_address, pricing, subtotal, total_gst, discount, grand_total, created_at
		FROM quotations
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, domain.Internal(err, "quotation.list", "failed to list quotations")
	}
	defer rows.Close()

	var quotations []domain.Quotation
	for rows.Next() {
		var q domain.Quotation
		if err := rows.Scan(&q.ID, &q.Number, &q.Domain, &q.Status,
			&q.Customer.Name, &q.Customer.Email, &q.Customer.Phone, &q.Customer.Address,
			&q.PricingJSON, &q.Subtotal, &q.TotalGST, &q.Discount, &q.GrandTotal, &q.CreatedAt); err != nil {
			return nil, domain.Internal(err, "quotation.list", "failed to scan quotation")
		}
		quotations = append(quotations, q)
	}
	return quotations, rows.Err()
}

// NextQuotationNumber reserves the next sequential number for the month using
// an upserted counter row. Safe under concurrent finalizations.
func (s *QuotationService) NextQuotationNumber(ctx context.Context, yearMonth string) (int, error) {
	var next int
	err := s.pool.QueryRow(ctx, `
		INSERT INTO quotation_counters (year_month, last_value)
		VALUES ($1, 1)
		ON CONFLICT (year_month) DO UPDATE SET last_value = quotation_counters.last_value + 1
		RETURNING last_value`, yearMonth).
		Scan(&next)
	if err != nil {
		return 0, domain.Internal(err, "quotation.next_number", "failed to advance quotation counter")
	}
	return next, nil
}
