package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/m007/school-ui-api/internal/data/pgxutil"
	"github.com/m007/school-ui-api/internal/domain/model"
	apperrors "github.com/m007/school-ui-api/internal/errors"
)

// ReceiptRepo provides database operations for issued receipts.
type ReceiptRepo struct {
	DB *sql.DB
}

// NewReceiptRepo creates a new ReceiptRepo.
func NewReceiptRepo(db *sql.DB) *ReceiptRepo {
	return &ReceiptRepo{DB: db}
}

const receiptColumnsSQL = `id, number, payment_id, student_name, description, amount_cents, issued_by, issued_at`

// Create inserts an issued receipt. The payment_id unique constraint makes
// double-issuing a conflict.
func (r *ReceiptRepo) Create(ctx context.Context, rcpt *model.Receipt) (*model.Receipt, error) {
	if rcpt == nil {
		return nil, errors.New("receipt is required")
	}

	var out model.Receipt
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO receipts (number, payment_id, student_name, description, amount_cents, issued_by, issued_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+receiptColumnsSQL,
			rcpt.Number,
			rcpt.PaymentID,
			rcpt.StudentName,
			rcpt.Description,
			rcpt.AmountCents,
			rcpt.IssuedBy,
			rcpt.IssuedAt.UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Receipt])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a receipt by ID.
func (r *ReceiptRepo) GetByID(ctx context.Context, id string) (*model.Receipt, error) {
	return r.getByQuery(ctx, `SELECT `+receiptColumnsSQL+` FROM receipts WHERE id = $1`, id)
}

// GetByPaymentID retrieves the receipt issued for a payment.
func (r *ReceiptRepo) GetByPaymentID(ctx context.Context, paymentID string) (*model.Receipt, error) {
	return r.getByQuery(ctx, `SELECT `+receiptColumnsSQL+` FROM receipts WHERE payment_id = $1`, paymentID)
}

// NextSequence atomically advances and returns the per-year receipt counter.
func (r *ReceiptRepo) NextSequence(ctx context.Context, year int) (int, error) {
	var next int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			INSERT INTO receipt_sequences (year, value) VALUES ($1, 1)
			ON CONFLICT (year) DO UPDATE SET value = receipt_sequences.value + 1
			RETURNING value`, year).Scan(&next)
	})
	if err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return next, nil
}

func (r *ReceiptRepo) getByQuery(ctx context.Context, q string, args ...any) (*model.Receipt, error) {
	var out model.Receipt
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Receipt])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}
