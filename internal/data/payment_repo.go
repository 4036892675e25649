package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/m007/school-ui-api/internal/data/database"
	"github.com/m007/school-ui-api/internal/data/pgxutil"
	"github.com/m007/school-ui-api/internal/domain/model"
	apperrors "github.com/m007/school-ui-api/internal/errors"
)

// ErrPaymentAlreadyPaid is returned when marking an installment that has
// already been settled.
var ErrPaymentAlreadyPaid = errors.New("payment already paid")

// Sort directions accepted by the query builder.
const (
	sortDirAsc  = "ASC"
	sortDirDesc = "DESC"
)

// PaymentRepo provides database operations for tuition installments.
type PaymentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewPaymentRepo creates a new PaymentRepo with real time provider.
func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewPaymentRepoWithTimeProvider creates a new PaymentRepo with a custom time
// provider (useful for tests).
func NewPaymentRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *PaymentRepo {
	return &PaymentRepo{DB: db, timeProvider: tp}
}

const paymentColumnsSQL = `id, student_id, description, amount_cents, due_date, status, paid_at, created_at, updated_at`

// Create inserts a new pending installment.
func (r *PaymentRepo) Create(ctx context.Context, req *model.CreatePaymentRequest) (*model.Payment, error) {
	if req == nil {
		return nil, errors.New("create payment request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now().UTC()
	var out model.Payment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO payments (student_id, description, amount_cents, due_date, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
			RETURNING `+paymentColumnsSQL,
			req.StudentID,
			req.Description,
			req.AmountCents,
			req.DueDate.UTC(),
			model.PaymentStatusPending,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Payment])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	var out model.Payment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+paymentColumnsSQL+` FROM payments WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Payment])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List retrieves payments with optional student and status filters, newest
// due date first.
func (r *PaymentRepo) List(ctx context.Context, opts model.PaymentsListOptions) ([]*model.Payment, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(paymentColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
		database.WithOrderBy("due_date", sortDirDesc),
	}
	if opts.StudentID != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("student_id", database.Equal, *opts.StudentID),
		))
	}
	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("status", database.Equal, string(*opts.Status)),
		))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("payments", queryOpts...))

	var rowsOut []model.Payment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Payment])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	res := make([]*model.Payment, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// MarkPaid transitions a pending or overdue installment to paid, stamping
// paid_at. Marking a settled installment fails with ErrPaymentAlreadyPaid.
func (r *PaymentRepo) MarkPaid(ctx context.Context, id string) (*model.Payment, error) {
	now := r.timeProvider.Now().UTC()
	var out model.Payment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE payments
			SET status = $2, paid_at = $3, updated_at = $3
			WHERE id = $1 AND status <> $2
			RETURNING `+paymentColumnsSQL,
			id, model.PaymentStatusPaid, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Payment])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either missing or already paid; distinguish for the caller.
			if _, getErr := r.GetByID(ctx, id); getErr == nil {
				return nil, ErrPaymentAlreadyPaid
			}
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

func paymentColumns() []string {
	return []string{
		"id",
		"student_id",
		"description",
		"amount_cents",
		"due_date",
		"status",
		"paid_at",
		"created_at",
		"updated_at",
	}
}
