package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m007/school-ui-api/internal/domain/model"
	apperrors "github.com/m007/school-ui-api/internal/errors"
	"github.com/m007/school-ui-api/internal/testutil"
)

func TestReceiptRepo_NextSequence(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewReceiptRepo(db)

		n1, err := repo.NextSequence(ctx, 2026)
		require.NoError(t, err)
		n2, err := repo.NextSequence(ctx, 2026)
		require.NoError(t, err)
		assert.Equal(t, n1+1, n2)

		// Counters are independent per year.
		other, err := repo.NextSequence(ctx, 2027)
		require.NoError(t, err)
		assert.Equal(t, 1, other)
	})
}

func TestReceiptRepo_Create_Get(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewReceiptRepo(db)
		student := createTestStudent(t, db)
		payment := createTestPayment(t, db, student.ID)

		rcpt, err := repo.Create(ctx, &model.Receipt{
			Number:      fmt.Sprintf("RCB-2026-%06d", time.Now().UnixNano()%1000000),
			PaymentID:   payment.ID,
			StudentName: student.Name,
			Description: payment.Description,
			AmountCents: payment.AmountCents,
			IssuedBy:    "admin@m007.com",
			IssuedAt:    time.Now().UTC(),
		})
		require.NoError(t, err)
		require.NotEmpty(t, rcpt.ID)

		got, err := repo.GetByID(ctx, rcpt.ID)
		require.NoError(t, err)
		assert.Equal(t, rcpt.Number, got.Number)

		byPayment, err := repo.GetByPaymentID(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, rcpt.ID, byPayment.ID)
	})
}

func TestReceiptRepo_DoubleIssueConflicts(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewReceiptRepo(db)
		student := createTestStudent(t, db)
		payment := createTestPayment(t, db, student.ID)

		first := &model.Receipt{
			Number:      "RCB-2026-000001",
			PaymentID:   payment.ID,
			StudentName: student.Name,
			Description: payment.Description,
			AmountCents: payment.AmountCents,
			IssuedBy:    "admin@m007.com",
			IssuedAt:    time.Now().UTC(),
		}
		_, err := repo.Create(ctx, first)
		require.NoError(t, err)

		second := *first
		second.Number = "RCB-2026-000002"
		_, err = repo.Create(ctx, &second)
		assert.True(t, apperrors.IsConflict(err))
	})
}

func TestReceiptRepo_GetByPaymentID_NotFound(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		_, err := NewReceiptRepo(db).GetByPaymentID(context.Background(), "00000000-0000-0000-0000-000000000000")
		assert.True(t, apperrors.IsNotFound(err))
	})
}
