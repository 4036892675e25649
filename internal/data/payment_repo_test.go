package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m007/school-ui-api/internal/domain/model"
	apperrors "github.com/m007/school-ui-api/internal/errors"
	"github.com/m007/school-ui-api/internal/testutil"
)

func createTestPayment(t *testing.T, db *sql.DB, studentID int) *model.Payment {
	t.Helper()
	p, err := NewPaymentRepo(db).Create(context.Background(), &model.CreatePaymentRequest{
		StudentID:   studentID,
		Description: "Tuition February 2026",
		AmountCents: 125000,
		DueDate:     time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return p
}

func TestPaymentRepo_Create_Get(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		student := createTestStudent(t, db)

		p := createTestPayment(t, db, student.ID)
		require.NotEmpty(t, p.ID)
		assert.Equal(t, model.PaymentStatusPending, p.Status)
		assert.Nil(t, p.PaidAt)
		assert.EqualValues(t, 125000, p.AmountCents)

		got, err := NewPaymentRepo(db).GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Description, got.Description)
	})
}

func TestPaymentRepo_Create_Validation(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewPaymentRepo(db)

		_, err := repo.Create(context.Background(), &model.CreatePaymentRequest{
			StudentID:   1,
			Description: "No amount",
			DueDate:     time.Now(),
		})
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestPaymentRepo_Create_UnknownStudentIsForeignKey(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		_, err := NewPaymentRepo(db).Create(context.Background(), &model.CreatePaymentRequest{
			StudentID:   99999999,
			Description: "Orphan payment",
			AmountCents: 1000,
			DueDate:     time.Now().UTC(),
		})
		assert.True(t, apperrors.IsForeignKey(err))
	})
}

func TestPaymentRepo_List_Filters(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewPaymentRepo(db)
		s1 := createTestStudent(t, db)
		s2 := createTestStudent(t, db)

		p1 := createTestPayment(t, db, s1.ID)
		createTestPayment(t, db, s2.ID)

		_, err := repo.MarkPaid(ctx, p1.ID)
		require.NoError(t, err)

		byStudent, err := repo.List(ctx, model.PaymentsListOptions{StudentID: &s1.ID})
		require.NoError(t, err)
		require.Len(t, byStudent, 1)
		assert.Equal(t, p1.ID, byStudent[0].ID)

		paid := model.PaymentStatusPaid
		byStatus, err := repo.List(ctx, model.PaymentsListOptions{Status: &paid})
		require.NoError(t, err)
		require.Len(t, byStatus, 1)
		assert.Equal(t, p1.ID, byStatus[0].ID)

		all, err := repo.List(ctx, model.PaymentsListOptions{})
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestPaymentRepo_MarkPaid(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewPaymentRepo(db)
		student := createTestStudent(t, db)
		p := createTestPayment(t, db, student.ID)

		paid, err := repo.MarkPaid(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPaid, paid.Status)
		require.NotNil(t, paid.PaidAt)

		_, err = repo.MarkPaid(ctx, p.ID)
		assert.ErrorIs(t, err, ErrPaymentAlreadyPaid)
	})
}

func TestPaymentRepo_FixedClockStampsPaidAt(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		createdAt := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
		clock := NewFixedTimeProvider(createdAt)
		repo := NewPaymentRepoWithTimeProvider(db, clock)
		student := createTestStudent(t, db)

		p, err := repo.Create(ctx, &model.CreatePaymentRequest{
			StudentID:   student.ID,
			Description: "Tuition February 2026",
			AmountCents: 125000,
			DueDate:     time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.True(t, p.CreatedAt.Equal(createdAt))

		paidAt := time.Date(2026, 2, 8, 14, 30, 0, 0, time.UTC)
		clock.SetTime(paidAt)

		paid, err := repo.MarkPaid(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, paid.PaidAt)
		assert.True(t, paid.PaidAt.Equal(paidAt))
		assert.True(t, paid.UpdatedAt.Equal(paidAt))
	})
}

func TestPaymentRepo_MarkPaid_NotFound(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		_, err := NewPaymentRepo(db).MarkPaid(context.Background(), "00000000-0000-0000-0000-000000000000")
		assert.True(t, apperrors.IsNotFound(err))
	})
}
