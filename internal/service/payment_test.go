package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/m007/school-ui-api/internal/domain/model"
	apperrors "github.com/m007/school-ui-api/internal/errors"
	"github.com/m007/school-ui-api/internal/mocks"
)

func newPaymentServiceForTest(t *testing.T, ctrl *gomock.Controller) (*PaymentService, *mocks.MockPaymentRepository, *mocks.MockStudentRepository) {
	t.Helper()

	payments := mocks.NewMockPaymentRepository(ctrl)
	students := mocks.NewMockStudentRepository(ctrl)

	svc, err := NewPaymentService(PaymentServiceOptions{Repo: payments, Students: students})
	require.NoError(t, err)

	return svc, payments, students
}

func TestPaymentService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, payments, students := newPaymentServiceForTest(t, ctrl)

	req := &model.CreatePaymentRequest{
		StudentID:   12,
		Description: "Tuition March",
		AmountCents: 125000,
		DueDate:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	students.EXPECT().GetByID(gomock.Any(), 12).Return(&model.Student{ID: 12}, nil)
	payments.EXPECT().Create(gomock.Any(), req).Return(&model.Payment{
		ID:          "p-1",
		StudentID:   12,
		Description: req.Description,
		AmountCents: req.AmountCents,
		Status:      model.PaymentStatusPending,
	}, nil)

	payment, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
}

func TestPaymentService_Create_UnknownStudent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, students := newPaymentServiceForTest(t, ctrl)

	students.EXPECT().GetByID(gomock.Any(), 99).Return(nil, apperrors.NotFound("student not found"))

	_, err := svc.Create(context.Background(), &model.CreatePaymentRequest{
		StudentID:   99,
		Description: "Tuition March",
		AmountCents: 125000,
		DueDate:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPaymentService_Create_InvalidRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _ := newPaymentServiceForTest(t, ctrl)

	_, err := svc.Create(context.Background(), &model.CreatePaymentRequest{StudentID: 1})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), nil)
	assert.Error(t, err)
}

func TestPaymentService_MarkPaid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, payments, _ := newPaymentServiceForTest(t, ctrl)

	paidAt := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)
	payments.EXPECT().MarkPaid(gomock.Any(), "p-1").Return(&model.Payment{
		ID:     "p-1",
		Status: model.PaymentStatusPaid,
		PaidAt: &paidAt,
	}, nil)

	payment, err := svc.MarkPaid(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, payment.Status)
	require.NotNil(t, payment.PaidAt)
}

func TestPaymentService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, payments, _ := newPaymentServiceForTest(t, ctrl)

	opts := model.PaymentsListOptions{Limit: 20}
	payments.EXPECT().List(gomock.Any(), opts).Return([]*model.Payment{{ID: "p-1"}, {ID: "p-2"}}, nil)

	list, err := svc.List(context.Background(), opts)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
