package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m007/school-ui-api/internal/domain/model"
	apperrors "github.com/m007/school-ui-api/internal/errors"
	"github.com/m007/school-ui-api/internal/ports"
)

// PaymentServiceOptions groups dependencies for PaymentService.
type PaymentServiceOptions struct {
	Repo     ports.PaymentRepository // Required: payment repository
	Students ports.StudentRepository // Required: student repository
	Logger   *slog.Logger            // Optional: structured logger
}

// PaymentService provides business logic for tuition installments.
type PaymentService struct {
	repo     ports.PaymentRepository
	students ports.StudentRepository
	logger   *slog.Logger
}

// NewPaymentService constructs a new PaymentService.
func NewPaymentService(opts PaymentServiceOptions) (*PaymentService, error) {
	if opts.Repo == nil {
		return nil, errors.New("PaymentRepository is required")
	}
	if opts.Students == nil {
		return nil, errors.New("StudentRepository is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "payment_service")
	}

	return &PaymentService{repo: opts.Repo, students: opts.Students, logger: logger}, nil
}

// Create records a tuition installment for an enrolled student.
func (s *PaymentService) Create(ctx context.Context, req *model.CreatePaymentRequest) (*model.Payment, error) {
	if req == nil {
		return nil, errors.New("create payment request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	if _, err := s.students.GetByID(ctx, req.StudentID); err != nil {
		return nil, fmt.Errorf("look up student %d: %w", req.StudentID, err)
	}

	payment, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "payment recorded", "id", payment.ID, "student_id", payment.StudentID)
	}
	return payment, nil
}

// GetByID retrieves a payment by ID.
func (s *PaymentService) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get payment by id: %w", err)
	}
	return payment, nil
}

// List retrieves payments with paging and filters.
func (s *PaymentService) List(ctx context.Context, opts model.PaymentsListOptions) ([]*model.Payment, error) {
	payments, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// MarkPaid settles an installment.
func (s *PaymentService) MarkPaid(ctx context.Context, id string) (*model.Payment, error) {
	payment, err := s.repo.MarkPaid(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("mark payment paid: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "payment settled", "id", payment.ID)
	}
	return payment, nil
}
