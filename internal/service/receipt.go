package service

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/m007/school-ui-api/internal/domain/model"
	apperrors "github.com/m007/school-ui-api/internal/errors"
	"github.com/m007/school-ui-api/internal/ports"
)

//go:embed templates/receipt.html
var receiptTemplateFS embed.FS

var receiptTemplate = template.Must(template.ParseFS(receiptTemplateFS, "templates/receipt.html"))

// ReceiptServiceOptions groups dependencies for ReceiptService.
type ReceiptServiceOptions struct {
	Repo     ports.ReceiptRepository // Required: receipt repository
	Payments ports.PaymentRepository // Required: payment repository
	Students ports.StudentRepository // Required: student repository
	Logger   *slog.Logger            // Optional: structured logger
	// Now overrides the clock; defaults to time.Now.
	Now func() time.Time
}

// ReceiptService issues proof-of-payment documents for settled installments.
type ReceiptService struct {
	repo     ports.ReceiptRepository
	payments ports.PaymentRepository
	students ports.StudentRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewReceiptService constructs a new ReceiptService.
func NewReceiptService(opts ReceiptServiceOptions) (*ReceiptService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ReceiptRepository is required")
	}
	if opts.Payments == nil {
		return nil, errors.New("PaymentRepository is required")
	}
	if opts.Students == nil {
		return nil, errors.New("StudentRepository is required")
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "receipt_service")
	}

	return &ReceiptService{
		repo:     opts.Repo,
		payments: opts.Payments,
		students: opts.Students,
		logger:   logger,
		now:      now,
	}, nil
}

// Issue creates a receipt for a paid installment. The installment must be
// settled and not already receipted; the receipt number advances a per-year
// counter ("RCB-2026-000031").
func (s *ReceiptService) Issue(ctx context.Context, req *model.IssueReceiptRequest) (*model.Receipt, error) {
	if req == nil {
		return nil, errors.New("issue receipt request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	payment, err := s.payments.GetByID(ctx, req.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("look up payment: %w", err)
	}
	if payment.Status != model.PaymentStatusPaid {
		return nil, apperrors.Validationf("payment %s is %s, only paid installments can be receipted", payment.ID, payment.Status)
	}

	if existing, getErr := s.repo.GetByPaymentID(ctx, payment.ID); getErr == nil {
		return nil, apperrors.Conflictf("payment %s already has receipt %s", payment.ID, existing.Number)
	} else if !apperrors.IsNotFound(getErr) {
		return nil, fmt.Errorf("check existing receipt: %w", getErr)
	}

	student, err := s.students.GetByID(ctx, payment.StudentID)
	if err != nil {
		return nil, fmt.Errorf("look up student: %w", err)
	}

	issuedAt := s.now().UTC()
	seq, err := s.repo.NextSequence(ctx, issuedAt.Year())
	if err != nil {
		return nil, fmt.Errorf("advance receipt sequence: %w", err)
	}

	rcpt, err := s.repo.Create(ctx, &model.Receipt{
		Number:      fmt.Sprintf("RCB-%d-%06d", issuedAt.Year(), seq),
		PaymentID:   payment.ID,
		StudentName: student.Name,
		Description: payment.Description,
		AmountCents: payment.AmountCents,
		IssuedBy:    req.IssuedBy,
		IssuedAt:    issuedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("create receipt: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "receipt issued", "number", rcpt.Number, "payment_id", rcpt.PaymentID)
	}
	return rcpt, nil
}

// GetByID retrieves a receipt by ID.
func (s *ReceiptService) GetByID(ctx context.Context, id string) (*model.Receipt, error) {
	rcpt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get receipt by id: %w", err)
	}
	return rcpt, nil
}

// receiptView is the template payload for RenderHTML.
type receiptView struct {
	Number      string
	StudentName string
	Description string
	Amount      string
	IssuedBy    string
	IssuedAt    time.Time
}

// RenderHTML renders the printable receipt document.
func (s *ReceiptService) RenderHTML(rcpt *model.Receipt) ([]byte, error) {
	if rcpt == nil {
		return nil, errors.New("receipt is required")
	}

	var buf bytes.Buffer
	err := receiptTemplate.Execute(&buf, receiptView{
		Number:      rcpt.Number,
		StudentName: rcpt.StudentName,
		Description: rcpt.Description,
		Amount:      formatCents(rcpt.AmountCents),
		IssuedBy:    rcpt.IssuedBy,
		IssuedAt:    rcpt.IssuedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("render receipt %s: %w", rcpt.Number, err)
	}
	return buf.Bytes(), nil
}

// formatCents renders a money value with two decimal places.
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
