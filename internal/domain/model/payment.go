//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// PaymentStatus tracks the lifecycle of a tuition payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// Valid reports whether the payment status is supported.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusOverdue:
		return true
	default:
		return false
	}
}

// Payment represents one tuition installment owed by a student.
// AmountCents avoids floating point drift on money values.
type Payment struct {
	ID          string        `json:"id"                 db:"id"`
	StudentID   int           `json:"student_id"         db:"student_id"`
	Description string        `json:"description"        db:"description"`
	AmountCents int64         `json:"amount_cents"       db:"amount_cents"`
	DueDate     time.Time     `json:"due_date"           db:"due_date"`
	Status      PaymentStatus `json:"status"             db:"status"`
	PaidAt      *time.Time    `json:"paid_at,omitempty"  db:"paid_at"`
	CreatedAt   time.Time     `json:"created_at"         db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"         db:"updated_at"`
}

// CreatePaymentRequest represents parameters to record a tuition installment.
type CreatePaymentRequest struct {
	StudentID   int       `json:"student_id"`
	Description string    `json:"description"`
	AmountCents int64     `json:"amount_cents"`
	DueDate     time.Time `json:"due_date"`
}

// Validate checks required fields for recording a payment.
func (r *CreatePaymentRequest) Validate() error {
	if r.StudentID <= 0 {
		return errors.New("student_id must be a positive integer")
	}
	if strings.TrimSpace(r.Description) == "" {
		return errors.New("description is required and cannot be empty")
	}
	if r.AmountCents <= 0 {
		return errors.New("amount_cents must be a positive integer")
	}
	if r.DueDate.IsZero() {
		return errors.New("due_date is required")
	}
	return nil
}

// PaymentsListOptions controls paging and filtering for listing payments.
// Status matches exactly; StudentID restricts to one student.
type PaymentsListOptions struct {
	Limit     int
	Offset    int
	StudentID *int
	Status    *PaymentStatus
}
