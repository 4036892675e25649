//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// Receipt is the proof-of-payment document issued for a paid installment.
// Number is human-facing and unique (e.g. "RCB-2026-000031").
type Receipt struct {
	ID          string    `json:"id"           db:"id"`
	Number      string    `json:"number"       db:"number"`
	PaymentID   string    `json:"payment_id"   db:"payment_id"`
	StudentName string    `json:"student_name" db:"student_name"`
	Description string    `json:"description"  db:"description"`
	AmountCents int64     `json:"amount_cents" db:"amount_cents"`
	IssuedBy    string    `json:"issued_by"    db:"issued_by"`
	IssuedAt    time.Time `json:"issued_at"    db:"issued_at"`
}

// IssueReceiptRequest represents parameters to issue a receipt.
type IssueReceiptRequest struct {
	PaymentID string `json:"payment_id"`
	IssuedBy  string `json:"issued_by"`
}

// Validate checks required fields for issuing a receipt.
func (r *IssueReceiptRequest) Validate() error {
	if strings.TrimSpace(r.PaymentID) == "" {
		return errors.New("payment_id is required and cannot be empty")
	}
	if strings.TrimSpace(r.IssuedBy) == "" {
		return errors.New("issued_by is required and cannot be empty")
	}
	return nil
}

// StudentCode is a generated enrollment code reserved for a student.
type StudentCode struct {
	Code      string    `json:"code"       db:"code"`
	StudentID *int      `json:"student_id,omitempty" db:"student_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
