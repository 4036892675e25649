//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxPersonNameLen = 255

// Student represents an enrolled student.
type Student struct {
	ID        int       `json:"id"         db:"id"`
	Code      string    `json:"code"       db:"code"`
	Name      string    `json:"name"       db:"name"`
	Email     string    `json:"email"      db:"email"`
	ClassID   int       `json:"class_id"   db:"class_id"`
	Guardian  string    `json:"guardian"   db:"guardian"`
	Active    bool      `json:"active"     db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateStudentRequest represents parameters to enroll a Student.
type CreateStudentRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	ClassID  int    `json:"class_id"`
	Guardian string `json:"guardian,omitempty"`
}

// Validate checks required fields for enrollment.
func (r *CreateStudentRequest) Validate() error {
	if err := validatePersonName(r.Name); err != nil {
		return err
	}
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required and cannot be empty")
	}
	if !strings.Contains(r.Email, "@") {
		return errors.New("email must be a valid address")
	}
	if r.ClassID <= 0 {
		return errors.New("class_id must be a positive integer")
	}
	return nil
}

// Teacher represents a member of the teaching staff.
type Teacher struct {
	ID        int       `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	Email     string    `json:"email"      db:"email"`
	Subject   string    `json:"subject"    db:"subject"`
	Active    bool      `json:"active"     db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateTeacherRequest represents parameters to register a Teacher.
type CreateTeacherRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
}

// Validate checks required fields for staff registration.
func (r *CreateTeacherRequest) Validate() error {
	if err := validatePersonName(r.Name); err != nil {
		return err
	}
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required and cannot be empty")
	}
	return nil
}

func validatePersonName(name string) error {
	n := strings.TrimSpace(name)
	if n == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(n) > maxPersonNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	return nil
}
