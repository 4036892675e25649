//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// ClassPeriod is the daily period a class meets in.
type ClassPeriod string

const (
	ClassPeriodMorning   ClassPeriod = "morning"
	ClassPeriodAfternoon ClassPeriod = "afternoon"
	ClassPeriodEvening   ClassPeriod = "evening"
)

// Valid reports whether the class period is supported.
func (p ClassPeriod) Valid() bool {
	switch p {
	case ClassPeriodMorning, ClassPeriodAfternoon, ClassPeriodEvening:
		return true
	default:
		return false
	}
}

// ParseClassPeriod normalizes a period string and reports whether it is supported.
func ParseClassPeriod(value string) (ClassPeriod, bool) {
	period := ClassPeriod(strings.ToLower(strings.TrimSpace(value)))
	if period.Valid() {
		return period, true
	}
	return "", false
}

// SchoolClass represents a class group (turma) taught by one teacher.
type SchoolClass struct {
	ID        int         `json:"id"         db:"id"`
	Name      string      `json:"name"       db:"name"`
	TeacherID int         `json:"teacher_id" db:"teacher_id"`
	Period    ClassPeriod `json:"period"     db:"period"`
	Year      int         `json:"year"       db:"year"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// CreateClassRequest represents parameters to open a class group.
type CreateClassRequest struct {
	Name      string `json:"name"`
	TeacherID int    `json:"teacher_id"`
	Period    string `json:"period"`
	Year      int    `json:"year"`
}

// Validate checks required fields for opening a class.
func (r *CreateClassRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required and cannot be empty")
	}
	if r.TeacherID <= 0 {
		return errors.New("teacher_id must be a positive integer")
	}
	if _, ok := ParseClassPeriod(r.Period); !ok {
		return errors.New("period must be one of: morning, afternoon, evening")
	}
	return nil
}

// Assignment represents homework or an exam assigned to a class.
type Assignment struct {
	ID        int       `json:"id"         db:"id"`
	ClassID   int       `json:"class_id"   db:"class_id"`
	Title     string    `json:"title"      db:"title"`
	Details   string    `json:"details"    db:"details"`
	DueDate   time.Time `json:"due_date"   db:"due_date"`
	MaxGrade  float64   `json:"max_grade"  db:"max_grade"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateAssignmentRequest represents parameters to assign work to a class.
type CreateAssignmentRequest struct {
	ClassID  int       `json:"class_id"`
	Title    string    `json:"title"`
	Details  string    `json:"details,omitempty"`
	DueDate  time.Time `json:"due_date"`
	MaxGrade float64   `json:"max_grade,omitempty"`
}

// Validate checks required fields for creating an assignment.
func (r *CreateAssignmentRequest) Validate() error {
	if r.ClassID <= 0 {
		return errors.New("class_id must be a positive integer")
	}
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required and cannot be empty")
	}
	if r.DueDate.IsZero() {
		return errors.New("due_date is required")
	}
	if r.MaxGrade < 0 {
		return errors.New("max_grade cannot be negative")
	}
	return nil
}
