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

// StudentServiceOptions groups dependencies for StudentService.
type StudentServiceOptions struct {
	Repo   ports.StudentRepository // Required: student repository
	Codes  *StudentCodeService     // Required: enrollment code generator
	Logger *slog.Logger            // Optional: structured logger
}

// StudentService provides business logic for student enrollment.
type StudentService struct {
	repo   ports.StudentRepository
	codes  *StudentCodeService
	logger *slog.Logger
}

// NewStudentService constructs a new StudentService.
func NewStudentService(opts StudentServiceOptions) (*StudentService, error) {
	if opts.Repo == nil {
		return nil, errors.New("StudentRepository is required")
	}
	if opts.Codes == nil {
		return nil, errors.New("StudentCodeService is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "student_service")
	}

	return &StudentService{repo: opts.Repo, codes: opts.Codes, logger: logger}, nil
}

// Enroll reserves an enrollment code, creates the student under it, and
// claims the code for the new record.
func (s *StudentService) Enroll(ctx context.Context, req *model.CreateStudentRequest) (*model.Student, error) {
	if req == nil {
		return nil, errors.New("create student request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	code, err := s.codes.Generate(ctx)
	if err != nil {
		return nil, err
	}

	student, err := s.repo.Create(ctx, req, code)
	if err != nil {
		return nil, fmt.Errorf("enroll student: %w", err)
	}

	if claimErr := s.codes.Claim(ctx, code, student.ID); claimErr != nil && s.logger != nil {
		// The student exists either way; an unclaimed code is only noise.
		s.logger.WarnContext(ctx, "failed to claim enrollment code", "code", code, "err", claimErr)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "student enrolled", "id", student.ID, "code", student.Code)
	}
	return student, nil
}

// GetByID retrieves a student by ID.
func (s *StudentService) GetByID(ctx context.Context, id int) (*model.Student, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get student by id: %w", err)
	}
	return student, nil
}

// GetByEmail retrieves a student by email address. Used to resolve the
// student record behind an authenticated account.
func (s *StudentService) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	student, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get student by email: %w", err)
	}
	return student, nil
}

// List retrieves students with pagination.
func (s *StudentService) List(ctx context.Context, limit, offset int) ([]*model.Student, error) {
	students, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "student removed", "id", id)
	}
	return nil
}
