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

// ClassServiceOptions groups dependencies for ClassService.
type ClassServiceOptions struct {
	Repo     ports.ClassRepository   // Required: class repository
	Teachers ports.TeacherRepository // Required: teacher repository
	Logger   *slog.Logger            // Optional: structured logger
}

// ClassService provides business logic for class groups and assignments.
type ClassService struct {
	repo     ports.ClassRepository
	teachers ports.TeacherRepository
	logger   *slog.Logger
}

// NewClassService constructs a new ClassService.
func NewClassService(opts ClassServiceOptions) (*ClassService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ClassRepository is required")
	}
	if opts.Teachers == nil {
		return nil, errors.New("TeacherRepository is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "class_service")
	}

	return &ClassService{repo: opts.Repo, teachers: opts.Teachers, logger: logger}, nil
}

// Create opens a class group after confirming the teacher exists, so the
// caller gets a not-found error instead of a bare FK violation.
func (s *ClassService) Create(ctx context.Context, req *model.CreateClassRequest) (*model.SchoolClass, error) {
	if req == nil {
		return nil, errors.New("create class request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	if _, err := s.teachers.GetByID(ctx, req.TeacherID); err != nil {
		return nil, fmt.Errorf("look up teacher %d: %w", req.TeacherID, err)
	}

	class, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create class: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "class opened", "id", class.ID, "name", class.Name)
	}
	return class, nil
}

// GetByID retrieves a class by ID.
func (s *ClassService) GetByID(ctx context.Context, id int) (*model.SchoolClass, error) {
	class, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get class by id: %w", err)
	}
	return class, nil
}

// List retrieves classes with pagination.
func (s *ClassService) List(ctx context.Context, limit, offset int) ([]*model.SchoolClass, error) {
	classes, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// Delete removes a class and its assignments.
func (s *ClassService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}

// AddAssignment assigns work to a class.
func (s *ClassService) AddAssignment(ctx context.Context, req *model.CreateAssignmentRequest) (*model.Assignment, error) {
	if req == nil {
		return nil, errors.New("create assignment request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	assignment, err := s.repo.AddAssignment(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("add assignment: %w", err)
	}
	return assignment, nil
}

// ListAssignments retrieves the assignments for a class.
func (s *ClassService) ListAssignments(ctx context.Context, classID int) ([]*model.Assignment, error) {
	assignments, err := s.repo.ListAssignments(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}
