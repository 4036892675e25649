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

// TeacherServiceOptions groups dependencies for TeacherService.
type TeacherServiceOptions struct {
	Repo   ports.TeacherRepository // Required: teacher repository
	Logger *slog.Logger            // Optional: structured logger
}

// TeacherService provides business logic for teaching staff records.
type TeacherService struct {
	repo   ports.TeacherRepository
	logger *slog.Logger
}

// NewTeacherService constructs a new TeacherService.
func NewTeacherService(opts TeacherServiceOptions) (*TeacherService, error) {
	if opts.Repo == nil {
		return nil, errors.New("TeacherRepository is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "teacher_service")
	}

	return &TeacherService{repo: opts.Repo, logger: logger}, nil
}

// Create registers a new teacher.
func (s *TeacherService) Create(ctx context.Context, req *model.CreateTeacherRequest) (*model.Teacher, error) {
	if req == nil {
		return nil, errors.New("create teacher request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	teacher, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create teacher: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "teacher registered", "id", teacher.ID, "name", teacher.Name)
	}
	return teacher, nil
}

// GetByID retrieves a teacher by ID.
func (s *TeacherService) GetByID(ctx context.Context, id int) (*model.Teacher, error) {
	teacher, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get teacher by id: %w", err)
	}
	return teacher, nil
}

// List retrieves teachers with pagination.
func (s *TeacherService) List(ctx context.Context, limit, offset int) ([]*model.Teacher, error) {
	teachers, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// Delete removes a teacher. Classes still assigned to the teacher block the
// delete with a conflict from the data layer.
func (s *TeacherService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	return nil
}
