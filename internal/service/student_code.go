package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/m007/school-ui-api/internal/errors"
	"github.com/m007/school-ui-api/internal/ports"
)

// codePrefix brands every generated enrollment code.
const codePrefix = "M007-"

// codeAttempts bounds generation retries when a code collides.
const codeAttempts = 5

// StudentCodeServiceOptions groups dependencies for StudentCodeService.
type StudentCodeServiceOptions struct {
	Repo   ports.StudentCodeRepository // Required: code reservation repository
	Logger *slog.Logger                // Optional: structured logger
}

// StudentCodeService generates and reserves unique enrollment codes of the
// form "M007-XXXXXX".
type StudentCodeService struct {
	repo   ports.StudentCodeRepository
	logger *slog.Logger
}

// NewStudentCodeService constructs a new StudentCodeService.
func NewStudentCodeService(opts StudentCodeServiceOptions) (*StudentCodeService, error) {
	if opts.Repo == nil {
		return nil, errors.New("StudentCodeRepository is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "student_code_service")
	}

	return &StudentCodeService{repo: opts.Repo, logger: logger}, nil
}

// Generate reserves a fresh code, retrying on the rare collision.
func (s *StudentCodeService) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code := newCode()
		if _, err := s.repo.Reserve(ctx, code); err != nil {
			if apperrors.IsConflict(err) {
				if s.logger != nil {
					s.logger.DebugContext(ctx, "enrollment code collision, retrying", "attempt", attempt+1)
				}
				continue
			}
			return "", fmt.Errorf("reserve enrollment code: %w", err)
		}
		return code, nil
	}
	return "", fmt.Errorf("generate enrollment code: %d collisions in a row", codeAttempts)
}

// Claim binds a reserved code to the enrolled student.
func (s *StudentCodeService) Claim(ctx context.Context, code string, studentID int) error {
	if err := s.repo.Claim(ctx, code, studentID); err != nil {
		return fmt.Errorf("claim enrollment code: %w", err)
	}
	return nil
}

// newCode derives a 6-hex-char suffix from fresh UUID entropy.
func newCode() string {
	u := uuid.NewString()
	return codePrefix + strings.ToUpper(strings.ReplaceAll(u, "-", "")[:6])
}
