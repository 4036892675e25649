package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/m007/school-ui-api/internal/domain/model"
	apperrors "github.com/m007/school-ui-api/internal/errors"
	"github.com/m007/school-ui-api/internal/mocks"
)

func TestStudentCodeService_Generate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockStudentCodeRepository(ctrl)
	svc, err := NewStudentCodeService(StudentCodeServiceOptions{Repo: repo})
	require.NoError(t, err)

	var reserved string
	repo.EXPECT().Reserve(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, code string) (*model.StudentCode, error) {
			reserved = code
			return &model.StudentCode{Code: code}, nil
		})

	code, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, reserved, code)
	assert.True(t, strings.HasPrefix(code, "M007-"))
	assert.Len(t, code, len("M007-")+6)
	assert.Equal(t, strings.ToUpper(code), code)
}

func TestStudentCodeService_Generate_RetriesOnCollision(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockStudentCodeRepository(ctrl)
	svc, err := NewStudentCodeService(StudentCodeServiceOptions{Repo: repo})
	require.NoError(t, err)

	gomock.InOrder(
		repo.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(nil, apperrors.Conflict("code taken")),
		repo.EXPECT().Reserve(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, code string) (*model.StudentCode, error) {
				return &model.StudentCode{Code: code}, nil
			}),
	)

	code, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, code)
}

func TestStudentCodeService_Generate_GivesUpAfterRepeatedCollisions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockStudentCodeRepository(ctrl)
	svc, err := NewStudentCodeService(StudentCodeServiceOptions{Repo: repo})
	require.NoError(t, err)

	repo.EXPECT().Reserve(gomock.Any(), gomock.Any()).
		Return(nil, apperrors.Conflict("code taken")).Times(codeAttempts)

	_, err = svc.Generate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collisions")
}

func TestStudentCodeService_Generate_NonConflictErrorStops(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockStudentCodeRepository(ctrl)
	svc, err := NewStudentCodeService(StudentCodeServiceOptions{Repo: repo})
	require.NoError(t, err)

	repo.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(nil, apperrors.Internal("db down"))

	_, err = svc.Generate(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsInternal(err))
}

func TestNewStudentCodeService_RequiresRepo(t *testing.T) {
	_, err := NewStudentCodeService(StudentCodeServiceOptions{})
	assert.Error(t, err)
}
