package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/m007/school-ui-api/internal/errors"
	"github.com/m007/school-ui-api/internal/testutil"
)

func TestStudentCodeRepo_Reserve_Claim_Exists(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewStudentCodeRepo(db)
		code := "M007-" + uniqueSuffix()

		reserved, err := repo.Reserve(ctx, code)
		require.NoError(t, err)
		assert.Equal(t, code, reserved.Code)
		assert.Nil(t, reserved.StudentID)

		exists, err := repo.Exists(ctx, code)
		require.NoError(t, err)
		assert.True(t, exists)

		student := createTestStudent(t, db)
		require.NoError(t, repo.Claim(ctx, code, student.ID))

		// A claimed code cannot be claimed again.
		err = repo.Claim(ctx, code, student.ID)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestStudentCodeRepo_Reserve_DuplicateConflicts(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewStudentCodeRepo(db)
		code := "M007-" + uniqueSuffix()

		_, err := repo.Reserve(ctx, code)
		require.NoError(t, err)

		_, err = repo.Reserve(ctx, code)
		assert.True(t, apperrors.IsConflict(err))
	})
}

func TestStudentCodeRepo_Reserve_EmptyCode(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		_, err := NewStudentCodeRepo(db).Reserve(context.Background(), "   ")
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestStudentCodeRepo_Exists_Unknown(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		exists, err := NewStudentCodeRepo(db).Exists(context.Background(), "M007-UNKNOWN")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
