package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m007/school-ui-api/internal/domain/model"
	apperrors "github.com/m007/school-ui-api/internal/errors"
	"github.com/m007/school-ui-api/internal/testutil"
)

func createTestTeacher(t *testing.T, db *sql.DB) *model.Teacher {
	t.Helper()
	suffix := uniqueSuffix()
	tc, err := NewTeacherRepo(db).Create(context.Background(), &model.CreateTeacherRequest{
		Name:    "Teacher " + suffix,
		Email:   fmt.Sprintf("teacher-%s@m007.com", suffix),
		Subject: "Mathematics",
	})
	require.NoError(t, err)
	return tc
}

func createTestClass(t *testing.T, db *sql.DB, teacherID int) *model.SchoolClass {
	t.Helper()
	c, err := NewClassRepo(db).Create(context.Background(), &model.CreateClassRequest{
		Name:      "Class " + uniqueSuffix(),
		TeacherID: teacherID,
		Period:    "morning",
		Year:      2026,
	})
	require.NoError(t, err)
	return c
}

func TestClassRepo_Create_Get_List_Delete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewClassRepo(db)
		teacher := createTestTeacher(t, db)

		c, err := repo.Create(ctx, &model.CreateClassRequest{
			Name:      "6B " + uniqueSuffix(),
			TeacherID: teacher.ID,
			Period:    "Afternoon",
			Year:      2026,
		})
		require.NoError(t, err)
		require.NotZero(t, c.ID)
		assert.Equal(t, model.ClassPeriodAfternoon, c.Period)
		assert.Equal(t, teacher.ID, c.TeacherID)

		got, err := repo.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.Name, got.Name)

		list, err := repo.List(ctx, 10, 0)
		require.NoError(t, err)
		assert.NotEmpty(t, list)

		require.NoError(t, repo.Delete(ctx, c.ID))
		_, err = repo.GetByID(ctx, c.ID)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestClassRepo_Create_UnknownTeacherIsForeignKey(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		_, err := NewClassRepo(db).Create(context.Background(), &model.CreateClassRequest{
			Name:      "Orphan " + uniqueSuffix(),
			TeacherID: 99999999,
			Period:    "morning",
			Year:      2026,
		})
		assert.True(t, apperrors.IsForeignKey(err))
	})
}

func TestClassRepo_Assignments(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewClassRepo(db)
		teacher := createTestTeacher(t, db)
		class := createTestClass(t, db, teacher.ID)

		later := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
		sooner := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

		_, err := repo.AddAssignment(ctx, &model.CreateAssignmentRequest{
			ClassID: class.ID, Title: "Essay", DueDate: later, MaxGrade: 10,
		})
		require.NoError(t, err)
		a2, err := repo.AddAssignment(ctx, &model.CreateAssignmentRequest{
			ClassID: class.ID, Title: "Quiz", Details: "Chapters 1-3", DueDate: sooner, MaxGrade: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, "Chapters 1-3", a2.Details)

		list, err := repo.ListAssignments(ctx, class.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		// Soonest due first.
		assert.Equal(t, "Quiz", list[0].Title)

		// Assignments cascade with the class.
		require.NoError(t, repo.Delete(ctx, class.ID))
		list, err = repo.ListAssignments(ctx, class.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestTeacherRepo_Create_List_Delete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewTeacherRepo(db)

		tc := createTestTeacher(t, db)
		got, err := repo.GetByID(ctx, tc.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.Email, got.Email)
		assert.True(t, got.Active)

		list, err := repo.List(ctx, 10, 0)
		require.NoError(t, err)
		assert.NotEmpty(t, list)

		require.NoError(t, repo.Delete(ctx, tc.ID))
		_, err = repo.GetByID(ctx, tc.ID)
		assert.True(t, apperrors.IsNotFound(err))
	})
}
