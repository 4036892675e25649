package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/m007/school-ui-api/internal/data/database"
	"github.com/m007/school-ui-api/internal/data/pgxutil"
	"github.com/m007/school-ui-api/internal/domain/model"
	apperrors "github.com/m007/school-ui-api/internal/errors"
)

// ClassRepo provides database operations for class groups and their
// assignments.
type ClassRepo struct {
	DB *sql.DB
}

// NewClassRepo creates a new ClassRepo.
func NewClassRepo(db *sql.DB) *ClassRepo {
	return &ClassRepo{DB: db}
}

const (
	classColumnsSQL      = `id, name, teacher_id, period, year, created_at`
	assignmentColumnsSQL = `id, class_id, title, details, due_date, max_grade, created_at`
)

func assignmentColumns() []string {
	return []string{"id", "class_id", "title", "details", "due_date", "max_grade", "created_at"}
}

// Create opens a class group.
func (r *ClassRepo) Create(ctx context.Context, req *model.CreateClassRequest) (*model.SchoolClass, error) {
	if req == nil {
		return nil, errors.New("create class request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	period, _ := model.ParseClassPeriod(req.Period)

	var out model.SchoolClass
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO classes (name, teacher_id, period, year)
			VALUES ($1, $2, $3, $4)
			RETURNING `+classColumnsSQL,
			strings.TrimSpace(req.Name),
			req.TeacherID,
			period,
			req.Year,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SchoolClass])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a class by ID.
func (r *ClassRepo) GetByID(ctx context.Context, id int) (*model.SchoolClass, error) {
	var out model.SchoolClass
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+classColumnsSQL+` FROM classes WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SchoolClass])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List retrieves classes with pagination, newest year first.
func (r *ClassRepo) List(ctx context.Context, limit, offset int) ([]*model.SchoolClass, error) {
	if limit <= 0 {
		limit = 50
	}
	offset = max(offset, 0)

	var rowsOut []model.SchoolClass
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+classColumnsSQL+` FROM classes
			ORDER BY year DESC, name ASC
			LIMIT $1 OFFSET $2`, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.SchoolClass])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}

	res := make([]*model.SchoolClass, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Delete removes a class by ID. Assignments cascade.
func (r *ClassRepo) Delete(ctx context.Context, id int) error {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if rows == 0 {
		return apperrors.NotFoundf("class %d not found", id)
	}
	return nil
}

// AddAssignment assigns work to a class.
func (r *ClassRepo) AddAssignment(ctx context.Context, req *model.CreateAssignmentRequest) (*model.Assignment, error) {
	if req == nil {
		return nil, errors.New("create assignment request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out model.Assignment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO assignments (class_id, title, details, due_date, max_grade)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+assignmentColumnsSQL,
			req.ClassID,
			strings.TrimSpace(req.Title),
			strings.TrimSpace(req.Details),
			req.DueDate.UTC(),
			req.MaxGrade,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Assignment])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// ListAssignments retrieves the assignments for a class, soonest due first.
func (r *ClassRepo) ListAssignments(ctx context.Context, classID int) ([]*model.Assignment, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("assignments",
		database.WithColumns(assignmentColumns()...),
		database.WithCondition(database.WhereCond("class_id", database.Equal, classID)),
		database.WithOrderBy("due_date", sortDirAsc),
	))

	var rowsOut []model.Assignment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Assignment])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	res := make([]*model.Assignment, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
