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

// StudentRepo provides database operations for enrolled students.
type StudentRepo struct {
	DB *sql.DB
}

// NewStudentRepo creates a new StudentRepo.
func NewStudentRepo(db *sql.DB) *StudentRepo {
	return &StudentRepo{DB: db}
}

const studentColumnsSQL = `id, code, name, email, class_id, guardian, active, created_at`

// Create enrolls a student under an already reserved enrollment code.
func (r *StudentRepo) Create(ctx context.Context, req *model.CreateStudentRequest, code string) (*model.Student, error) {
	if req == nil {
		return nil, errors.New("create student request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if strings.TrimSpace(code) == "" {
		return nil, apperrors.Validation("enrollment code is required")
	}

	var out model.Student
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO students (code, name, email, class_id, guardian)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+studentColumnsSQL,
			strings.TrimSpace(code),
			strings.TrimSpace(req.Name),
			strings.TrimSpace(req.Email),
			req.ClassID,
			strings.TrimSpace(req.Guardian),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Student])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a student by ID.
func (r *StudentRepo) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return r.getByQuery(ctx, `SELECT `+studentColumnsSQL+` FROM students WHERE id = $1`, id)
}

// GetByEmail retrieves a student by email.
func (r *StudentRepo) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	return r.getByQuery(ctx, `SELECT `+studentColumnsSQL+` FROM students WHERE email = $1`, email)
}

// List retrieves students with pagination, newest enrollment first.
func (r *StudentRepo) List(ctx context.Context, limit, offset int) ([]*model.Student, error) {
	if limit <= 0 {
		limit = 50
	}
	offset = max(offset, 0)

	query, args := database.BuildListQuery(database.NewListQueryOptions("students",
		database.WithColumns(studentColumns()...),
		database.WithOrderBy("created_at", sortDirDesc),
		database.WithLimit(limit),
		database.WithOffset(offset),
	))

	var rowsOut []model.Student
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Student])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	res := make([]*model.Student, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Delete removes a student by ID.
func (r *StudentRepo) Delete(ctx context.Context, id int) error {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
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
		return apperrors.NotFoundf("student %d not found", id)
	}
	return nil
}

func studentColumns() []string {
	return []string{"id", "code", "name", "email", "class_id", "guardian", "active", "created_at"}
}

func (r *StudentRepo) getByQuery(ctx context.Context, q string, args ...any) (*model.Student, error) {
	var out model.Student
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Student])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}
