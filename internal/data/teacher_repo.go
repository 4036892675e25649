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

// TeacherRepo provides database operations for teaching staff.
type TeacherRepo struct {
	DB *sql.DB
}

// NewTeacherRepo creates a new TeacherRepo.
func NewTeacherRepo(db *sql.DB) *TeacherRepo {
	return &TeacherRepo{DB: db}
}

const teacherColumnsSQL = `id, name, email, subject, active, created_at`

func teacherColumns() []string {
	return []string{"id", "name", "email", "subject", "active", "created_at"}
}

// Create registers a staff member.
func (r *TeacherRepo) Create(ctx context.Context, req *model.CreateTeacherRequest) (*model.Teacher, error) {
	if req == nil {
		return nil, errors.New("create teacher request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out model.Teacher
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO teachers (name, email, subject)
			VALUES ($1, $2, $3)
			RETURNING `+teacherColumnsSQL,
			strings.TrimSpace(req.Name),
			strings.TrimSpace(req.Email),
			strings.TrimSpace(req.Subject),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Teacher])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a teacher by ID.
func (r *TeacherRepo) GetByID(ctx context.Context, id int) (*model.Teacher, error) {
	var out model.Teacher
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+teacherColumnsSQL+` FROM teachers WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Teacher])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List retrieves teachers with pagination.
func (r *TeacherRepo) List(ctx context.Context, limit, offset int) ([]*model.Teacher, error) {
	if limit <= 0 {
		limit = 50
	}
	offset = max(offset, 0)

	query, args := database.BuildListQuery(database.NewListQueryOptions("teachers",
		database.WithColumns(teacherColumns()...),
		database.WithOrderBy("name", sortDirAsc),
		database.WithLimit(limit),
		database.WithOffset(offset),
	))

	var rowsOut []model.Teacher
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Teacher])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}

	res := make([]*model.Teacher, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Delete removes a teacher by ID.
func (r *TeacherRepo) Delete(ctx context.Context, id int) error {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, id)
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
		return apperrors.NotFoundf("teacher %d not found", id)
	}
	return nil
}
