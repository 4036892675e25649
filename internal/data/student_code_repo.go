package data

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/m007/school-ui-api/internal/data/pgxutil"
	"github.com/m007/school-ui-api/internal/domain/model"
	apperrors "github.com/m007/school-ui-api/internal/errors"
)

// StudentCodeRepo reserves and claims generated enrollment codes.
type StudentCodeRepo struct {
	DB *sql.DB
}

// NewStudentCodeRepo creates a new StudentCodeRepo.
func NewStudentCodeRepo(db *sql.DB) *StudentCodeRepo {
	return &StudentCodeRepo{DB: db}
}

// Reserve inserts an unclaimed code. A duplicate code fails with a conflict
// error, which the generator treats as a retry signal.
func (r *StudentCodeRepo) Reserve(ctx context.Context, code string) (*model.StudentCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.Validation("code is required")
	}

	var out model.StudentCode
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO student_codes (code) VALUES ($1)
			RETURNING code, student_id, created_at`, code)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.StudentCode])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Claim binds a reserved code to an enrolled student. Claiming a missing or
// already claimed code is a not-found error.
func (r *StudentCodeRepo) Claim(ctx context.Context, code string, studentID int) error {
	var claimed int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			UPDATE student_codes SET student_id = $2
			WHERE code = $1 AND student_id IS NULL`, code, studentID)
		if err != nil {
			return err
		}
		claimed = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if claimed == 0 {
		return apperrors.NotFound("unclaimed code " + code)
	}
	return nil
}

// Exists reports whether the code has been reserved.
func (r *StudentCodeRepo) Exists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM student_codes WHERE code = $1)`, code).Scan(&exists)
	})
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return exists, nil
}
