package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildListQuery_BasicSelect(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("students"))

	assert.Equal(t, `SELECT * FROM "students"`, query)
	assert.Empty(t, args)
}

func TestBuildListQuery_WithColumns(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("teachers",
		WithColumns("id", "name", "email"),
	))

	assert.Equal(t, `SELECT "id", "name", "email" FROM "teachers"`, query)
	assert.Empty(t, args)
}

func TestBuildListQuery_WithQualifiedColumns(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("payments",
		WithColumns("payments.id", "payments.status", "students.name"),
	))

	assert.Equal(t, `SELECT "payments"."id", "payments"."status", "students"."name" FROM "payments"`, query)
	assert.Empty(t, args)
}

func TestBuildListQuery_EqualConditions(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("payments",
		WithCondition(WhereCond("student_id", Equal, 7)),
		WithCondition(WhereCond("status", Equal, "pending")),
	))

	assert.Equal(t, `SELECT * FROM "payments" WHERE "student_id" = $1 AND "status" = $2`, query)
	assert.Equal(t, []any{7, "pending"}, args)
}

func TestBuildListQuery_SkipsEmptyFieldCondition(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("payments",
		WithCondition(WhereCond("", Equal, "x")),
		WithCondition(WhereCond("status", Equal, "paid")),
	))

	assert.Equal(t, `SELECT * FROM "payments" WHERE "status" = $1`, query)
	assert.Equal(t, []any{"paid"}, args)
}

func TestBuildListQuery_OrderLimitOffset(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("students",
		WithColumns("id", "name"),
		WithOrderBy("created_at", "DESC"),
		WithLimit(25),
		WithOffset(50),
	))

	assert.Equal(t, `SELECT "id", "name" FROM "students" ORDER BY "created_at" DESC LIMIT $1 OFFSET $2`, query)
	assert.Equal(t, []any{25, 50}, args)
}

func TestBuildListQuery_ConditionThenPaginationParamNumbering(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("assignments",
		WithCondition(WhereCond("class_id", Equal, 3)),
		WithOrderBy("due_date", "asc"),
		WithLimit(10),
		WithOffset(0),
	))

	assert.Equal(t, `SELECT * FROM "assignments" WHERE "class_id" = $1 ORDER BY "due_date" ASC LIMIT $2 OFFSET $3`, query)
	assert.Equal(t, []any{3, 10, 0}, args)
}

func TestBuildListQuery_InvalidOrderDirectionDropped(t *testing.T) {
	query, _ := BuildListQuery(NewListQueryOptions("students",
		WithOrderBy("name", "SIDEWAYS; DROP TABLE students"),
	))

	assert.Equal(t, `SELECT * FROM "students" ORDER BY "name"`, query)
}

func TestBuildListQuery_ZeroLimitAccepted(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("students",
		WithLimit(0),
	))

	assert.Equal(t, `SELECT * FROM "students" LIMIT $1`, query)
	assert.Equal(t, []any{0}, args)
}

func TestBuildListQuery_NegativeLimitAndOffsetIgnored(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("students",
		WithLimit(-5),
		WithOffset(-1),
	))

	assert.Equal(t, `SELECT * FROM "students"`, query)
	assert.Empty(t, args)
}

func TestBuildListQuery_IdentifiersAreQuoted(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions(`students"; DROP TABLE students;--`,
		WithColumns(`name"; --`),
		WithCondition(WhereCond(`code" OR "1"="1`, Equal, "M007-000001")),
		WithOrderBy(`due_date"; --`, "ASC"),
	))

	// Embedded quotes are doubled inside the quoted identifier, which makes
	// them literal names rather than SQL.
	assert.Equal(t,
		`SELECT "name""; --" FROM "students""; DROP TABLE students;--" `+
			`WHERE "code"" OR ""1""=""1" = $1 ORDER BY "due_date""; --" ASC`,
		query)
	assert.Equal(t, []any{"M007-000001"}, args)
}

func TestBuildListQuery_NilOptions(t *testing.T) {
	query, args := BuildListQuery(nil)

	assert.Empty(t, query)
	assert.Nil(t, args)
}
