// Package devseed populates a development database with a small school:
// a few teachers, their classes, enrolled students, and tuition installments.
// Seeding is idempotent for records with natural keys (emails, class names);
// payments are only created alongside a newly enrolled student so re-running
// does not pile up duplicate installments.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/m007/school-ui-api/internal/bootstrap"
	"github.com/m007/school-ui-api/internal/domain/model"
	apperrors "github.com/m007/school-ui-api/internal/errors"
	"github.com/m007/school-ui-api/internal/service"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	Students *service.StudentService
	Teachers *service.TeacherService
	Classes  *service.ClassService
	Payments *service.PaymentService
}

// NewServices constructs all required services for seeding using the provided DB.
func NewServices(db *sql.DB, logger *slog.Logger) (Services, error) {
	container, err := bootstrap.BuildServices(bootstrap.ServicesConfig{DB: db, Logger: logger})
	if err != nil {
		return Services{}, err
	}
	return Services{
		Students: container.Students,
		Teachers: container.Teachers,
		Classes:  container.Classes,
		Payments: container.Payments,
	}, nil
}

// Run executes the full development seeding workflow.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	failures := 0

	teacherIDs, f := seedTeachers(ctx, svcs.Teachers, logger)
	failures += f

	classIDs, f := seedClasses(ctx, svcs.Classes, teacherIDs, logger)
	failures += f

	failures += seedAssignments(ctx, svcs.Classes, classIDs, logger)
	failures += seedStudents(ctx, svcs, classIDs, logger)

	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

type teacherSeed struct {
	Name    string
	Email   string
	Subject string
}

func defaultTeachers() []teacherSeed {
	return []teacherSeed{
		{Name: "Rosa Lima", Email: "teacher@m007.com", Subject: "Mathematics"},
		{Name: "Carlos Souza", Email: "c.souza@m007.com", Subject: "History"},
		{Name: "Marta Nunes", Email: "m.nunes@m007.com", Subject: "Science"},
	}
}

// seedTeachers creates the staff accounts and returns email -> teacher id,
// resolving ids for teachers that already existed.
func seedTeachers(ctx context.Context, svc *service.TeacherService, logger *slog.Logger) (map[string]int, int) {
	failures := 0
	for _, seed := range defaultTeachers() {
		_, err := svc.Create(ctx, &model.CreateTeacherRequest{
			Name:    seed.Name,
			Email:   seed.Email,
			Subject: seed.Subject,
		})
		switch {
		case err == nil:
			if logger != nil {
				logger.InfoContext(ctx, "seeded teacher", "email", seed.Email)
			}
		case apperrors.IsConflict(err):
			if logger != nil {
				logger.InfoContext(ctx, "teacher already exists", "email", seed.Email)
			}
		default:
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed teacher", "email", seed.Email, "error", err)
			}
			failures++
		}
	}

	ids := make(map[string]int)
	teachers, err := svc.List(ctx, 100, 0)
	if err != nil {
		if logger != nil {
			logger.ErrorContext(ctx, "failed to list teachers after seeding", "error", err)
		}
		return ids, failures + 1
	}
	for _, t := range teachers {
		ids[t.Email] = t.ID
	}
	return ids, failures
}

type classSeed struct {
	Name         string
	TeacherEmail string
	Period       string
}

func defaultClasses() []classSeed {
	return []classSeed{
		{Name: "7A", TeacherEmail: "teacher@m007.com", Period: "morning"},
		{Name: "7B", TeacherEmail: "c.souza@m007.com", Period: "morning"},
		{Name: "8A", TeacherEmail: "m.nunes@m007.com", Period: "afternoon"},
	}
}

// seedClasses opens one class per homeroom teacher and returns name -> class id.
func seedClasses(
	ctx context.Context,
	svc *service.ClassService,
	teacherIDs map[string]int,
	logger *slog.Logger,
) (map[string]int, int) {
	failures := 0
	year := time.Now().Year()

	for _, seed := range defaultClasses() {
		teacherID, ok := teacherIDs[seed.TeacherEmail]
		if !ok {
			if logger != nil {
				logger.ErrorContext(ctx, "no teacher for class", "class", seed.Name, "teacher", seed.TeacherEmail)
			}
			failures++
			continue
		}
		_, err := svc.Create(ctx, &model.CreateClassRequest{
			Name:      seed.Name,
			TeacherID: teacherID,
			Period:    seed.Period,
			Year:      year,
		})
		switch {
		case err == nil:
			if logger != nil {
				logger.InfoContext(ctx, "seeded class", "class", seed.Name)
			}
		case apperrors.IsConflict(err):
			if logger != nil {
				logger.InfoContext(ctx, "class already exists", "class", seed.Name)
			}
		default:
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed class", "class", seed.Name, "error", err)
			}
			failures++
		}
	}

	ids := make(map[string]int)
	classes, err := svc.List(ctx, 100, 0)
	if err != nil {
		if logger != nil {
			logger.ErrorContext(ctx, "failed to list classes after seeding", "error", err)
		}
		return ids, failures + 1
	}
	for _, c := range classes {
		ids[c.Name] = c.ID
	}
	return ids, failures
}

// seedAssignments gives each seeded class one upcoming assignment. Existing
// assignments are left alone; a class with any assignment is skipped.
func seedAssignments(ctx context.Context, svc *service.ClassService, classIDs map[string]int, logger *slog.Logger) int {
	failures := 0
	due := time.Now().AddDate(0, 0, 14).Truncate(24 * time.Hour)

	for name, id := range classIDs {
		existing, err := svc.ListAssignments(ctx, id)
		if err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to list assignments", "class", name, "error", err)
			}
			failures++
			continue
		}
		if len(existing) > 0 {
			continue
		}

		_, err = svc.AddAssignment(ctx, &model.CreateAssignmentRequest{
			ClassID:  id,
			Title:    "Reading report",
			Details:  "One page summary of the assigned chapter.",
			DueDate:  due,
			MaxGrade: 10,
		})
		if err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed assignment", "class", name, "error", err)
			}
			failures++
			continue
		}
		if logger != nil {
			logger.InfoContext(ctx, "seeded assignment", "class", name)
		}
	}
	return failures
}

type studentSeed struct {
	Name     string
	Email    string
	Class    string
	Guardian string
}

func defaultStudents() []studentSeed {
	return []studentSeed{
		{Name: "Ana Pereira", Email: "student@m007.com", Class: "7A", Guardian: "Paulo Pereira"},
		{Name: "Bruno Costa", Email: "b.costa@students.m007.com", Class: "7A", Guardian: "Lucia Costa"},
		{Name: "Carla Dias", Email: "c.dias@students.m007.com", Class: "7B", Guardian: "Jorge Dias"},
		{Name: "Diego Ramos", Email: "d.ramos@students.m007.com", Class: "8A", Guardian: "Sofia Ramos"},
	}
}

// seedStudents enrolls the demo students and, for each newly enrolled one,
// records three monthly tuition installments.
func seedStudents(ctx context.Context, svcs Services, classIDs map[string]int, logger *slog.Logger) int {
	failures := 0

	for _, seed := range defaultStudents() {
		classID, ok := classIDs[seed.Class]
		if !ok {
			if logger != nil {
				logger.ErrorContext(ctx, "no class for student", "student", seed.Email, "class", seed.Class)
			}
			failures++
			continue
		}

		student, err := svcs.Students.Enroll(ctx, &model.CreateStudentRequest{
			Name:     seed.Name,
			Email:    seed.Email,
			ClassID:  classID,
			Guardian: seed.Guardian,
		})
		switch {
		case err == nil:
			if logger != nil {
				logger.InfoContext(ctx, "seeded student", "email", seed.Email, "code", student.Code)
			}
			failures += seedTuition(ctx, svcs.Payments, student.ID, logger)
		case apperrors.IsConflict(err):
			if logger != nil {
				logger.InfoContext(ctx, "student already exists", "email", seed.Email)
			}
		default:
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed student", "email", seed.Email, "error", err)
			}
			failures++
		}
	}
	return failures
}

func seedTuition(ctx context.Context, svc *service.PaymentService, studentID int, logger *slog.Logger) int {
	failures := 0
	now := time.Now()

	for i := range 3 {
		month := now.AddDate(0, i, 0)
		_, err := svc.Create(ctx, &model.CreatePaymentRequest{
			StudentID:   studentID,
			Description: fmt.Sprintf("Tuition %s", month.Format("2006-01")),
			AmountCents: 125000,
			DueDate:     time.Date(month.Year(), month.Month(), 10, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed tuition installment", "student_id", studentID, "error", err)
			}
			failures++
		}
	}
	return failures
}
