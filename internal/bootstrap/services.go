package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/m007/school-ui-api/internal/data"
	"github.com/m007/school-ui-api/internal/service"
)

// ServiceContainer holds the wired school services.
type ServiceContainer struct {
	Students *service.StudentService
	Teachers *service.TeacherService
	Classes  *service.ClassService
	Payments *service.PaymentService
	Receipts *service.ReceiptService
}

// ServicesConfig contains dependencies for service construction.
type ServicesConfig struct {
	DB     *sql.DB
	Logger *slog.Logger
}

// BuildServices wires the Postgres repositories into the service layer.
func BuildServices(cfg ServicesConfig) (ServiceContainer, error) {
	studentRepo := data.NewStudentRepo(cfg.DB)
	teacherRepo := data.NewTeacherRepo(cfg.DB)
	classRepo := data.NewClassRepo(cfg.DB)
	paymentRepo := data.NewPaymentRepo(cfg.DB)
	receiptRepo := data.NewReceiptRepo(cfg.DB)
	codeRepo := data.NewStudentCodeRepo(cfg.DB)

	codes, err := service.NewStudentCodeService(service.StudentCodeServiceOptions{
		Repo:   codeRepo,
		Logger: cfg.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build student code service: %w", err)
	}

	students, err := service.NewStudentService(service.StudentServiceOptions{
		Repo:   studentRepo,
		Codes:  codes,
		Logger: cfg.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build student service: %w", err)
	}

	teachers, err := service.NewTeacherService(service.TeacherServiceOptions{
		Repo:   teacherRepo,
		Logger: cfg.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build teacher service: %w", err)
	}

	classes, err := service.NewClassService(service.ClassServiceOptions{
		Repo:     classRepo,
		Teachers: teacherRepo,
		Logger:   cfg.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build class service: %w", err)
	}

	payments, err := service.NewPaymentService(service.PaymentServiceOptions{
		Repo:     paymentRepo,
		Students: studentRepo,
		Logger:   cfg.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build payment service: %w", err)
	}

	receipts, err := service.NewReceiptService(service.ReceiptServiceOptions{
		Repo:     receiptRepo,
		Payments: paymentRepo,
		Students: studentRepo,
		Logger:   cfg.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build receipt service: %w", err)
	}

	return ServiceContainer{
		Students: students,
		Teachers: teachers,
		Classes:  classes,
		Payments: payments,
		Receipts: receipts,
	}, nil
}
