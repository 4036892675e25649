package ports

import (
	"context"

	"github.com/m007/school-ui-api/internal/domain/model"
)

// StudentRepository stores student enrollment records.
type StudentRepository interface {
	Create(ctx context.Context, req *model.CreateStudentRequest, code string) (*model.Student, error)
	GetByID(ctx context.Context, id int) (*model.Student, error)
	GetByEmail(ctx context.Context, email string) (*model.Student, error)
	List(ctx context.Context, limit, offset int) ([]*model.Student, error)
	Delete(ctx context.Context, id int) error
}

// TeacherRepository stores teaching staff records.
type TeacherRepository interface {
	Create(ctx context.Context, req *model.CreateTeacherRequest) (*model.Teacher, error)
	GetByID(ctx context.Context, id int) (*model.Teacher, error)
	List(ctx context.Context, limit, offset int) ([]*model.Teacher, error)
	Delete(ctx context.Context, id int) error
}

// ClassRepository stores class groups and their assignments.
type ClassRepository interface {
	Create(ctx context.Context, req *model.CreateClassRequest) (*model.SchoolClass, error)
	GetByID(ctx context.Context, id int) (*model.SchoolClass, error)
	List(ctx context.Context, limit, offset int) ([]*model.SchoolClass, error)
	Delete(ctx context.Context, id int) error

	AddAssignment(ctx context.Context, req *model.CreateAssignmentRequest) (*model.Assignment, error)
	ListAssignments(ctx context.Context, classID int) ([]*model.Assignment, error)
}

// PaymentRepository stores tuition installments.
type PaymentRepository interface {
	Create(ctx context.Context, req *model.CreatePaymentRequest) (*model.Payment, error)
	GetByID(ctx context.Context, id string) (*model.Payment, error)
	List(ctx context.Context, opts model.PaymentsListOptions) ([]*model.Payment, error)
	MarkPaid(ctx context.Context, id string) (*model.Payment, error)
}

// ReceiptRepository stores issued receipts.
type ReceiptRepository interface {
	Create(ctx context.Context, rcpt *model.Receipt) (*model.Receipt, error)
	GetByID(ctx context.Context, id string) (*model.Receipt, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*model.Receipt, error)
	NextSequence(ctx context.Context, year int) (int, error)
}

// StudentCodeRepository reserves generated enrollment codes.
// Reserve must fail with a conflict error when the code already exists.
type StudentCodeRepository interface {
	Reserve(ctx context.Context, code string) (*model.StudentCode, error)
	Claim(ctx context.Context, code string, studentID int) error
	Exists(ctx context.Context, code string) (bool, error)
}
