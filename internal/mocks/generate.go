// Package mocks provides mock implementations for testing the school
// dashboard services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the repository interfaces in internal/ports. The mocks are generated using
// go:generate directives.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockStudentRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(student, nil)
package mocks

// Generate mocks for the school repository interfaces from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=school_repository_mocks.go github.com/m007/school-ui-api/internal/ports StudentRepository,TeacherRepository,ClassRepository,PaymentRepository,ReceiptRepository,StudentCodeRepository
