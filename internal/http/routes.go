// Package httpx wires the HTTP surface: the JSON API under /api, the
// server-rendered auth and dashboard pages, and the session guard in front
// of both.
package httpx

import (
	"fmt"
	"log/slog"
	"net/http"

	domainauth "github.com/m007/school-ui-api/internal/domain/auth"
	"github.com/m007/school-ui-api/internal/service"
	"github.com/m007/school-ui-api/internal/session"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Sessions     *session.Manager
	Students     *service.StudentService
	Teachers     *service.TeacherService
	Classes      *service.ClassService
	Payments     *service.PaymentService
	Receipts     *service.ReceiptService
	CookieDomain string
	Logger       *slog.Logger // Logger for HTTP and template errors (optional)
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer, err := NewPageRenderer(logger)
	if err != nil {
		return nil, err
	}

	guard := &Guard{Sessions: services.Sessions, Renderer: renderer}
	auth := &AuthHandlers{
		Sessions:     services.Sessions,
		Renderer:     renderer,
		CookieDomain: services.CookieDomain,
		Logger:       logger,
	}
	dashboard := &DashboardHandlers{Renderer: renderer}

	mux := http.NewServeMux()

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	registerAuthRoutes(mux, auth, dashboard, guard)
	registerSchoolRoutes(mux, services, guard)

	handler := Logging(logger)(Recover(logger)(mux))
	return BrowserDetection()(handler), nil
}

func registerAuthRoutes(mux *http.ServeMux, auth *AuthHandlers, dashboard *DashboardHandlers, guard *Guard) {
	mux.Handle("GET /{$}", http.RedirectHandler("/dashboard", http.StatusFound))
	mux.HandleFunc("GET /login", auth.LoginPage)
	mux.HandleFunc("POST /auth/login", auth.Login)
	mux.HandleFunc("POST /auth/logout", auth.Logout)
	mux.HandleFunc("GET /auth/status", auth.Status)
	mux.HandleFunc("POST /auth/clear-error", auth.ClearError)
	mux.HandleFunc("GET /unauthorized", dashboard.UnauthorizedPage)

	requireAuth := guard.RequireAuth()
	mux.Handle("GET /dashboard", requireAuth(http.HandlerFunc(dashboard.Dashboard)))
	mux.Handle("GET /admin", guard.RequireRole(domainauth.RoleAdmin)(http.HandlerFunc(dashboard.AdminHome)))
	mux.Handle("GET /academic", guard.RequireRole(domainauth.RoleAcademicAdmin)(http.HandlerFunc(dashboard.AcademicHome)))
	mux.Handle("GET /teacher", guard.RequireRole(domainauth.RoleTeacher)(http.HandlerFunc(dashboard.TeacherHome)))
	mux.Handle("GET /student", guard.RequireRole(domainauth.RoleStudent)(http.HandlerFunc(dashboard.StudentHome)))
}

func registerSchoolRoutes(mux *http.ServeMux, services RouterServices, guard *Guard) {
	admins := guard.RequireRole(domainauth.RoleAdmin, domainauth.RoleAcademicAdmin)
	staff := guard.RequireRole(domainauth.RoleAdmin, domainauth.RoleAcademicAdmin, domainauth.RoleTeacher)
	anyone := guard.RequireAuth()

	if services.Students != nil {
		h := &StudentHandlers{Svc: services.Students}
		mux.Handle("POST /api/students", admins(http.HandlerFunc(h.Enroll)))
		mux.Handle("GET /api/students", staff(http.HandlerFunc(h.List)))
		mux.Handle("GET /api/students/{id}", staff(http.HandlerFunc(h.Get)))
		mux.Handle("DELETE /api/students/{id}", admins(http.HandlerFunc(h.Delete)))
	}

	if services.Teachers != nil {
		h := &TeacherHandlers{Svc: services.Teachers}
		mux.Handle("POST /api/teachers", admins(http.HandlerFunc(h.Create)))
		mux.Handle("GET /api/teachers", staff(http.HandlerFunc(h.List)))
		mux.Handle("GET /api/teachers/{id}", staff(http.HandlerFunc(h.Get)))
		mux.Handle("DELETE /api/teachers/{id}", admins(http.HandlerFunc(h.Delete)))
	}

	if services.Classes != nil {
		h := &ClassHandlers{Svc: services.Classes}
		mux.Handle("POST /api/classes", admins(http.HandlerFunc(h.Create)))
		mux.Handle("GET /api/classes", anyone(http.HandlerFunc(h.List)))
		mux.Handle("GET /api/classes/{id}", anyone(http.HandlerFunc(h.Get)))
		mux.Handle("DELETE /api/classes/{id}", admins(http.HandlerFunc(h.Delete)))
		mux.Handle("POST /api/classes/{id}/assignments", staff(http.HandlerFunc(h.AddAssignment)))
		mux.Handle("GET /api/classes/{id}/assignments", anyone(http.HandlerFunc(h.ListAssignments)))
	}

	if services.Payments != nil {
		h := &PaymentHandlers{Svc: services.Payments, Students: services.Students}
		mux.Handle("POST /api/payments", admins(http.HandlerFunc(h.Create)))
		mux.Handle("GET /api/payments", anyone(http.HandlerFunc(h.List)))
		mux.Handle("GET /api/payments/{id}", admins(http.HandlerFunc(h.Get)))
		mux.Handle("POST /api/payments/{id}/paid", admins(http.HandlerFunc(h.MarkPaid)))
	}

	if services.Receipts != nil {
		h := &ReceiptHandlers{Svc: services.Receipts}
		mux.Handle("POST /api/receipts", admins(http.HandlerFunc(h.Issue)))
		mux.Handle("GET /api/receipts/{id}", admins(http.HandlerFunc(h.Get)))
		mux.Handle("GET /receipts/{id}/print", admins(http.HandlerFunc(h.Print)))
	}
}
