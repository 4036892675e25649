package httpx

import (
	"net/http"

	domainauth "github.com/m007/school-ui-api/internal/domain/auth"
)

// DashboardHandlers serves the role landing redirector and the per-role
// landing pages.
type DashboardHandlers struct {
	Renderer *PageRenderer
}

// Dashboard handles GET /dashboard. It runs behind the auth guard, so by the
// time it executes the session is authenticated and not loading; all it does
// is redirect once to the landing page for the user's role. The landing
// routes are distinct paths, so a redirect loop is structurally impossible.
func (h *DashboardHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	var target string
	switch user.Role {
	case domainauth.RoleAdmin:
		target = "/admin"
	case domainauth.RoleAcademicAdmin:
		target = "/academic"
	case domainauth.RoleTeacher:
		target = "/teacher"
	case domainauth.RoleStudent:
		target = "/student"
	default:
		// A snapshot with a role outside the enum never authenticates, so
		// this only guards against future enum growth.
		target = "/login"
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// AdminHome handles GET /admin.
func (h *DashboardHandlers) AdminHome(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	h.Renderer.Landing(w, landingPageData{
		Title: "Administration",
		User:  user,
		Links: []landingLink{
			{Href: "/api/students", Label: "Students"},
			{Href: "/api/teachers", Label: "Teachers"},
			{Href: "/api/classes", Label: "Classes"},
			{Href: "/api/payments", Label: "Payments"},
		},
	})
}

// AcademicHome handles GET /academic.
func (h *DashboardHandlers) AcademicHome(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	h.Renderer.Landing(w, landingPageData{
		Title: "Academic Administration",
		User:  user,
		Links: []landingLink{
			{Href: "/api/students", Label: "Students"},
			{Href: "/api/classes", Label: "Classes"},
			{Href: "/api/payments", Label: "Payments"},
		},
	})
}

// TeacherHome handles GET /teacher.
func (h *DashboardHandlers) TeacherHome(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	h.Renderer.Landing(w, landingPageData{
		Title: "Teacher Dashboard",
		User:  user,
		Links: []landingLink{
			{Href: "/api/classes", Label: "My classes"},
		},
	})
}

// StudentHome handles GET /student.
func (h *DashboardHandlers) StudentHome(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	h.Renderer.Landing(w, landingPageData{
		Title: "Student Dashboard",
		User:  user,
		Links: []landingLink{
			{Href: "/api/payments", Label: "My payments"},
		},
	})
}

// UnauthorizedPage handles GET /unauthorized.
func (h *DashboardHandlers) UnauthorizedPage(w http.ResponseWriter, _ *http.Request) {
	h.Renderer.Unauthorized(w)
}
