package httpx

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	schoolui "github.com/m007/school-ui-api"
	domainauth "github.com/m007/school-ui-api/internal/domain/auth"
)

// PageRenderer renders the server-side pages from the embedded template set.
type PageRenderer struct {
	templates *template.Template
	logger    *slog.Logger
}

// NewPageRenderer parses the embedded page templates.
func NewPageRenderer(logger *slog.Logger) (*PageRenderer, error) {
	tmpl, err := template.ParseFS(schoolui.TemplateFS, "web/templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PageRenderer{templates: tmpl, logger: logger.With("component", "renderer")}, nil
}

func (pr *PageRenderer) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pr.templates.ExecuteTemplate(w, name, data); err != nil {
		// Headers are already sent; log and move on.
		pr.logger.Error("render template", "template", name, "err", err)
	}
}

// loginPageData feeds login.html.
type loginPageData struct {
	RedirectURI string
	Error       string
}

// Login renders the sign-in form.
func (pr *PageRenderer) Login(w http.ResponseWriter, data loginPageData) {
	pr.render(w, http.StatusOK, "login.html", data)
}

// LoginFailed renders the sign-in form again with the failure message.
func (pr *PageRenderer) LoginFailed(w http.ResponseWriter, data loginPageData) {
	pr.render(w, http.StatusUnauthorized, "login.html", data)
}

// Loading renders the transient placeholder shown while a login is in flight.
func (pr *PageRenderer) Loading(w http.ResponseWriter) {
	pr.render(w, http.StatusOK, "loading.html", nil)
}

// Unauthorized renders the access-denied page.
func (pr *PageRenderer) Unauthorized(w http.ResponseWriter) {
	pr.render(w, http.StatusForbidden, "unauthorized.html", nil)
}

// landingLink is one navigation entry on a role landing page.
type landingLink struct {
	Href  string
	Label string
}

// landingPageData feeds landing.html.
type landingPageData struct {
	Title string
	User  *domainauth.User
	Links []landingLink
}

// Landing renders a role dashboard page.
func (pr *PageRenderer) Landing(w http.ResponseWriter, data landingPageData) {
	pr.render(w, http.StatusOK, "landing.html", data)
}
