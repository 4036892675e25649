package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	domainauth "github.com/m007/school-ui-api/internal/domain/auth"
	"github.com/m007/school-ui-api/internal/session"
)

// AuthHandlers provides HTTP handlers for the authentication endpoints.
type AuthHandlers struct {
	Sessions     *session.Manager
	Renderer     *PageRenderer
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// LoginPage handles GET /login. An already-authenticated session is sent
// straight to its dashboard instead of seeing the form again.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if sid, ok := sessionIDFromRequest(r); ok {
		store := h.Sessions.Get(r.Context(), sid)
		if store.IsLoading() {
			h.Renderer.Loading(w)
			return
		}
		if store.IsAuthenticated() {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
	}
	h.Renderer.Login(w, loginPageData{RedirectURI: sanitizeRedirectURI(r.URL.Query().Get("redirect_uri"))})
}

// loginRequest is the JSON body for POST /auth/login.
type loginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	RedirectURI string `json:"redirect_uri,omitempty"`
}

// statusResponse is the session state payload for /auth/login and /auth/status.
type statusResponse struct {
	IsAuthenticated bool             `json:"is_authenticated"`
	IsLoading       bool             `json:"is_loading"`
	User            *domainauth.User `json:"user,omitempty"`
	Error           string           `json:"error,omitempty"`
}

func statusFromState(st session.State) statusResponse {
	resp := statusResponse{
		IsAuthenticated: st.IsAuthenticated,
		IsLoading:       st.IsLoading,
		User:            st.User,
	}
	if st.Err != nil {
		resp.Error = st.Err.Error()
	}
	return resp
}

// Login handles POST /auth/login for both the HTML form and the JSON API.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readLoginRequest(w, r)
	if !ok {
		return
	}

	sid, ok := sessionIDFromRequest(r)
	if !ok {
		sid = uuid.NewString()
	}
	setSessionCookie(w, sid, h.CookieDomain)

	store := h.Sessions.Get(r.Context(), sid)
	role, err := store.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger().Warn("login failed", "email", req.Email, "err", err)
		h.writeLoginFailure(w, r, req, err)
		return
	}

	h.logger().Info("login", "email", req.Email, "role", role)
	if IsBrowserRequest(r) {
		target := sanitizeRedirectURI(req.RedirectURI)
		if target == "/" {
			target = "/dashboard"
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	WriteJSON(w, http.StatusOK, statusFromState(store.State()))
}

func (h *AuthHandlers) readLoginRequest(w http.ResponseWriter, r *http.Request) (loginRequest, bool) {
	var req loginRequest
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		if !DecodeJSON(w, r, &req) {
			return req, false
		}
	} else {
		if err := r.ParseForm(); err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
			return req, false
		}
		req.Email = r.PostFormValue("email")
		req.Password = r.PostFormValue("password")
		req.RedirectURI = r.PostFormValue("redirect_uri")
	}

	if req.Email == "" || req.Password == "" {
		err := errors.New("email and password are required")
		if IsBrowserRequest(r) {
			h.Renderer.LoginFailed(w, loginPageData{Error: err.Error(), RedirectURI: sanitizeRedirectURI(req.RedirectURI)})
		} else {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation", Err: err})
		}
		return req, false
	}
	return req, true
}

func (h *AuthHandlers) writeLoginFailure(w http.ResponseWriter, r *http.Request, req loginRequest, err error) {
	if IsBrowserRequest(r) {
		h.Renderer.LoginFailed(w, loginPageData{Error: err.Error(), RedirectURI: sanitizeRedirectURI(req.RedirectURI)})
		return
	}
	code := http.StatusUnauthorized
	errCode := "login_failed"
	if errors.Is(err, session.ErrLoginInFlight) {
		code = http.StatusConflict
		errCode = "login_in_progress"
	}
	WriteError(w, ErrorParams{Code: code, ErrCode: errCode, Err: err})
}

// Logout handles POST /auth/logout. Idempotent: logging out without a
// session is not an error.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sid, ok := sessionIDFromRequest(r); ok {
		store := h.Sessions.Get(r.Context(), sid)
		if err := store.Logout(r.Context()); err != nil {
			h.logger().Warn("logout", "err", err)
		}
		h.Sessions.Drop(sid)
	}
	clearSessionCookie(w, h.CookieDomain)

	if IsBrowserRequest(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Status handles GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionIDFromRequest(r)
	if !ok {
		WriteJSON(w, http.StatusOK, statusResponse{})
		return
	}
	store := h.Sessions.Get(r.Context(), sid)
	WriteJSON(w, http.StatusOK, statusFromState(store.State()))
}

// ClearError handles POST /auth/clear-error.
func (h *AuthHandlers) ClearError(w http.ResponseWriter, r *http.Request) {
	if sid, ok := sessionIDFromRequest(r); ok {
		if store, found := h.Sessions.Peek(sid); found {
			store.ClearError()
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// sanitizeRedirectURI allows only relative paths (no scheme/host) that start
// with "/"; anything else collapses to "/".
func sanitizeRedirectURI(raw string) string {
	if raw == "" {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	return raw
}
