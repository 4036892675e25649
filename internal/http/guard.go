package httpx

import (
	"errors"
	"net/http"

	domainauth "github.com/m007/school-ui-api/internal/domain/auth"
	"github.com/m007/school-ui-api/internal/session"
)

// Guard gates protected routes on the per-browser-session auth state.
//
// Every protected request walks the same checks in strict order: a login in
// flight renders the loading placeholder (no redirect), an unauthenticated
// session is sent to /login (browser) or gets 401 JSON (API), a wrong role is
// sent to /unauthorized (browser) or gets 403 JSON (API), and only then does
// the protected handler run with the user in the request context. The guard
// never surfaces errors and never retries.
type Guard struct {
	Sessions *session.Manager
	Renderer *PageRenderer
}

// RequireAuth returns a middleware that requires an authenticated session.
func (g *Guard) RequireAuth() func(http.Handler) http.Handler {
	return g.require(nil)
}

// RequireRole returns a middleware that requires an authenticated session
// whose role is one of the given roles. Role comparison is exact; there is
// no role hierarchy.
func (g *Guard) RequireRole(roles ...domainauth.Role) func(http.Handler) http.Handler {
	return g.require(roles)
}

func (g *Guard) require(roles []domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid, ok := sessionIDFromRequest(r)
			if !ok {
				g.unauthenticated(w, r)
				return
			}

			store := g.Sessions.Get(r.Context(), sid)

			if store.IsLoading() {
				g.loading(w, r)
				return
			}

			if !store.IsAuthenticated() {
				g.unauthenticated(w, r)
				return
			}

			user := store.User()
			if len(roles) > 0 && !roleAllowed(user.Role, roles) {
				g.forbidden(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(SetUserInContext(r.Context(), user)))
		})
	}
}

func roleAllowed(role domainauth.Role, allowed []domainauth.Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

func (g *Guard) loading(w http.ResponseWriter, r *http.Request) {
	if IsBrowserRequest(r) {
		g.Renderer.Loading(w)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusServiceUnavailable,
		ErrCode: "authentication_in_progress",
		Err:     errors.New("authentication in progress"),
	})
}

func (g *Guard) unauthenticated(w http.ResponseWriter, r *http.Request) {
	if IsBrowserRequest(r) {
		redirectToLogin(w, r)
		return
	}
	writeAuthRequired(w)
}

func (g *Guard) forbidden(w http.ResponseWriter, r *http.Request) {
	if IsBrowserRequest(r) {
		http.Redirect(w, r, "/unauthorized", http.StatusFound)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusForbidden,
		ErrCode: "insufficient_permissions",
		Err:     errors.New("insufficient permissions"),
	})
}
