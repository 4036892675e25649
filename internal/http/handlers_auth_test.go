package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, router http.Handler, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandlers_LoginJSON(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postJSON(t, router, "/auth/login", `{"email":"teacher@m007.com","password":"changeme"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var status statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.IsAuthenticated)
	assert.False(t, status.IsLoading)
	require.NotNil(t, status.User)
	assert.Equal(t, "teacher@m007.com", status.User.Email)
	assert.Equal(t, status.User.Role, status.User.Profile)

	var sid string
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			sid = c.Value
		}
	}
	assert.NotEmpty(t, sid, "login must set the session cookie")
}

func TestAuthHandlers_LoginJSON_BadPassword(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postJSON(t, router, "/auth/login", `{"email":"teacher@m007.com","password":"nope"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "login_failed", body["error"])
}

func TestAuthHandlers_LoginJSON_MissingFields(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postJSON(t, router, "/auth/login", `{"email":"teacher@m007.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandlers_LoginForm_RedirectsToDashboard(t *testing.T) {
	router, _ := newTestRouter(t)

	form := url.Values{"email": {"admin@m007.com"}, "password": {"root"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestAuthHandlers_LoginForm_FailureRendersFormAgain(t *testing.T) {
	router, _ := newTestRouter(t)

	form := url.Values{"email": {"admin@m007.com"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid email or password")
	assert.Contains(t, rec.Body.String(), "<form")
}

func TestAuthHandlers_Status(t *testing.T) {
	router, sessions := newTestRouter(t)

	// No cookie: anonymous state, never an error.
	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var status statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.IsAuthenticated)
	assert.Nil(t, status.User)

	// Authenticated cookie: full state.
	cookie := loginAs(t, sessions, "student@m007.com")
	req = httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.IsAuthenticated)
	require.NotNil(t, status.User)
	assert.Equal(t, "student@m007.com", status.User.Email)
}

func TestAuthHandlers_LogoutIsIdempotent(t *testing.T) {
	router, sessions := newTestRouter(t)
	cookie := loginAs(t, sessions, "teacher@m007.com")

	rec := postJSON(t, router, "/auth/logout", "", cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Second logout with the now-dead cookie still succeeds.
	rec = postJSON(t, router, "/auth/logout", "", cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// And without any cookie at all.
	rec = postJSON(t, router, "/auth/logout", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthHandlers_ClearError(t *testing.T) {
	router, sessions := newTestRouter(t)

	sid := "sid-clear"
	store := sessions.Get(t.Context(), sid)
	_, err := store.Login(t.Context(), "teacher@m007.com", "wrong")
	require.Error(t, err)
	require.Error(t, store.Err())

	cookie := &http.Cookie{Name: sessionCookieName, Value: sid}
	rec := postJSON(t, router, "/auth/clear-error", "", cookie)
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.NoError(t, store.Err())
	assert.False(t, store.IsAuthenticated(), "clearing the error must not touch auth state")
}

func TestSanitizeRedirectURI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/teacher", "/teacher"},
		{"/api/payments?status=paid", "/api/payments?status=paid"},
		{"https://evil.example/phish", "/"},
		{"//evil.example", "/"},
		{"relative/path", "/"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeRedirectURI(tt.in), tt.in)
	}
}

// Full browser flow: sign in on the form, land on the role dashboard, get
// bounced off a page for another role.
func TestBrowserLoginFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := srv.Client()
	client.Jar = jar

	form := url.Values{"email": {"teacher@m007.com"}, "password": {"changeme"}}
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/auth/login", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")

	// The client follows redirects: login -> /dashboard -> /teacher.
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/teacher", resp.Request.URL.Path)

	// A teacher poking at the admin page ends up on /unauthorized.
	req, err = http.NewRequest(http.MethodGet, srv.URL+"/admin", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/html")
	resp, err = client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "/unauthorized", resp.Request.URL.Path)
}
